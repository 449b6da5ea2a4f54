package main

import "keyswap/cmd"

func main() {
	cmd.Execute()
}
