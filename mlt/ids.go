package mlt

import "fmt"

// Fixed element ids. Shotcut and existing melt scripts look these up by name.
const (
	MainBinID    = "main_bin"
	BlackID      = "black"
	BackgroundID = "background"
	TexturesID   = "playlist0"
	KeyedID      = "playlist1"
	TractorID    = "tractor0"
)

// HoodieID names the keyed source extract for interval i.
func HoodieID(i int) string { return fmt.Sprintf("hoodie_%02d", i) }

// TextureID names the replacement content producer for interval i.
func TextureID(i int) string { return fmt.Sprintf("texture_%02d", i) }

func ChromaID(i int) string { return fmt.Sprintf("chroma_%02d", i) }

func AlphaID(i int) string { return fmt.Sprintf("alpha_%02d", i) }

// MixID and BlendID name the per-track transitions against track 0.
func MixID(track int) string { return fmt.Sprintf("mix%d", track) }

func BlendID(track int) string { return fmt.Sprintf("qtblend%d", track) }
