// Package config loads keyswap's TOML configuration.
//
// Values start from Default, are overlaid by the config file (by default
// ~/.config/keyswap/config.toml, then ./keyswap.toml), and finally by command
// line flags. Paths are expanded and made absolute during normalization.
package config
