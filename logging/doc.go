// Package logging builds the slog loggers used across keyswap.
//
// Two formats are supported: a compact console format for people and a JSON
// format for machines. Components tag their records with a "component"
// attribute which the console handler lifts into the line header.
package logging
