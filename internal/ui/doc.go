// Package ui holds the color themes shared by the CLI presenter and the TUI.
// The active theme is chosen once at startup from --no-color, NO_COLOR and
// FACTCALC_THEME, and is read through the Color* helpers.
package ui
