package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// Design tokens. Each pair carries the light-theme and dark-theme variant of
// one semantic color; the active theme picks one side at construction so the
// toggle works at runtime without re-detecting the terminal background.
type colorPair struct {
	light string
	dark  string
}

var (
	pairPrimary  = colorPair{"#6B47D9", "#BD93F9"}
	pairText     = colorPair{"#282A36", "#F8F8F2"}
	pairMuted    = colorPair{"#6272A4", "#6272A4"}
	pairAccent   = colorPair{"#0087AF", "#8BE9FD"}
	pairError    = colorPair{"#CC0000", "#FF5555"}
	pairSuccess  = colorPair{"#2E7D32", "#50FA7B"}
	pairWarning  = colorPair{"#B8860B", "#F1FA8C"}
	pairBorder   = colorPair{"#AAAAAA", "#44475A"}
	pairSelBg    = colorPair{"#E6E0FA", "#44475A"}
	pairBarFill  = colorPair{"#6B47D9", "#BD93F9"}
	pairBarTrack = colorPair{"#DDDDDD", "#3A3C4E"}
)

func (p colorPair) color(dark bool) lipgloss.Color {
	if dark {
		return lipgloss.Color(p.dark)
	}
	return lipgloss.Color(p.light)
}

// profile is the terminal color capability, sniffed once at startup. On
// monochrome or non-TTY output the theme drops color attributes so the
// layout still reads.
var profile = colorprofile.Detect(os.Stdout, os.Environ())

func colorCapable() bool {
	return profile != colorprofile.NoTTY && profile != colorprofile.Ascii
}
