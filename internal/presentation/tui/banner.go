package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerArt = []string{
	"   ___    _           ___      _    _          ",
	"  | __|__| |__ _ ___ | _ )_ _ (_)__| |__ _ ___ ",
	"  | _|/ _` / _` / -_)| _ \\ '_|| / _` / _` / -_)",
	"  |___\\__,_\\__, \\___||___/_|  |_\\__,_\\__, \\___|",
	"           |___/                     |___/     ",
}

var bannerColors = []string{"#38bdf8", "#22d3ee", "#2dd4bf", "#34d399", "#4ade80"}

// Banner renders the startup banner using the given colour profile.
func Banner(version string, profile termenv.Profile) string {
	var b strings.Builder
	b.WriteString("\n")
	for i, line := range bannerArt {
		b.WriteString(profile.String(line).Foreground(profile.Color(bannerColors[i])).String())
		b.WriteString("\n")
	}
	tag := profile.String(fmt.Sprintf("  v%s  CAD automation bridge", strings.TrimSpace(version))).Faint()
	b.WriteString(tag.String())
	b.WriteString("\n\n")
	return b.String()
}

// PrintBanner writes the banner to w, but only when w is a terminal.
// Stdout carries MCP traffic in stdio mode and must stay clean.
func PrintBanner(w io.Writer, version string) {
	if !IsTerminal(w) {
		return
	}
	fmt.Fprint(w, Banner(version, termenv.ColorProfile()))
}
