package tui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/aretw0/edgebridge/pkg/catalog"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

// RenderCatalog writes the manifest as Markdown, styled when w is a terminal.
func RenderCatalog(w io.Writer, m catalog.Manifest) error {
	md := CatalogMarkdown(m)
	if !IsTerminal(w) {
		_, err := io.WriteString(w, md)
		return err
	}

	render, err := NewRenderer()
	if err != nil {
		return err
	}
	out, err := render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// CatalogMarkdown documents every command, variant and resource.
func CatalogMarkdown(m catalog.Manifest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Commands\n\nLengths in `%s`, angles in `%s`.\n", m.Units.Linear, m.Units.Angular)

	for _, cmd := range m.Commands {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n\n", cmd.Name, cmd.Description)
		fmt.Fprintf(&b, "Select with `%s` (default `%s`).\n\n", cmd.Discriminator, cmd.Default)
		b.WriteString("| variant | effect | requires | parameters |\n|---|---|---|---|\n")
		for _, v := range cmd.Variants {
			fmt.Fprintf(&b, "| `%s` | %s | %s | %s |\n", v.Value, v.Effect, v.Scope, params(v.Params))
		}
	}

	b.WriteString("\n# Resources\n\n| URI | description |\n|---|---|\n")
	for _, r := range m.Resources {
		fmt.Fprintf(&b, "| `%s` | %s |\n", r.URI, r.Description)
	}
	return b.String()
}

func params(ps []catalog.ParamEntry) string {
	if len(ps) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		s := p.Name
		if p.Unit != "" {
			s += " [" + p.Unit + "]"
		}
		if !p.Required {
			s += "?"
		}
		parts = append(parts, s)
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
