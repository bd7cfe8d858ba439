package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/TimelordUK/featview/internal/config"
)

type keyMap struct {
	Quit       key.Binding
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Highlight  key.Binding
	MatchCase  key.Binding
	ToggleHex  key.Binding
	Goto       key.Binding
	Navigable  key.Binding
	Context    key.Binding
	Export     key.Binding
	ViewUp     key.Binding
	ViewDown   key.Binding
	Histograms key.Binding
	TextFilter key.Binding
}

func newKeyMap(kb config.KeybindingConfig) keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys(kb.Quit...), key.WithHelp("q", "quit")),
		Up:         key.NewBinding(key.WithKeys(kb.ScrollUp...)),
		Down:       key.NewBinding(key.WithKeys(kb.ScrollDown...), key.WithHelp("j/k", "move")),
		PageUp:     key.NewBinding(key.WithKeys(kb.PageUp...)),
		PageDown:   key.NewBinding(key.WithKeys(kb.PageDown...), key.WithHelp("f/b", "page")),
		Top:        key.NewBinding(key.WithKeys(kb.Top...)),
		Bottom:     key.NewBinding(key.WithKeys(kb.Bottom...), key.WithHelp("g/G", "top/bottom")),
		Highlight:  key.NewBinding(key.WithKeys(kb.Highlight...), key.WithHelp("/", "highlight")),
		MatchCase:  key.NewBinding(key.WithKeys(kb.MatchCase...), key.WithHelp("c", "case")),
		ToggleHex:  key.NewBinding(key.WithKeys(kb.ToggleHex...), key.WithHelp("x", "hex")),
		Goto:       key.NewBinding(key.WithKeys(kb.Goto...), key.WithHelp(":", "goto")),
		Navigable:  key.NewBinding(key.WithKeys(kb.Navigable...), key.WithHelp("a", "navigable")),
		Context:    key.NewBinding(key.WithKeys(kb.Context...), key.WithHelp("v", "context")),
		Export:     key.NewBinding(key.WithKeys(kb.Export...), key.WithHelp("e", "export")),
		ViewUp:     key.NewBinding(key.WithKeys(kb.ViewUp...)),
		ViewDown:   key.NewBinding(key.WithKeys(kb.ViewDown...)),
		Histograms: key.NewBinding(key.WithKeys(kb.Histograms...), key.WithHelp("H", "histograms")),
		TextFilter: key.NewBinding(key.WithKeys(kb.TextFilter...), key.WithHelp("&", "filter")),
	}
}

// helpLine renders the bindings that carry help text
func (k keyMap) helpLine() string {
	var out string
	for _, b := range []key.Binding{k.Down, k.PageDown, k.Bottom, k.Highlight, k.MatchCase, k.ToggleHex, k.Goto, k.Navigable, k.Histograms, k.TextFilter, k.Context, k.Export, k.Quit} {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		if out != "" {
			out += "  "
		}
		out += h.Key + ":" + h.Desc
	}
	return out
}
