/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package highlight

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
)

// Theme assigns CSS colours to token kinds and output states.
type Theme struct {
	// Colors holds a CSS colour per token kind.
	Colors map[Kind]string

	// Bold lists kinds rendered with a heavier weight.
	Bold map[Kind]bool

	// Function is the colour of builtin links in the filter overlay.
	Function string

	// Error is the colour of error outcomes.
	Error string

	// Background is the panel background, used to derive muted colours.
	Background string
}

// DefaultTheme returns the light palette used by every surface.
func DefaultTheme() Theme {
	return Theme{
		Colors: map[Kind]string{
			KindKey:         "#0369a1", // sky-700
			KindString:      "#047857", // emerald-700
			KindNumber:      "#b45309", // amber-700
			KindBoolean:     "#6d28d9", // violet-700
			KindNull:        "#6d28d9",
			KindPunctuation: "#94a3b8", // slate-400
			KindText:        "#0f172a", // slate-900
		},
		Bold:       map[Kind]bool{KindKey: true},
		Function:   "#2563eb",
		Error:      "#b91c1c",
		Background: "#ffffff",
	}
}

// Color returns the colour for kind, falling back to the text colour.
func (t Theme) Color(kind Kind) string {
	if c, ok := t.Colors[kind]; ok {
		return c
	}
	return t.Colors[KindText]
}

// Validate checks that every colour in the theme parses as a CSS colour.
func (t Theme) Validate() error {
	for _, kind := range Kinds() {
		if _, err := csscolorparser.Parse(t.Color(kind)); err != nil {
			return fmt.Errorf("theme colour for %s: %w", kind, err)
		}
	}
	for name, value := range map[string]string{"function": t.Function, "error": t.Error, "background": t.Background} {
		if _, err := csscolorparser.Parse(value); err != nil {
			return fmt.Errorf("theme colour for %s: %w", name, err)
		}
	}
	return nil
}

// Muted returns the text colour blended halfway toward the background,
// used for placeholder and running outcomes.
func (t Theme) Muted() string {
	text, err := colorful.Hex(normalizeHex(t.Color(KindText)))
	if err != nil {
		return t.Color(KindPunctuation)
	}
	bg, err := colorful.Hex(normalizeHex(t.Background))
	if err != nil {
		return t.Color(KindPunctuation)
	}
	return text.BlendLab(bg, 0.5).Clamped().Hex()
}

// CSS renders one rule per token kind plus the outcome and function classes.
func (t Theme) CSS() string {
	var b strings.Builder
	for _, kind := range Kinds() {
		fmt.Fprintf(&b, ".tok-%s { color: %s;", kind, t.Color(kind))
		if t.Bold[kind] {
			b.WriteString(" font-weight: 600;")
		}
		b.WriteString(" }\n")
	}
	fmt.Fprintf(&b, ".tok-function { color: %s; text-decoration: underline; }\n", t.Function)
	fmt.Fprintf(&b, ".outcome-error { color: %s; }\n", t.Error)
	muted := t.Muted()
	fmt.Fprintf(&b, ".outcome-placeholder, .outcome-running { color: %s; }\n", muted)
	return b.String()
}

// normalizeHex converts any CSS colour to #rrggbb so go-colorful can read it.
func normalizeHex(value string) string {
	c, err := csscolorparser.Parse(value)
	if err != nil {
		return value
	}
	return c.HexString()[:7]
}
