// Package atlas renders phrases as text art built from a fixed table of
// letter glyphs drawn in '.'/'O' cells.
package atlas

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed glyphs.yaml
var glyphsYAML []byte

// Blank fills glyph cells and spacing.
const Blank = "."

// Atlas maps upper-case letters to equal-sized glyphs.
type Atlas struct {
	GridSize   [2]int              `yaml:"grid_size"`
	Generation int                 `yaml:"generation"`
	Glyphs     map[string][]string `yaml:"glyphs"`
}

// Width of a glyph in cells; 5 when undeclared.
func (a *Atlas) Width() int {
	if a.GridSize[0] > 0 {
		return a.GridSize[0]
	}
	return 5
}

// Height of a glyph in rows; 5 when undeclared.
func (a *Atlas) Height() int {
	if a.GridSize[1] > 0 {
		return a.GridSize[1]
	}
	return 5
}

// Glyph returns the rows for r sized to the grid, or a blank glyph when r is
// not in the atlas. Missing rows and cells are blank; overlong ones are cut.
func (a *Atlas) Glyph(r rune) []string {
	rows := a.Glyphs[string(r)]
	out := make([]string, a.Height())
	for i := range out {
		row := ""
		if i < len(rows) {
			row = rows[i]
		}
		if len(row) > a.Width() {
			row = row[:a.Width()]
		}
		out[i] = row + strings.Repeat(Blank, a.Width()-len(row))
	}
	return out
}

// Validate checks every glyph against the declared grid size.
func (a *Atlas) Validate() error {
	for letter, rows := range a.Glyphs {
		if len(rows) != a.Height() {
			return fmt.Errorf("glyph %s: %d rows, want %d", letter, len(rows), a.Height())
		}
		for i, row := range rows {
			if len(row) != a.Width() {
				return fmt.Errorf("glyph %s row %d: width %d, want %d", letter, i, len(row), a.Width())
			}
		}
	}
	return nil
}

// Parse decodes an atlas from YAML.
func Parse(data []byte) (*Atlas, error) {
	var a Atlas
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse atlas: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Default returns the embedded letter atlas.
func Default() *Atlas {
	a, err := Parse(glyphsYAML)
	if err != nil {
		panic(err)
	}
	return a
}
