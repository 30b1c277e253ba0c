package atlas

import "strings"

// Options control the layout of composed text art.
type Options struct {
	GlyphsPerRow int `yaml:"glyphs_per_row"`
	ColSpacing   int `yaml:"col_spacing"`
	RowSpacing   int `yaml:"row_spacing"`
}

// DefaultOptions is eight glyphs per row with single-cell gutters.
func DefaultOptions() Options {
	return Options{GlyphsPerRow: 8, ColSpacing: 1, RowSpacing: 1}
}

func (o Options) normalized() Options {
	if o.GlyphsPerRow <= 0 {
		o.GlyphsPerRow = 8
	}
	if o.ColSpacing < 0 {
		o.ColSpacing = 1
	}
	if o.RowSpacing < 0 {
		o.RowSpacing = 1
	}
	return o
}

// Compose lays phrase out as rows of glyphs. Spaces and characters the atlas
// lacks degrade to blank glyphs; there is no failure mode.
func Compose(phrase string, a *Atlas, opts Options) string {
	opts = opts.normalized()

	var groups [][][]string
	var current [][]string
	for _, r := range strings.ToUpper(phrase) {
		current = append(current, a.Glyph(r))
		if len(current) == opts.GlyphsPerRow {
			groups = append(groups, current)
			current = nil
		}
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}

	gutter := strings.Repeat(Blank, opts.ColSpacing)
	var out []string
	for gi, group := range groups {
		for r := 0; r < a.Height(); r++ {
			var line strings.Builder
			for i, glyph := range group {
				if i > 0 {
					line.WriteString(gutter)
				}
				line.WriteString(glyph[r])
			}
			out = append(out, line.String())
		}
		if gi < len(groups)-1 {
			width := len(out[len(out)-1])
			for i := 0; i < opts.RowSpacing; i++ {
				out = append(out, strings.Repeat(Blank, width))
			}
		}
	}
	return strings.Join(out, "\n")
}

// ComposeFile is Compose with the trailing newline a stored file carries.
func ComposeFile(phrase string, a *Atlas, opts Options) string {
	return Compose(phrase, a, opts) + "\n"
}
