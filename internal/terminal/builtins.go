package terminal

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/m0n0x41d/fote-terminal/atlas"
	"github.com/m0n0x41d/fote-terminal/ecc"
	"github.com/m0n0x41d/fote-terminal/internal/config"
	"github.com/m0n0x41d/fote-terminal/internal/vfs"
	"github.com/m0n0x41d/fote-terminal/internal/world"
)

// Built-in program names, as listed in /bin.
const (
	ProgramPlaintext = "plaintext.exe"
	ProgramGridview  = "gridview.exe"
	ProgramSpectra   = "spectra.exe"
	ProgramECCRepair = "ecc_repair.exe"
	ProgramAim       = "aim.exe"
	ProgramAtlas     = "atlas.exe"
	ProgramTransmit  = "transmit.exe"
	ProgramBlind     = "blind.exe"
)

// Builtins returns a registry holding every /bin program.
func Builtins(cfg *config.Config, a *atlas.Atlas) *Registry {
	b := &builtins{cfg: cfg, atlas: a}
	r := NewRegistry()
	r.Register(ProgramPlaintext, ProgramFunc(b.plaintext))
	r.Register(ProgramGridview, ProgramFunc(b.gridview))
	r.Register(ProgramSpectra, ProgramFunc(b.spectra))
	r.Register(ProgramECCRepair, ProgramFunc(b.eccRepair))
	r.Register(ProgramAim, ProgramFunc(b.aim))
	r.Register(ProgramAtlas, ProgramFunc(b.atlasInfo))
	r.Register(ProgramTransmit, ProgramFunc(b.transmit))
	r.Register(ProgramBlind, ProgramFunc(b.blind))
	return r
}

type builtins struct {
	cfg   *config.Config
	atlas *atlas.Atlas
}

// plaintext loads a pattern into the grid, from a file or from the
// arguments, and keeps a copy in /patterns/user/last.txt.
func (b *builtins) plaintext(_ context.Context, args []string, s *Session) (string, error) {
	if len(args) > 0 && strings.EqualFold(args[0], "load") {
		if len(args) < 2 {
			return "", &PreconditionError{
				Program:    ProgramPlaintext,
				Condition:  "load needs a pattern file",
				Suggestion: "run plaintext.exe load /patterns/reference/glider.txt",
			}
		}
		f, _, err := s.Viewer().Open(s.Root, s.cwd, args[1])
		if err != nil {
			return "", err
		}
		s.Grid.Load(f.Content)
		s.write(world.LastPattern, f.Content)
		return fmt.Sprintf("Pattern loaded from %s.", args[1]), nil
	}

	text := strings.Join(args, " ")
	if text == "" {
		text = "."
	}
	s.Grid.Load(text)
	s.write(world.LastPattern, text)
	return "Pattern loaded into session.", nil
}

// gridview steps the grid. Every accepted next is a generation-advance event.
func (b *builtins) gridview(_ context.Context, args []string, s *Session) (string, error) {
	sub := ""
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
	}
	switch sub {
	case "next":
		out := s.Grid.Next()
		if warn := s.Advance(ProgramGridview); warn != "" {
			out += "\n" + warn
		}
		return out, nil
	case "prev":
		return s.Grid.Prev(), nil
	case "measure":
		m := s.Grid.Measure(b.cfg.Grid.MeasureWindow)
		period, speed := "unknown", "—"
		if m.Period != nil {
			period = fmt.Sprint(*m.Period)
		}
		if m.Speed != nil {
			speed = *m.Speed
		}
		return fmt.Sprintf("period=%s\nheat=%.2f\nvolatility=%.2f%%\nspeed=%s", period, m.Heat, m.Volatility*100, speed), nil
	default:
		return "Usage: run gridview.exe next|prev|measure", nil
	}
}

func (b *builtins) spectra(context.Context, []string, *Session) (string, error) {
	return "λ21cm: stable\nCMB: ripples detected\n(note: visualization omitted in TTY)", nil
}

// eccRepair repairs the field message in place. A path argument repairs
// that file instead, read through the clearance guard.
func (b *builtins) eccRepair(_ context.Context, args []string, s *Session) (string, error) {
	var (
		f   *vfs.File
		err error
	)
	if len(args) > 0 {
		f, _, err = s.Viewer().Open(s.Root, s.cwd, args[0])
	} else {
		f, err = vfs.FindFile(s.Root, world.MessageCor)
		if err != nil {
			err = &PreconditionError{
				Program:    ProgramECCRepair,
				Condition:  "no default message at " + world.MessageCor,
				Suggestion: "run ecc_repair.exe <path>",
			}
		}
	}
	if err != nil {
		return "", err
	}

	res, err := ecc.Repair(f.Content)
	if err != nil {
		return "", err
	}
	_, rest, _ := strings.Cut(f.Content, "\n")
	f.Content = res.Repaired + "\n" + rest
	return fmt.Sprintf("Repaired: %s\nRecovered=%c (ASCII %d)", res.Repaired, res.Recovered, res.ASCII), nil
}

func (b *builtins) aim(_ context.Context, args []string, s *Session) (string, error) {
	return s.Aim(ProgramAim, args), nil
}

func (b *builtins) atlasInfo(context.Context, []string, *Session) (string, error) {
	return fmt.Sprintf("Atlas ready. Loaded %d glyphs at +%d.", len(b.atlas.Glyphs), b.atlas.Generation), nil
}

// transmit renders the phrase in glyph art and writes it to the output file.
// The output directory must already exist.
func (b *builtins) transmit(_ context.Context, args []string, s *Session) (string, error) {
	phrase := strings.Join(args, " ")
	if phrase == "" {
		phrase = b.cfg.Transmit.DefaultPhrase
	}
	out := b.cfg.Transmit.OutputPath
	dir, err := vfs.FindDir(s.Root, path.Dir(out))
	if err != nil {
		return "", &PreconditionError{
			Program:    ProgramTransmit,
			Condition:  "output directory " + path.Dir(out) + " is missing",
			Suggestion: "set transmit.output_path to a file under /out",
		}
	}

	gol := atlas.ComposeFile(phrase, b.atlas, atlas.Options{
		GlyphsPerRow: b.cfg.Transmit.GlyphsPerRow,
		ColSpacing:   b.cfg.Transmit.ColSpacing,
		RowSpacing:   b.cfg.Transmit.RowSpacing,
	})
	if err := dir.Put(&vfs.File{Attrs: vfs.Attrs{Name: path.Base(out)}, Content: gol}); err != nil {
		return "", err
	}
	return fmt.Sprintf("Transmission prepared to %s\n(Preview)\n%s", out, gol), nil
}

// blind purges the atlas and the received message.
func (b *builtins) blind(_ context.Context, _ []string, s *Session) (string, error) {
	s.write(world.AtlasLock, "DELETED")
	s.write(world.MessageGol, "[PURGED]")
	return "Atlas purged and message removed. The satellite goes dark.", nil
}
