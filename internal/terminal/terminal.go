// Package terminal is the operator terminal's command dispatcher: it owns a
// Session, turns input lines into filesystem, protocol and program actions,
// and journals what happened.
package terminal

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/m0n0x41d/fote-terminal/atlas"
	"github.com/m0n0x41d/fote-terminal/db"
	"github.com/m0n0x41d/fote-terminal/internal/config"
)

// Journal receives one entry per command and one audit row per state change.
// *db.Store implements it.
type Journal interface {
	RecordCommand(ctx context.Context, e db.Entry) error
	InsertAuditLog(ctx context.Context, a db.AuditLog) error
}

type Terminal struct {
	session  *Session
	programs *Registry
	journal  Journal
	logger   *zap.Logger
	seq      int64
}

type Option func(*Terminal)

// WithJournal records commands and state changes into j.
func WithJournal(j Journal) Option {
	return func(t *Terminal) { t.journal = j }
}

func WithLogger(l *zap.Logger) Option {
	return func(t *Terminal) { t.logger = l }
}

// WithRegistry replaces the built-in programs.
func WithRegistry(r *Registry) Option {
	return func(t *Terminal) { t.programs = r }
}

// New wires a terminal around s. Without options it runs the built-in
// programs, logs nothing and keeps no journal.
func New(s *Session, cfg *config.Config, opts ...Option) *Terminal {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	t := &Terminal{session: s, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	if t.programs == nil {
		t.programs = Builtins(cfg, atlas.Default())
	}
	return t
}

func (t *Terminal) Session() *Session { return t.session }

func (t *Terminal) Programs() *Registry { return t.programs }

// Prompt renders "<pwd> $".
func (t *Terminal) Prompt() string {
	return t.session.Pwd() + " $"
}

// Exec dispatches one input line and returns the reply. Failures come back
// as "Error: <message>"; Exec itself never fails.
func (t *Terminal) Exec(ctx context.Context, line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	s := t.session
	s.History = append(s.History, line)
	verb, args := fields[0], fields[1:]
	cwd := s.Pwd()

	t.logger.Debug("dispatch",
		zap.String("verb", verb),
		zap.String("kind", string(KindOf(verb))),
		zap.Strings("args", args),
		zap.String("cwd", cwd))

	out, err := t.dispatch(ctx, verb, args)
	if err != nil {
		t.logger.Debug("command failed", zap.String("verb", verb), zap.Error(err))
		out = "Error: " + display(err)
	}

	t.flushChanges(ctx, line)
	t.record(ctx, cwd, line, out, err != nil)
	return out
}

func (t *Terminal) dispatch(ctx context.Context, verb string, args []string) (string, error) {
	s := t.session
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}

	switch verb {
	case "ls":
		names, err := s.List(arg)
		if err != nil {
			return "", err
		}
		return strings.Join(names, "\n"), nil
	case "cd":
		if arg == "" {
			arg = "/"
		}
		return "", s.Enter(verb, arg)
	case "back":
		moved, err := s.Back(verb)
		if !moved && err == nil {
			return "No previous directory.", nil
		}
		return "", err
	case "open", "cat":
		return s.Open(arg)
	case "run":
		if arg == "" {
			return "Usage: run <program> [args...]", nil
		}
		return t.programs.Run(ctx, arg, args[1:], s)
	case "history":
		return strings.Join(s.History, "\n"), nil
	case "clear":
		return "", nil
	case "help":
		return helpText, nil
	case "bloom":
		s.Reveal()
		return "Hidden entries visible.", nil
	case "calibrate":
		return s.Calibrate(verb, strings.Join(args, " ")), nil
	case "aim":
		return s.Aim(verb, args), nil
	case "atlas", "transmit":
		return t.programs.Run(ctx, Shorthands[verb], args, s)
	default:
		return "Unknown command: " + verb, nil
	}
}

// display renders an error for the operator, sentence-cased.
func display(err error) string {
	msg := err.Error()
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}
