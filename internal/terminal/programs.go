package terminal

import (
	"context"
	"fmt"
	"sort"
)

// Program is an executable from /bin. It may mutate the session and the
// files it owns, and always answers with text.
type Program interface {
	Run(ctx context.Context, args []string, s *Session) (string, error)
}

// ProgramFunc adapts a function to Program.
type ProgramFunc func(ctx context.Context, args []string, s *Session) (string, error)

func (f ProgramFunc) Run(ctx context.Context, args []string, s *Session) (string, error) {
	return f(ctx, args, s)
}

// Registry maps program names to programs.
type Registry struct {
	programs map[string]Program
}

func NewRegistry() *Registry {
	return &Registry{programs: make(map[string]Program)}
}

// Register adds or replaces a program.
func (r *Registry) Register(name string, p Program) {
	r.programs[name] = p
}

func (r *Registry) Lookup(name string) (Program, bool) {
	p, ok := r.programs[name]
	return p, ok
}

// Names returns the registered names sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.programs))
	for name := range r.programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run invokes a program by name.
func (r *Registry) Run(ctx context.Context, name string, args []string, s *Session) (string, error) {
	p, ok := r.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProgram, name)
	}
	return p.Run(ctx, args, s)
}
