package terminal

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/m0n0x41d/fote-terminal/internal/grid"
	"github.com/m0n0x41d/fote-terminal/internal/protocol"
	"github.com/m0n0x41d/fote-terminal/internal/vfs"
	"github.com/m0n0x41d/fote-terminal/internal/world"
)

// Session is everything one operator accumulates: position, clearance,
// revealed entries, history and protocol progress. It owns the tree.
type Session struct {
	ID   string
	Root *vfs.Dir

	cwd  []string
	prev []string
	// hasPrev distinguishes "never moved" from "previous directory is /".
	hasPrev bool

	Clearance  int
	ShowHidden bool
	History    []string
	LiveReads  map[string]int
	LastOpened string
	Protocol   protocol.State
	Grid       *grid.Session

	changes []Change
}

// Change is a protocol transition or clearance raise, drained into the audit log.
type Change struct {
	Operation string
	Actor     string
	Target    string
	Details   string
}

// NewSession starts an operator at / with clearance 1 over root.
func NewSession(root *vfs.Dir) *Session {
	return &Session{
		ID:        uuid.New().String(),
		Root:      root,
		Clearance: 1,
		LiveReads: make(map[string]int),
		Protocol:  protocol.NewState(),
		Grid:      grid.NewSession("."),
	}
}

// Pwd renders the current directory.
func (s *Session) Pwd() string {
	return vfs.Join(s.cwd)
}

// Cwd returns a copy of the current directory segments.
func (s *Session) Cwd() []string {
	return append([]string(nil), s.cwd...)
}

// Viewer is the access-control view of this session.
func (s *Session) Viewer() vfs.Viewer {
	return vfs.Viewer{Clearance: s.Clearance, ShowHidden: s.ShowHidden}
}

// List lists path through the visibility and clearance filters.
func (s *Session) List(path string) ([]string, error) {
	return s.Viewer().List(s.Root, s.cwd, path)
}

// Enter changes directory. Landing exactly on the trigger directory arms a
// dormant protocol.
func (s *Session) Enter(actor, path string) error {
	_, segs, err := s.Viewer().Enter(s.Root, s.cwd, path)
	if err != nil {
		return err
	}
	s.prev, s.hasPrev = s.cwd, true
	s.cwd = segs

	if vfs.Join(segs) == protocol.TriggerDir && s.Protocol.Arm() {
		s.sync()
		s.note(Change{Operation: "arm", Actor: actor, Target: protocol.TriggerDir, Details: s.Protocol.Status()})
	}
	return nil
}

// Back returns to the directory held before the last successful move.
func (s *Session) Back(actor string) (bool, error) {
	if !s.hasPrev {
		return false, nil
	}
	return true, s.Enter(actor, vfs.Join(s.prev))
}

// Open reads a file through the clearance guard. Opening a live file leaks
// the next character of its secret as a new trailing line.
func (s *Session) Open(path string) (string, error) {
	f, abs, err := s.Viewer().Open(s.Root, s.cwd, path)
	if err != nil {
		return "", err
	}
	s.LastOpened = abs

	if f.Live {
		i := s.LiveReads[abs]
		if secret := world.LiveSecret(abs); i < len(secret) {
			f.Content = strings.TrimRightFunc(f.Content, unicode.IsSpace) + "\n" + secret[i:i+1]
		}
		s.LiveReads[abs] = i + 1
	}
	return f.Content, nil
}

// Reveal is the one-way bloom switch.
func (s *Session) Reveal() {
	s.ShowHidden = true
}

func (s *Session) note(c Change) {
	s.changes = append(s.changes, c)
}

func (s *Session) drain() []Change {
	out := s.changes
	s.changes = nil
	return out
}
