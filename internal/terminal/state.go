package terminal

import (
	"fmt"
	"strconv"

	"github.com/m0n0x41d/fote-terminal/internal/protocol"
	"github.com/m0n0x41d/fote-terminal/internal/vfs"
	"github.com/m0n0x41d/fote-terminal/internal/world"
)

// Clearance granted by each defuse path.
const (
	ThresholdClearance = 4
	OverrideClearance  = 5
)

// Advance is the generation-advance hook. It returns the advisory warning,
// or "" when the protocol is not armed or still within the defuse window.
// Only ticks that move the counter are noted; at the cap the warning repeats.
func (s *Session) Advance(actor string) string {
	before := s.Protocol.Generation
	if !s.Protocol.Advance() {
		return ""
	}
	if s.Protocol.Generation != before {
		s.sync()
		s.note(Change{Operation: "advance", Actor: actor, Target: protocol.StatusFile, Details: s.Protocol.Status()})
	}
	return s.Protocol.Warning()
}

// Aim defocuses the collimator: unconditionally with the override code,
// otherwise only while armed at or past the defuse generation.
func (s *Session) Aim(actor string, args []string) string {
	if protocol.MatchesOverride(args) && s.Protocol.Override() {
		s.raiseClearance(actor, OverrideClearance)
		s.sync()
		s.note(Change{Operation: "override", Actor: actor, Target: protocol.FocuserLock, Details: s.Protocol.Status()})
		return "Focuser DISENGAGED permanently."
	}

	gen := s.Protocol.Generation
	if s.Protocol.Defocus() {
		s.raiseClearance(actor, ThresholdClearance)
		s.sync()
		s.note(Change{Operation: "defocus", Actor: actor, Target: protocol.FocuserLock, Details: s.Protocol.Status()})
		return fmt.Sprintf("Alignment dropped at Gen %d/%d. Protocol DISARMED.", gen, protocol.MaxGeneration)
	}
	return "Nothing to defocus."
}

// Calibrate checks a survival/birth rule. A rejected rule changes nothing.
func (s *Session) Calibrate(actor, line string) string {
	laws, ok := protocol.ParseLaws(line)
	if !ok {
		return "Enter laws as: calibrate S:2,3 B:3"
	}
	if !laws.Accepted() {
		return "Calibration rejected."
	}
	s.raiseClearance(actor, protocol.CalibrationClearance)
	s.sync()
	return fmt.Sprintf("Calibration accepted. Clearance = %d.", s.Clearance)
}

// raiseClearance never lowers clearance.
func (s *Session) raiseClearance(actor string, level int) {
	if level <= s.Clearance {
		return
	}
	old := s.Clearance
	s.Clearance = level
	s.note(Change{Operation: "clearance", Actor: actor, Target: world.ClearanceKey, Details: fmt.Sprintf("%d -> %d", old, level)})
}

// sync mirrors session state into the status files. Files missing from the
// tree are skipped.
func (s *Session) sync() {
	s.write(protocol.StatusFile, s.Protocol.Status())
	s.write(protocol.FocuserLock, s.Protocol.Focuser)
	s.write(world.ClearanceKey, strconv.Itoa(s.Clearance))
}

func (s *Session) write(path, content string) {
	if f, err := vfs.FindFile(s.Root, path); err == nil {
		f.Content = content
	}
}

// StatusLine is the countdown shown under every reply once the protocol has
// left DORMANT.
func (s *Session) StatusLine() string {
	if s.Protocol.Phase() == protocol.PhaseDormant {
		return ""
	}
	if f, err := vfs.FindFile(s.Root, protocol.StatusFile); err == nil {
		return f.Content
	}
	return s.Protocol.Status()
}
