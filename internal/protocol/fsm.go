// Package protocol implements the arm/defuse autodestruct protocol that is
// woven through filesystem navigation.
package protocol

import (
	"fmt"
	"strings"
)

// Phase definitions
type Phase string

const (
	PhaseDormant Phase = "DORMANT"
	PhaseArmed   Phase = "ARMED"
	PhaseDefused Phase = "DEFUSED"
)

// Trigger names the event driving a transition.
type Trigger string

const (
	TriggerArm      Trigger = "arm"
	TriggerAdvance  Trigger = "advance"
	TriggerDefocus  Trigger = "defocus"
	TriggerOverride Trigger = "override"
)

// Focuser states mirrored into /.eden/locks/focuser.lock.
const (
	FocuserEngaged    = "ENGAGED"
	FocuserDisengaged = "DISENGAGED"
)

const (
	// MaxGeneration is the generation at which the reference pattern goes extinct.
	MaxGeneration = 19
	// DefuseGeneration is the first generation at which defocusing is accepted.
	DefuseGeneration = 3

	TriggerDir  = "/.eden/flower"
	StatusFile  = "/.eden/flower/countdown.gen"
	FocuserLock = "/.eden/locks/focuser.lock"

	// OverrideCode defocuses unconditionally. The same string leaks out of
	// the live CMB log one character per read.
	OverrideCode = "STRANGELET_LENS.OFF"
)

// State is the protocol part of a terminal session.
type State struct {
	Armed      bool   `json:"armed"`
	Defused    bool   `json:"defused"`
	Generation int    `json:"generation"`
	Focuser    string `json:"focuser"`
}

// NewState returns the dormant initial state.
func NewState() State {
	return State{Focuser: FocuserEngaged}
}

// Phase derives the phase from the flags.
func (s State) Phase() Phase {
	switch {
	case s.Defused:
		return PhaseDefused
	case s.Armed:
		return PhaseArmed
	default:
		return PhaseDormant
	}
}

// TransitionRule defines a valid state change
type TransitionRule struct {
	From    Phase
	To      Phase
	Trigger Trigger
}

var rules = []TransitionRule{
	{PhaseDormant, PhaseArmed, TriggerArm},
	{PhaseArmed, PhaseArmed, TriggerAdvance},
	{PhaseArmed, PhaseDefused, TriggerDefocus},
	{PhaseDormant, PhaseDefused, TriggerOverride},
	{PhaseArmed, PhaseDefused, TriggerOverride},
	// A late override still disengages the focuser for good.
	{PhaseDefused, PhaseDefused, TriggerOverride},
}

// CanTransition checks whether trigger may fire from the current state.
func (s State) CanTransition(trigger Trigger) (bool, string) {
	from := s.Phase()
	matched := false
	for _, rule := range rules {
		if rule.From == from && rule.Trigger == trigger {
			matched = true
			break
		}
	}
	if !matched {
		return false, fmt.Sprintf("Invalid transition: %s by %s", from, trigger)
	}
	if trigger == TriggerDefocus && s.Generation < DefuseGeneration {
		return false, fmt.Sprintf("Defocus requires Gen %d/%d, at %d/%d", DefuseGeneration, MaxGeneration, s.Generation, MaxGeneration)
	}
	return true, "OK"
}

// Arm moves a dormant protocol to ARMED at generation 0.
func (s *State) Arm() bool {
	if ok, _ := s.CanTransition(TriggerArm); !ok {
		return false
	}
	s.Armed = true
	s.Generation = 0
	return true
}

// Advance ticks the generation counter while armed. It never passes MaxGeneration.
func (s *State) Advance() bool {
	if ok, _ := s.CanTransition(TriggerAdvance); !ok {
		return false
	}
	s.Generation = min(MaxGeneration, s.Generation+1)
	return true
}

// Defocus is the threshold defuse: armed and at or past DefuseGeneration.
func (s *State) Defocus() bool {
	if ok, _ := s.CanTransition(TriggerDefocus); !ok {
		return false
	}
	s.defuse()
	return true
}

// Override defuses from any non-terminal state.
func (s *State) Override() bool {
	if ok, _ := s.CanTransition(TriggerOverride); !ok {
		return false
	}
	s.defuse()
	return true
}

func (s *State) defuse() {
	s.Armed = false
	s.Defused = true
	s.Focuser = FocuserDisengaged
}

// Warning is the advisory appended to a grid advance past DefuseGeneration.
func (s State) Warning() string {
	if !s.Armed || s.Generation <= DefuseGeneration {
		return ""
	}
	return fmt.Sprintf("[WARN] Protocol beyond Gen %d (%d/%d). Use 'aim' to defocus.", DefuseGeneration, s.Generation, MaxGeneration)
}

// Status renders the countdown file content.
func (s State) Status() string {
	label := "DISARMED"
	if s.Armed {
		label = "ARMED"
	}
	return fmt.Sprintf("GEN: %d/%d (%s)", s.Generation, MaxGeneration, label)
}

// MatchesOverride reports whether any argument token is the override code.
func MatchesOverride(args []string) bool {
	for _, a := range args {
		if strings.TrimSpace(a) == OverrideCode {
			return true
		}
	}
	return false
}
