package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	armedAt := func(gen int) State {
		s := NewState()
		s.Armed = true
		s.Generation = gen
		return s
	}
	defused := NewState()
	defused.Defused = true

	tests := []struct {
		name    string
		state   State
		trigger Trigger
		want    bool
	}{
		{"arm_from_dormant", NewState(), TriggerArm, true},
		{"arm_when_armed", armedAt(2), TriggerArm, false},
		{"arm_when_defused", defused, TriggerArm, false},
		{"advance_when_dormant", NewState(), TriggerAdvance, false},
		{"advance_when_armed", armedAt(0), TriggerAdvance, true},
		{"advance_when_defused", defused, TriggerAdvance, false},
		{"defocus_below_threshold", armedAt(2), TriggerDefocus, false},
		{"defocus_at_threshold", armedAt(3), TriggerDefocus, true},
		{"defocus_dormant", NewState(), TriggerDefocus, false},
		{"override_dormant", NewState(), TriggerOverride, true},
		{"override_armed_gen0", armedAt(0), TriggerOverride, true},
		{"override_defused", defused, TriggerOverride, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := tt.state.CanTransition(tt.trigger)
			if got != tt.want {
				t.Errorf("CanTransition(%s) from %s = %v (%s), want %v", tt.trigger, tt.state.Phase(), got, reason, tt.want)
			}
		})
	}
}

func TestArmAdvanceDefocus(t *testing.T) {
	s := NewState()
	assert.Equal(t, PhaseDormant, s.Phase())
	assert.Equal(t, "GEN: 0/19 (DISARMED)", s.Status())

	require.True(t, s.Arm())
	assert.Equal(t, PhaseArmed, s.Phase())
	assert.Equal(t, "GEN: 0/19 (ARMED)", s.Status())

	for i := 0; i < 3; i++ {
		require.True(t, s.Advance())
	}
	assert.Equal(t, 3, s.Generation)
	assert.Empty(t, s.Warning())

	require.True(t, s.Defocus())
	assert.Equal(t, PhaseDefused, s.Phase())
	assert.Equal(t, FocuserDisengaged, s.Focuser)
	assert.Equal(t, "GEN: 3/19 (DISARMED)", s.Status())

	assert.False(t, s.Arm(), "defused is absorbing")
	assert.False(t, s.Advance())
	assert.Equal(t, 3, s.Generation)
}

func TestGenerationBounds(t *testing.T) {
	s := NewState()
	require.True(t, s.Arm())
	prev := s.Generation
	for i := 0; i < 40; i++ {
		s.Advance()
		assert.LessOrEqual(t, s.Generation, MaxGeneration)
		assert.GreaterOrEqual(t, s.Generation, prev)
		prev = s.Generation
	}
	assert.Equal(t, MaxGeneration, s.Generation)
	assert.Equal(t, "[WARN] Protocol beyond Gen 3 (19/19). Use 'aim' to defocus.", s.Warning())
}

func TestOverride(t *testing.T) {
	s := NewState()
	require.True(t, s.Override())
	assert.True(t, s.Defused)
	assert.False(t, s.Armed)
	assert.False(t, s.Arm())

	armed := NewState()
	armed.Arm()
	require.True(t, armed.Override())
	assert.Equal(t, 0, armed.Generation)
	assert.Equal(t, PhaseDefused, armed.Phase())
}

func TestMatchesOverride(t *testing.T) {
	assert.True(t, MatchesOverride([]string{"STRANGELET_LENS.OFF"}))
	assert.True(t, MatchesOverride([]string{"now", "STRANGELET_LENS.OFF"}))
	assert.False(t, MatchesOverride(nil))
	assert.False(t, MatchesOverride([]string{"strangelet_lens.off"}))
}

func TestParseLaws(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		ok       bool
		accepted bool
	}{
		{"canonical", "S:2,3 B:3", true, true},
		{"reordered_with_duplicates", "B:3,3 S:3,2,2", true, true},
		{"lowercase_labels", "s: 2,3 b: 3", true, true},
		{"wrong_survival", "S:1,2 B:3", true, false},
		{"wrong_birth", "S:2,3 B:3,6", true, false},
		{"missing_birth", "S:2,3", false, false},
		{"empty", "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			laws, ok := ParseLaws(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.accepted, ok && laws.Accepted())
		})
	}
}
