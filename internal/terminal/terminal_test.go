package terminal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m0n0x41d/fote-terminal/db"
	"github.com/m0n0x41d/fote-terminal/internal/config"
	"github.com/m0n0x41d/fote-terminal/internal/protocol"
	"github.com/m0n0x41d/fote-terminal/internal/vfs"
	"github.com/m0n0x41d/fote-terminal/internal/world"
)

type memJournal struct {
	entries []db.Entry
	audits  []db.AuditLog
	err     error
}

func (m *memJournal) RecordCommand(_ context.Context, e db.Entry) error {
	m.entries = append(m.entries, e)
	return m.err
}

func (m *memJournal) InsertAuditLog(_ context.Context, a db.AuditLog) error {
	m.audits = append(m.audits, a)
	return m.err
}

func newTerminal(t *testing.T) (*Terminal, *memJournal) {
	t.Helper()
	j := &memJournal{}
	term := New(NewSession(world.MustBuild()), config.DefaultConfig(), WithJournal(j))
	return term, j
}

func content(t *testing.T, term *Terminal, path string) string {
	t.Helper()
	f, err := vfs.FindFile(term.Session().Root, path)
	require.NoError(t, err)
	return f.Content
}

func TestBlankInputIsIgnored(t *testing.T) {
	term, j := newTerminal(t)
	ctx := context.Background()

	assert.Equal(t, "", term.Exec(ctx, ""))
	assert.Equal(t, "", term.Exec(ctx, "   \t"))
	assert.Empty(t, term.Session().History)
	assert.Empty(t, j.entries)
}

func TestLsRoot(t *testing.T) {
	term, _ := newTerminal(t)
	ctx := context.Background()

	want := "readme.txt\nhelp.txt\nbin/\nlogs/\nsensors/\nspectra/\npatterns/\nresearch/\nkeys/\nout/"
	assert.Equal(t, want, term.Exec(ctx, "ls"))
	assert.Equal(t, want, term.Exec(ctx, "ls /"))

	// bloom alone does not lift the clearance filter on .eden.
	assert.Equal(t, "Hidden entries visible.", term.Exec(ctx, "bloom"))
	assert.NotContains(t, term.Exec(ctx, "ls"), ".eden/")

	term.Exec(ctx, "calibrate S:2,3 B:3")
	assert.Contains(t, term.Exec(ctx, "ls"), "research/\n.eden/\nkeys/")
}

func TestLsHidesByClearance(t *testing.T) {
	term, _ := newTerminal(t)
	ctx := context.Background()

	assert.Equal(t, "plaintext.exe\ngridview.exe\nspectra.exe\nversion.txt", term.Exec(ctx, "ls /bin"))
	term.Session().Clearance = 6
	assert.Equal(t,
		"plaintext.exe\ngridview.exe\nspectra.exe\necc_repair.exe\naim.exe\natlas.exe\ntransmit.exe\nblind.exe\nversion.txt",
		term.Exec(ctx, "ls /bin"))
}

func TestDispatcherErrors(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"ls /readme.txt", "Error: Not a directory"},
		{"ls /nowhere", "Error: Not a directory"},
		{"cd /nowhere", "Error: No such directory"},
		{"cd /readme.txt", "Error: No such directory"},
		{"cd /.eden", "Error: Insufficient clearance"},
		{"open /nowhere.txt", "Error: No such file"},
		{"cat /bin", "Error: No such file"},
		{"open", "Error: No such file"},
		{"open /logs/mission/parity_notes.txt", "Error: Insufficient clearance"},
		{"run nope.exe", "Error: Unknown program: nope.exe"},
		{"run", "Usage: run <program> [args...]"},
		{"dance", "Unknown command: dance"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			term, _ := newTerminal(t)
			before := term.Session().Pwd()
			assert.Equal(t, tt.want, term.Exec(context.Background(), tt.line))
			assert.Equal(t, before, term.Session().Pwd())
			assert.Equal(t, 1, term.Session().Clearance)
		})
	}
}

func TestCdAndBack(t *testing.T) {
	term, _ := newTerminal(t)
	ctx := context.Background()

	assert.Equal(t, "No previous directory.", term.Exec(ctx, "back"))
	assert.Equal(t, "", term.Exec(ctx, "cd logs/mission"))
	assert.Equal(t, "/logs/mission", term.Session().Pwd())
	assert.Equal(t, "/logs/mission $", term.Prompt())
	assert.Equal(t, "primer.txt", term.Exec(ctx, "ls"))

	term.Exec(ctx, "cd ../ops")
	assert.Equal(t, "/logs/ops", term.Session().Pwd())
	term.Exec(ctx, "back")
	assert.Equal(t, "/logs/mission", term.Session().Pwd())
	term.Exec(ctx, "back")
	assert.Equal(t, "/logs/ops", term.Session().Pwd())

	term.Exec(ctx, "cd")
	assert.Equal(t, "/", term.Session().Pwd())
}

func TestCdRoundTrip(t *testing.T) {
	term, _ := newTerminal(t)
	s := term.Session()
	s.Clearance = 6
	ctx := context.Background()

	var dirs []string
	var walk func(d *vfs.Dir, prefix []string)
	walk = func(d *vfs.Dir, prefix []string) {
		for _, c := range d.Children() {
			if sub, ok := c.(*vfs.Dir); ok {
				p := append(append([]string(nil), prefix...), sub.Name)
				dirs = append(dirs, vfs.Join(p))
				walk(sub, p)
			}
		}
	}
	walk(s.Root, nil)
	require.NotEmpty(t, dirs)

	for _, p := range dirs {
		want, err := vfs.Resolve(s.Root, s.Cwd(), p)
		require.NoError(t, err)
		require.Equal(t, "", term.Exec(ctx, "cd "+p))
		got, err := vfs.Resolve(s.Root, s.Cwd(), ".")
		require.NoError(t, err)
		assert.Same(t, want, got, p)
	}
}

func TestHistory(t *testing.T) {
	term, _ := newTerminal(t)
	ctx := context.Background()

	term.Exec(ctx, "ls")
	term.Exec(ctx, "cd  /bin")
	assert.Equal(t, "ls\ncd  /bin\nhistory", term.Exec(ctx, "history"))
	assert.Equal(t, "", term.Exec(ctx, "clear"))
	assert.Contains(t, term.Exec(ctx, "help"), "open|cat")
}

func TestCalibrate(t *testing.T) {
	tests := []struct {
		line      string
		want      string
		clearance int
	}{
		{"calibrate S:2,3 B:3", "Calibration accepted. Clearance = 2.", 2},
		{"calibrate b:3 s:3,2,2", "Calibration accepted. Clearance = 2.", 2},
		{"calibrate S:1,2 B:3", "Calibration rejected.", 1},
		{"calibrate S:2,3 B:3,6", "Calibration rejected.", 1},
		{"calibrate S:2,3", "Enter laws as: calibrate S:2,3 B:3", 1},
		{"calibrate", "Enter laws as: calibrate S:2,3 B:3", 1},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			term, j := newTerminal(t)
			assert.Equal(t, tt.want, term.Exec(context.Background(), tt.line))
			assert.Equal(t, tt.clearance, term.Session().Clearance)
			if tt.clearance > 1 {
				require.Len(t, j.audits, 1)
				assert.Equal(t, "clearance", j.audits[0].Operation)
				assert.Equal(t, "1 -> 2", j.audits[0].Details)
				assert.Equal(t, "2", content(t, term, world.ClearanceKey))
			} else {
				assert.Empty(t, j.audits)
			}
		})
	}
}

func TestCalibrateNeverLowersClearance(t *testing.T) {
	term, _ := newTerminal(t)
	term.Session().Clearance = 5
	assert.Equal(t, "Calibration accepted. Clearance = 5.", term.Exec(context.Background(), "calibrate S:2,3 B:3"))
	assert.Equal(t, 5, term.Session().Clearance)
}

func TestProtocolThresholdDefuse(t *testing.T) {
	term, j := newTerminal(t)
	s := term.Session()
	ctx := context.Background()

	term.Exec(ctx, "calibrate S:2,3 B:3")
	assert.Equal(t, "Nothing to defocus.", term.Exec(ctx, "aim"))

	require.Equal(t, "", term.Exec(ctx, "cd /.eden/flower"))
	assert.Equal(t, protocol.PhaseArmed, s.Protocol.Phase())
	assert.Equal(t, "GEN: 0/19 (ARMED)", term.Exec(ctx, "cat countdown.gen"))
	assert.Equal(t, "GEN: 0/19 (ARMED)", s.StatusLine())

	term.Exec(ctx, "run plaintext.exe load flower.pln")
	for i := 0; i < 2; i++ {
		term.Exec(ctx, "run gridview.exe next")
	}
	assert.Equal(t, "Nothing to defocus.", term.Exec(ctx, "aim"))
	out := term.Exec(ctx, "run gridview.exe next")
	assert.NotContains(t, out, "[WARN]")
	assert.Equal(t, "GEN: 3/19 (ARMED)", content(t, term, protocol.StatusFile))

	assert.Equal(t, "Alignment dropped at Gen 3/19. Protocol DISARMED.", term.Exec(ctx, "aim"))
	assert.Equal(t, protocol.PhaseDefused, s.Protocol.Phase())
	assert.Equal(t, 4, s.Clearance)
	assert.Equal(t, "GEN: 3/19 (DISARMED)", content(t, term, protocol.StatusFile))
	assert.Equal(t, protocol.FocuserDisengaged, content(t, term, protocol.FocuserLock))
	assert.Equal(t, "4", content(t, term, world.ClearanceKey))

	// DEFUSED is absorbing.
	term.Exec(ctx, "cd /")
	term.Exec(ctx, "cd /.eden/flower")
	term.Exec(ctx, "run gridview.exe next")
	assert.False(t, s.Protocol.Armed)
	assert.Equal(t, 3, s.Protocol.Generation)
	assert.Equal(t, "Nothing to defocus.", term.Exec(ctx, "aim"))

	var ops []string
	for _, a := range j.audits {
		ops = append(ops, a.Operation)
	}
	assert.Equal(t, []string{"clearance", "arm", "advance", "advance", "advance", "clearance", "defocus"}, ops)
	for _, a := range j.audits {
		assert.Len(t, a.InputHash, 16)
		assert.Equal(t, s.ID, a.SessionID)
	}
}

func TestProtocolWarningAndCap(t *testing.T) {
	term, j := newTerminal(t)
	s := term.Session()
	s.Clearance = 2
	ctx := context.Background()

	term.Exec(ctx, "cd /.eden/flower")
	for i := 1; i <= 3; i++ {
		assert.NotContains(t, term.Exec(ctx, "run gridview.exe next"), "[WARN]")
	}
	out := term.Exec(ctx, "run gridview.exe next")
	assert.True(t, strings.HasSuffix(out, "\n[WARN] Protocol beyond Gen 3 (4/19). Use 'aim' to defocus."), out)

	for i := 0; i < 30; i++ {
		term.Exec(ctx, "run gridview.exe next")
	}
	assert.Equal(t, protocol.MaxGeneration, s.Protocol.Generation)
	assert.Equal(t, "GEN: 19/19 (ARMED)", content(t, term, protocol.StatusFile))

	advances := 0
	for _, a := range j.audits {
		if a.Operation == "advance" {
			advances++
		}
	}
	assert.Equal(t, protocol.MaxGeneration, advances)
	assert.Equal(t, "GEN: 19/19 (ARMED)", j.audits[len(j.audits)-1].Details)

	assert.Equal(t, "Alignment dropped at Gen 19/19. Protocol DISARMED.", term.Exec(ctx, "aim"))
}

func TestProtocolOverride(t *testing.T) {
	tests := []struct {
		name  string
		setup []string
	}{
		{"dormant", nil},
		{"armed at gen 0", []string{"calibrate S:2,3 B:3", "cd /.eden/flower"}},
		{"armed at gen 1", []string{"calibrate S:2,3 B:3", "cd /.eden/flower", "run gridview.exe next"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, _ := newTerminal(t)
			s := term.Session()
			ctx := context.Background()
			for _, line := range tt.setup {
				term.Exec(ctx, line)
			}
			gen := s.Protocol.Generation

			assert.Equal(t, "Focuser DISENGAGED permanently.", term.Exec(ctx, "aim "+protocol.OverrideCode))
			assert.Equal(t, protocol.PhaseDefused, s.Protocol.Phase())
			assert.False(t, s.Protocol.Armed)
			assert.Equal(t, gen, s.Protocol.Generation)
			assert.Equal(t, 5, s.Clearance)
			assert.Equal(t, protocol.FocuserDisengaged, content(t, term, protocol.FocuserLock))
			assert.Contains(t, content(t, term, protocol.StatusFile), "(DISARMED)")

			term.Exec(ctx, "cd /.eden/flower")
			assert.Equal(t, protocol.PhaseDefused, s.Protocol.Phase())
		})
	}
}

func TestOverrideNeedsExactToken(t *testing.T) {
	term, _ := newTerminal(t)
	assert.Equal(t, "Nothing to defocus.", term.Exec(context.Background(), "aim strangelet_lens.off"))
	assert.Equal(t, "Nothing to defocus.", term.Exec(context.Background(), "aim STRANGELET_LENS"))
	assert.Equal(t, 1, term.Session().Clearance)
}

func TestAimProgramMatchesVerb(t *testing.T) {
	term, j := newTerminal(t)
	assert.Equal(t, "Focuser DISENGAGED permanently.", term.Exec(context.Background(), "run aim.exe "+protocol.OverrideCode))
	require.NotEmpty(t, j.audits)
	assert.Equal(t, ProgramAim, j.audits[len(j.audits)-1].Actor)
}

func TestLiveFileLeaksSecret(t *testing.T) {
	term, _ := newTerminal(t)
	s := term.Session()
	ctx := context.Background()

	first := term.Exec(ctx, "open /sensors/cmb.txt")
	assert.True(t, strings.HasSuffix(first, "continues.)\nS"), first)
	second := term.Exec(ctx, "cat /sensors/../sensors/cmb.txt")
	assert.True(t, strings.HasSuffix(second, "continues.)\nS\nT"), second)
	assert.Equal(t, 2, s.LiveReads[world.CMBLog])
	assert.Equal(t, world.CMBLog, s.LastOpened)

	for i := 0; i < 30; i++ {
		term.Exec(ctx, "open /sensors/cmb.txt")
	}
	final := term.Exec(ctx, "open /sensors/cmb.txt")
	_, tail, ok := strings.Cut(final, "continues.)\n")
	require.True(t, ok)
	assert.Equal(t, protocol.OverrideCode, strings.ReplaceAll(tail, "\n", ""))
	assert.Equal(t, 33, s.LiveReads[world.CMBLog])
}

func TestNonLiveFileIsStable(t *testing.T) {
	term, _ := newTerminal(t)
	ctx := context.Background()
	first := term.Exec(ctx, "open /readme.txt")
	assert.Equal(t, first, term.Exec(ctx, "open /readme.txt"))
	assert.Empty(t, term.Session().LiveReads)
}

func TestJournal(t *testing.T) {
	term, j := newTerminal(t)
	ctx := context.Background()

	term.Exec(ctx, "ls")
	term.Exec(ctx, "cd /nowhere")
	term.Exec(ctx, "cd bin")

	require.Len(t, j.entries, 3)
	assert.Equal(t, int64(1), j.entries[0].Seq)
	assert.False(t, j.entries[0].Failed)
	assert.True(t, j.entries[1].Failed)
	assert.Equal(t, "Error: No such directory", j.entries[1].Output)
	assert.Equal(t, "/", j.entries[2].Cwd)
	assert.NotEqual(t, j.entries[0].ID, j.entries[1].ID)
}

func TestJournalFailureDoesNotBreakDispatch(t *testing.T) {
	term, j := newTerminal(t)
	j.err = errors.New("disk full")
	assert.Equal(t, "Calibration accepted. Clearance = 2.", term.Exec(context.Background(), "calibrate S:2,3 B:3"))
}

func TestJournalIntoStore(t *testing.T) {
	store, err := db.NewStore(db.MemoryPath)
	require.NoError(t, err)
	defer store.Close()

	term := New(NewSession(world.MustBuild()), nil, WithJournal(store))
	ctx := context.Background()
	term.Exec(ctx, "calibrate S:2,3 B:3")
	term.Exec(ctx, "cd /.eden/flower")

	entries, err := store.Recent(ctx, term.Session().ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "cd /.eden/flower", entries[1].Input)

	trail, err := store.AuditTrail(ctx, term.Session().ID)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, "arm", trail[1].Operation)
	assert.Equal(t, protocol.TriggerDir, trail[1].Target)
}

func TestDisplaySentenceCasesErrors(t *testing.T) {
	assert.Equal(t, "No such directory", display(vfs.ErrNoSuchDirectory))
	assert.Equal(t, "Unknown program: x.exe", display(fmt.Errorf("%w: x.exe", ErrUnknownProgram)))
	assert.Equal(t, "", display(errors.New("")))
}
