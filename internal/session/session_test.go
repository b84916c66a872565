package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/malla/internal/curriculum"
	"github.com/abhisek/malla/internal/progress"
	"github.com/abhisek/malla/internal/store"
)

type recorder struct {
	msgs []string
}

func (r *recorder) Notify(msg string) { r.msgs = append(r.msgs, msg) }

type memEvents struct {
	events []store.ProgressEventData
	err    error
}

func (m *memEvents) AppendProgress(_ context.Context, d store.ProgressEventData) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, d)
	return nil
}

func (m *memEvents) QueryProgress(_ context.Context, opts store.QueryOpts) ([]store.ProgressEvent, error) {
	var out []store.ProgressEvent
	for i := len(m.events) - 1; i >= 0; i-- {
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
		out = append(out, store.ProgressEvent{ID: int64(i + 1), ProgressEventData: m.events[i]})
	}
	return out, nil
}

type failPut struct {
	*progress.MemoryStorage
}

func (failPut) Put(context.Context, string, string) error { return errors.New("disk full") }

func abGraph() *curriculum.Graph {
	return curriculum.Build([]curriculum.Declaration{
		{ID: "A", Label: "Alpha", Unlocks: "B"},
		{ID: "B", Label: "Beta"},
	})
}

type fixture struct {
	sess    *Session
	storage *progress.MemoryStorage
	ps      *progress.Store
	notes   *recorder
	events  *memEvents
}

func newFixture(t *testing.T, g *curriculum.Graph) *fixture {
	t.Helper()
	f := &fixture{
		storage: progress.NewMemoryStorage(),
		notes:   &recorder{},
		events:  &memEvents{},
	}
	f.ps = progress.NewStore(f.storage)
	sess, err := New(context.Background(), g, f.ps,
		WithNotifier(f.notes),
		WithEventRepo(f.events),
	)
	require.NoError(t, err)
	f.sess = sess
	return f
}

func (f *fixture) state(t *testing.T, id string) curriculum.State {
	t.Helper()
	st, err := f.sess.Status(id)
	require.NoError(t, err)
	return st.State
}

func (f *fixture) persisted(t *testing.T) []string {
	t.Helper()
	set, err := f.ps.Load(context.Background())
	require.NoError(t, err)
	return set.IDs()
}

func TestNew_LoadsPersistedProgress(t *testing.T) {
	storage := progress.NewMemoryStorage()
	require.NoError(t, storage.Put(context.Background(), progress.DefaultKey, `{"aprobado":["A"]}`))

	sess, err := New(context.Background(), abGraph(), progress.NewStore(storage))
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, sess.Passed())
	st, _ := sess.Status("B")
	assert.Equal(t, curriculum.StateUnlocked, st.State)
	assert.NotEmpty(t, sess.ID())
}

func TestScenario_StickyPassed(t *testing.T) {
	f := newFixture(t, abGraph())
	ctx := context.Background()

	st, _ := f.sess.Status("B")
	assert.Equal(t, curriculum.StateLocked, st.State)
	assert.Equal(t, []string{"A"}, st.Deficit)

	// Locked click: no change, one notice.
	out, err := f.sess.Toggle(ctx, "B")
	require.NoError(t, err)
	assert.False(t, out.Changed)
	assert.Empty(t, f.sess.Passed())
	require.Len(t, f.notes.msgs, 1)
	assert.Equal(t, `To take "Beta" first pass: Alpha`, f.notes.msgs[0])

	out, err = f.sess.Toggle(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, Outcome{ID: "A", From: curriculum.StateUnlocked, To: curriculum.StatePassed, Changed: true}, out)
	assert.Equal(t, curriculum.StateUnlocked, f.state(t, "B"))

	_, err = f.sess.Toggle(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, f.sess.Passed())
	assert.Equal(t, curriculum.StatePassed, f.state(t, "B"))

	_, err = f.sess.Toggle(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, f.sess.Passed())
	assert.Equal(t, curriculum.StateUnlocked, f.state(t, "A"))
	assert.Equal(t, curriculum.StatePassed, f.state(t, "B"))

	assert.Equal(t, []string{"B"}, f.persisted(t))
	assert.Len(t, f.events.events, 3)
	assert.Equal(t, store.ActionUnpass, f.events.events[2].Action)
	assert.Equal(t, 1, f.events.events[2].PassedCount)
}

func TestToggle_TwiceIsIdentity(t *testing.T) {
	f := newFixture(t, abGraph())
	ctx := context.Background()

	before := f.sess.Passed()
	_, err := f.sess.Toggle(ctx, "A")
	require.NoError(t, err)
	_, err = f.sess.Toggle(ctx, "A")
	require.NoError(t, err)

	assert.Equal(t, before, f.sess.Passed())
	assert.Empty(t, f.persisted(t))
}

func TestToggle_UnknownUnit(t *testing.T) {
	f := newFixture(t, abGraph())

	_, err := f.sess.Toggle(context.Background(), "ZZZ")
	assert.ErrorIs(t, err, ErrUnknownUnit)
	assert.Empty(t, f.notes.msgs)
}

func TestToggle_SaveFailureKeepsState(t *testing.T) {
	ps := progress.NewStore(failPut{progress.NewMemoryStorage()})
	sess, err := New(context.Background(), abGraph(), ps)
	require.NoError(t, err)

	_, err = sess.Toggle(context.Background(), "A")
	assert.ErrorContains(t, err, "disk full")
	assert.Empty(t, sess.Passed())
	st, _ := sess.Status("A")
	assert.Equal(t, curriculum.StateUnlocked, st.State)
}

func TestToggle_SaveFailureKeepsOrder(t *testing.T) {
	ctx := context.Background()
	mem := progress.NewMemoryStorage()
	require.NoError(t, mem.Put(ctx, progress.DefaultKey, `{"aprobado":["A","C","D"]}`))

	g := curriculum.Build([]curriculum.Declaration{{ID: "A"}, {ID: "C"}, {ID: "D"}})
	sess, err := New(ctx, g, progress.NewStore(failPut{mem}))
	require.NoError(t, err)

	_, err = sess.Toggle(ctx, "A")
	require.Error(t, err)
	assert.Equal(t, []string{"A", "C", "D"}, sess.Passed())
}

func TestToggle_EventFailureDoesNotFail(t *testing.T) {
	f := newFixture(t, abGraph())
	f.events.err = errors.New("db locked")

	out, err := f.sess.Toggle(context.Background(), "A")
	require.NoError(t, err)
	assert.True(t, out.Changed)
}

func TestLockedNotice(t *testing.T) {
	g := curriculum.Build([]curriculum.Declaration{
		{ID: "A", Label: "Alpha", Unlocks: "C"},
		{ID: "B", Label: "Beta", Unlocks: "C"},
		{ID: "C", Label: "Gamma"},
	})
	f := newFixture(t, g)

	st, _ := f.sess.Status("C")
	assert.Equal(t, `To take "Gamma" first pass: Alpha, Beta`, f.sess.LockedNotice(st))
	assert.Equal(t, `"Gamma" is not available yet.`,
		f.sess.LockedNotice(curriculum.Status{ID: "C", State: curriculum.StateLocked}))
}

func TestReset(t *testing.T) {
	f := newFixture(t, abGraph())
	ctx := context.Background()
	_, err := f.sess.Toggle(ctx, "A")
	require.NoError(t, err)

	var asked string
	cleared, err := f.sess.Reset(ctx, confirmFunc(func(p string) bool { asked = p; return false }))
	require.NoError(t, err)
	assert.False(t, cleared)
	assert.Equal(t, ResetPrompt, asked)
	assert.Equal(t, []string{"A"}, f.sess.Passed())

	cleared, err = f.sess.Reset(ctx, Answer(true))
	require.NoError(t, err)
	assert.True(t, cleared)
	assert.Empty(t, f.sess.Passed())
	assert.Empty(t, f.persisted(t))
	assert.Equal(t, curriculum.StateLocked, f.state(t, "B"))
}

type confirmFunc func(string) bool

func (c confirmFunc) Confirm(p string) bool { return c(p) }

func TestImport(t *testing.T) {
	f := newFixture(t, abGraph())
	ctx := context.Background()

	require.NoError(t, f.sess.Import(ctx, strings.NewReader(`{"aprobado":["A"]}`)))
	assert.Equal(t, []string{"A"}, f.sess.Passed())
	assert.Equal(t, []string{"A"}, f.persisted(t))
	assert.Equal(t, curriculum.StateUnlocked, f.state(t, "B"))

	err := f.sess.Import(ctx, strings.NewReader(`{"foo":1}`))
	assert.ErrorIs(t, err, progress.ErrInvalidDocument)
	assert.Equal(t, []string{"A"}, f.sess.Passed())
	assert.Equal(t, []string{"A"}, f.persisted(t))
}

func TestImport_UnknownIDsNotCounted(t *testing.T) {
	f := newFixture(t, abGraph())

	require.NoError(t, f.sess.Import(context.Background(), strings.NewReader(`{"aprobado":["A","X9"]}`)))
	assert.Equal(t, []string{"A", "X9"}, f.sess.Passed())
	assert.Equal(t, Counts{Passed: 1, Available: 1, Total: 2}, f.sess.Counts())
}

func TestExportImportRoundTrip(t *testing.T) {
	f := newFixture(t, abGraph())
	ctx := context.Background()
	_, _ = f.sess.Toggle(ctx, "A")
	_, _ = f.sess.Toggle(ctx, "B")

	var buf bytes.Buffer
	require.NoError(t, f.sess.Export(&buf))

	other := newFixture(t, abGraph())
	require.NoError(t, other.sess.Import(ctx, &buf))
	assert.Equal(t, f.sess.Passed(), other.sess.Passed())
}

func TestStatuses_ExclusiveAndExhaustive(t *testing.T) {
	f := newFixture(t, abGraph())
	_, _ = f.sess.Toggle(context.Background(), "A")

	statuses := f.sess.Statuses()
	require.Len(t, statuses, 2)
	for _, st := range statuses {
		passed := st.State == curriculum.StatePassed
		locked := st.State == curriculum.StateLocked
		unlocked := st.State == curriculum.StateUnlocked
		assert.Equal(t, 1, btoi(passed)+btoi(locked)+btoi(unlocked), st.ID)
	}
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

func TestHistory(t *testing.T) {
	f := newFixture(t, abGraph())
	ctx := context.Background()
	_, _ = f.sess.Toggle(ctx, "A")
	_, _ = f.sess.Toggle(ctx, "B")

	events, err := f.sess.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "B", events[0].UnitID)
	assert.Equal(t, f.sess.ID(), events[0].SessionID)

	bare, err := New(ctx, abGraph(), progress.NewStore(progress.NewMemoryStorage()))
	require.NoError(t, err)
	_, err = bare.History(ctx, 10)
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestAvailableAndBlockedFollowToggles(t *testing.T) {
	f := newFixture(t, abGraph())
	ctx := context.Background()

	ids := func(units []curriculum.Unit) []string {
		var out []string
		for _, u := range units {
			out = append(out, u.ID)
		}
		return out
	}

	assert.Equal(t, []string{"A"}, ids(f.sess.Available()))
	assert.Equal(t, []string{"B"}, ids(f.sess.Blocked()))
	assert.Equal(t, Counts{Available: 1, Total: 2}, f.sess.Counts())

	_, err := f.sess.Toggle(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, ids(f.sess.Available()))
	assert.Empty(t, f.sess.Blocked())
	assert.Equal(t, Counts{Passed: 1, Available: 1, Total: 2}, f.sess.Counts())
}
