package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/abhisek/malla/internal/curriculum"
	"github.com/abhisek/malla/internal/progress"
	"github.com/abhisek/malla/internal/store"
)

// ErrUnknownUnit is returned when an action names a unit the curriculum
// does not declare.
var ErrUnknownUnit = errors.New("unknown unit")

// ErrNoHistory is returned by History when no event log is configured.
var ErrNoHistory = errors.New("progress history is not recorded by this backend")

// ResetPrompt is the question put to a Confirmer before clearing progress.
const ResetPrompt = "Clear all your progress?"

// Notifier shows short transient messages to the user.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

// Notify calls f(msg).
func (f NotifierFunc) Notify(msg string) { f(msg) }

// Confirmer answers yes/no questions.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Answer is a Confirmer that always gives the same answer.
type Answer bool

// Confirm returns the fixed answer.
func (a Answer) Confirm(string) bool { return bool(a) }

// Outcome describes the effect of a toggle.
type Outcome struct {
	ID      string
	From    curriculum.State
	To      curriculum.State
	Changed bool
}

// Counts summarizes progress over the declared units.
type Counts struct {
	Passed    int
	Available int // unlocked and not yet passed
	Total     int
}

// Session couples a curriculum graph with the user's persisted progress.
// It is not safe for concurrent use.
type Session struct {
	id       string
	graph    *curriculum.Graph
	store    *progress.Store
	passed   *progress.Set
	statuses []curriculum.Status
	index    map[string]int

	notifier Notifier
	events   store.EventRepo
	logger   *log.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithNotifier routes locked-unit notices to n.
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithEventRepo records accepted changes in repo.
func WithEventRepo(repo store.EventRepo) Option {
	return func(s *Session) { s.events = repo }
}

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// New loads the persisted passed set and evaluates every unit.
func New(ctx context.Context, graph *curriculum.Graph, ps *progress.Store, opts ...Option) (*Session, error) {
	s := &Session{
		id:       uuid.NewString(),
		graph:    graph,
		store:    ps,
		notifier: NotifierFunc(func(string) {}),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	passed, err := ps.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	s.passed = passed
	s.recompute()

	s.logger.Debug("session started", "session", s.id, "units", graph.Len(), "passed", passed.Len())
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Graph returns the curriculum graph.
func (s *Session) Graph() *curriculum.Graph { return s.graph }

// Passed returns the passed ids in the order they were added.
func (s *Session) Passed() []string { return s.passed.IDs() }

// Statuses returns the status of every unit in declaration order.
func (s *Session) Statuses() []curriculum.Status {
	out := make([]curriculum.Status, len(s.statuses))
	copy(out, s.statuses)
	return out
}

// Status returns the current status of one unit.
func (s *Session) Status(id string) (curriculum.Status, error) {
	i, ok := s.index[id]
	if !ok {
		return curriculum.Status{}, fmt.Errorf("%w: %s", ErrUnknownUnit, id)
	}
	return s.statuses[i], nil
}

// Counts returns how many declared units are passed. Imported ids that
// the curriculum does not declare are not counted.
func (s *Session) Counts() Counts {
	c := Counts{
		Available: len(s.graph.Available(s.passed)),
		Total:     len(s.statuses),
	}
	for _, st := range s.statuses {
		if st.State == curriculum.StatePassed {
			c.Passed++
		}
	}
	return c
}

// Available returns the units that can be passed now, in declaration order.
func (s *Session) Available() []curriculum.Unit {
	return s.graph.Available(s.passed)
}

// Blocked returns the units still waiting on a prerequisite.
func (s *Session) Blocked() []curriculum.Unit {
	return s.graph.Blocked(s.passed)
}

// Toggle clicks a unit. Locked units are left alone and produce a notice;
// unlocked units become passed and passed units become unlocked again.
// Dependents of an un-passed unit keep their own passed state.
func (s *Session) Toggle(ctx context.Context, id string) (Outcome, error) {
	st, err := s.Status(id)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{ID: id, From: st.State, To: st.State}

	prev := s.passed.IDs()
	var action string
	switch st.State {
	case curriculum.StateLocked:
		s.notifier.Notify(s.LockedNotice(st))
		return out, nil
	case curriculum.StateUnlocked:
		s.passed.Add(id)
		action = store.ActionPass
	case curriculum.StatePassed:
		s.passed.Remove(id)
		action = store.ActionUnpass
	}

	if err := s.store.Save(ctx, s.passed); err != nil {
		s.passed = progress.NewSet(prev...)
		return out, err
	}

	s.recompute()
	out.To = s.statuses[s.index[id]].State
	out.Changed = true
	s.record(ctx, action, id)
	return out, nil
}

// Reset clears all progress once c confirms. It reports whether progress
// was cleared.
func (s *Session) Reset(ctx context.Context, c Confirmer) (bool, error) {
	if !c.Confirm(ResetPrompt) {
		return false, nil
	}

	empty := progress.NewSet()
	if err := s.store.Save(ctx, empty); err != nil {
		return false, err
	}
	s.passed = empty
	s.recompute()
	s.record(ctx, store.ActionReset, "")
	return true, nil
}

// Import replaces the passed set with the document read from r. On any
// error the current progress is kept.
func (s *Session) Import(ctx context.Context, r io.Reader) error {
	set, err := s.store.Import(r)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, set); err != nil {
		return err
	}
	s.passed = set
	s.recompute()
	s.record(ctx, store.ActionImport, "")
	return nil
}

// Export writes the passed set as a progress document.
func (s *Session) Export(w io.Writer) error {
	return s.store.Export(w, s.passed)
}

// History returns up to limit recorded changes, newest first.
func (s *Session) History(ctx context.Context, limit int) ([]store.ProgressEvent, error) {
	if s.events == nil {
		return nil, ErrNoHistory
	}
	return s.events.QueryProgress(ctx, store.QueryOpts{Limit: limit})
}

// LockedNotice is the message shown when a locked unit is clicked.
func (s *Session) LockedNotice(st curriculum.Status) string {
	label := s.graph.Label(st.ID)
	if len(st.Deficit) == 0 {
		return fmt.Sprintf("\"%s\" is not available yet.", label)
	}
	return fmt.Sprintf("To take \"%s\" first pass: %s", label, strings.Join(s.graph.Labels(st.Deficit), ", "))
}

func (s *Session) recompute() {
	s.statuses = s.graph.EvaluateAll(s.passed)
	if s.index == nil {
		s.index = make(map[string]int, len(s.statuses))
		for i, st := range s.statuses {
			s.index[st.ID] = i
		}
	}
}

func (s *Session) record(ctx context.Context, action, unitID string) {
	s.logger.Debug("progress changed", "action", action, "unit", unitID, "passed", s.passed.Len())
	if s.events == nil {
		return
	}
	err := s.events.AppendProgress(ctx, store.ProgressEventData{
		SessionID:   s.id,
		Action:      action,
		UnitID:      unitID,
		PassedCount: s.passed.Len(),
	})
	if err != nil {
		s.logger.Warn("could not record progress event", "action", action, "err", err)
	}
}
