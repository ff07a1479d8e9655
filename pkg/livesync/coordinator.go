package livesync

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/trackboard/trackboard/pkg/schedule"
)

var (
	// ErrEditingElsewhere is returned when a surface tries to acquire the
	// edit state while another surface already holds it.
	ErrEditingElsewhere = errors.New("another surface is editing")
	// ErrNotEditing is returned for edit operations outside an edit session.
	ErrNotEditing = errors.New("no edit in progress")
)

type State int

const (
	StateIdle State = iota
	StateEditing
)

// DefaultDebounceWindow coalesces rapid successive edits into one persist;
// only the last value before the window elapses is written.
const DefaultDebounceWindow = 800 * time.Millisecond

// DefaultGraceDelay tolerates focus transfer between sibling fields: "still
// in an input" on blur is advisory and re-checked after this delay.
const DefaultGraceDelay = 50 * time.Millisecond

type Config struct {
	DebounceWindow time.Duration
	GraceDelay     time.Duration

	// Persist writes the full authoritative lists. On failure the in-memory
	// draft is left unchanged and the failure is surfaced via Notify, never
	// silently dropped.
	Persist func(ctx context.Context, draft schedule.Schedule) error
	// Recompute runs one full derivation cycle from authoritative state.
	Recompute func(ctx context.Context) error
	// EntryExists re-resolves a focused identity after recomputation; a
	// stale identity closes the detail view gracefully.
	EntryExists func(ctx context.Context, id string) bool
	// Notify surfaces persistence failures to the presentation layer.
	Notify func(err error)
}

// Coordinator is the single arbiter of when recomputation may run against
// the authoritative schedule lists. It is the only stateful piece of the
// derivation pipeline: everything downstream is pure and re-entrant, so
// suppression here is sufficient and no further locking exists.
type Coordinator struct {
	cfg Config

	mu        sync.Mutex
	state     State
	surface   string
	focusedID string
	draft     *schedule.Schedule
	dirty     bool
	debounce  *time.Timer
	grace     *time.Timer
	// generation invalidates an in-flight grace check when the surface
	// re-enters the edit state before the check fires.
	generation uint64
}

func NewCoordinator(cfg Config) *Coordinator {
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = DefaultDebounceWindow
	}
	if cfg.GraceDelay <= 0 {
		cfg.GraceDelay = DefaultGraceDelay
	}
	return &Coordinator{cfg: cfg}
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// FocusedID returns the identity the open detail view refers to, empty when
// none (or when the entry vanished during the last recomputation).
func (c *Coordinator) FocusedID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focusedID
}

// BeginEdit transitions Idle → Editing on field focus. A surface may
// re-enter its own session (focus moving between sibling fields); a second
// surface may not take over a held session.
func (c *Coordinator) BeginEdit(surface, entryID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateEditing && c.surface != surface {
		return ErrEditingElsewhere
	}

	// A pending blur check is void once the surface is editing again.
	c.generation++
	if c.grace != nil {
		c.grace.Stop()
		c.grace = nil
	}

	c.state = StateEditing
	c.surface = surface
	c.focusedID = entryID
	log.Debugf("edit started by %s on %s", surface, entryID)
	return nil
}

// Edit records the latest draft of the full authoritative lists and
// (re)arms the debounce window. Earlier drafts within the window are
// discarded: persistence always writes the complete list, so the last
// value is all that matters.
func (c *Coordinator) Edit(surface string, draft schedule.Schedule) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing || c.surface != surface {
		return ErrNotEditing
	}

	c.draft = &draft
	c.dirty = true

	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = time.AfterFunc(c.cfg.DebounceWindow, c.flushDraft)
	return nil
}

// flushDraft persists the pending draft without leaving the edit state.
func (c *Coordinator) flushDraft() {
	c.mu.Lock()
	if !c.dirty || c.draft == nil {
		c.mu.Unlock()
		return
	}
	draft := *c.draft
	c.mu.Unlock()

	if err := c.persist(context.Background(), draft); err != nil {
		return
	}

	c.mu.Lock()
	c.dirty = false
	c.mu.Unlock()
}

// EndEdit is called on blur. The Editing → Idle transition is deferred by
// the grace delay and aborted if the surface focuses another field before
// the delay elapses.
func (c *Coordinator) EndEdit(surface string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing || c.surface != surface {
		return ErrNotEditing
	}

	c.generation++
	generation := c.generation
	if c.grace != nil {
		c.grace.Stop()
	}
	c.grace = time.AfterFunc(c.cfg.GraceDelay, func() {
		c.finishEdit(generation)
	})
	return nil
}

// finishEdit completes the Editing → Idle transition: persist the edited
// authoritative list, run one recomputation cycle, then re-resolve the
// focused identity (it may have been deleted concurrently).
func (c *Coordinator) finishEdit(generation uint64) {
	c.mu.Lock()
	if c.state != StateEditing || c.generation != generation {
		c.mu.Unlock()
		return
	}
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	dirty := c.dirty
	var draft schedule.Schedule
	if c.draft != nil {
		draft = *c.draft
	}
	c.mu.Unlock()

	ctx := context.Background()

	if dirty {
		if err := c.persist(ctx, draft); err != nil {
			// Draft retained; authoritative list untouched. The session
			// stays open so the edit is not lost.
			return
		}
	}

	c.mu.Lock()
	c.state = StateIdle
	c.surface = ""
	c.draft = nil
	c.dirty = false
	focusedID := c.focusedID
	c.mu.Unlock()

	if c.cfg.Recompute != nil {
		if err := c.cfg.Recompute(ctx); err != nil {
			log.Errorf("recomputation after edit failed: %v", err)
		}
	}

	if focusedID != "" && c.cfg.EntryExists != nil && !c.cfg.EntryExists(ctx, focusedID) {
		log.Debugf("focused entry %s vanished during recomputation, closing detail view", focusedID)
		c.mu.Lock()
		c.focusedID = ""
		c.mu.Unlock()
	}
}

func (c *Coordinator) persist(ctx context.Context, draft schedule.Schedule) error {
	if c.cfg.Persist == nil {
		return nil
	}
	if err := c.cfg.Persist(ctx, draft); err != nil {
		log.Errorf("failed to persist schedule edit: %v", err)
		if c.cfg.Notify != nil {
			c.cfg.Notify(err)
		}
		return err
	}
	return nil
}

// HandlePush reacts to an external "something changed" signal. While a
// surface is editing, the signal is dropped, not queued: the next Idle
// transition re-reads the full authoritative state anyway. Reports whether
// a recomputation ran.
func (c *Coordinator) HandlePush(ctx context.Context) bool {
	if !c.AllowRecompute() {
		log.Debug("push suppressed: edit in progress")
		return false
	}
	if c.cfg.Recompute != nil {
		if err := c.cfg.Recompute(ctx); err != nil {
			log.Errorf("push-triggered recomputation failed: %v", err)
		}
	}
	return true
}

// AllowRecompute reports whether externally triggered recomputation (timer
// tick, push) may run right now.
func (c *Coordinator) AllowRecompute() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateIdle
}

// Close stops any armed timers.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.debounce != nil {
		c.debounce.Stop()
	}
	if c.grace != nil {
		c.grace.Stop()
	}
}
