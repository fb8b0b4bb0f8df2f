// Package budget owns the budget state. Every mutation goes through an Engine,
// which serialises writers, keeps readers on copies and hands a snapshot to
// the configured Store after each change.
package budget

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/theirongolddev/balancebuddy/internal/model"
	"github.com/theirongolddev/balancebuddy/internal/pipeline"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Input errors. A rejected call leaves the state untouched.
var (
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrInvalidDueDay = errors.New("due day must be between 1 and 31")
	ErrInvalidName   = errors.New("name must not be empty")
	ErrInvalidType   = errors.New("type must be income or expense")
)

// Store is the persistence collaborator. Load reports found=false when
// nothing has been saved yet.
type Store interface {
	Load() (st model.State, found bool, err error)
	Save(st model.State) error
}

// Updater is a Store that can apply a change against the latest persisted
// state under its own lock. Engines sharing such a store across processes
// see each other's writes.
type Updater interface {
	Update(fn func(st *model.State, found bool) bool) error
}

// Config wires an Engine. Only Store is usually set outside tests.
type Config struct {
	Store  Store
	Logger *zerolog.Logger
	Now    func() time.Time
	NewID  func() string
}

// Engine is the single owner of a budget State.
type Engine struct {
	mu      sync.Mutex
	state   model.State
	store   Store
	log     zerolog.Logger
	now     func() time.Time
	newID   func() string
	saveErr error
}

// New loads the prior state from cfg.Store (or starts empty) and applies
// the monthly rollover before returning.
func New(cfg Config) (*Engine, error) {
	e := &Engine{
		store: cfg.Store,
		log:   zerolog.Nop(),
		now:   cfg.Now,
		newID: cfg.NewID,
	}
	if cfg.Logger != nil {
		e.log = *cfg.Logger
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.newID == nil {
		e.newID = func() string { return uuid.NewString() }
	}

	e.state = model.NewState(e.now())
	if e.store != nil {
		st, found, err := e.store.Load()
		if err != nil {
			return nil, fmt.Errorf("loading budget state: %w", err)
		}
		if found {
			if err := st.Validate(); err != nil {
				return nil, fmt.Errorf("loading budget state: %w", err)
			}
			e.state = st.Clone()
		}
	}

	e.Rollover()
	return e, nil
}

// State returns a copy of the current state.
func (e *Engine) State() model.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Summary derives the dashboard values from the current state.
func (e *Engine) Summary(opts pipeline.Options) model.Summary {
	return pipeline.Derive(e.State(), e.now(), opts)
}

// Transactions returns the ledger entries matching f, newest first.
func (e *Engine) Transactions(f pipeline.TxFilter) []model.Transaction {
	return pipeline.FilterTransactions(e.State().Transactions, f)
}

// LastSaveError returns the error from the most recent save, if it failed.
// Failed saves never roll back the in-memory state.
func (e *Engine) LastSaveError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saveErr
}

// Refresh replaces the in-memory state with the stored one, picking up
// writes made by other processes. A store with nothing saved leaves the
// state as is.
func (e *Engine) Refresh() error {
	if e.store == nil {
		return nil
	}
	st, found, err := e.store.Load()
	if err != nil {
		return fmt.Errorf("reloading budget state: %w", err)
	}
	if !found {
		return nil
	}
	if err := st.Validate(); err != nil {
		return fmt.Errorf("reloading budget state: %w", err)
	}
	e.mu.Lock()
	e.state = st.Clone()
	e.mu.Unlock()
	return nil
}

// Rollover resets the monthly flags when the calendar month has changed
// since the stored period marker. Running it again in the same month is a
// no-op. It reports whether a rollover happened.
func (e *Engine) Rollover() bool {
	now := e.now()
	changed := e.apply("rollover", func(s *model.State) bool {
		return s.Rollover(now)
	})
	if changed {
		month, year := model.PeriodOf(now)
		e.log.Info().Int("month", month+1).Int("year", year).Msg("monthly rollover applied")
	}
	return changed
}

// apply runs fn against a copy of the state and swaps it in when fn reports
// a change, then persists the result.
func (e *Engine) apply(op string, fn func(s *model.State) bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if u, ok := e.store.(Updater); ok {
		return e.applyStored(op, u, fn)
	}

	next := e.state.Clone()
	if !fn(&next) {
		e.log.Debug().Str("op", op).Msg("no change")
		return false
	}
	e.state = next
	e.log.Debug().Str("op", op).Str("balance", next.Balance.String()).Msg("applied")

	if e.store == nil {
		return true
	}
	if err := e.store.Save(e.state.Clone()); err != nil {
		e.saveErr = err
		e.log.Error().Err(err).Str("op", op).Msg("saving budget state failed")
	} else {
		e.saveErr = nil
	}
	return true
}

// applyStored runs fn against the freshest stored state inside the store's
// update lock. If the store fails, the change still lands in memory and the
// error is kept for LastSaveError.
func (e *Engine) applyStored(op string, u Updater, fn func(s *model.State) bool) bool {
	now := e.now()
	var (
		next    model.State
		ran     bool
		changed bool
	)
	err := u.Update(func(st *model.State, found bool) bool {
		base := model.NewState(now)
		if found {
			base = st.Clone()
		}
		rolled := base.Rollover(now)
		changed = fn(&base) || rolled
		next, ran = base, true
		*st = base.Clone()
		return changed
	})

	if err != nil {
		if !ran {
			next = e.state.Clone()
			changed = fn(&next)
		}
		if changed {
			e.state = next
		}
		e.saveErr = err
		e.log.Error().Err(err).Str("op", op).Msg("saving budget state failed")
		return changed
	}

	e.state = next
	if !changed {
		e.log.Debug().Str("op", op).Msg("no change")
		return false
	}
	e.saveErr = nil
	e.log.Debug().Str("op", op).Str("balance", next.Balance.String()).Msg("applied")
	return true
}
