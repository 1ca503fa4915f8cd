package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/romdeck/romdeck/internal/domain"
)

// initialLoadDelay gives the emulator core time to finish init before the
// first save/state content is pushed into it.
const initialLoadDelay = 500 * time.Millisecond

// Session coordinates one play session: a rom, its emulator core, and the
// save/state mediator pair. Starting a new session rebinds everything and
// discards the previous session wholesale.
type Session struct {
	saves  *Mediator
	states *Mediator
	logger *slog.Logger

	autoLoadState bool
	loadDelay     time.Duration

	mu    sync.Mutex
	rom   domain.Rom
	core  domain.EmulatorCore
	timer *time.Timer
}

// NewSession creates a session manager around a mediator pair. autoLoadState
// controls whether the latest state is pushed into the core on start, in
// addition to the save.
func NewSession(saves, states *Mediator, autoLoadState bool, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		saves:         saves,
		states:        states,
		logger:        logger,
		autoLoadState: autoLoadState,
		loadDelay:     initialLoadDelay,
	}
}

// Start rebinds the session to a rom, its prior save/state records (zero
// Asset when none exists), and a freshly created emulator core. Initial loads
// run after a short delay so the core finishes init before content arrives.
func (s *Session) Start(rom domain.Rom, save, state domain.Asset, core domain.EmulatorCore) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}

	s.rom = rom
	s.core = core
	s.saves.Bind(rom, save, core)
	s.states.Bind(rom, state, core)

	s.timer = time.AfterFunc(s.loadDelay, s.initialLoad)
	s.logger.Info("session started", "rom", rom.DisplayName(),
		"boundSave", s.saves.Bound(), "boundState", s.states.Bound())
}

// End stops any pending initial load. The mediators keep their bindings so a
// late save request from the core can still persist.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// initialLoad resolves the save (and, when enabled, the state) from the
// synced tiers and pushes the content into the core. The manual tier is
// deliberately excluded here: it runs only on an explicit restore.
func (s *Session) initialLoad() {
	s.mu.Lock()
	core := s.core
	s.mu.Unlock()
	if core == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if res, err := s.saves.LoadStored(ctx); err == nil {
		if err := core.LoadSave(res.Data); err != nil {
			s.logger.Warn("core rejected save content", "error", err)
		} else {
			s.logger.Debug("initial save loaded", "tier", res.Tier.String())
		}
	} else if !errors.Is(err, domain.ErrNoFallback) {
		s.logger.Warn("initial save load failed", "error", err)
	}

	if !s.autoLoadState {
		return
	}
	if res, err := s.states.LoadStored(ctx); err == nil {
		if err := core.LoadState(res.Data); err != nil {
			s.logger.Warn("core rejected state content", "error", err)
		} else {
			s.logger.Debug("initial state loaded", "tier", res.Tier.String())
		}
	} else if !errors.Is(err, domain.ErrNoFallback) {
		s.logger.Warn("initial state load failed", "error", err)
	}
}

// RestoreSave resolves save content through the full tier ladder, manual
// file prompt included, and pushes it into the core. Explicit user action.
func (s *Session) RestoreSave(ctx context.Context) (LoadResult, error) {
	return s.restore(ctx, s.saves, domain.EmulatorCore.LoadSave)
}

// RestoreState resolves state content through the full tier ladder, manual
// file prompt included, and pushes it into the core. Explicit user action.
func (s *Session) RestoreState(ctx context.Context) (LoadResult, error) {
	return s.restore(ctx, s.states, domain.EmulatorCore.LoadState)
}

func (s *Session) restore(ctx context.Context, m *Mediator, push func(domain.EmulatorCore, []byte) error) (LoadResult, error) {
	s.mu.Lock()
	core := s.core
	s.mu.Unlock()
	if core == nil {
		return LoadResult{}, errors.New("no active session")
	}

	res, err := m.Load(ctx)
	if err != nil {
		return LoadResult{}, err
	}
	if err := push(core, res.Data); err != nil {
		return LoadResult{}, err
	}
	return res, nil
}

// OnSaveRequested persists new save content produced by the core
func (s *Session) OnSaveRequested(ctx context.Context, data, screenshot []byte) PersistResult {
	return s.saves.Persist(ctx, data, screenshot)
}

// OnStateRequested persists new state content produced by the core
func (s *Session) OnStateRequested(ctx context.Context, data, screenshot []byte) PersistResult {
	return s.states.Persist(ctx, data, screenshot)
}

// Saves returns the save-kind mediator
func (s *Session) Saves() *Mediator { return s.saves }

// States returns the state-kind mediator
func (s *Session) States() *Mediator { return s.states }

// Core returns the bound emulator core, nil before the first Start
func (s *Session) Core() domain.EmulatorCore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.core
}

// Rom returns the bound rom
func (s *Session) Rom() domain.Rom {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rom
}
