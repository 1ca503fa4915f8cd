package session

import (
	"sync"
	"testing"
	"time"

	"github.com/romdeck/romdeck/internal/domain"
)

// captureCore records what the session feeds it
type captureCore struct {
	mu    sync.Mutex
	base  string
	save  []byte
	state []byte
}

func (c *captureCore) BaseName() string { return c.base }

func (c *captureCore) LoadSave(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.save = data
	return nil
}

func (c *captureCore) LoadState(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = data
	return nil
}

func (c *captureCore) loaded() ([]byte, []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save, c.state
}

func newTestSession(t *testing.T, autoLoadState bool) (*Session, *fakeAssets, *fakeStore) {
	t.Helper()
	assets := &fakeAssets{}
	store := newFakeStore(true)
	saves := NewMediator(domain.AssetSave, assets, store, nil, nil, nil, nil)
	states := NewMediator(domain.AssetState, assets, store, nil, nil, nil, nil)
	s := NewSession(saves, states, autoLoadState, nil)
	s.loadDelay = time.Millisecond
	return s, assets, store
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func TestStartLoadsSaveAndState(t *testing.T) {
	s, _, store := newTestSession(t, true)
	store.Put(domain.AssetSave, "chrono", []byte("savedata"))
	store.Put(domain.AssetState, "chrono", []byte("statedata"))

	core := &captureCore{base: "chrono"}
	s.Start(testRom(), domain.Asset{}, domain.Asset{}, core)

	waitFor(t, func() bool {
		save, state := core.loaded()
		return save != nil && state != nil
	})

	save, state := core.loaded()
	if string(save) != "savedata" {
		t.Fatalf("save = %q", save)
	}
	if string(state) != "statedata" {
		t.Fatalf("state = %q", state)
	}
}

func TestStartSkipsStateWhenDisabled(t *testing.T) {
	s, _, store := newTestSession(t, false)
	store.Put(domain.AssetSave, "chrono", []byte("savedata"))
	store.Put(domain.AssetState, "chrono", []byte("statedata"))

	core := &captureCore{base: "chrono"}
	s.Start(testRom(), domain.Asset{}, domain.Asset{}, core)

	waitFor(t, func() bool {
		save, _ := core.loaded()
		return save != nil
	})

	time.Sleep(20 * time.Millisecond)
	if _, state := core.loaded(); state != nil {
		t.Fatalf("state loaded despite auto-load disabled")
	}
}

func TestEndCancelsPendingLoad(t *testing.T) {
	s, _, store := newTestSession(t, true)
	s.loadDelay = 50 * time.Millisecond
	store.Put(domain.AssetSave, "chrono", []byte("savedata"))

	core := &captureCore{base: "chrono"}
	s.Start(testRom(), domain.Asset{}, domain.Asset{}, core)
	s.End()

	time.Sleep(100 * time.Millisecond)
	if save, _ := core.loaded(); save != nil {
		t.Fatalf("initial load ran after End")
	}
}

func TestInitialLoadNeverPrompts(t *testing.T) {
	// Nothing synced anywhere: the automatic load must give up rather than
	// pull an arbitrary file from the download directory into the core.
	assets := &fakeAssets{}
	prompter := &fakePrompter{name: "other-game.srm", data: []byte("foreign")}
	saves := NewMediator(domain.AssetSave, assets, newFakeStore(false), nil, prompter, nil, nil)
	states := NewMediator(domain.AssetState, assets, newFakeStore(false), nil, prompter, nil, nil)

	s := NewSession(saves, states, true, nil)
	s.loadDelay = time.Millisecond

	core := &captureCore{base: "chrono"}
	s.Start(testRom(), domain.Asset{}, domain.Asset{}, core)

	time.Sleep(50 * time.Millisecond)

	if prompter.picks != 0 {
		t.Fatalf("prompter consulted %d times during the automatic load, want 0", prompter.picks)
	}
	if save, state := core.loaded(); save != nil || state != nil {
		t.Fatalf("core received content with no synced tier: save=%q state=%q", save, state)
	}
}

func TestRestoreSaveReachesManualTier(t *testing.T) {
	assets := &fakeAssets{}
	prompter := &fakePrompter{name: "chrono.srm", data: []byte("manual")}
	saves := NewMediator(domain.AssetSave, assets, newFakeStore(false), nil, prompter, nil, nil)
	states := NewMediator(domain.AssetState, assets, newFakeStore(false), nil, nil, nil, nil)

	s := NewSession(saves, states, false, nil)
	s.loadDelay = time.Millisecond

	core := &captureCore{base: "chrono"}
	s.Start(testRom(), domain.Asset{}, domain.Asset{}, core)

	res, err := s.RestoreSave(t.Context())
	if err != nil {
		t.Fatalf("RestoreSave: %v", err)
	}
	if res.Tier != domain.TierManual {
		t.Fatalf("Tier = %v, want manual", res.Tier)
	}
	if save, _ := core.loaded(); string(save) != "manual" {
		t.Fatalf("core save = %q, want the picked content", save)
	}
}

func TestRestartRebindsMediators(t *testing.T) {
	s, _, _ := newTestSession(t, false)

	core := &captureCore{base: "chrono"}
	s.Start(testRom(), boundRecord(), domain.Asset{}, core)
	if !s.Saves().Bound() {
		t.Fatalf("save mediator should be bound")
	}

	other := domain.Rom{ID: 99, Name: "Earthbound", FileName: "earthbound.sfc"}
	s.Start(other, domain.Asset{}, domain.Asset{}, &captureCore{base: "earthbound"})

	if s.Saves().Bound() {
		t.Fatalf("rebinding must discard the previous record")
	}
	if got := s.Rom().ID; got != 99 {
		t.Fatalf("Rom.ID = %d, want 99", got)
	}
}

func TestOnSaveRequestedPersists(t *testing.T) {
	s, assets, store := newTestSession(t, false)
	assets.uploadBatch = []domain.Asset{{ID: 31, FileName: "chrono.srm"}}

	core := &captureCore{base: "chrono"}
	s.Start(testRom(), domain.Asset{}, domain.Asset{}, core)

	res := s.OnSaveRequested(t.Context(), []byte("fresh"), nil)
	if res.Tier != domain.TierRemote {
		t.Fatalf("Tier = %v, want remote", res.Tier)
	}
	if !s.Saves().Bound() {
		t.Fatalf("save mediator should bind after first persist")
	}
	if data, ok := store.Get(domain.AssetSave, "chrono"); !ok || string(data) != "fresh" {
		t.Fatalf("local write-first missing")
	}
}
