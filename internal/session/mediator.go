package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/romdeck/romdeck/internal/domain"
)

// FilePrompter is the manual tier's read side: ask the user to pick a file
// and return its binary content (consumer-defined interface).
type FilePrompter interface {
	PickFile(ctx context.Context) (name string, data []byte, err error)
}

// FileExporter is the manual tier's write side: hand the content back to the
// user as a plain file.
type FileExporter interface {
	Export(fileName string, data []byte) error
}

// LoadResult is the typed outcome of a load: the content and which tier it
// actually came from.
type LoadResult struct {
	Data []byte
	Tier domain.LoadTier
}

// PersistResult is the typed outcome of a persist: the tier that ended up
// holding the authoritative copy, plus the remote error when the remote tier
// was attempted and failed.
type PersistResult struct {
	Tier      domain.LoadTier
	RemoteErr error
}

// Mediator reconciles one asset kind (save or state) for a single play
// session across three persistence tiers: remote API, local store, manual
// file. Remote is authoritative; the order is fixed.
//
// The mediator is UNBOUND until a remote record exists for the session, then
// BOUND: the first successful upload promotes it, carrying the identity the
// server assigned.
type Mediator struct {
	kind     domain.AssetKind
	assets   domain.AssetClient
	store    domain.AssetStore
	notifier domain.Notifier
	prompter FilePrompter
	exporter FileExporter
	logger   *slog.Logger

	rom        domain.Rom
	record     domain.Asset // zero ID = UNBOUND
	screenshot domain.Asset
	core       domain.EmulatorCore
}

// NewMediator creates a mediator for one asset kind. store, notifier,
// prompter and exporter may each be nil; a nil tier simply reports no
// capability.
func NewMediator(kind domain.AssetKind, assets domain.AssetClient, store domain.AssetStore, notifier domain.Notifier, prompter FilePrompter, exporter FileExporter, logger *slog.Logger) *Mediator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mediator{
		kind:     kind,
		assets:   assets,
		store:    store,
		notifier: notifier,
		prompter: prompter,
		exporter: exporter,
		logger:   logger,
	}
}

// Bind rebinds the mediator to a new session's rom, prior record (zero Asset
// when none exists), and emulator core. Discards all previous session state.
func (m *Mediator) Bind(rom domain.Rom, record domain.Asset, core domain.EmulatorCore) {
	m.rom = rom
	m.record = record
	m.screenshot = domain.Asset{}
	if record.ScreenshotID != 0 {
		m.screenshot = domain.Asset{ID: record.ScreenshotID, RomID: rom.ID}
	}
	m.core = core
}

// Bound reports whether a remote record exists for this session
func (m *Mediator) Bound() bool { return m.record.Persisted() }

// Record returns the current remote record reference
func (m *Mediator) Record() domain.Asset { return m.record }

// storeKey is the local-tier lookup key, derived from the emulator core's
// canonical base name.
func (m *Mediator) storeKey() string {
	if m.core != nil {
		if base := m.core.BaseName(); base != "" {
			return base
		}
	}
	return m.rom.BaseName()
}

// LoadStored resolves content from the synced tiers only: remote record,
// then local store. Remote wins because it is the authoritative synced copy.
// The automatic initial load goes through here; the manual tier is reserved
// for an explicit user gesture, otherwise an unrelated file from the download
// directory could silently become another rom's save.
func (m *Mediator) LoadStored(ctx context.Context) (LoadResult, error) {
	if m.record.Persisted() {
		data, err := m.assets.DownloadAsset(ctx, m.record.DownloadPath)
		if err == nil {
			m.logger.Debug("loaded from remote", "kind", m.kind.String(), "file", m.record.FileName)
			return LoadResult{Data: data, Tier: domain.TierRemote}, nil
		}
		m.logger.Warn("remote load failed, falling back", "kind", m.kind.String(), "error", err)
	}

	if m.store != nil && m.store.Supported() {
		if data, ok := m.store.Get(m.kind, m.storeKey()); ok {
			m.logger.Debug("loaded from local store", "kind", m.kind.String(), "key", m.storeKey())
			return LoadResult{Data: data, Tier: domain.TierLocal}, nil
		}
	}

	return LoadResult{}, domain.ErrNoFallback
}

// Load resolves content through the full tier ladder: the synced tiers, then
// the manual file prompt.
func (m *Mediator) Load(ctx context.Context) (LoadResult, error) {
	if res, err := m.LoadStored(ctx); err == nil {
		return res, nil
	}

	if m.prompter == nil {
		return LoadResult{}, domain.ErrNoFallback
	}
	_, data, err := m.prompter.PickFile(ctx)
	if err != nil {
		// Prompt failures are the ladder's end; the caller decides.
		return LoadResult{}, fmt.Errorf("manual %s load failed: %w", m.kind, err)
	}
	return LoadResult{Data: data, Tier: domain.TierManual}, nil
}

// Persist writes new content from the emulator core. The local store is
// written first, best-effort, so a remote failure never loses the bytes;
// then the remote tier drives the user-visible outcome.
func (m *Mediator) Persist(ctx context.Context, data, screenshot []byte) PersistResult {
	m.writeLocal(data)

	var remoteErr error
	if m.record.Persisted() {
		remoteErr = m.updateRemote(ctx, data, screenshot)
	} else {
		remoteErr = m.createRemote(ctx, data, screenshot)
	}

	if remoteErr == nil {
		m.notify(domain.SuccessNotification(
			fmt.Sprintf("%s synced to server as %s", m.kind, m.record.FileName)))
		return PersistResult{Tier: domain.TierRemote}
	}

	m.logger.Error("remote persist failed", "kind", m.kind.String(), "error", remoteErr)

	if m.store != nil && m.store.Supported() {
		// The local write already happened; only the indicator is needed.
		m.notify(domain.Notification{
			Message: fmt.Sprintf("server unreachable, %s kept in local store", m.kind),
			Icon:    "disk", Color: "yellow", Timeout: 6 * time.Second,
		})
		return PersistResult{Tier: domain.TierLocal, RemoteErr: remoteErr}
	}

	fileName := m.record.FileName
	if fileName == "" {
		fileName = buildName(m.kind, m.storeKey(), m.existingAssets())
	}
	if m.exporter != nil {
		if err := m.exporter.Export(fileName, data); err != nil {
			m.logger.Error("manual export failed", "kind", m.kind.String(), "error", err)
			m.notify(domain.ErrorNotification(fmt.Sprintf("failed to keep %s: %v", m.kind, err)))
			return PersistResult{Tier: domain.TierManual, RemoteErr: remoteErr}
		}
		m.notify(domain.Notification{
			Message: fmt.Sprintf("server unreachable, %s exported as %s", m.kind, fileName),
			Icon:    "download", Color: "yellow", Timeout: 6 * time.Second,
		})
	}
	return PersistResult{Tier: domain.TierManual, RemoteErr: remoteErr}
}

// writeLocal is the fire-and-forget local tier write. Failures are silent;
// the remote path must never block on it.
func (m *Mediator) writeLocal(data []byte) {
	if m.store == nil || !m.store.Supported() {
		return
	}
	if err := m.store.Put(m.kind, m.storeKey(), data); err != nil {
		m.logger.Warn("local store write failed", "kind", m.kind.String(), "error", err)
	}
}

// updateRemote refreshes the BOUND record in place, then its screenshot
func (m *Mediator) updateRemote(ctx context.Context, data, screenshot []byte) error {
	updated, err := m.assets.UpdateAsset(ctx, m.kind, m.record, data)
	if err != nil {
		return err
	}
	m.record = updated
	m.syncScreenshot(ctx, screenshot)
	return nil
}

// createRemote uploads a fresh record under a derived unused name and
// promotes the mediator to BOUND with the server-assigned identity.
func (m *Mediator) createRemote(ctx context.Context, data, screenshot []byte) error {
	fileName := buildName(m.kind, m.storeKey(), m.existingAssets())

	batch, err := m.assets.UploadAsset(ctx, m.kind, m.rom.ID, fileName, data)
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		return fmt.Errorf("upload returned no %s records", m.kind)
	}

	// The batch arrives sorted by identity ascending; the last record is
	// the newly created one.
	sort.Slice(batch, func(i, j int) bool { return batch[i].ID < batch[j].ID })
	m.record = batch[len(batch)-1]

	m.syncScreenshot(ctx, screenshot)
	return nil
}

// syncScreenshot updates the attached screenshot record, creating it on
// first persist. Screenshot failures never fail the save itself.
func (m *Mediator) syncScreenshot(ctx context.Context, screenshot []byte) {
	if len(screenshot) == 0 {
		return
	}

	if m.screenshot.Persisted() {
		updated, err := m.assets.UpdateScreenshot(ctx, m.screenshot, screenshot)
		if err != nil {
			m.logger.Warn("screenshot update failed", "kind", m.kind.String(), "error", err)
			return
		}
		m.screenshot = updated
		return
	}

	created, err := m.assets.UploadScreenshot(ctx, m.rom.ID, m.record.FileName+".png", screenshot)
	if err != nil {
		m.logger.Warn("screenshot upload failed", "kind", m.kind.String(), "error", err)
		return
	}
	m.screenshot = created
	m.record.ScreenshotID = created.ID
}

// existingAssets returns the rom's known asset names for this kind
func (m *Mediator) existingAssets() []domain.Asset {
	if m.kind == domain.AssetState {
		return m.rom.States
	}
	return m.rom.Saves
}

func (m *Mediator) notify(n domain.Notification) {
	if m.notifier != nil {
		m.notifier.Notify(n)
	}
}
