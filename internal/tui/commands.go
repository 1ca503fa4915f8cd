package tui

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/romdeck/romdeck/internal/domain"
	"github.com/romdeck/romdeck/internal/gallery"
	"github.com/romdeck/romdeck/internal/session"
)

// romClient is the slice of the API client the TUI drives directly
// (consumer-defined interface).
type romClient interface {
	GetPlatforms(ctx context.Context) ([]domain.Platform, error)
	DownloadRom(ctx context.Context, rom domain.Rom) ([]byte, error)
	DeleteRoms(ctx context.Context, ids []int, deleteFromFS bool) error
	UploadRom(ctx context.Context, platformID int, fileName string, data []byte) error
}

// Command factories for async operations

// LoadPlatformsCmd loads the platform list
func LoadPlatformsCmd(client romClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		platforms, err := client.GetPlatforms(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading platforms"}
		}
		return PlatformsLoadedMsg{Platforms: platforms}
	}
}

// ResetPlatformCmd rebinds the gallery to a platform and fetches the first page
func ResetPlatformCmd(ctrl *gallery.Controller, platformID int) tea.Cmd {
	return func() tea.Msg {
		ctrl.ResetForPlatform(platformID)

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		if _, err := ctrl.FetchNextPage(ctx); err != nil {
			return ErrMsg{Err: err, Context: "loading gallery"}
		}
		return PlatformResetMsg{PlatformID: platformID}
	}
}

// FetchPageCmd is the scroll-driven page fetch
func FetchPageCmd(ctrl *gallery.Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		fetched, err := ctrl.OnScrollNearBottom(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading gallery page"}
		}
		return PageFetchedMsg{PlatformID: ctrl.PlatformID(), Fetched: fetched}
	}
}

// ApplyFilterCmd replaces the active gallery filter
func ApplyFilterCmd(ctrl *gallery.Controller, f gallery.Filter) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		if err := ctrl.SetFilter(ctx, f); err != nil {
			return ErrMsg{Err: err, Context: "applying filter"}
		}
		return FilterAppliedMsg{}
	}
}

// LaunchRomCmd downloads a rom into the download directory, starts the play
// session, and hands the file to the emulator launcher.
func LaunchRomCmd(client romClient, sess *session.Session, launcher *session.Launcher, downloadDir string, rom domain.Rom) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		data, err := client.DownloadRom(ctx, rom)
		if err != nil {
			return ErrMsg{Err: err, Context: "downloading rom"}
		}

		if err := os.MkdirAll(downloadDir, 0o755); err != nil {
			return ErrMsg{Err: err, Context: "preparing download dir"}
		}
		path := filepath.Join(downloadDir, rom.FileName)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return ErrMsg{Err: err, Context: "writing rom file"}
		}

		core := session.NewFileCore(downloadDir, rom.BaseName())
		sess.Start(rom, latestAsset(rom.Saves), latestAsset(rom.States), core)

		if err := launcher.Launch(path); err != nil {
			return ErrMsg{Err: err, Context: "launching emulator"}
		}
		return RomLaunchedMsg{Rom: rom, Path: path}
	}
}

// latestAsset returns the most recently created record, zero when none exist
func latestAsset(assets []domain.Asset) domain.Asset {
	var latest domain.Asset
	for _, a := range assets {
		if a.ID > latest.ID {
			latest = a
		}
	}
	return latest
}

// SyncSaveCmd persists the emulator's current save file through the tier ladder
func SyncSaveCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		core, ok := coreOf(sess)
		if !ok {
			return StatusMsg{Message: "no active session", IsError: true}
		}
		data, err := core.ReadSave()
		if err != nil {
			return ErrMsg{Err: err, Context: "reading save file"}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		res := sess.OnSaveRequested(ctx, data, nil)
		return StatusMsg{Message: "save kept on " + res.Tier.String(), IsError: res.RemoteErr != nil}
	}
}

// SyncStateCmd persists the emulator's current state file through the tier ladder
func SyncStateCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		core, ok := coreOf(sess)
		if !ok {
			return StatusMsg{Message: "no active session", IsError: true}
		}
		data, err := core.ReadState()
		if err != nil {
			return ErrMsg{Err: err, Context: "reading state file"}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		res := sess.OnStateRequested(ctx, data, nil)
		return StatusMsg{Message: "state kept on " + res.Tier.String(), IsError: res.RemoteErr != nil}
	}
}

// RestoreSaveCmd pulls save content through the full tier ladder, manual
// file prompt included, into the active session
func RestoreSaveCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		res, err := sess.RestoreSave(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "restoring save"}
		}
		return StatusMsg{Message: "save restored from " + res.Tier.String()}
	}
}

// RestoreStateCmd pulls state content through the full tier ladder, manual
// file prompt included, into the active session
func RestoreStateCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		res, err := sess.RestoreState(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "restoring state"}
		}
		return StatusMsg{Message: "state restored from " + res.Tier.String()}
	}
}

// coreOf recovers the file-backed core for the active session
func coreOf(sess *session.Session) (*session.FileCore, bool) {
	core, ok := sess.Core().(*session.FileCore)
	return core, ok
}

// DeleteRomsCmd removes the selected roms on the server
func DeleteRomsCmd(client romClient, ids []int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		if err := client.DeleteRoms(ctx, ids, false); err != nil {
			return ErrMsg{Err: err, Context: "deleting roms"}
		}
		return RomsDeletedMsg{Count: len(ids)}
	}
}

// UploadRomCmd uploads a local rom file and signals a platform rescan
func UploadRomCmd(client romClient, scanner domain.ScanNotifier, platformID int, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return ErrMsg{Err: err, Context: "reading rom file"}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if err := client.UploadRom(ctx, platformID, filepath.Base(path), data); err != nil {
			return ErrMsg{Err: err, Context: "uploading rom"}
		}

		// Rescan failures are non-fatal; the upload already landed.
		if scanner != nil {
			if err := scanner.TriggerScan(ctx, []int{platformID}, false); err == nil {
				return ScanTriggeredMsg{PlatformID: platformID}
			}
		}
		return RomUploadedMsg{FileName: filepath.Base(path)}
	}
}

// TriggerScanCmd sends a rescan signal for a platform
func TriggerScanCmd(scanner domain.ScanNotifier, platformID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := scanner.TriggerScan(ctx, []int{platformID}, false); err != nil {
			return ErrMsg{Err: err, Context: "triggering scan"}
		}
		return ScanTriggeredMsg{PlatformID: platformID}
	}
}

// ClearNotificationCmd removes the toast after its timeout
func ClearNotificationCmd(after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return ClearNotificationMsg{}
	})
}

// ClearStatusCmd clears the status bar after a delay
func ClearStatusCmd(after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
