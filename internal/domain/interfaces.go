package domain

import "context"

// RomPage is one page of a cursor-paginated rom listing.
type RomPage struct {
	Roms       []Rom
	NextCursor Cursor // CursorDone when the server reported no further pages
}

// GalleryClient is the remote paginated list surface consumed by the gallery
// cache controller.
type GalleryClient interface {
	// GetPlatforms returns all platforms known to the server.
	GetPlatforms(ctx context.Context) ([]Platform, error)

	// GetRoms returns one page of roms for a platform. cursor is the opaque
	// token from the previous page ("" to start); searchTerm is an optional
	// normalized filter term applied server-side.
	GetRoms(ctx context.Context, platformID int, cursor Cursor, searchTerm string, limit int) (RomPage, error)

	// GetRom returns full details for a single rom.
	GetRom(ctx context.Context, id int) (*Rom, error)
}

// AssetClient is the remote save/state/screenshot surface consumed by the
// persistence mediator.
type AssetClient interface {
	// UploadAsset creates a new remote record from binary content. The server
	// may return a batch; it is sorted by ID ascending and the last record is
	// the newest.
	UploadAsset(ctx context.Context, kind AssetKind, romID int, fileName string, data []byte) ([]Asset, error)

	// UpdateAsset replaces the content of an existing remote record.
	UpdateAsset(ctx context.Context, kind AssetKind, asset Asset, data []byte) (Asset, error)

	// DownloadAsset fetches the binary content of a remote record.
	DownloadAsset(ctx context.Context, path string) ([]byte, error)

	// UploadScreenshot creates a screenshot record attached to a rom.
	UploadScreenshot(ctx context.Context, romID int, fileName string, data []byte) (Asset, error)

	// UpdateScreenshot replaces an existing screenshot record's content.
	UpdateScreenshot(ctx context.Context, screenshot Asset, data []byte) (Asset, error)
}

// AssetStore is the local keyed binary tier. Implementations may be
// unavailable (no writable cache dir); Supported gates every other call.
type AssetStore interface {
	Supported() bool
	Get(kind AssetKind, key string) ([]byte, bool)
	Put(kind AssetKind, key string, data []byte) error
}

// ScanNotifier triggers an asynchronous library rescan server-side.
// Fire-and-forget: failures are logged, never surfaced.
type ScanNotifier interface {
	TriggerScan(ctx context.Context, platformIDs []int, rescan bool) error
}

// LoadTier identifies which persistence tier a save or state came from.
type LoadTier int

const (
	TierRemote LoadTier = iota
	TierLocal
	TierManual
)

// String returns a human-readable representation of the tier.
func (t LoadTier) String() string {
	switch t {
	case TierRemote:
		return "remote"
	case TierLocal:
		return "local"
	case TierManual:
		return "manual"
	default:
		return "unknown"
	}
}

// EmulatorCore is the contract the play session holds against the embedded
// emulator. The core is opaque: the session only feeds it binaries and
// receives persistence requests back through the registered callbacks.
type EmulatorCore interface {
	// BaseName returns the canonical base file name the core derives from
	// the loaded rom, used as the local-store key.
	BaseName() string

	// LoadSave hands previously persisted save content to the core.
	LoadSave(data []byte) error

	// LoadState hands previously persisted state content to the core.
	LoadState(data []byte) error
}
