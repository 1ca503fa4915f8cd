package domain

import (
	"fmt"
	"strings"
)

// Platform represents one system folder in the library (e.g. "snes", "gba").
type Platform struct {
	ID       int
	Slug     string
	Name     string
	RomCount int
}

// DisplayName returns the platform name, falling back to the slug.
func (p Platform) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Slug
}

// Rom represents a single game file in the library.
type Rom struct {
	ID             int    // Server-assigned unique identifier
	Name           string // Display name (metadata title if matched)
	FileName       string // On-disk file name, tags and extension included
	FileNameNoExt  string
	FileNameNoTags string
	FileSizeBytes  int64
	PlatformID     int
	PlatformSlug   string

	// Facet metadata, used only for filtering. Replaced wholesale on
	// refresh, never mutated by the cache layer.
	Genres      []string
	Franchises  []string
	Companies   []string
	Collections []string
	Languages   []string
	Regions     []string
	Tags        []string

	Summary  string
	CoverURL string
	Multi    bool

	// Prior assets scoped to this rom, as known by the server.
	Saves       []Asset
	States      []Asset
	Screenshots []Asset
}

// DisplayName returns the metadata name, falling back to the tagless file name.
func (r Rom) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	if r.FileNameNoTags != "" {
		return r.FileNameNoTags
	}
	return r.FileName
}

// BaseName returns the file name with its extension stripped.
func (r Rom) BaseName() string {
	if r.FileNameNoExt != "" {
		return r.FileNameNoExt
	}
	if i := strings.LastIndex(r.FileName, "."); i > 0 {
		return r.FileName[:i]
	}
	return r.FileName
}

// FormattedFileSize returns the file size in a human-readable format.
func (r Rom) FormattedFileSize() string {
	if r.FileSizeBytes <= 0 {
		return ""
	}
	const (
		gb = 1024 * 1024 * 1024
		mb = 1024 * 1024
	)
	switch {
	case r.FileSizeBytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(r.FileSizeBytes)/float64(gb))
	default:
		return fmt.Sprintf("%d MB", r.FileSizeBytes/mb)
	}
}

// AssetKind distinguishes the two synchronized asset flavors.
type AssetKind int

const (
	AssetSave AssetKind = iota
	AssetState
)

// String returns a human-readable representation of the asset kind.
func (k AssetKind) String() string {
	switch k {
	case AssetSave:
		return "save"
	case AssetState:
		return "state"
	default:
		return "unknown"
	}
}

// Asset is a save, state, or screenshot record. A zero ID means the record
// has never been persisted server-side.
type Asset struct {
	ID           int
	RomID        int
	FileName     string
	DownloadPath string
	ScreenshotID int
}

// Persisted reports whether the asset exists as a remote record.
func (a Asset) Persisted() bool { return a.ID != 0 }

// Cursor is an opaque server-issued pagination token. The zero value means
// traversal has not started; CursorDone means the server reported no further
// pages.
type Cursor string

// CursorDone is the terminal cursor state.
const CursorDone Cursor = "\x00done"

// Started reports whether at least one page has been requested.
func (c Cursor) Started() bool { return c != "" }

// Exhausted reports whether the server signaled end of data.
func (c Cursor) Exhausted() bool { return c == CursorDone }
