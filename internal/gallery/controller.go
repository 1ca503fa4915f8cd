package gallery

import (
	"context"
	"log/slog"
	"sync"

	"github.com/romdeck/romdeck/internal/domain"
)

const defaultPageSize = 72

// pageCache is the optional offline tier for fetched gallery pages
// (consumer-defined interface).
type pageCache interface {
	SaveGallery(platformID int, roms []domain.Rom) error
	GetGallery(platformID int) ([]domain.Rom, bool)
}

// Controller owns the current platform's rom lists, the derived filtered
// view, and the two pagination cursors. All fetched state belongs to one
// platform at a time; switching platforms discards it wholesale.
//
// Two independent cursor/list pairs are kept: the plain pair accumulates the
// unfiltered listing, the search pair accumulates pages fetched under the
// active predicate. Turning a filter off therefore restores the already
// fetched unfiltered results without another request.
type Controller struct {
	client   domain.GalleryClient
	cache    pageCache
	notifier domain.Notifier
	logger   *slog.Logger

	pageSize int

	mu         sync.Mutex
	platformID int
	full       []domain.Rom
	searchRes  []domain.Rom
	filtered   []domain.Rom
	seen       map[int]struct{}

	cursor       domain.Cursor // unfiltered traversal
	searchCursor domain.Cursor // filtered/search traversal
	fetching     bool          // single-flight guard
	viewGen      int           // bumped on platform or filter change; stale responses check it

	filter    Filter
	facets    FacetOptions
	selection *Selection
}

// NewController creates a gallery controller. cache and notifier may be nil.
func NewController(client domain.GalleryClient, cache pageCache, notifier domain.Notifier, pageSize int, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Controller{
		client:    client,
		cache:     cache,
		notifier:  notifier,
		logger:    logger,
		pageSize:  pageSize,
		seen:      make(map[int]struct{}),
		selection: NewSelection(),
	}
}

// ResetForPlatform discards all per-platform state and rebinds the
// controller to a new platform. Called on mount, on route change, and on
// switching platforms in place.
func (c *Controller) ResetForPlatform(platformID int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.platformID = platformID
	c.full = nil
	c.searchRes = nil
	c.filtered = nil
	c.seen = make(map[int]struct{})
	c.cursor = ""
	c.searchCursor = ""
	c.filter = Filter{}
	c.facets = FacetOptions{}
	c.selection.Clear()
	c.viewGen++

	// Seed from the offline tier when available. Cursors stay untouched, so
	// the first fetch starts from the beginning and dedupes against the seed.
	if c.cache != nil {
		if roms, ok := c.cache.GetGallery(platformID); ok {
			for _, rom := range roms {
				if _, dup := c.seen[rom.ID]; dup {
					continue
				}
				c.seen[rom.ID] = struct{}{}
				c.full = append(c.full, rom)
			}
			c.filtered = c.full
			c.logger.Debug("seeded gallery from local cache", "platformID", platformID, "count", len(c.full))
		}
	}

	c.logger.Info("gallery reset", "platformID", platformID)
}

// FetchNextPage issues at most one remote list request for the cursor
// matching the current filter mode. It reports false without error when the
// fetch was skipped (already in flight, or cursor exhausted).
func (c *Controller) FetchNextPage(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.fetching {
		c.mu.Unlock()
		return false, nil
	}

	searching := !c.filter.Empty()
	cursor := c.cursor
	if searching {
		cursor = c.searchCursor
	}
	if cursor.Exhausted() {
		c.mu.Unlock()
		return false, nil
	}

	c.fetching = true
	platformID := c.platformID
	gen := c.viewGen
	term := ""
	if searching {
		term = c.filter.SearchTerm()
	}
	c.mu.Unlock()

	page, err := c.client.GetRoms(ctx, platformID, cursor, term, c.pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetching = false

	if err != nil {
		c.logger.Error("failed to fetch roms", "error", err, "platformID", platformID)
		c.notify(domain.ErrorNotification(err.Error()))
		return false, err
	}

	if platformID != c.platformID || gen != c.viewGen {
		// Platform or filter changed while the request was in flight; the
		// response belongs to discarded state.
		return false, nil
	}

	c.appendPage(page, searching)
	return true, nil
}

// appendPage folds one response into the lists and advances the right
// cursor. Caller holds the lock.
func (c *Controller) appendPage(page domain.RomPage, searching bool) {
	for _, rom := range page.Roms {
		if _, dup := c.seen[rom.ID]; dup {
			continue
		}
		c.seen[rom.ID] = struct{}{}
		c.full = append(c.full, rom)
	}
	if searching {
		// A search page may contain roms already known from the plain
		// listing; they still belong in the search trail.
		c.reconcileSearchPage(page.Roms)
		c.searchCursor = page.NextCursor
	} else {
		c.cursor = page.NextCursor
	}

	c.recomputeFiltered()

	if c.cache != nil && !searching {
		if err := c.cache.SaveGallery(c.platformID, c.full); err != nil {
			c.logger.Warn("failed to persist gallery page", "error", err)
		}
	}

	c.logger.Debug("appended gallery page",
		"count", len(page.Roms), "total", len(c.full),
		"searching", searching, "exhausted", page.NextCursor.Exhausted())
}

// reconcileSearchPage ensures search results already known from the plain
// listing appear in the search trail exactly once. Caller holds the lock.
func (c *Controller) reconcileSearchPage(roms []domain.Rom) {
	present := make(map[int]struct{}, len(c.searchRes))
	for _, r := range c.searchRes {
		present[r.ID] = struct{}{}
	}
	for _, r := range roms {
		if _, ok := present[r.ID]; ok {
			continue
		}
		present[r.ID] = struct{}{}
		c.searchRes = append(c.searchRes, r)
	}
}

// SetFilter replaces the active predicate. Clearing the filter swaps the
// view back to the full list without a fetch; activating one starts a fresh
// search traversal immediately.
func (c *Controller) SetFilter(ctx context.Context, f Filter) error {
	c.mu.Lock()
	c.filter = f
	c.searchCursor = ""
	c.searchRes = nil
	c.viewGen++

	if f.Empty() {
		c.filtered = c.full
		c.mu.Unlock()
		return nil
	}

	c.recomputeFiltered()
	c.mu.Unlock()

	_, err := c.FetchNextPage(ctx)
	return err
}

// OnScrollNearBottom is the scroll-driven trigger from the hosting view.
// No-op when both cursors are exhausted; otherwise fetches the next page and
// refreshes the facet option lists.
func (c *Controller) OnScrollNearBottom(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.cursor.Exhausted() && c.searchCursor.Exhausted() {
		c.mu.Unlock()
		return false, nil
	}
	c.mu.Unlock()

	fetched, err := c.FetchNextPage(ctx)

	c.mu.Lock()
	c.facets = collectFacets(c.filtered)
	c.mu.Unlock()

	return fetched, err
}

// recomputeFiltered rebuilds the derived view. With no predicate the view is
// the full list itself (same slice); with one, an order-preserving
// subsequence of the search trail. Until the first search page lands the
// predicate runs over the full list, so already-fetched matches show
// immediately. Caller holds the lock.
func (c *Controller) recomputeFiltered() {
	if c.filter.Empty() {
		c.filtered = c.full
		return
	}
	source := c.searchRes
	if len(source) == 0 {
		source = c.full
	}
	c.filtered = c.filter.apply(source)
}

func (c *Controller) notify(n domain.Notification) {
	if c.notifier != nil {
		c.notifier.Notify(n)
	}
}

// === Accessors ===

// Roms returns the current filtered view
func (c *Controller) Roms() []domain.Rom {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filtered
}

// Full returns every rom fetched so far for the platform
func (c *Controller) Full() []domain.Rom {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.full
}

// Filter returns the active predicate
func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Facets returns the facet option lists from the last scroll refresh
func (c *Controller) Facets() FacetOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.facets
}

// Selection returns the selection tracker
func (c *Controller) Selection() *Selection { return c.selection }

// InFlight reports whether a fetch is currently running
func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetching
}

// Exhausted reports whether both traversals have reached end of data
func (c *Controller) Exhausted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor.Exhausted() && c.searchCursor.Exhausted()
}

// PlatformID returns the bound platform
func (c *Controller) PlatformID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.platformID
}
