package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/romdeck/romdeck/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketSaves   = []byte("saves")
	bucketStates  = []byte("states")
	bucketGallery = []byte("gallery")
)

// LocalStore is the bolt-backed middle persistence tier. A store opened
// without a cache directory runs with no capability: reads miss, writes are
// silent no-ops and Supported reports false, which makes the play-session
// fallback ladder skip straight to the manual tier.
type LocalStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// Open opens (or creates) the store under baseCacheDir, namespaced per
// server. An empty baseCacheDir yields an unsupported store, not an error.
func Open(baseCacheDir, serverURL string) (*LocalStore, error) {
	if baseCacheDir == "" {
		return &LocalStore{cache: make(map[string][]byte)}, nil
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "romdeck.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketSaves, bucketStates, bucketGallery} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &LocalStore{db: db, cache: make(map[string][]byte)}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

// Close closes the underlying database
func (s *LocalStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Supported reports whether the local tier can actually persist.
// Implements domain.AssetStore.
func (s *LocalStore) Supported() bool {
	return s != nil && s.db != nil
}

// === Generic helpers ===

func (s *LocalStore) get(bucket []byte, key string) ([]byte, bool) {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return data, true
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, false
	}

	// Read from BoltDB
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return nil, false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return data, true
}

func (s *LocalStore) set(bucket []byte, key string, data []byte) error {
	cacheKey := string(bucket) + ":" + key

	// Update memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // No capability, write is a silent no-op
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *LocalStore) deletePrefix(bucket []byte, prefix string) {
	// Clear from memory cache
	s.mu.Lock()
	cachePrefix := string(bucket) + ":" + prefix
	for k := range s.cache {
		if strings.HasPrefix(k, cachePrefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		prefixBytes := []byte(prefix)
		for k, _ := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Asset tier (saves/states keyed by base file name) ===

func assetBucket(kind domain.AssetKind) []byte {
	if kind == domain.AssetState {
		return bucketStates
	}
	return bucketSaves
}

// Get returns locally stored binary content for a key. Implements
// domain.AssetStore.
func (s *LocalStore) Get(kind domain.AssetKind, key string) ([]byte, bool) {
	if !s.Supported() {
		return nil, false
	}
	return s.get(assetBucket(kind), key)
}

// Put stores binary content under a key. Implements domain.AssetStore.
func (s *LocalStore) Put(kind domain.AssetKind, key string, data []byte) error {
	if !s.Supported() {
		return domain.ErrStoreUnsupported
	}
	return s.set(assetBucket(kind), key, data)
}

// === Gallery pages (offline startup cache) ===

func galleryKey(platformID int) string {
	return "platform:" + strconv.Itoa(platformID)
}

// SaveGallery persists the full fetched list for a platform
func (s *LocalStore) SaveGallery(platformID int, roms []domain.Rom) error {
	if !s.Supported() {
		return nil
	}
	data, err := json.Marshal(roms)
	if err != nil {
		return err
	}
	return s.set(bucketGallery, galleryKey(platformID), data)
}

// GetGallery returns the last persisted list for a platform
func (s *LocalStore) GetGallery(platformID int) ([]domain.Rom, bool) {
	data, ok := s.get(bucketGallery, galleryKey(platformID))
	if !ok {
		return nil, false
	}
	var roms []domain.Rom
	if err := json.Unmarshal(data, &roms); err != nil {
		return nil, false
	}
	return roms, true
}

// InvalidateGallery drops the persisted list for a platform
func (s *LocalStore) InvalidateGallery(platformID int) {
	s.deletePrefix(bucketGallery, galleryKey(platformID))
}

// InvalidateAll drops everything, memory cache included
func (s *LocalStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketSaves, bucketStates, bucketGallery} {
			b := tx.Bucket(bucket)
			if b == nil {
				continue
			}
			c := b.Cursor()
			for k, _ := c.First(); k != nil; k, _ = c.Next() {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
