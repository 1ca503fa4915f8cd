package session

import (
	"os"
	"path/filepath"

	"github.com/romdeck/romdeck/internal/domain"
)

// FileCore adapts an external emulator to the core contract through its
// working directory: content pushed into the core lands as the files the
// emulator reads on boot, and the emulator writes the same files back.
type FileCore struct {
	dir  string
	base string
}

// NewFileCore creates a core rooted at the emulator's rom directory
func NewFileCore(dir, base string) *FileCore {
	return &FileCore{dir: dir, base: base}
}

// BaseName returns the canonical rom base name
func (c *FileCore) BaseName() string { return c.base }

// LoadSave places save content where the emulator expects it
func (c *FileCore) LoadSave(data []byte) error {
	return os.WriteFile(c.SavePath(), data, 0o644)
}

// LoadState places state content where the emulator expects it
func (c *FileCore) LoadState(data []byte) error {
	return os.WriteFile(c.StatePath(), data, 0o644)
}

// SavePath is the on-disk save file the emulator reads and writes
func (c *FileCore) SavePath() string {
	return filepath.Join(c.dir, c.base+".srm")
}

// StatePath is the on-disk state file the emulator reads and writes
func (c *FileCore) StatePath() string {
	return filepath.Join(c.dir, c.base+".state.auto")
}

// ReadSave returns the emulator's current save content
func (c *FileCore) ReadSave() ([]byte, error) {
	return os.ReadFile(c.SavePath())
}

// ReadState returns the emulator's current state content
func (c *FileCore) ReadState() ([]byte, error) {
	return os.ReadFile(c.StatePath())
}

var _ domain.EmulatorCore = (*FileCore)(nil)
