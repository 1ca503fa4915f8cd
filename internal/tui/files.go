package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DirPrompter is the manual load tier for a terminal client: instead of a
// browser file picker it resolves the newest file in the download directory
// matching a glob pattern.
type DirPrompter struct {
	dir     string
	pattern string
}

// NewDirPrompter creates a prompter over dir for files matching pattern
func NewDirPrompter(dir, pattern string) *DirPrompter {
	return &DirPrompter{dir: dir, pattern: pattern}
}

// PickFile returns the newest matching file's name and content
func (p *DirPrompter) PickFile(_ context.Context) (string, []byte, error) {
	matches, err := filepath.Glob(filepath.Join(p.dir, p.pattern))
	if err != nil {
		return "", nil, err
	}
	if len(matches) == 0 {
		return "", nil, fmt.Errorf("no %s files in %s", p.pattern, p.dir)
	}

	sort.Slice(matches, func(i, j int) bool {
		fi, errI := os.Stat(matches[i])
		fj, errJ := os.Stat(matches[j])
		if errI != nil || errJ != nil {
			return matches[i] < matches[j]
		}
		return fi.ModTime().After(fj.ModTime())
	})

	name := matches[0]
	data, err := os.ReadFile(name)
	if err != nil {
		return "", nil, err
	}
	return filepath.Base(name), data, nil
}

// DirExporter is the manual persist tier: content that could not reach the
// server or the local store is written as a plain file in the download
// directory.
type DirExporter struct {
	dir string
}

// NewDirExporter creates an exporter writing into dir
func NewDirExporter(dir string) *DirExporter {
	return &DirExporter{dir: dir}
}

// Export writes the content under fileName, creating the directory if needed
func (e *DirExporter) Export(fileName string, data []byte) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(e.dir, fileName), data, 0o644)
}
