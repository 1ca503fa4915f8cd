package session

import (
	"fmt"

	"github.com/romdeck/romdeck/internal/domain"
)

// Filename derivation for brand-new save/state records. Probing against the
// rom's known asset names guarantees a fresh upload never lands on the file
// name of an existing, distinctly-named record.

// BuildStateName returns the first unused state file name for a base name.
// The auto-slot name is preferred; numbered slots are probed from 1 upward.
func BuildStateName(base string, existing []domain.Asset) string {
	used := usedNames(existing)

	auto := base + ".state.auto"
	if _, taken := used[auto]; !taken {
		return auto
	}

	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s.state%d", base, i)
		if _, taken := used[candidate]; !taken {
			return candidate
		}
	}
}

// BuildSaveName returns the first unused save file name for a base name.
// The plain .srm name is preferred; " (n)" suffixes are probed from 2 upward.
func BuildSaveName(base string, existing []domain.Asset) string {
	used := usedNames(existing)

	plain := base + ".srm"
	if _, taken := used[plain]; !taken {
		return plain
	}

	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s (%d).srm", base, i)
		if _, taken := used[candidate]; !taken {
			return candidate
		}
	}
}

// buildName dispatches on asset kind
func buildName(kind domain.AssetKind, base string, existing []domain.Asset) string {
	if kind == domain.AssetState {
		return BuildStateName(base, existing)
	}
	return BuildSaveName(base, existing)
}

func usedNames(assets []domain.Asset) map[string]struct{} {
	used := make(map[string]struct{}, len(assets))
	for _, a := range assets {
		used[a.FileName] = struct{}{}
	}
	return used
}
