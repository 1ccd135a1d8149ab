package docstore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/vignaraja/internal/common"
)

// Mutation is a set of path → value writes applied as one unit. A nil value
// deletes the path.
type Mutation map[string]any

// NewMutation normalizes every value of updates. Paths that overlap (one is
// an ancestor of another) are rejected, since their order would be ambiguous.
func NewMutation(updates map[string]any) (Mutation, error) {
	m := make(Mutation, len(updates))
	for p, v := range updates {
		nv, err := Normalize(v)
		if err != nil {
			return nil, fmt.Errorf("path %q: %w", p, err)
		}
		m[Join(p)] = nv
	}
	if len(m) != len(updates) {
		return nil, fmt.Errorf("%w: duplicate paths after cleaning", common.ErrorValidation)
	}

	paths := m.sortedPaths()
	for i := 1; i < len(paths); i++ {
		prev, cur := Split(paths[i-1]), Split(paths[i])
		if hasPrefix(cur, prev) {
			return nil, fmt.Errorf("%w: overlapping paths %q and %q", common.ErrorValidation, paths[i-1], paths[i])
		}
	}
	return m, nil
}

// Apply returns the tree that results from applying m to root.
func (m Mutation) Apply(root any) any {
	for _, p := range m.sortedPaths() {
		root = setIn(root, Split(p), m[p])
	}
	return root
}

// Paths returns the segments of every written path.
func (m Mutation) Paths() [][]string {
	sorted := m.sortedPaths()
	out := make([][]string, len(sorted))
	for i, p := range sorted {
		out[i] = Split(p)
	}
	return out
}

// sortedPaths orders paths so that an ancestor sorts directly before its
// descendants ("a" < "a/b" < "a0").
func (m Mutation) sortedPaths() []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		return strings.ReplaceAll(paths[i], "/", "\x00") < strings.ReplaceAll(paths[j], "/", "\x00")
	})
	return paths
}
