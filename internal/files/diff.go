package files

import (
	"bytes"
	"sort"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangeKind classifies a path in a snapshot comparison.
type ChangeKind string

const (
	Added    ChangeKind = "added"
	Modified ChangeKind = "modified"
	Removed  ChangeKind = "removed"
)

// Change describes how one path differs between two snapshots. Patch holds a
// line-level patch in diff-match-patch text format for text files and is empty
// for binary content.
type Change struct {
	Path  string     `json:"path"`
	Kind  ChangeKind `json:"kind"`
	Patch string     `json:"patch,omitempty"`
}

// Diff compares two snapshots. Unchanged paths are omitted; the result is
// sorted by path.
func Diff(before, after Files) []Change {
	var changes []Change

	seen := map[string]bool{}
	for _, p := range after.Paths() {
		seen[p] = true
		old, existed := before[p]
		switch {
		case !existed:
			changes = append(changes, Change{Path: p, Kind: Added, Patch: patch(nil, after[p])})
		case !bytes.Equal(old, after[p]):
			changes = append(changes, Change{Path: p, Kind: Modified, Patch: patch(old, after[p])})
		}
	}
	for _, p := range before.Paths() {
		if !seen[p] {
			changes = append(changes, Change{Path: p, Kind: Removed, Patch: patch(before[p], nil)})
		}
	}

	sortChanges(changes)
	return changes
}

func patch(a, b []byte) string {
	if !utf8.Valid(a) || !utf8.Valid(b) {
		return ""
	}
	dmp := diffmatchpatch.New()
	chars1, chars2, lines := dmp.DiffLinesToChars(string(a), string(b))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lines)
	return dmp.PatchToText(dmp.PatchMake(string(a), diffs))
}

func sortChanges(changes []Change) {
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
}
