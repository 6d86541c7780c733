// Package differ computes semantic differences between two renderings of
// the same gateway configuration, e.g. a staging and a production overlay.
package differ

import (
	"fmt"
	"sort"

	"github.com/apimguard/apimguard/internal/manifest"
	"github.com/wI2L/jsondiff"
)

// ChangeType indicates what happened to a resource between renderings.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
	ChangeChanged ChangeType = "changed"
)

// ResourceDiff is the difference for a single resource, keyed by
// kind/name.
type ResourceDiff struct {
	Kind         string         `json:"kind"`
	Name         string         `json:"name"`
	Type         ChangeType     `json:"type"`
	Patches      jsondiff.Patch `json:"patches,omitempty"`
	Translations []string       `json:"translations,omitempty"`
}

// Result contains the complete diff between two manifest sets.
type Result struct {
	HasChanges bool           `json:"hasChanges"`
	Diffs      []ResourceDiff `json:"diffs"`
}

// CompareFiles diffs every gateway resource in two manifest files.
// Resources are matched by kind and metadata.name; order within a file
// does not matter.
func CompareFiles(oldPath, newPath string) (*Result, error) {
	oldDocs, err := manifest.LoadFile(oldPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", oldPath, err)
	}
	newDocs, err := manifest.LoadFile(newPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", newPath, err)
	}
	return Compare(oldDocs, newDocs)
}

// Compare diffs two document sets.
func Compare(oldDocs, newDocs []*manifest.Document) (*Result, error) {
	key := func(d *manifest.Document) string {
		return d.Kind + "/" + d.Name()
	}

	oldByKey := make(map[string]*manifest.Document)
	for _, d := range oldDocs {
		if d.IsGatewayResource() {
			oldByKey[key(d)] = d
		}
	}

	result := &Result{Diffs: []ResourceDiff{}}

	for _, current := range newDocs {
		if !current.IsGatewayResource() {
			continue
		}
		previous, found := oldByKey[key(current)]
		if !found {
			result.Diffs = append(result.Diffs, ResourceDiff{
				Kind: current.Kind,
				Name: current.Name(),
				Type: ChangeAdded,
			})
			continue
		}
		delete(oldByKey, key(current))

		patches, err := jsondiff.Compare(previous.Raw(), current.Raw())
		if err != nil {
			return nil, fmt.Errorf("failed to diff %s: %w", key(current), err)
		}
		if len(patches) == 0 {
			continue
		}
		result.Diffs = append(result.Diffs, ResourceDiff{
			Kind:         current.Kind,
			Name:         current.Name(),
			Type:         ChangeChanged,
			Patches:      patches,
			Translations: Translate(patches),
		})
	}

	// Anything left in the old set was removed. Sorted so repeated runs
	// produce identical output.
	removed := make([]string, 0, len(oldByKey))
	for k := range oldByKey {
		removed = append(removed, k)
	}
	sort.Strings(removed)
	for _, k := range removed {
		previous := oldByKey[k]
		result.Diffs = append(result.Diffs, ResourceDiff{
			Kind: previous.Kind,
			Name: previous.Name(),
			Type: ChangeRemoved,
		})
	}

	result.HasChanges = len(result.Diffs) > 0
	return result, nil
}
