package mergecat

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cedtools/equiplink/pkg/catalog"
	"github.com/cedtools/equiplink/pkg/omap"
)

var (
	errEmptyBlock  = errors.New("block contains no record")
	errNotAMapping = errors.New("block is not a mapping record")
)

// unknownName stands in for records carrying neither a name nor an id.
const unknownName = "Unknown"

// DuplicateGroup describes one name that occurred more than once.
type DuplicateGroup struct {
	Name  string // first-seen display form
	Count int
}

// MergeAction records one performed merge.
type MergeAction struct {
	Name          string // display name of the surviving record
	OriginalCount int    // how many records carried the name
	ElementCount  int    // linked elements in the merged replacement set
}

// displayName returns a record's grouping name: the display name, falling
// back to the id, falling back to a fixed placeholder.
func displayName(def *omap.Map) string {
	if n := catalog.Name(def); n != "" {
		return n
	}
	return unknownName
}

// AnalyzeDuplicates counts records per normalized name and reports the
// names that occur more than once, ordered by descending count and then by
// name for determinism. The reported display form is the first-seen one.
func AnalyzeDuplicates(defs []*omap.Map) []DuplicateGroup {
	counts := make(map[string]int)
	firstSeen := make(map[string]string)
	for _, def := range defs {
		name := displayName(def)
		norm := catalog.Normalize(name)
		if _, ok := firstSeen[norm]; !ok {
			firstSeen[norm] = name
		}
		counts[norm]++
	}

	var groups []DuplicateGroup
	for norm, count := range counts {
		if count > 1 {
			groups = append(groups, DuplicateGroup{Name: firstSeen[norm], Count: count})
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Name < groups[j].Name
	})
	return groups
}

// MergeByName groups records by normalized name and collapses each group to
// a single record. Groups are emitted sorted by normalized name, which
// fixes the catalog's final order deterministically.
//
// Groups of size 1 pass through unchanged. For larger groups the first
// record in original order is the merge base; its linked_sets are replaced
// with a single set named "<original name> Types" whose element list is the
// concatenation, in original order, of every group member's linked
// elements. The base record's other top-level fields are kept; later
// duplicates contribute only their linked elements.
func MergeByName(defs []*omap.Map) ([]*omap.Map, []MergeAction) {
	grouped := make(map[string][]*omap.Map)
	var order []string
	for _, def := range defs {
		norm := catalog.Normalize(displayName(def))
		if _, ok := grouped[norm]; !ok {
			order = append(order, norm)
		}
		grouped[norm] = append(grouped[norm], def)
	}
	sort.Strings(order)

	var merged []*omap.Map
	var actions []MergeAction
	for _, norm := range order {
		group := grouped[norm]
		if len(group) == 1 {
			merged = append(merged, group[0])
			continue
		}

		base := group[0].Clone()
		name := displayName(group[0])

		var elements []any
		for _, def := range group {
			for _, set := range catalog.LinkedSets(def) {
				for _, led := range catalog.LinkedElements(set) {
					elements = append(elements, led)
				}
			}
		}

		replacement := omap.New()
		replacement.Set(catalog.KeyID, "SET-001")
		replacement.Set(catalog.KeyName, fmt.Sprintf("%s Types", name))
		replacement.Set(catalog.KeyLinkedElems, elements)
		base.Set(catalog.KeyLinkedSets, []any{replacement})

		merged = append(merged, base)
		actions = append(actions, MergeAction{
			Name:          name,
			OriginalCount: len(group),
			ElementCount:  len(elements),
		})
	}
	return merged, actions
}
