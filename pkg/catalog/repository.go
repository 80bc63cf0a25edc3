package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Repository indexes a catalog's linked elements by equipment name for
// placement candidate lookup. Non-anchor element labels become placement
// candidates; anchor-flagged elements are indexed separately because they
// serve as reference features, not placeable candidates.
//
// Duplicate labels within one equipment definition are de-collided with a
// " #n" suffix so every candidate stays addressable.
type Repository struct {
	labels  map[string][]string // normalized equipment name -> candidate labels, in catalog order
	anchors map[string][]*LinkedElement
}

// LinkedElement pairs an element record's label with its anchor flag and
// identifier, for anchor lookups.
type LinkedElement struct {
	ID    string
	Label string
}

// NewRepository builds a repository over the catalog's definitions.
func NewRepository(c *Catalog) *Repository {
	r := &Repository{
		labels:  make(map[string][]string),
		anchors: make(map[string][]*LinkedElement),
	}
	if c == nil {
		return r
	}
	for _, def := range c.Definitions() {
		name := Normalize(Name(def))
		if name == "" {
			continue
		}
		if _, seen := r.labels[name]; seen {
			continue // first definition wins, same as lookup order
		}
		var labels []string
		used := make(map[string]bool)
		for _, set := range LinkedSets(def) {
			for _, led := range LinkedElements(set) {
				label := strings.TrimSpace(led.GetString(KeyLabel))
				if label == "" {
					label = strings.TrimSpace(led.GetString(KeyID))
				}
				if label == "" {
					continue
				}
				if IsParentAnchor(led) {
					r.anchors[name] = append(r.anchors[name], &LinkedElement{
						ID:    strings.TrimSpace(led.GetString(KeyID)),
						Label: label,
					})
					continue
				}
				unique := label
				for i := 2; used[unique]; i++ {
					unique = fmt.Sprintf("%s #%d", label, i)
				}
				used[unique] = true
				labels = append(labels, unique)
			}
		}
		r.labels[name] = labels
	}
	return r
}

// LabelsFor returns the placement candidate labels for an equipment name,
// in catalog order. An unknown name returns nil.
func (r *Repository) LabelsFor(name string) []string {
	labels := r.labels[Normalize(name)]
	out := make([]string, len(labels))
	copy(out, labels)
	if len(out) == 0 {
		return nil
	}
	return out
}

// AnchorsFor returns the anchor-flagged linked elements for an equipment
// name, in catalog order.
func (r *Repository) AnchorsFor(name string) []*LinkedElement {
	return r.anchors[Normalize(name)]
}

// Names returns the sorted list of equipment names known to the repository.
func (r *Repository) Names() []string {
	out := make([]string, 0, len(r.labels))
	for name := range r.labels {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
