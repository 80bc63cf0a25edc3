package mergecat

import (
	"fmt"

	"github.com/cedtools/equiplink/pkg/catalog"
	"github.com/cedtools/equiplink/pkg/omap"
)

// Renumber assigns sequential identifiers to every record in final catalog
// order: EQ-001, EQ-002, ... (1-based). Each of a record's linked sets
// receives SET-nnn carrying the owning record's number, not a separately
// incrementing one, so a set id always reveals its owner. Within a set,
// non-anchor linked elements are renumbered <set id>-LED-kkk with k
// starting at 1 per set; anchor-flagged elements keep the identifiers they
// already have.
//
// Renumber is idempotent over its own output: a second pass reassigns the
// identical identifiers.
func Renumber(defs []*omap.Map) {
	for idx, def := range defs {
		n := idx + 1
		def.Set(catalog.KeyID, fmt.Sprintf("EQ-%03d", n))

		for _, set := range catalog.LinkedSets(def) {
			setID := fmt.Sprintf("SET-%03d", n)
			set.Set(catalog.KeyID, setID)

			ledCounter := 1
			for _, led := range catalog.LinkedElements(set) {
				if catalog.IsParentAnchor(led) {
					continue
				}
				led.Set(catalog.KeyID, fmt.Sprintf("%s-LED-%03d", setID, ledCounter))
				ledCounter++
			}
		}
	}
}
