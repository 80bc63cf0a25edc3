package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cedtools/equiplink/pkg/catalog"
	"github.com/cedtools/equiplink/pkg/mergecat"
	"github.com/cedtools/equiplink/pkg/omap"
)

// checkCommand creates the check command. It reports duplicate names and
// duplicate ids without writing anything.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <catalog.yaml>",
		Short: "Report duplicate equipment names and ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(args[0])
			if err != nil {
				return err
			}
			defs := cat.Definitions()

			printNewline()
			fmt.Println(StyleTitle.Render("Catalog check"))
			printKeyValue("records", fmt.Sprintf("%d", len(defs)))

			nameGroups := mergecat.AnalyzeDuplicates(defs)
			idGroups := duplicateIDs(defs)

			if len(nameGroups) == 0 && len(idGroups) == 0 {
				printSuccess("No duplicates found")
				return nil
			}

			limit := c.Config.SampleLimit
			if len(nameGroups) > 0 {
				printWarning("%d duplicate name(s)", len(nameGroups))
				for i, g := range nameGroups {
					if i >= limit {
						printDetail("... and %d more", len(nameGroups)-limit)
						break
					}
					printDetail("%s %s %d records", g.Name, iconArrow, g.Count)
				}
			}
			if len(idGroups) > 0 {
				printWarning("%d duplicate id(s)", len(idGroups))
				for i, g := range idGroups {
					if i >= limit {
						printDetail("... and %d more", len(idGroups)-limit)
						break
					}
					printDetail("%s %s %d records", g.Name, iconArrow, g.Count)
				}
			}
			printInfo("Run %q to collapse duplicate names", appName+" merge "+args[0])
			return nil
		},
	}
}

// duplicateIDs counts records per normalized id and reports ids that occur
// more than once, ordered by descending count and then by id.
func duplicateIDs(defs []*omap.Map) []mergecat.DuplicateGroup {
	counts := make(map[string]int)
	firstSeen := make(map[string]string)
	for _, def := range defs {
		id := catalog.ID(def)
		if id == "" {
			continue
		}
		norm := catalog.Normalize(id)
		if _, ok := firstSeen[norm]; !ok {
			firstSeen[norm] = id
		}
		counts[norm]++
	}

	var groups []mergecat.DuplicateGroup
	for norm, count := range counts {
		if count > 1 {
			groups = append(groups, mergecat.DuplicateGroup{Name: firstSeen[norm], Count: count})
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
