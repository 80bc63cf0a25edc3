package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cedtools/equiplink/pkg/cache"
	"github.com/cedtools/equiplink/pkg/errors"
	"github.com/cedtools/equiplink/pkg/mergecat"
)

// mergeOpts holds the command-line flags for the merge command.
type mergeOpts struct {
	output  string // output file path (derived from input if empty)
	noCache bool   // bypass the merge result cache
}

// cachedMerge is the envelope stored in the merge result cache. It carries
// enough of the Result to rebuild the report on a hit.
type cachedMerge struct {
	Output     []byte                    `json:"output"`
	FinalCount int                       `json:"final_count"`
	Changed    bool                      `json:"changed"`
	Duplicates []mergecat.DuplicateGroup `json:"duplicates,omitempty"`
	Merges     []mergecat.MergeAction    `json:"merges,omitempty"`
}

// mergeCommand creates the merge command.
func (c *CLI) mergeCommand() *cobra.Command {
	opts := mergeOpts{}

	cmd := &cobra.Command{
		Use:   "merge <catalog.yaml>",
		Short: "Merge duplicate equipment definitions in a raw catalog export",
		Long: `Merge collapses equipment definitions that share a name (compared
trimmed and case-insensitively) into a single definition whose linked set
carries every linked element of every duplicate. Records are renumbered
sequentially and every mapping is rewritten into canonical key order.

The pass is validated before anything is written: the reordered catalog must
carry exactly the same values and the same number of keys as the merged one,
or the command fails and the input is left untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMerge(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (defaults to <input>"+c.Config.OutputSuffix+".yaml)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the merge result cache")

	return cmd
}

func (c *CLI) runMerge(ctx context.Context, input string, opts mergeOpts) error {
	text, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read catalog")
	}

	outPath := opts.output
	if outPath == "" {
		outPath = derivedOutputPath(input, c.Config.OutputSuffix)
	}
	if err := errors.ValidateOutputPath(outPath); err != nil {
		return err
	}

	store := c.newCache(opts.noCache)
	defer store.Close()
	key := cache.MergeKey(text)

	var entry cachedMerge
	cached := false
	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		if err := json.Unmarshal(data, &entry); err == nil {
			cached = true
		}
	}

	if !cached {
		result, err := mergecat.Run(text, mergecat.Options{Logger: c.Logger})
		if err != nil {
			return err
		}
		entry = cachedMerge{
			Output:     result.Output,
			FinalCount: result.FinalCount,
			Changed:    result.Changed,
			Duplicates: result.Duplicates,
			Merges:     result.Merges,
		}
		if data, err := json.Marshal(entry); err == nil {
			if err := store.Set(ctx, key, data, 0); err != nil {
				c.Logger.Debugf("cache store failed: %v", err)
			}
		}
	}

	if err := atomicWrite(outPath, entry.Output); err != nil {
		return err
	}

	printNewline()
	fmt.Println(StyleTitle.Render("Merge report"))
	printStats(entry.FinalCount, len(entry.Merges), cached)
	c.printMergeReport(entry)
	if entry.Changed {
		printSuccess("Merged %d duplicate group(s)", len(entry.Merges))
	} else {
		printInfo("No duplicates found, catalog rewritten in canonical order")
	}
	printFile(outPath)
	return nil
}

// printMergeReport prints duplicate groups and merge actions, capped at the
// configured sample limit.
func (c *CLI) printMergeReport(entry cachedMerge) {
	limit := c.Config.SampleLimit
	for i, group := range entry.Duplicates {
		if i >= limit {
			printDetail("... and %d more", len(entry.Duplicates)-limit)
			break
		}
		printDetail("%s %s %d occurrences", group.Name, iconArrow, group.Count)
	}
	for i, action := range entry.Merges {
		if i >= limit {
			break
		}
		printDetail("%s: %d records %s 1 record, %d linked elements", action.Name, action.OriginalCount, iconArrow, action.ElementCount)
	}
}

// derivedOutputPath appends suffix to the input filename stem.
func derivedOutputPath(input, suffix string) string {
	ext := filepath.Ext(input)
	stem := strings.TrimSuffix(input, ext)
	if ext == "" {
		ext = ".yaml"
	}
	return stem + suffix + ext
}

// atomicWrite writes data next to path under a unique temporary name,
// verifies the write by reading it back, and renames it into place. The
// destination is never left half-written.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write output")
	}
	written, err := os.ReadFile(tmp)
	if err != nil || !bytes.Equal(written, data) {
		_ = os.Remove(tmp)
		return errors.New(errors.ErrCodeInternal, "output verification failed")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "replace output")
	}
	return nil
}
