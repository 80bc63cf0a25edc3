// Package mergecat consolidates a raw equipment catalog document that may
// contain duplicate or conflicting entries into a deduplicated,
// deterministically ordered, uniquely identified form.
//
// The pass runs in fixed stages over the raw text:
//
//  1. Extract: a line-oriented state machine splits the equipment list into
//     one block per entry, preserving sibling duplicates a whole-document
//     parse would collapse.
//  2. Parse: each block is decoded independently; a malformed block is
//     logged and dropped, never fatal.
//  3. Analyze: duplicate names are counted for the report.
//  4. Merge: records sharing a normalized name collapse to one, their
//     linked elements concatenated in original order.
//  5. Renumber: surviving records receive sequential identifiers.
//  6. Reorder: every record is rewritten to canonical key order.
//  7. Validate: the reordered output must be content-equal to its input;
//     an integrity violation aborts the pass before anything is written.
//
// The pass is pure over its input text; writing the output document is the
// caller's responsibility, performed as a single whole-document write after
// validation succeeds.
package mergecat

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/cedtools/equiplink/pkg/catalog"
	"github.com/cedtools/equiplink/pkg/errors"
	"github.com/cedtools/equiplink/pkg/omap"
)

// Options configures a merge pass.
type Options struct {
	// Logger receives per-block parse warnings and stage progress.
	// Defaults to a discard logger.
	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}

// Result carries the outcome of a merge pass: the canonical output text and
// the material for a human-readable report.
type Result struct {
	BlockCount  int              // raw blocks found in the input
	ParsedCount int              // blocks that parsed as records
	Duplicates  []DuplicateGroup // names that occurred more than once
	Merges      []MergeAction    // merges performed
	FinalCount  int              // records in the output
	Changed     bool             // false when no duplicates were found
	Output      []byte           // canonical merged document text
}

// Run executes the full merge pass over raw catalog text.
//
// The returned Result distinguishes "no duplicates, unchanged" (Changed
// false) from "merged N groups" (Changed true, len(Merges) == N). An
// integrity violation in the final validation stage fails the pass; no
// output text is produced in that case.
func Run(text []byte, opts Options) (*Result, error) {
	logger := opts.logger()

	blocks := ExtractBlocks(string(text))
	logger.Debugf("found %d equipment definition blocks", len(blocks))

	defs := make([]*omap.Map, 0, len(blocks))
	for i, block := range blocks {
		def, err := ParseBlock(block)
		if err != nil {
			logger.Warnf("dropping block %d: %v", i+1, err)
			continue
		}
		defs = append(defs, def)
	}
	logger.Debugf("parsed %d equipment definitions", len(defs))

	duplicates := AnalyzeDuplicates(defs)
	merged, actions := MergeByName(defs)
	Renumber(merged)

	reordered := ReorderDefinitions(merged)
	if err := ValidateIntegrity(document(merged), document(reordered)); err != nil {
		return nil, err
	}

	output, err := omap.Encode(document(reordered))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode merged catalog")
	}

	return &Result{
		BlockCount:  len(blocks),
		ParsedCount: len(defs),
		Duplicates:  duplicates,
		Merges:      actions,
		FinalCount:  len(reordered),
		Changed:     len(actions) > 0,
		Output:      output,
	}, nil
}

// RunReorder executes the reorder-and-validate pass only: no merging, no
// renumbering, original record order kept. Top-level document keys other
// than the equipment list pass through unchanged. Returns the reordered
// document text, or an integrity error with no output.
func RunReorder(text []byte, opts Options) ([]byte, error) {
	cat, err := catalog.Parse(text)
	if err != nil {
		return nil, err
	}

	reordered := catalog.FromDocument(cat.Document().Clone())
	reordered.SetDefinitions(ReorderDefinitions(reordered.Definitions()))

	if err := ValidateIntegrity(cat.Document(), reordered.Document()); err != nil {
		return nil, err
	}
	return reordered.Marshal()
}

// document wraps a definitions list in the top-level catalog shape.
func document(defs []*omap.Map) *omap.Map {
	raw := make([]any, len(defs))
	for i, d := range defs {
		raw[i] = d
	}
	doc := omap.New()
	doc.Set(catalog.KeyDefinitions, raw)
	return doc
}
