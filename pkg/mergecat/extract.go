package mergecat

import (
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/cedtools/equiplink/pkg/catalog"
	"github.com/cedtools/equiplink/pkg/omap"
)

// listStartMarker opens the equipment list section of a catalog document.
const listStartMarker = catalog.KeyDefinitions + ":"

// scanState tracks position within the raw document.
type scanState int

const (
	// stateScanning is the default state, outside the equipment list.
	stateScanning scanState = iota
	// stateInList accumulates block lines inside the equipment list.
	stateInList
	// stateDone means the list section has ended; remaining lines are
	// ignored for this pass.
	stateDone
)

// ExtractBlocks splits the raw document text into one text block per
// equipment list item, preserving duplicates.
//
// This is a deliberate line-oriented pre-pass, not a document parse: a
// whole-document YAML load of a catalog with repeated entry names can merge
// or drop entries, so the list section is split on its item markers first
// and each block is parsed on its own afterwards.
//
// Lines before the equipment_definitions: marker are ignored. Inside the
// list, the first item marker ("- " after optional uniform indentation)
// fixes the item column; every later line at that column starting a new
// item closes the previous block. A line with content at column 0 that is
// not an item marker ends the section; anything else is appended to the
// current block verbatim.
func ExtractBlocks(text string) []string {
	var blocks []string
	var current []string
	state := stateScanning
	itemIndent := -1 // unknown until the first item is seen

	isItem := func(line string) bool {
		lead := len(line) - len(strings.TrimLeft(line, " "))
		if !strings.HasPrefix(line[lead:], "- ") {
			return false
		}
		if itemIndent < 0 {
			itemIndent = lead
		}
		return lead == itemIndent
	}

	for _, line := range strings.Split(text, "\n") {
		switch state {
		case stateScanning:
			if strings.TrimSpace(line) == listStartMarker {
				state = stateInList
			}
		case stateInList:
			switch {
			case isItem(line):
				if len(current) > 0 {
					blocks = append(blocks, strings.Join(current, "\n"))
				}
				current = []string{line}
			case line != "" && !unicode.IsSpace(rune(line[0])) && strings.TrimSpace(line) != "":
				state = stateDone
			default:
				if len(current) > 0 {
					current = append(current, line)
				}
			}
		}
		if state == stateDone {
			break
		}
	}
	if len(current) > 0 {
		blocks = append(blocks, strings.Join(current, "\n"))
	}
	return blocks
}

// ParseBlock parses one extracted block as a single equipment record.
// The block text is itself a valid one-element YAML sequence (it begins with
// the item marker), so it is decoded as such and the sole element returned
// with its key order intact.
func ParseBlock(block string) (*omap.Map, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(block), &node); err != nil {
		return nil, err
	}
	v, err := omap.DecodeNode(&node)
	if err != nil {
		return nil, err
	}
	seq, ok := v.([]any)
	if !ok || len(seq) == 0 {
		return nil, errEmptyBlock
	}
	m, ok := seq[0].(*omap.Map)
	if !ok {
		return nil, errNotAMapping
	}
	return m, nil
}
