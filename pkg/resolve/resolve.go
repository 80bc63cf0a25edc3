// Package resolve turns link relations into world-space placement requests.
//
// BuildChildRequests resolves exactly one level: given a parent definition
// whose world pose is already known, it emits one request per placeable
// child, composing the child's anchor and relative offsets against the
// parent pose. It never recurses.
//
// Walk packages the caller-driven recursion pattern: each emitted request is
// handed to a callback, and the pose the callback reports back seeds
// resolution of that child's own children. Walk carries an explicit
// visited-id set; authored data does not guarantee acyclicity, so a child
// id seen twice is treated as a data error, logged, and skipped.
package resolve

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/cedtools/equiplink/pkg/catalog"
	"github.com/cedtools/equiplink/pkg/geometry"
	"github.com/cedtools/equiplink/pkg/offset"
	"github.com/cedtools/equiplink/pkg/omap"
	"github.com/cedtools/equiplink/pkg/relations"
)

// Request is one resolved placement: a child equipment definition together
// with the world point and rotation it should be placed at. Requests are
// transient resolver output and are never persisted.
type Request struct {
	Equipment   *omap.Map     // the child definition record
	EquipmentID string        // the child's id
	Name        string        // the child's display name
	Labels      []string      // placement candidate labels, catalog order
	TargetPoint geometry.Vec3 // absolute world-space target
	RotationDeg float64       // absolute world rotation
	Offsets     offset.Offset // the relative offsets that produced the target
}

// Options configures resolution.
type Options struct {
	// AnchorLEDID filters children to those tagged with this anchor id
	// (compared trimmed and case-folded). Empty includes all children.
	AnchorLEDID string

	// Logger receives warnings about skipped entries. Defaults to a
	// discard logger.
	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}

// BuildChildRequests computes placement requests for the direct children of
// parent, whose resolved world pose is parentPoint/parentRotationDeg.
//
// Child entries are silently dropped when the referenced definition is
// missing from the catalog, the child's name is blank, or the repository
// has no placement candidates for it - partial catalogs and draft data are
// expected, so none of these is an error. Surviving requests preserve the
// stored child-list order.
//
// Both the anchor point and the final target compose in the parent's
// rotation frame: the anchor offsets locate a reference feature on the
// parent, and the child offsets are then applied from that feature, still
// rotated by the parent's own rotation. The anchor has no rotation frame of
// its own.
func BuildChildRequests(cat *catalog.Catalog, repo *catalog.Repository, parent *omap.Map, parentPoint geometry.Vec3, parentRotationDeg float64, opts Options) []Request {
	if cat == nil || repo == nil || parent == nil {
		return nil
	}
	logger := opts.logger()
	anchorFilter := catalog.Normalize(opts.AnchorLEDID)

	var requests []Request
	for _, entry := range relations.Children(parent) {
		childID := entry.GetString(relations.KeyEquipmentID)
		child := cat.FindByID(childID)
		if child == nil {
			logger.Debugf("skipping child %q: not in catalog", childID)
			continue
		}
		entryAnchor := catalog.Normalize(entry.GetString(relations.KeyAnchorLEDID))
		if anchorFilter != "" && entryAnchor != anchorFilter {
			continue
		}
		name := catalog.Name(child)
		if name == "" {
			logger.Debugf("skipping child %q: blank name", childID)
			continue
		}
		labels := repo.LabelsFor(name)
		if len(labels) == 0 {
			logger.Debugf("skipping child %q: no placement candidates", name)
			continue
		}

		offs, _ := entry.Get(relations.KeyOffsets)
		anchorOffs, _ := entry.Get(relations.KeyAnchorOffsets)
		childOffset := offset.FromMap(offs)
		anchorOffset := offset.FromMap(anchorOffs)

		anchorPoint := offset.TargetPoint(&parentPoint, parentRotationDeg, anchorOffset)
		target := offset.TargetPoint(&anchorPoint, parentRotationDeg, childOffset)
		rotation := offset.ChildRotation(parentRotationDeg, childOffset)

		requests = append(requests, Request{
			Equipment:   child,
			EquipmentID: catalog.ID(child),
			Name:        name,
			Labels:      labels,
			TargetPoint: target,
			RotationDeg: rotation,
			Offsets:     childOffset,
		})
	}
	return requests
}

// WalkFunc receives each placement request during a Walk, with the request's
// depth below the root (direct children are depth 0). It returns the world
// pose at which the child was actually placed - normally the request's own
// target and rotation, but a caller that adjusts placements reports the
// adjusted pose - and whether to descend into that child's children.
type WalkFunc func(req Request, depth int) (point geometry.Vec3, rotationDeg float64, descend bool)

// Walk resolves the whole subtree below root, one level at a time, feeding
// each placed child's pose back in as the next parent pose.
//
// The anchor filter in opts applies to the root level only; descent below a
// placed child resolves all of that child's children.
//
// Walk maintains a visited set seeded with the root id. A child whose id
// was already visited indicates cyclic relation data; the entry is skipped
// with a logged warning and the walk continues.
func Walk(cat *catalog.Catalog, repo *catalog.Repository, root *omap.Map, rootPoint geometry.Vec3, rootRotationDeg float64, opts Options, fn WalkFunc) {
	if root == nil || fn == nil {
		return
	}
	logger := opts.logger()
	visited := map[string]bool{}
	if id := catalog.Normalize(catalog.ID(root)); id != "" {
		visited[id] = true
	}

	var walk func(parent *omap.Map, point geometry.Vec3, rotation float64, anchorFilter string, depth int)
	walk = func(parent *omap.Map, point geometry.Vec3, rotation float64, anchorFilter string, depth int) {
		reqs := BuildChildRequests(cat, repo, parent, point, rotation, Options{
			AnchorLEDID: anchorFilter,
			Logger:      opts.Logger,
		})
		for _, req := range reqs {
			key := catalog.Normalize(req.EquipmentID)
			if key != "" && visited[key] {
				logger.Warnf("skipping %q: already placed in this pass (cyclic relation data)", req.EquipmentID)
				continue
			}
			if key != "" {
				visited[key] = true
			}
			childPoint, childRotation, descend := fn(req, depth)
			if !descend {
				continue
			}
			walk(req.Equipment, childPoint, childRotation, "", depth+1)
		}
	}
	walk(root, rootPoint, rootRotationDeg, strings.TrimSpace(opts.AnchorLEDID), 0)
}
