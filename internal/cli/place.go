package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cedtools/equiplink/pkg/catalog"
	"github.com/cedtools/equiplink/pkg/errors"
	"github.com/cedtools/equiplink/pkg/geometry"
	"github.com/cedtools/equiplink/pkg/resolve"
)

// placeOpts holds the command-line flags for the place command.
type placeOpts struct {
	parent   string // parent equipment id (or name fallback)
	at       string // world point "X,Y,Z" in inches
	rotation float64
	anchor   string // restrict to children linked through this anchor
	recurse  bool   // resolve the whole subtree instead of one level
}

// placeCommand creates the place command.
func (c *CLI) placeCommand() *cobra.Command {
	opts := placeOpts{}

	cmd := &cobra.Command{
		Use:   "place <catalog.yaml>",
		Short: "Resolve linked equipment to world-space placement requests",
		Long: `Place resolves the link relations stored on a parent equipment definition
into absolute placement requests: for each linked child it prints the world
point (inches) and rotation (degrees) the child should be placed at, together
with the catalog labels that are candidates for the placement.

Children whose definitions are missing from the catalog, or for which no
placement candidates exist, are skipped. With --recurse each resolved child's
pose seeds the resolution of its own children.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlace(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.parent, "parent", "", "parent equipment id (falls back to name lookup)")
	cmd.Flags().StringVar(&opts.at, "at", "0,0,0", "parent world point as X,Y,Z in inches")
	cmd.Flags().Float64Var(&opts.rotation, "rotation", 0, "parent world rotation in degrees")
	cmd.Flags().StringVar(&opts.anchor, "anchor", "", "only resolve children linked through this anchor element id")
	cmd.Flags().BoolVar(&opts.recurse, "recurse", false, "resolve the whole subtree")
	_ = cmd.MarkFlagRequired("parent")

	return cmd
}

func (c *CLI) runPlace(path string, opts placeOpts) error {
	if err := errors.ValidateEquipmentID(opts.parent); err != nil {
		return err
	}
	point, err := parsePoint(opts.at)
	if err != nil {
		return err
	}

	cat, err := catalog.Load(path)
	if err != nil {
		return err
	}
	parent := cat.FindByID(opts.parent)
	if parent == nil {
		parent = cat.FindByName(opts.parent)
	}
	if parent == nil {
		return errors.New(errors.ErrCodeEquipmentNotFound, "equipment %q not in catalog", opts.parent)
	}
	repo := catalog.NewRepository(cat)

	printNewline()
	fmt.Println(StyleTitle.Render("Placement requests"))
	printKeyValue("parent", catalog.Name(parent))
	printKeyValue("at", formatPoint(point))
	printKeyValue("rotation", fmt.Sprintf("%g°", geometry.NormalizeAngle(opts.rotation)))
	printNewline()

	resolveOpts := resolve.Options{AnchorLEDID: opts.anchor, Logger: c.Logger}
	count := 0

	if opts.recurse {
		resolve.Walk(cat, repo, parent, point, opts.rotation, resolveOpts,
			func(req resolve.Request, depth int) (geometry.Vec3, float64, bool) {
				printRequest(req, depth)
				count++
				return req.TargetPoint, req.RotationDeg, true
			})
	} else {
		for _, req := range resolve.BuildChildRequests(cat, repo, parent, point, opts.rotation, resolveOpts) {
			printRequest(req, 0)
			count++
		}
	}

	if count == 0 {
		printInfo("No placeable children")
		return nil
	}
	printNewline()
	printSuccess("Resolved %d placement request(s)", count)
	return nil
}

// printRequest prints one resolved placement, indented by depth.
func printRequest(req resolve.Request, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Println(indent + StyleHighlight.Render(req.Name) + " " + StyleDim.Render(req.EquipmentID))
	fmt.Println(indent + "  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(formatPoint(req.TargetPoint)) + StyleDim.Render(fmt.Sprintf(" @ %g°", req.RotationDeg)))
	fmt.Println(indent + "  " + StyleDim.Render("candidates: "+strings.Join(req.Labels, ", ")))
}

// parsePoint parses "X,Y,Z" (inches) into a vector. Missing trailing
// components default to zero.
func parsePoint(s string) (geometry.Vec3, error) {
	var p geometry.Vec3
	parts := strings.Split(s, ",")
	if len(parts) > 3 {
		return p, errors.New(errors.ErrCodeInvalidInput, "point %q: want X,Y,Z", s)
	}
	coords := []*float64{&p.X, &p.Y, &p.Z}
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return geometry.Vec3{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "point %q", s)
		}
		*coords[i] = v
	}
	return p, nil
}

// formatPoint renders a point as "(x, y, z)" with trailing zeros trimmed.
func formatPoint(p geometry.Vec3) string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}
