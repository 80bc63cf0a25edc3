package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cedtools/equiplink/pkg/errors"
	"github.com/cedtools/equiplink/pkg/mergecat"
)

// reorderCommand creates the reorder command.
func (c *CLI) reorderCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "reorder <catalog.yaml>",
		Short: "Rewrite a catalog into canonical key order without merging",
		Long: `Reorder rewrites every equipment definition so that known keys appear in
a fixed canonical order, with unrecognized keys preserved after them in their
original relative order. Record order, record count, and every value are left
untouched, and the rewrite is validated against the input before the output
is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileNotFound, err, "read catalog")
			}

			outPath := output
			if outPath == "" {
				outPath = derivedOutputPath(args[0], "_ordered")
			}
			if err := errors.ValidateOutputPath(outPath); err != nil {
				return err
			}

			result, err := mergecat.RunReorder(text, mergecat.Options{Logger: c.Logger})
			if err != nil {
				return err
			}
			if err := atomicWrite(outPath, result); err != nil {
				return err
			}

			printNewline()
			fmt.Println(StyleTitle.Render("Reorder"))
			printSuccess("Catalog rewritten in canonical key order")
			printFile(outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to <input>_ordered.yaml)")
	return cmd
}
