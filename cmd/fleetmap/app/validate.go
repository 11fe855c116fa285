package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command, which compares manifest
// records against the store without writing anything.
func (a *App) NewValidateCommand() *cobra.Command {
	var manifestFile string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Compare manifest records against the store",
		Long: `Validate reads each manifest record back from the store and reports
field-by-field differences. The store is never modified.

Exit status is 0 when every record matches, 3 when any record mismatches
or is missing from the store, and 2 when some records could not be read
back at all.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fm, err := a.Fleetmap()
			if err != nil {
				return err
			}

			records, err := fm.LoadManifest(manifestFile)
			if err != nil {
				return err
			}

			result := fm.ValidateNodes(cmd.Context(), records)

			if err := a.renderValidationResult(cmd, result); err != nil {
				return err
			}

			switch {
			case result.Partial():
				return &exitError{
					code:    ExitPartial,
					message: fmt.Sprintf("validate: %d records could not be compared", len(result.Errors)),
				}
			case result.Drifted():
				return &exitError{
					code: ExitDrift,
					message: fmt.Sprintf("validate: %d of %d records drifted from the store",
						result.Summary.Mismatch+result.Summary.Missing, result.Summary.Total()),
				}
			default:
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&manifestFile, "file", "f", "nodes.yaml", "path to the node manifest")

	return cmd
}
