package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPutCommand creates the put command, which writes every record in a
// manifest to the store.
func (a *App) NewPutCommand() *cobra.Command {
	var manifestFile string

	cmd := &cobra.Command{
		Use:   "put",
		Short: "Write manifest records to the store",
		Long: `Put parses the node manifest and writes each record to the store under
its hostname key. Writes are best-effort: a failure on one node does not
stop the remaining nodes from being written.

Exit status is 0 when every record was written, 2 when some records were
written and some failed, and 1 when no record was written.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fm, err := a.Fleetmap()
			if err != nil {
				return err
			}

			records, err := fm.LoadManifest(manifestFile)
			if err != nil {
				return err
			}

			result := fm.PutNodes(cmd.Context(), records)

			if err := a.renderPutResult(cmd, result); err != nil {
				return err
			}

			switch {
			case result.Ok():
				return nil
			case result.Partial():
				return &exitError{
					code:    ExitPartial,
					message: fmt.Sprintf("put: %d of %d records failed", len(result.Failed), result.Total()),
				}
			default:
				return &exitError{
					code:    ExitFailure,
					message: fmt.Sprintf("put: all %d records failed", result.Total()),
				}
			}
		},
	}

	cmd.Flags().StringVarP(&manifestFile, "file", "f", "nodes.yaml", "path to the node manifest")

	return cmd
}
