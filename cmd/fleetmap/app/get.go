package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewGetCommand creates the get command, which reads one node record from
// the store and prints it as YAML.
func (a *App) NewGetCommand() *cobra.Command {
	var hostname string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Read one node record from the store",
		Long: `Get reads the stored record for a hostname and prints it as YAML.
A hostname with no stored record exits with status 1.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fm, err := a.Fleetmap()
			if err != nil {
				return err
			}

			info, found, err := fm.GetNodeInfo(cmd.Context(), hostname)
			if err != nil {
				return err
			}
			if !found {
				return &exitError{
					code:    ExitFailure,
					message: fmt.Sprintf("get: no record stored for %q", hostname),
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), info)
			return nil
		},
	}

	cmd.Flags().StringVarP(&hostname, "hostname", "n", "", "hostname to read")
	_ = cmd.MarkFlagRequired("hostname")

	return cmd
}
