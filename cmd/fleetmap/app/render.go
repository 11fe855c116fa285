package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/fleetmap/internal/cmd/output"
	"github.com/agentstation/fleetmap/pkg/nodes"
	"github.com/agentstation/fleetmap/pkg/reconcile"
)

// formatter resolves the output format from flags and environment and
// returns the matching formatter.
func (a *App) formatter() output.Formatter {
	return output.NewFormatter(output.DetectFormat(a.config.Format))
}

// renderPutResult writes a bulk write result in the configured format.
func (a *App) renderPutResult(cmd *cobra.Command, result *reconcile.PutResult) error {
	if output.DetectFormat(a.config.Format) != output.FormatTable {
		return a.formatter().Format(cmd.OutOrStdout(), result)
	}

	data := output.Data{
		Headers: []string{"Hostname", "Result"},
	}
	for _, hostname := range result.Succeeded {
		data.Rows = append(data.Rows, []string{hostname, "ok"})
	}
	for _, outcome := range result.Failed {
		data.Rows = append(data.Rows, []string{outcome.Hostname, "error: " + outcome.Error()})
	}

	return a.formatter().Format(cmd.OutOrStdout(), data)
}

// renderValidationResult writes a validation result in the configured
// format. The table form expands mismatches to one row per field.
func (a *App) renderValidationResult(cmd *cobra.Command, result *reconcile.ValidationResult) error {
	if output.DetectFormat(a.config.Format) != output.FormatTable {
		return a.formatter().Format(cmd.OutOrStdout(), result)
	}

	data := output.Data{
		Headers: []string{"Hostname", "Status", "Field", "Declared", "Stored"},
	}
	for _, report := range result.Summary.Reports {
		if report.Status != nodes.StatusMismatch {
			data.Rows = append(data.Rows, []string{report.Hostname, string(report.Status), "", "", ""})
			continue
		}
		for _, field := range report.FieldNames() {
			fd := report.Fields[field]
			data.Rows = append(data.Rows, []string{
				report.Hostname,
				string(report.Status),
				field,
				formatValue(fd.Declared),
				formatValue(fd.Stored),
			})
		}
	}
	for _, outcome := range result.Errors {
		data.Rows = append(data.Rows, []string{outcome.Hostname, "error", "", "", outcome.Error()})
	}

	if err := a.formatter().Format(cmd.OutOrStdout(), data); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d match, %d mismatch, %d missing of %d records\n",
		result.Summary.Match, result.Summary.Mismatch, result.Summary.Missing, result.Summary.Total())
	return nil
}

// formatValue renders a field value for a table cell.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		s := ""
		for i, item := range val {
			if i > 0 {
				s += ", "
			}
			s += fmt.Sprintf("%v", item)
		}
		return s
	default:
		return fmt.Sprintf("%v", val)
	}
}
