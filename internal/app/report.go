package app

import (
	"encoding/json"
	"fmt"

	"github.com/vk/loomspec/internal/diag"
	"github.com/vk/loomspec/internal/ir"
)

// renderReport writes the validation outcome to the app's output writer in
// the configured format.
func (a *App) renderReport(result *ir.Result) error {
	if a.config.ReportFormat == "json" {
		return a.renderJSON(result)
	}
	return a.renderText(result)
}

func (a *App) renderText(result *ir.Result) error {
	if result.Valid() && len(result.Diagnostics) == 0 {
		fmt.Fprintln(a.outW, "document is valid")
		return nil
	}
	for _, d := range result.Diagnostics {
		fmt.Fprintln(a.outW, d.String())
	}
	if result.Valid() {
		fmt.Fprintln(a.outW, "document is valid")
	} else {
		fmt.Fprintf(a.outW, "document is invalid: %d diagnostic(s)\n", len(result.Diagnostics))
	}
	return nil
}

// jsonDiagnostic is the wire shape of one diagnostic in JSON reports.
type jsonDiagnostic struct {
	Kind          string `json:"kind"`
	Severity      string `json:"severity"`
	ComponentKind string `json:"component_kind,omitempty"`
	ID            string `json:"component_id,omitempty"`
	Field         string `json:"field,omitempty"`
	Summary       string `json:"summary"`
	Detail        string `json:"detail,omitempty"`
}

type jsonReport struct {
	Valid       bool             `json:"valid"`
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
}

func (a *App) renderJSON(result *ir.Result) error {
	report := jsonReport{
		Valid:       result.Valid(),
		Diagnostics: make([]jsonDiagnostic, 0, len(result.Diagnostics)),
	}
	for _, d := range result.Diagnostics {
		report.Diagnostics = append(report.Diagnostics, toJSON(d))
	}
	enc := json.NewEncoder(a.outW)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func toJSON(d *diag.Diagnostic) jsonDiagnostic {
	return jsonDiagnostic{
		Kind:          string(d.Kind),
		Severity:      d.Severity.String(),
		ComponentKind: d.Subject.ComponentKind,
		ID:            d.Subject.ComponentID,
		Field:         d.Subject.Field,
		Summary:       d.Summary,
		Detail:        d.Detail,
	}
}
