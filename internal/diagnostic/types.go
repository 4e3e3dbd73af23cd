package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"torque-generator/internal/common"
)

// Diagnostics holds all diagnostic information of a generation run.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code classifies the diagnostic, see the Code constants.
	Code string
	// Message is the human-readable description.
	Message string
	// Unit is the generation unit this relates to (if any).
	Unit string
	// Outlet is the outlet that was running (if any).
	Outlet string
	// Element is the path of the source element being processed (if any).
	Element string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Codes used by the generator.
const (
	CodeConfiguration = "configuration"
	CodeModelMismatch = "model-mismatch"
	CodeProperty      = "property"
	CodeResultType    = "result-type"
	CodeStructure     = "structure"
	CodeSource        = "source"
	CodeOutput        = "output"
	CodeGeneration    = "generation"
)

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Add appends d to the list matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case DiagnosticError:
		d.Errors = append(d.Errors, diag)
	case DiagnosticWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, unit, outlet string) {
	d.Add(Diagnostic{Severity: DiagnosticError, Code: code, Message: message, Unit: unit, Outlet: outlet})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, unit, outlet string) {
	d.Add(Diagnostic{Severity: DiagnosticWarning, Code: code, Message: message, Unit: unit, Outlet: outlet})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, unit, outlet string) {
	d.Add(Diagnostic{Severity: DiagnosticInfo, Code: code, Message: message, Unit: unit, Outlet: outlet})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// All returns errors, warnings and infos in this order.
func (d *Diagnostics) All() []Diagnostic {
	all := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	all = append(all, d.Errors...)
	all = append(all, d.Warnings...)

	return append(all, d.Infos...)
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Unit != "" {
		prefix = append(prefix, "["+d.Unit+"]")
	}

	if d.Outlet != "" {
		prefix = append(prefix, d.Outlet)
	}

	if d.Element != "" {
		prefix = append(prefix, "at "+d.Element)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
