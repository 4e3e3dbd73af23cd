package controller

import (
	"errors"

	"torque-generator/internal/diagnostic"
	"torque-generator/internal/outlet"
	"torque-generator/internal/output"
	"torque-generator/internal/property"
	"torque-generator/internal/source"
	"torque-generator/internal/transform"
)

// record adds an error diagnostic for a failure of unit u.
func (c *Controller) record(u UnitConfig, outletName string, model any, err error) {
	d := diagnostic.Diagnostic{
		Severity:    diagnostic.DiagnosticError,
		Code:        Classify(err),
		Message:     err.Error(),
		Unit:        u.Name,
		Outlet:      outletName,
		Suggestions: suggestions(err),
	}

	if model != nil {
		d.Element = outlet.DescribeModel(model)
	}

	c.Diagnostics.Add(d)
}

// Classify returns the diagnostic code for err.
func Classify(err error) string {
	var (
		mismatch    *outlet.ModelMismatchError
		propertyErr *property.Error
		unknown     *outlet.UnknownOutletError
	)

	switch {
	case errors.As(err, &mismatch), errors.Is(err, outlet.ErrModelNotElement):
		return diagnostic.CodeModelMismatch
	case errors.As(err, &propertyErr):
		return diagnostic.CodeProperty
	case errors.Is(err, outlet.ErrResultType):
		return diagnostic.CodeResultType
	case errors.Is(err, source.ErrPathLoop):
		return diagnostic.CodeStructure
	case errors.As(err, &unknown),
		errors.Is(err, ErrInvalidUnit),
		errors.Is(err, outlet.ErrDuplicateMergepoint),
		errors.Is(err, outlet.ErrDuplicateOutlet),
		errors.Is(err, transform.ErrMissingAttribute),
		errors.Is(err, transform.ErrDomainNotFound),
		errors.Is(err, transform.ErrUnknownType),
		errors.Is(err, transform.ErrUnknownTransformer),
		errors.Is(err, transform.ErrIncludeCycle),
		errors.Is(err, output.ErrUnknownType),
		errors.Is(err, output.ErrUnknownExisting):
		return diagnostic.CodeConfiguration
	case errors.Is(err, source.ErrInvalidDocument), errors.Is(err, source.ErrUnknownFormat):
		return diagnostic.CodeSource
	default:
		return diagnostic.CodeGeneration
	}
}

func suggestions(err error) []string {
	var (
		unknownOutlet *outlet.UnknownOutletError
		unknownType   *transform.UnknownTypeError
		propertyErr   *property.Error
	)

	switch {
	case errors.As(err, &unknownOutlet):
		return unknownOutlet.Suggestions
	case errors.As(err, &unknownType):
		return unknownType.Suggestions
	case errors.As(err, &propertyErr):
		return propertyErr.Suggestions
	default:
		return nil
	}
}
