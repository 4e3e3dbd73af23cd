package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog is wrapped by every structural error of a catalog.
var ErrInvalidCatalog = errors.New("invalid catalog")

//go:embed schema.json
var schemaJSON []byte

// Schema returns the JSON schema catalogs are validated against.
func Schema() []byte {
	return schemaJSON
}

// Validate checks YAML catalog data against the schema. All violations are
// returned together.
func Validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	if doc == nil {
		// an empty file is an empty catalog
		return nil
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	if result.Valid() {
		return nil
	}

	var errs *multierror.Error
	for _, verr := range result.Errors() {
		errs = multierror.Append(errs, fmt.Errorf("%w: %s: %s", ErrInvalidCatalog, verr.Field(), verr.Description()))
	}

	return errs.ErrorOrNil()
}
