// Package transform prepares source trees before outlets render them.
//
// A Transformer works on a Root, which is either an element tree or a typed
// model.Database. Transformers that make sense for both shapes implement
// both explicitly and switch on Root.Kind; there is no conversion behind
// the caller's back.
//
// Transformers shipped here:
//   - IncludeSchema: merges the top level elements of included schema files
//   - LoadExternalSchema: nests external schemas and builds all-tables/all-views
//   - CollectAttributeSetTrue: gathers flagged children, e.g. primary keys
//   - ResolveSchemaTypes: writes the effective SQL type of every column
//
// Schema files are loaded relative to the file being transformed. Loading a
// file that is already being loaded further up fails with ErrIncludeCycle.
package transform
