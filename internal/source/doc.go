// Package source provides the element graph every generation input is
// turned into, plus the readers that build it.
//
// An Element has a name, attributes and an ordered list of children. Unlike
// a plain tree an element may have several parents (transformers attach the
// same column to a table and to a synthetic primary-key element) and the
// graph may contain cycles. Every element carries a stable numeric id; the
// recursive algorithms (Copy, String, GraphEquals, Path, Walk) track the ids
// they are working on in roaring bitmaps and treat a repeated id as a fixed
// point instead of recursing forever.
//
// Readers:
//   - XML files (aqwari.net/xml/xmltree)
//   - YAML files (gopkg.in/yaml.v3)
//   - JSON files with an optional JSONPath root selector (ohler55/ojg)
//   - SQLite database metadata (modernc.org/sqlite)
//   - Go packages (golang.org/x/tools/go/packages)
//   - arbitrary Go values (FromObject)
package source
