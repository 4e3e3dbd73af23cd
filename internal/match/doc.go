// Package match provides fuzzy name matching used for "did you mean"
// suggestions and the type compatibility classification used when values
// are assigned to model properties.
//
// Key functions:
//   - NormalizeIdent: folds case and separators so "foreign-key", "foreignKey"
//     and "ForeignKey" compare equal
//   - Levenshtein: edit distance between two strings
//   - Suggest: the known names closest to an unknown one
//   - ScoreTypeCompatibility: how a value of one reflect.Type reaches another
package match
