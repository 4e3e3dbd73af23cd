// Package diagnostic provides structured errors, warnings and notes
// collected while running generation units.
//
// Key capabilities:
//   - One error diagnostic per failed generation unit, with the outlet
//     stack and element it failed on
//   - Warnings for recoverable problems such as unformattable output
//   - Suggestions carried over from unknown name errors
package diagnostic
