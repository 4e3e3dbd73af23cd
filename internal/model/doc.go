// Package model holds the typed Torque schema model and converts it from and
// to source element trees.
//
// Bind walks an element tree and fills the model through property accessors:
// attributes set fields, child elements are appended to slice fields. ToTree
// goes the other way. Both directions keep shared nodes shared, so a table
// listed in all-tables is the same *Table as the one in Tables.
package model
