// Package controller runs generation units.
//
// A unit reads its sources, runs the configured transformers on each of
// them, and invokes a start outlet once per source or once per selected
// element. Every invocation produces one output file whose name comes from
// a filename template or a filename outlet.
//
// Units run one after the other. A failing unit is logged, recorded as an
// error diagnostic and abandoned; the remaining units still run and the
// failures are returned together.
package controller
