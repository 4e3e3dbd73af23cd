// Package property reads and writes named properties of Go values through
// reflection. It is the bridge between the untyped element graph and typed
// model structs: an attribute "javaName" or a child element "foreign-key"
// is resolved to a field or to accessor methods of the target.
//
// Resolution order for a property name n (converted to an exported Go name N):
//
//  1. an exported field N+suffix for each configured suffix, or a field whose
//     `torque` tag equals n+suffix
//  2. an exported field prefix+N for each configured prefix
//  3. accessor methods for N+suffix: getter N(), GetN() or IsN(), setter SetN(v)
//
// The first hit is bound when the Accessor is created and used for every later
// Get and Set.
//
// Go has runtime reflection, so the per-type accessor tables a language
// without it would need are not generated; the search order and the
// append-to-collection behaviour are kept as described above.
package property
