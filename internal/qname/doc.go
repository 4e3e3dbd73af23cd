// Package qname provides hierarchical dotted names and the maps keyed by them.
//
// A Namespace is a dot separated path such as "org.apache.torque". The root
// namespace is the empty string. A name defined in a namespace is visible from
// that namespace and from every namespace below it, so outlets, variables and
// mergepoint mappings registered for "org.apache" are found when working in
// "org.apache.torque.om".
//
// Key types:
//   - Namespace: immutable dotted path with visibility rules
//   - QualifiedName: (Namespace, local name) pair, "namespace.name" in string form
//   - Map: QualifiedName keyed map with ancestor lookup and shadowing
package qname
