// Package outlet implements the rendering side of the generator.
//
// An Outlet is a named, namespace scoped unit of template execution. While it
// runs it may fill mergepoints: named extension points whose content is
// produced by an ordered list of actions. Actions print text, read
// attributes and options, or apply other outlets to selected elements, so a
// whole output file is built by outlets calling each other down the source
// tree.
//
// Every invocation goes through the same lifecycle:
//
//	BeforeExecute  check the model, push the outlet and a variable frame
//	Execute        produce a Result (string or bytes)
//	AfterExecute   pop the variable frame and the outlet
//
// Invoke runs the lifecycle and restores the previous model afterwards.
//
// Names of outlets, variables and options are qualified names. A name
// without a namespace is resolved from the namespace of the running outlet
// upwards, so a variable set by "torque.om.table" is seen by
// "torque.om.table.column" but not by "torque.sql".
package outlet
