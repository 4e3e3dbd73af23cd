// Package output decides where and how rendered generator output ends up on
// disk.
//
// An Output names a target path, its Type (comment delimiters, line break and
// an optional formatter) and what to do with a target that already exists.
// A Writer applies that decision over a billy filesystem. In dry-run mode the
// Writer never touches the filesystem and reports a line diff against the
// current content instead, which backs the check command.
package output
