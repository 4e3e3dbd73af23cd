// Package catalog loads outlet catalogs: YAML files declaring the outlets of
// a generator and the actions of their mergepoints.
//
// A catalog looks like this:
//
//	version: "1"
//	outlets:
//	  - name: torque.sql.table
//	    input: table
//	    template: |
//	      CREATE TABLE {{attr "name"}} (
//	      {{mergepoint "columns"}});
//	    mergepoints:
//	      columns:
//	        - apply: {path: column, outlet: column}
//	  - name: torque.sql.column
//	    templateFile: templates/column.tmpl
//	  - name: torque.license
//	    copy: LICENSE.txt
//	mergepoints:
//	  - outlet: torque.sql.table
//	    name: header
//	    actions:
//	      - output: "-- generated\n"
//	      - option: torque.sql.comment
//
// Action forms are output, apply, traverse, attribute, option and
// mergepoint. A plain string is short for output. Files referenced by
// templateFile and copy are resolved against the directory of the catalog.
//
// Catalogs are checked against an embedded JSON schema before they are
// decoded, so structural mistakes are reported with their YAML path.
package catalog
