package model

import (
	"fmt"

	"torque-generator/internal/source"
)

// ToTree converts db into a database element tree. Empty string fields are
// left out, shared objects become shared elements.
func ToTree(db *Database) (*source.Element, error) {
	root, err := source.FromObject("database", db)
	if err != nil {
		return nil, fmt.Errorf("converting database %s: %w", db.Name, err)
	}

	source.Walk(root, func(e *source.Element) bool {
		for _, name := range e.AttributeNames() {
			if s, ok := e.Attribute(name).(string); ok && s == "" {
				e.SetAttribute(name, nil)
			}
		}

		return true
	})

	return root, nil
}
