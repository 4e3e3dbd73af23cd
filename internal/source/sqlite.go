package source

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"
)

// LoadSQLiteMetadata opens the SQLite database file at path and reads its
// schema with ReadDatabaseMetadata. The database is named after the file.
func LoadSQLiteMetadata(ctx context.Context, path string) (*Element, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return ReadDatabaseMetadata(ctx, db, name)
}

// ReadDatabaseMetadata describes the tables and views of a SQLite database
// in the shape of a schema file:
//
//	database(name)
//	  table(name) / view(name)
//	    column(name, type, size, scale, primaryKey, required, default)
//	    foreign-key(foreignTable)
//	      reference(local, foreign)
func ReadDatabaseMetadata(ctx context.Context, db *sql.DB, name string) (*Element, error) {
	root := NewElement("database")
	root.SetAttribute("name", name)

	rows, err := db.QueryContext(ctx,
		`SELECT name, type FROM sqlite_master
		 WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		 ORDER BY type, name`)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}

	type relation struct{ name, kind string }

	var relations []relation

	for rows.Next() {
		var r relation
		if err := rows.Scan(&r.name, &r.kind); err != nil {
			rows.Close()
			return nil, fmt.Errorf("listing tables: %w", err)
		}

		relations = append(relations, r)
	}

	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}

	for _, r := range relations {
		e := NewElement(r.kind)
		e.SetAttribute("name", r.name)

		if err := addColumns(ctx, db, e, r.name); err != nil {
			return nil, err
		}

		if r.kind == "table" {
			if err := addForeignKeys(ctx, db, e, r.name); err != nil {
				return nil, err
			}
		}

		root.AddChild(e)
	}

	return root, nil
}

func addColumns(ctx context.Context, db *sql.DB, table *Element, name string) error {
	rows, err := db.QueryContext(ctx,
		`SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`, name)
	if err != nil {
		return fmt.Errorf("reading columns of %s: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			colName, declType string
			notNull, pk       int
			dflt              sql.NullString
		)

		if err := rows.Scan(&colName, &declType, &notNull, &dflt, &pk); err != nil {
			return fmt.Errorf("reading columns of %s: %w", name, err)
		}

		c := NewElement("column")
		c.SetAttribute("name", colName)

		schemaType, size, scale := SQLiteSchemaType(declType)
		c.SetAttribute("type", schemaType)

		if size != "" {
			c.SetAttribute("size", size)
		}

		if scale != "" {
			c.SetAttribute("scale", scale)
		}

		if pk > 0 {
			c.SetAttribute("primaryKey", "true")
		}

		if notNull != 0 || pk > 0 {
			c.SetAttribute("required", "true")
		}

		if dflt.Valid {
			c.SetAttribute("default", strings.Trim(dflt.String, "'"))
		}

		table.AddChild(c)
	}

	return rows.Err()
}

func addForeignKeys(ctx context.Context, db *sql.DB, table *Element, name string) error {
	rows, err := db.QueryContext(ctx,
		`SELECT id, "table", "from", "to" FROM pragma_foreign_key_list(?) ORDER BY id, seq`, name)
	if err != nil {
		return fmt.Errorf("reading foreign keys of %s: %w", name, err)
	}
	defer rows.Close()

	var (
		current *Element
		lastID  = -1
	)

	for rows.Next() {
		var (
			id            int
			foreign, from string
			to            sql.NullString
		)

		if err := rows.Scan(&id, &foreign, &from, &to); err != nil {
			return fmt.Errorf("reading foreign keys of %s: %w", name, err)
		}

		if id != lastID {
			current = NewElement("foreign-key")
			current.SetAttribute("foreignTable", foreign)
			table.AddChild(current)

			lastID = id
		}

		ref := NewElement("reference")
		ref.SetAttribute("local", from)

		if to.Valid {
			ref.SetAttribute("foreign", to.String)
		}

		current.AddChild(ref)
	}

	return rows.Err()
}

var declaredSize = regexp.MustCompile(`^\s*([A-Za-z ]+?)\s*(?:\(\s*(\d+)\s*(?:,\s*(\d+)\s*)?\))?\s*$`)

// SQLiteSchemaType maps a declared SQLite column type to a schema type name
// plus optional size and scale, following SQLite's type affinity rules where
// the declared name is not a schema type itself.
func SQLiteSchemaType(declared string) (schemaType, size, scale string) {
	m := declaredSize.FindStringSubmatch(declared)
	if m == nil {
		return "BLOB", "", ""
	}

	base := strings.ToUpper(strings.TrimSpace(m[1]))
	size, scale = m[2], m[3]

	switch base {
	case "CHAR", "VARCHAR", "LONGVARCHAR", "CLOB", "NUMERIC", "DECIMAL", "TINYINT", "SMALLINT",
		"INTEGER", "BIGINT", "REAL", "FLOAT", "DOUBLE", "BINARY", "VARBINARY", "LONGVARBINARY",
		"BLOB", "DATE", "TIME", "TIMESTAMP", "BIT":
		return base, size, scale
	case "INT":
		return "INTEGER", size, scale
	case "BOOLEAN", "BOOL":
		return "BIT", size, scale
	case "DATETIME":
		return "TIMESTAMP", size, scale
	case "TEXT":
		return "LONGVARCHAR", size, scale
	}

	switch {
	case strings.Contains(base, "INT"):
		return "INTEGER", size, scale
	case strings.Contains(base, "CHAR"), strings.Contains(base, "CLOB"), strings.Contains(base, "TEXT"):
		return "VARCHAR", size, scale
	case base == "", strings.Contains(base, "BLOB"):
		return "BLOB", size, scale
	case strings.Contains(base, "REAL"), strings.Contains(base, "FLOA"), strings.Contains(base, "DOUB"):
		return "DOUBLE", size, scale
	default:
		return "NUMERIC", size, scale
	}
}
