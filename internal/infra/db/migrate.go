package db

import (
	"database/sql"
	_ "embed"
)

//go:embed seeds/employees.sql
var seedEmployeesSQL string

// MigrateUp creates the demo reporting schema and seeds it.
// The shipped reports.yaml points at this table, so a fresh checkout can serve
// a working report without any external database. All statements are
// idempotent; running against an existing database is safe.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS employees (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    department  TEXT NOT NULL,
    title       TEXT NOT NULL,
    salary      INTEGER NOT NULL,
    hire_date   TEXT NOT NULL,
    active      INTEGER NOT NULL DEFAULT 1
)`); err != nil {
		return err
	}

	// Sort keys used by the shipped report definitions
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_employees_name ON employees(name)`,
		`CREATE INDEX IF NOT EXISTS idx_employees_department ON employees(department)`,
		`CREATE INDEX IF NOT EXISTS idx_employees_salary ON employees(salary)`,
		`CREATE INDEX IF NOT EXISTS idx_employees_hire_date ON employees(hire_date)`,
		`CREATE INDEX IF NOT EXISTS idx_employees_active ON employees(active)`,
	}

	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// Seed data (duplicates are skipped via INSERT OR IGNORE)
	if _, err := db.Exec(seedEmployeesSQL); err != nil {
		return err
	}

	return nil
}

// MigrateDown drops the demo reporting schema.
// Use with caution: this will delete all data in the demo table.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_employees_name`,
		`DROP INDEX IF EXISTS idx_employees_department`,
		`DROP INDEX IF EXISTS idx_employees_salary`,
		`DROP INDEX IF EXISTS idx_employees_hire_date`,
		`DROP INDEX IF EXISTS idx_employees_active`,
		`DROP TABLE IF EXISTS employees`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
