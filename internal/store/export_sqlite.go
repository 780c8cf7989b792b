package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"rentdata/internal/model"

	_ "modernc.org/sqlite"
)

// ExportSQLite writes the entries (inputs and derived amounts) and the pet count
// into a SQLite database at path. Existing rows in the export tables are replaced.
func ExportSQLite(ctx context.Context, path string, petCount int8, entries []model.Entry) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("export sqlite: missing path")
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	if err := migrateExportSQLite(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, st := range []string{`DELETE FROM entries;`, `DELETE FROM properties;`} {
		if _, err := tx.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO properties(k, v) VALUES(?, ?)`, petCountKey, int(petCount)); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries(
			position, name, beds, baths,
			deposit, pet_deposit, pet_monthly, parking_monthly, monthly_rent,
			total_rent, rent_for_2, rent_for_3, rent_for_4,
			link
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range entries {
		beds, _ := e.Int(model.Beds)
		baths, _ := e.Int(model.Baths)
		if _, err := stmt.ExecContext(ctx,
			i, e.Name(), int(beds), int(baths),
			floatOf(e, model.Deposit), floatOf(e, model.PetDeposit), floatOf(e, model.PetMonthly),
			floatOf(e, model.ParkingMonthly), floatOf(e, model.MonthlyRent),
			floatOf(e, model.TotalRent), floatOf(e, model.RentFor2), floatOf(e, model.RentFor3), floatOf(e, model.RentFor4),
			e.Link(),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func migrateExportSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS properties (
			k TEXT PRIMARY KEY,
			v INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS entries (
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			beds INTEGER NOT NULL,
			baths INTEGER NOT NULL,
			deposit REAL NOT NULL,
			pet_deposit REAL NOT NULL,
			pet_monthly REAL NOT NULL,
			parking_monthly REAL NOT NULL,
			monthly_rent REAL NOT NULL,
			total_rent REAL NOT NULL,
			rent_for_2 REAL NOT NULL,
			rent_for_3 REAL NOT NULL,
			rent_for_4 REAL NOT NULL,
			link TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS entries_name ON entries(name COLLATE NOCASE);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}
