package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/myrjola/reaksi/internal/errors"
)

type schemaObject struct {
	Type      string `db:"type"`
	Name      string `db:"name"`
	TableName string `db:"tbl_name"`
	SQL       string `db:"sql"`
}

const schemaObjectsQuery = `SELECT type, name, tbl_name, sql
FROM sqlite_schema
WHERE name NOT LIKE 'sqlite_%' AND sql IS NOT NULL
ORDER BY CASE type WHEN 'table' THEN 0 ELSE 1 END, name`

// sync makes the database schema match schemaDefinition.
//
// The migration is declarative. The target schema is created in a scratch in-memory database and compared object by
// object with the current schema:
//
//  1. Indexes and triggers that are removed or changed are dropped.
//  2. Removed tables are dropped and new tables created.
//  3. Changed tables are rebuilt keeping the data of the common columns, following
//     https://www.sqlite.org/lang_altertable.html#otheralter.
//  4. Missing indexes and triggers are created.
//
// Inspired by https://david.rothlis.net/declarative-schema-migration-for-sqlite/
func (db *Database) sync(ctx context.Context, schemaDefinition string) (err error) {
	target, err := connect(ctx, ":memory:", db.logger)
	if err != nil {
		return errors.Wrap(err, "open schema target database")
	}
	defer func() {
		if closeErr := target.Close(); closeErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to close schema target database",
				errors.SlogError(closeErr))
		}
	}()
	if _, err = target.ReadWrite.ExecContext(ctx, schemaDefinition); err != nil {
		return errors.Wrap(err, "create schema target")
	}
	var targetObjects []schemaObject
	if err = target.ReadWrite.SelectContext(ctx, &targetObjects, schemaObjectsQuery); err != nil {
		return errors.Wrap(err, "query target schema")
	}

	// Foreign keys can't be toggled inside a transaction.
	if _, err = db.ReadWrite.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return errors.Wrap(err, "disable foreign key validation")
	}
	defer func() {
		if _, fkErr := db.ReadWrite.ExecContext(ctx, "PRAGMA foreign_keys = ON"); fkErr != nil {
			err = errors.Join(err, errors.Wrap(fkErr, "re-enable foreign key validation"))
		}
	}()

	tx, err := db.ReadWrite.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "start transaction")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				db.logger.LogAttrs(ctx, slog.LevelError, "failed to rollback transaction", errors.SlogError(rbErr))
			}
		}
	}()

	if err = db.syncObjects(ctx, tx, target, targetObjects); err != nil {
		return err
	}

	var violations []string
	if err = tx.SelectContext(ctx, &violations, "SELECT \"table\" FROM pragma_foreign_key_check"); err != nil {
		return errors.Wrap(err, "foreign key check")
	}
	if len(violations) > 0 {
		return errors.New("foreign key violations after migration", slog.Any("tables", violations))
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}

func (db *Database) syncObjects(ctx context.Context, tx *sqlx.Tx, target *Database, targetObjects []schemaObject) error {
	var currentObjects []schemaObject
	if err := tx.SelectContext(ctx, &currentObjects, schemaObjectsQuery); err != nil {
		return errors.Wrap(err, "query current schema")
	}
	find := func(objects []schemaObject, kind, name string) (schemaObject, bool) {
		i := slices.IndexFunc(objects, func(o schemaObject) bool { return o.Type == kind && o.Name == name })
		if i < 0 {
			return schemaObject{}, false
		}
		return objects[i], true
	}

	for _, current := range currentObjects {
		if current.Type == "table" || current.Type == "view" {
			continue
		}
		if want, ok := find(targetObjects, current.Type, current.Name); ok && want.SQL == current.SQL {
			continue
		}
		db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping schema object",
			slog.String("type", current.Type), slog.String("name", current.Name))
		query := fmt.Sprintf("DROP %s IF EXISTS %q", strings.ToUpper(current.Type), current.Name)
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return errors.Wrap(err, "drop schema object", slog.String("query", query))
		}
	}

	for _, current := range currentObjects {
		if current.Type != "table" {
			continue
		}
		if _, ok := find(targetObjects, "table", current.Name); ok {
			continue
		}
		db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping table", slog.String("table", current.Name))
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE %q", current.Name)); err != nil {
			return errors.Wrap(err, "drop table", slog.String("table", current.Name))
		}
	}

	for _, want := range targetObjects {
		if want.Type != "table" {
			continue
		}
		current, ok := find(currentObjects, "table", want.Name)
		switch {
		case !ok:
			db.logger.LogAttrs(ctx, slog.LevelInfo, "creating table", slog.String("query", want.SQL))
			if _, err := tx.ExecContext(ctx, want.SQL); err != nil {
				return errors.Wrap(err, "create table", slog.String("query", want.SQL))
			}
		case current.SQL != want.SQL:
			if err := db.rebuildTable(ctx, tx, target, current, want); err != nil {
				return errors.Wrap(err, "rebuild table", slog.String("table", want.Name))
			}
		}
	}

	// Rebuilt tables lost their indexes and triggers so the current state is queried again.
	if err := tx.SelectContext(ctx, &currentObjects, schemaObjectsQuery); err != nil {
		return errors.Wrap(err, "query migrated schema")
	}
	for _, want := range targetObjects {
		if want.Type == "table" {
			continue
		}
		if _, ok := find(currentObjects, want.Type, want.Name); ok {
			continue
		}
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating schema object",
			slog.String("type", want.Type), slog.String("query", want.SQL))
		if _, err := tx.ExecContext(ctx, want.SQL); err != nil {
			return errors.Wrap(err, "create schema object", slog.String("query", want.SQL))
		}
	}
	return nil
}

// rebuildTable replaces the table with the new definition and copies over the columns both definitions share.
func (db *Database) rebuildTable(
	ctx context.Context,
	tx *sqlx.Tx,
	target *Database,
	current schemaObject,
	want schemaObject,
) error {
	db.logger.LogAttrs(ctx, slog.LevelInfo, "migrating table",
		slog.String("table", want.Name),
		slog.String("current_sql", current.SQL),
		slog.String("new_sql", want.SQL))

	var currentColumns, targetColumns []string
	if err := tx.SelectContext(ctx, &currentColumns, "SELECT name FROM pragma_table_info(?)", current.Name); err != nil {
		return errors.Wrap(err, "query current columns")
	}
	if err := target.ReadWrite.SelectContext(ctx, &targetColumns, "SELECT name FROM pragma_table_info(?)",
		want.Name); err != nil {
		return errors.Wrap(err, "query target columns")
	}
	var common []string
	for _, column := range targetColumns {
		if slices.Contains(currentColumns, column) {
			// Quoted to handle column names that are SQLite keywords.
			common = append(common, fmt.Sprintf("%q", column))
		}
	}

	tempName := want.Name + "_migration_temp"
	tempSQL := strings.Replace(want.SQL, want.Name, tempName, 1)
	if _, err := tx.ExecContext(ctx, tempSQL); err != nil {
		return errors.Wrap(err, "create table with temporary name", slog.String("query", tempSQL))
	}
	if len(common) > 0 {
		columns := strings.Join(common, ", ")
		copySQL := fmt.Sprintf("INSERT INTO %q (%s) SELECT %s FROM %q", tempName, columns, columns, want.Name)
		if _, err := tx.ExecContext(ctx, copySQL); err != nil {
			return errors.Wrap(err, "copy data", slog.String("query", copySQL))
		}
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE %q", want.Name)); err != nil {
		return errors.Wrap(err, "drop old table")
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %q RENAME TO %q", tempName, want.Name)); err != nil {
		return errors.Wrap(err, "rename new table")
	}
	return nil
}
