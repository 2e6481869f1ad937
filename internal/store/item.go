package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/pkg/errors"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const itemSchema = `
	CREATE TABLE IF NOT EXISTS %[1]s (
		id INTEGER PRIMARY KEY,

		label TEXT NOT NULL,
		uri TEXT NOT NULL,
		parent_id INTEGER,
		sort_order INTEGER NOT NULL,
		active BOOLEAN NOT NULL DEFAULT 1,

		fragment TEXT NOT NULL DEFAULT '',
		target TEXT NOT NULL DEFAULT '',
		rel TEXT NOT NULL DEFAULT '',
		class TEXT NOT NULL DEFAULT '',
		dom_id TEXT NOT NULL DEFAULT '',
		li_class TEXT NOT NULL DEFAULT '',
		li_id TEXT NOT NULL DEFAULT '',
		ul_class TEXT NOT NULL DEFAULT '',
		ul_id TEXT NOT NULL DEFAULT '',

		handler_class TEXT NOT NULL DEFAULT '',
		handler_function TEXT NOT NULL DEFAULT '',

		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_%[1]s_parent_order ON %[1]s(parent_id, sort_order);
`

// itemColumns lists the writable columns in a stable order
var itemColumns = []navigation.Field{
	navigation.FieldLabel,
	navigation.FieldURI,
	navigation.FieldParentID,
	navigation.FieldOrder,
	navigation.FieldActive,
	navigation.FieldFragment,
	navigation.FieldTarget,
	navigation.FieldRel,
	navigation.FieldClass,
	navigation.FieldDomID,
	navigation.FieldLiClass,
	navigation.FieldLiID,
	navigation.FieldUlClass,
	navigation.FieldUlID,
	navigation.FieldHandlerClass,
	navigation.FieldHandlerFunction,
}

var itemAttributes = `id, label, uri, parent_id, sort_order, active, fragment, target, rel, class, dom_id, li_class, li_id, ul_class, ul_id, handler_class, handler_function, created_at, updated_at`

// InsertItem implements navigation.Repository.
func (s *Store) InsertItem(ctx context.Context, fields navigation.Fields) (int64, error) {
	fields, err := fields.Normalize()
	if err != nil {
		return 0, errors.WithStack(err)
	}

	columns := make([]string, 0, len(itemColumns)+2)
	values := make([]string, 0, len(itemColumns)+2)
	args := make([]any, 0, len(itemColumns)+3)

	for _, column := range itemColumns {
		value, exists := fields[column]
		if !exists {
			continue
		}

		columns = append(columns, string(column))
		values = append(values, "?")
		args = append(args, value)
	}

	if _, exists := fields[navigation.FieldOrder]; !exists {
		// Order is computed in the same statement to prevent concurrent
		// inserts from receiving the same value
		columns = append(columns, string(navigation.FieldOrder))
		values = append(values, fmt.Sprintf("(SELECT COUNT(*) + 1 FROM %s WHERE parent_id IS ?)", s.table))
		args = append(args, fields[navigation.FieldParentID])
	}

	now := time.Now().UTC().Unix()

	columns = append(columns, "created_at", "updated_at")
	values = append(values, "?", "?")
	args = append(args, now, now)

	query := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s) RETURNING id`,
		s.table, strings.Join(columns, ", "), strings.Join(values, ", "),
	)

	var id int64
	err = s.Tx(ctx, func(conn *sqlite.Conn) error {
		return errors.WithStack(sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: args,
			ResultFunc: func(stmt *sqlite.Stmt) error {
				id = stmt.ColumnInt64(0)
				return nil
			},
		}))
	})
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return id, nil
}

// UpdateItem implements navigation.Repository.
func (s *Store) UpdateItem(ctx context.Context, id int64, fields navigation.Fields) error {
	fields, err := fields.Normalize()
	if err != nil {
		return errors.WithStack(err)
	}

	assignments := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)

	for _, column := range itemColumns {
		value, exists := fields[column]
		if !exists {
			continue
		}

		assignments = append(assignments, fmt.Sprintf("%s = ?", column))
		args = append(args, value)
	}

	assignments = append(assignments, "updated_at = ?")
	args = append(args, time.Now().UTC().Unix(), id)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = ?`, s.table, strings.Join(assignments, ", "))

	return s.Tx(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: args,
		})
		if err != nil {
			return errors.WithStack(err)
		}

		if conn.Changes() == 0 {
			return errors.Wrapf(navigation.ErrNotFound, "item %d", id)
		}

		return nil
	})
}

// DeleteItem implements navigation.Repository.
func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, s.table)

	return s.Tx(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: []any{id},
		})
		if err != nil {
			return errors.WithStack(err)
		}

		if conn.Changes() == 0 {
			return errors.Wrapf(navigation.ErrNotFound, "item %d", id)
		}

		return nil
	})
}

// GetItem implements navigation.Repository.
func (s *Store) GetItem(ctx context.Context, id int64) (*navigation.MenuItem, error) {
	var item *navigation.MenuItem

	err := s.Do(ctx, func(conn *sqlite.Conn) error {
		query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ? LIMIT 1`, itemAttributes, s.table)

		return errors.WithStack(sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				item = &navigation.MenuItem{}
				return errors.WithStack(s.bindItem(stmt, item))
			},
		}))
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if item == nil {
		return nil, errors.Wrapf(navigation.ErrNotFound, "item %d", id)
	}

	return item, nil
}

// CountChildren implements navigation.Repository.
func (s *Store) CountChildren(ctx context.Context, parentID *int64) (int64, error) {
	var count int64

	err := s.Do(ctx, func(conn *sqlite.Conn) error {
		query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE parent_id IS ?`, s.table)

		return errors.WithStack(sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: []any{nullableID(parentID)},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				count = stmt.ColumnInt64(0)
				return nil
			},
		}))
	})

	return count, errors.WithStack(err)
}

// ActiveChildren implements navigation.Repository.
func (s *Store) ActiveChildren(ctx context.Context, parentID *int64, where navigation.Fields) ([]*navigation.MenuItem, error) {
	where, err := where.Normalize()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	conditions := []string{"active = 1", "parent_id IS ?"}
	args := []any{nullableID(parentID)}

	fields := make([]navigation.Field, 0, len(where))
	for field := range where {
		fields = append(fields, field)
	}

	slices.Sort(fields)

	for _, field := range fields {
		conditions = append(conditions, fmt.Sprintf("%s IS ?", field))
		args = append(args, where[field])
	}

	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s ORDER BY sort_order ASC, id ASC`,
		itemAttributes, s.table, strings.Join(conditions, " AND "),
	)

	var items []*navigation.MenuItem

	err = s.Do(ctx, func(conn *sqlite.Conn) error {
		return errors.WithStack(sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: args,
			ResultFunc: func(stmt *sqlite.Stmt) error {
				item := &navigation.MenuItem{}
				if err := s.bindItem(stmt, item); err != nil {
					return errors.WithStack(err)
				}

				items = append(items, item)
				return nil
			},
		}))
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return items, nil
}

var _ navigation.Repository = &Store{}

func (s *Store) bindItem(stmt *sqlite.Stmt, item *navigation.MenuItem) error {
	item.ID = stmt.ColumnInt64(0)
	item.Label = stmt.ColumnText(1)
	item.URI = stmt.ColumnText(2)

	if stmt.ColumnType(3) != sqlite.TypeNull {
		parentID := stmt.ColumnInt64(3)
		item.ParentID = &parentID
	}

	item.Order = int(stmt.ColumnInt64(4))
	item.Active = stmt.ColumnBool(5)
	item.Fragment = stmt.ColumnText(6)
	item.Target = stmt.ColumnText(7)
	item.Rel = stmt.ColumnText(8)
	item.Class = stmt.ColumnText(9)
	item.DomID = stmt.ColumnText(10)
	item.LiClass = stmt.ColumnText(11)
	item.LiID = stmt.ColumnText(12)
	item.UlClass = stmt.ColumnText(13)
	item.UlID = stmt.ColumnText(14)
	item.HandlerClass = stmt.ColumnText(15)
	item.HandlerFunction = stmt.ColumnText(16)
	item.CreatedAt = time.Unix(stmt.ColumnInt64(17), 0).UTC()
	item.UpdatedAt = time.Unix(stmt.ColumnInt64(18), 0).UTC()

	return nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}

	return *id
}
