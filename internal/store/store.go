package store

import (
	"context"
	"fmt"
	"regexp"

	"github.com/pkg/errors"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitemigration"
	"zombiezen.com/go/sqlite/sqlitex"
)

const DefaultTable = "menu_items"

var ErrInvalidTable = errors.New("invalid table name")

var validTable = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type Store struct {
	pool  *sqlitemigration.Pool
	table string
}

func (s *Store) Table() string {
	return s.table
}

func (s *Store) HealthCheck(ctx context.Context) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	defer s.pool.Put(conn)

	if err := s.pool.CheckHealth(); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (s *Store) Do(ctx context.Context, fn func(conn *sqlite.Conn) error) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	defer s.pool.Put(conn)

	if err := fn(conn); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (s *Store) Tx(ctx context.Context, fn func(conn *sqlite.Conn) error) error {
	return errors.WithStack(s.Do(ctx, func(conn *sqlite.Conn) (err error) {
		defer sqlitex.Save(conn)(&err)
		err = fn(conn)
		return errors.WithStack(err)
	}))
}

func (s *Store) Close() error {
	return errors.WithStack(s.pool.Close())
}

type Options struct {
	Table string
}

type OptionFunc func(opts *Options)

func WithTable(table string) OptionFunc {
	return func(opts *Options) {
		if table != "" {
			opts.Table = table
		}
	}
}

func NewStore(uri string, funcs ...OptionFunc) (*Store, error) {
	opts := &Options{
		Table: DefaultTable,
	}

	for _, fn := range funcs {
		fn(opts)
	}

	if !validTable.MatchString(opts.Table) {
		return nil, errors.Wrapf(ErrInvalidTable, "'%s'", opts.Table)
	}

	// The table name is configurable, its schema is applied on each pool opening
	schema := sqlitemigration.Schema{
		RepeatableMigration: fmt.Sprintf(itemSchema, opts.Table),
	}

	pool := sqlitemigration.NewPool(uri, schema, sqlitemigration.Options{
		Flags: sqlite.OpenCreate | sqlite.OpenReadWrite | sqlite.OpenWAL,
		PrepareConn: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteTransient(conn, "PRAGMA foreign_keys = on", nil)
		},
	})

	return &Store{
		pool:  pool,
		table: opts.Table,
	}, nil
}
