package analysis

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	badger "github.com/dgraph-io/badger/v4"
)

// BadgerLibrary is a Library stored in BadgerDB.
type BadgerLibrary struct {
	db *badger.DB
}

// BadgerOptions configures a BadgerLibrary.
type BadgerOptions struct {
	// Dir is the directory for data files. Required unless InMemory.
	Dir string

	// InMemory keeps everything in memory. Used by tests.
	InMemory bool

	// Logger receives badger's warnings and errors. Nil uses slog.Default().
	Logger *slog.Logger
}

// OpenBadger opens (or creates) a library.
func OpenBadger(opts BadgerOptions) (*BadgerLibrary, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("analysis: BadgerOptions.Dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	dbOpts = dbOpts.WithLogger(badgerLogger{logger.With("component", "badger")})

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("analysis: open library: %w", err)
	}
	return &BadgerLibrary{db: db}, nil
}

func (b *BadgerLibrary) Put(_ context.Context, r *Record) error {
	var id string
	if r != nil {
		id = r.ID
	}
	k, err := recordKey(id)
	if err != nil {
		return err
	}
	v, err := encodeRecord(r)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k, v)
	})
}

func (b *BadgerLibrary) Get(_ context.Context, id string) (*Record, error) {
	k, err := recordKey(id)
	if err != nil {
		return nil, err
	}
	var val []byte
	err = b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeRecord(val)
}

func (b *BadgerLibrary) Delete(_ context.Context, id string) error {
	k, err := recordKey(id)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(k)
	})
}

func (b *BadgerLibrary) List(ctx context.Context) iter.Seq2[*Record, error] {
	prefix := []byte(keyPrefix)
	return func(yield func(*Record, error) bool) {
		stopped := false
		err := b.db.View(func(txn *badger.Txn) error {
			iterOpts := badger.DefaultIteratorOptions
			iterOpts.Prefix = prefix
			it := txn.NewIterator(iterOpts)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				if err := ctx.Err(); err != nil {
					return err
				}
				val, err := it.Item().ValueCopy(nil)
				if err == nil {
					var r *Record
					r, err = decodeRecord(val)
					if err == nil {
						if !yield(r, nil) {
							stopped = true
							return nil
						}
						continue
					}
				}
				if !yield(nil, err) {
					stopped = true
					return nil
				}
			}
			return nil
		})
		if err != nil && !stopped {
			yield(nil, err)
		}
	}
}

func (b *BadgerLibrary) Close() error {
	return b.db.Close()
}

// badgerLogger routes badger's printf-style logs to slog. Info and debug
// output is dropped.
type badgerLogger struct {
	l *slog.Logger
}

func (b badgerLogger) Errorf(f string, v ...any)   { b.l.Error(fmt.Sprintf(f, v...)) }
func (b badgerLogger) Warningf(f string, v ...any) { b.l.Warn(fmt.Sprintf(f, v...)) }
func (badgerLogger) Infof(string, ...any)          {}
func (badgerLogger) Debugf(string, ...any)         {}
