/*
Package pgstore implements a CommitKVStore persisted in PostgreSQL.

All writes of a block are kept in memory until Commit, which flushes them
in a single database transaction together with a new commit row. The
application hash is a sha256 chain over the previous hash and the ordered
operations of the block.
*/
package pgstore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"io"

	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/store"
	"github.com/iov-one/paystream/store/pgstore/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// DriverName is the database/sql driver registered by pgx.
const DriverName = "pgx"

const (
	selectValue  = `SELECT value FROM kv_entries WHERE key = $1`
	upsertValue  = `INSERT INTO kv_entries (key, value, version) VALUES ($1, $2, $3) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, version = EXCLUDED.version`
	deleteValue  = `DELETE FROM kv_entries WHERE key = $1`
	insertCommit = `INSERT INTO kv_commits (version, hash) VALUES ($1, $2)`
	selectLatest = `SELECT version, hash FROM kv_commits ORDER BY version DESC LIMIT 1`
)

// CommitStore keeps committed state in postgres and the current block in
// a btree cache.
type CommitStore struct {
	db     *sql.DB
	latest store.CommitID

	pending store.BTreeCacheWrap
	ops     *store.NonAtomicBatch
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// Open connects to the database, runs all migrations and loads the
// latest committed version.
func Open(ctx context.Context, dsn string) (*CommitStore, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	s := New(db)
	if err := s.LoadLatestVersion(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate brings the schema up to date.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "goose dialect")
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errors.Wrap(err, "migrate")
	}
	return nil
}

// New returns a store using an already migrated database. Call
// LoadLatestVersion before use.
func New(db *sql.DB) *CommitStore {
	s := &CommitStore{db: db}
	s.resetPending()
	return s
}

// Close releases the database connection.
func (s *CommitStore) Close() error {
	return s.db.Close()
}

func (s *CommitStore) resetPending() {
	s.ops = store.NewNonAtomicBatch(store.EmptyKVStore{})
	s.pending = store.NewBTreeCacheWrap(committed{s}, s.ops, nil)
}

// Get returns the committed value, nil if the key does not exist.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	if key == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "nil key")
	}
	var value []byte
	err := s.db.QueryRowContext(context.Background(), selectValue, key).Scan(&value)
	switch {
	case err == sql.ErrNoRows:
		return nil, nil
	case err != nil:
		return nil, errors.Wrap(err, "select value")
	}
	return value, nil
}

// CacheWrap returns a layer over the current block. Written changes are
// persisted on the next Commit.
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	return s.pending.CacheWrap()
}

// Commit flushes the current block and records a new version.
func (s *CommitStore) Commit() (store.CommitID, error) {
	ctx := context.Background()
	ops := s.ops.ShowOps()
	next := store.CommitID{
		Version: s.latest.Version + 1,
		Hash:    commitHash(s.latest.Hash, s.latest.Version+1, ops),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.CommitID{}, errors.Wrap(err, "begin")
	}
	for _, op := range ops {
		if op.IsSetOp() {
			value := op.Value()
			if value == nil {
				value = []byte{}
			}
			_, err = tx.ExecContext(ctx, upsertValue, op.Key(), value, next.Version)
		} else {
			_, err = tx.ExecContext(ctx, deleteValue, op.Key())
		}
		if err != nil {
			tx.Rollback()
			return store.CommitID{}, errors.Wrap(err, "write op")
		}
	}
	if _, err := tx.ExecContext(ctx, insertCommit, next.Version, next.Hash); err != nil {
		tx.Rollback()
		return store.CommitID{}, errors.Wrap(err, "insert commit")
	}
	if err := tx.Commit(); err != nil {
		return store.CommitID{}, errors.Wrap(err, "commit")
	}

	s.latest = next
	s.pending.Discard()
	s.resetPending()
	return next, nil
}

// LoadLatestVersion reads the last commit row and drops any uncommitted
// changes.
func (s *CommitStore) LoadLatestVersion() error {
	var id store.CommitID
	err := s.db.QueryRowContext(context.Background(), selectLatest).Scan(&id.Version, &id.Hash)
	switch {
	case err == sql.ErrNoRows:
		id = store.CommitID{}
	case err != nil:
		return errors.Wrap(err, "select latest commit")
	}
	s.latest = id
	s.resetPending()
	return nil
}

// LatestVersion returns the last committed version.
func (s *CommitStore) LatestVersion() (store.CommitID, error) {
	return s.latest, nil
}

// commitHash chains the previous hash with every operation of a block.
func commitHash(prev []byte, version int64, ops []store.Op) []byte {
	h := sha256.New()
	h.Write(prev)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(version))
	h.Write(buf[:])
	for _, op := range ops {
		if op.IsSetOp() {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
		writeChunk(h, op.Key())
		writeChunk(h, op.Value())
	}
	return h.Sum(nil)
}

func writeChunk(w io.Writer, b []byte) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(len(b)))
	w.Write(buf[:])
	w.Write(b)
}

// committed reads through to the database.
type committed struct {
	s *CommitStore
}

func (c committed) Get(key []byte) ([]byte, error) {
	return c.s.Get(key)
}

func (c committed) Has(key []byte) (bool, error) {
	val, err := c.s.Get(key)
	return val != nil, err
}
