// Package store provides the transactional SQLite substrate: stack,
// variables, directories, snapshot history, and metadata.
package store

import (
	"database/sql"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/lennyitb/lpr-runtime/internal/parser"
	"github.com/lennyitb/lpr-runtime/internal/value"
)

const schema = `
CREATE TABLE IF NOT EXISTS objects (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	type_tag INTEGER NOT NULL,
	data TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS stack (
	pos INTEGER PRIMARY KEY,
	object_id INTEGER NOT NULL REFERENCES objects(id)
);
CREATE TABLE IF NOT EXISTS directories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	parent_id INTEGER REFERENCES directories(id),
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS variables (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	dir_id INTEGER NOT NULL REFERENCES directories(id),
	name TEXT NOT NULL,
	object_id INTEGER NOT NULL REFERENCES objects(id),
	UNIQUE(dir_id, name)
);
CREATE TABLE IF NOT EXISTS history (
	seq INTEGER NOT NULL,
	pos INTEGER NOT NULL,
	object_id INTEGER NOT NULL REFERENCES objects(id),
	PRIMARY KEY(seq, pos)
);
CREATE TABLE IF NOT EXISTS history_seqs (
	seq INTEGER PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// querier is satisfied by both *sql.DB and *sql.Tx, so every primitive
// runs against the open transaction when one is active.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store is a single-writer SQLite store. A Store is exclusively owned by
// one runtime context and is not safe for concurrent use.
type Store struct {
	db *sql.DB
	tx *sql.Tx
}

// New opens (or creates) a store at path. An empty path opens an
// in-memory store. The schema is created if absent and the HOME
// directory row is created lazily on first open.
func New(path string) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storageErr(err)
	}
	// One connection: the runtime is single-threaded, and in-memory
	// databases exist per connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, storageErr(err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, storageErr(err)
	}
	if err := s.ensureHome(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) q() querier {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func storageErr(err error) error {
	return value.Errf(value.CodeStorage, "storage error: %v", err)
}

func (s *Store) ensureHome() error {
	var id int64
	err := s.q().QueryRow(
		"SELECT id FROM directories WHERE parent_id IS NULL AND name='HOME'").Scan(&id)
	if err == sql.ErrNoRows {
		res, err := s.q().Exec("INSERT INTO directories (parent_id, name) VALUES (NULL, 'HOME')")
		if err != nil {
			return storageErr(err)
		}
		home, err := res.LastInsertId()
		if err != nil {
			return storageErr(err)
		}
		if err := s.SetMeta("current_dir", strconv.FormatInt(home, 10)); err != nil {
			return err
		}
		return s.SetMeta("undo_seq", "0")
	}
	if err != nil {
		return storageErr(err)
	}
	return nil
}

// --- Transactions ---

// Begin opens the outer evaluation transaction. Nesting is not
// supported; the interpreter brackets exactly one per top-level eval.
func (s *Store) Begin() error {
	if s.tx != nil {
		return value.Errf(value.CodeStorage, "storage error: transaction already open")
	}
	tx, err := s.db.Begin()
	if err != nil {
		return storageErr(err)
	}
	s.tx = tx
	return nil
}

// Commit commits the open transaction.
func (s *Store) Commit() error {
	if s.tx == nil {
		return value.Errf(value.CodeStorage, "storage error: no open transaction")
	}
	err := s.tx.Commit()
	s.tx = nil
	if err != nil {
		return storageErr(err)
	}
	return nil
}

// Rollback discards the open transaction.
func (s *Store) Rollback() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Rollback()
	s.tx = nil
	if err != nil {
		return storageErr(err)
	}
	return nil
}

// --- Objects ---

func (s *Store) insertObject(v value.Value) (int64, error) {
	tag, data := value.Encode(v)
	res, err := s.q().Exec("INSERT INTO objects (type_tag, data) VALUES (?, ?)", int(tag), data)
	if err != nil {
		return 0, storageErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr(err)
	}
	return id, nil
}

func (s *Store) scanObject(row *sql.Row) (value.Value, error) {
	var tag int
	var data string
	if err := row.Scan(&tag, &data); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, storageErr(err)
	}
	return parser.Decode(value.Tag(tag), data)
}

// --- Stack ---

// Push appends a value at the top of the stack.
func (s *Store) Push(v value.Value) error {
	id, err := s.insertObject(v)
	if err != nil {
		return err
	}
	d, err := s.Depth()
	if err != nil {
		return err
	}
	if _, err := s.q().Exec("INSERT INTO stack (pos, object_id) VALUES (?, ?)", d+1, id); err != nil {
		return storageErr(err)
	}
	return nil
}

// Pop removes and returns the top of the stack.
func (s *Store) Pop() (value.Value, error) {
	d, err := s.Depth()
	if err != nil {
		return nil, err
	}
	if d == 0 {
		return nil, value.ErrTooFew()
	}
	v, err := s.scanObject(s.q().QueryRow(
		"SELECT o.type_tag, o.data FROM stack s JOIN objects o ON s.object_id = o.id WHERE s.pos = ?", d))
	if err != nil {
		return nil, err
	}
	if _, err := s.q().Exec("DELETE FROM stack WHERE pos = ?", d); err != nil {
		return nil, storageErr(err)
	}
	return v, nil
}

// Peek returns the value at a 1-based stack level without removing it;
// level 1 is the top.
func (s *Store) Peek(level int) (value.Value, error) {
	d, err := s.Depth()
	if err != nil {
		return nil, err
	}
	if level < 1 || level > d {
		return nil, value.Errf(value.CodeBadArgumentValue, "invalid stack level %d", level)
	}
	pos := d - level + 1
	return s.scanObject(s.q().QueryRow(
		"SELECT o.type_tag, o.data FROM stack s JOIN objects o ON s.object_id = o.id WHERE s.pos = ?", pos))
}

// Depth returns the number of stack entries.
func (s *Store) Depth() (int, error) {
	var d int
	if err := s.q().QueryRow("SELECT COUNT(*) FROM stack").Scan(&d); err != nil {
		return 0, storageErr(err)
	}
	return d, nil
}

// ClearStack empties the stack.
func (s *Store) ClearStack() error {
	if _, err := s.q().Exec("DELETE FROM stack"); err != nil {
		return storageErr(err)
	}
	return nil
}

// --- History ---

// Snapshot copies the current stack into history under the next
// sequence number, records the sequence even when the stack is empty,
// and moves the undo pointer to it.
func (s *Store) Snapshot() (int, error) {
	max, err := s.MaxSeq()
	if err != nil {
		return 0, err
	}
	seq := max + 1
	if _, err := s.q().Exec("INSERT INTO history_seqs (seq) VALUES (?)", seq); err != nil {
		return 0, storageErr(err)
	}
	if _, err := s.q().Exec(
		"INSERT INTO history (seq, pos, object_id) SELECT ?, pos, object_id FROM stack", seq); err != nil {
		return 0, storageErr(err)
	}
	if err := s.SetUndoSeq(seq); err != nil {
		return 0, err
	}
	return seq, nil
}

// Restore replaces the stack with the snapshot at seq and moves the
// undo pointer to it. Sequence 0 is the initial empty state. Returns
// false when the snapshot does not exist.
func (s *Store) Restore(seq int) (bool, error) {
	if seq == 0 {
		if err := s.ClearStack(); err != nil {
			return false, err
		}
		return true, s.SetUndoSeq(0)
	}
	var count int
	if err := s.q().QueryRow("SELECT COUNT(*) FROM history_seqs WHERE seq = ?", seq).Scan(&count); err != nil {
		return false, storageErr(err)
	}
	if count == 0 {
		return false, nil
	}
	if err := s.ClearStack(); err != nil {
		return false, err
	}
	if _, err := s.q().Exec(
		"INSERT INTO stack (pos, object_id) SELECT pos, object_id FROM history WHERE seq = ?", seq); err != nil {
		return false, storageErr(err)
	}
	return true, s.SetUndoSeq(seq)
}

// MaxSeq returns the highest recorded snapshot sequence, 0 when none.
func (s *Store) MaxSeq() (int, error) {
	var seq int
	if err := s.q().QueryRow("SELECT COALESCE(MAX(seq), 0) FROM history_seqs").Scan(&seq); err != nil {
		return 0, storageErr(err)
	}
	return seq, nil
}

// UndoSeq returns the current undo pointer.
func (s *Store) UndoSeq() (int, error) {
	v, err := s.Meta("undo_seq")
	if err != nil {
		return 0, err
	}
	if v == "" {
		return 0, nil
	}
	seq, err := strconv.Atoi(v)
	if err != nil {
		return 0, storageErr(fmt.Errorf("bad undo_seq %q", v))
	}
	return seq, nil
}

// SetUndoSeq moves the undo pointer.
func (s *Store) SetUndoSeq(seq int) error {
	return s.SetMeta("undo_seq", strconv.Itoa(seq))
}

// --- Variables ---

// StoreVar upserts a variable binding in a directory.
func (s *Store) StoreVar(dir int64, name string, v value.Value) error {
	id, err := s.insertObject(v)
	if err != nil {
		return err
	}
	_, err = s.q().Exec(`
		INSERT INTO variables (dir_id, name, object_id) VALUES (?, ?, ?)
		ON CONFLICT(dir_id, name) DO UPDATE SET object_id = excluded.object_id`,
		dir, name, id)
	if err != nil {
		return storageErr(err)
	}
	return nil
}

// RecallVar reads a variable binding; a never-stored name fails with
// the undefined-name code.
func (s *Store) RecallVar(dir int64, name string) (value.Value, error) {
	v, err := s.scanObject(s.q().QueryRow(`
		SELECT o.type_tag, o.data FROM variables v JOIN objects o ON v.object_id = o.id
		WHERE v.dir_id = ? AND v.name = ?`, dir, name))
	if err == sql.ErrNoRows {
		return nil, value.Errf(value.CodeUndefinedName, "Undefined name: %s", name)
	}
	return v, err
}

// PurgeVar deletes a variable binding, reporting whether one existed.
func (s *Store) PurgeVar(dir int64, name string) (bool, error) {
	res, err := s.q().Exec("DELETE FROM variables WHERE dir_id = ? AND name = ?", dir, name)
	if err != nil {
		return false, storageErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr(err)
	}
	return n > 0, nil
}

// ListVars returns the variable names in a directory, sorted.
func (s *Store) ListVars(dir int64) ([]string, error) {
	rows, err := s.q().Query("SELECT name FROM variables WHERE dir_id = ? ORDER BY name", dir)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, storageErr(err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}
	return names, nil
}

// --- Directories ---

// HomeDir returns the id of the root HOME directory.
func (s *Store) HomeDir() (int64, error) {
	var id int64
	err := s.q().QueryRow(
		"SELECT id FROM directories WHERE parent_id IS NULL AND name='HOME'").Scan(&id)
	if err != nil {
		return 0, storageErr(err)
	}
	return id, nil
}

// CreateDir creates a directory under parent and returns its id.
func (s *Store) CreateDir(parent int64, name string) (int64, error) {
	res, err := s.q().Exec("INSERT INTO directories (parent_id, name) VALUES (?, ?)", parent, name)
	if err != nil {
		return 0, storageErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr(err)
	}
	return id, nil
}

// FindDir looks up a directory by parent and name.
func (s *Store) FindDir(parent int64, name string) (int64, bool, error) {
	var id int64
	err := s.q().QueryRow(
		"SELECT id FROM directories WHERE parent_id = ? AND name = ?", parent, name).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, storageErr(err)
	}
	return id, true, nil
}

// CurrentDir returns the current directory id from metadata, falling
// back to HOME.
func (s *Store) CurrentDir() (int64, error) {
	v, err := s.Meta("current_dir")
	if err != nil {
		return 0, err
	}
	if v == "" {
		return s.HomeDir()
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return s.HomeDir()
	}
	return id, nil
}

// SetCurrentDir records the current directory id in metadata.
func (s *Store) SetCurrentDir(dir int64) error {
	return s.SetMeta("current_dir", strconv.FormatInt(dir, 10))
}

// --- Metadata ---

// Meta reads a metadata value, "" when absent.
func (s *Store) Meta(key string) (string, error) {
	var v string
	err := s.q().QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", storageErr(err)
	}
	return v, nil
}

// SetMeta upserts a metadata value.
func (s *Store) SetMeta(key, val string) error {
	_, err := s.q().Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, val)
	if err != nil {
		return storageErr(err)
	}
	return nil
}
