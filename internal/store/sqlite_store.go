package store

import (
	"database/sql"
	"path/filepath"
	"sync"

	"github.com/hack-pad/hackpadfs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"go.uber.org/zap"

	"github.com/kittclouds/wikiqa/internal/errors"
	"github.com/kittclouds/wikiqa/internal/logger"
	"github.com/kittclouds/wikiqa/pkg/lexicon"
)

// SQLiteStore is the relational backend.
type SQLiteStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	ready  bool
	files  files
	query  QueryOptions
	log    *zap.SugaredLogger
	closed bool
}

// Options configures SQLiteStore.
type Options struct {
	// FS is used to read import files; nil means the host filesystem.
	FS     hackpadfs.FS
	Query  QueryOptions
	Logger *zap.SugaredLogger
}

// schema holds the four entity tables. The *_key columns carry
// lexicon.Normalize output for case-insensitive matching.
// Foreign keys are declared for documentation only. Every connection turns
// enforcement off (see sqliteDSN) so statements may reference entities imported
// later.
const schema = `
CREATE TABLE IF NOT EXISTS entities (
    id TEXT PRIMARY KEY,
    label TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL DEFAULT '',
    label_key TEXT NOT NULL DEFAULT '',
    description_key TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_entities_label_key ON entities(label_key);

CREATE TABLE IF NOT EXISTS aliases (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    entity_id TEXT NOT NULL,
    value TEXT NOT NULL DEFAULT '',
    language TEXT NOT NULL DEFAULT '',
    value_key TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (entity_id) REFERENCES entities (id)
);

CREATE INDEX IF NOT EXISTS idx_aliases_entity ON aliases(entity_id);
CREATE INDEX IF NOT EXISTS idx_aliases_value_key ON aliases(value_key);

CREATE TABLE IF NOT EXISTS properties (
    id TEXT PRIMARY KEY,
    label TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS statements (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    entity_id TEXT NOT NULL,
    property_id TEXT NOT NULL,
    value TEXT NOT NULL DEFAULT '',
    entity_value_id TEXT,
    FOREIGN KEY (entity_id) REFERENCES entities (id),
    FOREIGN KEY (property_id) REFERENCES properties (id),
    FOREIGN KEY (entity_value_id) REFERENCES entities (id)
);

CREATE INDEX IF NOT EXISTS idx_statements_entity ON statements(entity_id);
`

// NewSQLiteStore opens (creating if needed) the database file at path.
// Failure to open is the only hard error of the backend.
func NewSQLiteStore(path string, opts Options) (*SQLiteStore, error) {
	host := newFiles(nil)
	fsPath, err := host.resolve(path)
	if err != nil {
		return nil, err
	}
	if err := host.mkdirParent(fsPath); err != nil {
		return nil, err
	}

	dsn, err := sqliteDSN(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to open database %s", path)
	}
	db.SetMaxOpenConns(1)

	return NewSQLiteStoreWithDB(db, opts), nil
}

// sqliteDSN builds the connection URI for path with foreign key enforcement off.
func sqliteDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve database path %s", path)
	}
	return "file:" + filepath.ToSlash(abs) + "?_pragma=foreign_keys(0)", nil
}

// NewSQLiteStoreWithDB wraps an open handle. The schema is created on first use.
func NewSQLiteStoreWithDB(db *sql.DB, opts Options) *SQLiteStore {
	return &SQLiteStore{
		db:    db,
		files: newFiles(opts.FS),
		query: opts.Query.withDefaults(),
		log:   logger.Named(opts.Logger, "sqlite"),
	}
}

// Close closes the database connection. Safe to call more than once.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// usable checks the handle and creates the schema lazily. Callers hold s.mu
// for writing, or for reading when the schema already exists.
func (s *SQLiteStore) usable() error {
	if s.closed {
		return ErrClosed
	}
	if s.ready {
		return nil
	}
	if _, err := s.db.Exec(schema); err != nil {
		return errors.Wrap(err, "failed to create schema")
	}
	s.ready = true
	return nil
}

// readLock takes the read lock once the schema exists; the first call goes
// through the write lock to create it.
func (s *SQLiteStore) readLock() (func(), error) {
	s.mu.RLock()
	if s.ready || s.closed {
		if s.closed {
			s.mu.RUnlock()
			return nil, ErrClosed
		}
		return s.mu.RUnlock, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	if err := s.usable(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	return s.mu.Unlock, nil
}

// =============================================================================
// Writes
// =============================================================================

// StoreEntity upserts one entity in a single transaction, replacing its
// aliases and statements. On failure the transaction is rolled back and the
// error returned.
func (s *SQLiteStore) StoreEntity(rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrapf(err, "begin entity %s", rec.EntityID)
	}
	if err := writeEntity(tx, rec.Entity()); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Warnw("rollback failed", logger.FieldEntityID, rec.EntityID, logger.FieldError, rbErr)
		}
		return errors.Wrapf(err, "store entity %s", rec.EntityID)
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "commit entity %s", rec.EntityID)
	}
	return nil
}

func writeEntity(tx *sql.Tx, e *Entity) error {
	_, err := tx.Exec(`
		INSERT INTO entities (id, label, description, type, label_key, description_key)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			label = excluded.label,
			description = excluded.description,
			type = excluded.type,
			label_key = excluded.label_key,
			description_key = excluded.description_key
	`, e.ID, e.Label, e.Description, e.Type, lexicon.Normalize(e.Label), lexicon.Normalize(e.Description))
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM aliases WHERE entity_id = ?`, e.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM statements WHERE entity_id = ?`, e.ID); err != nil {
		return err
	}

	for _, a := range e.Aliases {
		if _, err := tx.Exec(`
			INSERT INTO aliases (entity_id, value, language, value_key)
			VALUES (?, ?, ?, ?)
		`, e.ID, a.Value, a.Language, lexicon.Normalize(a.Value)); err != nil {
			return err
		}
	}

	for _, st := range e.Statements {
		if _, err := tx.Exec(`
			INSERT INTO properties (id, label) VALUES (?, ?)
			ON CONFLICT(id) DO UPDATE SET label = excluded.label
		`, st.Property.ID, st.Property.Label); err != nil {
			return err
		}

		var ref sql.NullString
		if st.IsReference() {
			ref = sql.NullString{String: st.EntityID, Valid: true}
		}
		if _, err := tx.Exec(`
			INSERT INTO statements (entity_id, property_id, value, entity_value_id)
			VALUES (?, ?, ?, ?)
		`, e.ID, st.Property.ID, st.Value, ref); err != nil {
			return err
		}
	}
	return nil
}

// StoreEntities stores each record in its own transaction.
func (s *SQLiteStore) StoreEntities(recs []Record) ImportResult {
	return storeAll(recs, s.StoreEntity, s.log)
}

// StoreWikidata imports a JSON records file.
func (s *SQLiteStore) StoreWikidata(path string) (ImportResult, error) {
	return importFile(s.files, path, s.StoreEntities, s.log)
}

// Seed stores the sample entities.
func (s *SQLiteStore) Seed() ImportResult {
	return s.StoreEntities(SampleRecords())
}

// =============================================================================
// Reads
// =============================================================================

// GetEntity returns the entity with its aliases and statements in insertion
// order, or nil when id is unknown.
func (s *SQLiteStore) GetEntity(id string) (*Entity, error) {
	unlock, err := s.readLock()
	if err != nil {
		return nil, err
	}
	defer unlock()
	return sqliteView{s.db}.entity(id)
}

// SearchEntities returns entities whose label, description or any alias
// contains query (case-insensitive), in table order.
func (s *SQLiteStore) SearchEntities(query string, limit int) ([]SearchHit, error) {
	unlock, err := s.readLock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	key := lexicon.Normalize(query)
	if key == "" {
		return []SearchHit{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	rows, err := s.db.Query(`
		SELECT e.id, e.label, e.description
		FROM entities e
		WHERE instr(e.label_key, ?) > 0
			OR instr(e.description_key, ?) > 0
			OR EXISTS (SELECT 1 FROM aliases a WHERE a.entity_id = e.id AND instr(a.value_key, ?) > 0)
		ORDER BY e.rowid
		LIMIT ?
	`, key, key, key, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hits := []SearchHit{}
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.ID, &h.Label, &h.Description); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// NaturalLanguageQuery answers a question from stored statements.
func (s *SQLiteStore) NaturalLanguageQuery(q string) ([]Answer, error) {
	unlock, err := s.readLock()
	if err != nil {
		return nil, err
	}
	defer unlock()
	return answerQuestion(sqliteView{s.db}, s.query, s.log, q)
}

// GetDatabaseStats counts rows of the entity, property and statement tables.
func (s *SQLiteStore) GetDatabaseStats() (*Stats, error) {
	unlock, err := s.readLock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	var st Stats
	err = s.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM entities),
			(SELECT COUNT(*) FROM properties),
			(SELECT COUNT(*) FROM statements)
	`).Scan(&st.EntitiesCount, &st.PropertiesCount, &st.StatementsCount)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// =============================================================================
// Read view
// =============================================================================

// sqliteView runs lookups without locking; the caller holds the store lock.
type sqliteView struct {
	db *sql.DB
}

func (v sqliteView) entity(id string) (*Entity, error) {
	var e Entity
	err := v.db.QueryRow(`
		SELECT id, label, description, type FROM entities WHERE id = ?
	`, id).Scan(&e.ID, &e.Label, &e.Description, &e.Type)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	aliasRows, err := v.db.Query(`
		SELECT value, language FROM aliases WHERE entity_id = ? ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer aliasRows.Close()

	e.Aliases = []Alias{}
	for aliasRows.Next() {
		var a Alias
		if err := aliasRows.Scan(&a.Value, &a.Language); err != nil {
			return nil, err
		}
		e.Aliases = append(e.Aliases, a)
	}
	if err := aliasRows.Err(); err != nil {
		return nil, err
	}

	stmtRows, err := v.db.Query(`
		SELECT s.property_id, COALESCE(p.label, ''), s.value, s.entity_value_id
		FROM statements s
		LEFT JOIN properties p ON p.id = s.property_id
		WHERE s.entity_id = ?
		ORDER BY s.id
	`, id)
	if err != nil {
		return nil, err
	}
	defer stmtRows.Close()

	e.Statements = []Statement{}
	for stmtRows.Next() {
		var st Statement
		var ref sql.NullString
		if err := stmtRows.Scan(&st.Property.ID, &st.Property.Label, &st.Value, &ref); err != nil {
			return nil, err
		}
		st.ValueType = ValueLiteral
		if ref.Valid && ref.String != "" {
			st.ValueType = ValueEntity
			st.EntityID = ref.String
		}
		e.Statements = append(e.Statements, st)
	}
	if err := stmtRows.Err(); err != nil {
		return nil, err
	}

	return &e, nil
}

func (v sqliteView) first(query, key string) (string, bool, error) {
	var id string
	err := v.db.QueryRow(query, key).Scan(&id)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (v sqliteView) EntityByLabelKey(key string) (string, bool, error) {
	return v.first(`SELECT id FROM entities WHERE label_key = ? ORDER BY rowid LIMIT 1`, key)
}

func (v sqliteView) EntityByAliasKey(key string) (string, bool, error) {
	return v.first(`SELECT entity_id FROM aliases WHERE value_key = ? ORDER BY id LIMIT 1`, key)
}

func (v sqliteView) EntityByLabelContaining(key string) (string, bool, error) {
	return v.first(`SELECT id FROM entities WHERE instr(label_key, ?) > 0 ORDER BY rowid LIMIT 1`, key)
}

func (v sqliteView) EntityByAliasContaining(key string) (string, bool, error) {
	return v.first(`SELECT entity_id FROM aliases WHERE instr(value_key, ?) > 0 ORDER BY id LIMIT 1`, key)
}

// Compile-time interface check
var _ Backend = (*SQLiteStore)(nil)
