package store

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/hack-pad/hackpadfs"
	"go.uber.org/zap"

	"github.com/kittclouds/wikiqa/internal/errors"
	"github.com/kittclouds/wikiqa/internal/logger"
	"github.com/kittclouds/wikiqa/pkg/lexicon"
)

// DocOptions configures DocStore.
type DocOptions struct {
	// FS holds the collection file and import files. Nil means the host
	// filesystem, with paths given as OS paths.
	FS hackpadfs.FS
	// Cache keeps the decoded collection in memory between calls.
	// Writes still go to the file.
	Cache  bool
	Query  QueryOptions
	Logger *zap.SugaredLogger
}

// docFile is the on-disk layout: one collection of whole-entity documents.
type docFile struct {
	Entities []Record `json:"entities"`
}

// DocStore is the document backend. Each entity is one document in the
// exchange shape, keyed by its entity_id field.
type DocStore struct {
	mu     sync.Mutex
	files  files
	path   string
	cache  bool
	cached *docFile
	query  QueryOptions
	log    *zap.SugaredLogger
	closed bool
}

// NewDocStore opens the collection file at path, creating it (and its
// directory) when missing. An unreadable or undecodable file is a hard error.
func NewDocStore(path string, opts DocOptions) (*DocStore, error) {
	f := newFiles(opts.FS)
	fsPath, err := f.resolve(path)
	if err != nil {
		return nil, err
	}

	s := &DocStore{
		files: f,
		path:  fsPath,
		cache: opts.Cache,
		query: opts.Query.withDefaults(),
		log:   logger.Named(opts.Logger, "docstore"),
	}

	ok, err := f.exists(fsPath)
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if !ok {
		if err := f.mkdirParent(fsPath); err != nil {
			return nil, err
		}
		if err := s.save(&docFile{Entities: []Record{}}); err != nil {
			return nil, err
		}
		return s, nil
	}
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close drops the cache. Safe to call more than once.
func (s *DocStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cached = nil
	return nil
}

func (s *DocStore) load() (*docFile, error) {
	if s.cache && s.cached != nil {
		return s.cached, nil
	}
	data, err := s.files.read(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "read collection %s", s.path)
	}
	var doc docFile
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrapf(err, "decode collection %s", s.path)
		}
	}
	if doc.Entities == nil {
		doc.Entities = []Record{}
	}
	if s.cache {
		s.cached = &doc
	}
	return &doc, nil
}

func (s *DocStore) save(doc *docFile) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "encode collection")
	}
	if err := s.files.write(s.path, data); err != nil {
		return errors.Wrapf(err, "write collection %s", s.path)
	}
	if s.cache {
		s.cached = doc
	}
	return nil
}

// view loads the collection for a read operation. Caller holds s.mu.
func (s *DocStore) view() (docView, error) {
	if s.closed {
		return nil, ErrClosed
	}
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return docView(doc.Entities), nil
}

// =============================================================================
// Writes
// =============================================================================

// StoreEntity overwrites the document with the same entity_id, or appends a
// new one. Property labels carried by rec replace the labels of the same
// properties in every document.
func (s *DocStore) StoreEntity(rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	cur, err := s.load()
	if err != nil {
		return err
	}

	newDoc := RecordFromEntity(rec.Entity())
	labels := make(map[string]string, len(newDoc.Statements))
	for _, st := range newDoc.Statements {
		labels[st.Property.Key()] = st.Property.Label
	}

	// Copy so a failed write leaves a cached collection untouched.
	next := &docFile{Entities: make([]Record, 0, len(cur.Entities)+1)}
	replaced := false
	for _, d := range cur.Entities {
		if d.EntityID == newDoc.EntityID {
			d = newDoc
			replaced = true
		}
		next.Entities = append(next.Entities, relabel(d, labels))
	}
	if !replaced {
		next.Entities = append(next.Entities, relabel(newDoc, labels))
	}

	if err := s.save(next); err != nil {
		return errors.Wrapf(err, "store entity %s", rec.EntityID)
	}
	return nil
}

// relabel returns d with property labels replaced from labels. Statements
// are copied only when something changes.
func relabel(d Record, labels map[string]string) Record {
	var out []RecordStatement
	for i, st := range d.Statements {
		label, ok := labels[st.Property.Key()]
		if !ok || label == st.Property.Label {
			continue
		}
		if out == nil {
			out = make([]RecordStatement, len(d.Statements))
			copy(out, d.Statements)
		}
		out[i].Property.Label = label
	}
	if out != nil {
		d.Statements = out
	}
	return d
}

// StoreEntities stores each record, rewriting the collection per record.
func (s *DocStore) StoreEntities(recs []Record) ImportResult {
	return storeAll(recs, s.StoreEntity, s.log)
}

// StoreWikidata imports a JSON records file from the store's filesystem.
func (s *DocStore) StoreWikidata(path string) (ImportResult, error) {
	return importFile(s.files, path, s.StoreEntities, s.log)
}

// Seed stores the sample entities.
func (s *DocStore) Seed() ImportResult {
	return s.StoreEntities(SampleRecords())
}

// =============================================================================
// Reads
// =============================================================================

// GetEntity returns the document with entity_id == id, or nil.
func (s *DocStore) GetEntity(id string) (*Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.view()
	if err != nil {
		return nil, err
	}
	return v.entity(id)
}

// SearchEntities returns documents whose label, description or any alias
// contains query (case-insensitive), in collection order.
func (s *DocStore) SearchEntities(query string, limit int) ([]SearchHit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.view()
	if err != nil {
		return nil, err
	}

	hits := []SearchHit{}
	key := lexicon.Normalize(query)
	if key == "" {
		return hits, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	for _, d := range v {
		if len(hits) >= limit {
			break
		}
		if strings.Contains(lexicon.Normalize(d.Label), key) ||
			strings.Contains(lexicon.Normalize(d.Description), key) ||
			hasAlias(d, func(a string) bool { return strings.Contains(a, key) }) {
			hits = append(hits, SearchHit{ID: d.EntityID, Label: d.Label, Description: d.Description})
		}
	}
	return hits, nil
}

// NaturalLanguageQuery answers a question from stored statements. The
// collection is read once per question.
func (s *DocStore) NaturalLanguageQuery(q string) ([]Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.view()
	if err != nil {
		return nil, err
	}
	return answerQuestion(v, s.query, s.log, q)
}

// GetDatabaseStats counts documents, distinct property ids and statements.
func (s *DocStore) GetDatabaseStats() (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.view()
	if err != nil {
		return nil, err
	}

	props := make(map[string]struct{})
	st := &Stats{EntitiesCount: len(v)}
	for _, d := range v {
		st.StatementsCount += len(d.Statements)
		for _, stmt := range d.Statements {
			props[stmt.Property.Key()] = struct{}{}
		}
	}
	st.PropertiesCount = len(props)
	return st, nil
}

// =============================================================================
// Read view
// =============================================================================

// docView scans a loaded collection in document order.
type docView []Record

func hasAlias(d Record, pred func(key string) bool) bool {
	for _, a := range d.Aliases {
		if pred(lexicon.Normalize(a.Value)) {
			return true
		}
	}
	return false
}

func (v docView) find(pred func(Record) bool) (string, bool, error) {
	for _, d := range v {
		if pred(d) {
			return d.EntityID, true, nil
		}
	}
	return "", false, nil
}

func (v docView) entity(id string) (*Entity, error) {
	for _, d := range v {
		if d.EntityID == id {
			return d.Entity(), nil
		}
	}
	return nil, nil
}

func (v docView) EntityByLabelKey(key string) (string, bool, error) {
	return v.find(func(d Record) bool { return lexicon.Normalize(d.Label) == key })
}

func (v docView) EntityByAliasKey(key string) (string, bool, error) {
	return v.find(func(d Record) bool {
		return hasAlias(d, func(a string) bool { return a == key })
	})
}

func (v docView) EntityByLabelContaining(key string) (string, bool, error) {
	return v.find(func(d Record) bool { return strings.Contains(lexicon.Normalize(d.Label), key) })
}

func (v docView) EntityByAliasContaining(key string) (string, bool, error) {
	return v.find(func(d Record) bool {
		return hasAlias(d, func(a string) bool { return strings.Contains(a, key) })
	})
}

var _ Backend = (*DocStore)(nil)
