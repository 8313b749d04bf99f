// Package store persists knowledge-base entities and answers natural-language
// questions over them. Two interchangeable backends share the Backend
// contract: SQLiteStore (relational) and DocStore (document collection).
package store

import (
	"github.com/kittclouds/wikiqa/internal/errors"
)

// DefaultSearchLimit caps SearchEntities when the caller passes no limit.
const DefaultSearchLimit = 10

var (
	// ErrMalformedRecord marks a record that cannot be stored (missing ids).
	ErrMalformedRecord = errors.New("malformed entity record")
	// ErrClosed is returned by any operation on a closed backend.
	ErrClosed = errors.New("store is closed")
)

// ValueType tells whether a statement value is a literal or points at
// another entity.
type ValueType string

const (
	ValueLiteral ValueType = "literal"
	ValueEntity  ValueType = "entity"
)

// Entity is a knowledge-base subject with its aliases and statements.
type Entity struct {
	ID          string      `json:"id"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
	Type        string      `json:"type"`
	Aliases     []Alias     `json:"aliases"`
	Statements  []Statement `json:"statements"`
}

// Alias is an alternate name for an entity.
type Alias struct {
	Value    string `json:"value"`
	Language string `json:"language"`
}

// Property is a canonical attribute definition.
type Property struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Statement is one attribute-value fact owned by an entity.
// Value always carries a display rendering; EntityID is set only for
// entity references.
type Statement struct {
	Property  Property  `json:"property"`
	Value     string    `json:"value"`
	ValueType ValueType `json:"value_type"`
	EntityID  string    `json:"entity_id,omitempty"`
}

// IsReference reports whether the statement points at another entity.
func (s Statement) IsReference() bool {
	return s.ValueType == ValueEntity
}

// Stats are live counts of persisted rows/documents.
type Stats struct {
	EntitiesCount   int `json:"entities_count"`
	PropertiesCount int `json:"properties_count"`
	StatementsCount int `json:"statements_count"`
}

// SearchHit is one row of a SearchEntities result.
type SearchHit struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Answer is a (property label, value) pair returned by a question.
type Answer struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ImportResult summarises a batch import. Skipped counts malformed records,
// Failed counts records the storage engine rejected. Errors holds one entry
// per skipped or failed record, in input order.
type ImportResult struct {
	Stored  int
	Skipped int
	Failed  int
	Errors  []error
}

// Total is the number of records seen.
func (r ImportResult) Total() int {
	return r.Stored + r.Skipped + r.Failed
}

// Backend is the storage contract shared by both implementations.
type Backend interface {
	// StoreEntity upserts one entity, replacing its aliases and statements.
	StoreEntity(rec Record) error
	// StoreEntities stores each record; failures are counted, never fatal.
	StoreEntities(recs []Record) ImportResult
	// StoreWikidata imports a JSON file of records (array or id->record object).
	StoreWikidata(path string) (ImportResult, error)
	// GetEntity returns nil, nil when id is unknown.
	GetEntity(id string) (*Entity, error)
	SearchEntities(query string, limit int) ([]SearchHit, error)
	NaturalLanguageQuery(question string) ([]Answer, error)
	GetDatabaseStats() (*Stats, error)
	// Seed stores the built-in sample entities.
	Seed() ImportResult
	// Close is idempotent.
	Close() error
}
