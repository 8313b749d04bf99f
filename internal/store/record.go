package store

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/kittclouds/wikiqa/internal/errors"
)

// Record is the JSON exchange shape of an entity, as produced by the fetch
// side and as persisted by DocStore.
type Record struct {
	EntityID    string            `json:"entity_id"`
	Label       string            `json:"label"`
	Description string            `json:"description"`
	Type        string            `json:"type"`
	Aliases     []RecordAlias     `json:"aliases,omitempty"`
	Statements  []RecordStatement `json:"statements,omitempty"`
}

// RecordAlias is an alias in exchange form.
type RecordAlias struct {
	Value    string `json:"value"`
	Language string `json:"language"`
}

// RecordProperty names the property of a statement. Import files use
// property_id, exported entities use id; both are accepted.
type RecordProperty struct {
	PropertyID string `json:"property_id,omitempty"`
	ID         string `json:"id,omitempty"`
	Label      string `json:"label"`
}

// Key returns the property id under whichever field carried it.
func (p RecordProperty) Key() string {
	if p.PropertyID != "" {
		return p.PropertyID
	}
	return p.ID
}

// RecordStatement is a statement in exchange form. EntityID is present only
// for entity references.
type RecordStatement struct {
	Property  RecordProperty `json:"property"`
	Value     string         `json:"value"`
	ValueType string         `json:"value_type,omitempty"`
	EntityID  string         `json:"entity_id,omitempty"`
}

// UnmarshalJSON accepts non-string values (numbers, booleans) and keeps
// their JSON text.
func (s *RecordStatement) UnmarshalJSON(data []byte) error {
	type plain RecordStatement
	var raw struct {
		plain
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = RecordStatement(raw.plain)

	v := bytes.TrimSpace(raw.Value)
	switch {
	case len(v) == 0 || bytes.Equal(v, []byte("null")):
		s.Value = ""
	case v[0] == '"':
		if err := json.Unmarshal(v, &s.Value); err != nil {
			return err
		}
	default:
		s.Value = string(v)
	}
	return nil
}

// IsReference reports whether the statement points at another entity.
// An explicit value_type decides; otherwise the presence of entity_id does.
func (s RecordStatement) IsReference() bool {
	switch strings.ToLower(s.ValueType) {
	case "wikibase-entityid", "wikibase-item", "entity":
		return true
	case "":
		return s.EntityID != ""
	default:
		return false
	}
}

// Validate checks the fields storage depends on.
func (r Record) Validate() error {
	if strings.TrimSpace(r.EntityID) == "" {
		return errors.Wrap(ErrMalformedRecord, "missing entity_id")
	}
	for i, st := range r.Statements {
		if st.Property.Key() == "" {
			return errors.Wrapf(ErrMalformedRecord, "%s: statement %d has no property id", r.EntityID, i)
		}
		if st.IsReference() && st.EntityID == "" {
			return errors.Wrapf(ErrMalformedRecord, "%s: statement %d references no entity", r.EntityID, i)
		}
	}
	return nil
}

// Entity converts a valid record into an Entity.
func (r Record) Entity() *Entity {
	e := &Entity{
		ID:          r.EntityID,
		Label:       r.Label,
		Description: r.Description,
		Type:        r.Type,
		Aliases:     make([]Alias, 0, len(r.Aliases)),
		Statements:  make([]Statement, 0, len(r.Statements)),
	}
	for _, a := range r.Aliases {
		e.Aliases = append(e.Aliases, Alias{Value: a.Value, Language: a.Language})
	}
	for _, st := range r.Statements {
		s := Statement{
			Property:  Property{ID: st.Property.Key(), Label: st.Property.Label},
			Value:     st.Value,
			ValueType: ValueLiteral,
		}
		if st.IsReference() {
			s.ValueType = ValueEntity
			s.EntityID = st.EntityID
			if s.Value == "" {
				s.Value = st.EntityID
			}
		}
		e.Statements = append(e.Statements, s)
	}
	return e
}

// RecordFromEntity converts an Entity back into exchange form with an
// explicit value_type on every statement.
func RecordFromEntity(e *Entity) Record {
	r := Record{
		EntityID:    e.ID,
		Label:       e.Label,
		Description: e.Description,
		Type:        e.Type,
	}
	for _, a := range e.Aliases {
		r.Aliases = append(r.Aliases, RecordAlias{Value: a.Value, Language: a.Language})
	}
	for _, s := range e.Statements {
		st := RecordStatement{
			Property:  RecordProperty{PropertyID: s.Property.ID, Label: s.Property.Label},
			Value:     s.Value,
			ValueType: string(ValueLiteral),
		}
		if s.IsReference() {
			st.ValueType = string(ValueEntity)
			st.EntityID = s.EntityID
		}
		r.Statements = append(r.Statements, st)
	}
	return r
}

// DecodeRecords reads either a JSON array of records or a JSON object
// mapping id to record. Object order is preserved.
func DecodeRecords(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(err, "read records")
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '[' && delim != '{') {
		return nil, errors.Newf("records must be a JSON array or object, got %v", tok)
	}

	var out []Record
	for dec.More() {
		if delim == '{' {
			if _, err := dec.Token(); err != nil {
				return nil, errors.Wrap(err, "read record key")
			}
		}
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, errors.Wrapf(err, "decode record %d", len(out))
		}
		out = append(out, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(err, "read records end")
	}
	return out, nil
}
