package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/wikiqa/internal/errors"
)

func TestDecodeRecordsObjectKeepsOrder(t *testing.T) {
	recs, err := DecodeRecords(strings.NewReader(`{
		"Q956": {"entity_id": "Q956", "label": "北京"},
		"Q148": {"entity_id": "Q148", "label": "中国"},
		"Q2":   {"entity_id": "Q2", "label": "Earth"}
	}`))
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "Q956", recs[0].EntityID)
	assert.Equal(t, "Q148", recs[1].EntityID)
	assert.Equal(t, "Q2", recs[2].EntityID)
}

func TestDecodeRecordsArray(t *testing.T) {
	recs, err := DecodeRecords(strings.NewReader(`[
		{"entity_id": "Q1", "label": "Universe",
		 "statements": [
			{"property": {"property_id": "P580", "label": "start time"}, "value": -13.8},
			{"property": {"id": "P31", "label": "instance of"}, "value": null, "entity_id": "Q36906466"},
			{"property": {"property_id": "P18", "label": "image"}, "value": true}
		 ]}
	]`))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	st := recs[0].Statements
	require.Len(t, st, 3)
	assert.Equal(t, "-13.8", st[0].Value)
	assert.Equal(t, "P31", st[1].Property.Key())
	assert.Equal(t, "", st[1].Value)
	assert.True(t, st[1].IsReference())
	assert.Equal(t, "true", st[2].Value)

	e := recs[0].Entity()
	assert.Equal(t, "Q36906466", e.Statements[1].Value, "reference without display value shows the id")
}

func TestDecodeRecordsEmptyAndInvalid(t *testing.T) {
	recs, err := DecodeRecords(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Empty(t, recs)

	for _, in := range []string{``, `42`, `"text"`, `[{"entity_id": 7}]`, `[{"entity_id": "Q1"}`} {
		_, err := DecodeRecords(strings.NewReader(in))
		assert.Error(t, err, "input %q", in)
	}
}

func TestStatementIsReference(t *testing.T) {
	cases := []struct {
		st   RecordStatement
		want bool
	}{
		{RecordStatement{EntityID: "Q1"}, true},
		{RecordStatement{}, false},
		{RecordStatement{ValueType: "wikibase-entityid", EntityID: "Q1"}, true},
		{RecordStatement{ValueType: "Wikibase-Item"}, true},
		{RecordStatement{ValueType: "entity"}, true},
		{RecordStatement{ValueType: "literal", EntityID: "Q1"}, false},
		{RecordStatement{ValueType: "quantity"}, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.st.IsReference(), "%+v", c.st)
	}
}

func TestRecordValidate(t *testing.T) {
	assert.NoError(t, SampleRecords()[0].Validate())

	bad := []Record{
		{},
		{EntityID: "   "},
		{EntityID: "Q1", Statements: []RecordStatement{{Value: "x"}}},
		{EntityID: "Q1", Statements: []RecordStatement{{Property: RecordProperty{PropertyID: "P1"}, ValueType: "wikibase-item"}}},
	}
	for _, r := range bad {
		err := r.Validate()
		assert.True(t, errors.Is(err, ErrMalformedRecord), "%+v", r)
	}
}

func TestRecordFromEntity(t *testing.T) {
	e := SampleRecords()[0].Entity()
	rec := RecordFromEntity(e)

	assert.Equal(t, "Q148", rec.EntityID)
	require.Len(t, rec.Statements, 3)
	assert.Equal(t, "entity", rec.Statements[0].ValueType)
	assert.Equal(t, "Q956", rec.Statements[0].EntityID)
	assert.Equal(t, "literal", rec.Statements[1].ValueType)
	assert.Empty(t, rec.Statements[1].EntityID)
	assert.Equal(t, e, rec.Entity())
}
