package store

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemFS(t *testing.T) hackpadfs.FS {
	fsys, err := mem.NewFS()
	require.NoError(t, err)
	return fsys
}

func TestDocStoreCreatesCollectionFile(t *testing.T) {
	fsys := newMemFS(t)

	s, err := NewDocStore("data/nested/wikidata.json", DocOptions{FS: fsys})
	require.NoError(t, err)
	defer s.Close()

	data, err := hackpadfs.ReadFile(fsys, "data/nested/wikidata.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"entities": []}`, string(data))
}

func TestDocStoreFileLayout(t *testing.T) {
	fsys := newMemFS(t)
	s, err := NewDocStore("wikidata.json", DocOptions{FS: fsys})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.StoreEntity(SampleRecords()[1]))

	data, err := hackpadfs.ReadFile(fsys, "wikidata.json")
	require.NoError(t, err)

	var raw struct {
		Entities []map[string]any `json:"entities"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw.Entities, 1)
	assert.Equal(t, "Q956", raw.Entities[0]["entity_id"])
	assert.Equal(t, "北京", raw.Entities[0]["label"])

	stmts := raw.Entities[0]["statements"].([]any)
	first := stmts[0].(map[string]any)
	assert.Equal(t, "entity", first["value_type"])
	assert.Equal(t, "Q148", first["entity_id"])
	assert.Equal(t, "P17", first["property"].(map[string]any)["property_id"])
}

func TestDocStorePersistsAcrossReopen(t *testing.T) {
	for _, cache := range []bool{false, true} {
		fsys := newMemFS(t)

		s, err := NewDocStore("wikidata.json", DocOptions{FS: fsys, Cache: cache})
		require.NoError(t, err)
		s.Seed()
		require.NoError(t, s.Close())

		// A fresh uncached store sees everything the first one wrote.
		s, err = NewDocStore("wikidata.json", DocOptions{FS: fsys})
		require.NoError(t, err)

		got, err := s.GetEntity("Q148")
		require.NoError(t, err)
		require.NotNil(t, got, "cache=%v", cache)
		assert.Equal(t, SampleRecords()[0].Entity(), got)
		require.NoError(t, s.Close())
	}
}

func TestDocStoreUpsertKeepsPosition(t *testing.T) {
	fsys := newMemFS(t)
	s, err := NewDocStore("wikidata.json", DocOptions{FS: fsys})
	require.NoError(t, err)
	defer s.Close()

	s.Seed()
	require.NoError(t, s.StoreEntity(Record{EntityID: "Q148", Label: "China", Description: "country in East Asia"}))

	// Q148 matches on its new description, Q956 on its alias "Beijing";
	// the replaced document keeps its slot ahead of Q956.
	hits, err := s.SearchEntities("e", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Q148", hits[0].ID)
	assert.Equal(t, "China", hits[0].Label)
	assert.Equal(t, "Q956", hits[1].ID)

	stats, err := s.GetDatabaseStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.EntitiesCount)
	assert.Equal(t, 2, stats.StatementsCount)
}

func TestDocStoreSeesExternalWritesWithoutCache(t *testing.T) {
	fsys := newMemFS(t)
	s, err := NewDocStore("wikidata.json", DocOptions{FS: fsys})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, hackpadfs.WriteFullFile(fsys, "wikidata.json",
		[]byte(`{"entities":[{"entity_id":"Q2","label":"Earth","description":"third planet"}]}`), 0o644))

	got, err := s.GetEntity("Q2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Earth", got.Label)
}

func TestDocStoreCacheServesFromMemory(t *testing.T) {
	fsys := newMemFS(t)
	s, err := NewDocStore("wikidata.json", DocOptions{FS: fsys, Cache: true})
	require.NoError(t, err)
	defer s.Close()

	s.Seed()
	require.NoError(t, hackpadfs.WriteFullFile(fsys, "wikidata.json", []byte(`{"entities":[]}`), 0o644))

	stats, err := s.GetDatabaseStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.EntitiesCount)
}

func TestNewDocStoreRejectsCorruptFile(t *testing.T) {
	fsys := newMemFS(t)
	require.NoError(t, hackpadfs.WriteFullFile(fsys, "wikidata.json", []byte(`{"entities": [`), 0o644))

	_, err := NewDocStore("wikidata.json", DocOptions{FS: fsys})
	assert.Error(t, err)
}

func TestNewDocStoreOnHostFS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "wikidata.json")

	s, err := NewDocStore(path, DocOptions{})
	require.NoError(t, err)
	s.Seed()
	require.NoError(t, s.Close())

	s, err = NewDocStore(path, DocOptions{})
	require.NoError(t, err)
	defer s.Close()

	answers, err := s.NaturalLanguageQuery("中国的首都是什么")
	require.NoError(t, err)
	assert.Equal(t, []Answer{{Label: "首都", Value: "北京"}}, answers)
}
