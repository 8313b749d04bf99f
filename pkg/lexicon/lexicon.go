// Package lexicon maps natural-language attribute phrases to canonical
// property ids using a single Aho-Corasick automaton.
package lexicon

import (
	"unicode/utf8"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"github.com/kittclouds/wikiqa/internal/errors"
)

var (
	// ErrInvalidEntry is returned for entries with an empty phrase or property id.
	ErrInvalidEntry = errors.New("invalid lexicon entry")
	// ErrAmbiguousPhrase is returned when one phrase maps to two property ids.
	ErrAmbiguousPhrase = errors.New("ambiguous lexicon phrase")
)

// Entry binds a phrase to a property id. Label is the display label for the
// property; when empty the phrase is used.
type Entry struct {
	Phrase     string `mapstructure:"phrase" json:"phrase"`
	PropertyID string `mapstructure:"property_id" json:"property_id"`
	Label      string `mapstructure:"label" json:"label,omitempty"`
}

// Lexicon is an immutable phrase dictionary.
type Lexicon struct {
	ac ahocorasick.AhoCorasick

	// Pattern index -> entry, in declaration order
	entries []Entry

	// Normalized phrase -> pattern index
	phraseIndex map[string]int

	// Property id -> display label (first declaration wins)
	labels map[string]string
}

// New compiles entries into a Lexicon. Phrases are normalized; repeating an
// identical (phrase, property) pair is ignored, mapping one phrase to two
// different properties is a configuration error.
func New(entries []Entry) (*Lexicon, error) {
	lex := &Lexicon{
		phraseIndex: make(map[string]int),
		labels:      make(map[string]string),
	}

	patterns := make([]string, 0, len(entries))
	for _, e := range entries {
		key := Normalize(e.Phrase)
		if key == "" || e.PropertyID == "" {
			return nil, errors.Wrapf(ErrInvalidEntry, "phrase %q -> %q", e.Phrase, e.PropertyID)
		}

		if idx, exists := lex.phraseIndex[key]; exists {
			if prev := lex.entries[idx]; prev.PropertyID != e.PropertyID {
				return nil, errors.Wrapf(ErrAmbiguousPhrase, "%q maps to both %s and %s",
					key, prev.PropertyID, e.PropertyID)
			}
			continue
		}

		e.Phrase = key
		lex.phraseIndex[key] = len(lex.entries)
		lex.entries = append(lex.entries, e)
		patterns = append(patterns, key)

		if _, ok := lex.labels[e.PropertyID]; !ok {
			label := e.Label
			if label == "" {
				label = key
			}
			lex.labels[e.PropertyID] = label
		}
	}

	if len(patterns) > 0 {
		builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
			AsciiCaseInsensitive: true,
			MatchOnlyWholeWords:  false,
			MatchKind:            ahocorasick.LeftMostLongestMatch,
		})
		lex.ac = builder.Build(patterns)
	}

	return lex, nil
}

// MustNew is New that panics on error. Used for the built-in table.
func MustNew(entries []Entry) *Lexicon {
	lex, err := New(entries)
	if err != nil {
		panic(err)
	}
	return lex
}

// Lookup returns the entry whose phrase is the longest one contained in
// fragment. Ties go to the entry declared first.
func (l *Lexicon) Lookup(fragment string) (Entry, bool) {
	key := Normalize(fragment)
	if key == "" || len(l.entries) == 0 {
		return Entry{}, false
	}

	// Exact phrase is always the longest possible hit.
	if idx, ok := l.phraseIndex[key]; ok {
		return l.entries[idx], true
	}

	best := -1
	for _, m := range l.ac.FindAll(key) {
		idx := m.Pattern()
		if best == -1 {
			best = idx
			continue
		}
		bestLen := utf8.RuneCountInString(l.entries[best].Phrase)
		curLen := utf8.RuneCountInString(l.entries[idx].Phrase)
		if curLen > bestLen || (curLen == bestLen && idx < best) {
			best = idx
		}
	}
	if best == -1 {
		return Entry{}, false
	}
	return l.entries[best], true
}

// PropertyID is Lookup reduced to the property id.
func (l *Lexicon) PropertyID(fragment string) (string, bool) {
	e, ok := l.Lookup(fragment)
	return e.PropertyID, ok
}

// Label returns the display label of a property id.
func (l *Lexicon) Label(propertyID string) (string, bool) {
	label, ok := l.labels[propertyID]
	return label, ok
}

// Entries returns a copy of the compiled entries in declaration order.
func (l *Lexicon) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of distinct phrases.
func (l *Lexicon) Len() int {
	return len(l.entries)
}
