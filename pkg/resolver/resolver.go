// Package resolver maps a free-text subject phrase to an entity id.
// Lookups are delegated to an Index so each storage backend can answer them
// natively; the resolver only owns the priority order.
package resolver

import (
	"strings"

	"github.com/kittclouds/wikiqa/pkg/lexicon"
)

// Index answers lookups on normalized keys. Each method returns the first
// matching entity in storage order.
type Index interface {
	EntityByLabelKey(key string) (id string, ok bool, err error)
	EntityByAliasKey(key string) (id string, ok bool, err error)
	EntityByLabelContaining(key string) (id string, ok bool, err error)
	EntityByAliasContaining(key string) (id string, ok bool, err error)
}

// Step names a stage of the resolution chain.
type Step int

const (
	StepNone Step = iota
	StepExactLabel
	StepExactAlias
	StepLabelContains
	StepAliasContains
)

func (s Step) String() string {
	switch s {
	case StepExactLabel:
		return "exact-label"
	case StepExactAlias:
		return "exact-alias"
	case StepLabelContains:
		return "label-contains"
	case StepAliasContains:
		return "alias-contains"
	default:
		return "none"
	}
}

var articles = []string{"the "}

// Key normalizes a subject phrase: lexicon normalization plus removal of a
// leading article.
func Key(phrase string) string {
	key := lexicon.Normalize(phrase)
	for _, a := range articles {
		if strings.HasPrefix(key, a) && len(key) > len(a) {
			key = key[len(a):]
			break
		}
	}
	return key
}

// Resolve returns the id of the entity best matching phrase.
// Priority: exact label, exact alias, label substring, alias substring.
// No match is ok=false with a nil error.
func Resolve(idx Index, phrase string) (string, bool, error) {
	id, step, err := ResolveStep(idx, phrase)
	return id, step != StepNone, err
}

// ResolveStep is Resolve that also reports which step matched.
func ResolveStep(idx Index, phrase string) (string, Step, error) {
	key := Key(phrase)
	if key == "" {
		return "", StepNone, nil
	}

	chain := []struct {
		step Step
		fn   func(string) (string, bool, error)
	}{
		{StepExactLabel, idx.EntityByLabelKey},
		{StepExactAlias, idx.EntityByAliasKey},
		{StepLabelContains, idx.EntityByLabelContaining},
		{StepAliasContains, idx.EntityByAliasContaining},
	}

	for _, c := range chain {
		id, ok, err := c.fn(key)
		if err != nil {
			return "", StepNone, err
		}
		if ok {
			return id, c.step, nil
		}
	}
	return "", StepNone, nil
}
