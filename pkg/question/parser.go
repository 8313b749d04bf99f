// Package question splits a free-text question into an attribute phrase and
// a subject phrase using an ordered list of templates.
package question

import (
	"strings"

	"github.com/kittclouds/wikiqa/internal/errors"
	"github.com/kittclouds/wikiqa/pkg/lexicon"
)

// ErrInvalidTemplate is returned by Compile for malformed patterns.
var ErrInvalidTemplate = errors.New("invalid question template")

// Slot identifies a capture position in a template.
type Slot int

const (
	SlotNone Slot = iota
	SlotAttribute
	SlotSubject
)

func (s Slot) String() string {
	switch s {
	case SlotAttribute:
		return "attribute"
	case SlotSubject:
		return "subject"
	default:
		return "none"
	}
}

// Part is either a fixed literal or a capture slot.
type Part struct {
	Literal string
	Slot    Slot
}

// Template is a compiled question pattern.
type Template struct {
	Name  string
	Parts []Part
}

// Candidate is one way of splitting a question into attribute and subject.
type Candidate struct {
	Attribute string
	Subject   string
}

// Match is the result of parsing a question against the winning template.
type Match struct {
	Template string
	// Every valid split for the template, leftmost split first.
	Candidates []Candidate
}

// Compile turns a pattern such as "what is the {attribute} of {subject}"
// into a Template. Both slots must appear exactly once and must be separated
// by a literal.
func Compile(name, pattern string) (Template, error) {
	t := Template{Name: name}
	seen := map[Slot]bool{}

	rest := pattern
	for rest != "" {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			t.Parts = appendLiteral(t.Parts, rest)
			break
		}
		if open > 0 {
			t.Parts = appendLiteral(t.Parts, rest[:open])
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return Template{}, errors.Wrapf(ErrInvalidTemplate, "%s: unclosed slot", name)
		}

		var slot Slot
		switch rest[open+1 : open+end] {
		case "attribute":
			slot = SlotAttribute
		case "subject":
			slot = SlotSubject
		default:
			return Template{}, errors.Wrapf(ErrInvalidTemplate, "%s: unknown slot %q", name, rest[open:open+end+1])
		}
		if seen[slot] {
			return Template{}, errors.Wrapf(ErrInvalidTemplate, "%s: duplicate %s slot", name, slot)
		}
		if n := len(t.Parts); n > 0 && t.Parts[n-1].Slot != SlotNone {
			return Template{}, errors.Wrapf(ErrInvalidTemplate, "%s: adjacent slots", name)
		}
		seen[slot] = true
		t.Parts = append(t.Parts, Part{Slot: slot})
		rest = rest[open+end+1:]
	}

	if !seen[SlotAttribute] || !seen[SlotSubject] {
		return Template{}, errors.Wrapf(ErrInvalidTemplate, "%s: needs both {attribute} and {subject}", name)
	}
	return t, nil
}

// MustCompile is Compile that panics on error.
func MustCompile(name, pattern string) Template {
	t, err := Compile(name, pattern)
	if err != nil {
		panic(err)
	}
	return t
}

// appendLiteral normalizes a literal the same way questions are normalized,
// keeping one boundary space on each side where the pattern had whitespace.
func appendLiteral(parts []Part, raw string) []Part {
	lit := lexicon.Normalize(raw)
	if lit == "" {
		if strings.TrimSpace(raw) == "" && raw != "" {
			lit = " "
		} else {
			return parts
		}
	} else {
		if startsWithSpace(raw) {
			lit = " " + lit
		}
		if endsWithSpace(raw) {
			lit += " "
		}
	}
	return append(parts, Part{Literal: lit})
}

func startsWithSpace(s string) bool { return s != "" && strings.TrimLeft(s, " \t") != s }
func endsWithSpace(s string) bool   { return s != "" && strings.TrimRight(s, " \t") != s }

// Splits returns every valid (attribute, subject) split of an already
// normalized question. A literal preceded by no open slot binds to its first
// occurrence; a literal closing a slot is tried at each of its occurrences.
// The last slot takes the remainder of the text.
func (t Template) Splits(text string) []Candidate {
	var out []Candidate
	t.walk(text, 0, 0, SlotNone, 0, Candidate{}, &out)
	return out
}

func (t Template) walk(text string, i, pos int, open Slot, start int, cur Candidate, out *[]Candidate) {
	if i == len(t.Parts) {
		if open != SlotNone {
			capture := strings.TrimSpace(text[start:])
			if capture == "" {
				return
			}
			cur = assign(cur, open, capture)
		}
		*out = append(*out, cur)
		return
	}

	part := t.Parts[i]
	if part.Slot != SlotNone {
		t.walk(text, i+1, pos, part.Slot, pos, cur, out)
		return
	}

	if open == SlotNone {
		idx := strings.Index(text[pos:], part.Literal)
		if idx < 0 {
			return
		}
		t.walk(text, i+1, pos+idx+len(part.Literal), SlotNone, 0, cur, out)
		return
	}

	for from := pos; from <= len(text); {
		idx := strings.Index(text[from:], part.Literal)
		if idx < 0 {
			return
		}
		at := from + idx
		if capture := strings.TrimSpace(text[start:at]); capture != "" {
			t.walk(text, i+1, at+len(part.Literal), SlotNone, 0, assign(cur, open, capture), out)
		}
		from = at + 1
	}
}

func assign(c Candidate, slot Slot, value string) Candidate {
	switch slot {
	case SlotAttribute:
		c.Attribute = value
	case SlotSubject:
		c.Subject = value
	}
	return c
}

// Parser evaluates templates top to bottom.
type Parser struct {
	templates []Template
}

// New creates a parser over templates, in priority order.
func New(templates []Template) *Parser {
	return &Parser{templates: templates}
}

// Parse normalizes question and returns the splits of the first template
// that yields at least one.
func (p *Parser) Parse(question string) (Match, bool) {
	text := lexicon.Normalize(question)
	if text == "" {
		return Match{}, false
	}
	for _, t := range p.templates {
		if cands := t.Splits(text); len(cands) > 0 {
			return Match{Template: t.Name, Candidates: cands}, true
		}
	}
	return Match{}, false
}
