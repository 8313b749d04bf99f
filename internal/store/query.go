package store

import (
	"go.uber.org/zap"

	"github.com/kittclouds/wikiqa/internal/logger"
	"github.com/kittclouds/wikiqa/pkg/lexicon"
	"github.com/kittclouds/wikiqa/pkg/question"
	"github.com/kittclouds/wikiqa/pkg/resolver"
)

// QueryOptions selects the lexicon and question templates used by
// NaturalLanguageQuery. Zero values fall back to the built-in defaults.
type QueryOptions struct {
	Lexicon *lexicon.Lexicon
	Parser  *question.Parser
}

func (o QueryOptions) withDefaults() QueryOptions {
	if o.Lexicon == nil {
		o.Lexicon = lexicon.Default()
	}
	if o.Parser == nil {
		o.Parser = question.Default()
	}
	return o
}

// entitySource is a read view of one backend, used while its lock is held.
type entitySource interface {
	resolver.Index
	entity(id string) (*Entity, error)
}

// answerQuestion parses q, resolves attribute and subject, and maps the
// subject's matching statements to answers. Unresolved questions yield an
// empty, non-nil slice; only storage errors are returned.
func answerQuestion(src entitySource, opts QueryOptions, log *zap.SugaredLogger, q string) ([]Answer, error) {
	out := []Answer{}

	m, ok := opts.Parser.Parse(q)
	if !ok {
		log.Debugw("no template matched", logger.FieldQuestion, q)
		return out, nil
	}

	for _, c := range m.Candidates {
		entry, ok := opts.Lexicon.Lookup(c.Attribute)
		if !ok {
			continue
		}
		subjectID, ok, err := resolver.Resolve(src, c.Subject)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		log.Debugw("question resolved",
			logger.FieldQuestion, q,
			"template", m.Template,
			"property_id", entry.PropertyID,
			logger.FieldEntityID, subjectID,
		)

		subject, err := src.entity(subjectID)
		if err != nil {
			return nil, err
		}
		if subject == nil {
			return out, nil
		}

		for _, st := range subject.Statements {
			if st.Property.ID != entry.PropertyID {
				continue
			}
			a := Answer{Label: st.Property.Label, Value: st.Value}
			if a.Label == "" {
				a.Label, _ = opts.Lexicon.Label(entry.PropertyID)
			}
			if st.IsReference() {
				ref, err := src.entity(st.EntityID)
				if err != nil {
					return nil, err
				}
				if ref != nil && ref.Label != "" {
					a.Value = ref.Label
				}
			}
			out = append(out, a)
		}
		return out, nil
	}

	log.Debugw("question unresolved", logger.FieldQuestion, q, "template", m.Template)
	return out, nil
}
