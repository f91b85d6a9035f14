// File path: internal/symptom/extractor.go
package symptom

import (
	"context"
	"strings"

	"github.com/meditrainhq/meditrain/internal/common"
)

// Extractor maps free text onto the canonical symptom vocabulary. It is
// stateless beyond its configuration and safe for concurrent use.
type Extractor struct {
	vocab    Vocabulary
	keywords map[string]struct{}
	lemmas   Lemmatizer
}

// NewExtractor builds an Extractor over the given vocabulary and lemmatizer.
func NewExtractor(vocab Vocabulary, lemmas Lemmatizer) *Extractor {
	keywords := make(map[string]struct{}, len(vocab.Keywords))
	for _, kw := range vocab.Keywords {
		keywords[kw] = struct{}{}
	}
	return &Extractor{vocab: vocab, keywords: keywords, lemmas: lemmas}
}

// Extract returns the deduplicated set of canonical symptoms found in the
// text. Keywords and synonym phrases are matched as substrings against both
// the raw lowercased text and its lemmatized form; matching deliberately
// ignores word boundaries. A lemmatizer failure degrades to raw-text-only
// matching. An empty result is a valid outcome, not an error.
func (e *Extractor) Extract(ctx context.Context, text string) []string {
	raw := strings.ToLower(text)

	lemmatized := ""
	if e.lemmas != nil {
		tokens, err := e.lemmas.Lemmas(ctx, raw)
		if err != nil {
			common.Logger().Warn("symptom: lemmatization failed, matching raw text only", "error", err)
		} else {
			lemmatized = strings.Join(tokens, " ")
		}
	}

	found := make(map[string]struct{})
	for _, keyword := range e.vocab.Keywords {
		if strings.Contains(raw, keyword) || strings.Contains(lemmatized, keyword) {
			found[keyword] = struct{}{}
		}
	}
	for synonym, canonical := range e.vocab.Synonyms {
		if _, known := e.keywords[canonical]; !known {
			continue
		}
		if strings.Contains(raw, synonym) || strings.Contains(lemmatized, synonym) {
			found[canonical] = struct{}{}
		}
	}

	// Emit in vocabulary order so responses are stable; the set itself is
	// order-independent.
	result := make([]string, 0, len(found))
	for _, keyword := range e.vocab.Keywords {
		if _, ok := found[keyword]; ok {
			result = append(result, keyword)
		}
	}
	return result
}
