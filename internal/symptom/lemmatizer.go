// File path: internal/symptom/lemmatizer.go
package symptom

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// Lemmatizer reduces free text to a sequence of base-form tokens. It is
// injected into the Extractor so tests can supply a deterministic stub and so
// the dictionary dependency stays at the edge.
type Lemmatizer interface {
	Lemmas(ctx context.Context, text string) ([]string, error)
}

// DictLemmatizer is the golem-backed english lemmatizer. Construction fails
// fast when the dictionary cannot be loaded; there is no runtime self-install.
type DictLemmatizer struct {
	lemmatizer *golem.Lemmatizer
}

// NewDictLemmatizer loads the bundled english dictionary.
func NewDictLemmatizer() (*DictLemmatizer, error) {
	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load english lemma dictionary: %w", err)
	}
	return &DictLemmatizer{lemmatizer: lemmatizer}, nil
}

// Lemmas tokenizes on non-word runes and maps each token to its base form.
// Tokens absent from the dictionary pass through unchanged.
func (d *DictLemmatizer) Lemmas(_ context.Context, text string) ([]string, error) {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
	lemmas := make([]string, 0, len(words))
	for _, word := range words {
		lemmas = append(lemmas, d.lemmatizer.Lemma(word))
	}
	return lemmas, nil
}
