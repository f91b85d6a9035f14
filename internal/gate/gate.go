// File path: internal/gate/gate.go
package gate

import (
	"regexp"
	"strings"

	"github.com/meditrainhq/meditrain/internal/common"
	"github.com/meditrainhq/meditrain/internal/textnorm"
)

// Gate decides whether trainee input is in-domain for the medical trainer.
// Patterns are compiled once at construction; a Gate is immutable and safe for
// concurrent use.
type Gate struct {
	allowed []*regexp.Regexp
	banned  []*regexp.Regexp
}

// New compiles a Gate from the provided vocabulary. Allow-list entries are
// matched as whole words. Deny-list entries that already carry \b anchors are
// compiled as regex fragments; plain entries are escaped and word-bounded.
// Entries that fail to compile are skipped with a warning rather than
// disabling the gate.
func New(vocab Vocabulary) *Gate {
	logger := common.Logger()
	g := &Gate{}
	for _, term := range vocab.Allowed {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(term) + `\b`)
		if err != nil {
			logger.Warn("gate: skipping allow term", "term", term, "error", err)
			continue
		}
		g.allowed = append(g.allowed, re)
	}
	for _, term := range vocab.Banned {
		pattern := term
		if !strings.Contains(term, `\b`) {
			pattern = `\b` + regexp.QuoteMeta(term) + `\b`
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			logger.Warn("gate: skipping banned term", "term", term, "error", err)
			continue
		}
		g.banned = append(g.banned, re)
	}
	return g
}

// Allowed reports whether the message is in-domain. The deny list takes
// precedence: any banned whole-word match rejects the message regardless of
// allow-list hits. With neither a banned nor an allowed match the message is
// rejected.
func (g *Gate) Allowed(message string) bool {
	normalized := textnorm.Normalize(message)
	for _, re := range g.banned {
		if re.MatchString(normalized) {
			return false
		}
	}
	for _, re := range g.allowed {
		if re.MatchString(normalized) {
			return true
		}
	}
	return false
}

// SmallTalk reports whether the raw message contains one of the short
// greeting/identity phrases. This is a deliberately coarse check kept separate
// from Allowed; call sites use it for casual-chit-chat handling only.
func SmallTalk(message string) bool {
	lowered := strings.ToLower(message)
	for _, phrase := range smallTalkPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// GeneralKnowledge reports whether the message asks about an off-topic
// general-knowledge subject the virtual patient should deflect.
func GeneralKnowledge(message string) bool {
	lowered := strings.ToLower(message)
	for _, topic := range generalKnowledgeTopics {
		if strings.Contains(lowered, topic) {
			return true
		}
	}
	return false
}
