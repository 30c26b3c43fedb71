package orchestration

import (
	"strings"
	"sync"
)

// utteranceGuard decides whether a finalized utterance is new or a re-emit
// of the last one processed. Capture services can deliver the same stabilized
// transcript more than once for a single speech segment; the guard turns
// "finalized transcript changed" into "new conversational input".
type utteranceGuard struct {
	mu sync.Mutex
	// memo holds the text of the last accepted utterance, never a rejected
	// duplicate.
	memo string
}

// Accept reports whether text is new input and, if so, records it as the
// memo. Empty or whitespace-only input is rejected without consulting the
// memo.
func (g *utteranceGuard) Accept(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if trimmed == g.memo {
		return false
	}

	g.memo = trimmed
	return true
}

// Clear resets the memo so the same phrase can be accepted again. Called
// when a new listening session starts or on explicit reset.
func (g *utteranceGuard) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.memo = ""
}

// Memo returns the current memo text, empty when cleared.
func (g *utteranceGuard) Memo() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.memo
}
