// internal/query/models.go
package query

import "storefinder/internal/assemble"

// ResultKind is the explicit outcome discriminator so callers never need to
// pattern-match on message text.
type ResultKind string

const (
	KindMatches   ResultKind = "matches"
	KindNoMatches ResultKind = "no_matches"
	KindNeedInput ResultKind = "need_input"
	KindError     ResultKind = "error"
)

// User-facing intro messages. Internal fault details never leak into these.
const (
	msgNeedInput = "Please tell me what you're looking for, for example: where can I buy sunscreen?"
	msgMatches   = "Here's where you can find what you're looking for:"
	msgNoMatches = "I couldn't find any stores matching your search. Try describing the product differently."
	msgError     = "Sorry, I'm having trouble thinking right now. Please try again in a moment."
)

// Response is the sole contract the presentation layer consumes.
type Response struct {
	Kind         ResultKind            `json:"kind"`
	IntroMessage string                `json:"introMessage"`
	StoreGroups  []assemble.StoreGroup `json:"storeGroups,omitempty"`
	Truncated    bool                  `json:"truncated,omitempty"`
}
