// Package session is the entry point that selects resolve vs search,
// applies censorship masking to results, expands references, and hands
// the bundle to the external serializer (§4.6).
package session

import "github.com/toole-brendan/claimsearch/claim"

// Kind selects how aggressively a Censor hides documents: Search hides
// only blocked claims (filtered claims still surface in a search result
// page), Resolve hides both filtered and blocked claims (a direct link
// to either should fail).
type Kind int

const (
	Search Kind = iota + 1
	Resolve
)

// Censor tracks which documents a moderation pass hid, and from which
// channel's block/filter list, per §4.6 and the Censored error kind of
// §7.
type Censor struct {
	kind     Kind
	censored map[string]int
}

// NewCensor builds a Censor of the given kind.
func NewCensor(kind Kind) *Censor {
	return &Censor{kind: kind, censored: make(map[string]int)}
}

// isCensored reports whether doc should be hidden under this Censor's
// policy: a censoring_channel_hash must be set, and censor_type must
// meet the kind's threshold (>=2 for Search, >0 for Resolve).
func (c *Censor) isCensored(doc *claim.IndexedDocument) bool {
	if doc == nil || doc.CensoringChannelHash == nil {
		return false
	}
	switch c.kind {
	case Search:
		return doc.CensorType >= claim.CensorBlocked
	case Resolve:
		return doc.CensorType > claim.CensorNone
	default:
		return false
	}
}

// Censor reports whether doc is censored, recording the hit against its
// responsible channel hash when it is.
func (c *Censor) Censor(doc *claim.IndexedDocument) bool {
	if !c.isCensored(doc) {
		return false
	}
	c.censored[*doc.CensoringChannelHash]++
	return true
}

// Apply filters censored documents out of hits, recording each one.
func (c *Censor) Apply(hits []*claim.IndexedDocument) []*claim.IndexedDocument {
	kept := make([]*claim.IndexedDocument, 0, len(hits))
	for _, doc := range hits {
		if !c.Censor(doc) {
			kept = append(kept, doc)
		}
	}
	return kept
}

// Censored reports whether this Censor has hidden at least one document.
func (c *Censor) Censored() bool {
	return len(c.censored) > 0
}

// Summary returns the count of censored documents per responsible
// channel hash, for the telemetry bundle handed to the serializer.
func (c *Censor) Summary() map[string]int {
	out := make(map[string]int, len(c.censored))
	for k, v := range c.censored {
		out[k] = v
	}
	return out
}
