package claimquery

import "github.com/toole-brendan/claimsearch/claim"

// SearchAhead re-interleaves a collapsed result set so that no single page
// holds more than perChannelPerPage hits from the same channel, without
// throwing away the overflow: claims that would bust a page's per-channel
// cap are held for a later page instead of being dropped. Once the input
// runs out and the last page is left incomplete, any hits still held are
// not returned. It supplements
// the bare `collapse` behavior of §4.2 with the client-side pass the
// underlying system applies to paginate collapsed inner_hits.
func SearchAhead(hits []*claim.IndexedDocument, pageSize, perChannelPerPage int) []*claim.IndexedDocument {
	reordered := make([]*claim.IndexedDocument, 0, len(hits))
	counters := make(map[string]int)
	var held []*claim.IndexedDocument
	pending := append([]*claim.IndexedDocument(nil), hits...)

	for len(pending) > 0 || len(held) > 0 {
		if len(reordered) > 0 && len(reordered)%pageSize == 0 {
			counters = make(map[string]int)
		} else if len(reordered) != 0 {
			// Last page was left incomplete; any further held hits would
			// be bad replacements for it.
			break
		}

		var stillHeld []*claim.IndexedDocument
		for _, hit := range held {
			if perChannelPerPage > 0 && counters[channelKey(hit)] < perChannelPerPage {
				reordered = append(reordered, hit)
				counters[channelKey(hit)]++
			} else {
				stillHeld = append(stillHeld, hit)
			}
		}
		held = stillHeld

	drain:
		for len(pending) > 0 {
			hit := pending[0]
			pending = pending[1:]
			key := channelKey(hit)
			switch {
			case key == "" || perChannelPerPage <= 0:
				reordered = append(reordered, hit)
			case counters[key] < perChannelPerPage:
				reordered = append(reordered, hit)
				counters[key]++
				if len(reordered)%pageSize == 0 {
					break drain
				}
			default:
				held = append(held, hit)
			}
		}
	}
	return reordered
}

func channelKey(doc *claim.IndexedDocument) string {
	if doc.ChannelID == nil {
		return ""
	}
	return *doc.ChannelID
}
