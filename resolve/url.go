// Package resolve maps a user-facing URL to a single winning claim,
// layered over claimquery and esindex, per §4.5.
package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/toole-brendan/claimsearch/claimquery"
)

// Segment is one channel or stream component of a URL: a name, and at
// most one of a partial/full claim id, a sequence number, or an
// amount-order qualifier (§4.5 "URL shape").
type Segment struct {
	Name        string
	ClaimID     string
	Sequence    *int
	AmountOrder *int
}

func (s Segment) isNameOnly() bool {
	return s.Name != "" && s.ClaimID == "" && s.Sequence == nil && s.AmountOrder == nil
}

// String returns the canonical round-trippable spelling of the segment,
// used to build resolver cache keys (§4.5).
func (s Segment) String() string {
	switch {
	case s.ClaimID != "":
		return s.Name + "#" + s.ClaimID
	case s.Sequence != nil:
		return fmt.Sprintf("%s:%d", s.Name, *s.Sequence)
	case s.AmountOrder != nil:
		return fmt.Sprintf("%s$%d", s.Name, *s.AmountOrder)
	default:
		return s.Name
	}
}

// toOptions seeds a claimquery.Options with this segment's attributes.
// The sequence qualifier has no dedicated claimquery option; it is
// expressed as an offset into whatever order the resolver then applies:
// creation height for a channel segment, channel_join for a stream
// segment under a channel, and no explicit order for a stream segment
// without a channel (§9 Open question).
func (s Segment) toOptions() claimquery.Options {
	var opts claimquery.Options
	if s.Name != "" {
		opts.Name = s.Name
	}
	if s.ClaimID != "" {
		opts.ClaimID = s.ClaimID
	}
	if s.Sequence != nil {
		offset := *s.Sequence - 1
		opts.Offset = &offset
	}
	if s.AmountOrder != nil {
		opts.AmountOrder = s.AmountOrder
	}
	return opts
}

// URL is a parsed channel/stream reference, e.g. "@alice/song#BBBB…02".
type URL struct {
	HasChannel bool
	Channel    Segment
	HasStream  bool
	Stream     Segment
}

// Parse decodes a raw URL string into channel and/or stream segments.
// Grammar: an optional "lbry://" scheme, an optional "@name[qualifier]"
// channel segment, optionally followed by "/name[qualifier]" for the
// stream segment. A qualifier is one of "#<claim id>", ":<sequence>" or
// "$<amount order>", applied to the name immediately preceding it.
func Parse(raw string) (*URL, error) {
	trimmed := strings.TrimPrefix(raw, "lbry://")
	if trimmed == "" {
		return nil, fmt.Errorf("resolve: empty url")
	}

	u := &URL{}
	rest := trimmed
	if strings.HasPrefix(rest, "@") {
		rest = rest[1:]
		channelPart := rest
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			channelPart = rest[:idx]
			rest = rest[idx+1:]
			u.HasStream = true
		} else {
			rest = ""
		}
		if channelPart == "" {
			return nil, fmt.Errorf("resolve: %q has an empty channel name", raw)
		}
		segment, err := parseSegment(channelPart)
		if err != nil {
			return nil, fmt.Errorf("resolve: parsing channel segment of %q: %w", raw, err)
		}
		u.HasChannel = true
		u.Channel = segment
	} else {
		u.HasStream = true
	}

	if u.HasStream {
		streamPart := rest
		if streamPart == "" {
			return nil, fmt.Errorf("resolve: %q has an empty stream name", raw)
		}
		segment, err := parseSegment(streamPart)
		if err != nil {
			return nil, fmt.Errorf("resolve: parsing stream segment of %q: %w", raw, err)
		}
		u.Stream = segment
	}

	return u, nil
}

// parseSegment splits a single "name[#claimid|:sequence|$amountorder]"
// component into a Segment.
func parseSegment(s string) (Segment, error) {
	for i, r := range s {
		switch r {
		case '#':
			claimID := s[i+1:]
			if claimID == "" {
				return Segment{}, fmt.Errorf("empty claim id qualifier in %q", s)
			}
			return Segment{Name: s[:i], ClaimID: claimID}, nil
		case ':':
			n, err := strconv.Atoi(s[i+1:])
			if err != nil {
				return Segment{}, fmt.Errorf("invalid sequence qualifier in %q: %w", s, err)
			}
			return Segment{Name: s[:i], Sequence: &n}, nil
		case '$':
			n, err := strconv.Atoi(s[i+1:])
			if err != nil {
				return Segment{}, fmt.Errorf("invalid amount-order qualifier in %q: %w", s, err)
			}
			return Segment{Name: s[:i], AmountOrder: &n}, nil
		}
	}
	if s == "" {
		return Segment{}, fmt.Errorf("empty name")
	}
	return Segment{Name: s}, nil
}
