package claimquery

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/toole-brendan/claimsearch/claim"
)

// textFields are matched against <field>.keyword for exact-term clauses
// and ordering; the bare field name is reserved for analysis (§4.2 Name
// policy).
var textFields = map[string]bool{
	"author": true, "canonical_url": true, "channel_id": true,
	"claim_name": true, "description": true, "claim_id": true,
	"media_type": true, "normalized": true, "public_key_bytes": true,
	"public_key_hash": true, "short_url": true, "signature": true,
	"signature_digest": true, "stream_type": true, "title": true,
	"tx_id": true, "fee_currency": true, "reposted_claim_id": true,
	"tags": true,
}

func keyword(field string) string {
	if textFields[field] {
		return field + ".keyword"
	}
	return field
}

// Compile translates a predicate into a backend-agnostic Query. It is
// pure: it never allocates a connection and always returns an equal
// Query for an equal Options value.
func Compile(opts Options) *Query {
	if opts.AmountOrder != nil {
		one := 1
		offset := *opts.AmountOrder - 1
		opts.Limit = &one
		opts.OrderBy = []string{"effective_amount"}
		opts.Offset = &offset
	}

	q := &Query{SourceExcludes: []string{"description", "title"}}

	if opts.Name != "" {
		q.Must = append(q.Must, TermClause{Field: keyword("normalized"), Value: NormalizeName(opts.Name)})
	}

	compileClaimID(opts, q)

	if len(opts.ClaimIDs) > 0 {
		q.Must = append(q.Must, TermsClause{Field: "claim_id.keyword", Values: toAny(opts.ClaimIDs)})
	}
	if opts.ChannelID != "" {
		q.Must = append(q.Must, TermClause{Field: "channel_id.keyword", Value: opts.ChannelID})
	}
	if len(opts.ChannelIDs) > 0 {
		q.Must = append(q.Must, TermsClause{Field: "channel_id.keyword", Values: toAny(opts.ChannelIDs)})
	}
	for _, id := range opts.NotChannelIDs {
		q.MustNot = append(q.MustNot, TermClause{Field: "channel_id.keyword", Value: id})
		q.MustNot = append(q.MustNot, TermClause{Field: "_id", Value: id})
	}
	for _, id := range opts.NotClaimID {
		q.MustNot = append(q.MustNot, TermClause{Field: "claim_id.keyword", Value: id})
	}
	if len(opts.MediaTypes) > 0 {
		q.Must = append(q.Must, TermsClause{Field: "media_type.keyword", Values: toAny(opts.MediaTypes)})
	}

	if opts.ClaimType != "" {
		q.Must = append(q.Must, TermClause{Field: "claim_type", Value: claim.ClaimTypeByName[opts.ClaimType]})
	}
	if len(opts.ClaimTypes) > 0 {
		vals := make([]interface{}, len(opts.ClaimTypes))
		for i, t := range opts.ClaimTypes {
			vals[i] = claim.ClaimTypeByName[t]
		}
		q.Must = append(q.Must, TermsClause{Field: "claim_type", Values: vals})
	}
	if len(opts.StreamTypes) > 0 {
		vals := make([]interface{}, len(opts.StreamTypes))
		for i, t := range opts.StreamTypes {
			vals[i] = claim.StreamTypeByName[t]
		}
		q.Must = append(q.Must, TermsClause{Field: "stream_type", Values: vals})
	}

	if any := CleanTags(opts.AnyTags); len(any) > 0 {
		q.Must = append(q.Must, TermsClause{Field: "tags.keyword", Values: toAny(any)})
	}
	for _, tag := range CleanTags(opts.AllTags) {
		q.Must = append(q.Must, TermClause{Field: "tags.keyword", Value: tag})
	}
	for _, tag := range CleanTags(opts.NotTags) {
		q.MustNot = append(q.MustNot, TermClause{Field: "tags.keyword", Value: tag})
	}
	// The authoritative any_languages branch cleans tags before matching;
	// a second, unreachable branch in the system this compiles against
	// re-filters without cleaning and is intentionally not reproduced (§9).
	if any := CleanTags(opts.AnyLanguages); len(any) > 0 {
		q.Must = append(q.Must, TermsClause{Field: "languages", Values: toAny(any)})
	}
	for _, lang := range opts.AllLanguages {
		q.Must = append(q.Must, TermClause{Field: "languages", Value: lang})
	}

	if opts.PublicKeyID != "" {
		decoded := base58.Decode(opts.PublicKeyID)
		if len(decoded) >= 21 {
			value := strings.ToLower(hex.EncodeToString(decoded[1:21]))
			q.Must = append(q.Must, TermClause{Field: "public_key_hash.keyword", Value: value})
		}
	}

	// signature_valid is deliberately not handled inline with the other
	// scalar options above; it is re-handled below together with
	// has_channel_signature so the should-group construction stays in one
	// place (§9 Open question).
	if opts.HasChannelSignature {
		q.Must = append(q.Must, ExistsClause{Field: "signature_digest"})
		if opts.SignatureValid != nil {
			q.Must = append(q.Must, TermClause{Field: "signature_valid", Value: *opts.SignatureValid})
		}
	} else if opts.SignatureValid != nil {
		q.MinimumShouldMatch = 1
		q.Should = append(q.Should,
			BoolClause{MustNot: []interface{}{ExistsClause{Field: "signature_digest"}}},
			TermClause{Field: "signature_valid", Value: *opts.SignatureValid},
		)
	}

	if opts.HasSource != nil {
		q.MinimumShouldMatch = 1
		isStreamOrRepost := TermsClause{Field: "claim_type", Values: []interface{}{claim.ClaimTypeStream, claim.ClaimTypeRepost}}
		q.Should = append(q.Should,
			BoolClause{Must: []interface{}{isStreamOrRepost, TermClause{Field: "has_source", Value: *opts.HasSource}}},
			BoolClause{MustNot: []interface{}{isStreamOrRepost}},
			BoolClause{Must: []interface{}{TermClause{Field: "reposted_claim_type", Value: claim.ClaimTypeChannel}}},
		)
	}

	compileRangeFields(opts, q)

	if opts.IsControlling != nil && *opts.IsControlling {
		q.Must = append(q.Must, TermClause{Field: "is_controlling", Value: true})
	}

	if opts.Text != "" {
		q.Must = append(q.Must, SimpleQueryStringClause{
			Query: opts.Text,
			Fields: []WeightedField{
				{Field: "claim_name", Boost: 4},
				{Field: "channel_name", Boost: 8},
				{Field: "title", Boost: 1},
				{Field: "description", Boost: .5},
				{Field: "author", Boost: 1},
				{Field: "tags", Boost: .5},
			},
		})
	}

	if opts.Limit != nil {
		q.Size = opts.Limit
	}
	if opts.Offset != nil {
		q.From = opts.Offset
	}

	compileOrderBy(opts.OrderBy, q)

	if opts.LimitClaimsPerChannel != nil {
		q.Collapse = &Collapse{Field: "channel_id.keyword", Size: *opts.LimitClaimsPerChannel, Sort: q.Sort}
	}

	return q
}

// compileClaimID applies the boundary rule of §8: a 40-char claim id is an
// exact match, any shorter non-empty prefix is a prefix match against the
// edge-indexed claim_id field, and an empty value contributes no clause.
func compileClaimID(opts Options, q *Query) {
	switch len(opts.ClaimID) {
	case 0:
		return
	case 40:
		q.Must = append(q.Must, TermClause{Field: "claim_id.keyword", Value: opts.ClaimID})
	default:
		q.Must = append(q.Must, PrefixClause{Field: "claim_id", Value: opts.ClaimID})
	}
}

func compileOrderBy(orderBy []string, q *Query) {
	for _, raw := range orderBy {
		if strings.Contains(raw, "trending_group") {
			continue
		}
		ascending := strings.HasPrefix(raw, "^")
		field := raw
		if ascending {
			field = raw[1:]
		}
		switch field {
		case "name":
			field = "normalized"
		case "txid":
			field = "tx_id"
		}
		field = keyword(field)
		q.Sort = append(q.Sort, SortField{Field: field, Ascending: ascending})
	}
}

func toAny(ss []string) []interface{} {
	if len(ss) == 0 {
		return nil
	}
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// parseInt/parseFloat/parseFeeAmount produce the typed Value stored on a
// TermClause or RangeClause.
func parseInt(s string) (interface{}, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, false
	}
	return v, true
}

func parseFloat(s string) (interface{}, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return v, true
}

// parseFeeAmount multiplies the decimal user-facing value by 1000, per
// §3's "fee_amount at rest ... is integer thousandths" invariant.
func parseFeeAmount(s string) (interface{}, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return int64(math.Round(v * 1000)), true
}

// ops maps the recognized leading operator spellings to a RangeOp, longest
// match first so "<=" isn't mistaken for "<".
var ops = []struct {
	prefix string
	op     RangeOp
}{
	{"<=", OpLTE},
	{">=", OpGTE},
	{"<", OpLT},
	{">", OpGT},
}

// parseRange splits an optionally-prefixed number string into an explicit
// {op, value} pair, or reports ok=false if it carries no operator (the
// caller should then compile it as an exact term instead). Malformed
// numeric content after a recognized operator propagates as a string value
// so the backend surfaces the error, per §4.2 Failure.
func parseRange(raw string) (op RangeOp, rest string, ok bool) {
	for _, candidate := range ops {
		if strings.HasPrefix(raw, candidate.prefix) {
			return candidate.op, raw[len(candidate.prefix):], true
		}
	}
	return "", raw, false
}

func compileRangeFields(opts Options, q *Query) {
	fields := []struct {
		field string
		raw   string
		parse func(string) (interface{}, bool)
	}{
		{"height", opts.Height, parseInt},
		{"creation_height", opts.CreationHeight, parseInt},
		{"activation_height", opts.ActivationHeight, parseInt},
		{"expiration_height", opts.ExpirationHeight, parseInt},
		{"timestamp", opts.Timestamp, parseInt},
		{"creation_timestamp", opts.CreationTimestamp, parseInt},
		{"release_time", opts.ReleaseTime, parseInt},
		{"duration", opts.Duration, parseInt},
		{"tx_position", opts.TxPosition, parseInt},
		{"channel_join", opts.ChannelJoin, parseInt},
		{"reposted", opts.Reposted, parseInt},
		{"amount", opts.Amount, parseInt},
		{"effective_amount", opts.EffectiveAmount, parseInt},
		{"support_amount", opts.SupportAmount, parseInt},
		{"trending_group", opts.TrendingGroup, parseInt},
		{"trending_mixed", opts.TrendingMixed, parseFloat},
		{"trending_local", opts.TrendingLocal, parseInt},
		{"trending_global", opts.TrendingGlobal, parseInt},
		{"fee_amount", opts.FeeAmount, parseFeeAmount},
		{"censor_type", opts.CensorType, parseInt},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		if op, rest, ok := parseRange(f.raw); ok {
			value, valid := f.parse(rest)
			if !valid {
				// Malformed numeric content propagates as-is; the backend
				// surfaces the error (§4.2 Failure).
				value = rest
			}
			q.Must = append(q.Must, RangeClause{Field: f.field, Op: op, Value: value})
			continue
		}
		value, valid := f.parse(f.raw)
		if !valid {
			value = f.raw
		}
		q.Must = append(q.Must, TermClause{Field: keyword(f.field), Value: value})
	}
}
