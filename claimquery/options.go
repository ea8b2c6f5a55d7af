package claimquery

// Options enumerates every predicate recognized by Compile, per the table
// in §4.2. An unrecognized option has no place in this struct by
// construction — there is no escape hatch map, so a caller cannot silently
// typo an option name.
//
// Range-capable numeric fields are plain strings carrying the caller
// convention of §4.2: either a bare number (compiled to an exact term) or
// a leading "<", "<=", ">", ">=" operator (compiled to a range clause).
// Compile parses that prefix into an explicit {field, op, value} triple
// before building the query, per the reimplementation note in §9.
type Options struct {
	Limit  *int
	Offset *int

	// AmountOrder rewrites Limit, OrderBy and Offset; see Compile.
	AmountOrder *int

	OrderBy []string

	Name string

	ClaimID  string
	ClaimIDs []string

	ChannelID     string
	ChannelIDs    []string
	NotChannelIDs []string

	NotClaimID []string

	MediaTypes []string

	ClaimType  string
	ClaimTypes []string

	StreamTypes []string

	AnyTags []string
	AllTags []string
	NotTags []string

	AnyLanguages []string
	AllLanguages []string

	PublicKeyID string

	HasChannelSignature bool
	SignatureValid      *bool

	// HasSource supplements §4.2 with the should-group from
	// original_source/elastic_search.py: either the claim is a
	// stream/repost with a matching has_source value, or it is not a
	// stream/repost, or it is a repost of a channel.
	HasSource *bool

	Text string

	Height           string
	CreationHeight   string
	ActivationHeight string
	ExpirationHeight string
	Timestamp        string
	CreationTimestamp string
	ReleaseTime      string
	Duration         string
	TxPosition       string
	ChannelJoin      string
	Reposted         string
	Amount           string
	EffectiveAmount  string
	SupportAmount    string
	TrendingGroup    string
	TrendingMixed    string
	TrendingLocal    string
	TrendingGlobal   string
	FeeAmount        string
	CensorType       string

	IsControlling *bool

	LimitClaimsPerChannel *int
}
