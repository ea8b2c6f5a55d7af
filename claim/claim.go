// Package claim defines the claim document model shared by the indexer's
// binary representation and the hex string-keyed documents stored in the
// search backend, and the codec that converts between the two.
package claim

import (
	"encoding/hex"
	"fmt"
)

// ID is a 20-byte claim or channel hash. Like a chainhash.Hash, it is kept
// in the indexer's native byte order internally and reversed for hex
// display, matching the wire convention of §6.
type ID [20]byte

// IDFromHex decodes a hex string produced by ID.String (reversed-byte
// display order) back into an ID.
func IDFromHex(s string) (ID, error) {
	var id ID
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, err
	}
	if len(b) != len(id) {
		return id, fmt.Errorf("claim: wrong hash length %d, want %d", len(b), len(id))
	}
	reverse(b)
	copy(id[:], b)
	return id, nil
}

// String returns the reversed-byte hex encoding used on the wire and in
// the index (claim_id, channel_id, reposted_claim_id, censoring_channel_hash).
func (id ID) String() string {
	b := make([]byte, len(id))
	copy(b, id[:])
	reverse(b)
	return hex.EncodeToString(b)
}

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool {
	return id == ID{}
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// ClaimType is the byte enum stored in the claim_type field.
type ClaimType uint8

const (
	ClaimTypeStream     ClaimType = 1
	ClaimTypeChannel    ClaimType = 2
	ClaimTypeRepost     ClaimType = 3
	ClaimTypeCollection ClaimType = 4
)

// ClaimTypeByName maps the session-query string spelling of claim_type to
// its stored byte code, e.g. kwargs["claim_type"] = "stream".
var ClaimTypeByName = map[string]ClaimType{
	"stream":     ClaimTypeStream,
	"channel":    ClaimTypeChannel,
	"repost":     ClaimTypeRepost,
	"collection": ClaimTypeCollection,
}

// StreamType is the byte enum stored in the stream_type field.
type StreamType uint8

const (
	StreamTypeVideo    StreamType = 1
	StreamTypeAudio    StreamType = 2
	StreamTypeImage    StreamType = 3
	StreamTypeDocument StreamType = 4
	StreamTypeBinary   StreamType = 5
	StreamTypeModel    StreamType = 6
)

// StreamTypeByName maps the session-query string spelling of stream_type.
var StreamTypeByName = map[string]StreamType{
	"video":    StreamTypeVideo,
	"audio":    StreamTypeAudio,
	"image":    StreamTypeImage,
	"document": StreamTypeDocument,
	"binary":   StreamTypeBinary,
	"model":    StreamTypeModel,
}

// CensorType is the severity of administrative action taken against a claim.
type CensorType uint8

const (
	CensorNone     CensorType = 0
	CensorFiltered CensorType = 1
	CensorBlocked  CensorType = 2
)

// BinaryDocument is the indexer's native representation of a claim, as
// produced by the blockchain indexer and consumed by IndexWriter.
type BinaryDocument struct {
	ClaimHash            ID
	ChannelHash          *ID
	RepostedClaimHash    *ID
	CensoringChannelHash *ID
	TxoHash              [36]byte

	Signature       []byte
	SignatureDigest []byte
	SignatureValid  bool
	PublicKeyBytes  []byte
	PublicKeyHash   []byte

	ClaimType  ClaimType
	StreamType StreamType

	ClaimName    string
	Normalized   string
	ShortURL     string
	CanonicalURL string

	Height             uint32
	CreationHeight     uint32
	ActivationHeight   uint32
	ExpirationHeight   uint32
	TxPosition         uint32
	Timestamp          uint32
	CreationTimestamp  uint32
	ReleaseTime        uint32
	LastTakeOverHeight uint32
	ChannelJoin        uint32

	Amount          uint64
	EffectiveAmount uint64
	SupportAmount   uint64
	FeeAmount       uint64 // integer millis of the user's currency unit
	FeeCurrency     string

	TrendingGroup  int32
	TrendingMixed  float32
	TrendingLocal  int32
	TrendingGlobal int32
	Reposted       uint32

	ClaimsInChannel uint32

	Title       string
	Author      string
	Description string
	MediaType   string
	Tags        []string
	Languages   []string
	Duration    uint32

	IsControlling bool
	CensorType    CensorType
}

// IndexedDocument is the hex string-keyed shape stored in the search
// backend. JSON tags are the field names referenced throughout §3 and §4.2.
type IndexedDocument struct {
	ClaimID              string  `json:"claim_id"`
	ChannelID            *string `json:"channel_id"`
	RepostedClaimID      *string `json:"reposted_claim_id"`
	CensoringChannelHash *string `json:"censoring_channel_hash"`

	TxID   string `json:"tx_id"`
	TxNout uint32 `json:"tx_nout"`

	Signature       *string `json:"signature"`
	SignatureDigest *string `json:"signature_digest"`
	SignatureValid  bool    `json:"signature_valid"`
	PublicKeyBytes  *string `json:"public_key_bytes"`
	PublicKeyHash   *string `json:"public_key_hash"`

	ClaimType  ClaimType  `json:"claim_type"`
	StreamType StreamType `json:"stream_type"`

	ClaimName    string `json:"claim_name"`
	Normalized   string `json:"normalized"`
	ShortURL     string `json:"short_url"`
	CanonicalURL string `json:"canonical_url"`

	Height             uint32 `json:"height"`
	CreationHeight     uint32 `json:"creation_height"`
	ActivationHeight   uint32 `json:"activation_height"`
	ExpirationHeight   uint32 `json:"expiration_height"`
	TxPosition         uint32 `json:"tx_position"`
	Timestamp          uint32 `json:"timestamp"`
	CreationTimestamp  uint32 `json:"creation_timestamp"`
	ReleaseTime        uint32 `json:"release_time"`
	LastTakeOverHeight uint32 `json:"last_take_over_height"`
	ChannelJoin        uint32 `json:"channel_join"`

	Amount          uint64 `json:"amount"`
	EffectiveAmount uint64 `json:"effective_amount"`
	SupportAmount   uint64 `json:"support_amount"`
	FeeAmount       uint64 `json:"fee_amount"`
	FeeCurrency     string `json:"fee_currency"`

	TrendingGroup  int32   `json:"trending_group"`
	TrendingMixed  float32 `json:"trending_mixed"`
	TrendingLocal  int32   `json:"trending_local"`
	TrendingGlobal int32   `json:"trending_global"`
	Reposted       uint32  `json:"reposted"`

	ClaimsInChannel uint32 `json:"claims_in_channel"`

	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	MediaType   string   `json:"media_type"`
	Tags        []string `json:"tags"`
	Languages   []string `json:"languages"`
	Duration    uint32   `json:"duration"`

	IsControlling bool       `json:"is_controlling"`
	CensorType    CensorType `json:"censor_type"`
}
