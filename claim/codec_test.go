package claim

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func genID(t *rapid.T, label string) ID {
	var id ID
	b := rapid.SliceOfN(rapid.Byte(), 20, 20).Draw(t, label)
	copy(id[:], b)
	return id
}

func genOptionalID(t *rapid.T, label string) *ID {
	if !rapid.Bool().Draw(t, label+"_present") {
		return nil
	}
	id := genID(t, label)
	return &id
}

func genBytes(t *rapid.T, label string) []byte {
	if !rapid.Bool().Draw(t, label+"_present") {
		return nil
	}
	return rapid.SliceOfN(rapid.Byte(), 1, 32).Draw(t, label)
}

func genDoc(t *rapid.T) *BinaryDocument {
	var txo [36]byte
	copy(txo[:], rapid.SliceOfN(rapid.Byte(), 36, 36).Draw(t, "txo"))

	return &BinaryDocument{
		ClaimHash:            genID(t, "claim_hash"),
		ChannelHash:          genOptionalID(t, "channel_hash"),
		RepostedClaimHash:    genOptionalID(t, "reposted_claim_hash"),
		CensoringChannelHash: genOptionalID(t, "censoring_channel_hash"),
		TxoHash:              txo,

		Signature:       genBytes(t, "signature"),
		SignatureDigest: genBytes(t, "signature_digest"),
		SignatureValid:  rapid.Bool().Draw(t, "signature_valid"),
		PublicKeyBytes:  genBytes(t, "public_key_bytes"),
		PublicKeyHash:   genBytes(t, "public_key_hash"),

		ClaimType:  ClaimType(rapid.IntRange(0, 4).Draw(t, "claim_type")),
		StreamType: StreamType(rapid.IntRange(0, 6).Draw(t, "stream_type")),

		ClaimName:    rapid.String().Draw(t, "claim_name"),
		Normalized:   rapid.String().Draw(t, "normalized"),
		ShortURL:     rapid.String().Draw(t, "short_url"),
		CanonicalURL: rapid.String().Draw(t, "canonical_url"),

		Height:             rapid.Uint32().Draw(t, "height"),
		CreationHeight:     rapid.Uint32().Draw(t, "creation_height"),
		ActivationHeight:   rapid.Uint32().Draw(t, "activation_height"),
		ExpirationHeight:   rapid.Uint32().Draw(t, "expiration_height"),
		TxPosition:         rapid.Uint32().Draw(t, "tx_position"),
		Timestamp:          rapid.Uint32().Draw(t, "timestamp"),
		CreationTimestamp:  rapid.Uint32().Draw(t, "creation_timestamp"),
		ReleaseTime:        rapid.Uint32().Draw(t, "release_time"),
		LastTakeOverHeight: rapid.Uint32().Draw(t, "last_take_over_height"),
		ChannelJoin:        rapid.Uint32().Draw(t, "channel_join"),

		Amount:          rapid.Uint64().Draw(t, "amount"),
		EffectiveAmount: rapid.Uint64().Draw(t, "effective_amount"),
		SupportAmount:   rapid.Uint64().Draw(t, "support_amount"),
		FeeAmount:       rapid.Uint64().Draw(t, "fee_amount"),
		FeeCurrency:     rapid.String().Draw(t, "fee_currency"),

		TrendingGroup:  rapid.Int32().Draw(t, "trending_group"),
		TrendingMixed:  float32(rapid.Float64Range(-1000, 1000).Draw(t, "trending_mixed")),
		TrendingLocal:  rapid.Int32().Draw(t, "trending_local"),
		TrendingGlobal: rapid.Int32().Draw(t, "trending_global"),
		Reposted:       rapid.Uint32().Draw(t, "reposted"),

		ClaimsInChannel: rapid.Uint32().Draw(t, "claims_in_channel"),

		Title:       rapid.String().Draw(t, "title"),
		Author:      rapid.String().Draw(t, "author"),
		Description: rapid.String().Draw(t, "description"),
		MediaType:   rapid.String().Draw(t, "media_type"),
		Tags:        rapid.SliceOf(rapid.String()).Draw(t, "tags"),
		Languages:   rapid.SliceOf(rapid.String()).Draw(t, "languages"),
		Duration:    rapid.Uint32().Draw(t, "duration"),

		IsControlling: rapid.Bool().Draw(t, "is_controlling"),
		CensorType:    CensorType(rapid.IntRange(0, 2).Draw(t, "censor_type")),
	}
}

// TestRoundTrip checks the §8 invariant: FromIndex(ToIndex(d)) == d on
// every field the codec touches.
func TestRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		doc := genDoc(t)
		indexed := ToIndex(doc)
		back, err := FromIndex(indexed)
		require.NoError(t, err)
		require.Equal(t, doc, back)
	})
}

func TestIDStringRoundTrip(t *testing.T) {
	var id ID
	for i := range id {
		id[i] = byte(i + 1)
	}
	s := id.String()
	back, err := IDFromHex(s)
	require.NoError(t, err)
	require.Equal(t, id, back)
}

func TestToIndexEmptyBytesCollapseToNil(t *testing.T) {
	doc := &BinaryDocument{
		Signature:       []byte{},
		SignatureDigest: nil,
		PublicKeyBytes:  []byte{},
	}
	out := ToIndex(doc)
	require.Nil(t, out.Signature)
	require.Nil(t, out.SignatureDigest)
	require.Nil(t, out.PublicKeyBytes)
}

func TestSplitJoinTxoHash(t *testing.T) {
	var txo [36]byte
	for i := range txo {
		txo[i] = byte(i)
	}
	txID, nout := splitTxoHash(txo)
	back, err := joinTxoHash(txID, nout)
	require.NoError(t, err)
	require.Equal(t, txo, back)
}
