package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toole-brendan/claimsearch/claim"
)

func ptr(s string) *string { return &s }

func TestCensorSearchOnlyHidesBlocked(t *testing.T) {
	c := NewCensor(Search)
	filtered := &claim.IndexedDocument{ClaimID: "a", CensorType: claim.CensorFiltered, CensoringChannelHash: ptr("ch1")}
	blocked := &claim.IndexedDocument{ClaimID: "b", CensorType: claim.CensorBlocked, CensoringChannelHash: ptr("ch2")}

	kept := c.Apply([]*claim.IndexedDocument{filtered, blocked})
	require.Len(t, kept, 1)
	require.Equal(t, "a", kept[0].ClaimID)
	require.True(t, c.Censored())
	require.Equal(t, map[string]int{"ch2": 1}, c.Summary())
}

func TestCensorResolveHidesFilteredAndBlocked(t *testing.T) {
	c := NewCensor(Resolve)
	filtered := &claim.IndexedDocument{ClaimID: "a", CensorType: claim.CensorFiltered, CensoringChannelHash: ptr("ch1")}

	require.True(t, c.Censor(filtered))
	require.Equal(t, map[string]int{"ch1": 1}, c.Summary())
}

func TestCensorIgnoresDocsWithoutChannelHash(t *testing.T) {
	c := NewCensor(Resolve)
	doc := &claim.IndexedDocument{ClaimID: "a", CensorType: claim.CensorBlocked}
	require.False(t, c.Censor(doc))
	require.False(t, c.Censored())
}

func TestCensorUncensoredDocPasses(t *testing.T) {
	c := NewCensor(Search)
	doc := &claim.IndexedDocument{ClaimID: "a", CensorType: claim.CensorNone}
	kept := c.Apply([]*claim.IndexedDocument{doc})
	require.Len(t, kept, 1)
	require.False(t, c.Censored())
}
