package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseChannelAndStream(t *testing.T) {
	u, err := Parse("@alice/song")
	require.NoError(t, err)
	require.True(t, u.HasChannel)
	require.Equal(t, "alice", u.Channel.Name)
	require.True(t, u.HasStream)
	require.Equal(t, "song", u.Stream.Name)
}

func TestParseChannelOnly(t *testing.T) {
	u, err := Parse("@alice")
	require.NoError(t, err)
	require.True(t, u.HasChannel)
	require.False(t, u.HasStream)
}

func TestParseStreamOnly(t *testing.T) {
	u, err := Parse("song")
	require.NoError(t, err)
	require.False(t, u.HasChannel)
	require.True(t, u.HasStream)
	require.Equal(t, "song", u.Stream.Name)
}

func TestParseWithClaimIDQualifier(t *testing.T) {
	u, err := Parse("@alice#" + claimIDFixture + "/song#" + claimIDFixture2)
	require.NoError(t, err)
	require.Equal(t, claimIDFixture, u.Channel.ClaimID)
	require.Equal(t, claimIDFixture2, u.Stream.ClaimID)
}

func TestParseWithSequenceAndAmountOrder(t *testing.T) {
	u, err := Parse("@alice/song:3")
	require.NoError(t, err)
	require.NotNil(t, u.Stream.Sequence)
	require.Equal(t, 3, *u.Stream.Sequence)

	u2, err := Parse("song$2")
	require.NoError(t, err)
	require.NotNil(t, u2.Stream.AmountOrder)
	require.Equal(t, 2, *u2.Stream.AmountOrder)
}

func TestParseLbryScheme(t *testing.T) {
	u, err := Parse("lbry://@alice")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Channel.Name)
}

func TestParseRejectsEmptyInput(t *testing.T) {
	_, err := Parse("")
	require.Error(t, err)
}

func TestParseRejectsEmptyChannelName(t *testing.T) {
	_, err := Parse("@/song")
	require.Error(t, err)
}

func TestParseRejectsEmptyStreamName(t *testing.T) {
	_, err := Parse("@alice/")
	require.Error(t, err)
}

func TestParseRejectsMalformedSequence(t *testing.T) {
	_, err := Parse("song:notanumber")
	require.Error(t, err)
}

func TestSegmentStringRoundTrips(t *testing.T) {
	n := 3
	seg := Segment{Name: "song", Sequence: &n}
	require.Equal(t, "song:3", seg.String())

	seg2 := Segment{Name: "song", ClaimID: claimIDFixture}
	require.Equal(t, "song#"+claimIDFixture, seg2.String())
}

const (
	claimIDFixture  = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	claimIDFixture2 = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)
