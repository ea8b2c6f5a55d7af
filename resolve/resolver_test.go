package resolve

import (
	"context"
	"testing"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/stretchr/testify/require"

	"github.com/toole-brendan/claimsearch/claim"
	"github.com/toole-brendan/claimsearch/claimquery"
)

// fakeSearcher is a deterministic stand-in for esindex.Client, keyed by
// claim_id for GetMany and returning a fixed hit list for every Search
// call, so the Resolver's state machine can be exercised without a live
// Elasticsearch cluster.
type fakeSearcher struct {
	byID       map[string]*claim.IndexedDocument
	searchHits []*claim.IndexedDocument
	searchErr  error
	searches   int
}

func (f *fakeSearcher) Search(ctx context.Context, q *claimquery.Query) ([]*claim.IndexedDocument, int64, error) {
	f.searches++
	if f.searchErr != nil {
		return nil, 0, f.searchErr
	}
	return f.searchHits, int64(len(f.searchHits)), nil
}

func (f *fakeSearcher) GetMany(ctx context.Context, claimIDs []string) ([]*claim.IndexedDocument, error) {
	out := make([]*claim.IndexedDocument, 0, len(claimIDs))
	for _, id := range claimIDs {
		if doc, ok := f.byID[id]; ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

func newTestResolver(backend *fakeSearcher) *Resolver {
	channelCache, err := lru.New[string, string](cacheCapacity)
	if err != nil {
		panic(err)
	}
	searchCache, err := lru.New[string, *claim.IndexedDocument](cacheCapacity)
	if err != nil {
		panic(err)
	}
	return &Resolver{client: backend, channelCache: channelCache, searchCache: searchCache}
}

func TestResolveChannelOnlyByFullClaimID(t *testing.T) {
	backend := &fakeSearcher{}
	r := newTestResolver(backend)
	u, err := Parse("@alice#" + claimIDFixture)
	require.NoError(t, err)

	channelID, err := r.ResolveChannelID(context.Background(), u)
	require.NoError(t, err)
	require.Equal(t, claimIDFixture, channelID)
	require.Equal(t, 0, backend.searches)
}

func TestResolveChannelByNameIsControlling(t *testing.T) {
	backend := &fakeSearcher{searchHits: []*claim.IndexedDocument{{ClaimID: claimIDFixture}}}
	r := newTestResolver(backend)
	u, err := Parse("@alice")
	require.NoError(t, err)

	channelID, err := r.ResolveChannelID(context.Background(), u)
	require.NoError(t, err)
	require.Equal(t, claimIDFixture, channelID)

	cached, ok := r.channelCache.Get("cid:" + u.Channel.String())
	require.True(t, ok)
	require.Equal(t, claimIDFixture, cached)
}

func TestResolveChannelNotFound(t *testing.T) {
	backend := &fakeSearcher{}
	r := newTestResolver(backend)
	u, err := Parse("@alice")
	require.NoError(t, err)

	_, err = r.ResolveChannelID(context.Background(), u)
	require.Error(t, err)
	var notFound *ChannelNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestResolveStreamUnderChannelByName(t *testing.T) {
	streamDoc := &claim.IndexedDocument{ClaimID: claimIDFixture2}
	backend := &fakeSearcher{searchHits: []*claim.IndexedDocument{streamDoc}}
	r := newTestResolver(backend)
	u, err := Parse("@alice/song#" + claimIDFixture)
	require.NoError(t, err)
	u.Stream = Segment{Name: "song"}

	doc, err := r.ResolveStream(context.Background(), u, claimIDFixture, nil)
	require.NoError(t, err)
	require.Equal(t, claimIDFixture2, doc.ClaimID)
}

func TestResolveStreamPropagatesChannelError(t *testing.T) {
	backend := &fakeSearcher{}
	r := newTestResolver(backend)
	u, err := Parse("@alice/song")
	require.NoError(t, err)

	channelErr := &ChannelNotFoundError{URL: "@alice"}
	_, err = r.ResolveStream(context.Background(), u, "", channelErr)
	require.Equal(t, channelErr, err)
	require.Equal(t, 0, backend.searches)
}

func TestResolveURLChannelAndStream(t *testing.T) {
	channelDoc := &claim.IndexedDocument{ClaimID: claimIDFixture}
	streamDoc := &claim.IndexedDocument{ClaimID: claimIDFixture2, ChannelID: &channelDoc.ClaimID}
	backend := &fakeSearcher{byID: map[string]*claim.IndexedDocument{claimIDFixture: channelDoc}}

	r := newTestResolver(backend)
	// Channel resolves by name (one search), then stream resolves by name
	// under that channel (a second search) — simulate by swapping hits
	// between calls using a tiny wrapper.
	calls := 0
	wrapped := &sequencedSearcher{
		fakeSearcher: backend,
		perCall: [][]*claim.IndexedDocument{
			{channelDoc},
			{streamDoc},
		},
		callCount: &calls,
	}
	r.client = wrapped

	doc, err := r.ResolveURL(context.Background(), "@alice/song")
	require.NoError(t, err)
	require.Equal(t, claimIDFixture2, doc.ClaimID)
}

type sequencedSearcher struct {
	*fakeSearcher
	perCall   [][]*claim.IndexedDocument
	callCount *int
}

func (s *sequencedSearcher) Search(ctx context.Context, q *claimquery.Query) ([]*claim.IndexedDocument, int64, error) {
	idx := *s.callCount
	*s.callCount++
	if idx >= len(s.perCall) {
		return nil, 0, nil
	}
	hits := s.perCall[idx]
	return hits, int64(len(hits)), nil
}

func TestGetManyCachesAcrossCalls(t *testing.T) {
	doc := &claim.IndexedDocument{ClaimID: claimIDFixture}
	backend := &fakeSearcher{byID: map[string]*claim.IndexedDocument{claimIDFixture: doc}}
	r := newTestResolver(backend)

	docs, err := r.GetMany(context.Background(), []string{claimIDFixture})
	require.NoError(t, err)
	require.Len(t, docs, 1)

	backend.byID = nil // cache must serve the second call without hitting the backend
	docs, err = r.GetMany(context.Background(), []string{claimIDFixture})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, claimIDFixture, docs[0].ClaimID)
}

func TestClearCachesPurgesBoth(t *testing.T) {
	doc := &claim.IndexedDocument{ClaimID: claimIDFixture}
	backend := &fakeSearcher{byID: map[string]*claim.IndexedDocument{claimIDFixture: doc}}
	r := newTestResolver(backend)

	_, err := r.GetMany(context.Background(), []string{claimIDFixture})
	require.NoError(t, err)
	require.Equal(t, 1, r.searchCache.Len())
	r.channelCache.Add("cid:alice", claimIDFixture)
	require.Equal(t, 1, r.channelCache.Len())

	r.ClearCaches()
	require.Equal(t, 0, r.searchCache.Len())
	require.Equal(t, 0, r.channelCache.Len())
}
