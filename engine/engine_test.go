package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toole-brendan/claimsearch/claim"
	"github.com/toole-brendan/claimsearch/claimquery"
	"github.com/toole-brendan/claimsearch/resolve"
	"github.com/toole-brendan/claimsearch/session"
)

// fakeBackend implements resolve.Backend directly, letting Query's
// dispatch be tested without a live Elasticsearch cluster.
type fakeBackend struct {
	byID    map[string]*claim.IndexedDocument
	results []*claim.IndexedDocument
}

func (f *fakeBackend) Search(ctx context.Context, q *claimquery.Query) ([]*claim.IndexedDocument, int64, error) {
	return f.results, int64(len(f.results)), nil
}

func (f *fakeBackend) GetMany(ctx context.Context, claimIDs []string) ([]*claim.IndexedDocument, error) {
	out := make([]*claim.IndexedDocument, 0, len(claimIDs))
	for _, id := range claimIDs {
		if doc, ok := f.byID[id]; ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

func newTestEngine(backend *fakeBackend) *Engine {
	resolver := resolve.NewResolver(backend)
	return &Engine{
		cfg:        DefaultConfig(),
		resolver:   resolver,
		dispatcher: session.NewDispatcher(resolver, backend),
	}
}

func TestQueryDispatchesToSearch(t *testing.T) {
	doc := &claim.IndexedDocument{ClaimID: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", CensorType: claim.CensorNone}
	e := newTestEngine(&fakeBackend{byID: map[string]*claim.IndexedDocument{}, results: []*claim.IndexedDocument{doc}})

	out, err := e.Query(context.Background(), QuerySearch, nil, claimquery.Options{Text: "music"})
	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	require.Equal(t, doc.ClaimID, out.Results[0].Doc.ClaimID)
}

func TestQueryDispatchesToResolve(t *testing.T) {
	claimID := "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	doc := &claim.IndexedDocument{ClaimID: claimID, CensorType: claim.CensorNone}
	backend := &fakeBackend{byID: map[string]*claim.IndexedDocument{claimID: doc}}
	e := newTestEngine(backend)

	out, err := e.Query(context.Background(), QueryResolve, []string{"#" + claimID}, claimquery.Options{})
	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	require.Equal(t, claimID, out.Results[0].Doc.ClaimID)
}

func TestQueryRejectsUnknownName(t *testing.T) {
	e := newTestEngine(&fakeBackend{byID: map[string]*claim.IndexedDocument{}})
	_, err := e.Query(context.Background(), QueryName("bogus"), nil, claimquery.Options{})
	require.Error(t, err)
}
