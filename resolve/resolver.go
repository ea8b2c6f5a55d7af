package resolve

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/toole-brendan/claimsearch/claim"
	"github.com/toole-brendan/claimsearch/claimquery"
)

// cacheCapacity is the size of each of the Resolver's two LRU caches,
// per §4.5.
const cacheCapacity = 65536

// Backend is the subset of esindex.Client the Resolver depends on. It is
// an interface, rather than a concrete *esindex.Client, so the state
// machine can be exercised against a fake in tests without a live
// Elasticsearch cluster, and so session.Dispatcher can share the same
// backend value with its own search path.
type Backend interface {
	Search(ctx context.Context, q *claimquery.Query) ([]*claim.IndexedDocument, int64, error)
	GetMany(ctx context.Context, claimIDs []string) ([]*claim.IndexedDocument, error)
}

// Resolver maps URLs to claims, caching channel-id lookups and resolved
// stream documents across calls (§4.5).
type Resolver struct {
	client       Backend
	channelCache *lru.Cache[string, string]
	searchCache  *lru.Cache[string, *claim.IndexedDocument]
}

// NewResolver builds a Resolver over the given backend.
func NewResolver(client Backend) *Resolver {
	channelCache, err := lru.New[string, string](cacheCapacity)
	if err != nil {
		panic(err) // only fails for a non-positive capacity, which cacheCapacity never is
	}
	searchCache, err := lru.New[string, *claim.IndexedDocument](cacheCapacity)
	if err != nil {
		panic(err)
	}
	return &Resolver{client: client, channelCache: channelCache, searchCache: searchCache}
}

// ClearCaches purges both LRUs. Called after IndexWriter.SyncQueue (§4.3)
// and after a censorship update becomes visible (§4.4), so neither cache
// ever serves a result made stale by those writes.
func (r *Resolver) ClearCaches() {
	r.channelCache.Purge()
	r.searchCache.Purge()
}

// ResolveChannelID resolves a URL's channel segment to a claim id,
// returning "" with no error if the URL has no channel segment, per
// §4.5 step 2.
func (r *Resolver) ResolveChannelID(ctx context.Context, u *URL) (string, error) {
	if !u.HasChannel {
		return "", nil
	}
	key := "cid:" + u.Channel.String()
	if id, ok := r.channelCache.Get(key); ok {
		return id, nil
	}

	if len(u.Channel.ClaimID) == 40 {
		r.channelCache.Add(key, u.Channel.ClaimID)
		return u.Channel.ClaimID, nil
	}

	opts := u.Channel.toOptions()
	if u.Channel.isNameOnly() {
		trueVal := true
		opts.IsControlling = &trueVal
	} else {
		opts.OrderBy = []string{"^creation_height"}
	}
	one := 1
	opts.Limit = &one

	hits, _, err := r.client.Search(ctx, claimquery.Compile(opts))
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return "", &ChannelNotFoundError{URL: u.Channel.String()}
	}

	channelID := hits[0].ClaimID
	r.channelCache.Add(key, channelID)
	return channelID, nil
}

// ResolveStream resolves a URL's stream segment to a claim, returning nil
// with no error if the URL has no stream segment, per §4.5 step 3.
// channelErr is the error (if any) ResolveChannelID produced for this
// URL; when the URL names a channel that failed to resolve, that error
// propagates instead of attempting the stream lookup.
func (r *Resolver) ResolveStream(ctx context.Context, u *URL, channelID string, channelErr error) (*claim.IndexedDocument, error) {
	if !u.HasStream {
		return nil, nil
	}
	if u.HasChannel && channelErr != nil {
		return nil, channelErr
	}

	if len(u.Stream.ClaimID) == 40 {
		docs, err := r.GetMany(ctx, []string{u.Stream.ClaimID})
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, &StreamNotFoundError{URL: u.Stream.String()}
		}
		return docs[0], nil
	}

	key := channelID + u.Stream.String()
	if doc, ok := r.searchCache.Get(key); ok {
		return doc, nil
	}

	opts := u.Stream.toOptions()
	if channelID != "" {
		if u.Stream.isNameOnly() {
			opts.OrderBy = []string{"effective_amount", "^height"}
		} else {
			opts.OrderBy = []string{"^channel_join"}
		}
		opts.ChannelID = channelID
		trueVal := true
		opts.SignatureValid = &trueVal
	} else if u.Stream.isNameOnly() {
		trueVal := true
		opts.IsControlling = &trueVal
	}
	one := 1
	opts.Limit = &one

	hits, _, err := r.client.Search(ctx, claimquery.Compile(opts))
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, &StreamNotFoundError{URL: u.Stream.String()}
	}

	doc := hits[0]
	r.searchCache.Add(key, doc)
	return doc, nil
}

// ResolveURL runs the full §4.5 algorithm: parse, resolve the channel
// segment, resolve the stream segment, then combine.
func (r *Resolver) ResolveURL(ctx context.Context, raw string) (*claim.IndexedDocument, error) {
	u, err := Parse(raw)
	if err != nil {
		return nil, &URLParseError{Raw: raw, Err: err}
	}

	channelID, channelErr := r.ResolveChannelID(ctx, u)
	stream, streamErr := r.ResolveStream(ctx, u, channelID, channelErr)

	if u.HasStream {
		if streamErr != nil {
			return nil, streamErr
		}
		return stream, nil
	}

	if channelErr != nil {
		return nil, channelErr
	}
	docs, err := r.GetMany(ctx, []string{channelID})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, &ChannelNotFoundError{URL: raw}
	}
	return docs[0], nil
}

// GetMany fetches claims by id, short-circuiting through the search
// cache before falling back to a backend multi-get for the misses
// (§4.5). Results preserve the order of claimIDs; ids not found are
// omitted.
func (r *Resolver) GetMany(ctx context.Context, claimIDs []string) ([]*claim.IndexedDocument, error) {
	if len(claimIDs) == 0 {
		return nil, nil
	}

	var missing []string
	for _, id := range claimIDs {
		if _, ok := r.searchCache.Get(id); !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		docs, err := r.client.GetMany(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			r.searchCache.Add(doc.ClaimID, doc)
		}
	}

	out := make([]*claim.IndexedDocument, 0, len(claimIDs))
	for _, id := range claimIDs {
		if doc, ok := r.searchCache.Get(id); ok {
			out = append(out, doc)
		}
	}
	return out, nil
}
