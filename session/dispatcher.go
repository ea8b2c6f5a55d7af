package session

import (
	"context"

	"github.com/toole-brendan/claimsearch/claim"
	"github.com/toole-brendan/claimsearch/claimquery"
	"github.com/toole-brendan/claimsearch/resolve"
)

// defaultPageSize is the page size SearchAhead assumes when a search
// doesn't set an explicit Limit, matching Elasticsearch's own default
// result size when a query carries no explicit "size".
const defaultPageSize = 10

// backend is the subset of esindex.Client the Dispatcher's search path
// depends on, narrowed for testing against a fake.
type backend interface {
	Search(ctx context.Context, q *claimquery.Query) ([]*claim.IndexedDocument, int64, error)
}

// Dispatcher is the session-query entry point: it selects resolve vs
// search, runs censorship, and expands references (§4.6).
type Dispatcher struct {
	resolver *resolve.Resolver
	backend  backend
}

// NewDispatcher builds a Dispatcher over the given resolver and backend.
func NewDispatcher(resolver *resolve.Resolver, client backend) *Dispatcher {
	return &Dispatcher{resolver: resolver, backend: client}
}

// Resolve resolves each URL in order. A censored result is replaced with
// a CensoredError carrying the responsible channel hash; other
// resolution failures are carried per-URL, never aborting the batch
// (§7 "per-URL errors are values, not exceptions").
func (d *Dispatcher) Resolve(ctx context.Context, urls ...string) (*Outputs, error) {
	censor := NewCensor(Resolve)
	results := make([]ResolveResult, len(urls))
	docs := make([]*claim.IndexedDocument, len(urls))

	for i, u := range urls {
		doc, err := d.resolver.ResolveURL(ctx, u)
		if err != nil {
			results[i] = ResolveResult{Err: err}
			continue
		}
		docs[i] = doc
	}

	for i, doc := range docs {
		if doc == nil {
			continue
		}
		if censor.Censor(doc) {
			results[i] = ResolveResult{Err: &CensoredError{URL: urls[i], ChannelHash: *doc.CensoringChannelHash}}
			continue
		}
		results[i] = ResolveResult{Doc: doc}
	}

	totalReferenced := make([]*claim.IndexedDocument, 0, len(docs))
	for _, doc := range docs {
		if doc != nil {
			totalReferenced = append(totalReferenced, doc)
		}
	}

	refs, err := d.referencedRows(ctx, totalReferenced)
	if err != nil {
		return nil, err
	}
	return &Outputs{Results: results, References: refs, Censor: censor}, nil
}

// Search compiles opts, issues the search, and runs Censor over the
// hits. If anything was censored, the same predicate is re-run with
// censor_type=0 to recover the pre-censorship view for reference
// expansion and telemetry — the returned Results only ever carry the
// censored (filtered) page (§4.6).
func (d *Dispatcher) Search(ctx context.Context, opts claimquery.Options) (*Outputs, error) {
	hits, total, err := d.backend.Search(ctx, claimquery.Compile(opts))
	if err != nil {
		return nil, err
	}

	if opts.LimitClaimsPerChannel != nil {
		pageSize := defaultPageSize
		if opts.Limit != nil {
			pageSize = *opts.Limit
		}
		hits = claimquery.SearchAhead(hits, pageSize, *opts.LimitClaimsPerChannel)
		if len(hits) > pageSize {
			hits = hits[:pageSize]
		}
	}

	censor := NewCensor(Search)
	kept := censor.Apply(hits)

	referenced := append([]*claim.IndexedDocument{}, kept...)
	if censor.Censored() {
		uncensoredOpts := opts
		uncensoredOpts.CensorType = "0"
		rehits, _, err := d.backend.Search(ctx, claimquery.Compile(uncensoredOpts))
		if err != nil {
			return nil, err
		}
		referenced = append(referenced, rehits...)
	}

	refs, err := d.referencedRows(ctx, referenced)
	if err != nil {
		return nil, err
	}

	offset := 0
	if opts.Offset != nil {
		offset = *opts.Offset
	}
	results := make([]ResolveResult, len(kept))
	for i, doc := range kept {
		results[i] = ResolveResult{Doc: doc}
	}
	return &Outputs{Results: results, References: refs, Offset: offset, Total: total, Censor: censor}, nil
}

// referencedRows collects the reposted claims, authoring channels, and
// censoring channels referenced by docs, and fetches them via the
// resolver's cache-backed GetMany. Channels are returned before
// reposts: client-side inflation depends on that order (§4.6).
func (d *Dispatcher) referencedRows(ctx context.Context, docs []*claim.IndexedDocument) ([]*claim.IndexedDocument, error) {
	repostSet := make(map[string]struct{})
	channelSet := make(map[string]struct{})
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if doc.RepostedClaimID != nil && *doc.RepostedClaimID != "" {
			repostSet[*doc.RepostedClaimID] = struct{}{}
		}
		if doc.ChannelID != nil && *doc.ChannelID != "" {
			channelSet[*doc.ChannelID] = struct{}{}
		}
		if doc.CensoringChannelHash != nil && *doc.CensoringChannelHash != "" {
			channelSet[*doc.CensoringChannelHash] = struct{}{}
		}
	}

	var repostedDocs []*claim.IndexedDocument
	if len(repostSet) > 0 {
		var err error
		repostedDocs, err = d.resolver.GetMany(ctx, setKeys(repostSet))
		if err != nil {
			return nil, err
		}
		for _, doc := range repostedDocs {
			if doc.ChannelID != nil && *doc.ChannelID != "" {
				channelSet[*doc.ChannelID] = struct{}{}
			}
		}
	}

	var channelDocs []*claim.IndexedDocument
	if len(channelSet) > 0 {
		var err error
		channelDocs, err = d.resolver.GetMany(ctx, setKeys(channelSet))
		if err != nil {
			return nil, err
		}
	}

	return append(channelDocs, repostedDocs...), nil
}

func setKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
