// Package engine wires the search backend, resolver, and session
// dispatcher together into the single long-lived object a daemon embeds,
// and exposes the session-query selector of §6 ("query_name ∈ {resolve,
// search}").
package engine

import (
	"context"
	"fmt"

	"github.com/toole-brendan/claimsearch/claimquery"
	"github.com/toole-brendan/claimsearch/esindex"
	"github.com/toole-brendan/claimsearch/resolve"
	"github.com/toole-brendan/claimsearch/session"
)

// Engine owns the backend connection and the resolve/search dispatch
// layer built on top of it. Start must run to completion before any
// other method is called; Stop releases the backend connection.
type Engine struct {
	cfg *Config

	client     *esindex.Client
	writer     *esindex.IndexWriter
	censorship *esindex.CensorshipApplier
	resolver   *resolve.Resolver
	dispatcher *session.Dispatcher
}

// New builds an Engine that has not yet connected to a backend. Call
// Start before using it.
func New(cfg *Config) *Engine {
	return &Engine{cfg: cfg}
}

// Start dials the backend and bootstraps the index, per §6. It blocks
// until the cluster reaches yellow health or ctx (bounded by
// cfg.StartupTimeout if the caller hasn't already set a deadline) is
// done; the wait-for-yellow retry loop itself lives in
// esindex.NewClient, so Start does not duplicate it here.
func (e *Engine) Start(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.StartupTimeout)
		defer cancel()
	}

	client, err := esindex.NewClient(ctx, e.cfg.ElasticSearchURL, e.cfg.IndexPrefix)
	if err != nil {
		return fmt.Errorf("engine: starting backend: %w", err)
	}

	writer := esindex.NewIndexWriter(client)
	resolver := resolve.NewResolver(client)
	writer.OnFlush(resolver.ClearCaches)

	e.client = client
	e.writer = writer
	e.censorship = esindex.NewCensorshipApplier(client)
	e.resolver = resolver
	e.dispatcher = session.NewDispatcher(resolver, client)
	return nil
}

// Stop releases the backend connection. Safe to call even if Start
// never succeeded.
func (e *Engine) Stop() {
	if e.client != nil {
		e.client.Close()
	}
}

// SyncQueue applies index writes in bulk requests of at most
// cfg.BatchSize ops each (one request for all ops when BatchSize is not
// positive), clearing the resolver's caches after each request (wired as
// an OnFlush callback so every caller gets this for free), per §4.3.
func (e *Engine) SyncQueue(ctx context.Context, ops []esindex.WriteOp) error {
	size := e.cfg.BatchSize
	if size <= 0 || size >= len(ops) {
		return e.writer.SyncQueue(ctx, ops)
	}
	for len(ops) > 0 {
		n := size
		if n > len(ops) {
			n = len(ops)
		}
		if err := e.writer.SyncQueue(ctx, ops[:n]); err != nil {
			return err
		}
		ops = ops[n:]
	}
	return nil
}

// DeleteAboveHeight rolls the index back to height, per §4.3 (chain
// reorg handling), then clears the resolver's caches.
func (e *Engine) DeleteAboveHeight(ctx context.Context, height uint32) error {
	if err := e.writer.DeleteAboveHeight(ctx, height); err != nil {
		return err
	}
	e.resolver.ClearCaches()
	return nil
}

// ApplyCensorship updates censor_type/censoring_channel_hash for the
// given block lists, per §4.4.
func (e *Engine) ApplyCensorship(ctx context.Context, blockedStreams, blockedChannels, filteredStreams, filteredChannels esindex.BlockList) error {
	if err := e.censorship.ApplyFilters(ctx, blockedStreams, blockedChannels, filteredStreams, filteredChannels); err != nil {
		return err
	}
	e.resolver.ClearCaches()
	return nil
}

// QueryName selects which of the two session-query entry points Query
// dispatches to, per §6.
type QueryName string

const (
	QueryResolve QueryName = "resolve"
	QuerySearch  QueryName = "search"
)

// Query is the session-query selector: query_name picks resolve vs
// search, and exactly one of urls/opts is meaningful for the chosen
// name. This is the single entry point a transport layer (RPC, HTTP)
// should call into.
func (e *Engine) Query(ctx context.Context, name QueryName, urls []string, opts claimquery.Options) (*session.Outputs, error) {
	switch name {
	case QueryResolve:
		return e.dispatcher.Resolve(ctx, urls...)
	case QuerySearch:
		return e.dispatcher.Search(ctx, opts)
	default:
		return nil, fmt.Errorf("engine: unknown query name %q", name)
	}
}
