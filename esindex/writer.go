package esindex

import (
	"context"
	"sync"

	"github.com/olivere/elastic/v7"

	"github.com/toole-brendan/claimsearch/claim"
)

// WriteOp is a single entry in a sync queue: either an upsert of doc, or
// (when Delete is true) a deletion of the claim named by ClaimID.
type WriteOp struct {
	Delete  bool
	ClaimID string
	Doc     *claim.IndexedDocument
}

// IndexWriter drives the bulk write path against a claims index: it turns
// a queue of upserts and deletes into a single bulk request, refreshing
// before and after so a sync's writes are immediately visible, and flushing
// so they are durable on disk (§4.3).
type IndexWriter struct {
	client *Client

	mu           sync.Mutex
	afterFlush   []func()
}

// NewIndexWriter binds an IndexWriter to the given backend client.
func NewIndexWriter(client *Client) *IndexWriter {
	return &IndexWriter{client: client}
}

// OnFlush registers a callback run after every successful SyncQueue call,
// used by the resolver to clear its LRU caches once new documents are
// visible (§4.3, §7).
func (w *IndexWriter) OnFlush(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.afterFlush = append(w.afterFlush, fn)
}

// SyncQueue drains ops into a single bulk request against the index,
// refreshing before the bulk call (so the bulk sees a consistent view) and
// refreshing plus flushing after (so the writes are visible and durable),
// per §4.3's "flush protocol" invariant. A write failure for a single item
// is logged and does not abort the remaining items in the bulk.
func (w *IndexWriter) SyncQueue(ctx context.Context, ops []WriteOp) error {
	log.Infof("writing to index from a queue with %d elements", len(ops))
	if _, err := w.client.ES.Refresh(w.client.Index).Do(ctx); err != nil {
		return err
	}

	bulk := w.client.ES.Bulk().Index(w.client.Index)
	for _, op := range ops {
		if op.Delete {
			bulk = bulk.Add(elastic.NewBulkDeleteRequest().Id(op.ClaimID))
			continue
		}
		bulk = bulk.Add(elastic.NewBulkUpdateRequest().
			Id(op.Doc.ClaimID).
			Doc(op.Doc).
			DocAsUpsert(true))
	}

	if bulk.NumberOfActions() > 0 {
		resp, err := bulk.Do(ctx)
		if err != nil {
			return err
		}
		for _, item := range resp.Failed() {
			log.Warnf("indexing failed for an item: %s: %s", item.Id, item.Error)
		}
	}

	if _, err := w.client.ES.Refresh(w.client.Index).Do(ctx); err != nil {
		return err
	}
	if _, err := w.client.ES.Flush().Index(w.client.Index).Do(ctx); err != nil {
		return err
	}
	log.Infof("indexing done, %d elements written", len(ops))

	w.mu.Lock()
	callbacks := append([]func(){}, w.afterFlush...)
	w.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
	return nil
}

// DeleteAboveHeight removes every claim indexed at a height greater than
// height, used to unwind documents written by a blockchain reorg (§4.3).
func (w *IndexWriter) DeleteAboveHeight(ctx context.Context, height uint32) error {
	q := elastic.NewRangeQuery("height").Gt(height)
	if _, err := w.client.ES.DeleteByQuery(w.client.Index).Query(q).Do(ctx); err != nil {
		return err
	}
	_, err := w.client.ES.Refresh(w.client.Index).Do(ctx)
	return err
}
