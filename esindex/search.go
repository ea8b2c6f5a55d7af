package esindex

import (
	"context"
	"encoding/json"

	"github.com/olivere/elastic/v7"

	"github.com/toole-brendan/claimsearch/claim"
	"github.com/toole-brendan/claimsearch/claimquery"
)

// Search runs a compiled Query against the claims index and returns the
// matching documents along with the total hit count. A claims index that
// does not exist yet (the backend answers not-found) is reported as zero
// results rather than an error, mirroring the NotFoundError
// handling of the system this search path is modeled on.
func (c *Client) Search(ctx context.Context, q *claimquery.Query) ([]*claim.IndexedDocument, int64, error) {
	source := translateQuery(q)
	result, err := c.ES.Search().Index(c.Index).SearchSource(source).Do(ctx)
	if elastic.IsNotFound(err) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	docs, err := flattenHits(result.Hits.Hits)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if result.Hits.TotalHits != nil {
		total = result.Hits.TotalHits.Value
	}
	return docs, total, nil
}

// flattenHits decodes a page of search hits into IndexedDocuments. A
// collapsed result's top-level hits carry no usable _source of their own;
// their inner_hits groups hold the real per-channel page, so those are
// recursively flattened in their place instead (§4.1, §4.2 collapse).
func flattenHits(hits []*elastic.SearchHit) ([]*claim.IndexedDocument, error) {
	var docs []*claim.IndexedDocument
	var innerHits []*elastic.SearchHit
	for _, hit := range hits {
		if len(hit.InnerHits) > 0 {
			for _, ih := range hit.InnerHits {
				innerHits = append(innerHits, ih.Hits.Hits...)
			}
			continue
		}
		var doc claim.IndexedDocument
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	if len(innerHits) > 0 {
		return flattenHits(innerHits)
	}
	return docs, nil
}

// GetMany multi-gets claims by id, excluding description and title from
// the response the same way Search does (§4.1). Missing ids are silently
// dropped rather than erroring, matching the `found` filter of the system
// this call is modeled on.
func (c *Client) GetMany(ctx context.Context, claimIDs []string) ([]*claim.IndexedDocument, error) {
	if len(claimIDs) == 0 {
		return nil, nil
	}
	fsc := elastic.NewFetchSourceContext(true).Exclude("description", "title")
	mget := c.ES.MultiGet()
	for _, id := range claimIDs {
		mget = mget.Add(elastic.NewMultiGetItem().
			Index(c.Index).
			Id(id).
			FetchSourceContext(fsc))
	}
	resp, err := mget.Do(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]*claim.IndexedDocument, 0, len(claimIDs))
	for _, d := range resp.Docs {
		if !d.Found {
			continue
		}
		var doc claim.IndexedDocument
		if err := json.Unmarshal(d.Source, &doc); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, nil
}
