// Package esindex is the backend client: it owns the Elasticsearch index
// bootstrap, the write path (IndexWriter) and the censorship update path
// (CensorshipApplier) described in §4.3, §4.4 and §6.
package esindex

import (
	"context"
	"time"

	"github.com/olivere/elastic/v7"
)

// indexSettings mirrors the analyzer and shard configuration of §6: a
// whitespace tokenizer with lowercase and porter stemming, a single shard,
// no replicas, and refresh disabled so bulk writes aren't paying for
// continuous segment refresh during a sync.
var indexSettings = map[string]interface{}{
	"settings": map[string]interface{}{
		"analysis": map[string]interface{}{
			"analyzer": map[string]interface{}{
				"default": map[string]interface{}{
					"tokenizer": "whitespace",
					"filter":    []string{"lowercase", "porter_stem"},
				},
			},
		},
		"index": map[string]interface{}{
			"refresh_interval":  -1,
			"number_of_shards":  1,
			"number_of_replicas": 0,
		},
	},
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"claim_id": map[string]interface{}{
				"type": "text",
				"fields": map[string]interface{}{
					"keyword": map[string]interface{}{
						"type":         "keyword",
						"ignore_above": 256,
					},
				},
				"index_prefixes": map[string]interface{}{
					"min_chars": 1,
					"max_chars": 10,
				},
			},
			"height":         map[string]interface{}{"type": "integer"},
			"claim_type":     map[string]interface{}{"type": "byte"},
			"censor_type":    map[string]interface{}{"type": "byte"},
			"trending_mixed": map[string]interface{}{"type": "float"},
		},
	},
}

// Client wraps an elastic.Client bound to a single claims index, mirroring
// the SearchIndex object of the system this package is modeled on.
type Client struct {
	ES    *elastic.Client
	Index string
}

// NewClient dials the given Elasticsearch URL, waits for the cluster to
// reach at least yellow health, and bootstraps the claims index if it does
// not already exist. It blocks, retrying once a second, until ctx is
// canceled or the cluster answers — matching the start() retry loop of the
// system this client is modeled on.
func NewClient(ctx context.Context, url, indexPrefix string) (*Client, error) {
	es, err := elastic.NewClient(elastic.SetURL(url), elastic.SetSniff(false))
	if err != nil {
		return nil, err
	}
	c := &Client{ES: es, Index: indexPrefix + "claims"}

	for {
		_, err := es.ClusterHealth().WaitForStatus("yellow").Do(ctx)
		if err == nil {
			break
		}
		log.Warnf("failed to connect to Elasticsearch, waiting for it: %v", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second):
		}
	}

	exists, err := es.IndexExists(c.Index).Do(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		if _, err := es.CreateIndex(c.Index).BodyJson(indexSettings).Do(ctx); err != nil {
			// A concurrent bootstrap racing us to create the index is not
			// an error, matching the Python client's ignore=400.
			if !elastic.IsStatusCode(err, 400) {
				return nil, err
			}
		}
	}
	return c, nil
}

// Close releases the underlying HTTP transport. The elastic client itself
// has no persistent connection to tear down, so this only exists to give
// callers a symmetric lifecycle with the rest of engine's components.
func (c *Client) Close() {
	c.ES.Stop()
}

// DeleteIndex drops the claims index, used by test setup and by the
// reindex-from-scratch tooling of the daemon.
func (c *Client) DeleteIndex(ctx context.Context) error {
	_, err := c.ES.DeleteIndex(c.Index).IgnoreUnavailable(true).Do(ctx)
	return err
}
