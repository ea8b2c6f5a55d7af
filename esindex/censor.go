package esindex

import (
	"context"
	"fmt"

	"github.com/olivere/elastic/v7"

	"github.com/toole-brendan/claimsearch/claim"
)

// BlockList maps a blocked or filtered claim/channel hash to the hash of
// the channel whose moderation decision is responsible for it.
type BlockList map[claim.ID]claim.ID

// CensorshipApplier pushes administrative filter/block decisions into the
// index via update_by_query, per §4.4. censor_type is monotone: every
// update is gated on censor_type<N so a block can never be downgraded by a
// later filter pass.
type CensorshipApplier struct {
	client *Client
}

// NewCensorshipApplier binds a CensorshipApplier to the given backend client.
func NewCensorshipApplier(client *Client) *CensorshipApplier {
	return &CensorshipApplier{client: client}
}

// ApplyFilters applies filtered-then-blocked moderation decisions to the
// index, in that order, so that a blocked claim always ends up with
// censor_type 2 even if it also happens to appear in a filter list. Each
// call refreshes the index before the next, matching the ordering
// invariant of §4.4.
func (a *CensorshipApplier) ApplyFilters(ctx context.Context, blockedStreams, blockedChannels, filteredStreams, filteredChannels BlockList) error {
	steps := []struct {
		censorType claim.CensorType
		blockdict  BlockList
		channels   bool
	}{
		{claim.CensorFiltered, filteredStreams, false},
		{claim.CensorFiltered, filteredChannels, true},
		{claim.CensorBlocked, blockedStreams, false},
		{claim.CensorBlocked, blockedChannels, true},
	}
	for _, step := range steps {
		if len(step.blockdict) == 0 {
			continue
		}
		if err := a.runUpdate(ctx, step.censorType, step.blockdict, "claim_id"); err != nil {
			return err
		}
		if step.channels {
			if err := a.runUpdate(ctx, step.censorType, step.blockdict, "channel_id"); err != nil {
				return err
			}
		}
	}
	return nil
}

// runUpdate issues a single update_by_query call that raises censor_type
// to censorType for every document whose field matches a key in blockdict,
// stamping censoring_channel_hash with the corresponding value, then
// refreshes the index so the update is immediately visible to the next
// step.
func (a *CensorshipApplier) runUpdate(ctx context.Context, censorType claim.CensorType, blockdict BlockList, field string) error {
	ids := make([]interface{}, 0, len(blockdict))
	params := make(map[string]interface{}, len(blockdict))
	for k, v := range blockdict {
		key := k.String()
		ids = append(ids, key)
		params[key] = v.String()
	}

	query := elastic.NewBoolQuery().
		Must(elastic.NewTermsQuery(field+".keyword", ids...)).
		Must(elastic.NewRangeQuery("censor_type").Lt(int(censorType)))

	script := elastic.NewScript(fmt.Sprintf(
		"ctx._source.censor_type=%d; ctx._source.censoring_channel_hash=params[ctx._source.%s]",
		censorType, field,
	)).Params(params)

	if _, err := a.client.ES.UpdateByQuery(a.client.Index).
		Query(query).
		Script(script).
		Slices(32).
		Do(ctx); err != nil {
		return err
	}
	_, err := a.client.ES.Refresh(a.client.Index).Do(ctx)
	return err
}
