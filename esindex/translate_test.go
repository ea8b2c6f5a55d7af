package esindex

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toole-brendan/claimsearch/claimquery"
)

func TestTranslateQueryProducesValidSource(t *testing.T) {
	size := 10
	from := 0
	q := &claimquery.Query{
		SourceExcludes: []string{"description", "title"},
		Must: []interface{}{
			claimquery.TermClause{Field: "claim_type", Value: byte(1)},
			claimquery.RangeClause{Field: "height", Op: claimquery.OpGT, Value: int64(100)},
		},
		Sort: []claimquery.SortField{{Field: "height", Ascending: true}},
		Size: &size,
		From: &from,
	}

	source := translateQuery(q)
	body, err := source.Source()
	require.NoError(t, err)
	require.NotNil(t, body)

	asMap, ok := body.(map[string]interface{})
	require.True(t, ok)
	require.Contains(t, asMap, "query")
	require.Contains(t, asMap, "sort")
	require.Equal(t, 10, asMap["size"])
}

func TestTranslateQueryWithCollapse(t *testing.T) {
	size := 2
	q := &claimquery.Query{
		Collapse: &claimquery.Collapse{
			Field: "channel_id.keyword",
			Size:  size,
			Sort:  []claimquery.SortField{{Field: "height", Ascending: false}},
		},
	}
	source := translateQuery(q)
	body, err := source.Source()
	require.NoError(t, err)
	asMap := body.(map[string]interface{})
	require.Contains(t, asMap, "collapse")
}

func TestTranslateClausePanicsOnUnknownType(t *testing.T) {
	require.Panics(t, func() {
		translateClause(struct{ Foo string }{Foo: "bar"})
	})
}
