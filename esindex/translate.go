package esindex

import (
	"fmt"

	"github.com/olivere/elastic/v7"

	"github.com/toole-brendan/claimsearch/claimquery"
)

// translateQuery turns a backend-agnostic claimquery.Query into the
// concrete olivere/elastic request pieces that exercise it. Keeping this
// translation in esindex, rather than in claimquery, keeps the compiler
// pure and swappable for a different backend client (§9 Design Notes).
func translateQuery(q *claimquery.Query) *elastic.SearchSource {
	boolQuery := elastic.NewBoolQuery()
	for _, clause := range q.Must {
		boolQuery = boolQuery.Must(translateClause(clause))
	}
	for _, clause := range q.MustNot {
		boolQuery = boolQuery.MustNot(translateClause(clause))
	}
	for _, clause := range q.Should {
		boolQuery = boolQuery.Should(translateClause(clause))
	}
	if q.MinimumShouldMatch > 0 {
		boolQuery = boolQuery.MinimumShouldMatch(fmt.Sprintf("%d", q.MinimumShouldMatch))
	}

	source := elastic.NewSearchSource().Query(boolQuery)
	if len(q.SourceExcludes) > 0 {
		fsc := elastic.NewFetchSourceContext(true).Exclude(q.SourceExcludes...)
		source = source.FetchSourceContext(fsc)
	}
	for _, s := range q.Sort {
		source = source.Sort(s.Field, s.Ascending)
	}
	if q.Size != nil {
		source = source.Size(*q.Size)
	}
	if q.From != nil {
		source = source.From(*q.From)
	}
	if q.Collapse != nil {
		innerHit := elastic.NewInnerHit().Name(q.Collapse.Field).Size(q.Collapse.Size)
		for _, s := range q.Collapse.Sort {
			innerHit = innerHit.Sort(s.Field, s.Ascending)
		}
		collapse := elastic.NewCollapseBuilder(q.Collapse.Field).InnerHit(innerHit)
		source = source.Collapse(collapse)
	}
	return source
}

func translateClause(clause interface{}) elastic.Query {
	switch c := clause.(type) {
	case claimquery.TermClause:
		return elastic.NewTermQuery(c.Field, c.Value)
	case claimquery.TermsClause:
		return elastic.NewTermsQuery(c.Field, c.Values...)
	case claimquery.RangeClause:
		rq := elastic.NewRangeQuery(c.Field)
		switch c.Op {
		case claimquery.OpLT:
			rq = rq.Lt(c.Value)
		case claimquery.OpLTE:
			rq = rq.Lte(c.Value)
		case claimquery.OpGT:
			rq = rq.Gt(c.Value)
		case claimquery.OpGTE:
			rq = rq.Gte(c.Value)
		}
		return rq
	case claimquery.ExistsClause:
		return elastic.NewExistsQuery(c.Field)
	case claimquery.PrefixClause:
		return elastic.NewPrefixQuery(c.Field, c.Value)
	case claimquery.SimpleQueryStringClause:
		sq := elastic.NewSimpleQueryStringQuery(c.Query)
		for _, f := range c.Fields {
			sq = sq.FieldWithBoost(f.Field, f.Boost)
		}
		return sq
	case claimquery.BoolClause:
		bq := elastic.NewBoolQuery()
		for _, m := range c.Must {
			bq = bq.Must(translateClause(m))
		}
		for _, m := range c.MustNot {
			bq = bq.MustNot(translateClause(m))
		}
		return bq
	default:
		panic(fmt.Sprintf("esindex: unhandled clause type %T", clause))
	}
}
