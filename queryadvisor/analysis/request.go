package analysis

import (
	index "github.com/krew-solutions/ascetic-query-advisor/queryadvisor/index/domain"
	"github.com/krew-solutions/ascetic-query-advisor/queryadvisor/option"
	query "github.com/krew-solutions/ascetic-query-advisor/queryadvisor/query/domain"
)

// ParseRequest decodes a query and an optional sort specification, both YAML or JSON.
// An empty collection name means the collection is unknown.
func ParseRequest(queryData, sortData []byte, collection string) (Request, error) {
	q, err := query.ParseDocument(queryData)
	if err != nil {
		return Request{}, err
	}
	sort, err := index.ParseSortSpec(sortData)
	if err != nil {
		return Request{}, err
	}
	req := Request{Query: q, Sort: sort, Collection: option.Nothing[string]()}
	if collection != "" {
		req.Collection = option.Some(collection)
	}
	return req, nil
}
