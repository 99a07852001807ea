package client

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

const (
	DefaultPerPage = 50
	MaxPerPage     = 200

	searchPath = "/taxonomy-search"
)

// ErrSearchUnsuccessful is returned when the service answers 2xx with
// "success": false.
var ErrSearchUnsuccessful = errors.New("taxonomy search reported failure")

// ---------------------------------------------------------------------------
// TaxaClient
// ---------------------------------------------------------------------------

// TaxaClient provides access to the taxonomy search endpoint.
type TaxaClient struct {
	client *Client
}

// Search runs one page of a free-text taxon search.
// GET /taxonomy-search?query=&page=&per_page=[&data_source[]=...]
func (tc *TaxaClient) Search(ctx context.Context, q taxon.SearchQuery) (*taxon.SearchPage, error) {
	query := strings.TrimSpace(q.Query)
	if query == "" {
		return nil, invalidArg("query is required")
	}

	page := q.Page
	if page <= 0 {
		page = 1
	}
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	for _, src := range q.DataSources {
		if src = strings.TrimSpace(src); src != "" {
			params.Add("data_source[]", src)
		}
	}

	var result taxon.SearchPage
	if err := tc.client.get(ctx, searchPath+"?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, ErrSearchUnsuccessful
	}
	return &result, nil
}

// Lookup fetches candidates for an exact scientific name.  It is the
// follow-up request made when a synonym is resolved to its accepted name.
func (tc *TaxaClient) Lookup(ctx context.Context, name string) ([]taxon.Candidate, error) {
	page, err := tc.Search(ctx, taxon.SearchQuery{Query: name, Page: 1, PerPage: DefaultPerPage})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

//Personal.AI order the ending
