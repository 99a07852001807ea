package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

const searchResponse = `{
	"success": true,
	"data": [
		{"id": 10, "scientific_name": "Felidae", "rank": "family"},
		{"id": "11", "scientific_name": "Panthera", "taxon_rank": "genus", "family": "Felidae", "cname_genus": "Macan"}
	],
	"pagination": {"current_page": 1, "total_pages": 2, "total": 4, "has_more": true}
}`

func TestTaxaClient_Search(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/taxonomy-search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "felidae", q.Get("query"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "25", q.Get("per_page"))
		assert.Equal(t, []string{"gbif", "col"}, q["data_source[]"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchResponse))
	}
	c := newTestClient(t, handler)
	c.baseURL += "/api"

	page, err := c.Taxa().Search(context.Background(), taxon.SearchQuery{
		Query:       "  felidae ",
		Page:        2,
		PerPage:     25,
		DataSources: []string{"gbif", " ", "col"},
	})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "10", page.Data[0].ID)
	assert.Equal(t, taxon.RankGenus, page.Data[1].Rank)
	assert.Equal(t, "Felidae", page.Data[1].Field(taxon.RankFamily))
	assert.Equal(t, "Macan", page.Data[1].CommonNameFields[taxon.RankGenus])
	assert.True(t, page.HasMore())
}

func TestTaxaClient_Search_Defaults(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "50", q.Get("per_page"))
		assert.Empty(t, q["data_source[]"])
		_, _ = w.Write([]byte(`{"success": true, "data": []}`))
	}
	c := newTestClient(t, handler)

	page, err := c.Taxa().Search(context.Background(), taxon.SearchQuery{Query: "x"})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.False(t, page.HasMore())
}

func TestTaxaClient_Search_ClampsPerPage(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "200", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(`{"success": true, "data": []}`))
	}
	c := newTestClient(t, handler)
	_, err := c.Taxa().Search(context.Background(), taxon.SearchQuery{Query: "x", PerPage: 1000})
	assert.NoError(t, err)
}

func TestTaxaClient_Search_EmptyQuery(t *testing.T) {
	c, _ := NewClient("http://api.example.com")
	_, err := c.Taxa().Search(context.Background(), taxon.SearchQuery{Query: "   "})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTaxaClient_Search_Unsuccessful(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "data": []}`))
	})
	_, err := c.Taxa().Search(context.Background(), taxon.SearchQuery{Query: "x"})
	assert.ErrorIs(t, err, ErrSearchUnsuccessful)
}

func TestTaxaClient_Lookup(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Foo baz", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"success": true, "data": [{"id": 1, "scientific_name": "Foo baz", "rank": "species", "taxonomic_status": "ACCEPTED"}]}`))
	}
	c := newTestClient(t, handler)

	got, err := c.Taxa().Lookup(context.Background(), "Foo baz")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, taxon.StatusAccepted, got[0].TaxonomicStatus)
}

func TestTaxaClient_Lookup_Error(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, err := c.Taxa().Lookup(context.Background(), "Foo baz")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
}

//Personal.AI order the ending
