package taxonomy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

type recordingLookup struct {
	results []taxon.Candidate
	err     error
	calls   []string
}

func (l *recordingLookup) Lookup(_ context.Context, name string) ([]taxon.Candidate, error) {
	l.calls = append(l.calls, name)
	return l.results, l.err
}

func synonym(name, accepted string) taxon.Candidate {
	return taxon.Candidate{
		ID:                     "syn-1",
		ScientificName:         name,
		Rank:                   taxon.RankSpecies,
		TaxonomicStatus:        taxon.StatusSynonym,
		AcceptedScientificName: accepted,
	}
}

func TestResolveSynonym_ExampleC(t *testing.T) {
	lookup := &recordingLookup{results: []taxon.Candidate{
		{ID: "acc-1", ScientificName: "Foo baz", Rank: taxon.RankSpecies, TaxonomicStatus: taxon.StatusAccepted},
	}}

	res := ResolveSynonym(context.Background(), lookup, synonym("Foo bar", "Foo baz"))

	assert.Equal(t, []string{"Foo baz"}, lookup.calls)
	assert.Equal(t, "Foo baz", res.Selected.ScientificName)
	require.NotNil(t, res.Redirect)
	assert.Equal(t, taxon.SynonymRedirect{OriginalName: "Foo bar", ResolvedName: "Foo baz", ResolvedID: "acc-1"}, *res.Redirect)
	assert.NoError(t, res.LookupErr)
}

func TestResolveSynonym_PrefersExactAcceptedMatch(t *testing.T) {
	lookup := &recordingLookup{results: []taxon.Candidate{
		{ID: "a", ScientificName: "Foo baz", TaxonomicStatus: taxon.StatusSynonym},
		{ID: "b", ScientificName: "Foo bazii", TaxonomicStatus: taxon.StatusAccepted},
		{ID: "c", ScientificName: "foo baz Smith, 1901", TaxonomicStatus: taxon.StatusAccepted},
	}}

	res := ResolveSynonym(context.Background(), lookup, synonym("Foo bar", "Foo baz"))
	assert.Equal(t, "c", res.Selected.ID)
}

func TestResolveSynonym_FallsBackToFirstResult(t *testing.T) {
	lookup := &recordingLookup{results: []taxon.Candidate{
		{ID: "x", ScientificName: "Foo qux", TaxonomicStatus: taxon.StatusAccepted},
		{ID: "y", ScientificName: "Foo quux", TaxonomicStatus: taxon.StatusAccepted},
	}}

	res := ResolveSynonym(context.Background(), lookup, synonym("Foo bar", "Foo baz"))
	assert.Equal(t, "x", res.Selected.ID)
	require.NotNil(t, res.Redirect)
	assert.Equal(t, "Foo qux", res.Redirect.ResolvedName)
}

func TestResolveSynonym_KeepsOriginal(t *testing.T) {
	chosen := synonym("Foo bar", "Foo baz")

	t.Run("empty lookup", func(t *testing.T) {
		res := ResolveSynonym(context.Background(), &recordingLookup{}, chosen)
		assert.Equal(t, chosen, res.Selected)
		assert.Nil(t, res.Redirect)
	})

	t.Run("failed lookup", func(t *testing.T) {
		boom := errors.New("boom")
		res := ResolveSynonym(context.Background(), &recordingLookup{err: boom}, chosen)
		assert.Equal(t, chosen, res.Selected)
		assert.Nil(t, res.Redirect)
		assert.ErrorIs(t, res.LookupErr, boom)
	})

	t.Run("nil lookup", func(t *testing.T) {
		res := ResolveSynonym(context.Background(), nil, chosen)
		assert.Equal(t, chosen, res.Selected)
	})
}

func TestResolveSynonym_NoLookupForAccepted(t *testing.T) {
	lookup := &recordingLookup{}

	accepted := cand("1", "Felis catus", taxon.RankSpecies)
	ResolveSynonym(context.Background(), lookup, accepted)

	orphan := synonym("Foo bar", "  ")
	ResolveSynonym(context.Background(), lookup, orphan)

	assert.Empty(t, lookup.calls)
}

func TestLookupFunc(t *testing.T) {
	var got string
	f := LookupFunc(func(_ context.Context, name string) ([]taxon.Candidate, error) {
		got = name
		return nil, nil
	})
	_, err := f.Lookup(context.Background(), "Felis")
	assert.NoError(t, err)
	assert.Equal(t, "Felis", got)
}

//Personal.AI order the ending
