package taxonomy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

func TestDisplayLabel(t *testing.T) {
	assert.Equal(t, "Felis catus (Kucing)", DisplayLabel("Felis catus", " Kucing "))
	assert.Equal(t, "Felis catus", DisplayLabel("Felis catus", ""))
}

func TestFinalize(t *testing.T) {
	c := cand("7", "Felis catus Linnaeus, 1758", "Species", "family", "Felidae", "genus", "Felis", "order", " ")
	c.CommonName = "Kucing"

	sel := Finalize(c)
	assert.Equal(t, taxon.Selection{
		ID:             "7",
		Rank:           taxon.RankSpecies,
		ScientificName: "Felis catus",
		CommonName:     "Kucing",
		DisplayLabel:   "Felis catus (Kucing)",
		Hierarchy:      map[taxon.Rank]string{taxon.RankFamily: "Felidae", taxon.RankGenus: "Felis"},
	}, sel)
}

func TestFinalizeSelection_Redirect(t *testing.T) {
	lookup := LookupFunc(func(context.Context, string) ([]taxon.Candidate, error) {
		return []taxon.Candidate{{ID: "acc", ScientificName: "Foo baz", Rank: taxon.RankSpecies, TaxonomicStatus: taxon.StatusAccepted}}, nil
	})

	out, res := FinalizeSelection(context.Background(), lookup, synonym("Foo bar Smith, 1900", "Foo baz"))
	assert.Equal(t, "Foo baz", out.Selection.ScientificName)
	assert.Equal(t, "acc", out.Selection.ID)
	require.NotNil(t, out.Redirect)
	assert.Equal(t, "Foo bar", out.Redirect.OriginalName)
	assert.Same(t, res.Redirect, out.Redirect)
}

func TestFinalizeSelection_Plain(t *testing.T) {
	out, _ := FinalizeSelection(context.Background(), nil, cand("1", "Felidae", taxon.RankFamily))
	assert.Equal(t, "Felidae", out.Selection.DisplayLabel)
	assert.Nil(t, out.Redirect)
	assert.Nil(t, out.Selection.Hierarchy)
}

//Personal.AI order the ending
