package taxonomy

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

func TestDedupe(t *testing.T) {
	in := []taxon.Candidate{
		cand("1", "Felidae", taxon.RankFamily),
		cand("2", "Panthera", taxon.RankGenus),
		cand("1", "Felidae duplicate", taxon.RankFamily),
		cand("", "Felis", taxon.RankGenus),
		cand("", "Felis", taxon.RankGenus, "family", "Felidae"),
		cand("", "Felis", taxon.RankSubgenus),
	}

	out := Dedupe(in)
	assert.Equal(t, []string{"Felidae", "Panthera", "Felis", "Felis"}, namesOf(out))
	assert.Nil(t, out[2].HierarchyFields, "first occurrence wins")
	assert.Empty(t, Dedupe(nil))
}

func namesOf(cs []taxon.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ScientificName
	}
	return out
}

func TestBuildOutline_ExampleA(t *testing.T) {
	in := []taxon.Candidate{
		cand("1", "Felidae", taxon.RankFamily),
		cand("2", "Panthera", taxon.RankGenus, "family", "Felidae"),
		cand("3", "Panthera tigris", taxon.RankSpecies, "genus", "Panthera", "family", "Felidae"),
	}

	got := lines(Prioritize(BuildOutline(in), "felidae"))
	want := []line{
		{"Felidae", 0, true, false},
		{"Panthera", 1, true, true},
		{"Panthera tigris", 2, false, true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildOutline_ExampleD_NoFabricatedAncestry(t *testing.T) {
	in := []taxon.Candidate{
		cand("1", "Aves", taxon.RankClass),
		cand("2", "Passer", taxon.RankGenus, "class", "Aves", "family", "Passeridae"),
	}

	got := lines(BuildOutline(in))
	want := []line{
		{"Aves", 0, false, false},
		{"Passer", 0, false, false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildOutline_TransitiveReduction(t *testing.T) {
	got := lines(BuildOutline(felidae()))
	want := []line{
		{"Felidae", 0, true, false},
		{"Felis", 1, true, true},
		{"Felis catus", 2, false, true},
		{"Panthera", 1, true, true},
		{"Panthera leo", 2, false, true},
		{"Panthera tigris", 2, false, true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildForest_MarksChildrenProcessed(t *testing.T) {
	roots := BuildForest(Dedupe(felidae()))
	require.Len(t, roots, 1)
	assert.False(t, roots[0].IsProcessed)
	for _, c := range roots[0].Children {
		assert.True(t, c.IsProcessed)
	}
}

func TestBuildForest_TrivialInputs(t *testing.T) {
	assert.Empty(t, BuildForest(nil))
	assert.Empty(t, BuildOutline(nil))

	one := BuildOutline([]taxon.Candidate{cand("1", "Felis", taxon.RankGenus)})
	assert.Equal(t, []line{{"Felis", 0, false, false}}, lines(one))
}

func TestBuildForest_UnknownRankIsRoot(t *testing.T) {
	in := append(felidae(), cand("9", "Feliformia", "clade", "family", "Felidae"))
	out := BuildOutline(in)
	last := out[len(out)-1]
	assert.Equal(t, "Feliformia", last.ScientificName, "unknown rank sorts last")
	assert.Equal(t, 0, last.HierarchyLevel)
}

func TestBuildForest_SiblingsSortedRankDescending(t *testing.T) {
	in := []taxon.Candidate{
		cand("1", "Animalia", taxon.RankKingdom),
		cand("2", "Chordata", taxon.RankPhylum, "kingdom", "Animalia"),
		cand("3", "Arthropoda", taxon.RankPhylum, "kingdom", "Animalia"),
		cand("4", "Mammalia", taxon.RankClass, "kingdom", "Animalia", "phylum", "Chordata"),
		cand("5", "Insecta", taxon.RankClass, "kingdom", "Animalia", "phylum", "Arthropoda"),
		cand("6", "Amoeba", taxon.RankGenus),
	}
	assert.Equal(t,
		[]string{"Animalia", "Arthropoda", "Insecta", "Chordata", "Mammalia", "Amoeba"},
		names(BuildOutline(in)))
}

func TestBuildForest_MultipleDirectParentsAttachToNarrowest(t *testing.T) {
	// Felidae carries no order field, so Carnivora is not its parent and both
	// survive reduction as direct parents of Panthera.
	in := []taxon.Candidate{
		cand("1", "Carnivora", taxon.RankOrder),
		cand("2", "Felidae", taxon.RankFamily),
		cand("3", "Panthera", taxon.RankGenus, "order", "Carnivora", "family", "Felidae"),
	}
	got := lines(BuildOutline(in))
	want := []line{
		{"Carnivora", 0, false, false},
		{"Felidae", 0, true, false},
		{"Panthera", 1, false, true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildOutline_ForestValidity(t *testing.T) {
	out := BuildOutline(felidae())
	assertForestValid(t, out)
}

func assertForestValid(t *testing.T, out []taxon.Entry) {
	t.Helper()
	for i, e := range out {
		if e.HierarchyLevel == 0 {
			assert.False(t, e.IsChild)
			continue
		}
		assert.True(t, e.IsChild)
		found := false
		for j := i - 1; j >= 0; j-- {
			if out[j].HierarchyLevel == e.HierarchyLevel-1 {
				found = true
				assert.True(t, out[j].IsParent)
				assert.True(t, IsParentOf(out[j].Candidate, e.Candidate),
					"%s should be parent of %s", out[j].ScientificName, e.ScientificName)
				break
			}
			require.Greater(t, out[j].HierarchyLevel, e.HierarchyLevel-1)
		}
		assert.True(t, found, "no parent line for %s", e.ScientificName)
	}
}

func TestBuildOutline_Deterministic(t *testing.T) {
	base := BuildOutline(felidae())
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		in := felidae()
		rng.Shuffle(len(in), func(a, b int) { in[a], in[b] = in[b], in[a] })
		if diff := cmp.Diff(base, BuildOutline(in)); diff != "" {
			t.Fatalf("outline depends on input order (-want +got):\n%s", diff)
		}
	}
}

func TestBuildOutline_RootCorrectness(t *testing.T) {
	in := Dedupe(felidae())
	out := BuildOutline(in)
	for _, e := range out {
		hasParent := false
		for _, p := range in {
			if IsParentOf(p, e.Candidate) {
				hasParent = true
				break
			}
		}
		assert.Equal(t, hasParent, e.HierarchyLevel > 0, e.ScientificName)
	}
}

//Personal.AI order the ending
