package taxonomy

import (
	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

// cand builds a candidate; fields alternates rank, value.
func cand(id, name string, rank taxon.Rank, fields ...string) taxon.Candidate {
	c := taxon.Candidate{
		ID:              id,
		ScientificName:  name,
		Rank:            rank,
		TaxonomicStatus: taxon.StatusAccepted,
	}
	if len(fields) > 0 {
		c.HierarchyFields = make(map[taxon.Rank]string, len(fields)/2)
		for i := 0; i+1 < len(fields); i += 2 {
			c.HierarchyFields[taxon.Rank(fields[i])] = fields[i+1]
		}
	}
	return c
}

type line struct {
	Name   string
	Level  int
	Parent bool
	Child  bool
}

func lines(entries []taxon.Entry) []line {
	out := make([]line, len(entries))
	for i, e := range entries {
		out[i] = line{e.ScientificName, e.HierarchyLevel, e.IsParent, e.IsChild}
	}
	return out
}

func names(entries []taxon.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ScientificName
	}
	return out
}

// felidae is a small mixed-rank result set used across tests.
func felidae() []taxon.Candidate {
	catus := cand("7", "Felis catus", taxon.RankSpecies, "family", "Felidae", "genus", "Felis")
	catus.CommonName = "Kucing"
	return []taxon.Candidate{
		cand("5", "Panthera tigris", taxon.RankSpecies, "family", "Felidae", "genus", "Panthera"),
		cand("3", "Felidae", taxon.RankFamily),
		cand("6", "Panthera leo", taxon.RankSpecies, "family", "Felidae", "genus", "Panthera"),
		cand("4", "Panthera", taxon.RankGenus, "family", "Felidae"),
		catus,
		cand("8", "Felis", taxon.RankGenus, "family", "Felidae"),
	}
}

//Personal.AI order the ending
