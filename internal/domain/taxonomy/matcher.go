package taxonomy

import (
	"strings"

	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

// ladder is the coarse backbone along which hierarchy fields are compared.
var ladder = []taxon.Rank{
	taxon.RankKingdom,
	taxon.RankPhylum,
	taxon.RankClass,
	taxon.RankOrder,
	taxon.RankFamily,
	taxon.RankGenus,
	taxon.RankSpecies,
}

func ladderIndex(r taxon.Rank) int {
	for i, l := range ladder {
		if l == r {
			return i
		}
	}
	return -1
}

func normRank(r taxon.Rank) taxon.Rank {
	n, _ := taxon.ParseRank(string(r))
	return n
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ownValue returns c's name at rank r: the hierarchy field when present,
// otherwise the scientific name if r is c's own rank.
func ownValue(c taxon.Candidate, r taxon.Rank) string {
	if v := c.Field(r); v != "" {
		return v
	}
	if normRank(c.Rank) == r {
		return strings.TrimSpace(c.ScientificName)
	}
	return ""
}

// IsParentOf reports whether parent is an ancestor of child according to
// their ranks and hierarchy fields.
//
// Along the coarse ladder the parent's own rank is the ancestry link and must
// match the child's field at that rank.  Every broader level populated on the
// parent must agree with the child.  Ladder levels strictly between the two
// ranks must be populated on the child, so that ancestry is never inferred
// across a gap in the child's data.
func IsParentOf(parent, child taxon.Candidate) bool {
	pr, cr := normRank(parent.Rank), normRank(child.Rank)
	if Weight(pr) <= Weight(cr) {
		return false
	}

	p, c := ladderIndex(pr), ladderIndex(cr)
	if p >= 0 && c >= 0 {
		return ladderParent(parent, child, p, c)
	}
	return specialParent(parent, child, pr, cr)
}

func ladderParent(parent, child taxon.Candidate, p, c int) bool {
	for i := 0; i < p; i++ {
		pv, cv := parent.Field(ladder[i]), child.Field(ladder[i])
		if pv == "" {
			continue
		}
		if cv == "" || !sameName(pv, cv) {
			return false
		}
	}

	link := ownValue(parent, ladder[p])
	cv := child.Field(ladder[p])
	if link == "" || cv == "" || !sameName(link, cv) {
		return false
	}

	for i := p + 1; i < c; i++ {
		if child.Field(ladder[i]) == "" {
			return false
		}
	}
	return true
}

func specialParent(parent, child taxon.Candidate, pr, cr taxon.Rank) bool {
	switch pr {
	case taxon.RankSpecies:
		switch cr {
		case taxon.RankSubspecies, taxon.RankVariety, taxon.RankForm:
		default:
			return false
		}
		genus := parent.Field(taxon.RankGenus)
		if genus == "" {
			genus = firstWord(parent.ScientificName)
		}
		species := ownValue(parent, taxon.RankSpecies)
		return fieldEquals(genus, child.Field(taxon.RankGenus)) &&
			fieldEquals(species, child.Field(taxon.RankSpecies))

	case taxon.RankGenus:
		switch cr {
		case taxon.RankSpecies, taxon.RankSubspecies, taxon.RankVariety, taxon.RankForm:
		default:
			return false
		}
		return fieldEquals(ownValue(parent, taxon.RankGenus), child.Field(taxon.RankGenus))
	}
	return false
}

func fieldEquals(a, b string) bool {
	return a != "" && b != "" && sameName(a, b)
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

//Personal.AI order the ending
