// Package taxonomy implements the suggestion hierarchy engine: rank ordering,
// the pairwise parent predicate, forest construction and flattening, relevance
// ordering, synonym redirection and scientific name normalisation.
//
// Every function in this package is pure given its inputs.  Request-scoped
// state such as sequence numbers lives with the caller.
package taxonomy

import (
	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

// rankWeights gives domain the highest weight and subform the lowest (1).
var rankWeights = func() map[taxon.Rank]int {
	m := make(map[taxon.Rank]int, len(taxon.AllRanks))
	for i, r := range taxon.AllRanks {
		m[r] = len(taxon.AllRanks) - i
	}
	return m
}()

// Weight returns the ordering weight of rank r.  Unknown ranks weigh 0.
func Weight(r taxon.Rank) int {
	norm, ok := taxon.ParseRank(string(r))
	if !ok {
		return 0
	}
	return rankWeights[norm]
}

// CompareRanks returns -1, 0 or +1 as a is narrower than, equal to, or broader
// than b.
func CompareRanks(a, b taxon.Rank) int {
	wa, wb := Weight(a), Weight(b)
	switch {
	case wa < wb:
		return -1
	case wa > wb:
		return 1
	default:
		return 0
	}
}

//Personal.AI order the ending
