package taxonomy

import (
	"context"
	"strings"

	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

// DisplayLabel renders "<name> (<common name>)", or just the name.
func DisplayLabel(scientificName, commonName string) string {
	name := strings.TrimSpace(scientificName)
	common := strings.TrimSpace(commonName)
	if common == "" {
		return name
	}
	return name + " (" + common + ")"
}

// Finalize turns an effective candidate into the selection handed to the
// calling form.  The scientific name is normalised.
func Finalize(c taxon.Candidate) taxon.Selection {
	name := NormalizeName(c.ScientificName)
	common := strings.TrimSpace(c.CommonName)
	rank, _ := taxon.ParseRank(string(c.Rank))

	var hierarchy map[taxon.Rank]string
	for r, v := range c.HierarchyFields {
		if v = strings.TrimSpace(v); v == "" {
			continue
		}
		if hierarchy == nil {
			hierarchy = make(map[taxon.Rank]string, len(c.HierarchyFields))
		}
		hierarchy[r] = v
	}

	return taxon.Selection{
		ID:             c.ID,
		Rank:           rank,
		ScientificName: name,
		CommonName:     common,
		DisplayLabel:   DisplayLabel(name, common),
		Hierarchy:      hierarchy,
	}
}

// FinalizeSelection resolves a synonym and finalizes the result.
func FinalizeSelection(ctx context.Context, lookup Lookup, chosen taxon.Candidate) (taxon.SelectionResult, Resolution) {
	res := ResolveSynonym(ctx, lookup, chosen)
	return taxon.SelectionResult{
		Selection: Finalize(res.Selected),
		Redirect:  res.Redirect,
	}, res
}

//Personal.AI order the ending
