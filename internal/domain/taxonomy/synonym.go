package taxonomy

import (
	"context"
	"strings"

	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

// Lookup fetches candidates for an exact scientific name.
type Lookup interface {
	Lookup(ctx context.Context, name string) ([]taxon.Candidate, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, name string) ([]taxon.Candidate, error)

// Lookup calls f.
func (f LookupFunc) Lookup(ctx context.Context, name string) ([]taxon.Candidate, error) {
	return f(ctx, name)
}

// Resolution is the effective candidate after synonym handling.  Redirect is
// set only when the chosen candidate was replaced.
type Resolution struct {
	Selected taxon.Candidate
	Redirect *taxon.SynonymRedirect
	// LookupErr is the follow-up failure, if any.  It never prevents a
	// usable Selected value.
	LookupErr error
}

// ResolveSynonym substitutes a synonym with its accepted taxon.  Candidates
// that are not synonyms, or carry no accepted name, are returned as chosen
// without a lookup.  Otherwise a single lookup is made for the accepted name
// and the first exact-name ACCEPTED result wins, falling back to the first
// result, falling back to the original.
func ResolveSynonym(ctx context.Context, lookup Lookup, chosen taxon.Candidate) Resolution {
	res := Resolution{Selected: chosen}
	if !chosen.IsSynonym() || lookup == nil {
		return res
	}

	accepted := strings.TrimSpace(chosen.AcceptedScientificName)
	results, err := lookup.Lookup(ctx, accepted)
	if err != nil {
		res.LookupErr = err
		return res
	}
	if len(results) == 0 {
		return res
	}

	pick := results[0]
	want := NormalizeName(accepted)
	for _, r := range results {
		if r.TaxonomicStatus == taxon.StatusAccepted && strings.EqualFold(NormalizeName(r.ScientificName), want) {
			pick = r
			break
		}
	}

	res.Selected = pick
	res.Redirect = &taxon.SynonymRedirect{
		OriginalName: NormalizeName(chosen.ScientificName),
		ResolvedName: NormalizeName(pick.ScientificName),
		ResolvedID:   pick.ID,
	}
	return res
}

//Personal.AI order the ending
