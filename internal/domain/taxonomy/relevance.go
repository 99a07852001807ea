package taxonomy

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

// fold lower-cases s and strips combining marks so that "Hévé" matches "heve".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Matches reports whether query occurs in any name carried by c: scientific
// name, common name, or a populated hierarchy or common-name field.  A blank
// query matches nothing.
func Matches(c taxon.Candidate, query string) bool {
	q := fold(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	return matchesFolded(c, q)
}

func matchesFolded(c taxon.Candidate, q string) bool {
	if strings.Contains(fold(c.ScientificName), q) || strings.Contains(fold(c.CommonName), q) {
		return true
	}
	for _, v := range c.HierarchyFields {
		if v != "" && strings.Contains(fold(v), q) {
			return true
		}
	}
	for _, v := range c.CommonNameFields {
		if v != "" && strings.Contains(fold(v), q) {
			return true
		}
	}
	return false
}

// Prioritize reorders a flattened outline around the query.  The anchor is the
// broadest matching entry.  Output is the anchor with its subtree in original
// order, then the other matches, then the non-matches, each group sorted
// broadest rank first and by name.  When nothing matches the input is
// returned unchanged.
func Prioritize(entries []taxon.Entry, query string) []taxon.Entry {
	q := fold(strings.TrimSpace(query))
	if q == "" || len(entries) == 0 {
		return entries
	}

	matched := make([]bool, len(entries))
	anchor := -1
	for i, e := range entries {
		if !matchesFolded(e.Candidate, q) {
			continue
		}
		matched[i] = true
		if anchor < 0 || betterAnchor(e.Candidate, entries[anchor].Candidate) {
			anchor = i
		}
	}
	if anchor < 0 {
		return entries
	}

	end := anchor + 1
	for end < len(entries) && entries[end].HierarchyLevel > entries[anchor].HierarchyLevel {
		end++
	}

	out := make([]taxon.Entry, 0, len(entries))
	out = append(out, entries[anchor:end]...)

	var hits, rest []taxon.Entry
	for i, e := range entries {
		if i >= anchor && i < end {
			continue
		}
		if matched[i] {
			hits = append(hits, e)
		} else {
			rest = append(rest, e)
		}
	}
	sortEntries(hits)
	sortEntries(rest)
	out = append(out, hits...)
	return append(out, rest...)
}

// betterAnchor prefers the broader rank, then the alphabetically first name.
// Equal candidates keep the earlier entry.
func betterAnchor(a, b taxon.Candidate) bool {
	if wa, wb := Weight(a.Rank), Weight(b.Rank); wa != wb {
		return wa > wb
	}
	return strings.ToLower(a.ScientificName) < strings.ToLower(b.ScientificName)
}

func sortEntries(entries []taxon.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return lessCandidate(entries[i].Candidate, entries[j].Candidate)
	})
}

//Personal.AI order the ending
