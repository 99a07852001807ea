// Package taxon defines the data types shared between the taxonomy search
// client, the suggestion engine, and the service's HTTP surface.
package taxon

import (
	"strings"
)

// Rank is a canonical taxonomic rank name, always lower case.
type Rank string

const (
	RankDomain       Rank = "domain"
	RankSuperkingdom Rank = "superkingdom"
	RankKingdom      Rank = "kingdom"
	RankSubkingdom   Rank = "subkingdom"
	RankSuperphylum  Rank = "superphylum"
	RankPhylum       Rank = "phylum"
	RankSubphylum    Rank = "subphylum"
	RankSuperclass   Rank = "superclass"
	RankClass        Rank = "class"
	RankSubclass     Rank = "subclass"
	RankInfraclass   Rank = "infraclass"
	RankSuperorder   Rank = "superorder"
	RankOrder        Rank = "order"
	RankSuborder     Rank = "suborder"
	RankInfraorder   Rank = "infraorder"
	RankSuperfamily  Rank = "superfamily"
	RankFamily       Rank = "family"
	RankSubfamily    Rank = "subfamily"
	RankTribe        Rank = "tribe"
	RankSubtribe     Rank = "subtribe"
	RankGenus        Rank = "genus"
	RankSubgenus     Rank = "subgenus"
	RankSpecies      Rank = "species"
	RankSubspecies   Rank = "subspecies"
	RankVariety      Rank = "variety"
	RankForm         Rank = "form"
	RankSubform      Rank = "subform"
)

// AllRanks lists the canonical ranks from broadest to narrowest.
var AllRanks = []Rank{
	RankDomain, RankSuperkingdom, RankKingdom, RankSubkingdom,
	RankSuperphylum, RankPhylum, RankSubphylum,
	RankSuperclass, RankClass, RankSubclass, RankInfraclass,
	RankSuperorder, RankOrder, RankSuborder, RankInfraorder,
	RankSuperfamily, RankFamily, RankSubfamily,
	RankTribe, RankSubtribe,
	RankGenus, RankSubgenus,
	RankSpecies, RankSubspecies, RankVariety, RankForm, RankSubform,
}

var knownRanks = func() map[Rank]struct{} {
	m := make(map[Rank]struct{}, len(AllRanks))
	for _, r := range AllRanks {
		m[r] = struct{}{}
	}
	return m
}()

// ParseRank normalises s (case, surrounding space) and reports whether it
// names a canonical rank.  Unknown values are returned normalised with ok=false.
func ParseRank(s string) (Rank, bool) {
	r := Rank(strings.ToLower(strings.TrimSpace(s)))
	_, ok := knownRanks[r]
	return r, ok
}

// Known reports whether r is one of AllRanks.
func (r Rank) Known() bool {
	_, ok := knownRanks[r]
	return ok
}

func (r Rank) String() string { return string(r) }

// Status is the nomenclatural status reported by the taxonomy service.
type Status string

const (
	StatusAccepted Status = "ACCEPTED"
	StatusSynonym  Status = "SYNONYM"
)

// ParseStatus upper-cases s.  Values other than ACCEPTED and SYNONYM are kept
// verbatim so that callers can still display them.
func ParseStatus(s string) Status {
	return Status(strings.ToUpper(strings.TrimSpace(s)))
}

// Candidate is one taxon returned by the taxonomy search service.
type Candidate struct {
	ID                     string
	ScientificName         string
	CommonName             string
	Rank                   Rank
	TaxonomicStatus        Status
	AcceptedScientificName string

	// HierarchyFields maps an ancestor rank to that ancestor's name for this
	// taxon, e.g. family → "Felidae".  Sparse.
	HierarchyFields map[Rank]string

	// CommonNameFields maps a rank to a localized common name at that rank.
	CommonNameFields map[Rank]string
}

// Field returns the hierarchy value at rank r, or "".
func (c Candidate) Field(r Rank) string {
	return strings.TrimSpace(c.HierarchyFields[r])
}

// IsSynonym reports whether the candidate is a synonym that names its
// accepted replacement.
func (c Candidate) IsSynonym() bool {
	return c.TaxonomicStatus == StatusSynonym && strings.TrimSpace(c.AcceptedScientificName) != ""
}

// Clone returns a deep copy of c.
func (c Candidate) Clone() Candidate {
	out := c
	out.HierarchyFields = cloneFields(c.HierarchyFields)
	out.CommonNameFields = cloneFields(c.CommonNameFields)
	return out
}

func cloneFields(m map[Rank]string) map[Rank]string {
	if m == nil {
		return nil
	}
	out := make(map[Rank]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Entry is one line of the flattened suggestion outline.
type Entry struct {
	Candidate
	IsParent       bool
	IsChild        bool
	HierarchyLevel int
}

// Selection is the finalized result handed to the calling form.
type Selection struct {
	ID             string          `json:"id"`
	Rank           Rank            `json:"rank"`
	ScientificName string          `json:"scientific_name"`
	CommonName     string          `json:"common_name,omitempty"`
	DisplayLabel   string          `json:"display_label"`
	Hierarchy      map[Rank]string `json:"hierarchy,omitempty"`
}

// SynonymRedirect records a selection that was redirected from a synonym to
// its accepted taxon, for user notification.
type SynonymRedirect struct {
	OriginalName string `json:"original_name"`
	ResolvedName string `json:"resolved_name"`
	ResolvedID   string `json:"resolved_id"`
}

// SelectionResult is a finalized selection plus the redirect record when the
// chosen candidate was a synonym that got substituted.
type SelectionResult struct {
	Selection Selection        `json:"selection"`
	Redirect  *SynonymRedirect `json:"redirect,omitempty"`
}

// SearchQuery is one request to the taxonomy search service.
type SearchQuery struct {
	Query       string   `json:"query"`
	Page        int      `json:"page"`
	PerPage     int      `json:"per_page"`
	DataSources []string `json:"data_sources,omitempty"`
}

// Pagination is the optional paging block of a search response.
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	Total       int  `json:"total"`
	HasMore     bool `json:"has_more"`
}

// SearchPage is one decoded search response.
type SearchPage struct {
	Success    bool        `json:"success"`
	Data       []Candidate `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// HasMore reports whether a further page exists.  Without a pagination block
// the response is treated as the last page.
func (p *SearchPage) HasMore() bool {
	return p != nil && p.Pagination != nil && p.Pagination.HasMore
}

//Personal.AI order the ending
