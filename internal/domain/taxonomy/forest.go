package taxonomy

import (
	"sort"
	"strings"

	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

// Node is one candidate in the suggestion forest.
type Node struct {
	Candidate   taxon.Candidate
	Children    []*Node
	IsProcessed bool
}

// dedupeKey identifies a candidate within one result set.
func dedupeKey(c taxon.Candidate) string {
	if id := strings.TrimSpace(c.ID); id != "" {
		return "id:" + id
	}
	return "name:" + string(normRank(c.Rank)) + "|" + strings.TrimSpace(c.ScientificName)
}

// Dedupe drops repeated candidates, keeping the first occurrence and the
// input order.
func Dedupe(candidates []taxon.Candidate) []taxon.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]taxon.Candidate, 0, len(candidates))
	for _, c := range candidates {
		k := dedupeKey(c)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	return out
}

// lessCandidate orders siblings: broader rank first, then scientific name.
// Raw name and id break the remaining ties so the order is total.
func lessCandidate(a, b taxon.Candidate) bool {
	if wa, wb := Weight(a.Rank), Weight(b.Rank); wa != wb {
		return wa > wb
	}
	la, lb := strings.ToLower(a.ScientificName), strings.ToLower(b.ScientificName)
	if la != lb {
		return la < lb
	}
	if a.ScientificName != b.ScientificName {
		return a.ScientificName < b.ScientificName
	}
	return a.ID < b.ID
}

func sortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return lessCandidate(nodes[i].Candidate, nodes[j].Candidate)
	})
}

// BuildForest links candidates into parent/child trees and returns the roots.
//
// An edge A→B survives only when no other candidate C in the set sits between
// them (A→C and C→B).  If a candidate still has several direct parents, which
// happens when those parents are unrelated to each other, it is attached to
// the narrowest one.
func BuildForest(candidates []taxon.Candidate) []*Node {
	n := len(candidates)
	nodes := make([]*Node, n)
	for i, c := range candidates {
		nodes[i] = &Node{Candidate: c}
	}

	rel := make([][]bool, n)
	for i := range rel {
		rel[i] = make([]bool, n)
		for j := range rel[i] {
			if i != j {
				rel[i][j] = IsParentOf(candidates[i], candidates[j])
			}
		}
	}

	for child := 0; child < n; child++ {
		parent := -1
		for p := 0; p < n; p++ {
			if !rel[p][child] || hasIntermediate(rel, p, child) {
				continue
			}
			if parent < 0 || closerParent(candidates[p], candidates[parent]) {
				parent = p
			}
		}
		if parent >= 0 {
			nodes[parent].Children = append(nodes[parent].Children, nodes[child])
			nodes[child].IsProcessed = true
		}
	}

	roots := make([]*Node, 0, n)
	for _, node := range nodes {
		sortNodes(node.Children)
		if !node.IsProcessed {
			roots = append(roots, node)
		}
	}
	sortNodes(roots)
	return roots
}

func hasIntermediate(rel [][]bool, a, b int) bool {
	for c := range rel {
		if c != a && c != b && rel[a][c] && rel[c][b] {
			return true
		}
	}
	return false
}

// closerParent reports whether a is a better direct parent than b: narrower
// rank first, then the sibling order.
func closerParent(a, b taxon.Candidate) bool {
	if wa, wb := Weight(a.Rank), Weight(b.Rank); wa != wb {
		return wa < wb
	}
	return lessCandidate(a, b)
}

// Flatten walks the forest in pre-order and stamps each entry with its depth
// and parent/child flags.
func Flatten(roots []*Node) []taxon.Entry {
	var out []taxon.Entry
	var walk func(n *Node, level int)
	walk = func(n *Node, level int) {
		out = append(out, taxon.Entry{
			Candidate:      n.Candidate.Clone(),
			IsParent:       len(n.Children) > 0,
			IsChild:        level > 0,
			HierarchyLevel: level,
		})
		for _, c := range n.Children {
			walk(c, level+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
	return out
}

// BuildOutline runs Dedupe, BuildForest and Flatten.
func BuildOutline(candidates []taxon.Candidate) []taxon.Entry {
	return Flatten(BuildForest(Dedupe(candidates)))
}

//Personal.AI order the ending
