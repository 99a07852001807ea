package taxonomy

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	capWord  = `\p{Lu}[\p{L}\p{M}'’-]*`
	yearTail = `\s*,\s*\d{4}.*`
)

// citationRules strip one trailing authorship or year citation each.  They
// are applied in order.  All but the first require whitespace before the
// citation, so the leading word of a name is never removed.
var citationRules = []*regexp.Regexp{
	// (Linnaeus, 1758)
	regexp.MustCompile(`\s*\([^()]*\d{4}[^()]*\)\s*$`),
	// Smith, Jones & Brown, 1901
	regexp.MustCompile(`\s+` + capWord + `(?:\s*,\s*` + capWord + `)*(?:\s*&\s*` + capWord + `)?` + yearTail + `$`),
	// J.E. Gray, 1825
	regexp.MustCompile(`\s+\p{Lu}(?:\.\s*\p{Lu})*\.\s*` + capWord + `(?:` + yearTail + `)?$`),
	// Smith & Jones
	regexp.MustCompile(`\s+` + capWord + `(?:\s*&\s*` + capWord + `)*(?:` + yearTail + `)?$`),
	// Smith & Jones,
	regexp.MustCompile(`\s+` + capWord + `(?:\s*&\s*` + capWord + `)*\s*,\s*$`),
	// L., 1767
	regexp.MustCompile(`\s+` + capWord + `\.(?:` + yearTail + `)?\s*$`),
	// J.E.
	regexp.MustCompile(`\s+\p{Lu}\.(?:\s*\p{Lu}\.)*\s*$`),
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeName strips a trailing authorship/year citation from a scientific
// name, e.g. "Panthera tigris Linnaeus, 1758" becomes "Panthera tigris".  The
// rules are re-applied until nothing changes, so NormalizeName is idempotent.
func NormalizeName(name string) string {
	cur := norm.NFC.String(name)
	for {
		next := norm.NFC.String(normalizeOnce(cur))
		if next == cur {
			return cur
		}
		cur = next
	}
}

func normalizeOnce(s string) string {
	for _, re := range citationRules {
		if stripped := re.ReplaceAllString(s, ""); strings.TrimSpace(stripped) != "" {
			s = stripped
		}
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

//Personal.AI order the ending
