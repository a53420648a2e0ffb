package detect

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultPatterns is the built-in anchor pattern list, in priority order:
// role-specific medical terms first, then generic signature labels, then
// localized terms and bare underline runs. The first pattern that matches a
// page's text wins, so more specific patterns must come first.
var DefaultPatterns = []string{
	`signature\s+of\s+(?:the\s+)?physician`,
	`signature\s+of\s+(?:the\s+)?doctor`,
	`physician'?s\s+signature`,
	`doctor'?s\s+signature`,
	`authori[sz]ed\s+signatory`,
	`authori[sz]ed\s+signature`,
	`signature\s*:`,
	`signature\b`,
	`sign\s+here`,
	`signed\s+by\s*:?`,
	`authori[sz]ed\s+by`,
	`approved\s+by`,
	`verified\s+by`,
	`हस्ताक्षर\s*:?`,
	`sign\s*:`,
	`_{5,}`,
}

// patternSet holds compiled anchor patterns in priority order
type patternSet struct {
	patterns []*regexp.Regexp
}

func compilePatterns(exprs []string) (*patternSet, error) {
	set := &patternSet{patterns: make([]*regexp.Regexp, 0, len(exprs))}
	for _, expr := range exprs {
		re, err := regexp.Compile(`(?i)` + expr)
		if err != nil {
			return nil, fmt.Errorf("invalid anchor pattern %q: %w", expr, err)
		}
		set.patterns = append(set.patterns, re)
	}
	return set, nil
}

// match returns the first-priority pattern match within s, or "" when no
// pattern matches. s must already be normalized.
func (ps *patternSet) match(s string) string {
	for _, re := range ps.patterns {
		if m := re.FindString(s); m != "" {
			return m
		}
	}
	return ""
}

// normalize folds page text into the form patterns match against: NFKC so
// ligatures and width variants compare equal, then lowercased with
// collapsed whitespace.
func normalize(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
