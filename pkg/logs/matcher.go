package logs

import (
	"regexp"
	"strings"
)

/* reserved log type patterns */
const (
	// MatchAll selects every log file
	MatchAll = ".*"
	// allKeyword is accepted in place of MatchAll
	allKeyword = "ALL"
)

// NormalizeLogTypes collapse any ALL or .* entry into the single MatchAll pattern
func NormalizeLogTypes(logTypes []string) []string {
	out := make([]string, 0, len(logTypes))
	for _, t := range logTypes {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if t == MatchAll || t == allKeyword {
			return []string{MatchAll}
		}
		out = append(out, t)
	}
	return out
}

// ContainsMatchAll .
func ContainsMatchAll(patterns []string) bool {
	for _, p := range patterns {
		if p == MatchAll || p == allKeyword {
			return true
		}
	}
	return false
}

// IsMatchAll is true when MatchAll is the only pattern, the archive is then read without listing it first
func IsMatchAll(patterns []string) bool {
	return len(patterns) == 1 && patterns[0] == MatchAll
}

// CompilePatterns compile each pattern, a pattern matches anywhere in a file name
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if p == MatchAll || p == allKeyword {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, validationErrorf("invalid log file pattern %q: %v", p, err)
		}
		res = append(res, re)
	}
	return res, nil
}

// Match return the candidates matched by any pattern, in candidate order
func Match(patterns, candidates []string) ([]string, error) {
	if ContainsMatchAll(patterns) {
		return append([]string{}, candidates...), nil
	}
	res, err := CompilePatterns(patterns)
	if err != nil {
		return nil, err
	}
	matched := []string{}
	for _, c := range candidates {
		for _, re := range res {
			if re.MatchString(c) {
				matched = append(matched, c)
				break
			}
		}
	}
	return matched, nil
}

func formatList(l []string) string {
	return "[" + strings.Join(l, ", ") + "]"
}
