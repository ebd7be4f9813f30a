// Package rewrite canonicalizes free-text questions before retrieval
// scoring. Rewriting is deterministic and total: it never fails and never
// returns an empty query for non-empty input.
package rewrite

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRe    = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	replacements  = []rule{
		{pattern: `cust`, target: "customer"},
		{pattern: `cx`, target: "customer"},
		{pattern: `angry`, target: "escalated dissatisfied"},
		{pattern: `mad`, target: "dissatisfied"},
		{pattern: `refund me`, target: "refund procedure"},
		{pattern: `cancel`, target: "cancellation procedure"},
		{pattern: `not working`, target: "service issue troubleshooting"},
		{pattern: `idk`, target: "clarification needed"},
		{pattern: `pls`, target: "please"},
		{pattern: `asap`, target: "urgent"},
	}
	compiledRules = compile(replacements)
)

type rule struct {
	pattern string
	target  string
}

type compiledRule struct {
	re     *regexp.Regexp
	target string
}

// Rules match whole words so canonical output is a fixed point: "customer"
// must not re-trigger the "cust" rule on a second pass. Order is
// load-bearing; each rule scans the string as mutated by earlier rules.
func compile(rules []rule) []compiledRule {
	out := make([]compiledRule, len(rules))
	for i, r := range rules {
		out[i] = compiledRule{
			re:     regexp.MustCompile(`\b` + regexp.QuoteMeta(r.pattern) + `\b`),
			target: r.target,
		}
	}
	return out
}

// Rewrite normalizes and canonicalizes a question: lowercase, strip
// non-alphanumerics, apply the replacement table in order, collapse
// whitespace. If the result would be empty, the trimmed original question
// is returned instead.
func Rewrite(question string) string {
	text := strings.ToLower(strings.TrimSpace(question))
	text = nonAlnumRe.ReplaceAllString(text, " ")

	for _, r := range compiledRules {
		text = r.re.ReplaceAllString(text, r.target)
	}

	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if text == "" {
		return strings.TrimSpace(question)
	}
	return text
}
