package query

import (
	"regexp"
	"sort"
	"strings"

	"github.com/futig/fund-faq/internal/entity"
)

// opinionMarkers reject a question outright
var opinionMarkers = []string{
	"should i",
	"should we",
	"is it good",
	"is it worth",
	"worth investing",
	"good investment",
	"recommend",
	"recommendation",
	"advice",
	"advise",
	"opinion",
	"what do you think",
	"portfolio",
	"which is better",
	"better than",
	"best",
	"worst",
	"top performing",
	"top fund",
	"top funds",
	"outperform",
	"predict",
	"forecast",
	"future returns",
	"safe to invest",
}

// domainMarkers keep a question with no known scheme or field in scope
var domainMarkers = []string{
	"fund",
	"funds",
	"mutual fund",
	"scheme",
	"schemes",
	"hdfc",
	"amc",
	"folio",
	"units",
	"redemption",
	"riskometer",
	"benchmark",
	"lock-in",
	"lock in",
}

// fieldKeywords is the intent table; the longest matching keyword wins
var fieldKeywords = map[entity.FieldName][]string{
	entity.FieldExpenseRatio:   {"expense ratio", "expense", "charges", "fee", "ter"},
	entity.FieldMinimumSIP:     {"minimum sip", "min sip", "sip amount", "minimum investment", "sip"},
	entity.FieldExitLoad:       {"exit load", "exit charge", "redemption charge", "withdrawal fee"},
	entity.FieldNAV:            {"nav", "net asset value", "current nav", "price", "value"},
	entity.FieldTaxImplication: {"tax", "taxation", "tax implication", "capital gains", "tax on redemption"},
}

// fieldExpansions are appended to the enhanced text to pull the query
// towards the matching chunk in embedding space
var fieldExpansions = map[entity.FieldName]string{
	entity.FieldExpenseRatio:   "expense ratio annual fund management charges",
	entity.FieldMinimumSIP:     "minimum investment systematic investment plan",
	entity.FieldExitLoad:       "exit load redemption charge withdrawal",
	entity.FieldNAV:            "net asset value price per unit",
	entity.FieldTaxImplication: "tax implication capital gains taxation",
}

type marker struct {
	re *regexp.Regexp
}

type fieldRule struct {
	keyword string
	field   entity.FieldName
	re      *regexp.Regexp
}

var (
	opinionRules = compileMarkers(opinionMarkers)
	domainRules  = compileMarkers(domainMarkers)
	fieldRules   = compileFieldRules(fieldKeywords)
)

func compileMarkers(words []string) []marker {
	rules := make([]marker, 0, len(words))
	for _, w := range words {
		rules = append(rules, marker{re: wordPattern(w)})
	}
	return rules
}

func compileFieldRules(table map[entity.FieldName][]string) []fieldRule {
	var rules []fieldRule
	for field, words := range table {
		for _, w := range words {
			rules = append(rules, fieldRule{keyword: w, field: field, re: wordPattern(w)})
		}
	}
	sort.Slice(rules, func(i, j int) bool {
		if len(rules[i].keyword) != len(rules[j].keyword) {
			return len(rules[i].keyword) > len(rules[j].keyword)
		}
		return rules[i].keyword < rules[j].keyword
	})
	return rules
}

// wordPattern matches phrase on word boundaries with flexible whitespace
func wordPattern(phrase string) *regexp.Regexp {
	parts := strings.Fields(phrase)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`(?i)\b` + strings.Join(parts, `\s+`) + `\b`)
}

func containsAny(text string, rules []marker) bool {
	for _, r := range rules {
		if r.re.MatchString(text) {
			return true
		}
	}
	return false
}

func detectField(text string) entity.FieldName {
	for _, r := range fieldRules {
		if r.re.MatchString(text) {
			return r.field
		}
	}
	return ""
}
