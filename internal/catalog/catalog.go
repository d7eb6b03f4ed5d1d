// Package catalog holds the closed set of schemes known to the index and
// the precomputed alias table used to recognise them in questions.
package catalog

import (
	"sort"
	"strings"

	"github.com/futig/fund-faq/internal/entity"
)

// DefaultAliases maps a scheme name to extra spellings users type for it
var DefaultAliases = map[string][]string{
	"HDFC ELSS Tax Saver Fund": {"hdfc elss", "hdfc tax saver"},
}

type alias struct {
	text   string
	scheme int
}

type Catalog struct {
	schemes []entity.Scheme
	byName  map[string]int
	aliases []alias
}

// New builds the catalog from an indexed chunk set. extra may be nil.
func New(chunks []entity.Chunk, extra map[string][]string) *Catalog {
	c := &Catalog{byName: make(map[string]int)}

	for _, ch := range chunks {
		key := strings.ToLower(ch.SchemeName)
		idx, ok := c.byName[key]
		if !ok {
			idx = len(c.schemes)
			c.byName[key] = idx
			c.schemes = append(c.schemes, entity.Scheme{
				Name:      ch.SchemeName,
				Category:  ch.Category,
				SourceURL: ch.SourceURL,
			})
		}
		c.schemes[idx].Fields = appendField(c.schemes[idx].Fields, ch.FieldName)
	}

	seen := make(map[string]bool)
	add := func(text string, idx int) {
		text = normalize(text)
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		c.aliases = append(c.aliases, alias{text: text, scheme: idx})
	}

	for idx, s := range c.schemes {
		add(s.Name, idx)
		lower := normalize(s.Name)
		if trimmed := strings.TrimSuffix(lower, " fund"); trimmed != lower && strings.Contains(trimmed, " ") {
			add(trimmed, idx)
		}
	}
	for name, spellings := range extra {
		idx, ok := c.byName[strings.ToLower(name)]
		if !ok {
			continue
		}
		for _, sp := range spellings {
			add(sp, idx)
		}
	}

	// longest first so nested matches are resolved in favour of the longer name
	sort.SliceStable(c.aliases, func(i, j int) bool {
		if len(c.aliases[i].text) != len(c.aliases[j].text) {
			return len(c.aliases[i].text) > len(c.aliases[j].text)
		}
		return c.aliases[i].text < c.aliases[j].text
	})

	return c
}

// Empty returns a catalog with no schemes
func Empty() *Catalog {
	return New(nil, nil)
}

func (c *Catalog) Schemes() []entity.Scheme {
	out := make([]entity.Scheme, len(c.schemes))
	copy(out, c.schemes)
	return out
}

func (c *Catalog) Len() int {
	return len(c.schemes)
}

// Lookup finds a scheme by its exact name, ignoring case
func (c *Catalog) Lookup(name string) (entity.Scheme, bool) {
	idx, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return entity.Scheme{}, false
	}
	return c.schemes[idx], true
}

type span struct {
	start, end int
	scheme     int
}

// MatchSchemes returns the distinct scheme names mentioned in text, in order
// of first appearance. A mention overlapping a longer mention is not counted.
func (c *Catalog) MatchSchemes(text string) []string {
	_, spans := c.matchSpans(text)

	var names []string
	seen := make(map[int]bool)
	for _, s := range spans {
		if seen[s.scheme] {
			continue
		}
		seen[s.scheme] = true
		names = append(names, c.schemes[s.scheme].Name)
	}
	return names
}

// StripSchemes returns the normalized text with every scheme mention removed
func (c *Catalog) StripSchemes(text string) string {
	norm, spans := c.matchSpans(text)
	if len(spans) == 0 {
		return norm
	}

	var b strings.Builder
	last := 0
	for _, s := range spans {
		b.WriteString(norm[last:s.start])
		b.WriteByte(' ')
		last = s.end
	}
	b.WriteString(norm[last:])
	return normalize(b.String())
}

func (c *Catalog) matchSpans(text string) (string, []span) {
	norm := normalize(text)
	if norm == "" || len(c.aliases) == 0 {
		return norm, nil
	}

	var accepted []span
	for _, a := range c.aliases {
		for offset := 0; offset < len(norm); {
			i := strings.Index(norm[offset:], a.text)
			if i < 0 {
				break
			}
			s := span{start: offset + i, end: offset + i + len(a.text), scheme: a.scheme}
			offset = s.start + 1
			if !overlapsAccepted(accepted, s) {
				accepted = append(accepted, s)
			}
		}
	}

	sort.Slice(accepted, func(i, j int) bool { return accepted[i].start < accepted[j].start })
	return norm, accepted
}

// overlapsAccepted reports whether s intersects a longer mention already
// accepted; aliases are visited longest first
func overlapsAccepted(accepted []span, s span) bool {
	for _, a := range accepted {
		if s.start < a.end && a.start < s.end {
			return true
		}
	}
	return false
}

func appendField(fields []entity.FieldName, f entity.FieldName) []entity.FieldName {
	for _, existing := range fields {
		if existing == f {
			return fields
		}
	}
	return append(fields, f)
}

// normalize lowercases and collapses whitespace runs into single spaces
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
