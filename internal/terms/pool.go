// internal/terms/pool.go
//
// Term pool: the player-editable set of terms cards are drawn from.
//
// Invariants:
//   • Text is unique case-insensitively across the pool.
//   • Terms are values; edits replace, never mutate.
//
// The pool itself does no I/O. Callers persist Terms() after any
// operation that reports a change.

package terms

import (
	"math/rand/v2"
	"strings"
)

// Term is a single bingo term: its display text and icon glyph identifier.
type Term struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

// Pool holds the ordered term list and the catalog used for defaults and icons.
type Pool struct {
	terms   []Term
	catalog []string
	rng     *rand.Rand
}

// NewPool builds a pool from an existing list. Entries with empty text and
// case-insensitive duplicates are dropped.
func NewPool(list []Term, catalog []string, rng *rand.Rand) *Pool {
	return &Pool{
		terms:   Dedupe(list),
		catalog: append([]string(nil), catalog...),
		rng:     rng,
	}
}

// Defaults maps each catalog entry to a term whose icon equals its text.
func Defaults(catalog []string) []Term {
	out := make([]Term, 0, len(catalog))
	for _, s := range catalog {
		out = append(out, Term{Text: s, Icon: s})
	}
	return out
}

// Dedupe returns list without empty or case-insensitively repeated texts.
func Dedupe(list []Term) []Term {
	seen := make(map[string]struct{}, len(list))
	out := make([]Term, 0, len(list))
	for _, t := range list {
		if t.Text == "" {
			continue
		}
		k := key(t.Text)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Terms returns a copy of the current pool in order.
func (p *Pool) Terms() []Term {
	return append([]Term{}, p.terms...)
}

// Len reports the number of terms in the pool.
func (p *Pool) Len() int { return len(p.terms) }

// Contains reports whether a term matching text case-insensitively exists.
func (p *Pool) Contains(text string) bool {
	k := key(text)
	for _, t := range p.terms {
		if key(t.Text) == k {
			return true
		}
	}
	return false
}

// Add appends a term with a random catalog icon.
// Commas and surrounding whitespace are stripped first; empty or duplicate
// text is a silent no-op. Reports whether the pool changed.
func (p *Pool) Add(text string) bool {
	text = strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	if text == "" || p.Contains(text) {
		return false
	}
	p.terms = append(p.terms, Term{Text: text, Icon: p.randomIcon(text)})
	return true
}

// Remove deletes the first term whose text matches exactly.
func (p *Pool) Remove(text string) bool {
	for i, t := range p.terms {
		if t.Text == text {
			p.terms = append(p.terms[:i:i], p.terms[i+1:]...)
			return true
		}
	}
	return false
}

// ResetToDefaults replaces the pool wholesale with the catalog defaults.
func (p *Pool) ResetToDefaults() bool {
	p.terms = Defaults(p.catalog)
	return true
}

// Clear empties the pool.
func (p *Pool) Clear() bool {
	if len(p.terms) == 0 {
		return false
	}
	p.terms = nil
	return true
}

// randomIcon picks a catalog entry; with no catalog the text is its own icon.
func (p *Pool) randomIcon(text string) string {
	if len(p.catalog) == 0 {
		return text
	}
	return p.catalog[p.rng.IntN(len(p.catalog))]
}

func key(s string) string { return strings.ToLower(s) }
