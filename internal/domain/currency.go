package domain

import (
	"slices"
	"strings"
)

// MaxFilterResults caps the number of codes the picker shows at once.
const MaxFilterResults = 100

// CurrencySet is the authoritative set of currency codes known to a session,
// taken from the last successful full rate fetch. It is immutable once built;
// a failed refresh keeps the previous set in place.
type CurrencySet struct {
	codes []string // sorted, unique, uppercase
}

// NewCurrencySet builds a set from arbitrary codes: uppercased, de-duplicated
// and sorted.
func NewCurrencySet(codes []string) CurrencySet {
	uniq := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			uniq[c] = struct{}{}
		}
	}

	out := make([]string, 0, len(uniq))
	for c := range uniq {
		out = append(out, c)
	}
	slices.Sort(out)
	return CurrencySet{codes: out}
}

// Empty reports whether the set holds no codes.
func (s CurrencySet) Empty() bool { return len(s.codes) == 0 }

// Len returns the number of codes in the set.
func (s CurrencySet) Len() int { return len(s.codes) }

// Contains reports membership of code (case-insensitive).
func (s CurrencySet) Contains(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	_, found := slices.BinarySearch(s.codes, code)
	return found
}

// Filter returns the alphabetical subsequence of codes containing the
// uppercased query as a substring, capped at MaxFilterResults. An empty
// query returns the first MaxFilterResults codes.
func (s CurrencySet) Filter(query string) []string {
	q := strings.ToUpper(strings.TrimSpace(query))

	out := make([]string, 0, min(len(s.codes), MaxFilterResults))
	for _, c := range s.codes {
		if q != "" && !strings.Contains(c, q) {
			continue
		}
		out = append(out, c)
		if len(out) == MaxFilterResults {
			break
		}
	}
	return out
}

// All returns a copy of every code in alphabetical order.
func (s CurrencySet) All() []string {
	return slices.Clone(s.codes)
}
