package domain

import "strings"

// TagMode selects how a document's tags must relate to the selected tags.
// The two modes belong to two different views and are deliberately distinct:
// the management view narrows with every extra tag, the public browse view
// widens. Do not unify them.
type TagMode int

const (
	// TagModeAll requires every selected tag to be present (management view).
	TagModeAll TagMode = iota
	// TagModeAny requires at least one selected tag (public browse view).
	TagModeAny
)

// Default bounds of the public view's year slider.
const (
	ArchiveYearMin = 1840
	ArchiveYearMax = 2025
)

// YearRange is inclusive on both ends.
type YearRange struct {
	Start int
	End   int
}

// SectionAll / StatusAll disable the respective predicate.
const (
	SectionAll = "all"
	StatusAll  = "all"
)

// Filter is a conjunction of predicates over an in-memory document snapshot.
type Filter struct {
	SearchTerm string
	// SearchDescription extends the substring search to the description
	// (management view only).
	SearchDescription bool
	Tags              []string
	TagMode           TagMode
	Status            Status // "" or "all" matches any status
	Section           string // "" or "all" matches any section
	// Years, when non-nil, keeps only documents whose date parses to a year
	// inside the range. Unparsable dates never match a range.
	Years *YearRange
}

// Apply returns the documents satisfying every predicate, preserving the
// input order (callers fetch pre-sorted by creation time descending).
func (f Filter) Apply(docs []Document) []Document {
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if f.matches(d) {
			out = append(out, d)
		}
	}
	return out
}

func (f Filter) matches(d Document) bool {
	if f.Section != "" && f.Section != SectionAll && d.Section != f.Section {
		return false
	}

	if f.Status != "" && f.Status != StatusAll && d.Status != f.Status {
		return false
	}

	if len(f.Tags) > 0 && !f.matchesTags(d.Tags) {
		return false
	}

	if f.SearchTerm != "" {
		term := strings.ToLower(f.SearchTerm)
		hit := strings.Contains(strings.ToLower(d.Title), term)
		if !hit && f.SearchDescription {
			hit = strings.Contains(strings.ToLower(d.Description), term)
		}
		if !hit {
			return false
		}
	}

	if f.Years != nil {
		year, ok := ParseYear(d.Date)
		if !ok || year < f.Years.Start || year > f.Years.End {
			return false
		}
	}

	return true
}

func (f Filter) matchesTags(docTags []string) bool {
	has := make(map[string]struct{}, len(docTags))
	for _, t := range docTags {
		has[t] = struct{}{}
	}

	if f.TagMode == TagModeAny {
		for _, t := range f.Tags {
			if _, ok := has[t]; ok {
				return true
			}
		}
		return false
	}

	for _, t := range f.Tags {
		if _, ok := has[t]; !ok {
			return false
		}
	}
	return true
}

// ParseYear extracts the leading integer of a free-text date ("1914",
// "1936/37", "ca. 1920" does NOT parse). Dates without a leading number
// report ok=false and are excluded from any year range.
func ParseYear(date string) (int, bool) {
	s := strings.TrimSpace(date)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}

	year := 0
	for _, c := range s[:i] {
		year = year*10 + int(c-'0')
		if year > 1<<31 {
			return 0, false
		}
	}
	return year, true
}
