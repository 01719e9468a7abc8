package filter

import (
	"strings"

	"github.com/amishk599/resumekit/internal/model"
)

// Ensure SkillAndLocationFilter implements model.ResumeFilter.
var _ model.ResumeFilter = (*SkillAndLocationFilter)(nil)

// SkillAndLocationFilter matches résumés listing any of the skill keywords
// and located in any of the locations.
// Matching is case-insensitive. Empty keyword lists are treated as "match all".
type SkillAndLocationFilter struct {
	skills    []string
	locations []string
}

// NewSkillAndLocationFilter returns a filter that requires both a skill keyword
// match and a location keyword match (case-insensitive substring).
func NewSkillAndLocationFilter(skills []string, locations []string) *SkillAndLocationFilter {
	return &SkillAndLocationFilter{
		skills:    lowerNonEmpty(skills),
		locations: lowerNonEmpty(locations),
	}
}

// Match returns true if any of the résumé's skills contains a skill keyword
// and its location contains a location keyword. Empty keyword lists pass all.
func (f *SkillAndLocationFilter) Match(r model.Resume) bool {
	if len(f.skills) > 0 {
		matched := false
		for _, skill := range r.Data.Skills {
			if containsAny(strings.ToLower(skill), f.skills) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.locations) > 0 {
		if !containsAny(strings.ToLower(r.Data.PersonalInfo.Location), f.locations) {
			return false
		}
	}

	return true
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func lowerNonEmpty(words []string) []string {
	var out []string
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}
