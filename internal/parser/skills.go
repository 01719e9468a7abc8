package parser

import (
	"strings"
	"unicode/utf8"
)

// parseSkills returns the skill tokens on one line of the skills section.
func (p *Parser) parseSkills(line string) []string {
	r := p.rules
	words := len(strings.Fields(line))
	if containsAny(strings.ToLower(line), r.SkillsHeaderKeywords) && words <= r.SkillsHeaderMaxWords {
		return nil
	}

	candidate := line
	if _, after, ok := strings.Cut(line, ":"); ok {
		candidate = after
	}
	candidate = strings.TrimSpace(candidate)

	var tokens []string
	split := false
	for _, d := range r.SkillDelimiters {
		if strings.Contains(candidate, d) {
			tokens = strings.Split(candidate, d)
			split = true
			break
		}
	}
	if !split && candidate != "" && len(strings.Fields(candidate)) <= r.SkillMaxWords {
		tokens = []string{candidate}
	}

	skills := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if utf8.RuneCountInString(t) >= r.MinSkillLength {
			skills = append(skills, t)
		}
	}
	return skills
}
