package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/amishk599/resumekit/internal/model"
)

// parseExperience handles one line of the experience section. A pipe-separated
// line opens a new entry; a bulleted line extends the open experience entry.
func (p *Parser) parseExperience(line string, st *state) {
	if strings.Contains(line, "|") && !strings.HasPrefix(line, "-") {
		parts := splitTrim(line, "|")
		if len(parts) >= 2 {
			e := &experienceEntry{model.Experience{Title: parts[0], Company: parts[1]}}
			if len(parts) > 2 {
				e.Duration = parts[2]
			}
			st.openEntry(e)
			return
		}
	}

	text, ok := p.rules.bulletText(line)
	if !ok {
		return
	}
	if e, open := st.open.(*experienceEntry); open {
		e.Description = appendJoined(e.Description, text, "\n")
	}
}

// parseEducation returns the entry for a degree line. Bare headers and lines
// without a degree keyword yield false.
func (p *Parser) parseEducation(line string) (model.Education, bool) {
	lower := strings.ToLower(line)
	if containsAny(lower, p.rules.EducationHeaderKeywords) && len(strings.Fields(line)) <= p.rules.EducationHeaderMaxWords {
		return model.Education{}, false
	}
	if !containsAny(lower, p.rules.DegreeKeywords) {
		return model.Education{}, false
	}

	if !strings.Contains(line, "|") {
		return model.Education{Degree: line}, true
	}
	parts := splitTrim(line, "|")
	edu := model.Education{Degree: parts[0]}
	if len(parts) > 1 {
		edu.School = parts[1]
	}
	if len(parts) > 2 {
		edu.Year = parts[2]
	}
	return edu, true
}

// parseProject handles one line of the projects section. A long plain line
// opens a new project; bullets extend the open project, going to
// Technologies when they mention how it was built.
func (p *Parser) parseProject(line string, st *state) {
	text, bullet := p.rules.bulletText(line)
	if !bullet {
		if p.isProjectHeader(line) {
			st.openEntry(&projectEntry{model.Project{Name: line}})
		}
		return
	}

	e, open := st.open.(*projectEntry)
	if !open {
		return
	}
	if containsAny(strings.ToLower(text), p.rules.TechnologyKeywords) {
		e.Technologies = appendJoined(e.Technologies, text, " ")
	} else {
		e.Description = appendJoined(e.Description, text, "\n")
	}
}

func (p *Parser) isProjectHeader(line string) bool {
	if utf8.RuneCountInString(line) <= p.rules.ProjectHeaderMinLength {
		return false
	}
	return !strings.ContainsAny(line, ",:|") || strings.Count(line, " ") >= 2
}

func splitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
