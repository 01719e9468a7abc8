// Package parser turns the plain text of a résumé into model.StructuredResumeData.
//
// It walks the text line by line, tracking the section the last keyword line
// announced, and hands each line to the extractor for that section. Experience
// and project entries span several lines and are accumulated until the next
// entry header or the end of input.
package parser

import (
	"strings"

	"github.com/amishk599/resumekit/internal/model"
)

// Parser structures résumé text. It is immutable after construction and safe
// for concurrent use; each Parse call owns its working state.
type Parser struct {
	rules *compiledRules
}

// New validates rules and returns a Parser using them.
func New(rules Rules) (*Parser, error) {
	cr, err := rules.compile()
	if err != nil {
		return nil, err
	}
	return &Parser{rules: cr}, nil
}

// Default returns a Parser using DefaultRules.
func Default() *Parser {
	p, err := New(DefaultRules())
	if err != nil {
		panic("parser: default rules invalid: " + err.Error())
	}
	return p
}

// Parse structures text. nameLabel seeds PersonalInfo.Name and is never
// replaced by anything found in the text. Parse never fails: lines that fit
// no heuristic are ignored.
func (p *Parser) Parse(text, nameLabel string) model.StructuredResumeData {
	st := newState(nameLabel)

	for _, line := range normalizeLines(text) {
		if sec, ok := p.rules.classify(line); ok {
			st.section = sec
		}

		switch st.section {
		case SectionPersonal:
			p.parsePersonal(line, &st.out.PersonalInfo)
		case SectionSkills:
			st.skills = append(st.skills, p.parseSkills(line)...)
		case SectionExperience:
			p.parseExperience(line, st)
		case SectionEducation:
			if edu, ok := p.parseEducation(line); ok {
				st.out.Education = append(st.out.Education, edu)
			}
		case SectionProjects:
			p.parseProject(line, st)
		}
	}

	return st.finish()
}

// normalizeLines splits text into trimmed, non-empty lines.
func normalizeLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// entry is the single open multi-line accumulator: either an
// *experienceEntry or a *projectEntry.
type entry interface {
	flushInto(out *model.StructuredResumeData)
}

type experienceEntry struct {
	model.Experience
}

func (e *experienceEntry) flushInto(out *model.StructuredResumeData) {
	if e.Title != "" {
		out.Experience = append(out.Experience, e.Experience)
	}
}

type projectEntry struct {
	model.Project
}

func (e *projectEntry) flushInto(out *model.StructuredResumeData) {
	if e.Name != "" {
		out.Projects = append(out.Projects, e.Project)
	}
}

// state is the working state of one Parse call.
type state struct {
	section Section
	open    entry
	skills  []string
	out     model.StructuredResumeData
}

func newState(nameLabel string) *state {
	return &state{
		out: model.StructuredResumeData{
			PersonalInfo: model.PersonalInfo{Name: nameLabel},
			Education:    []model.Education{},
			Skills:       []string{},
			Experience:   []model.Experience{},
			Projects:     []model.Project{},
		},
	}
}

// openEntry flushes whatever entry is open and makes e the open one.
func (s *state) openEntry(e entry) {
	if s.open != nil {
		s.open.flushInto(&s.out)
	}
	s.open = e
}

func (s *state) finish() model.StructuredResumeData {
	if s.open != nil {
		s.open.flushInto(&s.out)
		s.open = nil
	}
	s.out.Skills = dedupSkills(s.skills)
	return s.out
}

// dedupSkills drops exact repeats, keeping the first occurrence of each.
func dedupSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func appendJoined(dst, text, sep string) string {
	if dst == "" {
		return text
	}
	return dst + sep + text
}
