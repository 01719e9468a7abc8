package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// Section is a logical résumé region tracked while walking the lines.
type Section int

const (
	SectionNone Section = iota
	SectionPersonal
	SectionEducation
	SectionExperience
	SectionSkills
	SectionProjects
	SectionSummary
)

var sectionNames = map[Section]string{
	SectionNone:       "none",
	SectionPersonal:   "personal",
	SectionEducation:  "education",
	SectionExperience: "experience",
	SectionSkills:     "skills",
	SectionProjects:   "projects",
	SectionSummary:    "summary",
}

func (s Section) String() string {
	if name, ok := sectionNames[s]; ok {
		return name
	}
	return fmt.Sprintf("section(%d)", int(s))
}

// ParseSection maps a config key such as "experience" to its Section.
func ParseSection(name string) (Section, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for s, n := range sectionNames {
		if s != SectionNone && n == want {
			return s, nil
		}
	}
	return SectionNone, fmt.Errorf("unknown section %q", name)
}

// SectionKeywords binds a section to the substrings that announce it.
type SectionKeywords struct {
	Section  Section
	Keywords []string
}

// Rules is the tunable data behind the heuristics. Order matters in
// Sections: a line matching several sets is classified by the first.
type Rules struct {
	Sections []SectionKeywords

	// HeaderMaxWords, when positive, restricts reclassification to lines of at
	// most that many words. Zero lets every line switch sections.
	HeaderMaxWords int

	EmailPattern     string
	PhonePattern     string
	LocationPrefixes []string

	// SkillsHeaderKeywords and SkillsHeaderMaxWords recognise a bare skills
	// heading inside the section; such a line yields no skills.
	SkillsHeaderKeywords []string
	SkillsHeaderMaxWords int
	SkillDelimiters      []string
	SkillMaxWords        int
	MinSkillLength       int

	EducationHeaderKeywords []string
	EducationHeaderMaxWords int
	DegreeKeywords          []string

	BulletMarkers          []string
	ProjectHeaderMinLength int
	TechnologyKeywords     []string
}

// DefaultRules returns the stock keyword and pattern tables.
func DefaultRules() Rules {
	return Rules{
		Sections: []SectionKeywords{
			{SectionPersonal, []string{"personal information", "contact", "personal details"}},
			{SectionEducation, []string{"education", "academic", "qualifications"}},
			{SectionExperience, []string{"experience", "work history", "employment", "professional experience"}},
			{SectionSkills, []string{"skills", "technical skills", "competencies"}},
			{SectionProjects, []string{"projects", "personal projects", "portfolio"}},
			{SectionSummary, []string{"summary", "objective", "profile"}},
		},
		EmailPattern:            `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`,
		PhonePattern:            `(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`,
		LocationPrefixes:        []string{"address:", "location:", "city:"},
		SkillsHeaderKeywords:    []string{"skills"},
		SkillsHeaderMaxWords:    3,
		SkillDelimiters:         []string{",", "•", "|", ";"},
		SkillMaxWords:           4,
		MinSkillLength:          3,
		EducationHeaderKeywords: []string{"education"},
		EducationHeaderMaxWords: 2,
		DegreeKeywords:          []string{"bachelor", "master", "phd", "degree", "diploma", "certificate"},
		BulletMarkers:           []string{"-", "•"},
		ProjectHeaderMinLength:  10,
		TechnologyKeywords:      []string{"built", "using", "technology", "stack"},
	}
}

// compiledRules is Rules after validation: lowercased keywords and compiled
// patterns, safe to share between goroutines.
type compiledRules struct {
	Rules
	email *regexp.Regexp
	phone *regexp.Regexp
}

func (r Rules) compile() (*compiledRules, error) {
	if len(r.Sections) == 0 {
		return nil, fmt.Errorf("no section keywords configured")
	}

	seen := make(map[Section]bool)
	sections := make([]SectionKeywords, 0, len(r.Sections))
	for _, sk := range r.Sections {
		if _, ok := sectionNames[sk.Section]; !ok || sk.Section == SectionNone {
			return nil, fmt.Errorf("invalid section %v in keyword table", sk.Section)
		}
		if seen[sk.Section] {
			return nil, fmt.Errorf("section %s listed twice", sk.Section)
		}
		seen[sk.Section] = true

		kws, err := lowerAll(sk.Keywords)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", sk.Section, err)
		}
		sections = append(sections, SectionKeywords{Section: sk.Section, Keywords: kws})
	}
	r.Sections = sections

	email, err := regexp.Compile(r.EmailPattern)
	if err != nil {
		return nil, fmt.Errorf("compile email pattern: %w", err)
	}
	phone, err := regexp.Compile(r.PhonePattern)
	if err != nil {
		return nil, fmt.Errorf("compile phone pattern: %w", err)
	}

	if r.LocationPrefixes, err = lowerAll(r.LocationPrefixes); err != nil {
		return nil, fmt.Errorf("location prefixes: %w", err)
	}
	if r.SkillsHeaderKeywords, err = lowerAll(r.SkillsHeaderKeywords); err != nil {
		return nil, fmt.Errorf("skills header keywords: %w", err)
	}
	if r.EducationHeaderKeywords, err = lowerAll(r.EducationHeaderKeywords); err != nil {
		return nil, fmt.Errorf("education header keywords: %w", err)
	}
	if r.DegreeKeywords, err = lowerAll(r.DegreeKeywords); err != nil {
		return nil, fmt.Errorf("degree keywords: %w", err)
	}
	if r.TechnologyKeywords, err = lowerAll(r.TechnologyKeywords); err != nil {
		return nil, fmt.Errorf("technology keywords: %w", err)
	}
	if len(r.BulletMarkers) == 0 {
		return nil, fmt.Errorf("at least one bullet marker is required")
	}
	for _, m := range r.BulletMarkers {
		if m == "" {
			return nil, fmt.Errorf("empty bullet marker")
		}
	}
	for _, d := range r.SkillDelimiters {
		if d == "" {
			return nil, fmt.Errorf("empty skill delimiter")
		}
	}

	if r.MinSkillLength < 1 {
		return nil, fmt.Errorf("min skill length must be at least 1, got %d", r.MinSkillLength)
	}
	if r.HeaderMaxWords < 0 || r.SkillsHeaderMaxWords < 0 || r.SkillMaxWords < 0 ||
		r.EducationHeaderMaxWords < 0 || r.ProjectHeaderMinLength < 0 {
		return nil, fmt.Errorf("word and length limits must not be negative")
	}

	return &compiledRules{Rules: r, email: email, phone: phone}, nil
}

func lowerAll(words []string) ([]string, error) {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			return nil, fmt.Errorf("empty keyword")
		}
		out = append(out, w)
	}
	return out, nil
}

// classify returns the section a line announces, if any.
func (r *compiledRules) classify(line string) (Section, bool) {
	if r.HeaderMaxWords > 0 && len(strings.Fields(line)) > r.HeaderMaxWords {
		return SectionNone, false
	}
	lower := strings.ToLower(line)
	for _, sk := range r.Sections {
		if containsAny(lower, sk.Keywords) {
			return sk.Section, true
		}
	}
	return SectionNone, false
}

// bulletText reports whether line starts with a bullet marker and returns the
// text after it.
func (r *compiledRules) bulletText(line string) (string, bool) {
	for _, m := range r.BulletMarkers {
		if strings.HasPrefix(line, m) {
			return strings.TrimSpace(strings.TrimPrefix(line, m)), true
		}
	}
	return "", false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
