package parser

import (
	"strings"

	"github.com/amishk599/resumekit/internal/model"
)

// parsePersonal fills unset contact fields from line. Fields already set are
// left alone, so the first line carrying a value wins.
func (p *Parser) parsePersonal(line string, info *model.PersonalInfo) {
	if info.Email == "" {
		info.Email = p.rules.email.FindString(line)
	}
	if info.Phone == "" {
		info.Phone = p.rules.phone.FindString(line)
	}

	if info.Location != "" {
		return
	}
	lower := strings.ToLower(line)
	for _, prefix := range p.rules.LocationPrefixes {
		if strings.HasPrefix(lower, prefix) {
			info.Location = strings.TrimSpace(line[strings.LastIndex(line, ":")+1:])
			return
		}
	}
}
