package notifier

import (
	"log/slog"

	"github.com/amishk599/resumekit/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes newly ingested résumés to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each résumé via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each résumé with its name, contact fields and section counts.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(resumes []model.Resume) error {
	for _, r := range resumes {
		args := []any{"id", r.ID, "name", r.Name}
		if r.Data.PersonalInfo.Email != "" {
			args = append(args, "email", r.Data.PersonalInfo.Email)
		}
		if r.Data.PersonalInfo.Location != "" {
			args = append(args, "location", r.Data.PersonalInfo.Location)
		}
		args = append(args,
			"skills", len(r.Data.Skills),
			"experience", len(r.Data.Experience),
			"education", len(r.Data.Education),
			"projects", len(r.Data.Projects),
		)
		n.logger.Info("new resume", args...)
	}
	return nil
}
