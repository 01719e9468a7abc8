package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/resumekit/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

const maxSlackSkills = 10

// SlackNotifier sends résumé summaries to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
	pause      time.Duration // between consecutive messages
}

// NewSlackNotifier returns a notifier that posts each résumé to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
		pause:      500 * time.Millisecond,
	}
}

// Notify sends each résumé as a separate Slack message using Block Kit.
// Returns an error only if ALL messages fail. Individual failures are logged.
func (s *SlackNotifier) Notify(resumes []model.Resume) error {
	if len(resumes) == 0 {
		return nil
	}

	failures := 0
	for i, r := range resumes {
		if i > 0 && s.pause > 0 {
			time.Sleep(s.pause)
		}

		if err := s.sendMessage(r); err != nil {
			s.logger.Error("slack notification failed", "resume", r.Name, "id", r.ID, "error", err)
			failures++
		}
	}

	sent := len(resumes) - failures
	if failures == len(resumes) {
		return fmt.Errorf("all %d slack notifications failed", failures)
	}
	s.logger.Info("slack notifications complete", "sent", sent, "failed", failures)
	return nil
}

func (s *SlackNotifier) sendMessage(r model.Resume) error {
	body, err := json.Marshal(buildPayload(r))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		if secs <= 0 {
			secs = 1
		}
		s.logger.Warn("slack rate limited, retrying", "retry_after_secs", secs)
		time.Sleep(time.Duration(secs) * time.Second)

		resp2, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("post to slack (retry): %w", err)
		}
		defer resp2.Body.Close()

		if resp2.StatusCode != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", resp2.StatusCode)
		}
		s.logger.Info("slack message sent", "resume", r.Name, "retried", true)
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned %d", resp.StatusCode)
	}
	s.logger.Info("slack message sent", "resume", r.Name)
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type   string      `json:"type"`
	Text   *slackText  `json:"text,omitempty"`
	Fields []slackText `json:"fields,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SendTestMessage sends a dummy résumé notification to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	now := time.Now()
	test := model.Resume{
		ID:      "test-001",
		OwnerID: "test",
		Name:    "Integration Test",
		Data: model.StructuredResumeData{
			PersonalInfo: model.PersonalInfo{
				Name:     "Integration Test",
				Email:    "test@example.com",
				Location: "Everywhere",
			},
			Skills:     []string{"Go", "SQLite", "Slack"},
			Experience: []model.Experience{{Title: "Notifier", Company: "resumekit"}},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return n.Notify([]model.Resume{test})
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

func latestRole(d model.StructuredResumeData) string {
	if len(d.Experience) == 0 {
		return ""
	}
	e := d.Experience[0]
	if e.Company == "" {
		return e.Title
	}
	return e.Title + " @ " + e.Company
}

func skillsLine(skills []string) string {
	if len(skills) == 0 {
		return "none found"
	}
	if len(skills) <= maxSlackSkills {
		return strings.Join(skills, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(skills[:maxSlackSkills], ", "), len(skills)-maxSlackSkills)
}

func buildPayload(r model.Resume) slackPayload {
	info := r.Data.PersonalInfo

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "📄 New résumé: " + r.Name},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Email:*\n" + orNA(info.Email)},
				{Type: "mrkdwn", Text: "*Phone:*\n" + orNA(info.Phone)},
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Location:*\n" + orNA(info.Location)},
				{Type: "mrkdwn", Text: "*Latest role:*\n" + orNA(latestRole(r.Data))},
			},
		},
		{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "*Skills:* " + skillsLine(r.Data.Skills)},
		},
		{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: fmt.Sprintf(
				"Education: %d   Experience: %d   Projects: %d   ID: `%s`",
				len(r.Data.Education), len(r.Data.Experience), len(r.Data.Projects), r.ID,
			)},
		},
		{Type: "divider"},
	}

	return slackPayload{Blocks: blocks}
}
