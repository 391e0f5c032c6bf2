package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/goalcheck/packages/http"
)

// SlackNotifier sends notifications to Slack via webhook
type SlackNotifier struct {
	webhookURL string
	channel    string
	username   string
	iconEmoji  string
	client     *http.Client
	now        func() time.Time
}

// SlackOption is a functional option for SlackNotifier
type SlackOption func(*SlackNotifier)

// WithSlackChannel sets the Slack channel
func WithSlackChannel(channel string) SlackOption {
	return func(s *SlackNotifier) {
		s.channel = channel
	}
}

// WithSlackClient sets the HTTP client used to post the message
func WithSlackClient(client *http.Client) SlackOption {
	return func(s *SlackNotifier) {
		s.client = client
	}
}

// NewSlackNotifier creates a new Slack notifier
func NewSlackNotifier(webhookURL string, opts ...SlackOption) *SlackNotifier {
	s := &SlackNotifier{
		webhookURL: webhookURL,
		username:   "goalcheck",
		iconEmoji:  ":dart:",
		client:     http.NewClient(http.WithTimeout(10 * time.Second)),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the name of the notifier
func (s *SlackNotifier) Name() string {
	return "slack"
}

type slackMessage struct {
	Channel     string            `json:"channel,omitempty"`
	Username    string            `json:"username,omitempty"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Attachments []slackAttachment `json:"attachments"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Text   string       `json:"text,omitempty"`
	Fields []slackField `json:"fields,omitempty"`
	Footer string       `json:"footer,omitempty"`
	TS     int64        `json:"ts,omitempty"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

func (s *SlackNotifier) message(summary *Summary) slackMessage {
	color := "good"
	title := ":white_check_mark: All GoalForge checks passed"

	switch {
	case summary.AbortReason != "":
		color = "danger"
		title = ":x: " + summary.AbortReason
	case !summary.Success():
		color = "danger"
		title = fmt.Sprintf(":x: %d check(s) failed", summary.Failed)
	case summary.IsRecovery:
		title = ":tada: GoalForge checks recovered"
	}

	fields := []slackField{
		{Title: "Target", Value: summary.BaseURL, Short: false},
		{Title: "Passed", Value: fmt.Sprintf("%d", summary.Passed), Short: true},
		{Title: "Failed", Value: fmt.Sprintf("%d", summary.Failed), Short: true},
		{Title: "Success Rate", Value: fmt.Sprintf("%.1f%%", summary.SuccessRate), Short: true},
		{Title: "Duration", Value: summary.Duration.Round(time.Millisecond).String(), Short: true},
	}

	var text strings.Builder
	if len(summary.Failures) > 0 {
		text.WriteString("*Failed checks:*\n")
		for _, f := range summary.Failures {
			fmt.Fprintf(&text, "• `%s`: %s\n", f.Name, f.Details)
		}
	}

	return slackMessage{
		Channel:   s.channel,
		Username:  s.username,
		IconEmoji: s.iconEmoji,
		Attachments: []slackAttachment{{
			Color:  color,
			Title:  title,
			Text:   text.String(),
			Fields: fields,
			Footer: "goalcheck",
			TS:     s.now().Unix(),
		}},
	}
}

// Notify sends a notification to Slack
func (s *SlackNotifier) Notify(ctx context.Context, summary *Summary) error {
	req := http.NewRequest("POST", s.webhookURL)
	if err := req.SetJSON(s.message(summary)); err != nil {
		return fmt.Errorf("failed to marshal Slack message: %w", err)
	}

	resp, err := s.client.DoContext(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to send Slack notification: %w", err)
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("slack API returned status %d: %s", resp.StatusCode, resp.BodyString())
	}

	return nil
}
