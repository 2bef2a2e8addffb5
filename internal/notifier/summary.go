package notifier

import (
	"strings"

	"github.com/amishk599/careerwatch/internal/model"
)

// AlertSubject is the fixed subject line of every alert.
const AlertSubject = "🆕 New Job Listings Found"

// composeBody joins each job's summary line with a blank line between them.
func composeBody(jobs []model.Job) string {
	lines := make([]string, 0, len(jobs))
	for _, j := range jobs {
		lines = append(lines, j.Summary())
	}
	return strings.Join(lines, "\n\n")
}

// SendTestMessage sends a dummy listing to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	testJob := model.Job{
		ID:       "test-001",
		Source:   model.SourceNetflix,
		Title:    "Test Notification",
		Team:     "careerwatch",
		Location: "Everywhere",
	}
	return n.Notify([]model.Job{testJob})
}
