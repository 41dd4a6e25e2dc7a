package notifier

import (
	"fmt"
	"strings"

	"pagewatch/internal/models"
)

const (
	subjectPrefix = "pagewatch"
	timeLayout    = "2006-01-02 15:04:05 MST"
)

// FormatSubject renders the one-line summary used as email subject and
// webhook headline.
func FormatSubject(event models.ChangeEvent) string {
	return fmt.Sprintf("%s: %s changed", subjectPrefix, event.TargetName)
}

// FormatBody renders the notification body: target identity, detection
// time, and the rendered diff when one is available.
func FormatBody(event models.ChangeEvent) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Change detected for %s\n", event.TargetName)
	fmt.Fprintf(&sb, "URL: %s\n", event.URL)
	fmt.Fprintf(&sb, "Detected at: %s\n", event.DetectedAt.Format(timeLayout))

	if event.Diff != "" {
		sb.WriteString("\nDifferences:\n")
		sb.WriteString("--------------------------------\n")
		sb.WriteString(event.Diff)
		sb.WriteString("\n--------------------------------\n")
	}

	return sb.String()
}
