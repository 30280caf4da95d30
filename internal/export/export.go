package export

import (
	"fmt"
	"strings"

	"github.com/tutorlab/ds-tutor/internal/store"
)

// timestampLayout renders store-assigned timestamps at second resolution.
const timestampLayout = "2006-01-02 15:04:05"

// Transcript renders turns as a plain-text document: one paragraph per turn
// formatted as ROLE[timestamp]: content, turns separated by a blank line, in
// chronological order.
func Transcript(turns []store.Turn) string {
	paragraphs := make([]string, 0, len(turns))
	for _, t := range turns {
		paragraphs = append(paragraphs,
			fmt.Sprintf("%s[%s]: %s", strings.ToUpper(t.Role), t.Timestamp.Format(timestampLayout), t.Content))
	}
	return strings.Join(paragraphs, "\n\n")
}

// Filename names the download for a session's transcript.
func Filename(sessionID string) string {
	return fmt.Sprintf("chat_%s.txt", sessionID)
}
