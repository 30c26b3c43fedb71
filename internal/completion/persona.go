package completion

import (
	"fmt"
	"strings"
	"time"
)

const persona = `You are a friendly voice assistant. Your replies are spoken
aloud, so answer in one or two short conversational sentences, with no
markdown, lists, or code. If you don't know something, say so plainly.`

// systemPrompt composes the persona with the current date, time and, when
// configured, the deployment location, so time-of-day questions get grounded
// answers.
func systemPrompt(now time.Time, location string) string {
	var b strings.Builder

	b.WriteString(persona)
	fmt.Fprintf(&b, "\n\nThe current date is %s.", now.Format("Monday, January 2, 2006"))
	fmt.Fprintf(&b, " The current time is %s.", now.Format("3:04 PM"))
	if location != "" {
		fmt.Fprintf(&b, " You are located in %s.", location)
	}

	return b.String()
}
