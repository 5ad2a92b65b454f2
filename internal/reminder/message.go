package reminder

import (
	"html"
	"strings"
	"time"

	"github.com/phrazzld/tasktracker/internal/domain"
)

// SubjectPrefix starts every reminder subject line.
const SubjectPrefix = "Reminder: "

// Message is the rendered content of a reminder notification.
type Message struct {
	Subject string
	// Body is an HTML document.
	Body string
}

// RenderMessage builds the notification for task. User-supplied text is
// HTML-escaped in the body; the subject is plain text.
func RenderMessage(task *domain.Task) Message {
	var b strings.Builder
	b.WriteString("<html>\n<body>\n")
	b.WriteString("<h2>" + html.EscapeString(SubjectPrefix+task.Title) + "</h2>\n")
	if task.Description != nil && strings.TrimSpace(*task.Description) != "" {
		b.WriteString("<p>" + html.EscapeString(*task.Description) + "</p>\n")
	}
	if task.Deadline != nil {
		b.WriteString("<p>Deadline: " + task.Deadline.UTC().Format(time.RFC1123) + "</p>\n")
	}
	b.WriteString("</body>\n</html>\n")

	return Message{
		Subject: SubjectPrefix + task.Title,
		Body:    b.String(),
	}
}
