package email

import (
	"fmt"
	"html"
	"time"
)

const layout = `<html><body><div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">%s<p>Best regards,<br>The AlumniConnect Team</p></div></body></html>`

// WelcomeMessage is sent after registration
func WelcomeMessage(to, name, dashboardURL string) Message {
	body := fmt.Sprintf(`<h2>Welcome to AlumniConnect!</h2><p>Hello %s,</p><p>Your account is ready. Head to <a href="%s">your dashboard</a> to get started.</p>`,
		html.EscapeString(name), html.EscapeString(dashboardURL))
	return Message{To: to, Subject: "Welcome to AlumniConnect", HTML: fmt.Sprintf(layout, body)}
}

// SessionAcceptedMessage tells a student that a mentor confirmed the session
func SessionAcceptedMessage(to, studentName, mentorName, topic string, at time.Time, meetingLink string) Message {
	link := ""
	if meetingLink != "" {
		link = fmt.Sprintf(`<p>Meeting link: <a href="%[1]s">%[1]s</a></p>`, html.EscapeString(meetingLink))
	}
	body := fmt.Sprintf(`<h2>Your mentorship session is confirmed</h2><p>Hello %s,</p><p>%s accepted your session <strong>%s</strong> on %s.</p>%s`,
		html.EscapeString(studentName), html.EscapeString(mentorName), html.EscapeString(topic),
		at.UTC().Format("Mon, 02 Jan 2006 15:04 MST"), link)
	return Message{To: to, Subject: "Mentorship session confirmed", HTML: fmt.Sprintf(layout, body)}
}
