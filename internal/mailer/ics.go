package mailer

import (
	"fmt"
	"strings"
	"time"
)

// Invite describes a single calendar event to be rendered as an
// iCalendar document.  One invite produces exactly one VEVENT.
type Invite struct {
	UID            string    // unique id; derived from current time when empty
	Title          string    // SUMMARY line
	Start          time.Time // session start instant
	End            time.Time // session end instant
	OrganizerEmail string    // ORGANIZER mailto
	AttendeeEmail  string    // ATTENDEE mailto
	Description    string    // plain text; newlines are escaped per RFC 5545
	Location       string    // optional LOCATION line
}

// icsTime renders an instant as a UTC timestamp at second precision
// (no fractional seconds), the form calendar clients expect.
func icsTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeText escapes commas, semicolons, backslashes and newlines in
// ICS property values.
func escapeText(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
	)
	return r.Replace(s)
}

// GenerateICS renders the invite as an iCalendar document with CRLF
// line endings, METHOD:REQUEST so mail clients offer an Accept button,
// and STATUS:CONFIRMED.  A fresh document is generated per call.
func GenerateICS(inv Invite) string {
	uid := inv.UID
	if uid == "" {
		uid = fmt.Sprintf("%d@flowstate.com", time.Now().UnixNano())
	}
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//FlowState//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:REQUEST",
		"BEGIN:VEVENT",
		"UID:" + uid,
		"DTSTAMP:" + icsTime(time.Now()),
		"DTSTART:" + icsTime(inv.Start),
		"DTEND:" + icsTime(inv.End),
		"SUMMARY:" + escapeText(inv.Title),
		"DESCRIPTION:" + escapeText(inv.Description),
	}
	if inv.Location != "" {
		lines = append(lines, "LOCATION:"+escapeText(inv.Location))
	}
	lines = append(lines,
		"ORGANIZER;CN=FlowState:mailto:"+inv.OrganizerEmail,
		"ATTENDEE;RSVP=TRUE:mailto:"+inv.AttendeeEmail,
		"STATUS:CONFIRMED",
		"SEQUENCE:0",
		"END:VEVENT",
		"END:VCALENDAR",
	)
	return strings.Join(lines, "\r\n") + "\r\n"
}
