// Package mailer renders and sends the booking confirmation email with
// an attached calendar invite.  Transport failures propagate to the
// caller; deciding whether a failed send is fatal belongs to the
// booking workflow, not here.
package mailer

import (
	"context"
	"fmt"
	"io"
	"time"

	"gopkg.in/gomail.v2"
)

// Confirmation carries everything needed to render one confirmation
// email: recipient, session details, the calendar window and the venue.
type Confirmation struct {
	To           string
	UserName     string
	SessionTime  string // human-readable label shown in the email body
	OrderID      string
	Amount       int64 // rupees
	Start        time.Time
	End          time.Time
	CafeName     string
	CafeAddress  string
	CafeMapsLink string
}

// Mailer sends confirmation email over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New constructs a Mailer.  user/pass authenticate against the SMTP
// server; from is the address confirmations are sent from and doubles
// as the calendar organizer.
func New(host string, port int, user, pass, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

// SendConfirmation renders the confirmation email, attaches a freshly
// generated calendar invite and delivers it.  The context is consulted
// before dialing; gomail itself does not support cancellation
// mid-delivery.
func (m *Mailer) SendConfirmation(ctx context.Context, c Confirmation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ics := GenerateICS(Invite{
		Title:          "FlowState Session",
		Start:          c.Start,
		End:            c.End,
		OrganizerEmail: m.from,
		AttendeeEmail:  c.To,
		Description: fmt.Sprintf(
			"FlowState Coworking Session\n\nLocation: %s\n%s\n\nGoogle Maps: %s\n\nAmount: ₹%d\nOrder ID: %s",
			c.CafeName, c.CafeAddress, c.CafeMapsLink, c.Amount, c.OrderID),
		Location: fmt.Sprintf("%s, %s", c.CafeName, c.CafeAddress),
	})

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", c.To)
	msg.SetHeader("Subject", "Payment Confirmation - Session Booked")
	msg.SetBody("text/html", renderConfirmationHTML(c))
	msg.Attach("session-invite.ics",
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := io.WriteString(w, ics)
			return err
		}),
		gomail.SetHeader(map[string][]string{
			"Content-Type": {"text/calendar; method=REQUEST"},
		}),
	)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mailer: send confirmation: %w", err)
	}
	return nil
}

// renderConfirmationHTML builds the HTML body.  Kept as a plain
// Sprintf template; the markup is small and static.
func renderConfirmationHTML(c Confirmation) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <head>
    <style>
      body { font-family: Arial, sans-serif; color: #333; }
      .container { max-width: 600px; margin: 0 auto; padding: 20px; }
      .header { background-color: #7F654E; color: white; padding: 20px; border-radius: 5px; }
      .content { padding: 20px; background-color: #f5f5f5; margin: 20px 0; border-radius: 5px; }
      .detail-row { display: flex; justify-content: space-between; padding: 10px 0; border-bottom: 1px solid #ddd; }
      .footer { text-align: center; color: #999; font-size: 12px; margin-top: 20px; }
      .calendar-notice { background-color: #e8f5e9; padding: 15px; border-left: 4px solid #4caf50; margin: 15px 0; }
      .location-box { background-color: #fff3cd; padding: 15px; border-left: 4px solid #ffc107; margin: 15px 0; }
      .map-button { display: inline-block; background-color: #7F654E; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; margin-top: 10px; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header"><h1>FlowState Session Confirmed ✓</h1></div>
      <div class="content">
        <p>Hi %s,</p>
        <p>Thank you for booking a FlowState session! Your payment has been confirmed.</p>
        <h3>Session Details</h3>
        <div class="detail-row"><span><strong>Session Time:</strong></span><span>%s</span></div>
        <div class="detail-row"><span><strong>Order ID:</strong></span><span>%s</span></div>
        <div class="detail-row"><span><strong>Amount Paid:</strong></span><span>₹%d</span></div>
        <div class="location-box">
          <strong>📍 Cafe Location</strong>
          <p style="margin: 10px 0 5px 0;"><strong>%s</strong></p>
          <p style="margin: 5px 0;">%s</p>
          <a href="%s" class="map-button" target="_blank">Open in Google Maps</a>
        </div>
        <div class="calendar-notice">
          <strong>📅 Calendar Invite Attached</strong>
          <p>A calendar invite with the cafe location is attached to this email. Click "Accept" to add this session to your calendar.</p>
        </div>
        <p>We look forward to seeing you at the session!</p>
        <p>Thank you!</p>
      </div>
      <div class="footer"><p>This is an automated email. Please do not reply to this email.</p></div>
    </div>
  </body>
</html>`,
		c.UserName, c.SessionTime, c.OrderID, c.Amount, c.CafeName, c.CafeAddress, c.CafeMapsLink)
}
