// Package booking implements the payment-confirmation workflow: the
// one path in the system where correctness failures (double booking,
// lost payments, oversold events) would cause real harm.  Every
// collaborator is an injected interface so tests can substitute fakes.
package booking

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/flowstate-hq/booking-api/internal/mailer"
	"github.com/flowstate-hq/booking-api/internal/model"
	"github.com/flowstate-hq/booking-api/internal/queue"
)

// ErrMissingFields is returned when a confirmation request omits a
// required field.  No state is created.
var ErrMissingFields = errors.New("missing required fields")

// ErrInvalidSignature is returned when the supplied payment signature
// does not match the recomputed HMAC.  No booking row is created; this
// is the integrity gate against forged payment callbacks.
var ErrInvalidSignature = errors.New("invalid payment signature")

// EventStore loads events.
type EventStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
}

// BookingStore persists bookings.  CreateCompleted must perform the
// capacity check and the insert atomically and return
// repository.ErrEventFull, repository.ErrDuplicateBooking or
// repository.ErrEventNotFound accordingly.
type BookingStore interface {
	CreateCompleted(ctx context.Context, b *model.Booking) error
}

// SignatureVerifier checks a payment signature.  Pure computation.
type SignatureVerifier interface {
	VerifySignature(orderID, paymentID, signature string) bool
}

// ConfirmationSender delivers the confirmation email with its calendar
// invite.
type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, c mailer.Confirmation) error
}

// EventPublisher emits domain events.  Both publishes are best effort;
// the workflow never fails a persisted booking over them.
type EventPublisher interface {
	BookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
	NotificationRetry(ctx context.Context, ev queue.NotificationRetryEvent) error
}

// Service orchestrates signature verification, the atomic
// capacity-check-and-insert, and confirmation dispatch.
type Service struct {
	events    EventStore
	bookings  BookingStore
	verifier  SignatureVerifier
	mailer    ConfirmationSender
	publisher EventPublisher // may be nil when no broker is configured
}

// NewService constructs the workflow.  events, bookings, verifier and
// sender must be non-nil; publisher may be nil.
func NewService(events EventStore, bookings BookingStore, verifier SignatureVerifier, sender ConfirmationSender, publisher EventPublisher) *Service {
	if events == nil || bookings == nil || verifier == nil || sender == nil {
		panic("nil dependency passed to booking.NewService")
	}
	return &Service{
		events:    events,
		bookings:  bookings,
		verifier:  verifier,
		mailer:    sender,
		publisher: publisher,
	}
}

// ConfirmRequest carries a verified-payment callback from the checkout
// flow.  SessionTime is the human-readable slot label the visitor
// booked, in the form "YYYY-MM-DD | HH:MM[:SS]".
type ConfirmRequest struct {
	OrderID     string
	PaymentID   string
	Signature   string
	UserName    string
	UserEmail   string
	UserPhone   string // optional
	SessionTime string
	Amount      int64
	EventID     uint64
}

func (r ConfirmRequest) validate() error {
	if r.OrderID == "" || r.PaymentID == "" || r.Signature == "" ||
		r.UserName == "" || r.UserEmail == "" || r.SessionTime == "" ||
		r.Amount <= 0 || r.EventID == 0 {
		return ErrMissingFields
	}
	return nil
}

// Result is the outcome of a successful confirmation.  EmailSent is
// false when the booking was persisted but the confirmation email
// could not be delivered; the email is then retried out-of-band and
// the booking stands.
type Result struct {
	Booking   *model.Booking
	EmailSent bool
}

// Confirm runs the booking workflow.  Terminal outcomes:
//
//	ErrMissingFields                – request invalid, nothing persisted
//	ErrInvalidSignature             – forged/garbled callback, nothing persisted
//	repository.ErrEventNotFound     – unknown event, nothing persisted
//	repository.ErrEventFull         – capacity reached, nothing persisted
//	repository.ErrDuplicateBooking  – payment already recorded, nothing persisted
//	nil                             – booking persisted; see Result.EmailSent
//
// Any other error is a downstream failure.
func (s *Service) Confirm(ctx context.Context, req ConfirmRequest) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if !s.verifier.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		return nil, ErrInvalidSignature
	}

	event, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	b := &model.Booking{
		EventID:          event.ID,
		UserName:         req.UserName,
		UserEmail:        req.UserEmail,
		OrderID:          req.OrderID,
		PaymentID:        &req.PaymentID,
		PaymentSignature: &req.Signature,
		Amount:           req.Amount,
		PaymentStatus:    model.PaymentStatusCompleted,
	}
	if req.UserPhone != "" {
		b.UserPhone = &req.UserPhone
	}
	// Capacity check and insert happen atomically inside the store.
	if err := s.bookings.CreateCompleted(ctx, b); err != nil {
		return nil, err
	}

	start, end := sessionWindow(req.SessionTime, event)
	emailSent := true
	if err := s.mailer.SendConfirmation(ctx, mailer.Confirmation{
		To:           req.UserEmail,
		UserName:     req.UserName,
		SessionTime:  req.SessionTime,
		OrderID:      req.OrderID,
		Amount:       req.Amount,
		Start:        start,
		End:          end,
		CafeName:     event.CafeName,
		CafeAddress:  event.CafeAddress,
		CafeMapsLink: event.CafeMapsLink,
	}); err != nil {
		// The booking is persisted and stands; delivery moves to the
		// retry queue.
		emailSent = false
		log.Printf("booking: confirmation email for booking %d failed: %v", b.ID, err)
		s.enqueueNotificationRetry(ctx, b, req, event, start, end)
	}

	s.publishConfirmed(ctx, b, event)

	return &Result{Booking: b, EmailSent: emailSent}, nil
}

func (s *Service) enqueueNotificationRetry(ctx context.Context, b *model.Booking, req ConfirmRequest, event *model.Event, start, end time.Time) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.NotificationRetry(ctx, queue.NotificationRetryEvent{
		BookingID:    b.ID,
		Attempt:      1,
		To:           req.UserEmail,
		UserName:     req.UserName,
		SessionTime:  req.SessionTime,
		OrderID:      req.OrderID,
		Amount:       req.Amount,
		Start:        start.Format(time.RFC3339),
		End:          end.Format(time.RFC3339),
		CafeName:     event.CafeName,
		CafeAddress:  event.CafeAddress,
		CafeMapsLink: event.CafeMapsLink,
	})
	if err != nil {
		log.Printf("booking: enqueue notification retry for booking %d failed: %v", b.ID, err)
	}
}

func (s *Service) publishConfirmed(ctx context.Context, b *model.Booking, event *model.Event) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.BookingConfirmed(ctx, queue.BookingConfirmedEvent{
		BookingID:  b.ID,
		EventID:    event.ID,
		EventTitle: event.Title,
		EventDate:  event.DateString(),
		StartTime:  event.StartTime,
		EndTime:    event.EndTime,
		CafeName:   event.CafeName,
		UserName:   b.UserName,
		UserEmail:  b.UserEmail,
		OrderID:    b.OrderID,
		Amount:     b.Amount,
		BookedAt:   b.BookedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("booking: publish confirmed event for booking %d failed: %v", b.ID, err)
	}
}

// sessionWindow derives the calendar window for the invite.  The start
// comes from the session label ("YYYY-MM-DD | HH:MM"), the end from
// the event's end_time on the same date.  When the label cannot be
// parsed the event's own date and times are used instead, so a mangled
// label degrades the invite rather than failing the booking.
func sessionWindow(label string, event *model.Event) (time.Time, time.Time) {
	date := event.Date
	startClock := event.StartTime

	if parts := strings.SplitN(label, " | ", 2); len(parts) == 2 {
		if d, err := time.Parse("2006-01-02", strings.TrimSpace(parts[0])); err == nil {
			date = d
			startClock = strings.TrimSpace(parts[1])
		}
	}

	start := atClock(date, startClock)
	end := atClock(date, event.EndTime)
	return start, end
}

// atClock combines a date with an "HH:MM[:SS]" clock string in UTC.
// Seconds are discarded; invites are minute-granular.
func atClock(date time.Time, clock string) time.Time {
	h, m := 0, 0
	if parts := strings.Split(clock, ":"); len(parts) >= 2 {
		h, _ = strconv.Atoi(parts[0])
		m, _ = strconv.Atoi(parts[1])
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, time.UTC)
}
