package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowstate-hq/booking-api/internal/availability"
	"github.com/flowstate-hq/booking-api/internal/mailer"
	"github.com/flowstate-hq/booking-api/internal/model"
	"github.com/flowstate-hq/booking-api/internal/queue"
	"github.com/flowstate-hq/booking-api/internal/repository"
)

// ----- fakes -----

type fakeEventStore struct {
	events map[uint64]*model.Event
}

func (f *fakeEventStore) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	return e, nil
}

// fakeBookingStore mirrors the atomic contract of the real repository:
// capacity check, duplicate check and insert under one lock.
type fakeBookingStore struct {
	mu        sync.Mutex
	total     uint32
	completed int
	seen      map[string]bool
	nextID    uint64
	bookings  []model.Booking
}

func newFakeBookingStore(total uint32) *fakeBookingStore {
	return &fakeBookingStore{total: total, seen: make(map[string]bool)}
}

func (f *fakeBookingStore) CreateCompleted(ctx context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !availability.HasSeats(f.total, f.completed) {
		return repository.ErrEventFull
	}
	key := b.OrderID + "|" + *b.PaymentID
	if f.seen[key] {
		return repository.ErrDuplicateBooking
	}
	f.seen[key] = true
	f.nextID++
	b.ID = f.nextID
	b.PaymentStatus = model.PaymentStatusCompleted
	b.BookedAt = time.Now().UTC()
	f.completed++
	f.bookings = append(f.bookings, *b)
	return nil
}

type fakeVerifier struct{ valid bool }

func (f fakeVerifier) VerifySignature(orderID, paymentID, signature string) bool { return f.valid }

type fakeSender struct {
	mu   sync.Mutex
	sent []mailer.Confirmation
	err  error
}

func (f *fakeSender) SendConfirmation(ctx context.Context, c mailer.Confirmation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, c)
	return nil
}

type fakePublisher struct {
	mu        sync.Mutex
	confirmed []queue.BookingConfirmedEvent
	retries   []queue.NotificationRetryEvent
}

func (f *fakePublisher) BookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed = append(f.confirmed, ev)
	return nil
}

func (f *fakePublisher) NotificationRetry(ctx context.Context, ev queue.NotificationRetryEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retries = append(f.retries, ev)
	return nil
}

// ----- helpers -----

func testEvent() *model.Event {
	return &model.Event{
		ID:           7,
		Title:        "Deep Work Morning",
		Date:         time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		StartTime:    "09:00:00",
		EndTime:      "11:30:00",
		TotalSeats:   8,
		Price:        600,
		CafeName:     "Blue Tokai",
		CafeAddress:  "12 Church Street, Bengaluru",
		CafeMapsLink: "https://maps.google.com/?q=blue+tokai",
	}
}

func validRequest() ConfirmRequest {
	return ConfirmRequest{
		OrderID:     "order_123",
		PaymentID:   "pay_456",
		Signature:   "sig",
		UserName:    "Asha",
		UserEmail:   "asha@example.com",
		UserPhone:   "9999999999",
		SessionTime: "2026-09-14 | 09:00:00",
		Amount:      600,
		EventID:     7,
	}
}

func newTestService(store *fakeBookingStore, verifier fakeVerifier, sender *fakeSender, pub *fakePublisher) *Service {
	events := &fakeEventStore{events: map[uint64]*model.Event{7: testEvent()}}
	var p EventPublisher
	if pub != nil {
		p = pub
	}
	return NewService(events, store, verifier, sender, p)
}

// ----- tests -----

func TestConfirmRejectsMissingFields(t *testing.T) {
	store := newFakeBookingStore(8)
	svc := newTestService(store, fakeVerifier{valid: true}, &fakeSender{}, nil)

	mutations := []func(*ConfirmRequest){
		func(r *ConfirmRequest) { r.OrderID = "" },
		func(r *ConfirmRequest) { r.PaymentID = "" },
		func(r *ConfirmRequest) { r.Signature = "" },
		func(r *ConfirmRequest) { r.UserName = "" },
		func(r *ConfirmRequest) { r.UserEmail = "" },
		func(r *ConfirmRequest) { r.SessionTime = "" },
		func(r *ConfirmRequest) { r.Amount = 0 },
		func(r *ConfirmRequest) { r.EventID = 0 },
	}
	for _, mutate := range mutations {
		req := validRequest()
		mutate(&req)
		_, err := svc.Confirm(context.Background(), req)
		assert.ErrorIs(t, err, ErrMissingFields)
	}
	assert.Empty(t, store.bookings, "no state may be created on validation failure")
}

func TestConfirmRejectsBadSignature(t *testing.T) {
	store := newFakeBookingStore(8)
	svc := newTestService(store, fakeVerifier{valid: false}, &fakeSender{}, nil)

	_, err := svc.Confirm(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Empty(t, store.bookings)
}

func TestConfirmRejectsUnknownEvent(t *testing.T) {
	store := newFakeBookingStore(8)
	svc := newTestService(store, fakeVerifier{valid: true}, &fakeSender{}, nil)

	req := validRequest()
	req.EventID = 999
	_, err := svc.Confirm(context.Background(), req)
	assert.ErrorIs(t, err, repository.ErrEventNotFound)
	assert.Empty(t, store.bookings)
}

func TestConfirmRejectsFullEvent(t *testing.T) {
	store := newFakeBookingStore(8)
	store.completed = 8
	svc := newTestService(store, fakeVerifier{valid: true}, &fakeSender{}, nil)

	_, err := svc.Confirm(context.Background(), validRequest())
	assert.ErrorIs(t, err, repository.ErrEventFull)
	assert.Empty(t, store.bookings)
}

func TestConfirmRejectsDuplicatePayment(t *testing.T) {
	store := newFakeBookingStore(8)
	sender := &fakeSender{}
	svc := newTestService(store, fakeVerifier{valid: true}, sender, nil)

	_, err := svc.Confirm(context.Background(), validRequest())
	require.NoError(t, err)

	// Replaying the same (orderId, paymentId, signature) triple must
	// not double-book.
	_, err = svc.Confirm(context.Background(), validRequest())
	assert.ErrorIs(t, err, repository.ErrDuplicateBooking)
	assert.Len(t, store.bookings, 1)
}

func TestConfirmPersistsAndNotifies(t *testing.T) {
	store := newFakeBookingStore(8)
	sender := &fakeSender{}
	pub := &fakePublisher{}
	svc := newTestService(store, fakeVerifier{valid: true}, sender, pub)

	res, err := svc.Confirm(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, res.Booking)
	assert.True(t, res.EmailSent)

	b := res.Booking
	assert.Equal(t, model.PaymentStatusCompleted, b.PaymentStatus)
	assert.Equal(t, uint64(7), b.EventID)
	assert.Equal(t, "order_123", b.OrderID)
	require.NotNil(t, b.PaymentID)
	assert.Equal(t, "pay_456", *b.PaymentID)
	assert.Equal(t, int64(600), b.Amount)
	assert.EqualValues(t, 1, store.completed)

	require.Len(t, sender.sent, 1)
	c := sender.sent[0]
	assert.Equal(t, "asha@example.com", c.To)
	assert.Equal(t, time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC), c.Start)
	assert.Equal(t, time.Date(2026, 9, 14, 11, 30, 0, 0, time.UTC), c.End)
	assert.Equal(t, "Blue Tokai", c.CafeName)

	require.Len(t, pub.confirmed, 1)
	assert.Equal(t, b.ID, pub.confirmed[0].BookingID)
	assert.Empty(t, pub.retries)
}

func TestConfirmMailFailureKeepsBooking(t *testing.T) {
	store := newFakeBookingStore(8)
	sender := &fakeSender{err: errors.New("smtp: connection refused")}
	pub := &fakePublisher{}
	svc := newTestService(store, fakeVerifier{valid: true}, sender, pub)

	res, err := svc.Confirm(context.Background(), validRequest())
	require.NoError(t, err, "mail failure is not a booking failure")
	assert.False(t, res.EmailSent)
	assert.Len(t, store.bookings, 1, "the booking row stands")

	require.Len(t, pub.retries, 1)
	retry := pub.retries[0]
	assert.Equal(t, res.Booking.ID, retry.BookingID)
	assert.Equal(t, 1, retry.Attempt)
	assert.Equal(t, "asha@example.com", retry.To)
}

func TestConfirmConcurrentLastSeat(t *testing.T) {
	store := newFakeBookingStore(1)
	sender := &fakeSender{}
	svc := newTestService(store, fakeVerifier{valid: true}, sender, nil)

	const n = 16
	var wg sync.WaitGroup
	results := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := validRequest()
			req.OrderID = "order_" + string(rune('a'+i))
			req.PaymentID = "pay_" + string(rune('a'+i))
			_, results[i] = svc.Confirm(context.Background(), req)
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range results {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, repository.ErrEventFull)
		}
	}
	assert.Equal(t, 1, won, "exactly one request may claim the last seat")
	assert.Len(t, store.bookings, 1)
}

func TestSessionWindowFallsBackToEventTimes(t *testing.T) {
	ev := testEvent()

	start, end := sessionWindow("2026-09-14 | 09:00:00", ev)
	assert.Equal(t, time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 9, 14, 11, 30, 0, 0, time.UTC), end)

	// A mangled label degrades to the event's own date and times.
	start, end = sessionWindow("next tuesday-ish", ev)
	assert.Equal(t, time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 9, 14, 11, 30, 0, 0, time.UTC), end)
}
