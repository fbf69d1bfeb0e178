package scheduling

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	bookingRepo "tutorly/database/repository/booking"
	rescheduleRepo "tutorly/database/repository/reschedule"
	sessionRepo "tutorly/database/repository/session"
	"tutorly/models"
)

// fakeStore is a mutex-guarded in-memory stand-in for MongoDB. The claims map
// plays the role of the unique index: CommitBooking and SwapSlot check and
// insert under one lock, so the commit path has the same all-or-nothing
// semantics the real repository gets from its transaction.
type fakeStore struct {
	mu       sync.Mutex
	bookings map[string]models.RecurringBooking
	claims   map[claimKey]string // -> bookingID
	sessions map[string]models.SessionInstance
	requests map[string]models.RescheduleRequest
}

type claimKey struct {
	provider string
	slot     models.BookableSlot
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bookings: make(map[string]models.RecurringBooking),
		claims:   make(map[claimKey]string),
		sessions: make(map[string]models.SessionInstance),
		requests: make(map[string]models.RescheduleRequest),
	}
}

type fakeBookingRepo struct{ st *fakeStore }

func (r *fakeBookingRepo) GetByID(_ context.Context, bookingID string) (*models.RecurringBooking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	b, ok := r.st.bookings[bookingID]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	out := b
	return &out, nil
}

func (r *fakeBookingRepo) GetActiveByProvider(_ context.Context, providerID string) ([]models.RecurringBooking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var active []models.RecurringBooking
	for _, b := range r.st.bookings {
		if b.ProviderID == providerID && b.IsActive() {
			active = append(active, b)
		}
	}
	return active, nil
}

func (r *fakeBookingRepo) CommitBooking(_ context.Context, booking *models.RecurringBooking, sessions []models.SessionInstance) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, s := range booking.Slots {
		if _, taken := r.st.claims[claimKey{booking.ProviderID, s}]; taken {
			return bookingRepo.ErrSlotTaken
		}
	}
	for _, s := range booking.Slots {
		r.st.claims[claimKey{booking.ProviderID, s}] = booking.ID
	}
	r.st.bookings[booking.ID] = *booking
	for _, s := range sessions {
		r.st.sessions[s.ID] = s
	}
	return nil
}

func (r *fakeBookingRepo) SwapSlot(_ context.Context, bookingID string, from, to models.BookableSlot, moves []bookingRepo.SessionMove) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	b, ok := r.st.bookings[bookingID]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	fromKey := claimKey{b.ProviderID, from}
	if r.st.claims[fromKey] != bookingID {
		return fmt.Errorf("booking %s holds no claim on %s %d", bookingID, from.Day, from.Time)
	}
	toKey := claimKey{b.ProviderID, to}
	if _, taken := r.st.claims[toKey]; taken {
		return bookingRepo.ErrSlotTaken
	}
	delete(r.st.claims, fromKey)
	r.st.claims[toKey] = bookingID

	for i, s := range b.Slots {
		if s == from {
			b.Slots[i] = to
		}
	}
	b.Status = models.BookingStatusRescheduled
	r.st.bookings[bookingID] = b

	for _, mv := range moves {
		s, ok := r.st.sessions[mv.SessionID]
		if !ok || s.Status != models.SessionStatusScheduled {
			continue
		}
		s.Date = mv.Date
		s.Day = mv.Day
		s.Time = mv.Time
		r.st.sessions[mv.SessionID] = s
	}
	return nil
}

func (r *fakeBookingRepo) Cancel(_ context.Context, bookingID string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	b, ok := r.st.bookings[bookingID]
	if !ok || !b.IsActive() {
		return bookingRepo.ErrNotFound
	}
	b.Status = models.BookingStatusCancelled
	r.st.bookings[bookingID] = b
	for k, owner := range r.st.claims {
		if owner == bookingID {
			delete(r.st.claims, k)
		}
	}
	for id, s := range r.st.sessions {
		if s.RecurringBookingID == bookingID && s.Status == models.SessionStatusScheduled {
			s.Status = models.SessionStatusCancelled
			r.st.sessions[id] = s
		}
	}
	return nil
}

type fakeSessionRepo struct{ st *fakeStore }

func (r *fakeSessionRepo) GetByID(_ context.Context, sessionID string) (*models.SessionInstance, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	s, ok := r.st.sessions[sessionID]
	if !ok {
		return nil, sessionRepo.ErrNotFound
	}
	out := s
	return &out, nil
}

func (r *fakeSessionRepo) ListByBooking(_ context.Context, bookingID string) ([]models.SessionInstance, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []models.SessionInstance
	for _, s := range r.st.sessions {
		if s.RecurringBookingID == bookingID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceNumber < out[j].SequenceNumber })
	return out, nil
}

func (r *fakeSessionRepo) Reschedule(_ context.Context, sessionID, date string, day time.Weekday, minutes int) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	s, ok := r.st.sessions[sessionID]
	if !ok {
		return sessionRepo.ErrNotFound
	}
	s.Date = date
	s.Day = day
	s.Time = minutes
	s.Status = models.SessionStatusRescheduled
	r.st.sessions[sessionID] = s
	return nil
}

func (r *fakeSessionRepo) UpdateStatus(_ context.Context, sessionID, status string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	s, ok := r.st.sessions[sessionID]
	if !ok {
		return sessionRepo.ErrNotFound
	}
	s.Status = status
	r.st.sessions[sessionID] = s
	return nil
}

type fakeRescheduleRepo struct{ st *fakeStore }

func (r *fakeRescheduleRepo) Insert(_ context.Context, request *models.RescheduleRequest) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.requests[request.ID] = *request
	return nil
}

func (r *fakeRescheduleRepo) GetByID(_ context.Context, requestID string) (*models.RescheduleRequest, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	req, ok := r.st.requests[requestID]
	if !ok {
		return nil, rescheduleRepo.ErrNotFound
	}
	out := req
	return &out, nil
}

func (r *fakeRescheduleRepo) CountPendingByBooking(_ context.Context, bookingID string) (int, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	count := 0
	for _, req := range r.st.requests {
		if req.RecurringBookingID == bookingID && req.Status == models.RescheduleStatusPending {
			count++
		}
	}
	return count, nil
}

func (r *fakeRescheduleRepo) Resolve(_ context.Context, requestID, status, responseNote, respondedBy string, respondedAt time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	req, ok := r.st.requests[requestID]
	if !ok {
		return rescheduleRepo.ErrNotFound
	}
	if req.Status != models.RescheduleStatusPending {
		return rescheduleRepo.ErrAlreadyResolved
	}
	req.Status = status
	req.ResponseNote = responseNote
	req.RespondedBy = respondedBy
	req.RespondedAt = &respondedAt
	r.st.requests[requestID] = req
	return nil
}

func (r *fakeRescheduleRepo) Reopen(_ context.Context, requestID string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	req, ok := r.st.requests[requestID]
	if !ok || req.Status != models.RescheduleStatusAccepted {
		return rescheduleRepo.ErrNotFound
	}
	req.Status = models.RescheduleStatusPending
	req.ResponseNote = ""
	req.RespondedBy = ""
	req.RespondedAt = nil
	r.st.requests[requestID] = req
	return nil
}
