package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "tutorly/database/repository/booking"
	rescheduleRepo "tutorly/database/repository/reschedule"
	sessionRepo "tutorly/database/repository/session"
	"tutorly/models"
	"tutorly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotCounterparty is returned when someone other than the other side of
// the booking tries to resolve a request. The requester can never accept
// their own proposal.
var ErrNotCounterparty = errors.New("request must be resolved by the counterparty")

// RescheduleWorkflow is the state machine governing proposal, acceptance,
// and decline of schedule changes. A request either targets the whole
// recurring pattern (SessionInstanceID empty) or exactly one generated
// instance; both paths share the same terminality and re-validation rules.
type RescheduleWorkflow struct {
	Requests   rescheduleRepo.RescheduleRepository
	Bookings   bookingRepo.BookingRepository
	Sessions   sessionRepo.SessionRepository
	Conflicts  *ConflictChecker
	MaxPending int
	Logger     *zap.Logger
}

// CreateRescheduleParams is the input to opening a request.
type CreateRescheduleParams struct {
	BookingID         string              `json:"bookingId"`
	SessionInstanceID string              `json:"sessionInstanceId,omitempty"`
	RequestedBy       string              `json:"requestedBy"`
	OriginalSlot      models.BookableSlot `json:"originalSlot"`
	ProposedSlot      models.BookableSlot `json:"proposedSlot"`
	ProposedDate      string              `json:"proposedDate,omitempty"`
	Reason            string              `json:"reason,omitempty"`
}

// Create opens a pending request. Multiple pending requests per booking are
// allowed up to MaxPending; beyond that creation fails with
// RescheduleLimitExceededError.
func (rw *RescheduleWorkflow) Create(ctx context.Context, params CreateRescheduleParams) (*models.RescheduleRequest, error) {
	booking, err := rw.Bookings.GetByID(ctx, params.BookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsActive() {
		return nil, validationErrorf("booking %s is %s and cannot be rescheduled", booking.ID, booking.Status)
	}
	if params.RequestedBy != booking.ProviderID && params.RequestedBy != booking.ClientRef {
		return nil, validationErrorf("requester %s is not a party to booking %s", params.RequestedBy, booking.ID)
	}

	request := &models.RescheduleRequest{
		ID:                 uuid.New().String(),
		RecurringBookingID: booking.ID,
		RequestedBy:        params.RequestedBy,
		ProposedSlot:       params.ProposedSlot,
		Reason:             params.Reason,
		Status:             models.RescheduleStatusPending,
		CreatedAt:          time.Now().UTC(),
	}

	if params.SessionInstanceID != "" {
		session, err := rw.Sessions.GetByID(ctx, params.SessionInstanceID)
		if err != nil {
			return nil, err
		}
		if session.RecurringBookingID != booking.ID {
			return nil, validationErrorf("session %s does not belong to booking %s", session.ID, booking.ID)
		}
		if session.Status != models.SessionStatusScheduled && session.Status != models.SessionStatusRescheduled {
			return nil, validationErrorf("session %s is %s and cannot be rescheduled", session.ID, session.Status)
		}
		proposedDate, err := utils.ParseDate(params.ProposedDate)
		if err != nil {
			return nil, validationErrorf("instance reschedule requires a proposed date: %v", err)
		}
		if proposedDate.Weekday() != params.ProposedSlot.Day {
			return nil, validationErrorf("proposed date %s falls on %s, not %s",
				params.ProposedDate, proposedDate.Weekday(), params.ProposedSlot.Day)
		}
		request.SessionInstanceID = session.ID
		request.OriginalSlot = models.BookableSlot{Day: session.Day, Time: session.Time}
		request.ProposedDate = params.ProposedDate
	} else {
		if !slotInSet(booking.Slots, params.OriginalSlot) {
			return nil, validationErrorf("booking %s has no slot on %s at %s",
				booking.ID, params.OriginalSlot.Day, utils.MinutesToClock(params.OriginalSlot.Time))
		}
		request.OriginalSlot = params.OriginalSlot
	}

	pending, err := rw.Requests.CountPendingByBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	if pending >= rw.MaxPending {
		return nil, &RescheduleLimitExceededError{BookingID: booking.ID, Limit: pending}
	}

	if err := rw.Requests.Insert(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// Accept applies a pending request. The conditional pending-filtered resolve
// runs first and is the single gate on the request: a racing decline either
// wins it (and this accept mutates nothing) or loses it (and cannot decline
// anymore). Only after winning the request does the accept mutate the
// schedule; if that mutation fails the request is reopened to pending so no
// terminal request is left claiming a change that never happened.
// Booking-level accepts re-validate the proposed slot against the provider's
// other bookings and swap the slot under the same storage-level uniqueness
// guarantee as the original commit, so a slot claimed by someone else between
// proposal and acceptance fails the accept instead of being silently
// overwritten. Instance-level accepts re-validate against the provider's
// other bookings and the sibling instances before moving the single
// instance.
func (rw *RescheduleWorkflow) Accept(ctx context.Context, requestID, respondedBy, responseNote string) (*models.RescheduleRequest, error) {
	request, err := rw.Requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.IsTerminal() {
		return nil, &InvalidStateTransitionError{RequestID: request.ID, Status: request.Status}
	}

	booking, err := rw.Bookings.GetByID(ctx, request.RecurringBookingID)
	if err != nil {
		return nil, err
	}
	if err := rw.checkResponder(booking, request, respondedBy); err != nil {
		return nil, err
	}

	resolved, err := rw.resolve(ctx, request, models.RescheduleStatusAccepted, responseNote, respondedBy)
	if err != nil {
		return nil, err
	}

	if request.TargetsInstance() {
		err = rw.acceptInstance(ctx, booking, request)
	} else {
		err = rw.acceptBookingLevel(ctx, booking, request)
	}
	if err != nil {
		if reopenErr := rw.Requests.Reopen(ctx, request.ID); reopenErr != nil && rw.Logger != nil {
			rw.Logger.Error("failed to reopen reschedule request after mutation failure",
				zap.String("requestId", request.ID), zap.Error(reopenErr))
		}
		return nil, err
	}

	return resolved, nil
}

// Decline marks a pending request declined. Nothing about the booking or its
// instances changes.
func (rw *RescheduleWorkflow) Decline(ctx context.Context, requestID, respondedBy, responseNote string) (*models.RescheduleRequest, error) {
	request, err := rw.Requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.IsTerminal() {
		return nil, &InvalidStateTransitionError{RequestID: request.ID, Status: request.Status}
	}

	booking, err := rw.Bookings.GetByID(ctx, request.RecurringBookingID)
	if err != nil {
		return nil, err
	}
	if err := rw.checkResponder(booking, request, respondedBy); err != nil {
		return nil, err
	}

	return rw.resolve(ctx, request, models.RescheduleStatusDeclined, responseNote, respondedBy)
}

// acceptBookingLevel swaps the slot across the whole recurring pattern and
// retargets every still-scheduled instance on the old slot.
func (rw *RescheduleWorkflow) acceptBookingLevel(ctx context.Context, booking *models.RecurringBooking, request *models.RescheduleRequest) error {
	conflicts, err := rw.Conflicts.FindConflictsExcluding(ctx, booking.ProviderID, booking.ID,
		[]models.BookableSlot{request.ProposedSlot})
	if err != nil {
		return fmt.Errorf("reschedule re-validation failed: %w", err)
	}
	if len(conflicts) > 0 {
		return &ConflictError{ConflictingSlots: conflicts}
	}

	sessions, err := rw.Sessions.ListByBooking(ctx, booking.ID)
	if err != nil {
		return err
	}
	moves, err := planSessionMoves(sessions, request.OriginalSlot, request.ProposedSlot)
	if err != nil {
		return err
	}

	if err := rw.Bookings.SwapSlot(ctx, booking.ID, request.OriginalSlot, request.ProposedSlot, moves); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return &ConflictError{ConflictingSlots: []models.BookableSlot{request.ProposedSlot}}
		}
		return err
	}

	if rw.Logger != nil {
		rw.Logger.Info("booking slot rescheduled",
			zap.String("bookingId", booking.ID),
			zap.String("requestId", request.ID),
			zap.Int("sessionsMoved", len(moves)))
	}
	return nil
}

// acceptInstance moves a single instance. The proposed time is re-validated
// the same way a booking-level accept is: against the provider's other
// bookings, not the parent itself, so shifting one occurrence onto the
// booking's own weekly time (a one-week slide) stays legal. Within the
// parent, the proposed calendar date must not collide with a sibling
// instance.
func (rw *RescheduleWorkflow) acceptInstance(ctx context.Context, booking *models.RecurringBooking, request *models.RescheduleRequest) error {
	conflicts, err := rw.Conflicts.FindConflictsExcluding(ctx, booking.ProviderID, booking.ID,
		[]models.BookableSlot{request.ProposedSlot})
	if err != nil {
		return fmt.Errorf("reschedule re-validation failed: %w", err)
	}
	if len(conflicts) > 0 {
		return &ConflictError{ConflictingSlots: conflicts}
	}

	siblings, err := rw.Sessions.ListByBooking(ctx, booking.ID)
	if err != nil {
		return err
	}
	for _, s := range siblings {
		if s.ID == request.SessionInstanceID {
			continue
		}
		if s.Status != models.SessionStatusScheduled && s.Status != models.SessionStatusRescheduled {
			continue
		}
		if s.Date == request.ProposedDate && s.Time == request.ProposedSlot.Time {
			return &ConflictError{ConflictingSlots: []models.BookableSlot{request.ProposedSlot}}
		}
	}

	return rw.Sessions.Reschedule(ctx, request.SessionInstanceID,
		request.ProposedDate, request.ProposedSlot.Day, request.ProposedSlot.Time)
}

func (rw *RescheduleWorkflow) resolve(ctx context.Context, request *models.RescheduleRequest, status, note, respondedBy string) (*models.RescheduleRequest, error) {
	now := time.Now().UTC()
	if err := rw.Requests.Resolve(ctx, request.ID, status, note, respondedBy, now); err != nil {
		if errors.Is(err, rescheduleRepo.ErrAlreadyResolved) {
			// Lost the request to a concurrent resolve; report the status
			// that actually won.
			current := request.Status
			if latest, gErr := rw.Requests.GetByID(ctx, request.ID); gErr == nil {
				current = latest.Status
			}
			return nil, &InvalidStateTransitionError{RequestID: request.ID, Status: current}
		}
		return nil, err
	}
	request.Status = status
	request.ResponseNote = note
	request.RespondedBy = respondedBy
	request.RespondedAt = &now
	return request, nil
}

func (rw *RescheduleWorkflow) checkResponder(booking *models.RecurringBooking, request *models.RescheduleRequest, respondedBy string) error {
	if respondedBy == request.RequestedBy {
		return ErrNotCounterparty
	}
	if respondedBy != booking.ProviderID && respondedBy != booking.ClientRef {
		return validationErrorf("responder %s is not a party to booking %s", respondedBy, booking.ID)
	}
	return nil
}

// planSessionMoves shifts every still-scheduled instance on the old slot by
// the day delta between the old and new weekday, keeping each occurrence in
// its own week.
func planSessionMoves(sessions []models.SessionInstance, from, to models.BookableSlot) ([]bookingRepo.SessionMove, error) {
	delta := int(to.Day) - int(from.Day)
	var moves []bookingRepo.SessionMove
	for _, s := range sessions {
		if s.Status != models.SessionStatusScheduled || s.Day != from.Day || s.Time != from.Time {
			continue
		}
		date, err := utils.ParseDate(s.Date)
		if err != nil {
			return nil, fmt.Errorf("session %s has malformed date: %w", s.ID, err)
		}
		moved := date.AddDate(0, 0, delta)
		moves = append(moves, bookingRepo.SessionMove{
			SessionID: s.ID,
			Date:      moved.Format(utils.DateLayout),
			Day:       to.Day,
			Time:      to.Time,
		})
	}
	return moves, nil
}

func slotInSet(set []models.BookableSlot, slot models.BookableSlot) bool {
	for _, s := range set {
		if s == slot {
			return true
		}
	}
	return false
}
