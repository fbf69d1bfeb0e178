package models

import "time"

// RescheduleRequest statuses. Pending is the only non-terminal state.
const (
	RescheduleStatusPending  = "pending"
	RescheduleStatusAccepted = "accepted"
	RescheduleStatusDeclined = "declined"
)

// RescheduleRequest proposes moving either a whole recurring booking (all
// future occurrences) or exactly one session instance. SessionInstanceID
// empty means the request targets the recurring pattern. Once accepted or
// declined a request is terminal and cannot be acted on again.
type RescheduleRequest struct {
	ID                 string       `bson:"id" json:"id"`
	RecurringBookingID string       `bson:"recurringBookingId" json:"recurringBookingId"`
	SessionInstanceID  string       `bson:"sessionInstanceId,omitempty" json:"sessionInstanceId,omitempty"`
	RequestedBy        string       `bson:"requestedBy" json:"requestedBy"`
	OriginalSlot       BookableSlot `bson:"originalSlot" json:"originalSlot"`
	ProposedSlot       BookableSlot `bson:"proposedSlot" json:"proposedSlot"`
	ProposedDate       string       `bson:"proposedDate,omitempty" json:"proposedDate,omitempty"` // instance-level only
	Reason             string       `bson:"reason,omitempty" json:"reason,omitempty"`
	Status             string       `bson:"status" json:"status"`
	ResponseNote       string       `bson:"responseNote,omitempty" json:"responseNote,omitempty"`
	RespondedBy        string       `bson:"respondedBy,omitempty" json:"respondedBy,omitempty"`
	RespondedAt        *time.Time   `bson:"respondedAt,omitempty" json:"respondedAt,omitempty"`
	CreatedAt          time.Time    `bson:"createdAt" json:"createdAt"`
}

// TargetsInstance reports whether the request moves a single session rather
// than the whole recurring pattern.
func (r *RescheduleRequest) TargetsInstance() bool {
	return r.SessionInstanceID != ""
}

// IsTerminal reports whether the request has already been resolved.
func (r *RescheduleRequest) IsTerminal() bool {
	return r.Status == RescheduleStatusAccepted || r.Status == RescheduleStatusDeclined
}
