package models

import "time"

// WeeklyRange is one block of recurring weekly availability, expressed in the
// provider's own timezone. Start and End are minutes from midnight.
type WeeklyRange struct {
	Day   time.Weekday `bson:"day" json:"day"`
	Start int          `bson:"start" json:"start"` // e.g., 540 for 9:00 AM
	End   int          `bson:"end" json:"end"`     // e.g., 1020 for 5:00 PM
}

// BookableSlot is a single bookable (day, time) pair derived from a provider's
// weekly ranges. It is never persisted on its own; it is recomputed from the
// ranges and a session duration on demand.
type BookableSlot struct {
	Day  time.Weekday `bson:"day" json:"day"`
	Time int          `bson:"time" json:"time"` // minutes from midnight
}

// ProviderAvailability is the full weekly availability set for one provider.
// The set is replaced wholesale on save; individual ranges are not edited.
type ProviderAvailability struct {
	ProviderID string        `bson:"providerId" json:"providerId"`
	Timezone   string        `bson:"timezone" json:"timezone"` // IANA name, e.g. "America/New_York"
	Ranges     []WeeklyRange `bson:"ranges" json:"ranges"`
	UpdatedAt  time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// SlotClaim materializes exclusive ownership of one committed (providerId,
// day, time) pair. A unique index over those three fields is what makes two
// concurrent bookings of the same slot impossible at the storage layer.
type SlotClaim struct {
	ProviderID string       `bson:"providerId" json:"providerId"`
	Day        time.Weekday `bson:"day" json:"day"`
	Time       int          `bson:"time" json:"time"`
	BookingID  string       `bson:"bookingId" json:"bookingId"`
}
