package constants

// User roles
const (
	RoleProvider = 1
	RoleStaff    = 2
)

// Service types
const (
	ServiceTypeHostel = 0
	ServiceTypeTiffin = 1
)

// Service status
const (
	ServiceStatusOnline  = 1
	ServiceStatusOffline = 2
)

// Booking status
const (
	BookingStatusRequested = 0
	BookingStatusConfirmed = 1
	BookingStatusRejected  = 2
)

// Offline reasons
const (
	OfflineReasonMaintenance = "maintenance"
	OfflineReasonFullyBooked = "fully_booked"
	OfflineReasonVacation    = "vacation"
	OfflineReasonOther       = "other"
)

// Come-back options for an offline service
const (
	ComeBackFixedDelay  = "fixedDelay"
	ComeBackNextOpening = "nextOpeningTime"
	ComeBackManual      = "untilManualReactivation"
)

// Wire offline types. The backend contract only knows these two values;
// fixedDelay and nextOpeningTime both collapse to "immediate".
const (
	OfflineTypeImmediate = "immediate"
	OfflineTypeScheduled = "scheduled"
)

// Listing validation thresholds
const (
	MinDescriptionLength = 20
	MinNewRoomPhotos     = 3
)

// Submission modes
const (
	SubmitModeCreate = "create"
	SubmitModeUpdate = "update"
)
