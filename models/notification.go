package models

// NotificationRequest is a local notification handed to the device
// notification service. Identifier is the dedup key: lowercase-trimmed
// event title joined with the canonical MM-DD-YYYY date.
type NotificationRequest struct {
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
	Body       string `json:"body"`
}

// CalendarAuthorization is the device calendar permission level.
type CalendarAuthorization int

const (
	CalendarAuthNone CalendarAuthorization = iota
	CalendarAuthWriteOnly
	CalendarAuthFull
)

func (a CalendarAuthorization) String() string {
	switch a {
	case CalendarAuthWriteOnly:
		return "writeOnly"
	case CalendarAuthFull:
		return "fullAccess"
	default:
		return "none"
	}
}
