package domain

import "time"

// User is a marketplace account. Role flags are independent; a user may be both seller and broker.
type User struct {
	ID             string
	FullName       string
	Email          string
	PhoneNumber    string
	PasswordHash   string
	AvatarURL      *string
	IsActiveSeller bool
	IsActiveBroker bool
	IsStaff        bool
	CreatedAt      time.Time
}

// Viewer is the authenticated identity a request acts as.
type Viewer struct {
	UserID         string
	IsActiveSeller bool
	IsActiveBroker bool
	IsStaff        bool
}

type BrokerProfile struct {
	ID           string
	FullName     string
	MobileNumber string
	AvatarURL    *string
}

type Notification struct {
	ID          string
	RecipientID string
	Title       string
	Message     string
	ActionURL   *string
	IsRead      bool
	CreatedAt   time.Time
}
