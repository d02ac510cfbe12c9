package domain

const (
	ViewerCtxKey    = "sp-viewer"
	RequestIDCtxKey = "sp-requestId"
)

const (
	NotificationMandateRequest  = "New Mandate Request"
	NotificationPlatformRequest = "New Platform Mandate Request"
	NotificationAccepted        = "Mandate Accepted"
	NotificationRejected        = "Mandate Rejected"
	NotificationCancelled       = "Mandate Cancelled"
	NotificationRenewed         = "Mandate Renewal Requested"
	NotificationExpiringSoon    = "Mandate Expiring Soon"
	NotificationExpired         = "Mandate Expired"
)

const (
	EventNotification = "notification"
)

// UserChannel is the realtime channel a user's notifications are published on.
func UserChannel(userID string) string {
	return "sp:user:" + userID
}

const AuthErrorCtxKey = "sp-authError"
