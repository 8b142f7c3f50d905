package notification

// NotificationSystem represents a delivery channel (e.g. email).
type NotificationSystem string

// NoticeType represents a kind of notice (e.g. "email_verification").
type NoticeType string

const (
	EmailSystem NotificationSystem = "email"

	EmailVerification NoticeType = "email_verification"
	PasswordResetInit NoticeType = "password_reset_init"
)

// NoticeTemplate holds the subject and body templates for a notice.
// Text and Html are Go text templates rendered against NotificationData.Data.
type NoticeTemplate struct {
	Subject string
	Text    string
	Html    string
}

// NotificationData carries the per-send payload
type NotificationData struct {
	To   string            // Recipient identifier (e.g. email address)
	Data map[string]string // Template values (links, names, tokens)
}

// Notifier delivers a rendered notice over one system
type Notifier interface {
	Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error
}
