package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerSend(t *testing.T) {
	mock := &MockNotifier{}
	nm, err := NewNotificationManager("http://localhost:8080",
		WithNotifier(EmailSystem, mock),
		WithDefaultTemplates(),
	)
	require.NoError(t, err)

	err = nm.Send(EmailVerification, NotificationData{
		To:   "alice@x.com",
		Data: map[string]string{"Name": "Alice", "VerificationLink": "http://localhost:8080/verify-email?token=abc"},
	})
	require.NoError(t, err)

	require.Len(t, mock.Sent(), 1)
	assert.Equal(t, "alice@x.com", mock.Sent()[0].To)
	assert.Equal(t, EmailVerification, mock.SentTypes()[0])
}

func TestManagerSendUnregisteredType(t *testing.T) {
	nm, err := NewNotificationManager("http://localhost:8080")
	require.NoError(t, err)

	err = nm.Send(NoticeType("unknown"), NotificationData{To: "alice@x.com"})
	assert.Error(t, err)
}

func TestManagerSendMissingNotifier(t *testing.T) {
	nm, err := NewNotificationManager("http://localhost:8080", WithPasswordResetTemplate())
	require.NoError(t, err)

	err = nm.Send(PasswordResetInit, NotificationData{To: "alice@x.com"})
	assert.Error(t, err)
}

func TestRegisterNotificationValidation(t *testing.T) {
	nm, err := NewNotificationManager("")
	require.NoError(t, err)

	assert.Error(t, nm.RegisterNotification("", EmailSystem, NoticeTemplate{}))
	assert.Error(t, nm.RegisterNotification(EmailVerification, "", NoticeTemplate{}))
	assert.NoError(t, nm.RegisterNotification(EmailVerification, EmailSystem, NoticeTemplate{Subject: "s"}))
}
