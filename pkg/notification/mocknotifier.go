package notification

import "sync"

// MockNotifier records sends for tests instead of delivering them. Safe for
// concurrent use, since email delivery runs on its own goroutine.
type MockNotifier struct {
	mu                sync.Mutex
	sentNotifications []NotificationData
	sentTypes         []NoticeType
}

func (m *MockNotifier) Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sentNotifications = append(m.sentNotifications, notification)
	m.sentTypes = append(m.sentTypes, noticeType)
	return nil
}

// Sent returns a snapshot of the recorded notifications
func (m *MockNotifier) Sent() []NotificationData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]NotificationData(nil), m.sentNotifications...)
}

// SentTypes returns a snapshot of the recorded notice types
func (m *MockNotifier) SentTypes() []NoticeType {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]NoticeType(nil), m.sentTypes...)
}
