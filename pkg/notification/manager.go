package notification

import (
	"fmt"
)

// NotificationManager manages notifiers and notice templates.
type NotificationManager struct {
	// BaseUrl is the externally reachable service URL used to build links
	// embedded in notices.
	BaseUrl string

	notifiers map[NotificationSystem]Notifier
	registry  map[NoticeType]map[NotificationSystem]NoticeTemplate
}

// NewNotificationManager creates and returns a new NotificationManager.
func NewNotificationManager(baseUrl string, opts ...NotificationManagerOption) (*NotificationManager, error) {
	nm := &NotificationManager{
		BaseUrl:   baseUrl,
		notifiers: make(map[NotificationSystem]Notifier),
		registry:  make(map[NoticeType]map[NotificationSystem]NoticeTemplate),
	}

	for _, opt := range opts {
		if err := opt(nm); err != nil {
			return nil, err
		}
	}

	return nm, nil
}

// RegisterNotifier registers a notifier for a specific system.
func (nm *NotificationManager) RegisterNotifier(system NotificationSystem, notifier Notifier) {
	nm.notifiers[system] = notifier
}

// RegisterNotification adds a notice template to the registry.
func (nm *NotificationManager) RegisterNotification(noticeType NoticeType, system NotificationSystem, template NoticeTemplate) error {
	if noticeType == "" || system == "" {
		return fmt.Errorf("invalid input: notice type and system cannot be empty")
	}

	if _, exists := nm.registry[noticeType]; !exists {
		nm.registry[noticeType] = make(map[NotificationSystem]NoticeTemplate)
	}

	nm.registry[noticeType][system] = template
	return nil
}

// Send delivers a notice of the given type over every system that has a
// template registered for it.
func (nm *NotificationManager) Send(noticeType NoticeType, notification NotificationData) error {
	systemTemplates, exists := nm.registry[noticeType]
	if !exists {
		return fmt.Errorf("no templates registered for notice type: %s", noticeType)
	}

	for system, template := range systemTemplates {
		notifier, exists := nm.notifiers[system]
		if !exists {
			return fmt.Errorf("no notifier registered for system: %s", system)
		}

		if err := notifier.Send(noticeType, notification, template); err != nil {
			return err
		}
	}

	return nil
}
