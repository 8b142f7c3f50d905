package notification

import (
	"embed"
	"log/slog"
)

//go:embed templates/*
var templateFiles embed.FS

func loadTemplate(filename string) string {
	content, err := templateFiles.ReadFile(filename)
	if err != nil {
		slog.Error("Error reading template file!", "err", err, "filename", filename)
		return ""
	}
	return string(content)
}

// NotificationManagerOption is a function that configures a NotificationManager
type NotificationManagerOption func(*NotificationManager) error

// WithSMTP adds an email notifier with the provided SMTP configuration
func WithSMTP(config SMTPConfig) NotificationManagerOption {
	return func(nm *NotificationManager) error {
		emailNotifier, err := NewEmailNotifier(config)
		if err != nil {
			return err
		}
		nm.RegisterNotifier(EmailSystem, emailNotifier)
		return nil
	}
}

// WithNotifier registers an arbitrary notifier for a system
func WithNotifier(system NotificationSystem, notifier Notifier) NotificationManagerOption {
	return func(nm *NotificationManager) error {
		nm.RegisterNotifier(system, notifier)
		return nil
	}
}

// WithEmailVerificationTemplate registers the email verification template
func WithEmailVerificationTemplate() NotificationManagerOption {
	return func(nm *NotificationManager) error {
		return nm.RegisterNotification(EmailVerification, EmailSystem, NoticeTemplate{
			Subject: "Verify Your Email Address",
			Html:    loadTemplate("templates/email/email_verification.html"),
		})
	}
}

// WithPasswordResetTemplate registers the password reset template
func WithPasswordResetTemplate() NotificationManagerOption {
	return func(nm *NotificationManager) error {
		return nm.RegisterNotification(PasswordResetInit, EmailSystem, NoticeTemplate{
			Subject: "Password Reset Request",
			Html:    loadTemplate("templates/email/password_reset.html"),
		})
	}
}

// WithDefaultTemplates registers all default notice templates
func WithDefaultTemplates() NotificationManagerOption {
	return func(nm *NotificationManager) error {
		options := []NotificationManagerOption{
			WithEmailVerificationTemplate(),
			WithPasswordResetTemplate(),
		}
		for _, opt := range options {
			if err := opt(nm); err != nil {
				return err
			}
		}
		return nil
	}
}
