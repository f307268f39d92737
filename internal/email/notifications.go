package email

import (
	"log"

	"agentdeals/internal/config"
	"agentdeals/internal/drift"
)

// Sender delivers one message.
type Sender interface {
	SendEmail(to []string, subject, htmlBody, textBody string) error
}

// Notifier sends alerts for drift runs.
type Notifier struct {
	sender     Sender
	templates  *Templates
	recipients []string
	enabled    bool
}

// NewNotifier creates a notifier backed by SMTP.
func NewNotifier(cfg *config.Config) *Notifier {
	svc := NewService(cfg)
	return &Notifier{
		sender:     svc,
		templates:  NewTemplates(cfg),
		recipients: cfg.NotifyEmails,
		enabled:    svc.IsEnabled() && len(cfg.NotifyEmails) > 0,
	}
}

// NewNotifierWithSender creates a notifier that always sends through sender.
func NewNotifierWithSender(cfg *config.Config, sender Sender) *Notifier {
	return &Notifier{
		sender:     sender,
		templates:  NewTemplates(cfg),
		recipients: cfg.NotifyEmails,
		enabled:    len(cfg.NotifyEmails) > 0,
	}
}

// NotifyPricingChanges emails recipients when the run found changed pages.
// It reports whether a message was sent.
func (n *Notifier) NotifyPricingChanges(report *drift.Report) bool {
	if n == nil || !n.enabled || report == nil || report.IsBaseline || len(report.Changed) == 0 {
		return false
	}

	subject, htmlBody, textBody := n.templates.PricingChanged(report)
	if err := n.sender.SendEmail(n.recipients, subject, htmlBody, textBody); err != nil {
		log.Printf("Failed to send pricing change alert to %v: %v", n.recipients, err)
		return false
	}
	log.Printf("Pricing change alert sent to %v", n.recipients)
	return true
}
