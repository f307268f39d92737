package email

import (
	"errors"
	"testing"

	"agentdeals/internal/config"
	"agentdeals/internal/drift"
)

type recordingSender struct {
	to      []string
	subject string
	calls   int
	err     error
}

func (r *recordingSender) SendEmail(to []string, subject, _, _ string) error {
	r.calls++
	r.to = to
	r.subject = subject
	return r.err
}

func TestNotifyPricingChanges(t *testing.T) {
	cfg := &config.Config{SiteTitle: "AgentDeals", NotifyEmails: []string{"ops@example.com"}}

	tests := []struct {
		name      string
		report    *drift.Report
		sendErr   error
		wantSent  bool
		wantCalls int
	}{
		{name: "changed pages", report: sampleReport(), wantSent: true, wantCalls: 1},
		{name: "nothing changed", report: &drift.Report{Unchanged: 3}, wantSent: false, wantCalls: 0},
		{name: "baseline run", report: &drift.Report{IsBaseline: true, Changed: sampleReport().Changed}, wantSent: false, wantCalls: 0},
		{name: "nil report", report: nil, wantSent: false, wantCalls: 0},
		{name: "send failure", report: sampleReport(), sendErr: errors.New("smtp down"), wantSent: false, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &recordingSender{err: tt.sendErr}
			n := NewNotifierWithSender(cfg, sender)

			if got := n.NotifyPricingChanges(tt.report); got != tt.wantSent {
				t.Errorf("NotifyPricingChanges() = %v, want %v", got, tt.wantSent)
			}
			if sender.calls != tt.wantCalls {
				t.Errorf("expected %d send calls, got %d", tt.wantCalls, sender.calls)
			}
			if tt.wantCalls > 0 && (len(sender.to) != 1 || sender.to[0] != "ops@example.com") {
				t.Errorf("unexpected recipients %v", sender.to)
			}
		})
	}
}

func TestNotifierWithoutRecipients(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifierWithSender(&config.Config{}, sender)
	if n.NotifyPricingChanges(sampleReport()) {
		t.Error("expected no alert without recipients")
	}

	var nilNotifier *Notifier
	if nilNotifier.NotifyPricingChanges(sampleReport()) {
		t.Error("nil notifier should be a no-op")
	}
}
