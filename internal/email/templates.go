package email

import (
	"fmt"
	"html"
	"strings"

	"agentdeals/internal/config"
	"agentdeals/internal/drift"
)

// Templates renders alert emails.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in the shared HTML layout.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0f766e; color: white; padding: 16px 20px; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { padding: 12px; font-size: 12px; color: #6b7280; }
        .error { color: #dc2626; }
        code { background: #e5e7eb; padding: 2px 6px; border-radius: 4px; }
    </style>
</head>
<body>
    <div class="header"><h1>%s</h1></div>
    <div class="content">%s</div>
    <div class="footer"><a href="%s">%s</a></div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(title), content, t.cfg.BaseURL, html.EscapeString(t.cfg.SiteTitle))
}

// PricingChanged renders the alert for a drift run with changed pages.
func (t *Templates) PricingChanged(report *drift.Report) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] %d pricing page(s) changed", t.cfg.SiteTitle, len(report.Changed))

	var items, text strings.Builder
	fmt.Fprintf(&text, "The following vendor pricing pages changed since the last check:\n\n")
	for _, r := range report.Changed {
		fmt.Fprintf(&items, `<li><strong>%s</strong>: <a href="%s">%s</a></li>`,
			html.EscapeString(r.Vendor), html.EscapeString(r.URL), html.EscapeString(r.URL))
		fmt.Fprintf(&text, "- %s: %s\n", r.Vendor, r.URL)
	}

	content := fmt.Sprintf(`<p>The following vendor pricing pages changed since the last check:</p><ul>%s</ul>`, items.String())

	if len(report.Errors) > 0 {
		var errs strings.Builder
		fmt.Fprintf(&text, "\nPages that could not be fetched:\n\n")
		for _, r := range report.Errors {
			fmt.Fprintf(&errs, `<li>%s: <span class="error">%s</span></li>`, html.EscapeString(r.Vendor), html.EscapeString(r.Err))
			fmt.Fprintf(&text, "- %s: %s\n", r.Vendor, r.Err)
		}
		content += fmt.Sprintf(`<p>Pages that could not be fetched:</p><ul>%s</ul>`, errs.String())
	}

	fmt.Fprintf(&text, "\nReview the offers and update verifiedDate once confirmed.\n")
	content += `<p>Review the offers and update <code>verifiedDate</code> once confirmed.</p>`

	return subject, t.baseHTML("Pricing changes detected", content), text.String()
}
