package triage

import (
	"fmt"
	"strings"

	"github.com/pk527236/ai-support-assistant/internal/model"
)

// Redirect reports whether the ticket belongs to another team. It returns
// nil for product-related tickets; otherwise the matched category, the
// team's email and a ready-to-send redirect message.
func (p *Policy) Redirect(product, ticketText string) *model.Redirect {
	lower := strings.ToLower(ticketText)
	for _, rule := range p.Redirects {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return &model.Redirect{
					Category: rule.Category,
					Email:    rule.Email,
					Message:  redirectMessage(product, rule.Category, rule.Email),
				}
			}
		}
	}
	return nil
}

func redirectMessage(product, category, email string) string {
	return fmt.Sprintf(`Thank you for reaching out to %s Support.

This help desk is specifically for %s product-related questions.

Your request appears to be related to %s.

**Please submit your request to:** %s

Feel free to contact us again for %s product-related issues.

Best regards,
%s Support Team`, product, product, categoryTitle(category), email, product, product)
}

// categoryTitle turns "it_helpdesk" into "It Helpdesk" for the customer
// facing message.
func categoryTitle(category string) string {
	words := strings.Split(strings.ReplaceAll(category, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
