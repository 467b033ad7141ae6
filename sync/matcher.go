// ABOUTME: Contact matching by email for the Gmail sync
// ABOUTME: Prevents duplicate contacts, including ones created earlier in the same run
package sync

import (
	"strings"

	"github.com/harperreed/voss/models"
)

type ContactMatcher struct {
	byEmail map[string]*models.Contact
}

func NewContactMatcher(contacts []models.Contact) *ContactMatcher {
	m := &ContactMatcher{byEmail: make(map[string]*models.Contact)}
	for i := range contacts {
		m.Add(&contacts[i])
	}
	return m
}

func (m *ContactMatcher) FindMatch(email string) (*models.Contact, bool) {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return nil, false
	}
	c, ok := m.byEmail[normalized]
	return c, ok
}

func (m *ContactMatcher) Add(c *models.Contact) {
	if email := normalizeEmail(c.Email); email != "" {
		m.byEmail[email] = c
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// extractDomain returns the lowercased domain, or "" unless there is exactly one @.
func extractDomain(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[1] == "" {
		return ""
	}
	return strings.ToLower(parts[1])
}
