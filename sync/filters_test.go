package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"

	"github.com/harperreed/voss/models"
)

func TestExtractEmailAddress(t *testing.T) {
	tests := []struct {
		field, name, email, domain string
	}{
		{"", "", "", ""},
		{"user@example.com", "", "user@example.com", "example.com"},
		{"John Doe <john@example.com>", "John Doe", "john@example.com", "example.com"},
		{`"Jane Smith" <jane@example.com>`, "Jane Smith", "jane@example.com", "example.com"},
		{"Alice <  alice@example.com  >", "Alice", "alice@example.com", "example.com"},
		{"user@EXAMPLE.COM", "", "user@EXAMPLE.COM", "example.com"},
		{"invaliduser", "", "invaliduser", ""},
		{"user@@example.com", "", "user@@example.com", ""},
		{"Just Name <>", "Just Name", "", ""},
	}
	for _, tt := range tests {
		name, email, domain := ExtractEmailAddress(tt.field)
		assert.Equal(t, tt.name, name, tt.field)
		assert.Equal(t, tt.email, email, tt.field)
		assert.Equal(t, tt.domain, domain, tt.field)
	}
}

func TestFirstRecipient(t *testing.T) {
	tests := []struct {
		to, name, email string
	}{
		{"bob@example.com", "", "bob@example.com"},
		{"Bob <bob@example.com>, carol@example.com", "Bob", "bob@example.com"},
		{`"Doe, John" <john@example.com>, jane@example.com`, "Doe, John", "john@example.com"},
		{`"Doe, John" <john@example.com>`, "Doe, John", "john@example.com"},
	}
	for _, tt := range tests {
		name, email, _ := ExtractEmailAddress(firstRecipient(tt.to))
		assert.Equal(t, tt.name, name, tt.to)
		assert.Equal(t, tt.email, email, tt.to)
	}
}

func TestFilters(t *testing.T) {
	assert.True(t, isAutomatedSender(""))
	assert.True(t, isAutomatedSender("no-reply@service.com"))
	assert.True(t, isAutomatedSender("DoNotReply@company.com"))
	assert.False(t, isAutomatedSender("alice@example.com"))

	assert.True(t, isAutoGeneratedSubject("  "))
	assert.True(t, isAutoGeneratedSubject("Re"))
	assert.True(t, isAutoGeneratedSubject("Automatic reply: away"))
	assert.False(t, isAutoGeneratedSubject("Hey"))

	assert.True(t, isCommonEmailDomain("GMail.com"))
	assert.False(t, isCommonEmailDomain("acme.com"))
}

func TestCompanyNameFromDomain(t *testing.T) {
	assert.Equal(t, "Acme", companyNameFromDomain("acme.com"))
	assert.Equal(t, "Acme Labs", companyNameFromDomain("acme-labs.io"))
	assert.Equal(t, "Mail Example", companyNameFromDomain("mail.example.org"))
	assert.Equal(t, "Bbc", companyNameFromDomain("bbc.co.uk"))
}

func TestParseEmailDate(t *testing.T) {
	got, err := parseEmailDate("Mon, 8 Jan 2024 10:00:00 +0100 (CET)")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)))

	_, err = parseEmailDate("yesterday")
	assert.Error(t, err)
}

func TestParseHeaders(t *testing.T) {
	assert.Empty(t, parseHeaders(nil))
	got := parseHeaders(&gmail.MessagePart{Headers: []*gmail.MessagePartHeader{
		{Name: "From", Value: "a@b.com"},
		nil,
		{Name: "Subject", Value: "Hi"},
	}})
	assert.Equal(t, map[string]string{"From": "a@b.com", "Subject": "Hi"}, got)
}

func TestContactMatcher(t *testing.T) {
	contacts := []models.Contact{{FirstName: "Alice", Email: "Alice@Example.com"}, {FirstName: "NoMail"}}
	m := NewContactMatcher(contacts)

	c, ok := m.FindMatch(" alice@example.COM ")
	require.True(t, ok)
	assert.Equal(t, "Alice", c.FirstName)

	_, ok = m.FindMatch("")
	assert.False(t, ok)

	m.Add(&models.Contact{FirstName: "Bob", Email: "bob@example.com"})
	_, ok = m.FindMatch("BOB@example.com")
	assert.True(t, ok)
}
