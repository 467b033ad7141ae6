// ABOUTME: Email header parsing and filtering helpers for the Gmail sync
// ABOUTME: Builds the search query and skips automated senders and auto-generated subjects
package sync

import (
	"fmt"
	"strings"
	"time"
)

// BuildQuery returns the Gmail search for the last days days, without promotions.
func BuildQuery(days int) string {
	return fmt.Sprintf("newer_than:%dd -category:promotions", days)
}

// ExtractEmailAddress splits "Name <addr>" into name, address, and lowercased domain.
func ExtractEmailAddress(field string) (name, email, domain string) {
	field = strings.TrimSpace(field)
	if field == "" {
		return "", "", ""
	}

	open, end := strings.LastIndex(field, "<"), strings.LastIndex(field, ">")
	if open >= 0 && end > open {
		name = strings.Trim(strings.TrimSpace(field[:open]), `"`)
		email = strings.TrimSpace(field[open+1 : end])
	} else {
		email = field
	}
	return name, email, extractDomain(email)
}

func isAutomatedSender(email string) bool {
	local := strings.ToLower(email)
	if local == "" {
		return true
	}
	if i := strings.Index(local, "@"); i >= 0 {
		local = local[:i]
	}
	for _, marker := range []string{"noreply", "no-reply", "donotreply", "do-not-reply", "mailer-daemon", "notifications", "postmaster"} {
		if strings.Contains(local, marker) {
			return true
		}
	}
	return false
}

func isAutoGeneratedSubject(subject string) bool {
	s := strings.ToLower(strings.TrimSpace(subject))
	if len(s) < 3 {
		return true
	}
	for _, prefix := range []string{"automatic reply", "auto-reply", "out of office", "delivery status notification", "undeliverable"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// isCommonEmailDomain reports free-mail providers that say nothing about a company.
func isCommonEmailDomain(domain string) bool {
	switch strings.ToLower(domain) {
	case "gmail.com", "googlemail.com", "yahoo.com", "hotmail.com", "outlook.com", "live.com",
		"msn.com", "icloud.com", "me.com", "mac.com", "aol.com", "protonmail.com", "pm.me":
		return true
	}
	return false
}

// companyNameFromDomain turns "acme-labs.io" into "Acme Labs".
func companyNameFromDomain(domain string) string {
	name := strings.ToLower(domain)
	for _, tld := range []string{".com", ".org", ".net", ".io", ".co.uk", ".co"} {
		if strings.HasSuffix(name, tld) {
			name = strings.TrimSuffix(name, tld)
			break
		}
	}
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '.' || r == '-' })
	for i, part := range parts {
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

// parseEmailDate parses an RFC 2822 Date header.
func parseEmailDate(s string) (time.Time, error) {
	if idx := strings.Index(s, " ("); idx > 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)
	for _, layout := range []string{
		time.RFC1123Z,
		"Mon, 2 Jan 2006 15:04:05 -0700",
		time.RFC1123,
		"Mon, 2 Jan 2006 15:04:05 MST",
		"2 Jan 2006 15:04:05 -0700",
		time.RFC822Z,
		time.RFC3339,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date: %q", s)
}
