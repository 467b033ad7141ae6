// ABOUTME: Phone number normalization for contacts
// ABOUTME: Formats parseable numbers as E.164 and leaves unparseable input untouched
package models

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const DefaultPhoneRegion = "US"

// NormalizePhone returns raw in E.164 form when it parses as a valid number
// for region. Anything else is returned trimmed but otherwise unchanged, so
// free-form notes like "ask reception" survive an import.
func NormalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = DefaultPhoneRegion
	}

	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return raw
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return raw
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
