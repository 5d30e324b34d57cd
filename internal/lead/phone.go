package lead

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// defaultRegion is assumed for numbers without a country code.
const defaultRegion = "US"

var nonDigitRe = regexp.MustCompile(`\D`)

// NormalizePhone reduces a phone number in any common formatting to a bare
// digit string. Valid numbers are rendered in E.164 form minus the leading
// "+", so a US number always comes out as "1XXXXXXXXXX" with the country
// code kept, regardless of how the input was written. When parsing fails
// the raw digits are kept if at least ten remain, otherwise the result is
// empty. It never returns an error.
func NormalizePhone(raw string) string {
	if raw == "" {
		return ""
	}

	if num, err := phonenumbers.Parse(raw, defaultRegion); err == nil {
		if phonenumbers.IsValidNumber(num) {
			return strings.TrimPrefix(phonenumbers.Format(num, phonenumbers.E164), "+")
		}
	}

	digits := nonDigitRe.ReplaceAllString(raw, "")
	if len(digits) >= 10 {
		return digits
	}
	return ""
}
