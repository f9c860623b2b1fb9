package dialogue

import (
	"fmt"
	"strings"
)

const invalidRefText = "Please provide a valid reference number in the format CC-XXX-YYMMDD-NNN or PMT-XXX-YYMMDD-NNN"

// StatusAnswer extracts a reference number from free text and returns a
// canned status reply embedding its date fragment.
//
// It deliberately does not consult stored reports: the bot's status line has
// always been a placeholder, and the authoritative view is the complaints
// endpoint. Wiring it to real records is a product decision, not a bug fix.
func StatusAnswer(message string) string {
	ref := RefPattern.FindString(message)
	if ref == "" {
		return invalidRefText
	}
	date := strings.Split(ref, "-")[2]
	return fmt.Sprintf("Status for %s:\nSubmitted on: %s\nStatus: In Progress\n\nA city inspector will be assigned to your case within 2-3 business days.", ref, date)
}
