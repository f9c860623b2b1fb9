package dialogue_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"civicgo/backend/internal/dialogue"
)

func TestPassportAnswer_Fees(t *testing.T) {
	got := dialogue.PassportAnswer("how much does a passport cost")

	assert.Contains(t, got, "Passport Fees:")
	assert.Contains(t, got, "Normal Passport (36 pages): 1500 INR")
	assert.Contains(t, got, "Tatkal Passport (Urgent): 3500 INR")

	// Types are listed in a fixed order.
	assert.Less(t,
		strings.Index(got, "Normal Passport"),
		strings.Index(got, "Jumbo Passport"))
}

func TestPassportAnswer_Apply(t *testing.T) {
	got := dialogue.PassportAnswer("how do i apply for a passport")

	assert.Contains(t, got, "passportindia.gov.in")
	assert.Contains(t, got, "Schedule an appointment")
}

func TestPassportAnswer_Tatkal(t *testing.T) {
	got := dialogue.PassportAnswer("i need an urgent passport")

	assert.Contains(t, got, "Tatkal (Urgent) Passport Information:")
	assert.Contains(t, got, "1-3 working days")
}

func TestPassportAnswer_FallbackMenu(t *testing.T) {
	got := dialogue.PassportAnswer("passport")

	assert.Contains(t, got, "Please ask about:")
	assert.Contains(t, got, "Tatkal/Urgent passport")
}
