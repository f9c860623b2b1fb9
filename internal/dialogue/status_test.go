package dialogue_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"civicgo/backend/internal/dialogue"
)

func TestStatusAnswer_ExtractsReferenceFromFreeText(t *testing.T) {
	got := dialogue.StatusAnswer("hi, can you check the status of CC-HWG-240305-001 for me?")

	assert.Contains(t, got, "Status for CC-HWG-240305-001")
	assert.Contains(t, got, "Submitted on: 240305")
	assert.Contains(t, got, "Status: In Progress")
}

func TestStatusAnswer_PermitReference(t *testing.T) {
	got := dialogue.StatusAnswer("status PMT-FNC-231120-042")

	assert.Contains(t, got, "Status for PMT-FNC-231120-042")
}

func TestStatusAnswer_RejectsMalformedReference(t *testing.T) {
	for _, msg := range []string{
		"what's the status?",
		"status of CC-240305-001",       // missing type code
		"status of CC-HWG-2403-001",     // short date
		"status of XX-HWG-240305-001",   // unknown prefix
		"status of cc-hwg-240305-001 ?", // lowercase is not a reference
	} {
		got := dialogue.StatusAnswer(msg)
		assert.Contains(t, got, "valid reference number", "message %q", msg)
	}
}
