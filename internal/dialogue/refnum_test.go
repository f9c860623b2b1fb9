package dialogue_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"civicgo/backend/internal/dialogue"
)

func TestSequencer_Next(t *testing.T) {
	fixed := func() time.Time {
		return time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	}
	seq := dialogue.NewSequencerAt(fixed)

	first := seq.Next("HWG", false)
	second := seq.Next("FNC", true)
	third := seq.Next("HWG", false)

	assert.Equal(t, "CC-HWG-240305-001", first)
	assert.Equal(t, "PMT-FNC-240305-002", second)
	assert.Equal(t, "CC-HWG-240305-003", third)
}

func TestSequencer_OutputMatchesRefPattern(t *testing.T) {
	seq := dialogue.NewSequencer()

	for _, tc := range []struct {
		code     string
		isPermit bool
	}{
		{"HWG", false},
		{"SUB", false},
		{"GAR", true},
		{"TRE", true},
	} {
		ref := seq.Next(tc.code, tc.isPermit)
		assert.Regexp(t, dialogue.RefPattern, ref, "code %s", tc.code)
	}
}
