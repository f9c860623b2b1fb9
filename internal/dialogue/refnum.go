package dialogue

import (
	"fmt"
	"regexp"
	"sync/atomic"
	"time"

	"civicgo/backend/internal/config"
)

// RefPattern matches a reference number inside free text. It must stay
// bit-compatible with what Sequencer.Next produces.
var RefPattern = regexp.MustCompile(`(CC|PMT)-[A-Z]+-\d{6}-\d{3}`)

// Sequencer hands out reference numbers of the form
// {CC|PMT}-{TYPE}-{YYMMDD}-{SEQ3}. Complaints and permits share one counter.
//
// The counter lives in process memory only and starts over at 1 on restart,
// so numbers are not guaranteed unique across runs or instances. That is a
// known limitation inherited from the original portal, kept deliberately
// until the uniqueness requirement is clarified.
type Sequencer struct {
	counter atomic.Uint64
	now     func() time.Time
}

// NewSequencer returns a sequencer using wall-clock dates.
func NewSequencer() *Sequencer {
	return &Sequencer{now: time.Now}
}

// NewSequencerAt returns a sequencer with an injected clock.
func NewSequencerAt(now func() time.Time) *Sequencer {
	return &Sequencer{now: now}
}

// Next returns the next reference number for the given category code.
func (g *Sequencer) Next(code string, isPermit bool) string {
	prefix := config.ComplaintPrefix
	if isPermit {
		prefix = config.PermitPrefix
	}
	date := g.now().Format(config.ReferenceDateLayout)
	seq := g.counter.Add(1)
	return fmt.Sprintf("%s-%s-%s-%03d", prefix, code, date, seq)
}
