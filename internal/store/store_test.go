package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"civicgo/backend/internal/models"
	"civicgo/backend/internal/store"
)

// memPersister is an in-memory Persister; failNext makes the next call fail.
type memPersister struct {
	saved    []models.Report
	failNext error
	saves    int
	loads    int
}

func (p *memPersister) SaveReports(_ context.Context, reports []models.Report) error {
	p.saves++
	if p.failNext != nil {
		err := p.failNext
		p.failNext = nil
		return err
	}
	p.saved = append([]models.Report(nil), reports...)
	return nil
}

func (p *memPersister) LoadReports(_ context.Context) ([]models.Report, error) {
	p.loads++
	if p.failNext != nil {
		err := p.failNext
		p.failNext = nil
		return nil, err
	}
	return p.saved, nil
}

func details(userID string) store.Details {
	return store.Details{
		UserID:      userID,
		Address:     "123 Main Street",
		Description: "tall grass",
		IsAnonymous: true,
		Keywords:    []string{"grass"},
	}
}

func TestStore_AddSeedsUpdateTrail(t *testing.T) {
	p := &memPersister{}
	st := store.New(p, zap.NewNop())
	ctx := context.Background()

	report, err := st.Add(ctx, "HWG", "CC-HWG-240305-001", details("user-1"))

	require.NoError(t, err)
	assert.Equal(t, "CC-HWG-240305-001", report.ID)
	assert.False(t, report.IsPermit)
	assert.Equal(t, "Submitted", report.Status)
	require.Len(t, report.Updates, 1)
	assert.Equal(t, "Submitted", report.Updates[0].Status)
	assert.Equal(t, "Complaint registered successfully", report.Updates[0].Message)

	// Written through to the persister.
	require.Len(t, p.saved, 1)
	assert.Equal(t, report.ID, p.saved[0].ID)
}

func TestStore_AddPermitReference(t *testing.T) {
	st := store.New(&memPersister{}, zap.NewNop())

	report, err := st.Add(context.Background(), "FNC", "PMT-FNC-240305-002", details("user-1"))

	require.NoError(t, err)
	assert.True(t, report.IsPermit)
}

func TestStore_AddKeepsRecordWhenPersistFails(t *testing.T) {
	p := &memPersister{}
	st := store.New(p, zap.NewNop())
	ctx := context.Background()

	p.failNext = errors.New("connection refused")
	_, err := st.Add(ctx, "HWG", "CC-HWG-240305-001", details("user-1"))

	assert.Error(t, err)
	assert.Error(t, st.LastError())
	// The in-memory record stands.
	require.Len(t, st.All(), 1)

	// The next successful save clears the error state.
	_, err = st.Add(ctx, "NSE", "CC-NSE-240305-002", details("user-1"))
	require.NoError(t, err)
	assert.NoError(t, st.LastError())
	assert.Len(t, p.saved, 2)
}

func TestStore_InitIsIdempotentAndNonFatal(t *testing.T) {
	p := &memPersister{
		saved: []models.Report{{ID: "CC-HWG-240101-001", Type: "HWG"}},
	}
	st := store.New(p, zap.NewNop())
	ctx := context.Background()

	st.Init(ctx)
	st.Init(ctx)

	assert.Equal(t, 1, p.loads)
	assert.Len(t, st.All(), 1)

	// A failing load leaves an empty but usable store.
	failing := &memPersister{failNext: errors.New("no route to host")}
	st2 := store.New(failing, zap.NewNop())
	st2.Init(ctx)
	assert.Error(t, st2.LastError())
	assert.Empty(t, st2.All())
}

func TestStore_UpdateStatus(t *testing.T) {
	st := store.New(&memPersister{}, zap.NewNop())
	ctx := context.Background()
	st.Add(ctx, "HWG", "CC-HWG-240305-001", details("user-1"))

	found := st.UpdateStatus(ctx, "CC-HWG-240305-001", "In Progress", "Inspector assigned")

	assert.True(t, found)
	reports := st.All()
	require.Len(t, reports, 1)
	assert.Equal(t, "In Progress", reports[0].Status)
	require.Len(t, reports[0].Updates, 2)
	assert.Equal(t, "Inspector assigned", reports[0].Updates[1].Message)

	// Unknown references are a silent no-op.
	assert.False(t, st.UpdateStatus(ctx, "CC-XXX-000000-999", "Resolved", ""))
}

func TestStore_Filtered(t *testing.T) {
	st := store.New(&memPersister{}, zap.NewNop())
	ctx := context.Background()
	st.Add(ctx, "HWG", "CC-HWG-240305-001", details("user-1"))
	st.Add(ctx, "FNC", "PMT-FNC-240305-002", details("user-2"))
	st.UpdateStatus(ctx, "CC-HWG-240305-001", "In Progress", "")

	assert.Len(t, st.Filtered("all", "all"), 2)
	assert.Len(t, st.Filtered("complaints", "all"), 1)
	assert.Len(t, st.Filtered("permits", "all"), 1)
	assert.Len(t, st.Filtered("all", "in-progress"), 1)
	assert.Len(t, st.Filtered("permits", "in-progress"), 0)
	assert.Len(t, st.Filtered("complaints", "submitted"), 0)
}

func TestStore_ForUser(t *testing.T) {
	st := store.New(&memPersister{}, zap.NewNop())
	ctx := context.Background()
	st.Add(ctx, "HWG", "CC-HWG-240305-001", details("user-1"))
	st.Add(ctx, "NSE", "CC-NSE-240305-002", details("user-2"))
	st.Add(ctx, "DMP", "CC-DMP-240305-003", details("user-1"))

	mine := st.ForUser("user-1")
	require.Len(t, mine, 2)
	assert.Equal(t, "HWG", mine[0].Type)
	assert.Equal(t, "DMP", mine[1].Type)
	assert.Empty(t, st.ForUser("user-3"))
}

// jsonPersister serializes through JSON, the way records travel to and from
// real storage.
type jsonPersister struct {
	blob []byte
}

func (p *jsonPersister) SaveReports(_ context.Context, reports []models.Report) error {
	b, err := json.Marshal(reports)
	if err != nil {
		return err
	}
	p.blob = b
	return nil
}

func (p *jsonPersister) LoadReports(_ context.Context) ([]models.Report, error) {
	if p.blob == nil {
		return nil, nil
	}
	var reports []models.Report
	if err := json.Unmarshal(p.blob, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func TestStore_ReloadRoundTrip(t *testing.T) {
	p := &jsonPersister{}
	st := store.New(p, zap.NewNop())
	ctx := context.Background()
	filed := time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)
	st.SetClock(func() time.Time { return filed })
	st.Add(ctx, "SUB", "CC-SUB-240305-001", store.Details{
		UserID:      "user-1",
		Address:     "77 Pine St",
		Description: "no heat",
		ContactInfo: "Jane Doe, 555-0142",
		Keywords:    []string{"heat"},
	})

	// A fresh store over the same persister sees the identical record.
	st2 := store.New(p, zap.NewNop())
	st2.Init(ctx)
	reports := st2.All()
	require.Len(t, reports, 1)
	r := reports[0]
	assert.Equal(t, "CC-SUB-240305-001", r.ID)
	assert.Equal(t, "SUB", r.Type)
	assert.Equal(t, "user-1", r.UserID)
	assert.Equal(t, "77 Pine St", r.Address)
	assert.Equal(t, "no heat", r.Description)
	assert.Equal(t, "Jane Doe, 555-0142", r.ContactInfo)
	assert.Equal(t, []string{"heat"}, []string(r.Keywords))
	assert.True(t, r.DateSubmitted.Equal(filed))
	require.Len(t, r.Updates, 1)
	assert.True(t, r.Updates[0].Date.Equal(filed))
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, "in-progress", store.NormalizeStatus("In Progress"))
	assert.Equal(t, "submitted", store.NormalizeStatus("Submitted"))
	assert.Equal(t, "all", store.NormalizeStatus("all"))
}
