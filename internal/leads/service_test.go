package leads

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"leadintake/internal/domain"
	"leadintake/internal/store"
)

type memRecords struct {
	leads   []domain.Lead
	saves   int
	loadErr error
	saveErr error
}

func (m *memRecords) Load(context.Context) ([]domain.Lead, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]domain.Lead, len(m.leads))
	copy(out, m.leads)
	return out, nil
}

func (m *memRecords) Save(_ context.Context, leads []domain.Lead) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.leads = append([]domain.Lead(nil), leads...)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSubmit_AssignsDefaults(t *testing.T) {
	recs := &memRecords{}
	svc := NewService(recs, zap.NewNop())
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.Local)
	svc.Now = fixedClock(now)

	lead, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)

	assert.Equal(t, now.UnixMilli(), lead.ID)
	assert.Equal(t, domain.StatusPending, lead.Status)
	assert.Equal(t, "3/5/2024, 2:07:09 PM", lead.SubmissionDate)
	assert.Equal(t, "", lead.AdditionalInfo)
	assert.Equal(t, "Ada", lead.FirstName)
	assert.Equal(t, []string{"O-1"}, lead.VisasOfInterest)

	assert.Equal(t, 1, recs.saves)
	require.Len(t, recs.leads, 1)
	assert.Equal(t, lead, recs.leads[0])
}

func TestSubmit_KeepsAdditionalInfo(t *testing.T) {
	recs := &memRecords{}
	svc := NewService(recs, zap.NewNop())

	sub := validSubmission()
	sub.AdditionalInfo = ptr("looking at EB-1A first")
	lead, err := svc.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, "looking at EB-1A first", lead.AdditionalInfo)
}

func TestSubmit_ValidationFailureWritesNothing(t *testing.T) {
	recs := &memRecords{}
	svc := NewService(recs, zap.NewNop())

	sub := validSubmission()
	sub.FirstName = nil
	sub.ResumeFileName = ptr(" ")

	_, err := svc.Submit(context.Background(), sub)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{MsgFirstName, MsgResume}, verr.Violations)
	assert.Zero(t, recs.saves)
}

func TestSubmit_IDsUniqueWithinSameMillisecond(t *testing.T) {
	recs := &memRecords{}
	svc := NewService(recs, zap.NewNop())
	svc.Now = fixedClock(time.UnixMilli(1_700_000_000_000))

	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		lead, err := svc.Submit(context.Background(), validSubmission())
		require.NoError(t, err)
		assert.False(t, seen[lead.ID], "duplicate id %d", lead.ID)
		seen[lead.ID] = true
	}
	assert.Len(t, recs.leads, 5)
	assert.Equal(t, int64(1_700_000_000_004), recs.leads[4].ID)
}

func TestSubmit_IDAfterClockSkew(t *testing.T) {
	recs := &memRecords{leads: []domain.Lead{{ID: 2_000_000_000_000}}}
	svc := NewService(recs, zap.NewNop())
	svc.Now = fixedClock(time.UnixMilli(1_700_000_000_000))

	lead, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.Equal(t, int64(2_000_000_000_001), lead.ID)
}

func TestSubmit_RunsHooksAfterSave(t *testing.T) {
	recs := &memRecords{}
	var got []domain.Lead
	svc := NewService(recs, zap.NewNop(), func(_ context.Context, l domain.Lead) {
		assert.Equal(t, 1, recs.saves, "hook must run after the save")
		got = append(got, l)
	})

	lead, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.Equal(t, []domain.Lead{lead}, got)
}

func TestSubmit_StorageErrorsPropagate(t *testing.T) {
	t.Run("load", func(t *testing.T) {
		recs := &memRecords{loadErr: store.ErrReadFailed}
		var hooked bool
		svc := NewService(recs, zap.NewNop(), func(context.Context, domain.Lead) { hooked = true })

		_, err := svc.Submit(context.Background(), validSubmission())
		require.ErrorIs(t, err, store.ErrReadFailed)
		assert.False(t, hooked)
	})
	t.Run("save", func(t *testing.T) {
		recs := &memRecords{saveErr: store.ErrWriteFailed}
		svc := NewService(recs, zap.NewNop())

		_, err := svc.Submit(context.Background(), validSubmission())
		require.ErrorIs(t, err, store.ErrWriteFailed)
	})
}

func seedLeads(n int, base time.Time) []domain.Lead {
	out := make([]domain.Lead, n)
	for i := range out {
		at := base.Add(time.Duration(i) * time.Minute)
		out[i] = domain.Lead{
			ID:             int64(i + 1),
			FirstName:      "Lead",
			Status:         domain.StatusPending,
			SubmissionDate: at.Format(domain.SubmissionDateLayout),
		}
	}
	return out
}

func ids(leads []domain.Lead) []int64 {
	out := make([]int64, len(leads))
	for i, l := range leads {
		out[i] = l.ID
	}
	return out
}

func TestList_Pagination(t *testing.T) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	recs := &memRecords{leads: seedLeads(12, base)}
	svc := NewService(recs, zap.NewNop())
	ctx := context.Background()

	p1, err := svc.List(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{12, 11, 10, 9, 8}, ids(p1.Records))
	assert.Equal(t, 12, p1.TotalCount)
	assert.Equal(t, 1, p1.CurrentPage)
	assert.Equal(t, 3, p1.TotalPages)

	p2, err := svc.List(ctx, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 6, 5, 4, 3}, ids(p2.Records))

	// Last page holds the remainder.
	p3, err := svc.List(ctx, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids(p3.Records))
	assert.Equal(t, 3, p3.CurrentPage)

	p4, err := svc.List(ctx, 4, 5)
	require.NoError(t, err)
	assert.Empty(t, p4.Records)
	assert.Equal(t, 4, p4.CurrentPage)
	assert.Equal(t, 3, p4.TotalPages)
	assert.Equal(t, 12, p4.TotalCount)
}

func TestList_SingleRecordLastPage(t *testing.T) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	svc := NewService(&memRecords{leads: seedLeads(11, base)}, zap.NewNop())

	p, err := svc.List(context.Background(), 3, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(p.Records))
	assert.Equal(t, 3, p.TotalPages)
}

func TestList_SortsNewestFirst(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(24 * time.Hour)

	recs := &memRecords{leads: []domain.Lead{
		{ID: 2, SubmissionDate: t2.Format(domain.SubmissionDateLayout)},
		{ID: 1, SubmissionDate: t1.Format(domain.SubmissionDateLayout)},
		{ID: 3, SubmissionDate: t3.Format(domain.SubmissionDateLayout)},
	}}
	svc := NewService(recs, zap.NewNop())

	p, err := svc.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, ids(p.Records))
}

func TestList_StableForEqualAndUnparseableDates(t *testing.T) {
	same := time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local).Format(domain.SubmissionDateLayout)
	newer := time.Date(2024, 6, 2, 12, 0, 0, 0, time.Local).Format(domain.SubmissionDateLayout)

	recs := &memRecords{leads: []domain.Lead{
		{ID: 1, SubmissionDate: "not a date"},
		{ID: 2, SubmissionDate: same},
		{ID: 3, SubmissionDate: same},
		{ID: 4, SubmissionDate: ""},
		{ID: 5, SubmissionDate: newer},
		{ID: 6, SubmissionDate: same},
	}}
	svc := NewService(recs, zap.NewNop())

	p, err := svc.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 2, 3, 6, 1, 4}, ids(p.Records))
}

func TestList_DoesNotReorderStore(t *testing.T) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	recs := &memRecords{leads: seedLeads(3, base)}
	svc := NewService(recs, zap.NewNop())

	_, err := svc.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(recs.leads))
	assert.Zero(t, recs.saves)
}

func TestList_InvalidPagination(t *testing.T) {
	svc := NewService(&memRecords{}, zap.NewNop())
	for _, tc := range []struct{ page, limit int }{{0, 10}, {1, 0}, {-1, 5}, {2, -3}} {
		_, err := svc.List(context.Background(), tc.page, tc.limit)
		assert.ErrorIs(t, err, ErrInvalidPagination, "page=%d limit=%d", tc.page, tc.limit)
	}
}

func TestList_HugePageIsEmpty(t *testing.T) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	svc := NewService(&memRecords{leads: seedLeads(3, base)}, zap.NewNop())

	p, err := svc.List(context.Background(), int(^uint(0)>>1), 100)
	require.NoError(t, err)
	assert.Empty(t, p.Records)
	assert.Equal(t, 1, p.TotalPages)
}

func TestList_MaxIntLimit(t *testing.T) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	svc := NewService(&memRecords{leads: seedLeads(2, base)}, zap.NewNop())
	ctx := context.Background()

	p, err := svc.List(ctx, 1, math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids(p.Records))
	assert.Equal(t, 1, p.TotalPages)

	p, err = svc.List(ctx, 2, math.MaxInt)
	require.NoError(t, err)
	assert.Empty(t, p.Records)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 2, p.TotalCount)

	p, err = svc.List(ctx, math.MaxInt, math.MaxInt)
	require.NoError(t, err)
	assert.Empty(t, p.Records)
}

func TestList_EmptyStore(t *testing.T) {
	svc := NewService(&memRecords{}, zap.NewNop())

	p, err := svc.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.NotNil(t, p.Records)
	assert.Empty(t, p.Records)
	assert.Equal(t, 0, p.TotalCount)
	assert.Equal(t, 0, p.TotalPages)
}

func TestList_LoadError(t *testing.T) {
	svc := NewService(&memRecords{loadErr: errors.New("disk gone")}, zap.NewNop())
	_, err := svc.List(context.Background(), 1, 10)
	require.Error(t, err)
}

func TestService_WithFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "leads.json")
	svc := NewService(store.NewFile[domain.Lead](path, zap.NewNop()), zap.NewNop())

	base := time.Date(2024, 2, 1, 8, 0, 0, 0, time.Local)
	for i := 0; i < 3; i++ {
		svc.Now = fixedClock(base.Add(time.Duration(i) * time.Hour))
		_, err := svc.Submit(ctx, validSubmission())
		require.NoError(t, err)
	}

	p, err := svc.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, p.Records, 2)
	assert.Equal(t, base.Add(2*time.Hour).UnixMilli(), p.Records[0].ID)
	assert.Equal(t, 3, p.TotalCount)
	assert.Equal(t, 2, p.TotalPages)
}
