package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.Record(ctx, Event{LeadID: 1, Type: TypeLeadCreated, At: base}))
	require.NoError(t, db.Record(ctx, Event{LeadID: 2, Type: TypeLeadCreated, At: base.Add(time.Minute)}))
	require.NoError(t, db.Record(ctx, Event{Type: TypeStoreReset, At: base.Add(2 * time.Minute), Detail: "data/leads.json"}))

	got, err := db.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, TypeStoreReset, got[0].Type)
	assert.Equal(t, "data/leads.json", got[0].Detail)
	assert.Equal(t, base.Add(2*time.Minute), got[0].At)
	assert.Equal(t, int64(2), got[1].LeadID)
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		require.NoError(t, db.Record(ctx, Event{LeadID: int64(i), Type: TypeLeadCreated, At: base.Add(time.Duration(i) * 24 * time.Hour)}))
	}

	n, err := db.Prune(ctx, base.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := db.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, left, 2)
}

func TestPrune_ClosedDB(t *testing.T) {
	db := openTemp(t)
	require.NoError(t, db.Close())

	n, err := db.Prune(context.Background(), time.Now())
	require.Error(t, err)
	assert.Zero(t, n)
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "audit.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Record(ctx, Event{LeadID: 7, Type: TypeLeadCreated}))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	got, err := db.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].LeadID)
}
