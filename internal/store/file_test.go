package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"leadintake/internal/domain"
)

func newLeadFile(t *testing.T, rel string) *File[domain.Lead] {
	t.Helper()
	return NewFile[domain.Lead](filepath.Join(t.TempDir(), rel), zap.NewNop())
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestLoad_MissingFileIsCreatedEmpty(t *testing.T) {
	ctx := context.Background()
	f := newLeadFile(t, filepath.Join("nested", "data", "leads.json"))

	got, err := f.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.Equal(t, "[]", readFile(t, f.Path()))

	info1, err := os.Stat(f.Path())
	require.NoError(t, err)

	got, err = f.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	info2, err := os.Stat(f.Path())
	require.NoError(t, err)
	assert.Equal(t, info1.ModTime(), info2.ModTime())
	assert.Equal(t, "[]", readFile(t, f.Path()))
}

func TestLoad_BlankFileIsEmptyAndNotRewritten(t *testing.T) {
	f := newLeadFile(t, "leads.json")
	require.NoError(t, os.WriteFile(f.Path(), []byte("  \n\t "), 0o644))

	got, err := f.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, "  \n\t ", readFile(t, f.Path()))
}

func TestLoad_NonArrayIsReset(t *testing.T) {
	for name, content := range map[string]string{
		"object": `{"id": 1}`,
		"number": `42`,
		"null":   `null`,
		"string": `"leads"`,
	} {
		t.Run(name, func(t *testing.T) {
			f := newLeadFile(t, "leads.json")
			require.NoError(t, os.WriteFile(f.Path(), []byte(content), 0o644))

			var resetPath string
			f.OnReset = func(_ context.Context, path string) { resetPath = path }

			got, err := f.Load(context.Background())
			require.NoError(t, err)
			assert.Empty(t, got)
			assert.Equal(t, "[]", readFile(t, f.Path()))
			assert.Equal(t, f.Path(), resetPath)
		})
	}
}

func TestLoad_InvalidJSONIsReadFailure(t *testing.T) {
	f := newLeadFile(t, "leads.json")
	require.NoError(t, os.WriteFile(f.Path(), []byte(`[{"id": 1,`), 0o644))

	_, err := f.Load(context.Background())
	require.ErrorIs(t, err, ErrReadFailed)
	assert.Equal(t, `[{"id": 1,`, readFile(t, f.Path()), "broken content must be left for operators")
}

func TestLoad_ElementTypeMismatchIsReadFailure(t *testing.T) {
	f := newLeadFile(t, "leads.json")
	require.NoError(t, os.WriteFile(f.Path(), []byte(`[1, 2, 3]`), 0o644))

	_, err := f.Load(context.Background())
	require.ErrorIs(t, err, ErrReadFailed)
}

func TestLoad_DirectoryIsReadFailure(t *testing.T) {
	dir := t.TempDir()
	f := NewFile[domain.Lead](dir, zap.NewNop())

	_, err := f.Load(context.Background())
	require.ErrorIs(t, err, ErrReadFailed)
}

func TestSave_RoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newLeadFile(t, "leads.json")

	want := []domain.Lead{
		{
			ID:              1700000000000,
			FirstName:       "Ada",
			LastName:        "Lovelace",
			Email:           "ada@example.com",
			LinkedInProfile: "https://www.linkedin.com/in/ada",
			Country:         "United Kingdom",
			VisasOfInterest: []string{"O-1", "EB-1A"},
			ResumeFileName:  "ada.pdf",
			AdditionalInfo:  "",
			Status:          domain.StatusPending,
			SubmissionDate:  "11/14/2023, 10:13:20 PM",
		},
		{
			ID:              1700000000001,
			FirstName:       "Alan",
			LastName:        "Turing",
			Email:           "alan@example.com",
			LinkedInProfile: "https://www.linkedin.com/in/alan/",
			Country:         "Other",
			VisasOfInterest: []string{"EB-2 NIW"},
			ResumeFileName:  "cv.docx",
			AdditionalInfo:  "prefers email",
			Status:          domain.StatusReachedOut,
			SubmissionDate:  "11/14/2023, 10:13:21 PM",
		},
	}
	require.NoError(t, f.Save(ctx, want))

	got, err := f.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_NilWritesEmptyArray(t *testing.T) {
	f := newLeadFile(t, "leads.json")
	require.NoError(t, f.Save(context.Background(), nil))
	assert.Equal(t, "[]", readFile(t, f.Path()))
}

func TestSave_UnwritablePathIsWriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// Parent "directory" is a regular file, so MkdirAll fails.
	f := NewFile[domain.Lead](filepath.Join(blocker, "leads.json"), zap.NewNop())
	err := f.Save(context.Background(), nil)
	require.ErrorIs(t, err, ErrWriteFailed)
}

func TestLoad_CanceledContext(t *testing.T) {
	f := newLeadFile(t, "leads.json")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(f.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoad_DoesNotLogFileContents(t *testing.T) {
	const pii = "ada@example.com"
	for name, content := range map[string]string{
		"syntax error": `[{"email": "` + pii + `",`,
		"not an array": `{"email": "` + pii + `"}`,
	} {
		t.Run(name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			f := NewFile[domain.Lead](filepath.Join(t.TempDir(), "leads.json"), zap.New(core))
			require.NoError(t, os.WriteFile(f.Path(), []byte(content), 0o644))

			_, _ = f.Load(context.Background())

			require.NotZero(t, logs.Len())
			for _, e := range logs.All() {
				assert.NotContains(t, e.Message, pii)
				for k, v := range e.ContextMap() {
					assert.NotContains(t, fmt.Sprint(v), pii, "field %s", k)
				}
			}
			assert.Equal(t, 1, logs.FilterField(zap.Int("size", len(content))).Len())
		})
	}
}
