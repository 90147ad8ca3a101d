package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pbaille/sitemapgen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(started time.Time) domain.Run {
	return domain.Run{
		Mode:      "split",
		BaseURL:   "https://example.com",
		OutputDir: "public",
		StartedAt: started,
		TotalURLs: 5,
		Warnings:  []string{"first", "second"},
		Categories: []domain.CategoryCount{
			{Category: "main", Count: 2, File: "sitemap-main.xml"},
			{Category: "finance", Count: 3, File: "sitemap-finance.xml"},
			{Category: "text", Count: 0},
		},
	}
}

func TestRecordAndGetRun(t *testing.T) {
	s := newTestStore(t)
	started := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	saved, err := s.RecordRun(sampleRun(started))
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, err := s.GetRun(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "split", got.Mode)
	assert.Equal(t, 5, got.TotalURLs)
	assert.True(t, started.Equal(got.StartedAt), "started_at %v", got.StartedAt)
	assert.Equal(t, []string{"first", "second"}, got.Warnings)
	assert.Equal(t, sampleRun(started).Categories, got.Categories)
}

func TestGetRunByPrefix(t *testing.T) {
	s := newTestStore(t)
	saved, err := s.RecordRun(sampleRun(time.Now()))
	require.NoError(t, err)

	got, err := s.GetRun(saved.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
}

func TestGetRunErrors(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRun("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	for i := 0; i < 2; i++ {
		_, err := s.RecordRun(sampleRun(time.Now()))
		require.NoError(t, err)
	}
	_, err = s.GetRun("")
	assert.ErrorIs(t, err, ErrAmbiguous)
}

func TestListRunsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		run := sampleRun(base.Add(time.Duration(i) * time.Hour))
		run.Mode = "pages"
		saved, err := s.RecordRun(run)
		require.NoError(t, err)
		ids = append(ids, saved.ID)
	}

	runs, err := s.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
	assert.Len(t, runs[0].Categories, 3)
	assert.Empty(t, runs[0].Warnings)
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := New(path)
	require.NoError(t, err)
	saved, err := s.RecordRun(sampleRun(time.Now()))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetRun(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
}
