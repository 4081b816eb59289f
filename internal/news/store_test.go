package news

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finpulse/finpulse/pkg/models"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "news.json"))
}

func article(id, title, date string, cat models.Category, tags ...string) models.NormalizedArticle {
	return models.NormalizedArticle{
		ID: id, Title: title, Date: date, Category: cat, Tags: tags,
		Source: "Finnhub: Reuters", URL: "https://example.com/" + id,
	}
}

func TestStoreMissingFileReadsEmpty(t *testing.T) {
	s := tempStore(t)
	assert.Empty(t, s.List())
}

func TestStoreCorruptFileReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewStore(path)
	assert.Empty(t, s.List())

	// Ingest can still overwrite it.
	require.NoError(t, s.Replace([]models.NormalizedArticle{
		article("finnhub:1", "t", "2025-08-29", models.CategoryMarkets),
	}))
	assert.Len(t, s.List(), 1)
}

func TestStoreReplaceAndReload(t *testing.T) {
	s := tempStore(t)
	items := []models.NormalizedArticle{
		article("a:1", "older", "2025-08-01", models.CategoryMarkets),
		article("a:2", "newer", "2025-08-20", models.CategoryOil),
	}
	require.NoError(t, s.Replace(items))

	// A second store over the same file sees the data, newest first.
	s2 := NewStore(s.Path())
	got := s2.List()
	require.Len(t, got, 2)
	assert.Equal(t, "a:2", got[0].ID)
	assert.Equal(t, "a:1", got[1].ID)
}

func TestStoreReplaceLeavesOldFileOnError(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Replace([]models.NormalizedArticle{
		article("a:1", "keep me", "2025-08-01", models.CategoryMarkets),
	}))

	// Point a store at a path whose directory cannot be created.
	blocked := NewStore(filepath.Join(s.Path(), "impossible", "news.json"))
	err := blocked.Replace([]models.NormalizedArticle{article("a:2", "x", "2025-08-02", models.CategoryOil)})
	assert.Error(t, err)

	// Original file untouched.
	got := NewStore(s.Path()).List()
	require.Len(t, got, 1)
	assert.Equal(t, "keep me", got[0].Title)
}

func TestStoreQuery(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Replace([]models.NormalizedArticle{
		article("a:1", "Brent climbs", "2025-08-20", models.CategoryOil, "Oil", "$XOM"),
		article("a:2", "CPI runs hot", "2025-08-21", models.CategoryInflation, "Inflation", "Fed"),
		article("a:3", "Stocks rally", "2025-08-22", models.CategoryMarkets, "Equities"),
	}))

	assert.Len(t, s.Query("Oil", ""), 1)
	assert.Len(t, s.Query("", "cpi"), 1)

	// Exact tag match via "#", case-insensitive.
	byTag := s.Query("", "#fed")
	require.Len(t, byTag, 1)
	assert.Equal(t, "a:2", byTag[0].ID)

	// Substring across tags too.
	assert.Len(t, s.Query("", "xom"), 1)
	assert.Empty(t, s.Query("Oil", "cpi"))
}

func TestStoreTopTags(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Replace([]models.NormalizedArticle{
		article("a:1", "x", "2025-08-20", models.CategoryOil, "Oil", "OPEC"),
		article("a:2", "y", "2025-08-21", models.CategoryOil, "Oil"),
		article("a:3", "z", "2025-08-22", models.CategoryMarkets, "Equities"),
	}))

	top := s.TopTags(2)
	require.Len(t, top, 2)
	assert.Equal(t, models.TagCount{Tag: "Oil", Count: 2}, top[0])
}

func TestStoreHotReloadOnMtimeChange(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Replace([]models.NormalizedArticle{
		article("a:1", "first", "2025-08-20", models.CategoryMarkets),
	}))
	require.Len(t, s.List(), 1)

	// Rewrite the file behind the store's back via a second handle. The
	// sleep guarantees a distinct mtime on coarse-grained filesystems.
	time.Sleep(20 * time.Millisecond)
	other := NewStore(s.Path())
	require.NoError(t, other.Replace([]models.NormalizedArticle{
		article("a:1", "first", "2025-08-20", models.CategoryMarkets),
		article("a:2", "second", "2025-08-21", models.CategoryMarkets),
	}))

	assert.Len(t, s.List(), 2)
}
