package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudvorkala/SPEED/models"
	"github.com/cloudvorkala/SPEED/testutil"
)

func seedArticle(t *testing.T, repo ArticleRepository, title, doi string, status models.ArticleStatus) *models.Article {
	t.Helper()
	article := &models.Article{
		Title:   title,
		Authors: []string{"Grace Hopper"},
		Journal: "CACM",
		Year:    1990,
		DOI:     doi,
		Status:  status,
	}
	require.NoError(t, repo.Create(article))
	return article
}

func TestArticleRepositoryTransition(t *testing.T) {
	repo := NewArticleRepository(testutil.NewDB(t))
	article := seedArticle(t, repo, "Compilers", "", models.StatusPending)

	applied, err := repo.Transition(article.ID, models.StatusReadyForAnalysis, map[string]interface{}{
		"status": models.StatusAnalyzed,
	})
	require.NoError(t, err)
	assert.False(t, applied)

	applied, err = repo.Transition(article.ID, models.StatusPending, map[string]interface{}{
		"status": models.StatusRejected,
	})
	require.NoError(t, err)
	assert.True(t, applied)

	stored, err := repo.GetByID(article.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, stored.Status)
	assert.Equal(t, models.TitleKey("Compilers"), stored.TitleKey)
	assert.Equal(t, "grace hopper", stored.AuthorsIndex)
}

func TestArticleRepositoryDuplicateCandidates(t *testing.T) {
	repo := NewArticleRepository(testutil.NewDB(t))
	first := seedArticle(t, repo, "Go Concurrency", "10.5/go", models.StatusRejected)
	seedArticle(t, repo, "GO CONCURRENCY", "", models.StatusPending)
	seedArticle(t, repo, "Unrelated", "10.5/other", models.StatusPending)

	candidates, err := repo.GetDuplicateCandidates([]string{"10.5/go"}, []string{models.TitleKey("go concurrency")})
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, first.ID, candidates[0].ID)

	candidates, err = repo.GetDuplicateCandidates(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestArticleRepositoryApplyRating(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewArticleRepository(db)
	article := seedArticle(t, repo, "Ratings", "", models.StatusPending)

	for _, score := range []int{5, 2, 2} {
		applied, err := repo.ApplyRating(article.ID, score, 7)
		require.NoError(t, err)
		assert.True(t, applied)
	}

	stored, err := repo.GetByID(article.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.RatingCount)
	assert.InDelta(t, 3.0, stored.AverageRating, 1e-9)

	applied, err := repo.ApplyRating(9999, 4, 7)
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestArticleRepositoryUpdateMetadataKeepsConcurrentWrites(t *testing.T) {
	repo := NewArticleRepository(testutil.NewDB(t))
	article := seedArticle(t, repo, "Draft Title", "", models.StatusPending)

	stale, err := repo.GetByID(article.ID)
	require.NoError(t, err)

	applied, err := repo.ApplyRating(article.ID, 4, 7)
	require.NoError(t, err)
	require.True(t, applied)
	applied, err = repo.Transition(article.ID, models.StatusPending, map[string]interface{}{
		"status": models.StatusReadyForAnalysis,
	})
	require.NoError(t, err)
	require.True(t, applied)

	stale.Title = "Final Title"
	stale.Journal = "TOSEM"
	stale.Authors = []string{"Barbara Liskov"}
	updated, err := repo.UpdateMetadata(stale)
	require.NoError(t, err)
	assert.True(t, updated)

	stored, err := repo.GetByID(article.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final Title", stored.Title)
	assert.Equal(t, models.TitleKey("final title"), stored.TitleKey)
	assert.Equal(t, "barbara liskov", stored.AuthorsIndex)
	assert.Equal(t, 1, stored.RatingCount)
	assert.InDelta(t, 4.0, stored.AverageRating, 1e-9)
	assert.Equal(t, models.StatusReadyForAnalysis, stored.Status)

	updated, err = repo.UpdateMetadata(&models.Article{ID: 9999, Title: "Ghost"})
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestArticleRepositorySearchFoldsNonASCII(t *testing.T) {
	repo := NewArticleRepository(testutil.NewDB(t))
	article := &models.Article{
		Title:   "Über Testgetriebene Entwicklung",
		Authors: []string{"Ärne Öberg"},
		Journal: "Ökonomie der Software",
		Year:    2015,
	}
	require.NoError(t, repo.Create(article))
	seedArticle(t, repo, "Unrelated", "", models.StatusPending)

	for _, params := range []models.ArticleListParams{
		{Title: "über"},
		{Title: "ÜBER TEST"},
		{Journal: "ökonomie"},
		{Author: "öberg"},
	} {
		found, err := repo.GetList(params)
		require.NoError(t, err)
		require.Len(t, found, 1, "%+v", params)
		assert.Equal(t, article.ID, found[0].ID)
	}
}
