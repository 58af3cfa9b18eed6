package services

import (
	"io"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/cloudvorkala/SPEED/logging"
	"github.com/cloudvorkala/SPEED/models"
	"github.com/cloudvorkala/SPEED/policy"
	"github.com/cloudvorkala/SPEED/repositories"
	"github.com/cloudvorkala/SPEED/testutil"
)

var (
	submitter = &policy.Identity{UserID: 1, Email: "user@example.com", Role: models.RoleUser}
	moderator = &policy.Identity{UserID: 2, Email: "mod@example.com", Role: models.RoleModerator, IsModerator: true}
	analyst   = &policy.Identity{UserID: 3, Email: "analyst@example.com", Role: models.RoleAnalyst, IsAnalyst: true}
	admin     = &policy.Identity{UserID: 4, Email: "admin@example.com", Role: models.RoleAdmin, IsAdmin: true}
)

type ArticleServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	repo     repositories.ArticleRepository
	articles ArticleService
	analysis AnalysisService
}

func (suite *ArticleServiceTestSuite) SetupTest() {
	suite.db = testutil.NewDB(suite.T())
	logger := logging.NewWithWriter(io.Discard, "error")

	suite.repo = repositories.NewArticleRepository(suite.db)
	suite.articles = NewArticleService(suite.repo, logger)
	suite.analysis = NewAnalysisService(suite.repo, logger)
}

func (suite *ArticleServiceTestSuite) submit(title, doi string) *models.Article {
	article, err := suite.articles.SubmitArticle(models.CreateArticleRequest{
		Title:   title,
		Authors: []string{"Kent Beck"},
		Year:    2003,
		Journal: "IEEE Software",
		DOI:     doi,
	}, submitter)
	suite.Require().NoError(err)
	return article
}

func (suite *ArticleServiceTestSuite) TestSubmitAlwaysPending() {
	article, err := suite.articles.SubmitArticle(models.CreateArticleRequest{
		Title:   "Test Driven Development",
		Authors: []string{"Kent Beck"},
		Year:    2003,
		Journal: "IEEE Software",
		Status:  models.StatusAnalyzed,
	}, submitter)

	suite.Require().NoError(err)
	suite.NotZero(article.ID)
	suite.Equal(models.StatusPending, article.Status)
	suite.Require().NotNil(article.SubmittedBy)
	suite.Equal(submitter.UserID, *article.SubmittedBy)
	suite.Zero(article.RatingCount)
	suite.Zero(article.AverageRating)
}

func (suite *ArticleServiceTestSuite) TestSubmitRequiresIdentity() {
	_, err := suite.articles.SubmitArticle(models.CreateArticleRequest{Title: "x"}, nil)
	suite.ErrorAs(err, &models.ErrorUnauthorized{})
}

func (suite *ArticleServiceTestSuite) TestCreateArticleHonoursStatus() {
	req := models.CreateArticleRequest{
		Title:   "Curated",
		Authors: []string{"A"},
		Year:    2020,
		Journal: "J",
		Status:  models.StatusReadyForAnalysis,
	}

	_, err := suite.articles.CreateArticle(req, submitter)
	suite.ErrorAs(err, &models.ErrorForbidden{})

	article, err := suite.articles.CreateArticle(req, admin)
	suite.Require().NoError(err)
	suite.Equal(models.StatusReadyForAnalysis, article.Status)
}

func (suite *ArticleServiceTestSuite) TestModerateApprove() {
	article := suite.submit("Pair Programming", "10.1/pp")

	moderated, err := suite.articles.ModerateArticle(article.ID, models.ModerateArticleRequest{
		Status:             models.DecisionApproved,
		IsPeerReviewed:     true,
		IsRelevantToSE:     true,
		IsDuplicateChecked: true,
	}, moderator)

	suite.Require().NoError(err)
	suite.Equal(models.StatusReadyForAnalysis, moderated.Status)
	suite.NotNil(moderated.ModeratedAt)
	suite.Require().NotNil(moderated.ModeratedBy)
	suite.Equal(moderator.UserID, *moderated.ModeratedBy)
	suite.True(moderated.IsPeerReviewed)
	suite.True(moderated.IsRelevantToSE)
	suite.True(moderated.IsDuplicateChecked)
	suite.Empty(moderated.RejectionReason)
}

func (suite *ArticleServiceTestSuite) TestModerateReject() {
	article := suite.submit("Pair Programming", "10.1/pp")

	moderated, err := suite.articles.ModerateArticle(article.ID, models.ModerateArticleRequest{
		Status:          models.DecisionRejected,
		RejectionReason: "<b>out of scope</b>",
	}, moderator)

	suite.Require().NoError(err)
	suite.Equal(models.StatusRejected, moderated.Status)
	suite.Equal("out of scope", moderated.RejectionReason)
	suite.NotNil(moderated.ModeratedAt)
}

func (suite *ArticleServiceTestSuite) TestModerateRequiresModerator() {
	article := suite.submit("Pair Programming", "")

	_, err := suite.articles.ModerateArticle(article.ID, models.ModerateArticleRequest{Status: models.DecisionApproved}, admin)
	suite.ErrorAs(err, &models.ErrorForbidden{})

	stored, err := suite.articles.GetArticle(article.ID)
	suite.Require().NoError(err)
	suite.Equal(models.StatusPending, stored.Status)
	suite.Nil(stored.ModeratedAt)
}

func (suite *ArticleServiceTestSuite) TestModerateMissingArticle() {
	_, err := suite.articles.ModerateArticle(999, models.ModerateArticleRequest{Status: models.DecisionApproved}, moderator)
	suite.ErrorAs(err, &models.ErrorNotFound{})
}

func (suite *ArticleServiceTestSuite) TestModerateTwiceIsForbidden() {
	article := suite.submit("Pair Programming", "")

	_, err := suite.articles.ModerateArticle(article.ID, models.ModerateArticleRequest{Status: models.DecisionApproved}, moderator)
	suite.Require().NoError(err)

	_, err = suite.articles.ModerateArticle(article.ID, models.ModerateArticleRequest{
		Status:          models.DecisionRejected,
		RejectionReason: "changed my mind",
	}, moderator)
	suite.ErrorAs(err, &models.ErrorForbidden{})

	stored, err := suite.articles.GetArticle(article.ID)
	suite.Require().NoError(err)
	suite.Equal(models.StatusReadyForAnalysis, stored.Status)
	suite.Empty(stored.RejectionReason)
}

func (suite *ArticleServiceTestSuite) TestAnalyzeReadyArticle() {
	article := suite.submit("Mob Programming", "")
	_, err := suite.articles.ModerateArticle(article.ID, models.ModerateArticleRequest{Status: models.DecisionApproved}, moderator)
	suite.Require().NoError(err)

	queue, err := suite.analysis.ListForAnalyst(analyst)
	suite.Require().NoError(err)
	suite.Len(queue, 1)

	analyzed, err := suite.analysis.AnalyzeArticle(article.ID, models.AnalyzeArticleRequest{
		ResearchType:    "EXPERIMENT",
		ParticipantType: "STUDENT",
		Methodology:     "controlled experiment",
		Findings:        "fewer defects",
	}, analyst)

	suite.Require().NoError(err)
	suite.Equal(models.StatusAnalyzed, analyzed.Status)
	suite.NotNil(analyzed.AnalyzedAt)
	suite.Require().NotNil(analyzed.AnalyzedBy)
	suite.Equal(analyst.UserID, *analyzed.AnalyzedBy)

	result, err := suite.analysis.GetAnalysis(article.ID, analyst)
	suite.Require().NoError(err)
	suite.Equal("fewer defects", result.Findings)
	suite.Equal("", result.Limitations)
	suite.Equal("", result.Notes)

	stats, err := suite.analysis.Stats(analyst)
	suite.Require().NoError(err)
	suite.EqualValues(1, stats.TotalAnalyzed)
	suite.Require().Len(stats.RecentAnalysis, 1)
	suite.Equal("Mob Programming", stats.RecentAnalysis[0].Title)
}

func (suite *ArticleServiceTestSuite) TestAnalyzeWrongStateLeavesArticleUntouched() {
	article := suite.submit("Mob Programming", "")

	_, err := suite.analysis.AnalyzeArticle(article.ID, models.AnalyzeArticleRequest{
		ResearchType:    "EXPERIMENT",
		ParticipantType: "STUDENT",
		Methodology:     "m",
		Findings:        "f",
	}, analyst)

	suite.Require().Error(err)
	suite.ErrorAs(err, &models.ErrorForbidden{})
	suite.Contains(err.Error(), "not ready for analysis")

	stored, err := suite.articles.GetArticle(article.ID)
	suite.Require().NoError(err)
	suite.Equal(models.StatusPending, stored.Status)
	suite.Nil(stored.AnalyzedAt)
	suite.Nil(stored.AnalyzedBy)
	suite.Nil(stored.Analysis())

	_, err = suite.analysis.GetAnalysis(article.ID, analyst)
	suite.ErrorAs(err, &models.ErrorNotFound{})
}

func (suite *ArticleServiceTestSuite) TestAnalyzeMissingArticle() {
	_, err := suite.analysis.AnalyzeArticle(404, models.AnalyzeArticleRequest{}, analyst)
	suite.ErrorAs(err, &models.ErrorNotFound{})
}

func (suite *ArticleServiceTestSuite) TestRatingRollingMean() {
	article := suite.submit("Code Review", "")

	rated, err := suite.articles.RateArticle(article.ID, 4, submitter)
	suite.Require().NoError(err)
	suite.Equal(1, rated.RatingCount)
	suite.InDelta(4.0, rated.AverageRating, 1e-9)

	rated, err = suite.articles.RateArticle(article.ID, 5, analyst)
	suite.Require().NoError(err)
	suite.Equal(2, rated.RatingCount)
	suite.InDelta(4.5, rated.AverageRating, 1e-9)

	var votes int64
	suite.Require().NoError(suite.db.Model(&models.Rating{}).Where("article_id = ?", article.ID).Count(&votes).Error)
	suite.EqualValues(2, votes)
}

func (suite *ArticleServiceTestSuite) TestRatingMissingArticle() {
	_, err := suite.articles.RateArticle(12345, 3, submitter)
	suite.ErrorAs(err, &models.ErrorNotFound{})

	var votes int64
	suite.Require().NoError(suite.db.Model(&models.Rating{}).Count(&votes).Error)
	suite.Zero(votes)
}

func (suite *ArticleServiceTestSuite) TestPendingListAnnotatesDOIDuplicate() {
	suite.submit("Original Study", "10.1/x")
	suite.submit("Copy Of Study", "10.1/x")

	views, err := suite.articles.ListPendingArticles(moderator)
	suite.Require().NoError(err)
	suite.Require().Len(views, 2)

	suite.Equal("Duplicate found by DOI: Copy Of Study (PENDING)", views[0].DuplicateCheckResult)
	suite.Equal("Duplicate found by DOI: Original Study (PENDING)", views[1].DuplicateCheckResult)
	suite.Empty(views[1].RejectionCheckResult)
}

func (suite *ArticleServiceTestSuite) TestRejectedDOIResubmission() {
	first := suite.submit("Static Typing Benefits", "10.1/x")
	_, err := suite.articles.ModerateArticle(first.ID, models.ModerateArticleRequest{
		Status:          models.DecisionRejected,
		RejectionReason: "duplicate",
	}, moderator)
	suite.Require().NoError(err)

	second := suite.submit("Another Take On Typing", "10.1/x")

	views, err := suite.articles.ListPendingArticles(moderator)
	suite.Require().NoError(err)
	suite.Require().Len(views, 1)
	suite.Equal(second.ID, views[0].ID)
	suite.Contains(views[0].RejectionCheckResult, "Previously rejected: duplicate")
	suite.Contains(views[0].DuplicateCheckResult, "Duplicate found by DOI: Static Typing Benefits (REJECTED)")

	count, err := suite.articles.CountPending(moderator)
	suite.Require().NoError(err)
	suite.EqualValues(1, count)

	rejected, err := suite.analysis.ListRejected(moderator)
	suite.Require().NoError(err)
	suite.Len(rejected, 1)
}

func (suite *ArticleServiceTestSuite) TestPendingListRequiresModerator() {
	_, err := suite.articles.ListPendingArticles(analyst)
	suite.ErrorAs(err, &models.ErrorForbidden{})

	_, err = suite.articles.ListPendingArticles(nil)
	suite.ErrorAs(err, &models.ErrorUnauthorized{})
}

func (suite *ArticleServiceTestSuite) TestListArticlesFilters() {
	create := func(title, journal string, year int, authors ...string) {
		_, err := suite.articles.CreateArticle(models.CreateArticleRequest{
			Title:   title,
			Authors: authors,
			Year:    year,
			Journal: journal,
		}, admin)
		suite.Require().NoError(err)
	}
	create("Unit Testing at Google", "ICSE", 2016, "Alice Smith", "Bob Jones")
	create("Refactoring Myths", "IEEE Software", 2018, "Carol Smith")
	create("100% Coverage Considered Harmful", "ICSE", 2018, "Dave Brown")

	tests := []struct {
		name   string
		params models.ArticleListParams
		want   int
	}{
		{"no filter", models.ArticleListParams{}, 3},
		{"author substring ignores case", models.ArticleListParams{Author: "SMITH"}, 2},
		{"author and year", models.ArticleListParams{Author: "smith", Year: 2018}, 1},
		{"journal and year", models.ArticleListParams{Journal: "icse", Year: 2018}, 1},
		{"title substring", models.ArticleListParams{Title: "testing"}, 1},
		{"percent is literal", models.ArticleListParams{Title: "100%"}, 1},
		{"underscore is literal", models.ArticleListParams{Title: "unit_testing"}, 0},
		{"status exact", models.ArticleListParams{Status: "PENDING"}, 3},
		{"status is case sensitive", models.ArticleListParams{Status: "pending"}, 0},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			articles, err := suite.articles.ListArticles(tt.params)
			suite.Require().NoError(err)
			suite.Len(articles, tt.want)
		})
	}
}

func (suite *ArticleServiceTestSuite) TestUpdateStatusAndDelete() {
	article := suite.submit("Trunk Based Development", "")

	_, err := suite.articles.UpdateStatus(article.ID, models.StatusAnalyzed, moderator)
	suite.ErrorAs(err, &models.ErrorForbidden{})

	updated, err := suite.articles.UpdateStatus(article.ID, models.StatusReadyForAnalysis, admin)
	suite.Require().NoError(err)
	suite.Equal(models.StatusReadyForAnalysis, updated.Status)
	suite.Nil(updated.ModeratedAt)

	_, err = suite.articles.UpdateStatus(article.ID, "DONE", admin)
	suite.ErrorAs(err, &models.ErrorValidation{})

	deleted, err := suite.articles.DeleteArticle(article.ID, admin)
	suite.Require().NoError(err)
	suite.True(deleted)

	deleted, err = suite.articles.DeleteArticle(article.ID, admin)
	suite.Require().NoError(err)
	suite.False(deleted)

	_, err = suite.articles.GetArticle(article.ID)
	suite.ErrorAs(err, &models.ErrorNotFound{})
}

func (suite *ArticleServiceTestSuite) TestUpdateArticleKeepsLifecycleFields() {
	article := suite.submit("Old Title", "")
	_, err := suite.articles.ModerateArticle(article.ID, models.ModerateArticleRequest{Status: models.DecisionApproved}, moderator)
	suite.Require().NoError(err)

	updated, err := suite.articles.UpdateArticle(article.ID, models.UpdateArticleRequest{
		Title:   "New Title",
		Authors: []string{"Someone Else"},
		Year:    2010,
		Journal: "TSE",
		DOI:     "10.2/new",
	}, moderator)
	suite.Require().NoError(err)
	suite.Equal("New Title", updated.Title)
	suite.Equal(models.StatusReadyForAnalysis, updated.Status)

	found, err := suite.articles.ListArticles(models.ArticleListParams{Author: "someone"})
	suite.Require().NoError(err)
	suite.Len(found, 1)

	_, err = suite.articles.UpdateArticle(9999, models.UpdateArticleRequest{
		Title:   "Ghost",
		Authors: []string{"Nobody"},
		Year:    2010,
		Journal: "TSE",
	}, moderator)
	suite.ErrorAs(err, &models.ErrorNotFound{})
}

func TestArticleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ArticleServiceTestSuite))
}
