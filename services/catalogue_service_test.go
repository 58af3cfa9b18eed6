package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/cloudvorkala/SPEED/logging"
	"github.com/cloudvorkala/SPEED/models"
	"github.com/cloudvorkala/SPEED/policy"
	"github.com/cloudvorkala/SPEED/repositories"
	"github.com/cloudvorkala/SPEED/testutil"
)

type CatalogueServiceTestSuite struct {
	suite.Suite
	articleRepo  repositories.ArticleRepository
	userRepo     repositories.UserRepository
	practiceRepo repositories.PracticeRepository
	evidenceRepo repositories.EvidenceRepository
	practices    PracticeService
	claims       ClaimService
	evidence     EvidenceService
	queries      SavedQueryService
	users        UserService
	dashboard    DashboardService
}

func (suite *CatalogueServiceTestSuite) SetupTest() {
	db := testutil.NewDB(suite.T())
	logger := logging.NewWithWriter(io.Discard, "error")

	suite.articleRepo = repositories.NewArticleRepository(db)
	suite.userRepo = repositories.NewUserRepository(db)
	practiceRepo := repositories.NewPracticeRepository(db)
	claimRepo := repositories.NewClaimRepository(db)
	evidenceRepo := repositories.NewEvidenceRepository(db)

	suite.practiceRepo = practiceRepo
	suite.evidenceRepo = evidenceRepo
	suite.practices = NewPracticeService(practiceRepo, evidenceRepo)
	suite.claims = NewClaimService(claimRepo, practiceRepo)
	suite.evidence = NewEvidenceService(evidenceRepo, suite.articleRepo, claimRepo, logger)
	suite.queries = NewSavedQueryService(repositories.NewSavedQueryRepository(db), evidenceRepo)
	suite.users = NewUserService(suite.userRepo, nil, time.Hour, logger)
	suite.dashboard = NewDashboardService(suite.articleRepo, suite.userRepo, practiceRepo, evidenceRepo)
}

func (suite *CatalogueServiceTestSuite) article(title string, year int) *models.Article {
	article := &models.Article{
		Title:   title,
		Authors: []string{"Author"},
		Journal: "Journal",
		Year:    year,
		Status:  models.StatusAnalyzed,
	}
	suite.Require().NoError(suite.articleRepo.Create(article))
	return article
}

func (suite *CatalogueServiceTestSuite) TestPracticeNameIsUnique() {
	_, err := suite.practices.CreatePractice(models.PracticeRequest{Name: "TDD"}, analyst)
	suite.Require().NoError(err)

	_, err = suite.practices.CreatePractice(models.PracticeRequest{Name: " TDD "}, admin)
	suite.ErrorAs(err, &models.ErrorConflict{})

	_, err = suite.practices.CreatePractice(models.PracticeRequest{Name: "Pairing"}, submitter)
	suite.ErrorAs(err, &models.ErrorForbidden{})
}

// unseenPracticeRepo makes the name pre-check miss, leaving the unique index
// as the only guard.
type unseenPracticeRepo struct {
	repositories.PracticeRepository
}

func (unseenPracticeRepo) GetByName(string) (*models.Practice, error) {
	return nil, gorm.ErrRecordNotFound
}

func (suite *CatalogueServiceTestSuite) TestPracticeNameIndexReportsConflict() {
	_, err := suite.practices.CreatePractice(models.PracticeRequest{Name: "TDD"}, analyst)
	suite.Require().NoError(err)
	other, err := suite.practices.CreatePractice(models.PracticeRequest{Name: "BDD"}, analyst)
	suite.Require().NoError(err)

	practices := NewPracticeService(unseenPracticeRepo{suite.practiceRepo}, suite.evidenceRepo)

	_, err = practices.CreatePractice(models.PracticeRequest{Name: "TDD"}, analyst)
	suite.ErrorAs(err, &models.ErrorConflict{})

	_, err = practices.UpdatePractice(other.ID, models.PracticeRequest{Name: "TDD"}, analyst)
	suite.ErrorAs(err, &models.ErrorConflict{})
}

func (suite *CatalogueServiceTestSuite) TestClaimNeedsPractice() {
	_, err := suite.claims.CreateClaim(models.ClaimRequest{Description: "orphan", PracticeID: 42}, analyst)
	suite.ErrorAs(err, &models.ErrorNotFound{})
}

func (suite *CatalogueServiceTestSuite) TestEvidenceAndSummary() {
	practice, err := suite.practices.CreatePractice(models.PracticeRequest{Name: "TDD"}, analyst)
	suite.Require().NoError(err)
	quality, err := suite.claims.CreateClaim(models.ClaimRequest{Description: "improves quality", PracticeID: practice.ID}, analyst)
	suite.Require().NoError(err)
	speed, err := suite.claims.CreateClaim(models.ClaimRequest{Description: "slows delivery", PracticeID: practice.ID}, analyst)
	suite.Require().NoError(err)

	old := suite.article("Early Study", 2005)
	recent := suite.article("Recent Study", 2020)

	record := func(articleID, claimID uint, result string) {
		_, err := suite.evidence.CreateEvidence(models.EvidenceRequest{
			ArticleID:       articleID,
			ClaimID:         claimID,
			Result:          result,
			ResearchType:    "EXPERIMENT",
			ParticipantType: "PRACTITIONER",
		}, analyst)
		suite.Require().NoError(err)
	}
	record(old.ID, quality.ID, "AGREE")
	record(recent.ID, quality.ID, "AGREE")
	record(recent.ID, quality.ID, "DISAGREE")

	_, err = suite.evidence.CreateEvidence(models.EvidenceRequest{
		ArticleID: 999, ClaimID: quality.ID, Result: "AGREE", ResearchType: "SURVEY", ParticipantType: "MIXED",
	}, analyst)
	suite.ErrorAs(err, &models.ErrorNotFound{})

	summary, err := suite.practices.Summary(practice.ID)
	suite.Require().NoError(err)
	suite.Require().Len(summary.Claims, 2)
	suite.Equal(quality.ID, summary.Claims[0].Claim.ID)
	suite.EqualValues(2, summary.Claims[0].Agree)
	suite.EqualValues(1, summary.Claims[0].Disagree)
	suite.EqualValues(0, summary.Claims[1].Agree)
	suite.Equal(speed.ID, summary.Claims[1].Claim.ID)

	byPractice, err := suite.evidence.ListEvidence(models.EvidenceFilter{PracticeID: practice.ID, StartYear: 2010})
	suite.Require().NoError(err)
	suite.Len(byPractice, 2)

	_, err = suite.evidence.ListEvidence(models.EvidenceFilter{StartYear: 2020, EndYear: 2010})
	suite.ErrorAs(err, &models.ErrorValidation{})

	start := 2000
	end := 2010
	saved, err := suite.queries.Save(models.SavedQueryRequest{
		Name:       "early TDD",
		PracticeID: &practice.ID,
		StartYear:  &start,
		EndYear:    &end,
	}, submitter)
	suite.Require().NoError(err)

	results, err := suite.queries.Run(saved.ID, submitter)
	suite.Require().NoError(err)
	suite.Require().Len(results, 1)
	suite.Equal(old.ID, results[0].ArticleID)

	_, err = suite.queries.Run(saved.ID, analyst)
	suite.ErrorAs(err, &models.ErrorNotFound{})

	suite.ErrorAs(suite.queries.Delete(saved.ID, analyst), &models.ErrorNotFound{})
	suite.NoError(suite.queries.Delete(saved.ID, submitter))

	stats, err := suite.dashboard.Stats(admin)
	suite.Require().NoError(err)
	suite.EqualValues(2, stats.TotalArticles)
	suite.EqualValues(2, stats.ArticlesByStatus[models.StatusAnalyzed])
	suite.EqualValues(1, stats.TotalPractices)
	suite.EqualValues(3, stats.TotalEvidence)
}

func (suite *CatalogueServiceTestSuite) TestUpdateRoles() {
	user := &models.User{Name: "Analyst To Be", Email: "a@example.com", Password: "x"}
	suite.Require().NoError(suite.userRepo.Create(user))
	suite.Equal(models.RoleUser, user.Role)

	ctx := context.Background()
	yes := true
	updated, err := suite.users.UpdateRoles(ctx, user.ID, models.UpdateRolesRequest{IsAnalyst: &yes}, admin)
	suite.Require().NoError(err)
	suite.True(updated.IsAnalyst)
	suite.Equal(models.RoleAnalyst, updated.Role)

	_, err = suite.users.UpdateRoles(ctx, user.ID, models.UpdateRolesRequest{IsAdmin: &yes}, moderator)
	suite.ErrorAs(err, &models.ErrorForbidden{})

	_, err = suite.users.GetUser(999, admin)
	suite.ErrorAs(err, &models.ErrorNotFound{})

	self := &policy.Identity{UserID: user.ID, IsAdmin: true}
	suite.ErrorAs(suite.users.DeleteUser(ctx, user.ID, self), &models.ErrorForbidden{})
	suite.NoError(suite.users.DeleteUser(ctx, user.ID, admin))
	suite.ErrorAs(suite.users.DeleteUser(ctx, user.ID, admin), &models.ErrorNotFound{})
}

func TestCatalogueServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogueServiceTestSuite))
}
