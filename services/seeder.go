package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/cloudvorkala/SPEED/config"
	"github.com/cloudvorkala/SPEED/models"
	"github.com/cloudvorkala/SPEED/repositories"
)

// Seeder loads first-boot data: a bootstrap admin and, on an empty article
// table, a small demonstration catalogue.
type Seeder struct {
	userRepo     repositories.UserRepository
	articleRepo  repositories.ArticleRepository
	practiceRepo repositories.PracticeRepository
	claimRepo    repositories.ClaimRepository
	logger       *slog.Logger
}

func NewSeeder(userRepo repositories.UserRepository, articleRepo repositories.ArticleRepository, practiceRepo repositories.PracticeRepository, claimRepo repositories.ClaimRepository, logger *slog.Logger) *Seeder {
	return &Seeder{
		userRepo:     userRepo,
		articleRepo:  articleRepo,
		practiceRepo: practiceRepo,
		claimRepo:    claimRepo,
		logger:       logger,
	}
}

// Seed is safe to run on every boot.
func (s *Seeder) Seed(cfg config.SeedConfig) error {
	if !cfg.Enabled {
		return nil
	}

	admin, err := s.ensureAdmin(cfg)
	if err != nil {
		return err
	}

	total, err := s.countArticles()
	if err != nil {
		return err
	}
	if total > 0 {
		s.logger.Info("database already has data, skipping seed")
		return nil
	}

	s.logger.Info("database is empty, seeding initial data")
	if err := s.seedCatalogue(admin); err != nil {
		return err
	}
	s.logger.Info("database seeded")
	return nil
}

// ensureAdmin creates the configured admin account once. Without an email
// and password nothing is created.
func (s *Seeder) ensureAdmin(cfg config.SeedConfig) (*models.User, error) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil, nil
	}

	email := normalizeEmail(cfg.AdminEmail)
	existing, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up admin: %w", err)
	}

	hashed, err := HashPassword(cfg.AdminPassword)
	if err != nil {
		return nil, err
	}

	admin := &models.User{
		Name:        cfg.AdminName,
		Email:       email,
		Password:    hashed,
		IsAdmin:     true,
		IsModerator: true,
		IsAnalyst:   true,
	}
	if err := s.userRepo.Create(admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}

	s.logger.Info("bootstrap admin created", "user_id", admin.ID, "email", admin.Email)
	return admin, nil
}

func (s *Seeder) countArticles() (int64, error) {
	counts, err := s.articleRepo.CountGroupedByStatus()
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	var total int64
	for _, count := range counts {
		total += count
	}
	return total, nil
}

func (s *Seeder) seedCatalogue(admin *models.User) error {
	tdd := &models.Practice{
		Name:        "Test-Driven Development",
		Description: "A software development process that relies on the repetition of a very short development cycle.",
	}
	ci := &models.Practice{
		Name:        "Continuous Integration",
		Description: "The practice of merging all developers working copies to a shared mainline several times a day.",
	}
	for _, practice := range []*models.Practice{tdd, ci} {
		if _, err := s.practiceRepo.GetByName(practice.Name); err == nil {
			continue
		}
		if err := s.practiceRepo.Create(practice); err != nil {
			return fmt.Errorf("seed practice %q: %w", practice.Name, err)
		}

		claim := &models.Claim{PracticeID: practice.ID}
		if practice == tdd {
			claim.Description = "TDD leads to higher code quality"
		} else {
			claim.Description = "CI reduces integration problems"
		}
		if err := s.claimRepo.Create(claim); err != nil {
			return fmt.Errorf("seed claim: %w", err)
		}
	}

	var actor *uint
	var moderatedAt *time.Time
	if admin != nil {
		now := time.Now()
		actor = &admin.ID
		moderatedAt = &now
	}

	articles := []models.Article{
		{
			Title:         "The Impact of Test-Driven Development on Software Quality",
			Authors:       []string{"John Doe", "Jane Smith", "Robert Johnson"},
			Journal:       "Journal of Software Engineering",
			Year:          2023,
			DOI:           "10.1234/jse.2023.001",
			Status:        models.StatusApproved,
			AverageRating: 4.5,
			RatingCount:   10,
			SubmittedBy:   actor,
			ModeratedBy:   actor,
			ModeratedAt:   moderatedAt,
		},
		{
			Title:         "Continuous Integration in Modern Software Development",
			Authors:       []string{"Alice Brown", "Charlie Davis"},
			Journal:       "Software Engineering Today",
			Year:          2023,
			DOI:           "10.1234/set.2023.002",
			Status:        models.StatusApproved,
			AverageRating: 4.2,
			RatingCount:   8,
			SubmittedBy:   actor,
			ModeratedBy:   actor,
			ModeratedAt:   moderatedAt,
		},
		{
			Title:       "Agile Practices and Their Impact on Project Success",
			Authors:     []string{"Emma Wilson", "Frank Miller"},
			Journal:     "Agile Development Review",
			Year:        2023,
			DOI:         "10.1234/adr.2023.003",
			Status:      models.StatusPending,
			SubmittedBy: actor,
		},
	}
	for i := range articles {
		if err := s.articleRepo.Create(&articles[i]); err != nil {
			return fmt.Errorf("seed article %q: %w", articles[i].Title, err)
		}
	}
	return nil
}
