package models

import "time"

type Practice struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"name" gorm:"uniqueIndex;size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Claims      []Claim   `json:"claims,omitempty" gorm:"foreignKey:PracticeID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Claim struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Description string    `json:"description" gorm:"type:text;not null"`
	PracticeID  uint      `json:"practice_id" gorm:"not null;index"`
	Practice    *Practice `json:"practice,omitempty" gorm:"foreignKey:PracticeID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ClaimSummary tallies evidence results for one claim.
type ClaimSummary struct {
	Claim    Claim `json:"claim"`
	Agree    int64 `json:"agree"`
	Disagree int64 `json:"disagree"`
	Neutral  int64 `json:"neutral"`
}

// PracticeSummary is a practice with per-claim evidence tallies.
type PracticeSummary struct {
	Practice Practice       `json:"practice"`
	Claims   []ClaimSummary `json:"claims"`
}
