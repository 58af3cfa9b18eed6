package models

import "time"

type EvidenceResult string

const (
	ResultAgree    EvidenceResult = "AGREE"
	ResultDisagree EvidenceResult = "DISAGREE"
	ResultNeutral  EvidenceResult = "NEUTRAL"
)

type Evidence struct {
	ID              uint           `json:"id" gorm:"primarykey"`
	ArticleID       uint           `json:"article_id" gorm:"not null;index"`
	Article         *Article       `json:"article,omitempty" gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE"`
	ClaimID         uint           `json:"claim_id" gorm:"not null;index"`
	Claim           *Claim         `json:"claim,omitempty" gorm:"foreignKey:ClaimID;constraint:OnDelete:CASCADE"`
	Result          EvidenceResult `json:"result" gorm:"size:16;not null"`
	ResearchType    string         `json:"research_type" gorm:"size:32;not null"`
	ParticipantType string         `json:"participant_type" gorm:"size:32;not null"`
	Notes           string         `json:"notes" gorm:"type:text"`
	AnalystID       uint           `json:"analyst_id" gorm:"not null;index"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Evidence is both singular and plural; keep the table name explicit.
func (Evidence) TableName() string {
	return "evidence"
}

// EvidenceFilter narrows evidence listings. Zero fields are ignored.
type EvidenceFilter struct {
	ArticleID  uint `form:"article"`
	ClaimID    uint `form:"claim"`
	PracticeID uint `form:"practice"`
	StartYear  int  `form:"start_year"`
	EndYear    int  `form:"end_year"`
}
