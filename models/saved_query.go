package models

import "time"

type SavedQuery struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	Name       string    `json:"name" gorm:"not null"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	PracticeID *uint     `json:"practice_id,omitempty"`
	ClaimID    *uint     `json:"claim_id,omitempty"`
	StartYear  *int      `json:"start_year,omitempty"`
	EndYear    *int      `json:"end_year,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
