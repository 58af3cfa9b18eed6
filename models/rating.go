package models

import "time"

// Rating is one vote. Article.AverageRating/RatingCount is the authoritative
// aggregate; rows here are an append-only history of who voted what.
type Rating struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	ArticleID uint      `json:"article_id" gorm:"not null;index"`
	Value     int       `json:"value" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}
