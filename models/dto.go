package models

import "time"

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

type CreateArticleRequest struct {
	Title           string        `json:"title" validate:"required,min=1,max=500"`
	Authors         []string      `json:"authors" validate:"required,min=1,dive,required"`
	Year            int           `json:"year" validate:"required,gte=1900,lte=2100"`
	Journal         string        `json:"journal" validate:"required,min=1,max=255"`
	Volume          string        `json:"volume" validate:"max=50"`
	Number          string        `json:"number" validate:"max=50"`
	Pages           string        `json:"pages" validate:"max=50"`
	DOI             string        `json:"doi" validate:"max=255"`
	Status          ArticleStatus `json:"status" validate:"omitempty,oneof=PENDING APPROVED READY_FOR_ANALYSIS REJECTED ANALYZED"`
	ResearchType    string        `json:"research_type" validate:"max=100"`
	ParticipantType string        `json:"participant_type" validate:"max=100"`
	Findings        string        `json:"findings"`
}

type UpdateArticleRequest struct {
	Title   string   `json:"title" validate:"required,min=1,max=500"`
	Authors []string `json:"authors" validate:"required,min=1,dive,required"`
	Year    int      `json:"year" validate:"required,gte=1900,lte=2100"`
	Journal string   `json:"journal" validate:"required,min=1,max=255"`
	Volume  string   `json:"volume" validate:"max=50"`
	Number  string   `json:"number" validate:"max=50"`
	Pages   string   `json:"pages" validate:"max=50"`
	DOI     string   `json:"doi" validate:"max=255"`
}

// Moderation decisions.
const (
	DecisionApproved = "APPROVED"
	DecisionRejected = "REJECTED"
)

type ModerateArticleRequest struct {
	Status             string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	IsPeerReviewed     bool   `json:"is_peer_reviewed"`
	IsRelevantToSE     bool   `json:"is_relevant_to_se"`
	IsDuplicateChecked bool   `json:"is_duplicate_checked"`
	// Echo of the advisory shown to the moderator; accepted but not stored.
	DuplicateCheckResult string `json:"duplicate_check_result"`
	RejectionReason      string `json:"rejection_reason" validate:"max=2000"`
}

type AnalyzeArticleRequest struct {
	ResearchType    string `json:"research_type" validate:"required"`
	ParticipantType string `json:"participant_type" validate:"required"`
	Methodology     string `json:"methodology" validate:"required"`
	Findings        string `json:"findings" validate:"required"`
	Limitations     string `json:"limitations"`
	Recommendations string `json:"recommendations"`
	Notes           string `json:"notes"`
}

type UpdateStatusRequest struct {
	Status ArticleStatus `json:"status" validate:"required,oneof=PENDING APPROVED READY_FOR_ANALYSIS REJECTED ANALYZED"`
}

type RateArticleRequest struct {
	Rating int `json:"rating" validate:"required,gte=1,lte=5"`
}

// ArticleListParams are the optional, conjunctive listing filters.
type ArticleListParams struct {
	Author  string `form:"author"`
	Title   string `form:"title"`
	Journal string `form:"journal"`
	Year    int    `form:"year"`
	Status  string `form:"status"`
}

type AnalystStats struct {
	TotalAnalyzed  int64            `json:"total_analyzed"`
	RecentAnalysis []RecentAnalysis `json:"recent_analysis"`
}

type RecentAnalysis struct {
	ID         uint       `json:"id"`
	Title      string     `json:"title"`
	AnalyzedAt *time.Time `json:"analyzed_at,omitempty"`
}

type PracticeRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=5000"`
}

type ClaimRequest struct {
	Description string `json:"description" validate:"required,min=1,max=2000"`
	PracticeID  uint   `json:"practice_id" validate:"required"`
}

type EvidenceRequest struct {
	ArticleID       uint   `json:"article_id" validate:"required"`
	ClaimID         uint   `json:"claim_id" validate:"required"`
	Result          string `json:"result" validate:"required,oneof=AGREE DISAGREE NEUTRAL"`
	ResearchType    string `json:"research_type" validate:"required,oneof=CASE_STUDY EXPERIMENT SURVEY LITERATURE_REVIEW OTHER"`
	ParticipantType string `json:"participant_type" validate:"required,oneof=STUDENT PRACTITIONER MIXED OTHER"`
	Notes           string `json:"notes" validate:"max=5000"`
}

type UpdateRolesRequest struct {
	IsAdmin     *bool `json:"is_admin"`
	IsModerator *bool `json:"is_moderator"`
	IsAnalyst   *bool `json:"is_analyst"`
}

type SavedQueryRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=255"`
	PracticeID *uint  `json:"practice_id"`
	ClaimID    *uint  `json:"claim_id"`
	StartYear  *int   `json:"start_year"`
	EndYear    *int   `json:"end_year"`
}

type DashboardStats struct {
	ArticlesByStatus map[ArticleStatus]int64 `json:"articles_by_status"`
	TotalArticles    int64                   `json:"total_articles"`
	TotalUsers       int64                   `json:"total_users"`
	TotalPractices   int64                   `json:"total_practices"`
	TotalEvidence    int64                   `json:"total_evidence"`
}
