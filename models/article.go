package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/OneOfOne/xxhash"
	"golang.org/x/text/cases"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ArticleStatus string

const (
	StatusPending          ArticleStatus = "PENDING"
	StatusApproved         ArticleStatus = "APPROVED"
	StatusReadyForAnalysis ArticleStatus = "READY_FOR_ANALYSIS"
	StatusRejected         ArticleStatus = "REJECTED"
	StatusAnalyzed         ArticleStatus = "ANALYZED"
)

// Valid reports whether s is one of the defined statuses. Matching is exact.
func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusReadyForAnalysis, StatusRejected, StatusAnalyzed:
		return true
	}
	return false
}

// AnalysisResult is the structured payload an analyst records.
type AnalysisResult struct {
	ResearchType    string `json:"research_type"`
	ParticipantType string `json:"participant_type"`
	Methodology     string `json:"methodology"`
	Findings        string `json:"findings"`
	Limitations     string `json:"limitations"`
	Recommendations string `json:"recommendations"`
	Notes           string `json:"notes"`
}

type Article struct {
	ID           uint                        `json:"id" gorm:"primarykey"`
	Title        string                      `json:"title" gorm:"not null"`
	TitleKey     string                      `json:"-" gorm:"size:16;index"`
	TitleIndex   string                      `json:"-" gorm:"type:text"`
	Authors      datatypes.JSONSlice[string] `json:"authors"`
	AuthorsIndex string                      `json:"-" gorm:"type:text"`
	Journal      string                      `json:"journal" gorm:"not null"`
	JournalIndex string                      `json:"-"`
	Year         int                         `json:"year" gorm:"index"`
	Volume       string                      `json:"volume,omitempty"`
	Number       string                      `json:"number,omitempty"`
	Pages        string                      `json:"pages,omitempty"`
	DOI          string                      `json:"doi,omitempty" gorm:"column:doi;index"`
	Status       ArticleStatus               `json:"status" gorm:"size:32;index;default:'PENDING'"`

	// Optional findings captured at creation time.
	ResearchType    string `json:"research_type,omitempty"`
	ParticipantType string `json:"participant_type,omitempty"`
	Findings        string `json:"findings,omitempty" gorm:"type:text"`

	SubmittedBy *uint `json:"submitted_by,omitempty"`

	ModeratedBy        *uint      `json:"moderated_by,omitempty"`
	ModeratedAt        *time.Time `json:"moderated_at,omitempty"`
	RejectionReason    string     `json:"rejection_reason,omitempty" gorm:"type:text"`
	IsPeerReviewed     bool       `json:"is_peer_reviewed"`
	IsRelevantToSE     bool       `json:"is_relevant_to_se" gorm:"column:is_relevant_to_se"`
	IsDuplicateChecked bool       `json:"is_duplicate_checked"`

	AnalyzedBy     *uint                               `json:"analyzed_by,omitempty" gorm:"index"`
	AnalyzedAt     *time.Time                          `json:"analyzed_at,omitempty"`
	AnalysisResult *datatypes.JSONType[AnalysisResult] `json:"analysis_result,omitempty"`

	AverageRating float64 `json:"average_rating" gorm:"default:0"`
	RatingCount   int     `json:"rating_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeSave keeps the derived lookup columns in step with Title, Journal
// and Authors.
func (a *Article) BeforeSave(tx *gorm.DB) error {
	a.TitleKey = TitleKey(a.Title)
	a.TitleIndex = SearchIndex(a.Title)
	a.JournalIndex = SearchIndex(a.Journal)
	a.AuthorsIndex = AuthorsIndex(a.Authors)
	return nil
}

// MetadataColumns returns the bibliographic columns of a, derived lookup
// columns included, for a partial update that leaves the lifecycle and
// rating columns untouched.
func (a *Article) MetadataColumns() map[string]interface{} {
	return map[string]interface{}{
		"title":         a.Title,
		"title_key":     TitleKey(a.Title),
		"title_index":   SearchIndex(a.Title),
		"authors":       a.Authors,
		"authors_index": AuthorsIndex(a.Authors),
		"journal":       a.Journal,
		"journal_index": SearchIndex(a.Journal),
		"year":          a.Year,
		"volume":        a.Volume,
		"number":        a.Number,
		"pages":         a.Pages,
		"doi":           a.DOI,
	}
}

// FoldTitle returns the case-folded form used for title comparisons.
func FoldTitle(title string) string {
	return cases.Fold().String(title)
}

// TitleKey hashes the folded title so case-insensitive full-title lookups
// can hit an index.
func TitleKey(title string) string {
	return strconv.FormatUint(xxhash.ChecksumString64(FoldTitle(title)), 16)
}

// SearchIndex is the lower-cased form stored for substring search. Search
// terms go through the same function so matching never depends on the
// database's own LOWER().
func SearchIndex(s string) string {
	return strings.ToLower(s)
}

// AuthorsIndex flattens authors into a lower-cased searchable column.
func AuthorsIndex(authors []string) string {
	lowered := make([]string, 0, len(authors))
	for _, a := range authors {
		lowered = append(lowered, SearchIndex(a))
	}
	return strings.Join(lowered, "\n")
}

// Analysis returns the stored analysis or nil.
func (a *Article) Analysis() *AnalysisResult {
	if a.AnalysisResult == nil {
		return nil
	}
	data := a.AnalysisResult.Data()
	return &data
}

// PendingArticleView is an Article annotated with advisory check results.
// The annotations are computed at read time and never stored.
type PendingArticleView struct {
	Article
	DuplicateCheckResult string `json:"duplicate_check_result,omitempty"`
	RejectionCheckResult string `json:"rejection_check_result,omitempty"`
}
