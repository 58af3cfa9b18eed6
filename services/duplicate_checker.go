package services

import (
	"fmt"
	"strings"

	"github.com/cloudvorkala/SPEED/models"
)

const noRejectionReason = "No reason provided"

// CheckDuplicates compares article against a snapshot of the corpus and
// returns the advisory texts shown to moderators. Both duplicate checks
// always run; when both hit, their messages are joined with "; ".
// corpus order decides which match is reported, so pass it oldest first.
func CheckDuplicates(article models.Article, corpus []models.Article) (duplicate string, rejection string) {
	folded := models.FoldTitle(article.Title)

	var byDOI, byTitle, rejected *models.Article
	for i := range corpus {
		other := &corpus[i]
		if other.ID == article.ID {
			continue
		}

		sameDOI := article.DOI != "" && other.DOI == article.DOI
		sameTitle := models.FoldTitle(other.Title) == folded

		if sameDOI && byDOI == nil {
			byDOI = other
		}
		if sameTitle && byTitle == nil {
			byTitle = other
		}
		if (sameDOI || sameTitle) && other.Status == models.StatusRejected && rejected == nil {
			rejected = other
		}
	}

	var messages []string
	if byDOI != nil {
		messages = append(messages, fmt.Sprintf("Duplicate found by DOI: %s (%s)", byDOI.Title, byDOI.Status))
	}
	if byTitle != nil {
		messages = append(messages, fmt.Sprintf("Duplicate found by title: %s (%s)", byTitle.Title, byTitle.Status))
	}
	duplicate = strings.Join(messages, "; ")

	if rejected != nil {
		reason := rejected.RejectionReason
		if reason == "" {
			reason = noRejectionReason
		}
		rejection = "Previously rejected: " + reason
	}

	return duplicate, rejection
}

// AnnotatePending wraps each pending article with its advisory texts.
func AnnotatePending(pending, corpus []models.Article) []models.PendingArticleView {
	views := make([]models.PendingArticleView, 0, len(pending))
	for _, article := range pending {
		duplicate, rejection := CheckDuplicates(article, corpus)
		views = append(views, models.PendingArticleView{
			Article:              article,
			DuplicateCheckResult: duplicate,
			RejectionCheckResult: rejection,
		})
	}
	return views
}
