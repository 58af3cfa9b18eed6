package helper

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudvorkala/SPEED/models"
)

func TestGetStatusCode(t *testing.T) {
	h := NewHTTPHelper()

	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{models.NotFound("article %d not found", 1), http.StatusNotFound},
		{models.Forbidden("nope"), http.StatusForbidden},
		{models.Unauthorized("who"), http.StatusUnauthorized},
		{models.Invalid("status", "bad"), http.StatusUnprocessableEntity},
		{models.Conflict("taken"), http.StatusConflict},
		{fmt.Errorf("wrapped: %w", models.NotFound("gone")), http.StatusNotFound},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, h.GetStatusCode(tt.err), "%v", tt.err)
	}
}

func TestUnderscore(t *testing.T) {
	assert.Equal(t, "is_relevant_to_se", Underscore("IsRelevantToSE"))
	assert.Equal(t, "article_id", Underscore("ArticleID"))
	assert.Equal(t, "doi", Underscore("DOI"))
	assert.Equal(t, "title", Underscore("Title"))
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "duplicate", SanitizeText("  duplicate "))
	assert.Equal(t, "bold", SanitizeText("<b>bold</b>"))
	assert.Equal(t, "", SanitizeText("<script>alert(1)</script>"))
}

type envelope struct {
	Code        int             `json:"code"`
	CodeType    string          `json:"code_type"`
	CodeMessage json.RawMessage `json:"code_message"`
}

func bind(t *testing.T, body string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewHTTPHelper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req models.RateArticleRequest
	return w, h.BindJSON(c, &req)
}

func TestBindJSON(t *testing.T) {
	w, ok := bind(t, `{"rating": 4}`)
	assert.True(t, ok)
	assert.Equal(t, http.StatusOK, w.Code)

	w, ok = bind(t, `{"rating": 9}`)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var res envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "validationError", res.CodeType)
	assert.Contains(t, string(res.CodeMessage), "rating")

	w, ok = bind(t, `{"rating": "four"`)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
