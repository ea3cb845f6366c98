package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/roster-api/pkg/errors"
)

func TestErrorRendersEmails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, appErrors.WithEmails(appErrors.ErrUserNotFound, "teacher(s) not found", "ghost@x.com"))

	require.Equal(t, http.StatusNotFound, w.Code)
	var body struct {
		Error struct {
			Code   string   `json:"code"`
			Emails []string `json:"emails"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, appErrors.ErrUserNotFound.Code, body.Error.Code)
	assert.Equal(t, []string{"ghost@x.com"}, body.Error.Emails)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestErrorHidesInternalCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, errors.New("pq: password authentication failed for user"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestJSONWrapsData(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	JSON(c, http.StatusOK, gin.H{"students": []string{"a@x.com"}})

	assert.JSONEq(t, `{"data":{"students":["a@x.com"]}}`, w.Body.String())
}
