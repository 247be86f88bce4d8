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

	appErrors "github.com/noah-isme/tutor-pairing-api/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestJSONWithMeta(t *testing.T) {
	c, w := newContext()
	JSON(c, http.StatusOK, []int{1}, map[string]interface{}{"total": 1})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	body := decode(t, w)
	assert.JSONEq(t, `[1]`, string(body["data"]))
	assert.JSONEq(t, `{"total":1}`, string(body["meta"]))
	assert.NotContains(t, body, "error")
}

func TestErrorNormalisesUnknownErrors(t *testing.T) {
	c, w := newContext()
	Error(c, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.JSONEq(t, `{"code":"INTERNAL_ERROR","message":"internal server error","status":500}`, string(body["error"]))
}

func TestWithErrorKeepsData(t *testing.T) {
	c, w := newContext()
	WithError(c, map[string]bool{"a": true}, appErrors.Clone(appErrors.ErrPartialFailure, "b failed"))

	assert.Equal(t, http.StatusMultiStatus, w.Code)
	body := decode(t, w)
	assert.JSONEq(t, `{"a":true}`, string(body["data"]))
	assert.Contains(t, string(body["error"]), "b failed")
}
