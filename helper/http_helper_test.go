package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"blog-cms/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type body struct {
	Code        int             `json:"code"`
	CodeType    string          `json:"code_type"`
	CodeMessage string          `json:"code_message"`
	Data        json.RawMessage `json:"data"`
}

func newHelper() *HTTPHelper {
	_, trans := NewValidator()
	return NewHTTPHelper(trans, zerolog.Nop())
}

func record(t *testing.T, send func(c *gin.Context)) (*httptest.ResponseRecorder, body) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	send(c)

	var b body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	return w, b
}

func TestGetStatusCode(t *testing.T) {
	h := newHelper()

	tests := []struct {
		err  error
		want int
	}{
		{models.ErrorValidation{Message: "bad"}, http.StatusBadRequest},
		{models.ErrorUnauthorized{Message: "who"}, http.StatusUnauthorized},
		{models.ErrorForbidden{Message: "no"}, http.StatusForbidden},
		{models.ErrorNotFound{Message: "gone"}, http.StatusNotFound},
		{models.ErrorConflict{Message: "taken"}, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", models.ErrorNotFound{Message: "gone"}), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, h.GetStatusCode(tt.err), tt.err.Error())
	}
}

func TestSendServiceError(t *testing.T) {
	h := newHelper()

	w, b := record(t, func(c *gin.Context) {
		h.SendServiceError(c, models.ErrorForbidden{Message: "only the author may modify this article"})
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, http.StatusForbidden, b.Code)
	assert.Equal(t, "forbidden", b.CodeType)
	assert.Equal(t, "only the author may modify this article", b.CodeMessage)

	w, b = record(t, func(c *gin.Context) {
		h.SendServiceError(c, models.ErrorValidation{
			Message: "content: content is required",
			Fields:  map[string][]string{"content": {"content is required"}},
		})
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validationError", b.CodeType)
	assert.JSONEq(t, `{"content":["content is required"]}`, string(b.Data))

	w, b = record(t, func(c *gin.Context) {
		h.SendServiceError(c, models.ErrorInternalServer{Message: "db down", Err: errors.New("dial tcp")})
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", b.CodeMessage)
	assert.NotContains(t, w.Body.String(), "dial tcp")
}

func TestSendSuccessDefaultsMessage(t *testing.T) {
	h := newHelper()

	w, b := record(t, func(c *gin.Context) {
		h.SendSuccess(c, "", gin.H{"id": 1})
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", b.CodeMessage)
	assert.JSONEq(t, `{"id":1}`, string(b.Data))

	w, b = record(t, func(c *gin.Context) {
		h.SendCreated(c, "Article created", h.EmptyJsonMap())
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "created", b.CodeType)
}

func TestTranslateValidationErrors(t *testing.T) {
	v, trans := NewValidator()
	h := NewHTTPHelper(trans, zerolog.Nop())

	type payload struct {
		Username  string `json:"username" validate:"required"`
		Password  string `json:"password" validate:"required,min=6,password"`
		IPAddress string `json:"ipAddress" validate:"ipv4_dotted"`
	}

	err := v.Struct(payload{Password: "abcdefg", IPAddress: "1.2.3"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	fields := h.TranslateValidationErrors(verrs)
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "ipAddress")
	assert.Len(t, fields["username"], 1)
}

func TestCustomRules(t *testing.T) {
	v, _ := NewValidator()

	assert.NoError(t, v.Var("Passw0rd", "password"))
	assert.Error(t, v.Var("password", "password"))
	assert.Error(t, v.Var("PASSWORD1", "password"))

	assert.NoError(t, v.Var("192.168.0.1", "ipv4_dotted"))
	assert.Error(t, v.Var("256.1.1.1", "ipv4_dotted"))
	assert.Error(t, v.Var("::1", "ipv4_dotted"))

	assert.NoError(t, v.Var("x", "notblank"))
	assert.Error(t, v.Var(" \t", "notblank"))

	assert.NoError(t, v.Var("data:image/png;base64,iVBORw0KGgo=", "datauri_image"))
	assert.Error(t, v.Var("data:text/plain;base64,aGk=", "datauri_image"))
}
