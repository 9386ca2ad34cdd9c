package helper

import (
	"errors"
	"net/http"

	"blog-cms/models"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const (
	textError             = `error`
	textOk                = `ok`
	codeSuccess           = http.StatusOK
	codeCreated           = http.StatusCreated
	codeBadRequestError   = http.StatusBadRequest
	codeUnauthorizedError = http.StatusUnauthorized
	codeForbiddenError    = http.StatusForbidden
	codeNotFound          = http.StatusNotFound
	codeConflictError     = http.StatusConflict
	codeInternalError     = http.StatusInternalServerError
)

// ResponseHelper ...
type ResponseHelper struct {
	C        *gin.Context
	Status   string
	Message  string
	Data     interface{}
	Code     int
	CodeType string
}

// HTTPHelper ...
type HTTPHelper struct {
	Translator ut.Translator
	Log        zerolog.Logger
}

func NewHTTPHelper(translator ut.Translator, log zerolog.Logger) *HTTPHelper {
	return &HTTPHelper{Translator: translator, Log: log}
}

// GetStatusCode ...
// Map a service error to its HTTP status.
func (u *HTTPHelper) GetStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var (
		validationErr   models.ErrorValidation
		unauthorizedErr models.ErrorUnauthorized
		forbiddenErr    models.ErrorForbidden
		notFoundErr     models.ErrorNotFound
		conflictErr     models.ErrorConflict
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &unauthorizedErr):
		return http.StatusUnauthorized
	case errors.As(err, &forbiddenErr):
		return http.StatusForbidden
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &conflictErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// SetResponse ...
// Set response data.
func (u *HTTPHelper) SetResponse(c *gin.Context, status string, message string, data interface{}, code int, codeType string) ResponseHelper {
	return ResponseHelper{c, status, message, data, code, codeType}
}

// SendError ...
// Send error response to consumers.
func (u *HTTPHelper) SendError(c *gin.Context, message string, data interface{}, code int, codeType string) error {
	res := u.SetResponse(c, textError, message, data, code, codeType)

	return u.SendResponse(res)
}

// SendServiceError ...
// Translate an error returned by a service into the matching error response.
func (u *HTTPHelper) SendServiceError(c *gin.Context, err error) error {
	var validationErr models.ErrorValidation
	if errors.As(err, &validationErr) && len(validationErr.Fields) > 0 {
		return u.SendError(c, validationErr.Message, validationErr.Fields, codeBadRequestError, `validationError`)
	}

	switch code := u.GetStatusCode(err); code {
	case codeBadRequestError:
		return u.SendBadRequest(c, err.Error(), u.EmptyJsonMap())
	case codeUnauthorizedError:
		return u.SendUnauthorizedError(c, err.Error(), u.EmptyJsonMap())
	case codeForbiddenError:
		return u.SendForbiddenError(c, err.Error(), u.EmptyJsonMap())
	case codeNotFound:
		return u.SendNotFoundError(c, err.Error(), u.EmptyJsonMap())
	case codeConflictError:
		return u.SendConflictError(c, err.Error(), u.EmptyJsonMap())
	default:
		u.Log.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("unhandled error")
		return u.SendError(c, "internal server error", u.EmptyJsonMap(), codeInternalError, `internalError`)
	}
}

// SendBadRequest ...
// Send bad request response to consumers.
func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textError, message, data, codeBadRequestError, `badRequest`)

	return u.SendResponse(res)
}

// TranslateValidationErrors groups translated messages by field name.
func (u *HTTPHelper) TranslateValidationErrors(validationErrors validator.ValidationErrors) map[string][]string {
	errorResponse := map[string][]string{}
	for _, err := range validationErrors {
		errKey := err.Field()
		msg := err.Error()
		if u.Translator != nil {
			msg = err.Translate(u.Translator)
		}
		errorResponse[errKey] = append(errorResponse[errKey], msg)
	}
	return errorResponse
}

// SendUnauthorizedError ...
// Send unauthorized response to consumers.
func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeUnauthorizedError, `unAuthorized`)
}

// SendForbiddenError ...
// Send forbidden response to consumers.
func (u *HTTPHelper) SendForbiddenError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeForbiddenError, `forbidden`)
}

// SendNotFoundError ...
// Send not found response to consumers.
func (u *HTTPHelper) SendNotFoundError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeNotFound, `notFound`)
}

// SendConflictError ...
// Send conflict response to consumers.
func (u *HTTPHelper) SendConflictError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeConflictError, `conflict`)
}

// SendSuccess ...
// Send success response to consumers.
func (u *HTTPHelper) SendSuccess(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textOk, message, data, codeSuccess, `success`)

	return u.SendResponse(res)
}

// SendCreated ...
// Send created response to consumers.
func (u *HTTPHelper) SendCreated(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textOk, message, data, codeCreated, `created`)

	return u.SendResponse(res)
}

// SendResponse ...
// Send response
func (u *HTTPHelper) SendResponse(res ResponseHelper) error {
	if len(res.Message) == 0 {
		res.Message = `success`
	}

	res.C.JSON(res.Code, map[string]interface{}{
		"code":         res.Code,
		"code_type":    res.CodeType,
		"code_message": res.Message,
		"data":         res.Data,
	})
	return nil
}

func (u *HTTPHelper) EmptyJsonMap() map[string]interface{} {
	return make(map[string]interface{})
}
