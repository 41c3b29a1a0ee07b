package i18n

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondWithError sends the localized message of err. Errors that are not
// ErrorWithCode are answered as internal errors without leaking their text.
func RespondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var coded *ErrorWithCode
	if !errors.As(err, &coded) {
		_ = c.Error(err)
		coded = ErrInternalServer
	}
	msg := TranslateMessage(c, coded.MessageID, coded.Data)
	c.AbortWithStatusJSON(int(coded.Code), gin.H{"error": msg, "code": coded.MessageID})
}

// RespondWithSuccess sends a success HTTP response with an internationalized message
func RespondWithSuccess(c *gin.Context, statusCode int, msgID string, data map[string]any, payload any) {
	response := gin.H{"message": TranslateMessage(c, msgID, data)}
	for k, v := range data {
		response[k] = v
	}

	if payload != nil {
		switch p := payload.(type) {
		case map[string]any:
			for k, v := range p {
				response[k] = v
			}
		case gin.H:
			for k, v := range p {
				response[k] = v
			}
		default:
			response["data"] = payload
		}
	}

	c.JSON(statusCode, response)
}

// SuccessResponse represents a response with success message
type SuccessResponse struct {
	StatusCode int
	MsgID      string
	Data       map[string]any
	Payload    any
}

// With adds a key-value pair to the response data
func (r *SuccessResponse) With(key string, value any) *SuccessResponse {
	if r.Data == nil {
		r.Data = make(map[string]any)
	}
	r.Data[key] = value
	return r
}

// WithPayload sets the payload for the response
func (r *SuccessResponse) WithPayload(payload any) *SuccessResponse {
	r.Payload = payload
	return r
}

// Send sends the response to the client
func (r *SuccessResponse) Send(c *gin.Context) {
	RespondWithSuccess(c, r.StatusCode, r.MsgID, r.Data, r.Payload)
}

// Success creates a new success response with status code 200
func Success(msgID string) *SuccessResponse {
	return &SuccessResponse{StatusCode: http.StatusOK, MsgID: msgID}
}

// Created creates a new success response with status code 201
func Created(msgID string) *SuccessResponse {
	return &SuccessResponse{StatusCode: http.StatusCreated, MsgID: msgID}
}
