package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeSuccess     = 0
	CodeParamError  = 1000
	CodeAuthFailed  = 1001
	CodeServerError = 5000
	CodeUnavailable = 5003
)

var codeMessages = map[int]string{
	CodeSuccess:     "success",
	CodeParamError:  "invalid request",
	CodeAuthFailed:  "unauthorized",
	CodeServerError: "internal server error",
	CodeUnavailable: "service unavailable",
}

// Response is the envelope every HTTP endpoint answers with.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Error answers with HTTP 200 and the failure in the envelope code.
func Error(c *gin.Context, code int, message string) {
	ErrorWithStatus(c, http.StatusOK, code, message, nil)
}

// ErrorWithStatus is for callers that read the HTTP status, such as health checks.
func ErrorWithStatus(c *gin.Context, status, code int, message string, data interface{}) {
	if message == "" {
		message = codeMessages[code]
	}
	c.JSON(status, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

func ParamError(c *gin.Context, message string) {
	Error(c, CodeParamError, message)
}

func AuthError(c *gin.Context, message string) {
	ErrorWithStatus(c, http.StatusUnauthorized, CodeAuthFailed, message, nil)
}

func ServerError(c *gin.Context, message string) {
	Error(c, CodeServerError, message)
}

func Unavailable(c *gin.Context, data interface{}) {
	ErrorWithStatus(c, http.StatusServiceUnavailable, CodeUnavailable, "", data)
}
