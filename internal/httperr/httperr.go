package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func WriteDetails(c *gin.Context, status int, code, message string, details any) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// ======================================================
// Business → HTTP mapping
// ======================================================

var statusByCode = map[string]int{
	CodeInvalidRequest:     http.StatusBadRequest,
	CodeNoSchedulingAccess: http.StatusForbidden,
	CodeConflict:           http.StatusConflict,
	CodeNotFound:           http.StatusNotFound,
	CodeIllegalTransition:  http.StatusConflict,
	CodeTransient:          http.StatusServiceUnavailable,
	CodeInternal:           http.StatusInternalServerError,
}

var messageByCode = map[string]string{
	CodeInvalidRequest:     "Dados inválidos.",
	CodeNoSchedulingAccess: "Profissional sem acesso à agenda.",
	CodeConflict:           "Conflito de horário.",
	CodeNotFound:           "Registro não encontrado.",
	CodeIllegalTransition:  "Transição de status inválida.",
	CodeTransient:          "Serviço temporariamente indisponível. Tente novamente.",
	CodeInternal:           "Erro interno.",
}

// WriteBusiness maps a core error to the JSON envelope. Unknown errors are
// surfaced as opaque internal.
func WriteBusiness(c *gin.Context, err error) {
	be, ok := AsBusiness(err)
	if !ok {
		Write(c, http.StatusInternalServerError, CodeInternal, messageByCode[CodeInternal])
		return
	}

	status, ok := statusByCode[be.Code]
	if !ok {
		status = http.StatusInternalServerError
	}

	msg, ok := messageByCode[be.Code]
	if !ok {
		msg = be.Code
	}

	WriteDetails(c, status, be.Code, msg, be.Details)
}
