package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nnhurricane156/phygen-portal/internal/domain"
	"github.com/nnhurricane156/phygen-portal/internal/response"
)

// writeError maps the client error taxonomy onto the portal's own
// responses. Auth failures carry the login redirect hint; backend errors
// keep their status and message so the UI can show them verbatim.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		response.LoginRequired(c, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		response.LoginRequired(c, err.Error())
	case errors.Is(err, domain.ErrGoogleNotConfigured):
		response.Error(c, http.StatusServiceUnavailable, "GOOGLE_NOT_CONFIGURED", err.Error())
	default:
		var timeoutErr *domain.TimeoutError
		if errors.As(err, &timeoutErr) {
			response.Error(c, http.StatusGatewayTimeout, "TIMEOUT", timeoutErr.Error())
			return
		}
		var rejection *domain.BackendRejection
		if errors.As(err, &rejection) {
			response.Error(c, http.StatusBadRequest, "REQUEST_REJECTED", rejection.Error())
			return
		}
		var reqErr *domain.RequestError
		if errors.As(err, &reqErr) {
			response.Error(c, reqErr.Status, "BACKEND_ERROR", reqErr.Error())
			return
		}
		response.Error(c, http.StatusBadGateway, "BACKEND_UNREACHABLE", err.Error())
	}
}
