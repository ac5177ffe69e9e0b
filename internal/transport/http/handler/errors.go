package handler

import (
	"errors"
	"net/http"

	"github.com/birozsombor4/rest-api-template/internal/domain"
	"github.com/gin-gonic/gin"
)

const errInternalServer = "Internal server error"

// writeError is the single boundary translator: it maps a tagged domain
// error to its HTTP status and client message. Nothing else in the service
// turns errors into responses.
func writeError(c *gin.Context, err error) {
	var e *domain.Error
	if !errors.As(err, &e) {
		c.JSON(http.StatusInternalServerError, errorBody(errInternalServer))
		return
	}

	var status int
	var msg string
	switch e.Kind {
	case domain.KindInvalidParameters:
		status, msg = http.StatusBadRequest, e.Detail
	case domain.KindBadCredentials:
		status, msg = http.StatusUnauthorized, "Username or password is incorrect."
	case domain.KindNotVerified:
		status, msg = http.StatusForbidden, "User is not verified."
	case domain.KindAlreadyVerified:
		status, msg = http.StatusForbidden, e.Detail+" has already verified."
	case domain.KindUsernameNotFound:
		// Echoing the attempted name here is a known enumeration leak kept
		// for response compatibility.
		status, msg = http.StatusNotFound, "User does not exist with given id/name: "+e.Detail
	case domain.KindUserNotFound:
		status, msg = http.StatusBadRequest, "User does not exist with given id/name: "+e.Detail
	case domain.KindTokenNotFound:
		status, msg = http.StatusNotFound, "Verification token does not exist."
	case domain.KindUnsupportedContentType:
		status, msg = http.StatusBadRequest, "Unsupported Content-Type: "+e.Detail
	case domain.KindUnsupportedFilename:
		status, msg = http.StatusBadRequest, "Unsupported filename: "+e.Detail
	case domain.KindFileSaveFailed:
		status, msg = http.StatusInternalServerError, "Something went wrong with file saving: "+e.Detail
	case domain.KindFileLoadFailed:
		status, msg = http.StatusInternalServerError, "Something went wrong with file loading: "+e.Detail
	case domain.KindFileDeleteFailed:
		status, msg = http.StatusInternalServerError, "Something went wrong with file deleting: "+e.Detail
	case domain.KindDirCreateFailed:
		status, msg = http.StatusInternalServerError, "Something went wrong with creating directory: "+e.Detail
	case domain.KindNotAllowedAction:
		// 405 for a cross-user action is unconventional but part of this
		// protocol; clients match on it.
		status, msg = http.StatusMethodNotAllowed, e.Detail
	default:
		status, msg = http.StatusInternalServerError, errInternalServer
	}

	c.JSON(status, errorBody(msg))
}

func errorBody(msg string) gin.H {
	return gin.H{"status": "error", "message": msg}
}

func okBody(msg string) gin.H {
	return gin.H{"status": "ok", "message": msg}
}
