package handler

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SoftwareVerse/userverse/internal/ratelimit"
	"github.com/SoftwareVerse/userverse/internal/service"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrInvalidToken, http.StatusUnauthorized},
	{service.ErrAccountDisabled, http.StatusForbidden},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrCompanyNotFound, http.StatusNotFound},
	{service.ErrMemberNotFound, http.StatusNotFound},
	{service.ErrRoleNotFound, http.StatusNotFound},
	{service.ErrEmailTaken, http.StatusConflict},
	{service.ErrCompanyEmailTaken, http.StatusConflict},
	{service.ErrMemberExists, http.StatusConflict},
	{service.ErrRoleExists, http.StatusConflict},
	{service.ErrRoleInUse, http.StatusConflict},
	{service.ErrAlreadyVerified, http.StatusConflict},
	{service.ErrDefaultRole, http.StatusUnprocessableEntity},
	{service.ErrLastAdministrator, http.StatusUnprocessableEntity},
	{service.ErrInvalidOTP, http.StatusBadRequest},
	{service.ErrOTPExpired, http.StatusBadRequest},
	{service.ErrTooManyAttempts, http.StatusTooManyRequests},
}

// respondError writes the status for a known service error, or 500 with a generic message.
func respondError(c *gin.Context, err error, fallback string) {
	var limitErr *ratelimit.LimitError
	if errors.As(err, &limitErr) {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(limitErr.RetryAfter.Seconds()))))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
		return
	}

	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{"error": e.err.Error()})
			return
		}
	}

	slog.ErrorContext(c.Request.Context(), fallback, "error", err)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
