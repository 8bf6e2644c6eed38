// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/holomush/tidewater/internal/account"
	"github.com/holomush/tidewater/internal/player"
	"github.com/holomush/tidewater/internal/projection"
	"github.com/holomush/tidewater/internal/relationship"
	"github.com/holomush/tidewater/pkg/errutil"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{account.ErrInvalidCredentials, http.StatusUnauthorized},
	{account.ErrUnauthenticated, http.StatusUnauthorized},
	{account.ErrConflict, http.StatusConflict},
	{relationship.ErrDuplicate, http.StatusConflict},
	{account.ErrNotFound, http.StatusNotFound},
	{relationship.ErrNotFound, http.StatusNotFound},
	{projection.ErrNotFound, http.StatusNotFound},
	{player.ErrNotFound, http.StatusNotFound},
	{account.ErrInvalidInput, http.StatusBadRequest},
	{relationship.ErrSelfPair, http.StatusBadRequest},
	{relationship.ErrInvalidIdentity, http.StatusBadRequest},
	{relationship.ErrInvalidSender, http.StatusBadRequest},
	{player.ErrInvalidInput, http.StatusBadRequest},
	{player.ErrItemTypeMismatch, http.StatusBadRequest},
	{player.ErrUnknownDefinition, http.StatusBadRequest},
	{player.ErrUnsupportedItemType, http.StatusUnprocessableEntity},
}

// StatusFor maps a service error to an HTTP status. Unrecognized errors,
// including projection.ErrCorrupt, are internal errors.
func StatusFor(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// fail logs err and aborts with its status and body.
func (h *handlers) fail(c *gin.Context, err error, body any) {
	status := StatusFor(err)
	ctx := c.Request.Context()
	if status >= http.StatusInternalServerError {
		errutil.LogErrorContext(ctx, h.logger, "request failed", err)
	} else {
		h.logger.DebugContext(ctx, "request rejected", errutil.Attrs(err)...)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

// result answers a boolean route.
func (h *handlers) result(c *gin.Context, err error) {
	if err != nil {
		h.fail(c, err, false)
		return
	}
	c.JSON(http.StatusOK, true)
}

// bind decodes the JSON body into dst or answers 400 with body.
func bind(c *gin.Context, dst, body any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusBadRequest, body)
		return false
	}
	return true
}
