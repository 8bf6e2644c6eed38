// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

func forbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, false)
}

// requireSelf answers 403 unless the caller is id.
func requireSelf(c *gin.Context, id ulid.ULID) bool {
	if caller(c).ID != id {
		forbidden(c)
		return false
	}
	return true
}

// requireMember answers 403 unless the caller is a or b.
func requireMember(c *gin.Context, a, b ulid.ULID) bool {
	me := caller(c).ID
	if me != a && me != b {
		forbidden(c)
		return false
	}
	return true
}
