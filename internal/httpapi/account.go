// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenResponse answers registration and login. Code repeats the HTTP
// status; JWT is empty on failure.
type TokenResponse struct {
	Code int    `json:"code"`
	JWT  string `json:"jwt"`
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	Username    string `json:"username" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type retrieveUsernameRequest struct {
	Email string `json:"email" binding:"required"`
}

// UserResponse describes the authenticated caller.
type UserResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *handlers) token(c *gin.Context, token string, err error) {
	if err != nil {
		status := StatusFor(err)
		h.fail(c, err, TokenResponse{Code: status})
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Code: http.StatusOK, JWT: token})
}

func (h *handlers) register(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req, TokenResponse{Code: http.StatusBadRequest}) {
		return
	}
	token, err := h.Accounts.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	h.token(c, token, err)
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req, TokenResponse{Code: http.StatusBadRequest}) {
		return
	}
	token, err := h.Accounts.Login(c.Request.Context(), req.Username, req.Password)
	h.token(c, token, err)
}

func (h *handlers) retrieveUsername(c *gin.Context) {
	var req retrieveUsernameRequest
	if !bind(c, &req, false) {
		return
	}
	sent, err := h.Accounts.RetrieveUsername(c.Request.Context(), req.Email)
	if err != nil {
		h.fail(c, err, false)
		return
	}
	c.JSON(http.StatusOK, sent)
}

// changePassword only lets callers change their own password.
func (h *handlers) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if !bind(c, &req, false) {
		return
	}
	if !strings.EqualFold(caller(c).Name, req.Username) {
		forbidden(c)
		return
	}
	h.result(c, h.Accounts.ChangePassword(c.Request.Context(), req.Username, req.NewPassword))
}

func (h *handlers) currentUser(c *gin.Context) {
	acct := caller(c)
	c.JSON(http.StatusOK, UserResponse{Name: acct.Name, Email: acct.Email})
}
