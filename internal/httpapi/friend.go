// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

type friendRequestBody struct {
	UserOne  ulid.ULID `json:"user_one" binding:"required"`
	UserTwo  ulid.ULID `json:"user_two" binding:"required"`
	SenderID ulid.ULID `json:"sender_id" binding:"required"`
}

type handleRequestBody struct {
	UserOne  ulid.ULID `json:"user_one" binding:"required"`
	UserTwo  ulid.ULID `json:"user_two" binding:"required"`
	Accepted bool      `json:"request_accepted"`
}

type pairBody struct {
	UserOne ulid.ULID `json:"user_one" binding:"required"`
	UserTwo ulid.ULID `json:"user_two" binding:"required"`
}

// addFriendRequest may only be sent by the caller.
func (h *handlers) addFriendRequest(c *gin.Context) {
	var req friendRequestBody
	if !bind(c, &req, false) || !requireSelf(c, req.SenderID) {
		return
	}
	h.result(c, h.Friends.AddFriendRequest(c.Request.Context(), req.UserOne, req.UserTwo, req.SenderID))
}

func (h *handlers) handleRequest(c *gin.Context) {
	var req handleRequestBody
	if !bind(c, &req, false) || !requireMember(c, req.UserOne, req.UserTwo) {
		return
	}
	h.result(c, h.Friends.HandleRequest(c.Request.Context(), req.UserOne, req.UserTwo, req.Accepted))
}

func (h *handlers) removeFriendRequest(c *gin.Context) {
	var req pairBody
	if !bind(c, &req, false) || !requireMember(c, req.UserOne, req.UserTwo) {
		return
	}
	h.result(c, h.Friends.RemoveFriendRequest(c.Request.Context(), req.UserOne, req.UserTwo))
}

func (h *handlers) removeFriend(c *gin.Context) {
	var req pairBody
	if !bind(c, &req, false) || !requireMember(c, req.UserOne, req.UserTwo) {
		return
	}
	h.result(c, h.Friends.RemoveFriend(c.Request.Context(), req.UserOne, req.UserTwo))
}

type userBody struct {
	UserID ulid.ULID `json:"user_id" binding:"required"`
}

// retrieveAll answers null instead of a partial snapshot on failure.
func (h *handlers) retrieveAll(c *gin.Context) {
	var req userBody
	if !bind(c, &req, nil) || !requireSelf(c, req.UserID) {
		return
	}
	data, err := h.Projections.RetrieveAll(c.Request.Context(), req.UserID)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, data)
}
