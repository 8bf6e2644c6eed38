// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/holomush/tidewater/internal/catalog"
	"github.com/holomush/tidewater/internal/player"
)

type amountBody struct {
	UserID ulid.ULID `json:"user_id" binding:"required"`
	Amount int       `json:"amount"`
}

type counterFunc func(Players, context.Context, ulid.ULID, int) error

// counter serves the four stats routes that take {user_id, amount}.
func (h *handlers) counter(apply counterFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req amountBody
		if !bind(c, &req, false) || !requireSelf(c, req.UserID) {
			return
		}
		h.result(c, apply(h.Players, c.Request.Context(), req.UserID, req.Amount))
	}
}

type addFishBody struct {
	UserID ulid.ULID `json:"user_id" binding:"required"`
	FishID int       `json:"fish_id"`
	Length int       `json:"length"`
	BaitID int       `json:"bait_id"`
	AreaID int       `json:"area_id"`
}

func (h *handlers) addFish(c *gin.Context) {
	var req addFishBody
	if !bind(c, &req, false) || !requireSelf(c, req.UserID) {
		return
	}
	h.result(c, h.Players.AddFish(c.Request.Context(), player.FishCatch{
		AccountID: req.UserID,
		FishID:    req.FishID,
		Length:    req.Length,
		BaitID:    req.BaitID,
		AreaID:    req.AreaID,
	}))
}

type selectItemBody struct {
	UserID   ulid.ULID `json:"user_id" binding:"required"`
	ItemUID  uuid.UUID `json:"item_uid" binding:"required"`
	ItemType string    `json:"item_type" binding:"required"`
}

// parseItemType accepts "Rod", "rod", "BAIT" and so on.
func parseItemType(s string) (catalog.ItemType, bool) {
	t := catalog.ItemType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

func (h *handlers) selectItem(c *gin.Context) {
	var req selectItemBody
	if !bind(c, &req, false) || !requireSelf(c, req.UserID) {
		return
	}
	slot, ok := parseItemType(req.ItemType)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, false)
		return
	}
	h.result(c, h.Players.SelectItem(c.Request.Context(), req.UserID, req.ItemUID, slot))
}

type itemBody struct {
	UserID       ulid.ULID `json:"user_id" binding:"required"`
	ItemUID      uuid.UUID `json:"item_uid" binding:"required"`
	DefinitionID int       `json:"item_id"`
	State        string    `json:"state_blob"`
}

func (h *handlers) addOrUpdateItem(c *gin.Context) {
	var req itemBody
	if !bind(c, &req, false) || !requireSelf(c, req.UserID) {
		return
	}
	h.result(c, h.Players.AddOrUpdateItem(c.Request.Context(), req.UserID, player.InventoryItem{
		ID:           req.ItemUID,
		DefinitionID: req.DefinitionID,
		State:        req.State,
	}))
}

type destroyItemBody struct {
	UserID  ulid.ULID `json:"user_id" binding:"required"`
	ItemUID uuid.UUID `json:"item_uid" binding:"required"`
}

func (h *handlers) destroyItem(c *gin.Context) {
	var req destroyItemBody
	if !bind(c, &req, false) || !requireSelf(c, req.UserID) {
		return
	}
	h.result(c, h.Players.DestroyItem(c.Request.Context(), req.UserID, req.ItemUID))
}

type createMailBody struct {
	SenderID    ulid.ULID   `json:"sender_id" binding:"required"`
	ReceiverIDs []ulid.ULID `json:"receiver_ids" binding:"required"`
	Title       string      `json:"title"`
	Message     string      `json:"message"`
}

// createMail sends as the caller.
func (h *handlers) createMail(c *gin.Context) {
	var req createMailBody
	if !bind(c, &req, false) || !requireSelf(c, req.SenderID) {
		return
	}
	sender := req.SenderID
	_, err := h.Players.SendMail(c.Request.Context(), player.Mail{
		SenderID:  &sender,
		Receivers: req.ReceiverIDs,
		Title:     req.Title,
		Message:   req.Message,
	})
	h.result(c, err)
}

type mailBody struct {
	UserID ulid.ULID `json:"user_id" binding:"required"`
	MailID ulid.ULID `json:"mail_id" binding:"required"`
}

func (h *handlers) deleteMail(c *gin.Context) {
	var req mailBody
	if !bind(c, &req, false) || !requireSelf(c, req.UserID) {
		return
	}
	h.result(c, h.Players.DeleteMail(c.Request.Context(), req.UserID, req.MailID))
}

type readStateBody struct {
	UserID ulid.ULID `json:"user_id" binding:"required"`
	MailID ulid.ULID `json:"mail_id" binding:"required"`
	Read   bool      `json:"read"`
}

func (h *handlers) changeReadState(c *gin.Context) {
	var req readStateBody
	if !bind(c, &req, false) || !requireSelf(c, req.UserID) {
		return
	}
	h.result(c, h.Players.MarkRead(c.Request.Context(), req.UserID, req.MailID, req.Read))
}

type archiveStateBody struct {
	UserID   ulid.ULID `json:"user_id" binding:"required"`
	MailID   ulid.ULID `json:"mail_id" binding:"required"`
	Archived bool      `json:"archived"`
}

func (h *handlers) changeArchiveState(c *gin.Context) {
	var req archiveStateBody
	if !bind(c, &req, false) || !requireSelf(c, req.UserID) {
		return
	}
	h.result(c, h.Players.MarkArchived(c.Request.Context(), req.UserID, req.MailID, req.Archived))
}

type addEffectBody struct {
	UserID    ulid.ULID `json:"user_id" binding:"required"`
	ItemID    int       `json:"item_id"`
	ExpiresAt time.Time `json:"expires_at" binding:"required"`
}

func (h *handlers) addEffect(c *gin.Context) {
	var req addEffectBody
	if !bind(c, &req, false) || !requireSelf(c, req.UserID) {
		return
	}
	h.result(c, h.Players.AddEffect(c.Request.Context(), req.UserID, req.ItemID, req.ExpiresAt))
}

type effectBody struct {
	UserID ulid.ULID `json:"user_id" binding:"required"`
	ItemID int       `json:"item_id"`
}

func (h *handlers) removeEffect(c *gin.Context) {
	var req effectBody
	if !bind(c, &req, false) || !requireSelf(c, req.UserID) {
		return
	}
	h.result(c, h.Players.RemoveEffect(c.Request.Context(), req.UserID, req.ItemID))
}

// EffectResponse is one active effect.
type EffectResponse struct {
	ItemID    int       `json:"item_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *handlers) activeEffects(c *gin.Context) {
	var req userBody
	if !bind(c, &req, nil) || !requireSelf(c, req.UserID) {
		return
	}
	effects, err := h.Players.ActiveEffects(c.Request.Context(), req.UserID)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	out := make([]EffectResponse, 0, len(effects))
	for _, e := range effects {
		out = append(out, EffectResponse{ItemID: e.ItemID, ExpiresAt: e.ExpiresAt})
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) cleanupExpired(c *gin.Context) {
	removed, err := h.Players.CleanupExpiredEffects(c.Request.Context())
	if err == nil {
		h.logger.InfoContext(c.Request.Context(), "expired effects cleaned up", "count", removed)
	}
	h.result(c, err)
}
