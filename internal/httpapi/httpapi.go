// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package httpapi exposes the account, friend and player services as a
// JSON API. Routes other than registration, login and username recovery
// require a bearer token, and a caller may only act on their own account.
package httpapi

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/tidewater/internal/account"
	"github.com/holomush/tidewater/internal/catalog"
	"github.com/holomush/tidewater/internal/player"
	"github.com/holomush/tidewater/internal/projection"
)

// Accounts is the subset of account.Service the API calls.
type Accounts interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, name, password string) (string, error)
	VerifyToken(ctx context.Context, token string) (*account.Account, error)
	ChangePassword(ctx context.Context, name, newPassword string) error
	RetrieveUsername(ctx context.Context, email string) (bool, error)
}

// Friends is the subset of relationship.Service the API calls.
type Friends interface {
	AddFriendRequest(ctx context.Context, a, b, sender ulid.ULID) error
	HandleRequest(ctx context.Context, a, b ulid.ULID, accepted bool) error
	RemoveFriendRequest(ctx context.Context, a, b ulid.ULID) error
	RemoveFriend(ctx context.Context, a, b ulid.ULID) error
}

// Projections builds account snapshots.
type Projections interface {
	RetrieveAll(ctx context.Context, id ulid.ULID) (*projection.UserData, error)
}

// Players is the subset of player.Service the API calls.
type Players interface {
	AddXP(ctx context.Context, account ulid.ULID, amount int) error
	ChangeBucks(ctx context.Context, account ulid.ULID, delta int) error
	ChangeCoins(ctx context.Context, account ulid.ULID, delta int) error
	AddPlaytime(ctx context.Context, account ulid.ULID, seconds int) error
	AddFish(ctx context.Context, c player.FishCatch) error
	SelectItem(ctx context.Context, account ulid.ULID, item uuid.UUID, slot catalog.ItemType) error
	AddOrUpdateItem(ctx context.Context, account ulid.ULID, item player.InventoryItem) error
	DestroyItem(ctx context.Context, account ulid.ULID, item uuid.UUID) error
	SendMail(ctx context.Context, m player.Mail) (ulid.ULID, error)
	DeleteMail(ctx context.Context, account, mailID ulid.ULID) error
	MarkRead(ctx context.Context, account, mailID ulid.ULID, read bool) error
	MarkArchived(ctx context.Context, account, mailID ulid.ULID, archived bool) error
	AddEffect(ctx context.Context, account ulid.ULID, itemID int, expiresAt time.Time) error
	RemoveEffect(ctx context.Context, account ulid.ULID, itemID int) error
	ActiveEffects(ctx context.Context, account ulid.ULID) ([]player.Effect, error)
	CleanupExpiredEffects(ctx context.Context) (int64, error)
}

// Services are the handlers' dependencies. All are required.
type Services struct {
	Accounts    Accounts
	Friends     Friends
	Projections Projections
	Players     Players
}

// Options tune the router.
type Options struct {
	// CORSOrigins are glob patterns of allowed browser origins, such as
	// "https://*.example.com". Empty disables CORS headers.
	CORSOrigins []string
	Logger      *slog.Logger
}

type handlers struct {
	Services
	logger *slog.Logger
}

// NewRouter builds the gin engine serving every route.
func NewRouter(svc Services, opts Options) (*gin.Engine, error) {
	switch {
	case svc.Accounts == nil:
		return nil, oops.Code("HTTPAPI_INVALID").Errorf("account service is required")
	case svc.Friends == nil:
		return nil, oops.Code("HTTPAPI_INVALID").Errorf("friend service is required")
	case svc.Projections == nil:
		return nil, oops.Code("HTTPAPI_INVALID").Errorf("projection service is required")
	case svc.Players == nil:
		return nil, oops.Code("HTTPAPI_INVALID").Errorf("player service is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cors, err := CORS(opts.CORSOrigins)
	if err != nil {
		return nil, err
	}

	h := &handlers{Services: svc, logger: logger}

	r := gin.New()
	r.Use(RequestID(), Recovery(logger), AccessLog(logger), Metrics(), cors)

	acct := r.Group("/account")
	acct.POST("/register", h.register)
	acct.POST("/login", h.login)
	acct.POST("/retrieve_username", h.retrieveUsername)

	authed := r.Group("/", Authenticate(svc.Accounts))
	authed.POST("/account/change_password", h.changePassword)
	authed.GET("/users", h.currentUser)

	friend := authed.Group("/friend")
	friend.POST("/add_friend_request", h.addFriendRequest)
	friend.POST("/handle_request", h.handleRequest)
	friend.POST("/remove_friend_request", h.removeFriendRequest)
	friend.POST("/remove_friend", h.removeFriend)

	authed.POST("/data/retrieve_all_playerdata", h.retrieveAll)

	stats := authed.Group("/stats")
	stats.POST("/add_xp", h.counter(Players.AddXP))
	stats.POST("/change_bucks", h.counter(Players.ChangeBucks))
	stats.POST("/change_coins", h.counter(Players.ChangeCoins))
	stats.POST("/add_playtime", h.counter(Players.AddPlaytime))
	stats.POST("/add_fish", h.addFish)
	stats.POST("/select_item", h.selectItem)

	inv := authed.Group("/inventory")
	inv.POST("/add_or_update", h.addOrUpdateItem)
	inv.POST("/destroy", h.destroyItem)

	mail := authed.Group("/mail")
	mail.POST("/create", h.createMail)
	mail.POST("/delete", h.deleteMail)
	mail.POST("/change_read_state", h.changeReadState)
	mail.POST("/archive_state", h.changeArchiveState)

	fx := authed.Group("/effects")
	fx.POST("/add_effect", h.addEffect)
	fx.POST("/remove_effect", h.removeEffect)
	fx.POST("/active", h.activeEffects)
	fx.POST("/cleanup_all_expired", h.cleanupExpired)

	return r, nil
}
