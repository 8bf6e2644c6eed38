// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package integration

import (
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/tidewater/internal/catalog"
	"github.com/holomush/tidewater/internal/ident"
	"github.com/holomush/tidewater/internal/player"
)

var _ = Describe("Player state", func() {
	It("accumulates counters", func() {
		alice := register("alice").ID

		Expect(env.Players.AddXP(env.ctx, alice, 40)).To(Succeed())
		Expect(env.Players.ChangeBucks(env.ctx, alice, -1000)).To(Succeed())
		Expect(env.Players.ChangeCoins(env.ctx, alice, 5)).To(Succeed())
		Expect(env.Players.AddPlaytime(env.ctx, alice, 90)).To(Succeed())
		Expect(env.Players.AddXP(env.ctx, alice, -1)).To(MatchError(player.ErrInvalidInput))

		data, err := env.Projections.RetrieveAll(env.ctx, alice)
		Expect(err).NotTo(HaveOccurred())
		Expect(data.XP).To(Equal(40))
		Expect(data.Bucks).To(Equal(4000))
		Expect(data.Coins).To(Equal(30))
		Expect(data.TotalPlaytime).To(Equal(90))

		Expect(env.Players.AddXP(env.ctx, ident.New(), 1)).To(MatchError(player.ErrNotFound))
	})

	It("keeps the longest catch per species with its baits and areas", func() {
		alice := register("alice").ID

		Expect(env.Players.AddFish(env.ctx, player.FishCatch{AccountID: alice, FishID: 7, Length: 30, BaitID: 1, AreaID: 2})).To(Succeed())
		Expect(env.Players.AddFish(env.ctx, player.FishCatch{AccountID: alice, FishID: 7, Length: 12, BaitID: 2, AreaID: 2})).To(Succeed())

		data, err := env.Projections.RetrieveAll(env.ctx, alice)
		Expect(err).NotTo(HaveOccurred())
		Expect(data.FishData).To(HaveLen(1))
		fish := data.FishData[0]
		Expect(fish.FishID).To(Equal(7))
		Expect(fish.Amount).To(Equal(2))
		Expect(fish.MaxLength).To(Equal(30))
		Expect(fish.Baits).To(ConsistOf(1, 2))
		Expect(fish.Areas).To(ConsistOf(2))
	})

	It("selects owned items into matching slots", func() {
		alice := register("alice").ID
		rod := uuid.New()
		Expect(env.Players.AddOrUpdateItem(env.ctx, alice, player.InventoryItem{ID: rod, DefinitionID: 1001})).To(Succeed())

		Expect(env.Players.SelectItem(env.ctx, alice, rod, catalog.ItemTypeRod)).To(Succeed())
		Expect(env.Players.SelectItem(env.ctx, alice, rod, catalog.ItemTypeBait)).To(MatchError(player.ErrItemTypeMismatch))
		Expect(env.Players.SelectItem(env.ctx, alice, rod, catalog.ItemTypeExtra)).To(MatchError(player.ErrUnsupportedItemType))

		bob := register("bob").ID
		Expect(env.Players.SelectItem(env.ctx, bob, rod, catalog.ItemTypeRod)).To(MatchError(player.ErrNotFound))

		data, err := env.Projections.RetrieveAll(env.ctx, alice)
		Expect(err).NotTo(HaveOccurred())
		Expect(data.SelectedRod).NotTo(BeNil())
		Expect(*data.SelectedRod).To(Equal(rod))

		Expect(env.Players.DestroyItem(env.ctx, alice, rod)).To(Succeed())
		data, err = env.Projections.RetrieveAll(env.ctx, alice)
		Expect(err).NotTo(HaveOccurred())
		Expect(data.SelectedRod).To(BeNil())
	})

	It("delivers mail to every receiver", func() {
		alice := register("alice").ID
		bob := register("bob").ID
		carol := register("carol").ID

		id, err := env.Players.SendMail(env.ctx, player.Mail{
			SenderID:  &alice,
			Receivers: []ulid.ULID{bob, carol},
			Title:     "Tournament",
			Message:   "Saturday at the pier",
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(env.Players.MarkRead(env.ctx, bob, id, true)).To(Succeed())
		Expect(env.Players.DeleteMail(env.ctx, carol, id)).To(Succeed())

		data, err := env.Projections.RetrieveAll(env.ctx, bob)
		Expect(err).NotTo(HaveOccurred())
		Expect(data.Mailbox).To(HaveLen(1))
		Expect(data.Mailbox[0].Read).To(BeTrue())
		Expect(data.Mailbox[0].Title).To(Equal("Tournament"))

		data, err = env.Projections.RetrieveAll(env.ctx, carol)
		Expect(err).NotTo(HaveOccurred())
		Expect(data.Mailbox).To(BeEmpty())
	})

	It("expires effects", func() {
		alice := register("alice").ID

		Expect(env.Players.AddEffect(env.ctx, alice, 2000, time.Now().Add(time.Hour))).To(Succeed())
		active, err := env.Players.ActiveEffects(env.ctx, alice)
		Expect(err).NotTo(HaveOccurred())
		Expect(active).To(HaveLen(1))

		_, err = env.pool.Exec(env.ctx, `UPDATE player_effects SET expires_at = NOW() - INTERVAL '1 minute'`)
		Expect(err).NotTo(HaveOccurred())

		active, err = env.Players.ActiveEffects(env.ctx, alice)
		Expect(err).NotTo(HaveOccurred())
		Expect(active).To(BeEmpty())

		n, err := env.Players.CleanupExpiredEffects(env.ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(1)))
	})
})
