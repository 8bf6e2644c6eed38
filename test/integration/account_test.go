// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package integration

import (
	"math"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/tidewater/internal/account"
)

var _ = Describe("Accounts", func() {
	It("issues distinct tokens that resolve to the same account", func() {
		t1, err := env.Accounts.Register(env.ctx, "alice", "a@x.com", "pw1")
		Expect(err).NotTo(HaveOccurred())

		t2, err := env.Accounts.Login(env.ctx, "alice", "pw1")
		Expect(err).NotTo(HaveOccurred())
		Expect(t2).NotTo(Equal(t1))

		a1, err := env.Accounts.VerifyToken(env.ctx, t1)
		Expect(err).NotTo(HaveOccurred())
		a2, err := env.Accounts.VerifyToken(env.ctx, t2)
		Expect(err).NotTo(HaveOccurred())
		Expect(a1.ID).To(Equal(a2.ID))
		Expect(a1.Name).To(Equal("alice"))
	})

	It("seeds the starter bundle", func() {
		alice := register("alice")

		data, err := env.Projections.RetrieveAll(env.ctx, alice.ID)
		Expect(err).NotTo(HaveOccurred())
		starter := account.DefaultStarterStats()
		Expect(data.Coins).To(Equal(starter.Coins))
		Expect(data.Bucks).To(Equal(starter.Bucks))

		defs := make([]int, 0, len(data.InventoryItems))
		for _, item := range data.InventoryItems {
			defs = append(defs, item.DefinitionID)
		}
		Expect(defs).To(ConsistOf(env.items.StarterDefinitions()))
	})

	It("rejects names and emails that differ only in case", func() {
		register("alice")

		_, err := env.Accounts.Register(env.ctx, "ALICE", "other@example.com", "pw1")
		Expect(err).To(MatchError(account.ErrConflict))

		_, err = env.Accounts.Register(env.ctx, "bob", "ALICE@example.com", "pw1")
		Expect(err).To(MatchError(account.ErrConflict))
	})

	It("rolls back the account when a starter item cannot be stored", func() {
		broken, err := env.newAccountService(account.StarterKit{
			Stats:       account.DefaultStarterStats(),
			Definitions: []int{1000, math.MaxInt32 + 1},
		})
		Expect(err).NotTo(HaveOccurred())

		_, err = broken.Register(env.ctx, "carol", "carol@example.com", "pw1")
		Expect(err).To(HaveOccurred())

		_, err = env.AccountRepo.GetByName(env.ctx, "carol")
		Expect(err).To(MatchError(account.ErrNotFound))
		for _, table := range []string{"accounts", "stats", "inventory_items"} {
			var n int
			Expect(env.pool.QueryRow(env.ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)).To(Succeed())
			Expect(n).To(BeZero(), table)
		}

		_, err = env.Accounts.Register(env.ctx, "carol", "carol@example.com", "pw1")
		Expect(err).NotTo(HaveOccurred())
	})

	It("returns the same error for an unknown name and a wrong password", func() {
		register("alice")

		_, errUnknown := env.Accounts.Login(env.ctx, "nobody", "pw-alice")
		_, errWrong := env.Accounts.Login(env.ctx, "alice", "wrong")
		Expect(errUnknown).To(MatchError(account.ErrInvalidCredentials))
		Expect(errWrong).To(MatchError(account.ErrInvalidCredentials))
	})

	It("changes the password", func() {
		register("alice")

		Expect(env.Accounts.ChangePassword(env.ctx, "Alice", "new-password")).To(Succeed())

		_, err := env.Accounts.Login(env.ctx, "alice", "pw-alice")
		Expect(err).To(MatchError(account.ErrInvalidCredentials))
		_, err = env.Accounts.Login(env.ctx, "alice", "new-password")
		Expect(err).NotTo(HaveOccurred())
	})

	It("retrieves usernames by email", func() {
		register("alice")

		found, err := env.Accounts.RetrieveUsername(env.ctx, "ALICE@example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeTrue())

		found, err = env.Accounts.RetrieveUsername(env.ctx, "nobody@example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeFalse())
	})
})
