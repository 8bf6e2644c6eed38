// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package integration

import (
	"fmt"
	"sync"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/tidewater/internal/projection"
	"github.com/holomush/tidewater/internal/relationship"
)

var _ = Describe("Relationships", func() {
	It("accepts a request and shows the friendship in the projection", func() {
		u1 := register("alice").ID
		u2 := register("bob").ID

		Expect(env.Relationships.AddFriendRequest(env.ctx, u1, u2, u1)).To(Succeed())

		err := env.Relationships.AddFriendRequest(env.ctx, u2, u1, u2)
		Expect(err).To(MatchError(relationship.ErrDuplicate))

		Expect(env.Relationships.HandleRequest(env.ctx, u1, u2, true)).To(Succeed())

		data, err := env.Projections.RetrieveAll(env.ctx, u1)
		Expect(err).NotTo(HaveOccurred())

		pair, err := relationship.NewPair(u1, u2)
		Expect(err).NotTo(HaveOccurred())
		Expect(data.Friends).To(ConsistOf(projection.Friend{UserOne: pair.Low, UserTwo: pair.High}))
		Expect(data.FriendRequests).To(BeEmpty())

		other, err := env.Projections.RetrieveAll(env.ctx, u2)
		Expect(err).NotTo(HaveOccurred())
		Expect(other.Friends).To(HaveLen(1))
	})

	It("drops a rejected request without creating a friendship", func() {
		u1 := register("alice").ID
		u2 := register("bob").ID

		Expect(env.Relationships.AddFriendRequest(env.ctx, u1, u2, u1)).To(Succeed())

		requests, err := env.Relationships.ListRequests(env.ctx, u2)
		Expect(err).NotTo(HaveOccurred())
		Expect(requests).To(HaveLen(1))
		Expect(requests[0].SenderID).To(Equal(u1))

		Expect(env.Relationships.HandleRequest(env.ctx, u2, u1, false)).To(Succeed())

		friends, err := env.Relationships.ListFriends(env.ctx, u1)
		Expect(err).NotTo(HaveOccurred())
		Expect(friends).To(BeEmpty())

		err = env.Relationships.HandleRequest(env.ctx, u1, u2, true)
		Expect(err).To(MatchError(relationship.ErrNotFound))
	})

	It("rejects a request between users who are already friends", func() {
		u1 := register("alice").ID
		u2 := register("bob").ID

		Expect(env.Relationships.AddFriend(env.ctx, u1, u2)).To(Succeed())
		err := env.Relationships.AddFriendRequest(env.ctx, u2, u1, u2)
		Expect(err).To(MatchError(relationship.ErrDuplicate))

		Expect(env.Relationships.RemoveFriend(env.ctx, u2, u1)).To(Succeed())
		Expect(env.Relationships.RemoveFriend(env.ctx, u1, u2)).To(MatchError(relationship.ErrNotFound))
	})

	It("rejects self pairs", func() {
		u1 := register("alice").ID
		Expect(env.Relationships.AddFriendRequest(env.ctx, u1, u1, u1)).To(MatchError(relationship.ErrSelfPair))
	})

	It("removes a pending request when the friendship is added directly", func() {
		u1 := register("alice").ID
		u2 := register("bob").ID

		Expect(env.Relationships.AddFriendRequest(env.ctx, u1, u2, u1)).To(Succeed())
		Expect(env.Relationships.AddFriend(env.ctx, u2, u1)).To(Succeed())

		requests, err := env.Relationships.ListRequests(env.ctx, u1)
		Expect(err).NotTo(HaveOccurred())
		Expect(requests).To(BeEmpty())
		friends, err := env.Relationships.ListFriends(env.ctx, u1)
		Expect(err).NotTo(HaveOccurred())
		Expect(friends).To(HaveLen(1))
	})

	It("never stores a request next to a friendship when a request races an accept", func() {
		for i := range 20 {
			u1 := register(fmt.Sprintf("racer%da", i)).ID
			u2 := register(fmt.Sprintf("racer%db", i)).ID
			Expect(env.Relationships.AddFriendRequest(env.ctx, u1, u2, u1)).To(Succeed())

			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				Expect(env.Relationships.HandleRequest(env.ctx, u2, u1, true)).To(Succeed())
			}()
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				// Either loses to the pending request or to the new friendship.
				_ = env.Relationships.AddFriendRequest(env.ctx, u2, u1, u2)
			}()
			wg.Wait()

			friends, err := env.Relationships.ListFriends(env.ctx, u1)
			Expect(err).NotTo(HaveOccurred())
			requests, err := env.Relationships.ListRequests(env.ctx, u1)
			Expect(err).NotTo(HaveOccurred())
			Expect(friends).To(HaveLen(1))
			Expect(requests).To(BeEmpty())
		}
	})
})
