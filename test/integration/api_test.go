// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/tidewater/internal/httpapi"
	"github.com/holomush/tidewater/internal/projection"
)

var _ = Describe("HTTP API", func() {
	var router *gin.Engine

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		var err error
		router, err = httpapi.NewRouter(httpapi.Services{
			Accounts:    env.Accounts,
			Friends:     env.Relationships,
			Projections: env.Projections,
			Players:     env.Players,
		}, httpapi.Options{Logger: env.logger})
		Expect(err).NotTo(HaveOccurred())
	})

	call := func(method, path, token string, body any) *httptest.ResponseRecorder {
		GinkgoHelper()
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	signUp := func(name string) (string, string) {
		GinkgoHelper()
		w := call(http.MethodPost, "/account/register", "", map[string]string{
			"username": name, "email": name + "@example.com", "password": "pw-" + name,
		})
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp httpapi.TokenResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.JWT).NotTo(BeEmpty())

		acct, err := env.Accounts.VerifyToken(env.ctx, resp.JWT)
		Expect(err).NotTo(HaveOccurred())
		return resp.JWT, acct.ID.String()
	}

	It("runs the friend request flow end to end", func() {
		aliceToken, alice := signUp("alice")
		bobToken, bob := signUp("bob")

		w := call(http.MethodPost, "/friend/add_friend_request", aliceToken, map[string]string{
			"user_one": alice, "user_two": bob, "sender_id": alice,
		})
		Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())

		w = call(http.MethodPost, "/friend/add_friend_request", bobToken, map[string]string{
			"user_one": bob, "user_two": alice, "sender_id": bob,
		})
		Expect(w.Code).To(Equal(http.StatusConflict))

		w = call(http.MethodPost, "/friend/handle_request", bobToken, map[string]any{
			"user_one": alice, "user_two": bob, "request_accepted": true,
		})
		Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())

		w = call(http.MethodPost, "/data/retrieve_all_playerdata", aliceToken, map[string]string{"user_id": alice})
		Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())
		var data projection.UserData
		Expect(json.Unmarshal(w.Body.Bytes(), &data)).To(Succeed())
		Expect(data.Name).To(Equal("alice"))
		Expect(data.Friends).To(HaveLen(1))
		Expect(data.FriendRequests).To(BeEmpty())
	})

	It("rejects requests without a valid token", func() {
		w := call(http.MethodGet, "/users", "", nil)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))

		w = call(http.MethodGet, "/users", "not-a-token", nil)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("returns the current user", func() {
		token, _ := signUp("alice")

		w := call(http.MethodGet, "/users", token, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		var user httpapi.UserResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &user)).To(Succeed())
		Expect(user.Name).To(Equal("alice"))
		Expect(user.Email).To(Equal("alice@example.com"))
	})
})
