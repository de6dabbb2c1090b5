package auth

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cirruslabs-it/asset-inventory/internal"
)

var _ = Describe("ResetTokenStore", func() {
	var (
		store   *ResetTokenStore
		fakeNow time.Time
	)

	BeforeEach(func() {
		fakeNow = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
		store = NewResetTokenStore(time.Hour)
		store.now = func() time.Time { return fakeNow }
	})

	AfterEach(func() {
		store.Stop()
	})

	It("issues unique opaque tokens", func() {
		a, err := store.Create("jordan.lee@example.com")
		Expect(err).NotTo(HaveOccurred())
		b, err := store.Create("jordan.lee@example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(a).NotTo(Equal(b))
		Expect(a).To(HaveLen(64))
	})

	It("consumes a valid token exactly once", func() {
		token, err := store.Create("jordan.lee@example.com")
		Expect(err).NotTo(HaveOccurred())

		Expect(store.Consume(token, "jordan.lee@example.com")).To(Succeed())
		Expect(store.Consume(token, "jordan.lee@example.com")).To(Equal(internal.ErrResetTokenInvalid))
	})

	It("rejects an unknown token", func() {
		Expect(store.Consume("deadbeef", "jordan.lee@example.com")).To(Equal(internal.ErrResetTokenInvalid))
	})

	It("rejects and deletes an expired token", func() {
		token, err := store.Create("jordan.lee@example.com")
		Expect(err).NotTo(HaveOccurred())

		fakeNow = fakeNow.Add(time.Hour + time.Minute)
		Expect(store.Consume(token, "jordan.lee@example.com")).To(Equal(internal.ErrResetTokenExpired))
		Expect(store.Len()).To(BeZero())
	})

	It("keeps a token that was tried with the wrong email", func() {
		token, err := store.Create("jordan.lee@example.com")
		Expect(err).NotTo(HaveOccurred())

		Expect(store.Consume(token, "someone.else@example.com")).To(Equal(internal.ErrResetTokenMismatch))
		Expect(store.Consume(token, "jordan.lee@example.com")).To(Succeed())
	})

	It("evicts expired entries during cleanup", func() {
		_, err := store.Create("jordan.lee@example.com")
		Expect(err).NotTo(HaveOccurred())
		_, err = store.Create("riley.chen@example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Len()).To(Equal(2))

		fakeNow = fakeNow.Add(2 * time.Hour)
		store.evictExpired()
		Expect(store.Len()).To(BeZero())
	})
})
