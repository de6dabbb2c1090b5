package auth_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/cirruslabs-it/asset-inventory/internal"
	"github.com/cirruslabs-it/asset-inventory/internal/auth"
)

type mockCredentialStore struct {
	users     map[string]string // email -> password hash
	roles     map[string]string
	updated   map[string]string
	updateErr error
}

func newMockCredentialStore() *mockCredentialStore {
	return &mockCredentialStore{
		users:   make(map[string]string),
		roles:   make(map[string]string),
		updated: make(map[string]string),
	}
}

func (m *mockCredentialStore) addUser(email, password, role string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	m.users[email] = string(hash)
	m.roles[email] = role
}

func (m *mockCredentialStore) GetCredentials(email string) (int64, string, string, error) {
	hash, ok := m.users[email]
	if !ok {
		return 0, "", "", internal.ErrUserNotFound
	}
	return 1, hash, m.roles[email], nil
}

func (m *mockCredentialStore) UpdatePassword(email, passwordHash string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated[email] = passwordHash
	return nil
}

type mockResetMailer struct {
	sentLinks []string
	sentTo    []string
	sendErr   error
}

func (m *mockResetMailer) SendPasswordReset(_ context.Context, email, resetLink string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sentTo = append(m.sentTo, email)
	m.sentLinks = append(m.sentLinks, resetLink)
	return nil
}

var _ = Describe("AuthService", func() {
	var (
		service *auth.Service
		store   *mockCredentialStore
		tokens  *auth.ResetTokenStore
		mailer  *mockResetMailer
	)

	BeforeEach(func() {
		store = newMockCredentialStore()
		store.addUser("admin@example.com", "password123", "Admin")
		tokens = auth.NewResetTokenStore(time.Hour)
		mailer = &mockResetMailer{}
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		tokenGen := auth.NewJWTTokenGenerator("test-secret", 2*time.Hour)
		service = auth.NewService(store, tokenGen, tokens, mailer, "http://localhost:3000", bcrypt.MinCost, lg)
	})

	AfterEach(func() {
		tokens.Stop()
	})

	Describe("Authenticate", func() {
		It("returns a token and profile for valid credentials", func() {
			resp, err := service.Authenticate(auth.LoginDTO{
				Email:    "admin@example.com",
				Password: "password123",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Token).NotTo(BeEmpty())
			Expect(resp.User.Email).To(Equal("admin@example.com"))
			Expect(resp.User.Role).To(Equal("Admin"))

			claims, err := service.ValidateToken(resp.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Email).To(Equal("admin@example.com"))
			Expect(claims.Role).To(Equal("Admin"))
		})

		It("rejects a wrong password with the generic credentials error", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "admin@example.com",
				Password: "wrong",
			})
			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})

		It("rejects an unknown email with the same generic error", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "nobody@example.com",
				Password: "password123",
			})
			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})
	})

	Describe("ValidateToken", func() {
		It("rejects garbage tokens", func() {
			_, err := service.ValidateToken("not.a.token")
			Expect(err).To(Equal(internal.ErrInvalidToken))
		})

		It("rejects tokens signed with a different secret", func() {
			other := auth.NewJWTTokenGenerator("other-secret", time.Hour)
			token, err := other.GenerateToken(1, "admin@example.com", "Admin")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateToken(token)
			Expect(err).To(Equal(internal.ErrInvalidToken))
		})

		It("rejects expired tokens", func() {
			expired := auth.NewJWTTokenGenerator("test-secret", -time.Minute)
			token, err := expired.GenerateToken(1, "admin@example.com", "Admin")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateToken(token)
			Expect(err).To(Equal(internal.ErrInvalidToken))
		})
	})

	Describe("ForgotPassword", func() {
		It("mails a reset link carrying the token and email", func() {
			err := service.ForgotPassword(context.Background(), auth.ForgotPasswordDTO{
				Email: "admin@example.com",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(mailer.sentTo).To(Equal([]string{"admin@example.com"}))
			Expect(mailer.sentLinks[0]).To(HavePrefix("http://localhost:3000/reset-password?token="))
			Expect(mailer.sentLinks[0]).To(ContainSubstring("email=admin%40example.com"))
		})

		It("reports unknown emails as not found", func() {
			err := service.ForgotPassword(context.Background(), auth.ForgotPasswordDTO{
				Email: "nobody@example.com",
			})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})

		It("surfaces mail delivery failure as an internal error", func() {
			mailer.sendErr = internal.NewInternalError("smtp down", nil)
			err := service.ForgotPassword(context.Background(), auth.ForgotPasswordDTO{
				Email: "admin@example.com",
			})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
		})
	})

	Describe("ResetPassword", func() {
		requestReset := func() string {
			err := service.ForgotPassword(context.Background(), auth.ForgotPasswordDTO{
				Email: "admin@example.com",
			})
			Expect(err).NotTo(HaveOccurred())

			link := mailer.sentLinks[len(mailer.sentLinks)-1]
			// link shape: .../reset-password?token=<hex>&email=...
			start := len("http://localhost:3000/reset-password?token=")
			return link[start : start+64]
		}

		It("updates the password for a valid token", func() {
			token := requestReset()

			err := service.ResetPassword(context.Background(), auth.ResetPasswordDTO{
				Email:       "admin@example.com",
				Token:       token,
				NewPassword: "newpassword456",
			})
			Expect(err).NotTo(HaveOccurred())

			hash := store.updated["admin@example.com"]
			Expect(hash).NotTo(BeEmpty())
			Expect(bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpassword456"))).To(Succeed())
		})

		It("rejects reuse of a consumed token", func() {
			token := requestReset()

			dto := auth.ResetPasswordDTO{
				Email:       "admin@example.com",
				Token:       token,
				NewPassword: "newpassword456",
			}
			Expect(service.ResetPassword(context.Background(), dto)).To(Succeed())
			Expect(service.ResetPassword(context.Background(), dto)).To(Equal(internal.ErrResetTokenInvalid))
		})

		It("rejects a token submitted with a different email", func() {
			token := requestReset()
			store.addUser("riley.chen@example.com", "abc12345", "Viewer")

			err := service.ResetPassword(context.Background(), auth.ResetPasswordDTO{
				Email:       "riley.chen@example.com",
				Token:       token,
				NewPassword: "newpassword456",
			})
			Expect(err).To(Equal(internal.ErrResetTokenMismatch))
		})
	})
})
