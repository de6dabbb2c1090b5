package user_test

import (
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/cirruslabs-it/asset-inventory/internal"
	"github.com/cirruslabs-it/asset-inventory/internal/user"
)

type mockUserRepository struct {
	users  map[int64]*user.User
	nextID int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:  make(map[int64]*user.User),
		nextID: 1,
	}
}

func (m *mockUserRepository) GetByID(id int64) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetByEmail(email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, internal.ErrUserNotFound
}

func (m *mockUserRepository) List() ([]*user.User, error) {
	var out []*user.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepository) Create(u *user.User) error {
	u.ID = m.nextID
	m.nextID++
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) Update(id int64, fields map[string]interface{}) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	if v, ok := fields["name"].(string); ok {
		u.Name = v
	}
	if v, ok := fields["email"].(string); ok {
		u.Email = v
	}
	if v, ok := fields["role"].(string); ok {
		u.Role = v
	}
	if v, ok := fields["password_hash"].(string); ok {
		u.PasswordHash = v
	}
	return u, nil
}

func (m *mockUserRepository) Delete(id int64) error {
	if _, ok := m.users[id]; !ok {
		return internal.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepository) GetCredentials(email string) (int64, string, string, error) {
	u, err := m.GetByEmail(email)
	if err != nil {
		return 0, "", "", err
	}
	return u.ID, u.PasswordHash, u.Role, nil
}

func (m *mockUserRepository) UpdatePassword(email, passwordHash string) error {
	u, err := m.GetByEmail(email)
	if err != nil {
		return err
	}
	u.PasswordHash = passwordHash
	return nil
}

var _ = Describe("UserService", func() {
	var (
		service *user.Service
		repo    *mockUserRepository
	)

	BeforeEach(func() {
		repo = newMockUserRepository()
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(repo, bcrypt.MinCost, lg)
	})

	Describe("Create", func() {
		It("hashes the password and defaults the role to Viewer", func() {
			created, err := service.Create(user.CreateUserDTO{
				Name:     "Jordan Lee",
				Email:    "jordan.lee@example.com",
				Password: "secret123",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Role).To(Equal(user.RoleViewer))
			Expect(created.PasswordHash).NotTo(Equal("secret123"))
			Expect(bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret123"))).To(Succeed())
		})

		It("rejects a duplicate email", func() {
			_, err := service.Create(user.CreateUserDTO{
				Name:     "Jordan Lee",
				Email:    "jordan.lee@example.com",
				Password: "secret123",
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(user.CreateUserDTO{
				Name:     "Other Jordan",
				Email:    "jordan.lee@example.com",
				Password: "secret456",
			})
			Expect(err).To(Equal(internal.ErrUserExists))
		})

		It("rejects an invalid role", func() {
			_, err := service.Create(user.CreateUserDTO{
				Name:     "Jordan Lee",
				Email:    "jordan.lee@example.com",
				Password: "secret123",
				Role:     "Superuser",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Update", func() {
		It("re-hashes only when a new password is submitted", func() {
			created, err := service.Create(user.CreateUserDTO{
				Name:     "Jordan Lee",
				Email:    "jordan.lee@example.com",
				Password: "secret123",
			})
			Expect(err).NotTo(HaveOccurred())
			oldHash := created.PasswordHash

			name := "Jordan A. Lee"
			_, err = service.Update(created.ID, user.UpdateUserDTO{Name: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.users[created.ID].PasswordHash).To(Equal(oldHash))

			newPassword := "rotated456"
			_, err = service.Update(created.ID, user.UpdateUserDTO{Password: &newPassword})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.users[created.ID].PasswordHash).NotTo(Equal(oldHash))
		})
	})

	Describe("Delete", func() {
		It("refuses to delete the acting principal's own account", func() {
			Expect(service.Delete(5, 5)).To(Equal(internal.ErrSelfDelete))
		})

		It("deletes another account", func() {
			created, err := service.Create(user.CreateUserDTO{
				Name:     "Jordan Lee",
				Email:    "jordan.lee@example.com",
				Password: "secret123",
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(created.ID, 99)).To(Succeed())
			_, err = repo.GetByID(created.ID)
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})
	})
})
