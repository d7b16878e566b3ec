package user

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unispace-app/unispace-backend/internal/auth"
)

type fakeRepository struct {
	users  map[string]*User
	nextID int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{users: make(map[string]*User)}
}

func (r *fakeRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepository) GetByID(ctx context.Context, id string) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeRepository) Create(ctx context.Context, u *User) error {
	r.nextID++
	u.ID = fmt.Sprintf("user-%d", r.nextID)
	u.CreatedAt = time.Now()
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *fakeRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLoginAt = &t
	return nil
}

func (r *fakeRepository) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	var out []*User
	for _, u := range r.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (r *fakeRepository) Update(ctx context.Context, u *User) error {
	if _, ok := r.users[u.ID]; !ok {
		return ErrNotFound
	}
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *fakeRepository) Delete(ctx context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// Low bcrypt cost keeps the tests fast.
func newTestService() (Service, *fakeRepository) {
	repo := newFakeRepository()
	return NewService(repo, auth.NewBcryptPasswordHasherWithCost(4)), repo
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, _ := newTestService()
		u, err := svc.Register(ctx, RegisterRequest{
			Name:     "Alice",
			Email:    "  Alice@Example.COM ",
			Password: "secret123",
		})
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", u.Email, "email should be normalized")
		assert.Equal(t, RoleUser, u.Role, "role should default to user")
		assert.NotEmpty(t, u.ID)
		assert.NotEqual(t, "secret123", u.PasswordHash)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Register(ctx, RegisterRequest{Name: "Alice", Email: "a@x.com", Password: "secret123"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, RegisterRequest{Name: "Bob", Email: "A@X.com", Password: "secret123"})
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed, "email uniqueness is case-insensitive")
	})

	t.Run("validation", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Register(ctx, RegisterRequest{Name: "  ", Email: "a@x.com", Password: "secret123"})
		assert.ErrorIs(t, err, ErrNameRequired)

		_, err = svc.Register(ctx, RegisterRequest{Name: "Alice", Email: "", Password: "secret123"})
		assert.ErrorIs(t, err, ErrEmailRequired)

		_, err = svc.Register(ctx, RegisterRequest{Name: "Alice", Email: "a@x.com", Password: "short"})
		assert.ErrorIs(t, err, ErrPasswordTooShort)

		_, err = svc.Register(ctx, RegisterRequest{Name: "Alice", Email: "a@x.com", Password: "secret123", Role: Role("root")})
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()

	registered, err := svc.Register(ctx, RegisterRequest{Name: "Alice", Email: "a@x.com", Password: "secret123"})
	require.NoError(t, err)

	t.Run("success records last login", func(t *testing.T) {
		u, err := svc.Login(ctx, "A@X.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)

		stored, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.LastLoginAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "a@x.com", "wrongpass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@x.com", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("empty credentials", func(t *testing.T) {
		_, err := svc.Login(ctx, "", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	alice, err := svc.Register(ctx, RegisterRequest{Name: "Alice", Email: "a@x.com", Password: "secret123"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterRequest{Name: "Bob", Email: "b@x.com", Password: "secret123"})
	require.NoError(t, err)

	t.Run("promote to admin", func(t *testing.T) {
		role := RoleAdmin
		u, err := svc.Update(ctx, alice.ID, UpdateRequest{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, u.Role)
	})

	t.Run("email change to taken address", func(t *testing.T) {
		email := "b@x.com"
		_, err := svc.Update(ctx, alice.ID, UpdateRequest{Email: &email})
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
	})

	t.Run("keeping own email is allowed", func(t *testing.T) {
		email := "a@x.com"
		_, err := svc.Update(ctx, alice.ID, UpdateRequest{Email: &email})
		assert.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		name := "Nobody"
		_, err := svc.Update(ctx, "missing", UpdateRequest{Name: &name})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
