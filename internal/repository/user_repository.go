package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iliyamo/user-directory-api/internal/model"
	"github.com/iliyamo/user-directory-api/internal/utils"
)

// UserRepo is the in-memory user directory.  It owns its maps and id
// counter and is handed by reference to handlers and middleware, so tests
// get isolation by constructing a fresh instance instead of resetting
// shared state.
//
// Concurrency: the RWMutex gives atomic per-key put semantics and lets
// concurrent readers proceed without blocking each other.  The id counter
// is a separate atomic so two concurrent creates can never receive the
// same id even while racing for the lock.
type UserRepo struct {
	mu      sync.RWMutex
	byID    map[uint64]*model.User
	byName  map[string]uint64 // exact username -> id, used for login lookups
	byLower map[string]uint64 // lowercased username -> id, used for uniqueness only
	nextID  atomic.Uint64
}

// NewUserRepo returns an empty directory.
func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[uint64]*model.User),
		byName:  make(map[string]uint64),
		byLower: make(map[string]uint64),
	}
}

// Create hashes the password, assigns the next id and stores the user.
// Defaults are filled in the same way for every caller: empty role set
// becomes {USER}, empty status becomes ACTIVE, zero CreatedAt becomes now.
// Returns ErrUsernameExists when the username is already taken, compared
// case-insensitively so "Admin" cannot shadow "admin".
func (r *UserRepo) Create(ctx context.Context, u model.User, password string, cost int) (uint64, error) {
	u.Username = strings.TrimSpace(u.Username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	u.PasswordHash = hash
	if len(u.Roles) == 0 {
		u.Roles = []string{model.RoleUser}
	}
	if u.Status == "" {
		u.Status = model.StatusActive
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byLower[strings.ToLower(u.Username)]; taken {
		return 0, ErrUsernameExists
	}
	u.ID = r.nextID.Add(1)
	stored := u.Clone()
	r.byID[u.ID] = &stored
	r.byName[u.Username] = u.ID
	r.byLower[strings.ToLower(u.Username)] = u.ID
	return u.ID, nil
}

// GetByUsername fetches a user by exact username match.  Login goes
// through here, so "Admin" and "admin" are distinct keys even though both
// cannot be registered.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[username]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return r.byID[id].Clone(), nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return u.Clone(), nil
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) []model.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Update replaces the mutable fields of an existing user: email, display
// names, roles and status.  Username, password hash and timestamps are
// not touched here.  The put is atomic; a concurrent reader sees either
// the old or the new record, never a mix.
func (r *UserRepo) Update(ctx context.Context, id uint64, in model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	next := u.Clone()
	next.Email = in.Email
	next.FirstName = in.FirstName
	next.LastName = in.LastName
	if len(in.Roles) > 0 {
		next.Roles = append([]string(nil), in.Roles...)
	}
	if in.Status != "" {
		next.Status = in.Status
	}
	r.byID[id] = &next
	return next.Clone(), nil
}

// Delete removes a user and its username index entries.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	delete(r.byID, id)
	delete(r.byName, u.Username)
	delete(r.byLower, strings.ToLower(u.Username))
	return nil
}

// Authenticate is the credential verifier: it looks the user up by exact
// username and compares the plaintext against the stored bcrypt hash.
// Both "user not found" and "wrong password" collapse to the same false
// result so a caller cannot tell which one failed.  On success the user's
// last-login timestamp is stamped and the user is returned.
func (r *UserRepo) Authenticate(ctx context.Context, username, password string) (model.User, bool) {
	u, err := r.GetByUsername(ctx, username)
	if err != nil {
		return model.User{}, false
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, false
	}

	now := time.Now().UTC()
	r.mu.Lock()
	if cur, ok := r.byID[u.ID]; ok {
		next := cur.Clone()
		next.LastLogin = &now
		r.byID[u.ID] = &next
	}
	r.mu.Unlock()

	u.LastLogin = &now
	return u, true
}

// Seed loads the default development users so a fresh instance is usable
// right away.  Errors are ignored on purpose: seeding an already-seeded
// directory is a no-op.
func (r *UserRepo) Seed(ctx context.Context, cost int) {
	defaults := []struct {
		user     model.User
		password string
	}{
		{
			user: model.User{
				Username:  "admin",
				Email:     "admin@example.com",
				FirstName: "Admin",
				LastName:  "User",
				Roles:     []string{model.RoleUser, model.RoleAdmin},
			},
			password: "admin123",
		},
		{
			user: model.User{
				Username:  "user",
				Email:     "user@example.com",
				FirstName: "Regular",
				LastName:  "User",
				Roles:     []string{model.RoleUser},
			},
			password: "user123",
		},
		{
			user: model.User{
				Username:  "test",
				Email:     "test@example.com",
				FirstName: "Test",
				LastName:  "User",
				Roles:     []string{model.RoleUser},
			},
			password: "test123",
		},
	}
	for _, d := range defaults {
		_, _ = r.Create(ctx, d.user, d.password, cost)
	}
}
