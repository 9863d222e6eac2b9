package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/vortex-care/internal/store"
)

// UserRepository is the persisted roster.
type UserRepository interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id string) (User, error)
	Update(ctx context.Context, id string, fn func(u *User) error) (User, error)
	Mutate(ctx context.Context, fn func(users *[]User) error) error
}

// SessionRepository is the persisted set of live sessions.
type SessionRepository interface {
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
	Mutate(ctx context.Context, fn func(sessions *[]Session) error) error
}

type Config struct {
	SessionTTL time.Duration
}

type Service struct {
	users    UserRepository
	sessions SessionRepository
	hasher   PasswordHasher
	tokens   *TokenIssuer
	cfg      Config
	log      *slog.Logger
	now      func() time.Time
}

func NewService(users UserRepository, sessions SessionRepository, hasher PasswordHasher, tokens *TokenIssuer, cfg Config, log *slog.Logger) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		tokens:   tokens,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// Login verifies credentials and opens a session. The roster is only written
// (last login) when the credentials are valid and the account is active.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = NormalizeEmail(email)

	users, err := s.users.List(ctx)
	if err != nil {
		return LoginResult{}, err
	}
	u, ok := findByEmail(users, email)
	if !ok || !s.hasher.Verify(u.PasswordHash, password) {
		s.log.Warn("login rejected", slog.String("email", email))
		return LoginResult{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return LoginResult{}, ErrAccountDeactivated
	}

	now := s.now().UTC()
	u, err = s.users.Update(ctx, u.ID, func(rec *User) error {
		rec.LastLogin = &now
		return nil
	})
	if err != nil {
		return LoginResult{}, err
	}
	return s.openSession(ctx, u)
}

// Register creates a patient account and signs it in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (LoginResult, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return LoginResult{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	u := User{
		ID:                uuid.NewString(),
		Email:             NormalizeEmail(in.Email),
		PasswordHash:      hash,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Phone:             in.Phone,
		Role:              RolePatient,
		IsActive:          true,
		LastLogin:         &now,
		PasswordChangedAt: now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.insertUnique(ctx, u); err != nil {
		return LoginResult{}, err
	}
	s.log.Info("user registered", slog.String("user_id", u.ID))
	return s.openSession(ctx, u)
}

// Logout ends the actor's session. Ending an already-ended session is not an error.
func (s *Service) Logout(ctx context.Context, actor Actor) error {
	if actor.SessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, actor.SessionID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

// Authenticate resolves a bearer token to an actor. The role comes from the
// roster, not the token, so role changes apply immediately.
func (s *Service) Authenticate(ctx context.Context, token string) (Actor, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return Actor{}, ErrUnauthenticated
	}
	sess, err := s.sessions.Get(ctx, claims.ID)
	if errors.Is(err, store.ErrNotFound) {
		return Actor{}, ErrUnauthenticated
	}
	if err != nil {
		return Actor{}, err
	}
	if !s.now().Before(sess.ExpiresAt) {
		return Actor{}, ErrUnauthenticated
	}
	u, err := s.users.Get(ctx, sess.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return Actor{}, ErrUnauthenticated
	}
	if err != nil {
		return Actor{}, err
	}
	if !u.IsActive {
		return Actor{}, ErrAccountDeactivated
	}
	return Actor{UserID: u.ID, Email: u.Email, Role: u.Role, SessionID: sess.ID}, nil
}

// Me returns the actor's own record.
func (s *Service) Me(ctx context.Context, actor Actor) (User, error) {
	if !actor.Authenticated() {
		return User{}, ErrUnauthenticated
	}
	return s.users.Get(ctx, actor.UserID)
}

func (s *Service) UpdateProfile(ctx context.Context, actor Actor, p ProfilePatch) (User, error) {
	if !actor.Authenticated() {
		return User{}, ErrUnauthenticated
	}
	now := s.now().UTC()
	return s.users.Update(ctx, actor.UserID, func(u *User) error {
		setString(&u.FirstName, p.FirstName)
		setString(&u.LastName, p.LastName)
		setString(&u.Phone, p.Phone)
		setString(&u.Avatar, p.Avatar)
		u.UpdatedAt = now
		return nil
	})
}

// ChangePassword replaces the actor's password and ends their other sessions.
func (s *Service) ChangePassword(ctx context.Context, actor Actor, current, next string) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	u, err := s.users.Get(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(u.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	if err := s.setPassword(ctx, u.ID, next); err != nil {
		return err
	}
	return s.revokeSessions(ctx, u.ID, actor.SessionID)
}

func (s *Service) ListUsers(ctx context.Context, actor Actor) ([]User, error) {
	if err := actor.Require(CapManageUsers); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

func (s *Service) GetUser(ctx context.Context, actor Actor, id string) (User, error) {
	if err := actor.Require(CapManageUsers); err != nil {
		return User{}, err
	}
	return s.users.Get(ctx, id)
}

// CreateUser adds a back-office or patient account. Accounts created here
// are considered email-verified.
func (s *Service) CreateUser(ctx context.Context, actor Actor, in CreateUserInput) (User, error) {
	if err := actor.Require(CapManageUsers); err != nil {
		return User{}, err
	}
	if err := canAssign(actor, in.Role); err != nil {
		return User{}, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	u := User{
		ID:                uuid.NewString(),
		Email:             NormalizeEmail(in.Email),
		PasswordHash:      hash,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Phone:             in.Phone,
		Role:              in.Role,
		Department:        in.Department,
		Specialization:    in.Specialization,
		IsActive:          in.IsActive,
		IsEmailVerified:   true,
		PasswordChangedAt: now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.insertUnique(ctx, u); err != nil {
		return User{}, err
	}
	s.log.Info("user created",
		slog.String("user_id", u.ID),
		slog.String("role", string(u.Role)),
		slog.String("by", actor.UserID),
	)
	return u, nil
}

func (s *Service) UpdateUserByID(ctx context.Context, actor Actor, id string, p UserPatch) (User, error) {
	if err := actor.Require(CapManageUsers); err != nil {
		return User{}, err
	}
	if p.Role != nil {
		if err := canAssign(actor, *p.Role); err != nil {
			return User{}, err
		}
	}

	var hash string
	if p.Password != nil {
		h, err := s.hasher.Hash(*p.Password)
		if err != nil {
			return User{}, fmt.Errorf("hash password: %w", err)
		}
		hash = h
	}

	now := s.now().UTC()
	var out User
	err := s.users.Mutate(ctx, func(users *[]User) error {
		idx := indexOf(*users, id)
		if idx < 0 {
			return store.ErrNotFound
		}
		u := &(*users)[idx]
		if u.Role == RoleSuperAdmin && actor.Role != RoleSuperAdmin {
			return ErrForbidden
		}
		if p.Email != nil {
			email := NormalizeEmail(*p.Email)
			if other, ok := findByEmail(*users, email); ok && other.ID != id {
				return ErrEmailAlreadyExists
			}
			u.Email = email
		}
		setString(&u.FirstName, p.FirstName)
		setString(&u.LastName, p.LastName)
		setString(&u.Phone, p.Phone)
		setString(&u.Department, p.Department)
		setString(&u.Specialization, p.Specialization)
		if p.Role != nil {
			u.Role = *p.Role
		}
		if p.IsActive != nil {
			u.IsActive = *p.IsActive
		}
		if hash != "" {
			u.PasswordHash = hash
			u.PasswordChangedAt = now
		}
		u.UpdatedAt = now
		out = *u
		return nil
	})
	if err != nil {
		return User{}, err
	}
	if hash != "" || (p.IsActive != nil && !*p.IsActive) {
		if err := s.revokeSessions(ctx, id, ""); err != nil {
			return User{}, err
		}
	}
	return out, nil
}

func (s *Service) DeleteUserByID(ctx context.Context, actor Actor, id string) error {
	if err := actor.Require(CapManageUsers); err != nil {
		return err
	}
	err := s.users.Mutate(ctx, func(users *[]User) error {
		idx := indexOf(*users, id)
		if idx < 0 {
			return store.ErrNotFound
		}
		if (*users)[idx].Role == RoleSuperAdmin && actor.Role != RoleSuperAdmin {
			return ErrForbidden
		}
		*users = append((*users)[:idx:idx], (*users)[idx+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("user deleted", slog.String("user_id", id), slog.String("by", actor.UserID))
	return s.revokeSessions(ctx, id, "")
}

func (s *Service) ResetUserPassword(ctx context.Context, actor Actor, id, password string) error {
	if err := actor.Require(CapManageUsers); err != nil {
		return err
	}
	if err := s.setPassword(ctx, id, password); err != nil {
		return err
	}
	return s.revokeSessions(ctx, id, "")
}

// CountByRole returns the number of accounts per role.
func (s *Service) CountByRole(ctx context.Context, actor Actor) (map[Role]int, error) {
	if err := actor.Require(CapBackOffice); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[Role]int, len(grants))
	for _, u := range users {
		out[u.Role]++
	}
	return out, nil
}

// PruneSessions drops expired sessions and reports how many were removed.
func (s *Service) PruneSessions(ctx context.Context) (int, error) {
	now := s.now()
	removed := 0
	err := s.sessions.Mutate(ctx, func(sessions *[]Session) error {
		kept := (*sessions)[:0:0]
		for _, sess := range *sessions {
			if now.Before(sess.ExpiresAt) {
				kept = append(kept, sess)
			}
		}
		removed = len(*sessions) - len(kept)
		if removed == 0 {
			return errNoChange
		}
		*sessions = kept
		return nil
	})
	if errors.Is(err, errNoChange) {
		return 0, nil
	}
	return removed, err
}

// errNoChange aborts a mutation without writing.
var errNoChange = errors.New("no change")

func (s *Service) openSession(ctx context.Context, u User) (LoginResult, error) {
	now := s.now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	token, err := s.tokens.Issue(u, sess)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	err = s.sessions.Mutate(ctx, func(sessions *[]Session) error {
		*sessions = append(*sessions, sess)
		return nil
	})
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, ExpiresAt: sess.ExpiresAt, User: u, Session: sess}, nil
}

func (s *Service) insertUnique(ctx context.Context, u User) error {
	return s.users.Mutate(ctx, func(users *[]User) error {
		if _, ok := findByEmail(*users, u.Email); ok {
			return ErrEmailAlreadyExists
		}
		*users = append(*users, u)
		return nil
	})
}

func (s *Service) setPassword(ctx context.Context, id, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	now := s.now().UTC()
	_, err = s.users.Update(ctx, id, func(u *User) error {
		u.PasswordHash = hash
		u.PasswordChangedAt = now
		u.UpdatedAt = now
		return nil
	})
	return err
}

// revokeSessions ends every session of userID except keep.
func (s *Service) revokeSessions(ctx context.Context, userID, keep string) error {
	err := s.sessions.Mutate(ctx, func(sessions *[]Session) error {
		kept := (*sessions)[:0:0]
		for _, sess := range *sessions {
			if sess.UserID != userID || sess.ID == keep {
				kept = append(kept, sess)
			}
		}
		if len(kept) == len(*sessions) {
			return errNoChange
		}
		*sessions = kept
		return nil
	})
	if errors.Is(err, errNoChange) {
		return nil
	}
	return err
}

// canAssign stops admins from minting or editing super admins.
func canAssign(actor Actor, role Role) error {
	if _, ok := grants[role]; !ok {
		return ErrInvalidRole
	}
	if role == RoleSuperAdmin && actor.Role != RoleSuperAdmin {
		return ErrForbidden
	}
	return nil
}

func findByEmail(users []User, email string) (User, bool) {
	for _, u := range users {
		if NormalizeEmail(u.Email) == email {
			return u, true
		}
	}
	return User{}, false
}

func indexOf(users []User, id string) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
