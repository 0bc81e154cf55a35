package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk-admin/internal/auth"
	"github.com/spec-kit/helpdesk-admin/internal/domain"
	"github.com/spec-kit/helpdesk-admin/internal/events"
	"github.com/spec-kit/helpdesk-admin/internal/persistence"
	apperrors "github.com/spec-kit/helpdesk-admin/pkg/util"
)

// schemaVersion tags persisted snapshots; a mismatch on load discards the
// snapshot and falls back to seed data.
const schemaVersion = 2

// Store is the single mutable owner of users, departments, tickets, and the
// current session. Every state transition goes through it, and every
// mutation persists a full snapshot to the configured slot.
type Store struct {
	mu         sync.RWMutex
	logger     *zap.Logger
	snapshots  persistence.SnapshotStore
	dispatcher events.Dispatcher
	bcryptCost int

	session         *domain.User
	users           []domain.User
	departments     []domain.Department
	tickets         []domain.Ticket
	companySections []string
	sources         []string
}

// Dependencies bundles collaborators for the store.
type Dependencies struct {
	Snapshots  persistence.SnapshotStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	BcryptCost int
}

type snapshot struct {
	SchemaVersion int                 `json:"schema_version"`
	Session       *domain.User        `json:"session,omitempty"`
	Users         []domain.User       `json:"users"`
	Departments   []domain.Department `json:"departments"`
	Tickets       []domain.Ticket     `json:"tickets"`
}

// New constructs a store, rehydrating from the snapshot slot when a
// version-matching snapshot exists and seeding otherwise.
func New(ctx context.Context, deps Dependencies) (*Store, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cost := deps.BcryptCost
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}

	s := &Store{
		logger:          logger,
		snapshots:       deps.Snapshots,
		dispatcher:      deps.Dispatcher,
		bcryptCost:      cost,
		companySections: seedCompanySections(),
		sources:         seedSources(),
	}

	if err := s.rehydrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) rehydrate(ctx context.Context) error {
	if s.snapshots != nil {
		data, err := s.snapshots.Load(ctx)
		switch {
		case err == nil:
			var snap snapshot
			if jsonErr := json.Unmarshal(data, &snap); jsonErr == nil && snap.SchemaVersion == schemaVersion {
				s.session = snap.Session
				s.users = snap.Users
				s.departments = snap.Departments
				s.tickets = snap.Tickets
				s.logger.Info("store rehydrated from snapshot",
					zap.Int("users", len(s.users)),
					zap.Int("departments", len(s.departments)),
					zap.Int("tickets", len(s.tickets)))
				return nil
			}
			s.logger.Warn("snapshot unreadable or version mismatch; seeding")
		case errors.Is(err, persistence.ErrNoSnapshot):
			s.logger.Info("no snapshot stored; seeding")
		default:
			return err
		}
	}

	if err := s.seed(); err != nil {
		return err
	}
	s.logger.Info("store seeded",
		zap.Int("users", len(s.users)),
		zap.Int("departments", len(s.departments)),
		zap.Int("tickets", len(s.tickets)))
	return nil
}

func (s *Store) seed() error {
	users, err := seedUsers(s.bcryptCost)
	if err != nil {
		return err
	}
	s.session = nil
	s.users = users
	s.departments = seedDepartments()
	s.tickets = seedTickets()
	return nil
}

// persist serializes the full state to the snapshot slot. Called with the
// write lock held, after the in-memory mutation has been applied; failures
// are logged rather than unwinding the mutation.
func (s *Store) persist(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	snap := snapshot{
		SchemaVersion: schemaVersion,
		Session:       s.session,
		Users:         s.users,
		Departments:   s.departments,
		Tickets:       s.tickets,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error("snapshot marshal failed", zap.Error(err))
		return
	}
	if err := s.snapshots.Save(ctx, data); err != nil {
		s.logger.Error("snapshot save failed", zap.Error(err))
	}
}

// Login authenticates by exact email match and bcrypt password comparison.
// On success the session is set to the matched user; on failure the session
// is left untouched.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].Email != email {
			continue
		}
		if err := auth.ComparePassword(s.users[i].PasswordHash, password); err != nil {
			return nil, apperrors.NewInvalidCredentials()
		}
		user := s.users[i]
		s.session = &user
		s.persist(ctx)
		s.logger.Info("login", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
		copied := user
		return &copied, nil
	}
	return nil, apperrors.NewInvalidCredentials()
}

// Logout clears the session unconditionally.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	s.persist(ctx)
}

// SetUser sets the session to the identified user.
func (s *Store) SetUser(ctx context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.userIndex(id)
	if idx < 0 {
		return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	user := s.users[idx]
	s.session = &user
	s.persist(ctx)
	copied := user
	return &copied, nil
}

// CurrentUser returns the session user, or nil when unauthenticated.
func (s *Store) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

// Reset discards persisted state and the session, restoring seed records.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshots != nil {
		if err := s.snapshots.Clear(ctx); err != nil {
			return err
		}
	}
	if err := s.seed(); err != nil {
		return err
	}
	s.persist(ctx)
	s.logger.Info("store reset to seed data")
	return nil
}

// CompanySections lists the selectable company sections for ticket forms.
func (s *Store) CompanySections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.companySections...)
}

// Sources lists the selectable ticket source channels.
func (s *Store) Sources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.sources...)
}

func (s *Store) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func (s *Store) sessionActor() events.Actor {
	if s.session == nil {
		return events.Actor{}
	}
	return events.Actor{UserID: s.session.ID, Name: s.session.Name}
}
