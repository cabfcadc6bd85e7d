// Package memory is an in-process store implementing the repository
// contracts. A single mutex is held for the whole unit of work; writes go to a
// cloned state that replaces the live one only when the unit succeeds.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ishita-lives/schedulr/internal/model"
	"github.com/ishita-lives/schedulr/internal/repository"
)

type state struct {
	classes     map[uuid.UUID]model.ClassSlot
	enrollments map[uuid.UUID]model.Enrollment
	changes     map[uuid.UUID]model.ChangeRequest
	students    map[uuid.UUID]model.Student
	guardians   map[uuid.UUID]model.Guardian
	teachers    map[uuid.UUID]model.Teacher
	accounts    map[int64]model.Account
}

func newState() *state {
	return &state{
		classes:     make(map[uuid.UUID]model.ClassSlot),
		enrollments: make(map[uuid.UUID]model.Enrollment),
		changes:     make(map[uuid.UUID]model.ChangeRequest),
		students:    make(map[uuid.UUID]model.Student),
		guardians:   make(map[uuid.UUID]model.Guardian),
		teachers:    make(map[uuid.UUID]model.Teacher),
		accounts:    make(map[int64]model.Account),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.classes {
		c.classes[k] = v
	}
	for k, v := range s.enrollments {
		v.Student, v.Class = nil, nil
		c.enrollments[k] = v
	}
	for k, v := range s.changes {
		v.DecidedBy = clonePtr(v.DecidedBy)
		v.DecidedAt = clonePtr(v.DecidedAt)
		c.changes[k] = v
	}
	for k, v := range s.students {
		c.students[k] = v
	}
	for k, v := range s.guardians {
		v.TelegramID = clonePtr(v.TelegramID)
		c.guardians[k] = v
	}
	for k, v := range s.teachers {
		v.TelegramID = clonePtr(v.TelegramID)
		c.teachers[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Store is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

var _ repository.TxManager = (*Store)(nil)

// WithTx runs fn against a private copy of the data and publishes the copy
// only if fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.state.clone()
	if err := fn(ctx, reposFor(work)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.state = work
	return nil
}

// ReadOnly runs fn against a copy that is thrown away afterwards.
func (s *Store) ReadOnly(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	return fn(ctx, reposFor(s.state.clone()))
}

// Accounts returns an AccountRepository backed by the store.
func (s *Store) Accounts() repository.AccountRepository {
	return &accountRepo{store: s}
}

func reposFor(st *state) repository.Repos {
	return repository.Repos{
		Classes:     &classRepo{st: st},
		Enrollments: &enrollmentRepo{st: st},
		Changes:     &changeRepo{st: st},
		Roster:      &rosterRepo{st: st},
	}
}

// The Add* helpers seed roster data, which the scheduler itself never writes.

func (s *Store) AddGuardian(g model.Guardian) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.TelegramID = clonePtr(g.TelegramID)
	s.state.guardians[g.ID] = g
}

func (s *Store) AddStudent(st model.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.students[st.ID] = st
}

// RemoveStudent mirrors the roster delete in Postgres: the student's
// enrollments go with them and their pending requests are cancelled with no
// deciding user.
func (s *Store) RemoveStudent(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.state.students, id)
	for eid, e := range s.state.enrollments {
		if e.StudentID == id {
			delete(s.state.enrollments, eid)
		}
	}

	now := time.Now().UTC()
	for rid, req := range s.state.changes {
		if req.StudentID == id && req.Status == model.ChangeStatusPending {
			req.Status = model.ChangeStatusCancelled
			req.DecidedBy = nil
			req.DecidedAt = &now
			s.state.changes[rid] = req
		}
	}
}

func (s *Store) AddTeacher(t model.Teacher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.TelegramID = clonePtr(t.TelegramID)
	s.state.teachers[t.ID] = t
}

func (s *Store) AddAccount(a model.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.accounts[a.TelegramID] = a
}

type accountRepo struct {
	store *Store
}

func (r *accountRepo) GetByTelegramID(_ context.Context, telegramID int64) (*model.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	acc, ok := r.store.state.accounts[telegramID]
	if !ok {
		return nil, nil
	}
	return &acc, nil
}
