package api

import (
	"context"
	"database/sql"
	"sync"

	"learnex_quiz/internal/common"
	"learnex_quiz/internal/domain/model"
)

type memUsers struct {
	mu    sync.Mutex
	users []model.User
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = int64(len(m.users) + 1)
	m.users = append(m.users, *u)
	return nil
}

func (m *memUsers) find(match func(model.User) bool) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			cp := u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return m.find(func(u model.User) bool { return u.Email == email })
}

func (m *memUsers) FindByUsername(_ context.Context, name string) (*model.User, error) {
	return m.find(func(u model.User) bool { return u.Username == name })
}

func (m *memUsers) FindByID(_ context.Context, id int64) (*model.User, error) {
	return m.find(func(u model.User) bool { return u.ID == id })
}

func (m *memUsers) List(context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.User{}, m.users...), nil
}

func (m *memUsers) update(id int64, fn func(*model.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			fn(&m.users[i])
			return nil
		}
	}
	return common.ErrNotFound
}

func (m *memUsers) UpdatePassword(_ context.Context, id int64, hashed string) error {
	return m.update(id, func(u *model.User) { u.HashedPassword = hashed })
}

func (m *memUsers) UpdateSettings(_ context.Context, id int64, enabled bool) error {
	return m.update(id, func(u *model.User) { u.NotificationsEnabled = enabled })
}

type memQuestions struct {
	mu        sync.Mutex
	questions []model.Question
}

func (m *memQuestions) DeleteAll(context.Context, *sql.Tx) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions = nil
	return nil
}

func (m *memQuestions) InsertQuestions(_ context.Context, _ *sql.Tx, qs []model.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range qs {
		qs[i].ID = int64(len(m.questions) + 1)
		m.questions = append(m.questions, qs[i])
	}
	return nil
}

func (m *memQuestions) ListAll(context.Context) ([]model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Question{}, m.questions...), nil
}

type memAttempts struct {
	mu       sync.Mutex
	attempts []model.QuizAttempt
	answers  map[int64][]model.QuizAttemptAnswer
}

func (m *memAttempts) CreateAttempt(_ context.Context, _ *sql.Tx, a *model.QuizAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = int64(len(m.attempts) + 1)
	m.attempts = append(m.attempts, *a)
	return nil
}

func (m *memAttempts) CreateAnswers(_ context.Context, _ *sql.Tx, attemptID int64, answers []model.QuizAttemptAnswer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.answers == nil {
		m.answers = map[int64][]model.QuizAttemptAnswer{}
	}
	m.answers[attemptID] = append([]model.QuizAttemptAnswer{}, answers...)
	return nil
}

func (m *memAttempts) ListByUser(_ context.Context, userID int64) ([]model.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.QuizAttempt{}
	for i := len(m.attempts) - 1; i >= 0; i-- {
		if m.attempts[i].UserID == userID {
			out = append(out, m.attempts[i])
		}
	}
	return out, nil
}

func (m *memAttempts) FindByID(_ context.Context, id int64) (*model.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.attempts {
		if a.ID == id {
			cp := a
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memAttempts) ListAnswers(_ context.Context, attemptID int64) ([]model.QuizAttemptAnswer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.QuizAttemptAnswer{}, m.answers[attemptID]...), nil
}

type passTx struct{}

func (passTx) WithinTx(_ context.Context, fn func(*sql.Tx) error) error { return fn(nil) }

type cannedGenerator struct {
	reply string
	err   error
}

func (g cannedGenerator) Generate(context.Context, string) (string, error) {
	return g.reply, g.err
}
