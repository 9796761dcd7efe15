package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"learnex_quiz/internal/common"
	"learnex_quiz/internal/domain/model"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*model.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*model.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return common.ErrConflict
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) find(match func(*model.User) bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hashed string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.HashedPassword = hashed
	return nil
}

func (r *fakeUserRepo) UpdateSettings(_ context.Context, id int64, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.NotificationsEnabled = enabled
	return nil
}

// fakeTx runs fn without a real transaction.
type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(_ context.Context, fn func(tx *sql.Tx) error) error {
	f.calls++
	return fn(nil)
}

type fakeQuestionRepo struct {
	questions []model.Question
	insertErr error
}

func (r *fakeQuestionRepo) DeleteAll(context.Context, *sql.Tx) error {
	r.questions = nil
	return nil
}

func (r *fakeQuestionRepo) InsertQuestions(_ context.Context, _ *sql.Tx, qs []model.Question) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	for i := range qs {
		qs[i].ID = int64(i + 1)
		qs[i].Position = i
	}
	r.questions = append(r.questions, qs...)
	return nil
}

func (r *fakeQuestionRepo) ListAll(context.Context) ([]model.Question, error) {
	return append([]model.Question{}, r.questions...), nil
}

type fakeAttemptRepo struct {
	attempts   []model.QuizAttempt
	answers    map[int64][]model.QuizAttemptAnswer
	answersErr error
	clock      time.Time
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{answers: map[int64][]model.QuizAttemptAnswer{}, clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (r *fakeAttemptRepo) CreateAttempt(_ context.Context, _ *sql.Tx, a *model.QuizAttempt) error {
	r.clock = r.clock.Add(time.Minute)
	a.ID = int64(len(r.attempts) + 1)
	a.Timestamp = r.clock
	r.attempts = append(r.attempts, *a)
	return nil
}

func (r *fakeAttemptRepo) CreateAnswers(_ context.Context, _ *sql.Tx, attemptID int64, answers []model.QuizAttemptAnswer) error {
	if r.answersErr != nil {
		return r.answersErr
	}
	for i := range answers {
		answers[i].AttemptID = attemptID
		answers[i].Position = i
	}
	r.answers[attemptID] = append([]model.QuizAttemptAnswer{}, answers...)
	return nil
}

func (r *fakeAttemptRepo) ListByUser(_ context.Context, userID int64) ([]model.QuizAttempt, error) {
	out := []model.QuizAttempt{}
	for i := len(r.attempts) - 1; i >= 0; i-- {
		if r.attempts[i].UserID == userID {
			out = append(out, r.attempts[i])
		}
	}
	return out, nil
}

func (r *fakeAttemptRepo) FindByID(_ context.Context, id int64) (*model.QuizAttempt, error) {
	for _, a := range r.attempts {
		if a.ID == id {
			cp := a
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeAttemptRepo) ListAnswers(_ context.Context, attemptID int64) ([]model.QuizAttemptAnswer, error) {
	return append([]model.QuizAttemptAnswer{}, r.answers[attemptID]...), nil
}

type fakeGenerator struct {
	prompts []string
	reply   string
	err     error
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}
