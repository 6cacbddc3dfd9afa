package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"viducate/internal/domain"
	"viducate/internal/gamification"
	"viducate/internal/http/handlers"
	"viducate/internal/http/httpapi"
	"viducate/internal/middleware"
	"viducate/internal/providers/did"
	"viducate/internal/quiz"
	"viducate/internal/video"
)

const testSecret = "test-secret"

type memUsers struct {
	users map[string]*domain.User
}

func (m *memUsers) UpsertBySubject(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range m.users {
		if existing.Subject == u.Subject {
			existing.Email = u.Email
			existing.Name = u.Name
			return existing, nil
		}
	}
	if u.Level == 0 {
		u.Level = 1
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetBySubject(_ context.Context, subject string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Subject == subject {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) AddPoints(_ context.Context, id string, delta int) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Points += delta
	u.Level = domain.LevelForPoints(u.Points)
	return u, nil
}

func (m *memUsers) ListTopByPoints(_ context.Context, limit int) ([]domain.User, error) {
	var out []domain.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Points > out[j-1].Points; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memVideos struct {
	videos map[int64]*domain.VideoRequest
	nextID int64
}

func (m *memVideos) Create(_ context.Context, v *domain.VideoRequest) (int64, error) {
	id := m.nextID
	m.nextID++
	stored := *v
	stored.ID = id
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.videos[id] = &stored
	return id, nil
}

func (m *memVideos) GetByID(_ context.Context, id int64) (*domain.VideoRequest, error) {
	v, ok := m.videos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *memVideos) Update(_ context.Context, id int64, up domain.VideoUpdate) (*domain.VideoRequest, error) {
	v, ok := m.videos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if up.Status != nil {
		v.Status = *up.Status
	}
	if up.TalkID != nil {
		v.TalkID = *up.TalkID
	}
	if up.VideoURL != nil {
		v.VideoURL = *up.VideoURL
	}
	cp := *v
	return &cp, nil
}

func (m *memVideos) ListByAuthor(_ context.Context, authorID string) ([]domain.VideoRequest, error) {
	var out []domain.VideoRequest
	for _, v := range m.videos {
		if v.AuthorID == authorID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *memVideos) Delete(_ context.Context, id int64) error {
	if _, ok := m.videos[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.videos, id)
	return nil
}

func (m *memVideos) CountByAuthorAndStatus(_ context.Context, authorID string, status domain.VideoStatus) (int, error) {
	n := 0
	for _, v := range m.videos {
		if v.AuthorID == authorID && v.Status == status {
			n++
		}
	}
	return n, nil
}

type memQuizzes struct {
	quizzes  map[int64]*domain.Quiz
	attempts []domain.QuizAttempt
	nextID   int64
}

func (m *memQuizzes) Create(_ context.Context, q *domain.Quiz) (int64, error) {
	id := m.nextID
	m.nextID++
	stored := *q
	stored.ID = id
	m.quizzes[id] = &stored
	return id, nil
}

func (m *memQuizzes) GetByID(_ context.Context, id int64) (*domain.Quiz, error) {
	q, ok := m.quizzes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *q
	cp.Questions = append([]domain.Question(nil), q.Questions...)
	return &cp, nil
}

func (m *memQuizzes) SaveAttempt(_ context.Context, a *domain.QuizAttempt) (int64, error) {
	m.attempts = append(m.attempts, *a)
	return int64(len(m.attempts)), nil
}

func (m *memQuizzes) CountAttemptsByUser(_ context.Context, userID string) (int, error) {
	n := 0
	for _, a := range m.attempts {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *memQuizzes) AverageScoreByUser(_ context.Context, userID string) (int, error) {
	sum, n := 0, 0
	for _, a := range m.attempts {
		if a.UserID == userID {
			sum += a.ScorePercent()
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / n, nil
}

type memBadges struct {
	awarded map[string][]domain.Badge
}

func (m *memBadges) Award(_ context.Context, userID string, badge domain.Badge) error {
	for _, b := range m.awarded[userID] {
		if b.Code == badge.Code {
			return nil
		}
	}
	badge.EarnedAt = time.Now()
	m.awarded[userID] = append(m.awarded[userID], badge)
	return nil
}

func (m *memBadges) ListByUser(_ context.Context, userID string) ([]domain.Badge, error) {
	return m.awarded[userID], nil
}

type memContacts struct {
	contacts []domain.Contact
}

func (m *memContacts) Create(_ context.Context, c *domain.Contact) (int64, error) {
	m.contacts = append(m.contacts, *c)
	return int64(len(m.contacts)), nil
}

type scriptedTalks struct {
	createTalk did.Talk
	createErr  error
	getTalk    did.Talk
	getErr     error
	getCalls   int
}

func (s *scriptedTalks) CreateTalk(_ context.Context, _ did.TalkRequest) (*did.Talk, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	t := s.createTalk
	return &t, nil
}

func (s *scriptedTalks) GetTalk(_ context.Context, _ string) (*did.Talk, error) {
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	t := s.getTalk
	return &t, nil
}

type testEnv struct {
	app      *handlers.App
	server   http.Handler
	users    *memUsers
	videos   *memVideos
	quizzes  *memQuizzes
	badges   *memBadges
	contacts *memContacts
	talks    *scriptedTalks
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := &memUsers{users: map[string]*domain.User{
		"u1": {ID: "u1", Subject: "google-sub-1", Email: "ada@example.com", Name: "Ada", Level: 1},
		"u2": {ID: "u2", Subject: "google-sub-2", Email: "grace@example.com", Name: "Grace", Level: 1},
	}}
	videos := &memVideos{videos: map[int64]*domain.VideoRequest{}, nextID: 1}
	quizzes := &memQuizzes{quizzes: map[int64]*domain.Quiz{}, nextID: 1}
	badges := &memBadges{awarded: map[string][]domain.Badge{}}
	contacts := &memContacts{}
	talks := &scriptedTalks{createTalk: did.Talk{ID: "tlk_1", Status: "created"}}

	logger := zerolog.Nop()
	game := gamification.NewService(users, videos, quizzes, badges, logger)
	videoSvc := video.NewService(videos, talks, game, logger)
	quizSvc := quiz.NewService(quizzes, videos, nil, game, logger)

	app := handlers.NewApp()
	app.Logger = logger
	app.JWTSecret = testSecret
	app.Users = users
	app.VideoRepo = videos
	app.QuizRepo = quizzes
	app.Contacts = contacts
	app.Videos = videoSvc
	app.Quizzes = quizSvc
	app.Gamification = game

	server := httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:       testSecret,
		RateLimitPerMin: 10000,
		FallbackLang:    "en",
	})

	return &testEnv{
		app:      app,
		server:   server,
		users:    users,
		videos:   videos,
		quizzes:  quizzes,
		badges:   badges,
		contacts: contacts,
		talks:    talks,
	}
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := middleware.SignJWT(testSecret, middleware.TokenClaims{
		Sub:      userID,
		Exp:      time.Now().Add(time.Hour).Unix(),
		Issuer:   "viducate",
		Audience: "viducate-clients",
	})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, jsonBody(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}
