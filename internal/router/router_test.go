package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/codeypas/portfolio-final/internal/config"
	"github.com/codeypas/portfolio-final/internal/model"
	"github.com/codeypas/portfolio-final/internal/queue"
	"github.com/codeypas/portfolio-final/internal/repository"
	"github.com/codeypas/portfolio-final/internal/service"
	"github.com/codeypas/portfolio-final/internal/utils"
)

type envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

type recordingPublisher struct {
	events []queue.ContactReceivedEvent
}

func (p *recordingPublisher) PublishContactReceived(_ context.Context, ev queue.ContactReceivedEvent) error {
	p.events = append(p.events, ev)
	return nil
}

type testServer struct {
	e      *echo.Echo
	users  *repository.MemoryUserStore
	tokens *utils.TokenIssuer
	pub    *recordingPublisher
}

func newTestServer(t *testing.T, tweaks ...func(*Options)) *testServer {
	t.Helper()
	stores := repository.NewMemoryStores()
	users := stores.Users.(*repository.MemoryUserStore)
	cfg := config.Config{
		Env:            "development",
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		BcryptCost:     bcrypt.MinCost,
		StoreTimeout:   time.Second,
		AllowedOrigins: []string{config.DefaultOrigin},
	}
	pub := &recordingPublisher{}
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	opts := Options{Config: cfg, Stores: stores, Publisher: pub, Tokens: tokens}
	for _, tweak := range tweaks {
		tweak(&opts)
	}
	e := New(opts)
	return &testServer{e: e, users: users, tokens: tokens, pub: pub}
}

func (s *testServer) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// session signs up a user, optionally promotes it, and returns its cookie.
func (s *testServer) session(t *testing.T, username string, admin bool) *http.Cookie {
	t.Helper()
	body := `{"username":"` + username + `","email":"` + username + `@x.com","password":"secret1"}`
	rec := s.do(t, http.MethodPost, "/api/auth/signup", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		User model.Profile `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	role := model.RoleUser
	if admin {
		role = model.RoleAdmin
		require.NoError(t, s.users.SetRole(resp.User.ID, role))
	}
	tok, err := s.tokens.Issue(resp.User.ID, role)
	require.NoError(t, err)
	return &http.Cookie{Name: utils.AccessTokenCookie, Value: tok.Token}
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == utils.AccessTokenCookie {
			return c
		}
	}
	return nil
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestAliceScenario(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/signup", `{"username":"alice","email":"a@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotNil(t, sessionCookie(rec))
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "secret1")

	var signup struct {
		User map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signup))
	assert.Equal(t, "alice", signup.User["username"])
	assert.Equal(t, "user", signup.User["role"])

	rec = s.do(t, http.MethodPost, "/api/auth/signin", `{"email":"a@x.com","password":"wrong"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, envelope{false, 400, "Invalid password"}, decodeEnvelope(t, rec))
	assert.Nil(t, sessionCookie(rec), "no cookie on failed signin")

	rec = s.do(t, http.MethodPost, "/api/auth/signin", `{"email":"a@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	ck := sessionCookie(rec)
	require.NotNil(t, ck)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, 3600, ck.MaxAge)

	var signin struct {
		User model.Profile `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signin))
	assert.Equal(t, "a@x.com", signin.User.Email)

	id, err := s.tokens.Verify(ck.Value)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, id.Role)
	assert.Equal(t, signin.User.ID, id.SubjectID)

	rec = s.do(t, http.MethodGet, "/api/auth/profile", "", ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
}

func TestSignupValidationAndDuplicates(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/signup", `{"username":"bob","email":"","password":"x"}`)
	assert.Equal(t, envelope{false, 400, "All fields are required"}, decodeEnvelope(t, rec))

	require.Equal(t, http.StatusCreated,
		s.do(t, http.MethodPost, "/api/auth/signup", `{"username":"bob","email":"b@x.com","password":"pw"}`).Code)

	rec = s.do(t, http.MethodPost, "/api/auth/signup", `{"username":"bob","email":"other@x.com","password":"pw"}`)
	assert.Equal(t, envelope{false, 409, "Username or email already exists"}, decodeEnvelope(t, rec))

	rec = s.do(t, http.MethodPost, "/api/auth/signin", `{"email":"nobody@x.com","password":"pw"}`)
	assert.Equal(t, envelope{false, 404, "User not found"}, decodeEnvelope(t, rec))

	rec = s.do(t, http.MethodPost, "/api/auth/signin", `{"email":"b@x.com"}`)
	assert.Equal(t, envelope{false, 400, "All fields are required"}, decodeEnvelope(t, rec))
}

func TestProfileGates(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/auth/profile", "")
	assert.Equal(t, envelope{false, 401, "Unauthorized: No token provided"}, decodeEnvelope(t, rec))

	rec = s.do(t, http.MethodGet, "/api/auth/profile", "", &http.Cookie{Name: utils.AccessTokenCookie, Value: "junk"})
	assert.Equal(t, envelope{false, 403, "Forbidden: Invalid token"}, decodeEnvelope(t, rec))
}

func TestProfileOfDeletedUser(t *testing.T) {
	s := newTestServer(t)
	ck := s.session(t, "carol", false)

	id, err := s.tokens.Verify(ck.Value)
	require.NoError(t, err)
	s.users.Delete(id.SubjectID)

	rec := s.do(t, http.MethodGet, "/api/auth/profile", "", ck)
	assert.Equal(t, envelope{false, 404, "User not found"}, decodeEnvelope(t, rec))
}

func TestSignoutIsIdempotent(t *testing.T) {
	s := newTestServer(t)
	ck := s.session(t, "dave", false)

	for i, cookies := range [][]*http.Cookie{{ck}, {ck}, nil} {
		rec := s.do(t, http.MethodPost, "/api/auth/signout", "", cookies...)
		require.Equal(t, http.StatusOK, rec.Code, "call %d", i)
		assert.JSONEq(t, `"Signout successful"`, rec.Body.String())
		cleared := sessionCookie(rec)
		require.NotNil(t, cleared, "call %d", i)
		assert.Empty(t, cleared.Value)
		assert.Equal(t, -1, cleared.MaxAge)
	}
}

func TestContentMutationRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	blog := `{"title":"T","summary":"S","content":"C","category":"go"}`

	rec := s.do(t, http.MethodPost, "/api/blogs", blog)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	user := s.session(t, "erin", false)
	rec = s.do(t, http.MethodPost, "/api/blogs", blog, user)
	assert.Equal(t, envelope{false, 403, "Forbidden: Admin access required"}, decodeEnvelope(t, rec))

	admin := s.session(t, "root", true)
	rec = s.do(t, http.MethodPost, "/api/blogs", blog, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.Blog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{}, created.Tags)

	// Role is checked before the target: a missing id is still 403 for users.
	rec = s.do(t, http.MethodDelete, "/api/blogs/does-not-exist", "", user)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBlogLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.session(t, "root", true)

	rec := s.do(t, http.MethodPost, "/api/blogs", `{"title":"T"}`, admin)
	assert.Equal(t, envelope{false, 400, "Missing required fields: summary, content, category"}, decodeEnvelope(t, rec))

	rec = s.do(t, http.MethodPost, "/api/blogs/", `{"title":"T","summary":"S","content":"C","category":"go","tags":["a"]}`, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	var b model.Blog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))

	rec = s.do(t, http.MethodGet, "/api/blogs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Blog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rec = s.do(t, http.MethodPut, "/api/blogs/"+b.ID, `{"title":"Renamed"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated model.Blog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "S", updated.Summary, "absent fields keep their value")
	assert.Equal(t, []string{"a"}, updated.Tags)

	rec = s.do(t, http.MethodDelete, "/api/blogs/"+b.ID, "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"Blog deleted successfully"`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/blogs/"+b.ID, "")
	assert.Equal(t, envelope{false, 404, "Blog not found"}, decodeEnvelope(t, rec))
	rec = s.do(t, http.MethodDelete, "/api/blogs/"+b.ID, "", admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStudyAndProjectDefaults(t *testing.T) {
	s := newTestServer(t)
	admin := s.session(t, "root", true)

	rec := s.do(t, http.MethodPost, "/api/study",
		`{"title":"Go","category":"lang","description":"d","format":"PDF","fileUrl":"/f.pdf"}`, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"icon":"FileText"`)

	rec = s.do(t, http.MethodPost, "/api/projects", `{"title":"P","description":"D","category":"web"}`, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var p model.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, []string{}, p.TechStack)
	assert.Equal(t, []string{}, p.Features)

	rec = s.do(t, http.MethodGet, "/api/projects/nope", "")
	assert.Equal(t, envelope{false, 404, "Project not found"}, decodeEnvelope(t, rec))
	rec = s.do(t, http.MethodGet, "/api/study/nope", "")
	assert.Equal(t, envelope{false, 404, "Study resource not found"}, decodeEnvelope(t, rec))
}

func TestContactFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/contact", `{"name":"Ann"}`)
	assert.Equal(t, envelope{false, 400, "Name, email, and message are required"}, decodeEnvelope(t, rec))

	rec = s.do(t, http.MethodPost, "/api/contact", `{"name":"Ann","email":"ann@x.io","message":"hi"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var msg model.ContactMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.False(t, msg.IsRead)
	require.Len(t, s.pub.events, 1)
	assert.Equal(t, msg.ID, s.pub.events[0].MessageID)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/contact", "").Code)

	admin := s.session(t, "root", true)
	rec = s.do(t, http.MethodPut, "/api/contact/"+msg.ID+"/read", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isRead":true`)

	rec = s.do(t, http.MethodGet, "/api/contact", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), msg.ID)

	rec = s.do(t, http.MethodDelete, "/api/contact/"+msg.ID, "", admin)
	assert.JSONEq(t, `"Contact message deleted successfully"`, rec.Body.String())
	rec = s.do(t, http.MethodPut, "/api/contact/"+msg.ID+"/read", "", admin)
	assert.Equal(t, envelope{false, 404, "Contact message not found"}, decodeEnvelope(t, rec))
}

func TestOperationalRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/health", "")
	assert.JSONEq(t, `{"status":"ok","message":"Backend is healthy"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/test", "")
	assert.JSONEq(t, `{"message":"API is working"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "portfolio_http_requests_total")

	rec = s.do(t, http.MethodGet, "/nowhere", "")
	assert.Equal(t, envelope{false, 404, "Not Found"}, decodeEnvelope(t, rec))
}

func TestCORSAllowsCredentialedFrontend(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/signin", nil)
	req.Header.Set(echo.HeaderOrigin, config.DefaultOrigin)
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	assert.Equal(t, config.DefaultOrigin, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))

	req = httptest.NewRequest(http.MethodOptions, "/api/auth/signin", nil)
	req.Header.Set(echo.HeaderOrigin, "https://evil.example")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestRateLimitKeysAuthenticatedCallersByID(t *testing.T) {
	s := newTestServer(t, func(o *Options) {
		o.RateLimit = config.RateLimitConfig{
			Enabled:        true,
			Capacity:       2,
			RefillTokens:   1,
			RefillInterval: time.Hour,
			TTL:            2 * time.Hour,
			KeyStrategy:    "user_route",
			Prefix:         "rl",
		}
	})
	alice := s.session(t, "alice", false)
	bob := s.session(t, "bob", false)

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/auth/profile", "", alice).Code)
	}
	rec := s.do(t, http.MethodGet, "/api/auth/profile", "", alice)
	assert.Equal(t, envelope{false, 429, "Too many requests, please try again later"}, decodeEnvelope(t, rec))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Same route, different subject: a separate bucket.
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/auth/profile", "", bob).Code)
}

// stalledBroker blocks each publish until its context ends.
type stalledBroker struct{ done chan error }

func (b stalledBroker) PublishContactReceived(ctx context.Context, _ queue.ContactReceivedEvent) error {
	<-ctx.Done()
	b.done <- ctx.Err()
	return ctx.Err()
}

func TestContactSubmitDoesNotWaitForBroker(t *testing.T) {
	broker := stalledBroker{done: make(chan error, 1)}
	pub := service.NewAsyncPublisher(broker, 500*time.Millisecond)
	s := newTestServer(t, func(o *Options) { o.Publisher = pub })

	start := time.Now()
	rec := s.do(t, http.MethodPost, "/api/contact", `{"name":"Ann","email":"ann@x.io","message":"hi"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Less(t, time.Since(start), 250*time.Millisecond)

	pub.Close()
	assert.ErrorIs(t, <-broker.done, context.DeadlineExceeded)
}
