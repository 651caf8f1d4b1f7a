package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-console/internal/adapter/gin/middleware"
	"user-console/internal/adapter/gin/view"
	sessionstore "user-console/internal/adapter/session"
	"user-console/internal/domain/session"
	domain "user-console/internal/domain/user"
	usecase "user-console/internal/usecase/user"
)

// MockUserUsecase is a mock implementation of user.Usecase
type MockUserUsecase struct {
	mock.Mock
}

func (m *MockUserUsecase) LoadUsers(ctx context.Context, st *session.State, force bool) error {
	args := m.Called(ctx, st, force)
	return args.Error(0)
}

func (m *MockUserUsecase) ListUsers(ctx context.Context, st *session.State, req usecase.ListUsersRequest) (*usecase.ListUsersResponse, error) {
	args := m.Called(ctx, st, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListUsersResponse), args.Error(1)
}

func (m *MockUserUsecase) GetUser(ctx context.Context, st *session.State, id int64) (*domain.User, error) {
	args := m.Called(ctx, st, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUsecase) CreateUser(ctx context.Context, st *session.State, req usecase.CreateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, st, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUsecase) UpdateUser(ctx context.Context, st *session.State, req usecase.UpdateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, st, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUsecase) DeleteUser(ctx context.Context, st *session.State, id int64) error {
	args := m.Called(ctx, st, id)
	return args.Error(0)
}

func (m *MockUserUsecase) FindByEmail(ctx context.Context, email string) ([]domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

const testCookie = "console_session"

type testEnv struct {
	router  *gin.Engine
	uc      *MockUserUsecase
	store   *sessionstore.MemoryStore
	cookies []*http.Cookie
}

func setupTest(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)
	uc := new(MockUserUsecase)
	log := zaptest.NewLogger(t)
	store := sessionstore.NewMemoryStore(time.Minute)

	tmpl, err := view.Templates()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(middleware.Session(store, middleware.SessionConfig{
		CookieName:   testCookie,
		TTL:          time.Minute,
		DefaultMode:  domain.ModeTable,
		DefaultTheme: session.ThemeLight,
	}, log))

	console := NewConsoleHandler(uc, log)
	r.GET("/", console.Index)
	r.GET("/users", console.ListUsers)
	r.POST("/users", console.CreateUser)
	r.GET("/users/new", console.NewUser)
	r.GET("/users/:id", console.ShowUser)
	r.POST("/users/:id", console.UpdateUser)
	r.GET("/users/:id/edit", console.EditUser)
	r.GET("/users/:id/delete", console.ConfirmDelete)
	r.POST("/users/:id/delete", console.DeleteUser)
	r.GET("/settings", console.Settings)
	r.POST("/settings/theme", console.ToggleTheme)

	api := NewAPIHandler(uc, log)
	r.GET("/api/v1/users", api.ListUsers)
	r.POST("/api/v1/users", api.CreateUser)
	r.GET("/api/v1/users/lookup", api.LookupByEmail)
	r.GET("/api/v1/users/:id", api.GetUser)
	r.PUT("/api/v1/users/:id", api.UpdateUser)
	r.DELETE("/api/v1/users/:id", api.DeleteUser)

	return &testEnv{router: r, uc: uc, store: store}
}

// do sends a request carrying the cookies of earlier responses.
func (e *testEnv) do(method, target string, body string, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range e.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	if cs := w.Result().Cookies(); len(cs) > 0 {
		e.cookies = cs
	}
	return w
}

func (e *testEnv) get(target string) *httptest.ResponseRecorder {
	return e.do(http.MethodGet, target, "", "")
}

func (e *testEnv) postForm(target string, form url.Values) *httptest.ResponseRecorder {
	return e.do(http.MethodPost, target, form.Encode(), "application/x-www-form-urlencoded")
}

func (e *testEnv) sendJSON(method, target, body string) *httptest.ResponseRecorder {
	return e.do(method, target, body, "application/json")
}

// state returns the saved session of the last response.
func (e *testEnv) state(t *testing.T) *session.State {
	t.Helper()
	require.NotEmpty(t, e.cookies)
	st, err := e.store.Get(context.Background(), e.cookies[0].Value)
	require.NoError(t, err)
	require.NotNil(t, st)
	return st
}

func sampleUsers() []domain.User {
	return []domain.User{
		{ID: 1, Name: "Leanne Graham", Username: "Bret", Email: "Sincere@april.biz", Company: domain.Company{Name: "Romaguera-Crona"}},
		{ID: 2, Name: "Ervin Howell", Username: "Antonette", Email: "Shanna@melissa.tv", Company: domain.Company{Name: "Deckow-Crist"}},
	}
}

// newRecorder serves a prepared request through the test router.
func newRecorder(e *testEnv, req *http.Request) *httptest.ResponseRecorder {
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}
