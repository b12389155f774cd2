package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/recipebox/recipebox/internal/app"
	"github.com/recipebox/recipebox/internal/config"
	"github.com/recipebox/recipebox/internal/db"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
	"github.com/recipebox/recipebox/internal/service"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recordingSender struct {
	mu       sync.Mutex
	messages []service.EmailMessage
}

func (s *recordingSender) Send(ctx context.Context, msg service.EmailMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

var tokenPattern = regexp.MustCompile(`token=([0-9a-f]{64})`)

// lastToken returns the token from the link in the most recent email.
func (s *recordingSender) lastToken(t *testing.T) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.messages)
	m := tokenPattern.FindStringSubmatch(s.messages[len(s.messages)-1].Text)
	require.Len(t, m, 2)
	return m[1]
}

// memoryRecipes is an in-memory recipe store.
type memoryRecipes struct {
	mu      sync.Mutex
	recipes map[primitive.ObjectID]*model.Recipe
}

func (m *memoryRecipes) Create(ctx context.Context, recipe *model.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	recipe.ID = primitive.NewObjectID()
	stored := *recipe
	m.recipes[recipe.ID] = &stored
	return nil
}

func (m *memoryRecipes) ByID(ctx context.Context, id string) (*model.Recipe, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrRecipeNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	recipe, ok := m.recipes[oid]
	if !ok {
		return nil, repository.ErrRecipeNotFound
	}
	copied := *recipe
	return &copied, nil
}

func (m *memoryRecipes) Published(ctx context.Context, limit int) ([]*model.Recipe, error) {
	return m.list(true, limit), nil
}

func (m *memoryRecipes) All(ctx context.Context) ([]*model.Recipe, error) {
	return m.list(false, 0), nil
}

func (m *memoryRecipes) list(publishedOnly bool, limit int) []*model.Recipe {
	m.mu.Lock()
	defer m.mu.Unlock()

	recipes := []*model.Recipe{}
	for _, r := range m.recipes {
		if publishedOnly && !r.Published {
			continue
		}
		copied := *r
		recipes = append(recipes, &copied)
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].CreatedAt.After(recipes[j].CreatedAt) })
	if limit > 0 && len(recipes) > limit {
		recipes = recipes[:limit]
	}
	return recipes
}

func (m *memoryRecipes) Update(ctx context.Context, recipe *model.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recipes[recipe.ID]; !ok {
		return repository.ErrRecipeNotFound
	}
	stored := *recipe
	m.recipes[recipe.ID] = &stored
	return nil
}

func (m *memoryRecipes) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrRecipeNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recipes[oid]; !ok {
		return repository.ErrRecipeNotFound
	}
	delete(m.recipes, oid)
	return nil
}

type testSite struct {
	t       *testing.T
	server  *httptest.Server
	app     *app.App
	users   repository.UserRepository
	recipes *memoryRecipes
	sender  *recordingSender
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()

	conn, err := db.Init("sqlite", filepath.Join(t.TempDir(), "site.db")+"?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(conn.DB, "sqlite"))

	users := repository.NewUserRepository(conn)
	recipes := &memoryRecipes{recipes: make(map[primitive.ObjectID]*model.Recipe)}
	sender := &recordingSender{}
	emails := service.NewEmailService(sender, "http://localhost:3000", "Recipe Box")

	a := &app.App{
		Cfg: &config.Config{
			AppName: "Recipe Box",
			AppEnv:  "development",
			AppURL:  "http://localhost:3000",
		},
		DB:            conn,
		AuthService:   service.NewAuthService(users, emails, "test-secret", false, time.Hour, time.Hour),
		UserService:   service.NewUserService(users),
		EmailService:  emails,
		RecipeService: service.NewRecipeService(recipes, nil),
		VideoService:  service.NewVideoService(repository.NewVideoRepository(conn)),
	}

	server := httptest.NewServer(SetupRoutes(a))
	t.Cleanup(func() {
		server.Close()
		a.Close()
	})

	return &testSite{t: t, server: server, app: a, users: users, recipes: recipes, sender: sender}
}

// seedUser stores a verified account with the given role.
func (s *testSite) seedUser(email, password, role string) *model.User {
	s.t.Helper()

	hash, err := s.app.AuthService.HashPassword(password)
	require.NoError(s.t, err)

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         strings.Split(email, "@")[0],
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsVerified:   true,
		CreatedAt:    time.Now(),
	}
	require.NoError(s.t, s.users.Create(user))
	return user
}

// browser keeps cookies and never follows redirects.
type browser struct {
	t      *testing.T
	site   *testSite
	client *http.Client
}

func (s *testSite) browser() *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(s.t, err)
	return &browser{
		t:    s.t,
		site: s,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type response struct {
	Status   int
	Location string
	Body     string
}

func (b *browser) do(req *http.Request) response {
	b.t.Helper()

	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return response{Status: resp.StatusCode, Location: resp.Header.Get("Location"), Body: string(body)}
}

func (b *browser) get(path string) response {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.site.server.URL+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) csrfToken() string {
	u, err := url.Parse(b.site.server.URL)
	require.NoError(b.t, err)
	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == "csrf_token" {
			return c.Value
		}
	}
	b.get("/")
	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == "csrf_token" {
			return c.Value
		}
	}
	b.t.Fatal("no csrf cookie issued")
	return ""
}

// post submits form with the browser's CSRF token.
func (b *browser) post(path string, form url.Values) response {
	b.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf_token", b.csrfToken())

	req, err := http.NewRequest(http.MethodPost, b.site.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) login(email, password string) response {
	b.t.Helper()
	return b.post("/login", url.Values{"email": {email}, "password": {password}})
}
