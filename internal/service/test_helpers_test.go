package service

import (
	"context"
	"io"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/recipebox/recipebox/internal/db"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := db.Init("sqlite", filepath.Join(t.TempDir(), "test.db")+"?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.RunMigrations(conn.DB, "sqlite"))
	return conn
}

// recordingSender keeps every message instead of sending it.
type recordingSender struct {
	mu       sync.Mutex
	messages []EmailMessage
	err      error
}

func (s *recordingSender) Send(ctx context.Context, msg EmailMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msg)
	return nil
}

func (s *recordingSender) last() EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) == 0 {
		return EmailMessage{}
	}
	return s.messages[len(s.messages)-1]
}

type authFixture struct {
	auth   *AuthService
	users  repository.UserRepository
	sender *recordingSender
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	users := repository.NewUserRepository(newTestDB(t))
	sender := &recordingSender{}
	emails := NewEmailService(sender, "http://localhost:3000", "Recipe Box")
	auth := NewAuthService(users, emails, "test-secret", false, time.Hour, time.Hour)
	return &authFixture{auth: auth, users: users, sender: sender}
}

// MockRecipeRepository stores recipes in memory. Set a Func field to
// override a method.
type MockRecipeRepository struct {
	mu      sync.Mutex
	recipes map[primitive.ObjectID]*model.Recipe

	CreateFunc    func(ctx context.Context, recipe *model.Recipe) error
	PublishedFunc func(ctx context.Context, limit int) ([]*model.Recipe, error)
}

func NewMockRecipeRepository() *MockRecipeRepository {
	return &MockRecipeRepository{recipes: make(map[primitive.ObjectID]*model.Recipe)}
}

func (m *MockRecipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, recipe)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if recipe.ID.IsZero() {
		recipe.ID = primitive.NewObjectID()
	}
	stored := *recipe
	m.recipes[recipe.ID] = &stored
	return nil
}

func (m *MockRecipeRepository) ByID(ctx context.Context, id string) (*model.Recipe, error) {
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

func (m *MockRecipeRepository) Published(ctx context.Context, limit int) ([]*model.Recipe, error) {
	if m.PublishedFunc != nil {
		return m.PublishedFunc(ctx, limit)
	}
	return m.list(func(r *model.Recipe) bool { return r.Published }, limit), nil
}

func (m *MockRecipeRepository) All(ctx context.Context) ([]*model.Recipe, error) {
	return m.list(func(*model.Recipe) bool { return true }, 0), nil
}

func (m *MockRecipeRepository) list(keep func(*model.Recipe) bool, limit int) []*model.Recipe {
	m.mu.Lock()
	defer m.mu.Unlock()

	recipes := []*model.Recipe{}
	for _, r := range m.recipes {
		if keep(r) {
			copied := *r
			recipes = append(recipes, &copied)
		}
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].CreatedAt.After(recipes[j].CreatedAt) })
	if limit > 0 && len(recipes) > limit {
		recipes = recipes[:limit]
	}
	return recipes
}

func (m *MockRecipeRepository) Update(ctx context.Context, recipe *model.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recipes[recipe.ID]; !ok {
		return repository.ErrRecipeNotFound
	}
	stored := *recipe
	m.recipes[recipe.ID] = &stored
	return nil
}

func (m *MockRecipeRepository) Delete(ctx context.Context, id string) error {
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

// memoryStorage is an in-memory object store.
type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (s *memoryStorage) Save(ctx context.Context, key string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *memoryStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memoryStorage) URL(key string) string {
	return "https://cdn.example.com/" + key
}

func (s *memoryStorage) KeyFromURL(rawURL string) (string, bool) {
	const prefix = "https://cdn.example.com/"
	if len(rawURL) <= len(prefix) || rawURL[:len(prefix)] != prefix {
		return "", false
	}
	return rawURL[len(prefix):], true
}
