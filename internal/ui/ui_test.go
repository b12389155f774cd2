package ui

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/recipebox/recipebox/internal/config"
	"github.com/recipebox/recipebox/internal/ctxkeys"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func renderString(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()

	var sb strings.Builder
	require.NoError(t, c.Render(ctx, &sb))
	return sb.String()
}

func requestContext(user *model.User) context.Context {
	ctx := ctxkeys.WithCSRFToken(context.Background(), "csrf-123")
	ctx = ctxkeys.WithConfig(ctx, &config.Config{AppName: "Recipe Box", GoogleClientID: "client"})
	ctx = templ.WithNonce(ctx, "nonce-abc")
	if user != nil {
		ctx = ctxkeys.WithUser(ctx, user)
	}
	return ctx
}

func TestEveryTemplateParses(t *testing.T) {
	for _, name := range []string{
		"home", "register", "login", "forgot_password", "reset_password",
		"recipes", "recipe", "videos", "dashboard",
		"admin_dashboard", "admin_manage", "admin_users", "error",
	} {
		assert.Contains(t, cache, name)
	}
}

func TestLogin_CarriesCSRFNonceAndFlash(t *testing.T) {
	html := renderString(t, requestContext(nil), Login("ann@example.com", Failure("Please fill all required fields")))

	assert.Contains(t, html, `name="csrf_token" value="csrf-123"`)
	assert.Contains(t, html, `nonce="nonce-abc"`)
	assert.Contains(t, html, "Please fill all required fields")
	assert.Contains(t, html, `value="ann@example.com"`)
	assert.Contains(t, html, "/auth/google")
	assert.Contains(t, html, "alert-error")
}

func TestLayout_NavigationByRole(t *testing.T) {
	anon := renderString(t, requestContext(nil), Home(nil))
	assert.Contains(t, anon, `href="/login"`)
	assert.NotContains(t, anon, "/admin/dashboard")

	member := renderString(t, requestContext(&model.User{ID: "u1", Name: "Ann", Role: model.RoleUser}), Home(nil))
	assert.Contains(t, member, `href="/dashboard"`)
	assert.NotContains(t, member, "/admin/dashboard")

	admin := renderString(t, requestContext(&model.User{ID: "a1", Name: "Root", Role: model.RoleAdmin}), Home(nil))
	assert.Contains(t, admin, "/admin/dashboard")
}

func TestRecipe_EscapesFieldsButNotRenderedInstructions(t *testing.T) {
	recipe := &model.Recipe{
		ID:          primitive.NewObjectID(),
		Title:       "<script>alert(1)</script>",
		Ingredients: "flour",
		ImageURL:    model.DefaultRecipeImage,
		Published:   true,
		CreatedAt:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	html := renderString(t, requestContext(nil), Recipe(RecipeDetail{
		Recipe:       recipe,
		Instructions: template.HTML("<p><strong>Mix</strong></p>"),
	}))

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "<p><strong>Mix</strong></p>")
	assert.Contains(t, html, "Mar 1, 2024")
}

func TestManagePage_EditForms(t *testing.T) {
	recipe := &model.Recipe{ID: primitive.NewObjectID(), Title: "Soup", Published: true}
	video := &model.Video{ID: "v1", Title: "Knife skills", VideoURL: "https://videos.example.com/1"}
	admin := &model.User{ID: "a1", Role: model.RoleAdmin}

	html := renderString(t, requestContext(admin), ManagePage(Manage{
		Recipes:    []*model.Recipe{recipe},
		Videos:     []*model.Video{video},
		EditRecipe: recipe,
	}, Flash{}))

	assert.Contains(t, html, `action="/admin/recipes/`+recipe.IDHex()+`"`)
	assert.Contains(t, html, "edit=recipe:"+recipe.IDHex())
	assert.Contains(t, html, "edit=video:v1")
	assert.NotContains(t, html, `action="/admin/videos/v1"`)
}

func TestUsersPage_HidesSelfModeration(t *testing.T) {
	admin := &model.User{ID: "a1", Name: "Root", Role: model.RoleAdmin, IsVerified: true}
	member := &model.User{ID: "u1", Name: "Ann", Role: model.RoleUser, Banned: true}

	html := renderString(t, requestContext(admin), UsersPage(Users{Users: []*model.User{admin, member}}, Success("User banned")))

	assert.Contains(t, html, "/admin/users/u1/unban")
	assert.NotContains(t, html, "/admin/users/a1/ban")
	assert.Contains(t, html, "badge-banned")
	assert.Contains(t, html, ">Admin</option>")
}

func TestRenderStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)

	RenderStatus(rec, req, http.StatusNotFound, NotFound())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "does not exist")
}

func TestRender_UnknownPageFails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	Render(rec, req, page("nope", "", Flash{}, nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFuncs(t *testing.T) {
	cn := funcs["cn"].(func(...string) string)
	assert.Equal(t, "btn bg-red-600", cn("btn bg-orange-600", "bg-red-600"))

	active := funcs["active"].(func(string, string) bool)
	assert.True(t, active("/recipes/abc", "/recipes"))
	assert.False(t, active("/recipesx", "/recipes"))
	assert.True(t, active("/", "/"))
	assert.False(t, active("/videos", "/"))
}
