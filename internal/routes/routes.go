package routes

import (
	"net/http"
	"time"

	"github.com/recipebox/recipebox/assets"
	"github.com/recipebox/recipebox/internal/app"
	"github.com/recipebox/recipebox/internal/handler"
	"github.com/recipebox/recipebox/internal/middleware"
	"github.com/recipebox/recipebox/internal/service"
)

// Auth form posts allowed per client IP and window.
const (
	authRateLimit  = 10
	authRateWindow = 15 * time.Minute
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(app.RecipeService)
	seo := handler.NewSEOHandler(service.NewSitemapService(app.RecipeService, app.Cfg.AppURL), assets.AssetsFS, app.Cfg.AppURL)
	auth := handler.NewAuthHandler(app.AuthService, app.Cfg)
	recipes := handler.NewRecipeHandler(app.RecipeService)
	videos := handler.NewVideoHandler(app.VideoService)
	dashboard := handler.NewDashboardHandler(app.RecipeService, app.VideoService)
	admin := handler.NewAdminHandler(app.RecipeService, app.VideoService, app.UserService, app.AuthService)

	limiter := middleware.NewRateLimiter(authRateLimit, authRateWindow)
	app.OnClose(limiter.Stop)
	limit := limiter.Limit

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Static files
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(assets.AssetsFS))))

	// SEO
	mux.HandleFunc("GET /robots.txt", seo.Robots)
	mux.HandleFunc("GET /sitemap.xml", seo.Sitemap)

	// Home
	mux.HandleFunc("GET /{$}", home.HomePage)

	// Content
	mux.HandleFunc("GET /recipes", recipes.List)
	mux.HandleFunc("GET /recipes/{id}", recipes.Show)
	mux.HandleFunc("GET /videos", videos.List)

	// Auth pages
	mux.HandleFunc("GET /register", middleware.RequireGuest(auth.RegisterPage))
	mux.HandleFunc("GET /login", middleware.RequireGuest(auth.LoginPage))
	mux.HandleFunc("GET /forgot_password", middleware.RequireGuest(auth.ForgotPasswordPage))
	mux.HandleFunc("GET /reset_password", auth.ResetPasswordPage)
	mux.HandleFunc("GET /verify", auth.VerifyEmail)

	// Auth actions (rate limited)
	mux.HandleFunc("POST /register", limit(middleware.RequireGuest(auth.Register)))
	mux.HandleFunc("POST /login", limit(middleware.RequireGuest(auth.Login)))
	mux.HandleFunc("POST /forgot_password", limit(auth.ForgotPassword))
	mux.HandleFunc("POST /reset_password", limit(auth.ResetPassword))
	mux.HandleFunc("POST /logout", auth.Logout)

	// OAuth
	mux.HandleFunc("GET /auth/google", limit(middleware.RequireGuest(auth.GoogleAuth)))
	mux.HandleFunc("GET /auth/google/callback", limit(auth.GoogleCallback))

	// ============================================================================
	// SIGNED-IN ROUTES
	// ============================================================================

	mux.HandleFunc("GET /dashboard", middleware.RequireAuth(dashboard.DashboardPage))
	mux.HandleFunc("POST /recipes", middleware.RequireAuth(dashboard.SubmitRecipe))
	mux.HandleFunc("POST /videos", middleware.RequireAuth(dashboard.SubmitVideo))

	// ============================================================================
	// ADMIN ROUTES (/admin/*)
	// ============================================================================

	mux.HandleFunc("GET /admin/dashboard", middleware.RequireAdmin(admin.DashboardPage))
	mux.HandleFunc("GET /admin/manage", middleware.RequireAdmin(admin.ManagePage))

	// Recipes
	mux.HandleFunc("POST /admin/recipes", middleware.RequireAdmin(admin.CreateRecipe))
	mux.HandleFunc("POST /admin/recipes/{id}", middleware.RequireAdmin(admin.UpdateRecipe))
	mux.HandleFunc("POST /admin/recipes/{id}/delete", middleware.RequireAdmin(admin.DeleteRecipe))

	// Videos
	mux.HandleFunc("POST /admin/videos", middleware.RequireAdmin(admin.CreateVideo))
	mux.HandleFunc("POST /admin/videos/{id}", middleware.RequireAdmin(admin.UpdateVideo))
	mux.HandleFunc("POST /admin/videos/{id}/delete", middleware.RequireAdmin(admin.DeleteVideo))

	// Users
	mux.HandleFunc("GET /admin/users", middleware.RequireAdmin(admin.UsersPage))
	mux.HandleFunc("POST /admin/users", middleware.RequireAdmin(admin.CreateUser))
	mux.HandleFunc("POST /admin/users/{id}/ban", middleware.RequireAdmin(admin.BanUser))
	mux.HandleFunc("POST /admin/users/{id}/unban", middleware.RequireAdmin(admin.UnbanUser))
	mux.HandleFunc("POST /admin/users/{id}/role", middleware.RequireAdmin(admin.SetRole))
	mux.HandleFunc("POST /admin/users/{id}/delete", middleware.RequireAdmin(admin.DeleteUser))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware, outermost first
	return middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.NonceMiddleware, // before SecurityHeaders, which reads the nonce
		middleware.SecurityHeaders(app.Cfg.IsProduction()),
		middleware.RequestLogging,
		middleware.CSRFProtection,
		middleware.AuthMiddleware(app.AuthService),
		middleware.WithURLPath,
	)
}
