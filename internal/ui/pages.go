package ui

import (
	"html/template"

	"github.com/a-h/templ"
	"github.com/recipebox/recipebox/internal/model"
)

// Flash is a one-off message shown above a page's content.
type Flash struct {
	Kind string // "success" or "error"
	Text string
}

func Success(text string) Flash { return Flash{Kind: "success", Text: text} }
func Failure(text string) Flash { return Flash{Kind: "error", Text: text} }

func (f Flash) Empty() bool { return f.Text == "" }

type RegisterForm struct {
	Name  string
	Email string
	Role  string
}

type ResetPasswordForm struct {
	Token string
}

type RecipeDetail struct {
	Recipe       *model.Recipe
	Instructions template.HTML
}

type Dashboard struct {
	Recipes        []*model.Recipe
	Videos         []*model.Video
	UploadsEnabled bool
}

type AdminDashboard struct {
	Recipes []*model.Recipe
	Videos  []*model.Video
}

// Manage is the moderation page. At most one of EditRecipe and
// EditVideo is set.
type Manage struct {
	Recipes        []*model.Recipe
	Videos         []*model.Video
	EditRecipe     *model.Recipe
	EditVideo      *model.Video
	UploadsEnabled bool
}

type Users struct {
	Users []*model.User
	Form  RegisterForm
	Roles []string
}

func Home(recipes []*model.Recipe) templ.Component {
	return page("home", "", Flash{}, recipes)
}

func Register(form RegisterForm, flash Flash) templ.Component {
	return page("register", "Create an account", flash, form)
}

func Login(email string, flash Flash) templ.Component {
	return page("login", "Log in", flash, email)
}

func ForgotPassword(flash Flash) templ.Component {
	return page("forgot_password", "Forgot password", flash, nil)
}

func ResetPassword(token string, flash Flash) templ.Component {
	return page("reset_password", "Reset password", flash, ResetPasswordForm{Token: token})
}

func Recipes(recipes []*model.Recipe) templ.Component {
	return page("recipes", "Recipes", Flash{}, recipes)
}

func Recipe(detail RecipeDetail) templ.Component {
	return page("recipe", detail.Recipe.Title, Flash{}, detail)
}

func Videos(videos []*model.Video) templ.Component {
	return page("videos", "Videos", Flash{}, videos)
}

func UserDashboard(data Dashboard, flash Flash) templ.Component {
	return page("dashboard", "Dashboard", flash, data)
}

func AdminDashboardPage(data AdminDashboard) templ.Component {
	return page("admin_dashboard", "Admin dashboard", Flash{}, data)
}

func ManagePage(data Manage, flash Flash) templ.Component {
	return page("admin_manage", "Manage content", flash, data)
}

func UsersPage(data Users, flash Flash) templ.Component {
	data.Roles = []string{model.RoleUser, model.RoleAdmin}
	return page("admin_users", "Users", flash, data)
}

func NotFound() templ.Component {
	return page("error", "Not found", Flash{}, "The page you are looking for does not exist.")
}

func Error(message string) templ.Component {
	return page("error", "Something went wrong", Flash{}, message)
}
