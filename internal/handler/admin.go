package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/recipebox/recipebox/internal/ctxkeys"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/service"
	"github.com/recipebox/recipebox/internal/ui"
)

type AdminHandler struct {
	recipeService *service.RecipeService
	videoService  *service.VideoService
	userService   *service.UserService
	authService   *service.AuthService
}

func NewAdminHandler(
	recipeService *service.RecipeService,
	videoService *service.VideoService,
	userService *service.UserService,
	authService *service.AuthService,
) *AdminHandler {
	return &AdminHandler{
		recipeService: recipeService,
		videoService:  videoService,
		userService:   userService,
		authService:   authService,
	}
}

func (h *AdminHandler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipeService.All(r.Context())
	if err != nil {
		serverError(w, r, "Failed to load recipes", err)
		return
	}
	videos, err := h.videoService.All()
	if err != nil {
		serverError(w, r, "Failed to load videos", err)
		return
	}

	ui.Render(w, r, ui.AdminDashboardPage(ui.AdminDashboard{Recipes: recipes, Videos: videos}))
}

// ManagePage lists all content. ?edit=recipe:<id> or ?edit=video:<id>
// opens the matching edit form.
func (h *AdminHandler) ManagePage(w http.ResponseWriter, r *http.Request) {
	h.renderManage(w, r, http.StatusOK, noticeFlash(r), r.URL.Query().Get("edit"))
}

func (h *AdminHandler) renderManage(w http.ResponseWriter, r *http.Request, status int, flash ui.Flash, edit string) {
	recipes, err := h.recipeService.All(r.Context())
	if err != nil {
		serverError(w, r, "Failed to load recipes", err)
		return
	}
	videos, err := h.videoService.All()
	if err != nil {
		serverError(w, r, "Failed to load videos", err)
		return
	}

	data := ui.Manage{
		Recipes:        recipes,
		Videos:         videos,
		UploadsEnabled: h.recipeService.UploadsEnabled(),
	}

	if edit != "" {
		data.EditRecipe, data.EditVideo, err = h.resolveEdit(r, edit)
		if err != nil {
			if !errors.Is(err, model.ErrInvalidContentRef) && !errors.Is(err, service.ErrNotFound) {
				serverError(w, r, "Failed to load item", err)
				return
			}
			if flash.Empty() {
				flash = ui.Failure("The item you tried to edit does not exist.")
			}
		}
	}

	ui.RenderStatus(w, r, status, ui.ManagePage(data, flash))
}

func (h *AdminHandler) resolveEdit(r *http.Request, edit string) (*model.Recipe, *model.Video, error) {
	ref, err := model.ParseContentRef(edit)
	if err != nil {
		return nil, nil, err
	}

	switch ref.Kind {
	case model.ContentKindRecipe:
		recipe, err := h.recipeService.ByID(r.Context(), ref.ID)
		return recipe, nil, err
	default:
		video, err := h.videoService.ByID(ref.ID)
		return nil, video, err
	}
}

func (h *AdminHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	err := parseForm(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	input, err := recipeInput(r, h.recipeService, formBool(r, "published"))
	if err == nil {
		_, err = h.recipeService.Create(r.Context(), input)
	}
	if err != nil {
		h.contentFailed(w, r, err, "")
		return
	}

	redirectWithNotice(w, r, "/admin/manage", "recipe_created")
}

func (h *AdminHandler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	err := parseForm(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	id := r.PathValue("id")
	input, err := recipeInput(r, h.recipeService, formBool(r, "published"))
	if err == nil {
		_, err = h.recipeService.Update(r.Context(), id, input)
	}
	if err != nil {
		h.contentFailed(w, r, err, model.RecipeRef(id).String())
		return
	}

	redirectWithNotice(w, r, "/admin/manage", "recipe_updated")
}

func (h *AdminHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	err := h.recipeService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		h.contentFailed(w, r, err, "")
		return
	}
	redirectWithNotice(w, r, "/admin/manage", "recipe_deleted")
}

func (h *AdminHandler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	err := parseForm(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	_, err = h.videoService.Create(videoInput(r, formBool(r, "published")))
	if err != nil {
		h.contentFailed(w, r, err, "")
		return
	}

	redirectWithNotice(w, r, "/admin/manage", "video_created")
}

func (h *AdminHandler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	err := parseForm(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	id := r.PathValue("id")
	_, err = h.videoService.Update(id, videoInput(r, formBool(r, "published")))
	if err != nil {
		h.contentFailed(w, r, err, model.VideoRef(id).String())
		return
	}

	redirectWithNotice(w, r, "/admin/manage", "video_updated")
}

func (h *AdminHandler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	err := h.videoService.Delete(r.PathValue("id"))
	if err != nil {
		h.contentFailed(w, r, err, "")
		return
	}
	redirectWithNotice(w, r, "/admin/manage", "video_deleted")
}

func (h *AdminHandler) contentFailed(w http.ResponseWriter, r *http.Request, err error, edit string) {
	if errors.Is(err, service.ErrNotFound) {
		notFound(w, r)
		return
	}

	msg, known := contentMessage(err)
	if !known {
		serverError(w, r, "Failed to save changes", err)
		return
	}
	h.renderManage(w, r, http.StatusUnprocessableEntity, ui.Failure(msg), edit)
}

func (h *AdminHandler) UsersPage(w http.ResponseWriter, r *http.Request) {
	h.renderUsers(w, r, http.StatusOK, noticeFlash(r), ui.RegisterForm{Role: model.RoleUser})
}

func (h *AdminHandler) renderUsers(w http.ResponseWriter, r *http.Request, status int, flash ui.Flash, form ui.RegisterForm) {
	users, err := h.userService.List()
	if err != nil {
		serverError(w, r, "Failed to load users", err)
		return
	}
	ui.RenderStatus(w, r, status, ui.UsersPage(ui.Users{Users: users, Form: form}, flash))
}

// CreateUser registers an account on someone's behalf; only here is the
// submitted role honoured.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	err := parseForm(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	input := service.RegisterInput{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
	}

	_, err = h.authService.Register(r.Context(), input, true)
	if err != nil && !errors.Is(err, service.ErrEmailDelivery) {
		msg, known := authMessage(err)
		if !known {
			serverError(w, r, "Failed to create account", err)
			return
		}
		form := ui.RegisterForm{Name: input.Name, Email: input.Email, Role: input.Role}
		h.renderUsers(w, r, http.StatusUnprocessableEntity, ui.Failure(msg), form)
		return
	}
	if err != nil {
		slog.Error("verification email failed", "error", err, "email", input.Email)
		h.renderUsers(w, r, http.StatusOK, ui.Failure("Account created, but the verification email could not be sent."), ui.RegisterForm{Role: model.RoleUser})
		return
	}

	redirectWithNotice(w, r, "/admin/users", "user_created")
}

func (h *AdminHandler) BanUser(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, "user_banned", func(actorID, userID string) error {
		return h.userService.Ban(actorID, userID)
	})
}

func (h *AdminHandler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, "user_unbanned", func(actorID, userID string) error {
		return h.userService.Unban(actorID, userID)
	})
}

func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	err := parseForm(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	role := r.FormValue("role")
	h.moderate(w, r, "role_updated", func(actorID, userID string) error {
		return h.userService.SetRole(actorID, userID, role)
	})
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, "user_deleted", func(actorID, userID string) error {
		return h.userService.Delete(actorID, userID)
	})
}

func (h *AdminHandler) moderate(w http.ResponseWriter, r *http.Request, notice string, action func(actorID, userID string) error) {
	actor := ctxkeys.User(r.Context())

	err := action(actor.ID, r.PathValue("id"))
	switch {
	case err == nil:
		redirectWithNotice(w, r, "/admin/users", notice)
	case errors.Is(err, service.ErrUserNotFound):
		notFound(w, r)
	case errors.Is(err, service.ErrSelfModeration):
		h.renderUsers(w, r, http.StatusUnprocessableEntity, ui.Failure("You cannot ban, demote or delete your own account."), ui.RegisterForm{Role: model.RoleUser})
	case errors.Is(err, service.ErrInvalidRole):
		h.renderUsers(w, r, http.StatusUnprocessableEntity, ui.Failure("Please choose a valid role"), ui.RegisterForm{Role: model.RoleUser})
	default:
		serverError(w, r, "Failed to update user", err)
	}
}
