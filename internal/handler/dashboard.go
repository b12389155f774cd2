package handler

import (
	"log/slog"
	"net/http"

	"github.com/recipebox/recipebox/internal/ctxkeys"
	"github.com/recipebox/recipebox/internal/service"
	"github.com/recipebox/recipebox/internal/ui"
)

const dashboardLimit = 5

type DashboardHandler struct {
	recipeService *service.RecipeService
	videoService  *service.VideoService
}

func NewDashboardHandler(recipeService *service.RecipeService, videoService *service.VideoService) *DashboardHandler {
	return &DashboardHandler{
		recipeService: recipeService,
		videoService:  videoService,
	}
}

func (h *DashboardHandler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, noticeFlash(r))
}

func (h *DashboardHandler) render(w http.ResponseWriter, r *http.Request, status int, flash ui.Flash) {
	user := ctxkeys.User(r.Context())

	recipes, err := h.recipeService.Published(r.Context(), dashboardLimit)
	if err != nil {
		slog.Error("failed to get recipes", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	videos, err := h.videoService.Published(dashboardLimit)
	if err != nil {
		slog.Error("failed to get videos", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	ui.RenderStatus(w, r, status, ui.UserDashboard(ui.Dashboard{
		Recipes:        recipes,
		Videos:         videos,
		UploadsEnabled: h.recipeService.UploadsEnabled(),
	}, flash))
}

// SubmitRecipe stores a user's recipe unpublished until an admin approves it.
func (h *DashboardHandler) SubmitRecipe(w http.ResponseWriter, r *http.Request) {
	err := parseForm(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	input, err := recipeInput(r, h.recipeService, false)
	if err == nil {
		_, err = h.recipeService.Create(r.Context(), input)
	}
	if err != nil {
		h.submitFailed(w, r, "recipe", err)
		return
	}

	redirectWithNotice(w, r, "/dashboard", "recipe_submitted")
}

func (h *DashboardHandler) SubmitVideo(w http.ResponseWriter, r *http.Request) {
	err := parseForm(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	_, err = h.videoService.Create(videoInput(r, false))
	if err != nil {
		h.submitFailed(w, r, "video", err)
		return
	}

	redirectWithNotice(w, r, "/dashboard", "video_submitted")
}

func (h *DashboardHandler) submitFailed(w http.ResponseWriter, r *http.Request, kind string, err error) {
	msg, known := contentMessage(err)
	if !known {
		slog.Error("submission failed", "kind", kind, "error", err)
		msg = msgTryAgain
		h.render(w, r, http.StatusInternalServerError, ui.Failure(msg))
		return
	}
	h.render(w, r, http.StatusUnprocessableEntity, ui.Failure(msg))
}
