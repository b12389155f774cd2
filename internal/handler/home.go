package handler

import (
	"log/slog"
	"net/http"

	"github.com/recipebox/recipebox/internal/service"
	"github.com/recipebox/recipebox/internal/ui"
)

const homeRecipeLimit = 6

type HomeHandler struct {
	recipeService *service.RecipeService
}

func NewHomeHandler(recipeService *service.RecipeService) *HomeHandler {
	return &HomeHandler{recipeService: recipeService}
}

// HomePage still renders when the recipe store is down.
func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipeService.Published(r.Context(), homeRecipeLimit)
	if err != nil {
		slog.Warn("failed to load recipes for home page", "error", err)
	}
	ui.Render(w, r, ui.Home(recipes))
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	notFound(w, r)
}
