package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/recipebox/recipebox/internal/ctxkeys"
	"github.com/recipebox/recipebox/internal/service"
	"github.com/recipebox/recipebox/internal/ui"
)

type RecipeHandler struct {
	recipeService *service.RecipeService
}

func NewRecipeHandler(recipeService *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipeService.Published(r.Context(), 0)
	if err != nil {
		serverError(w, r, "Failed to load recipes", err)
		return
	}
	ui.Render(w, r, ui.Recipes(recipes))
}

// Show renders a published recipe. Admins may also preview drafts.
func (h *RecipeHandler) Show(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.recipeService.Visible(r.Context(), r.PathValue("id"), ctxkeys.IsAdmin(r.Context()))
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			notFound(w, r)
			return
		}
		serverError(w, r, "Failed to load recipe", err)
		return
	}

	instructions, err := h.recipeService.RenderInstructions(recipe)
	if err != nil {
		slog.Warn("failed to render instructions", "error", err, "recipe_id", recipe.IDHex())
		instructions = template.HTMLEscapeString(recipe.Instructions)
	}

	ui.Render(w, r, ui.Recipe(ui.RecipeDetail{
		Recipe:       recipe,
		Instructions: template.HTML(instructions),
	}))
}
