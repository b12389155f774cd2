package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/recipebox/recipebox/internal/markdown"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
	"github.com/recipebox/recipebox/internal/storage"
	"github.com/recipebox/recipebox/internal/validation"
)

type RecipeInput struct {
	Title        string `form:"title" validate:"required,max=200"`
	Ingredients  string `form:"ingredients" validate:"required"`
	Instructions string `form:"instructions" validate:"required"`
	ImageURL     string `form:"imageUrl" validate:"max=2048"`
	Published    bool   `form:"published"`
}

type RecipeService struct {
	recipeRepository repository.RecipeRepository
	storage          storage.Storage
	parser           *markdown.Parser
	now              func() time.Time
}

// NewRecipeService creates the recipe service. store may be nil, which
// disables image uploads.
func NewRecipeService(recipeRepository repository.RecipeRepository, store storage.Storage) *RecipeService {
	return &RecipeService{
		recipeRepository: recipeRepository,
		storage:          store,
		parser:           markdown.NewParser(),
		now:              time.Now,
	}
}

// NormalizeImageURL falls back to the placeholder for empty values and
// makes bare paths root-relative.
func NormalizeImageURL(raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return model.DefaultRecipeImage
	case strings.HasPrefix(raw, "http"), strings.HasPrefix(raw, "/"):
		return raw
	default:
		return "/" + raw
	}
}

func (s *RecipeService) Create(ctx context.Context, input RecipeInput) (*model.Recipe, error) {
	input, err := cleanRecipeInput(input)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		Title:        input.Title,
		Ingredients:  input.Ingredients,
		Instructions: input.Instructions,
		ImageURL:     NormalizeImageURL(input.ImageURL),
		Published:    input.Published,
		CreatedAt:    s.now(),
	}

	err = s.recipeRepository.Create(ctx, recipe)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	slog.Info("recipe created", "recipe_id", recipe.IDHex(), "published", recipe.Published)
	return recipe, nil
}

func (s *RecipeService) ByID(ctx context.Context, id string) (*model.Recipe, error) {
	recipe, err := s.recipeRepository.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return recipe, nil
}

// Visible returns the recipe if the viewer may see it: published recipes
// for everyone, drafts only for admins.
func (s *RecipeService) Visible(ctx context.Context, id string, admin bool) (*model.Recipe, error) {
	recipe, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !recipe.Published && !admin {
		return nil, ErrRecipeNotFound
	}
	return recipe, nil
}

// Published returns the newest published recipes; limit <= 0 means all.
func (s *RecipeService) Published(ctx context.Context, limit int) ([]*model.Recipe, error) {
	return s.recipeRepository.Published(ctx, limit)
}

func (s *RecipeService) All(ctx context.Context) ([]*model.Recipe, error) {
	return s.recipeRepository.All(ctx)
}

func (s *RecipeService) Update(ctx context.Context, id string, input RecipeInput) (*model.Recipe, error) {
	input, err := cleanRecipeInput(input)
	if err != nil {
		return nil, err
	}

	recipe, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	recipe.Title = input.Title
	recipe.Ingredients = input.Ingredients
	recipe.Instructions = input.Instructions
	recipe.ImageURL = NormalizeImageURL(input.ImageURL)
	recipe.Published = input.Published

	err = s.recipeRepository.Update(ctx, recipe)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	slog.Info("recipe updated", "recipe_id", id)
	return recipe, nil
}

// Delete removes the recipe and, best effort, its uploaded image.
func (s *RecipeService) Delete(ctx context.Context, id string) error {
	recipe, err := s.ByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.recipeRepository.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return ErrRecipeNotFound
		}
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	if s.storage != nil {
		key, ok := s.storage.KeyFromURL(recipe.ImageURL)
		if ok {
			delErr := s.storage.Delete(ctx, key)
			if delErr != nil {
				slog.Warn("failed to delete recipe image", "error", delErr, "key", key)
			}
		}
	}

	slog.Info("recipe deleted", "recipe_id", id)
	return nil
}

func (s *RecipeService) UploadsEnabled() bool {
	return s.storage != nil
}

// UploadImage validates and stores a recipe picture and returns its URL.
func (s *RecipeService) UploadImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	if s.storage == nil {
		return "", ErrUploadsDisabled
	}

	err := validation.ValidateFile(header, validation.ImageConstraints)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrValidation, err)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := path.Join("recipes", uuid.New().String()+ext)

	err = s.storage.Save(ctx, key, file, header.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return s.storage.URL(key), nil
}

// RenderInstructions converts the Markdown instructions to HTML.
func (s *RecipeService) RenderInstructions(recipe *model.Recipe) (string, error) {
	html, err := s.parser.Parse([]byte(recipe.Instructions))
	if err != nil {
		return "", err
	}
	return string(html), nil
}

func cleanRecipeInput(input RecipeInput) (RecipeInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Ingredients = strings.TrimSpace(input.Ingredients)
	input.Instructions = strings.TrimSpace(input.Instructions)

	err := validation.Struct(input)
	if err != nil {
		if validation.IsRequiredError(err) {
			return input, ErrMissingFields
		}
		return input, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return input, nil
}
