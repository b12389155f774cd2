package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/recipebox/recipebox/internal/markdown"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RecipeImporter loads recipes from a directory of Markdown files. The
// front matter carries title, ingredients, imageUrl, published and
// createdAt; the body becomes the instructions.
type RecipeImporter struct {
	recipeRepository repository.RecipeRepository
	parser           *markdown.Parser
	now              func() time.Time
}

func NewRecipeImporter(recipeRepository repository.RecipeRepository) *RecipeImporter {
	return &RecipeImporter{
		recipeRepository: recipeRepository,
		parser:           markdown.NewParser(),
		now:              time.Now,
	}
}

// ImportDir imports every *.md file in dir and returns how many were stored.
func (s *RecipeImporter) ImportDir(ctx context.Context, dir string) (int, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read recipe directory: %w", err)
	}

	imported := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".md") {
			continue
		}

		recipe, err := s.LoadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return imported, fmt.Errorf("failed to load %s: %w", file.Name(), err)
		}

		err = s.recipeRepository.Create(ctx, recipe)
		if err != nil {
			return imported, fmt.Errorf("failed to store %s: %w", file.Name(), err)
		}

		slog.Info("recipe imported", "file", file.Name(), "recipe_id", recipe.IDHex())
		imported++
	}

	return imported, nil
}

func (s *RecipeImporter) LoadFile(path string) (*model.Recipe, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	_, meta, err := s.parser.ParseWithFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown: %w", err)
	}

	slug := strings.TrimSuffix(filepath.Base(path), ".md")
	title, _ := meta["title"].(string)
	if title == "" {
		title = cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(slug))
	}

	published, _ := meta["published"].(bool)

	createdAt := s.now()
	if value, ok := meta["createdAt"]; ok {
		parsed, ok := parseDate(value)
		if ok {
			createdAt = parsed
		}
	}

	imageURL, _ := meta["imageUrl"].(string)

	return &model.Recipe{
		Title:        title,
		Ingredients:  ingredientsFromMeta(meta["ingredients"]),
		Instructions: strings.TrimSpace(string(markdown.Body(content))),
		ImageURL:     NormalizeImageURL(imageURL),
		Published:    published,
		CreatedAt:    createdAt,
	}, nil
}

// ingredientsFromMeta accepts a string or a YAML list, one ingredient per line.
func ingredientsFromMeta(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		lines := make([]string, 0, len(v))
		for _, item := range v {
			lines = append(lines, strings.TrimSpace(fmt.Sprint(item)))
		}
		return strings.Join(lines, "\n")
	default:
		return ""
	}
}

func parseDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		formats := []string{
			time.RFC3339,
			"2006-01-02",
			"2006/01/02",
			"January 2, 2006",
			"Jan 2, 2006",
		}
		for _, format := range formats {
			t, err := time.Parse(format, v)
			if err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
