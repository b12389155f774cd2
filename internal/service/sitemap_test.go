package service

import (
	"context"
	"errors"
	"testing"

	"github.com/recipebox/recipebox/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapService(t *testing.T) {
	repo := NewMockRecipeRepository()
	recipes := NewRecipeService(repo, nil)
	ctx := context.Background()

	input := validRecipe()
	input.Published = true
	published, err := recipes.Create(ctx, input)
	require.NoError(t, err)

	input.Published = false
	draft, err := recipes.Create(ctx, input)
	require.NoError(t, err)

	out, err := NewSitemapService(recipes, "https://recipes.example.com/").GenerateSitemap(ctx)
	require.NoError(t, err)

	xml := string(out)
	assert.Contains(t, xml, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, xml, "<loc>https://recipes.example.com/</loc>")
	assert.Contains(t, xml, "<loc>https://recipes.example.com/recipes</loc>")
	assert.Contains(t, xml, "<loc>https://recipes.example.com/recipes/"+published.IDHex()+"</loc>")
	assert.NotContains(t, xml, draft.IDHex())
}

func TestSitemapService_RecipeStoreDown(t *testing.T) {
	repo := NewMockRecipeRepository()
	repo.PublishedFunc = func(ctx context.Context, limit int) ([]*model.Recipe, error) {
		return nil, errors.New("mongo unreachable")
	}

	out, err := NewSitemapService(NewRecipeService(repo, nil), "https://recipes.example.com").GenerateSitemap(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(out), "<loc>https://recipes.example.com/videos</loc>")
}
