package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/recipebox/recipebox/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestRecipeImporter_ImportDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shakshuka.md", `---
title: Shakshuka
ingredients:
  - 4 eggs
  - 1 can tomatoes
imageUrl: images/shakshuka.jpg
published: true
createdAt: "2024-03-01"
---
Simmer the tomatoes, then crack in the eggs.
`)
	writeFile(t, dir, "green-salad.md", "Toss everything.\n")
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "drafts"), 0755))

	repo := NewMockRecipeRepository()
	count, err := NewRecipeImporter(repo).ImportDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	all, err := repo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)

	byTitle := map[string]*model.Recipe{}
	for _, r := range all {
		byTitle[r.Title] = r
	}

	shakshuka := byTitle["Shakshuka"]
	require.NotNil(t, shakshuka)
	assert.Equal(t, "4 eggs\n1 can tomatoes", shakshuka.Ingredients)
	assert.Equal(t, "Simmer the tomatoes, then crack in the eggs.", shakshuka.Instructions)
	assert.Equal(t, "/images/shakshuka.jpg", shakshuka.ImageURL)
	assert.True(t, shakshuka.Published)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), shakshuka.CreatedAt)

	salad := byTitle["Green Salad"]
	require.NotNil(t, salad)
	assert.False(t, salad.Published)
	assert.Equal(t, model.DefaultRecipeImage, salad.ImageURL)
}

func TestRecipeImporter_MissingDir(t *testing.T) {
	_, err := NewRecipeImporter(NewMockRecipeRepository()).ImportDir(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
