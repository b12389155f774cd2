package service

import (
	"context"
	"encoding/xml"
	"log/slog"
	"strings"
	"time"

	"github.com/recipebox/recipebox/internal/model"
)

// publicRoutes are the static pages listed in the sitemap.
var publicRoutes = []struct {
	Path       string
	Priority   string
	ChangeFreq string
}{
	{"/", "1.0", "daily"},
	{"/recipes", "0.9", "daily"},
	{"/videos", "0.8", "weekly"},
	{"/login", "0.3", "monthly"},
	{"/register", "0.3", "monthly"},
}

type SitemapService struct {
	recipeService *RecipeService
	baseURL       string
}

func NewSitemapService(recipeService *RecipeService, baseURL string) *SitemapService {
	return &SitemapService{
		recipeService: recipeService,
		baseURL:       strings.TrimSuffix(baseURL, "/"),
	}
}

// GenerateSitemap lists the static pages and every published recipe.
// An unavailable recipe store only drops the recipe entries.
func (s *SitemapService) GenerateSitemap(ctx context.Context) ([]byte, error) {
	sitemap := model.Sitemap{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  s.staticURLs(),
	}

	recipes, err := s.recipeService.Published(ctx, 0)
	if err != nil {
		slog.Warn("failed to list recipes for sitemap", "error", err)
	} else {
		for _, recipe := range recipes {
			sitemap.URLs = append(sitemap.URLs, model.SitemapURL{
				Loc:        s.baseURL + "/recipes/" + recipe.IDHex(),
				LastMod:    recipe.CreatedAt.Format("2006-01-02"),
				ChangeFreq: "weekly",
				Priority:   "0.7",
			})
		}
	}

	output, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}
	return []byte(xml.Header + string(output)), nil
}

func (s *SitemapService) staticURLs() []model.SitemapURL {
	today := time.Now().Format("2006-01-02")
	urls := make([]model.SitemapURL, 0, len(publicRoutes))
	for _, route := range publicRoutes {
		urls = append(urls, model.SitemapURL{
			Loc:        s.baseURL + route.Path,
			LastMod:    today,
			ChangeFreq: route.ChangeFreq,
			Priority:   route.Priority,
		})
	}
	return urls
}
