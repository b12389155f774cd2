package handler

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/recipebox/recipebox/internal/service"
)

type SEOHandler struct {
	sitemapService *service.SitemapService
	assets         fs.FS
	baseURL        string
}

func NewSEOHandler(sitemapService *service.SitemapService, assets fs.FS, baseURL string) *SEOHandler {
	return &SEOHandler{
		sitemapService: sitemapService,
		assets:         assets,
		baseURL:        strings.TrimSuffix(baseURL, "/"),
	}
}

// Robots serves the embedded robots.txt with the absolute sitemap URL appended.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	content, err := fs.ReadFile(h.assets, "robots.txt")
	if err != nil {
		content = []byte("User-agent: *\nAllow: /\n")
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(content)
	w.Write([]byte("Sitemap: " + h.baseURL + "/sitemap.xml\n"))
}

func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	sitemap, err := h.sitemapService.GenerateSitemap(r.Context())
	if err != nil {
		slog.Error("failed to generate sitemap", "error", err)
		http.Error(w, "Failed to generate sitemap", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(sitemap)
}
