package handler

import (
	"net/http"

	"github.com/recipebox/recipebox/internal/service"
	"github.com/recipebox/recipebox/internal/ui"
)

type VideoHandler struct {
	videoService *service.VideoService
}

func NewVideoHandler(videoService *service.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	videos, err := h.videoService.Published(0)
	if err != nil {
		serverError(w, r, "Failed to load videos", err)
		return
	}
	ui.Render(w, r, ui.Videos(videos))
}
