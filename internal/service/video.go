package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
	"github.com/recipebox/recipebox/internal/validation"
)

type VideoInput struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description" validate:"max=5000"`
	VideoURL    string `form:"video_url" validate:"required,http_url"`
	Published   bool   `form:"published"`
}

type VideoService struct {
	videoRepository repository.VideoRepository
	now             func() time.Time
}

func NewVideoService(videoRepository repository.VideoRepository) *VideoService {
	return &VideoService{
		videoRepository: videoRepository,
		now:             time.Now,
	}
}

func (s *VideoService) Create(input VideoInput) (*model.Video, error) {
	input, err := cleanVideoInput(input)
	if err != nil {
		return nil, err
	}

	video := &model.Video{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		VideoURL:    input.VideoURL,
		Published:   input.Published,
		CreatedAt:   s.now(),
	}

	err = s.videoRepository.Create(video)
	if err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}

	slog.Info("video created", "video_id", video.ID, "published", video.Published)
	return video, nil
}

func (s *VideoService) ByID(id string) (*model.Video, error) {
	video, err := s.videoRepository.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return video, nil
}

func (s *VideoService) Published(limit int) ([]*model.Video, error) {
	return s.videoRepository.Published(limit)
}

func (s *VideoService) All() ([]*model.Video, error) {
	return s.videoRepository.All()
}

func (s *VideoService) Update(id string, input VideoInput) (*model.Video, error) {
	input, err := cleanVideoInput(input)
	if err != nil {
		return nil, err
	}

	video, err := s.ByID(id)
	if err != nil {
		return nil, err
	}

	video.Title = input.Title
	video.Description = input.Description
	video.VideoURL = input.VideoURL
	video.Published = input.Published

	err = s.videoRepository.Update(video)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to update video: %w", err)
	}

	slog.Info("video updated", "video_id", id)
	return video, nil
}

func (s *VideoService) Delete(id string) error {
	err := s.videoRepository.Delete(id)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return ErrVideoNotFound
		}
		return fmt.Errorf("failed to delete video: %w", err)
	}

	slog.Info("video deleted", "video_id", id)
	return nil
}

func cleanVideoInput(input VideoInput) (VideoInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.VideoURL = strings.TrimSpace(input.VideoURL)

	err := validation.Struct(input)
	if err != nil {
		if validation.IsRequiredError(err) {
			return input, ErrMissingFields
		}
		var fe *validation.FieldError
		if errors.As(err, &fe) && fe.Field == "video_url" {
			return input, ErrInvalidVideoURL
		}
		return input, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return input, nil
}
