package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/recipebox/recipebox/internal/service"
	"github.com/recipebox/recipebox/internal/ui"
	"github.com/recipebox/recipebox/internal/validation"
)

var errImageRejected = errors.New("image rejected")

// notices are the confirmations shown after a redirect, keyed by the
// notice query parameter.
var notices = map[string]string{
	"recipe_submitted": "Thanks! Your recipe will appear once an admin has reviewed it.",
	"video_submitted":  "Thanks! Your video will appear once an admin has reviewed it.",
	"recipe_created":   "Recipe added.",
	"recipe_updated":   "Recipe saved.",
	"recipe_deleted":   "Recipe deleted.",
	"video_created":    "Video added.",
	"video_updated":    "Video saved.",
	"video_deleted":    "Video deleted.",
	"user_created":     "Account created. A verification email is on its way.",
	"user_banned":      "User banned.",
	"user_unbanned":    "User unbanned.",
	"role_updated":     "Role updated.",
	"user_deleted":     "User deleted.",
}

func noticeFlash(r *http.Request) ui.Flash {
	return ui.Success(notices[r.URL.Query().Get("notice")])
}

func redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	http.Redirect(w, r, path+"?notice="+url.QueryEscape(notice), http.StatusSeeOther)
}

// contentMessage turns a content validation error into form feedback.
func contentMessage(err error) (string, bool) {
	var fe *validation.FieldError
	switch {
	case errors.Is(err, service.ErrMissingFields):
		return msgMissingFields, true
	case errors.Is(err, service.ErrInvalidVideoURL):
		return "Please enter a valid video URL starting with http:// or https://", true
	case errors.Is(err, errImageRejected):
		return "Please upload a JPEG, PNG, WebP or GIF image of at most 5 MB.", true
	case errors.As(err, &fe):
		return fe.Error(), true
	case errors.Is(err, service.ErrValidation):
		return "Please check the form and try again.", true
	}
	return "", false
}

// recipeInput reads a recipe form. An attached image is stored and
// replaces the image URL field.
func recipeInput(r *http.Request, recipes *service.RecipeService, published bool) (service.RecipeInput, error) {
	input := service.RecipeInput{
		Title:        r.FormValue("title"),
		Ingredients:  r.FormValue("ingredients"),
		Instructions: r.FormValue("instructions"),
		ImageURL:     r.FormValue("imageUrl"),
		Published:    published,
	}

	if !recipes.UploadsEnabled() || r.MultipartForm == nil {
		return input, nil
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return input, nil
	}
	if err != nil {
		return input, fmt.Errorf("%w: %w", errImageRejected, err)
	}
	defer file.Close()

	imageURL, err := recipes.UploadImage(r.Context(), file, header)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return input, fmt.Errorf("%w: %w", errImageRejected, err)
		}
		return input, err
	}
	input.ImageURL = imageURL
	return input, nil
}

func videoInput(r *http.Request, published bool) service.VideoInput {
	return service.VideoInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		VideoURL:    r.FormValue("video_url"),
		Published:   published,
	}
}
