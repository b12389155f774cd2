package model

import (
	"errors"
	"strings"
)

const (
	ContentKindRecipe = "recipe"
	ContentKindVideo  = "video"
)

var ErrInvalidContentRef = errors.New("invalid content reference")

// ContentRef identifies a recipe or a video unambiguously, e.g. "recipe:65a1...".
type ContentRef struct {
	Kind string
	ID   string
}

func ParseContentRef(s string) (ContentRef, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return ContentRef{}, ErrInvalidContentRef
	}
	if kind != ContentKindRecipe && kind != ContentKindVideo {
		return ContentRef{}, ErrInvalidContentRef
	}
	return ContentRef{Kind: kind, ID: id}, nil
}

func (c ContentRef) String() string {
	if c.Kind == "" {
		return ""
	}
	return c.Kind + ":" + c.ID
}

func RecipeRef(id string) ContentRef {
	return ContentRef{Kind: ContentKindRecipe, ID: id}
}

func VideoRef(id string) ContentRef {
	return ContentRef{Kind: ContentKindVideo, ID: id}
}
