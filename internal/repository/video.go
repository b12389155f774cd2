package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/recipebox/recipebox/internal/model"
)

var ErrVideoNotFound = errors.New("video not found")

type VideoRepository interface {
	Create(video *model.Video) error
	ByID(id string) (*model.Video, error)
	Published(limit int) ([]*model.Video, error)
	All() ([]*model.Video, error)
	Update(video *model.Video) error
	Delete(id string) error
}

type videoRepository struct {
	db *sqlx.DB
}

func NewVideoRepository(db *sqlx.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(video *model.Video) error {
	query := `
		INSERT INTO videos (id, title, description, video_url, published, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(query,
		video.ID,
		video.Title,
		video.Description,
		video.VideoURL,
		video.Published,
		video.CreatedAt.UTC(),
	)
	return err
}

func (r *videoRepository) ByID(id string) (*model.Video, error) {
	video := &model.Video{}
	err := r.db.Get(video, `SELECT * FROM videos WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, err
	}
	return video, nil
}

// Published returns the newest published videos. A limit <= 0 returns all of them.
func (r *videoRepository) Published(limit int) ([]*model.Video, error) {
	videos := []*model.Video{}
	if limit <= 0 {
		err := r.db.Select(&videos, `SELECT * FROM videos WHERE published = TRUE ORDER BY created_at DESC`)
		return videos, err
	}
	err := r.db.Select(&videos, `SELECT * FROM videos WHERE published = TRUE ORDER BY created_at DESC LIMIT $1`, limit)
	return videos, err
}

func (r *videoRepository) All() ([]*model.Video, error) {
	videos := []*model.Video{}
	err := r.db.Select(&videos, `SELECT * FROM videos ORDER BY created_at DESC`)
	return videos, err
}

func (r *videoRepository) Update(video *model.Video) error {
	query := `UPDATE videos SET title = $1, description = $2, video_url = $3, published = $4 WHERE id = $5`

	result, err := r.db.Exec(query, video.Title, video.Description, video.VideoURL, video.Published, video.ID)
	return videoAffected(result, err)
}

func (r *videoRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM videos WHERE id = $1`, id)
	return videoAffected(result, err)
}

func videoAffected(result sql.Result, err error) error {
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrVideoNotFound
	}
	return nil
}
