package model

import "time"

type Video struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	VideoURL    string    `db:"video_url"`
	Published   bool      `db:"published"`
	CreatedAt   time.Time `db:"created_at"`
}
