package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultRecipeImage is served for recipes submitted without a picture.
const DefaultRecipeImage = "/assets/images/default-food.svg"

// Recipe is stored in the document store and has no owner reference.
type Recipe struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"title"`
	Ingredients  string             `bson:"ingredients"`
	Instructions string             `bson:"instructions"` // Markdown
	ImageURL     string             `bson:"imageUrl"`
	Published    bool               `bson:"published"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

func (r *Recipe) IDHex() string {
	return r.ID.Hex()
}
