package repository

import (
	"context"
	"errors"

	"github.com/recipebox/recipebox/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrRecipeNotFound = errors.New("recipe not found")

const recipeCollection = "recipes"

type RecipeRepository interface {
	Create(ctx context.Context, recipe *model.Recipe) error
	ByID(ctx context.Context, id string) (*model.Recipe, error)
	Published(ctx context.Context, limit int) ([]*model.Recipe, error)
	All(ctx context.Context) ([]*model.Recipe, error)
	Update(ctx context.Context, recipe *model.Recipe) error
	Delete(ctx context.Context, id string) error
}

type recipeRepository struct {
	coll *mongo.Collection
}

func NewRecipeRepository(db *mongo.Database) RecipeRepository {
	return &recipeRepository{coll: db.Collection(recipeCollection)}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	if recipe.ID.IsZero() {
		recipe.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, recipe)
	return err
}

// ByID returns ErrRecipeNotFound for ids that are not valid ObjectIDs as well.
func (r *recipeRepository) ByID(ctx context.Context, id string) (*model.Recipe, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrRecipeNotFound
	}

	var recipe model.Recipe
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&recipe)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) Published(ctx context.Context, limit int) ([]*model.Recipe, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{"published": true}, opts)
}

func (r *recipeRepository) All(ctx context.Context) ([]*model.Recipe, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{}, opts)
}

func (r *recipeRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Recipe, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	recipes := []*model.Recipe{}
	err = cursor.All(ctx, &recipes)
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) Update(ctx context.Context, recipe *model.Recipe) error {
	update := bson.M{"$set": bson.M{
		"title":        recipe.Title,
		"ingredients":  recipe.Ingredients,
		"instructions": recipe.Instructions,
		"imageUrl":     recipe.ImageURL,
		"published":    recipe.Published,
	}}

	result, err := r.coll.UpdateByID(ctx, recipe.ID, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

func (r *recipeRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrRecipeNotFound
	}

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrRecipeNotFound
	}
	return nil
}
