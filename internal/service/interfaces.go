package service

import (
	"context"

	"github.com/recipehub/backend/internal/model"
)

// MediaObject identifies an uploaded object in the media store.
type MediaObject struct {
	ExternalID string
	URL        string
}

// MediaStore is the narrow contract with the external image host: upload a
// local file to the fixed folder, delete by identifier.
type MediaStore interface {
	Upload(ctx context.Context, localPath string, contentType string) (*MediaObject, error)
	Delete(ctx context.Context, externalID string) error
}

// RecipeCache is the side-channel accelerator for read endpoints. Every
// implementation must swallow its own failures: a broken cache behaves like
// an empty one.
type RecipeCache interface {
	GetRecipe(ctx context.Context, id string) (*model.Recipe, bool)
	SetRecipe(ctx context.Context, id string, recipe *model.Recipe)
	GetList(ctx context.Context, page, limit int) (*RecipeList, bool)
	SetList(ctx context.Context, page, limit int, list *RecipeList)
	InvalidateRecipe(ctx context.Context, id string)
	InvalidateLists(ctx context.Context)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, input CreateRecipeInput) (*model.Recipe, error)
	ListRecipes(ctx context.Context, page, limit int) (*RecipeList, error)
	GetRecipe(ctx context.Context, id string) (*model.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, patch model.RecipePatch, image *ImageUpload) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
}
