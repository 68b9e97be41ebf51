package service

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipehub/backend/internal/model"
)

const (
	// DefaultPage and DefaultLimit apply when the caller omits pagination.
	DefaultPage  = 1
	DefaultLimit = 10
)

// isValidImageType reports whether the declared MIME type is accepted for
// recipe images. Only JPG, JPEG and PNG are allowed.
func isValidImageType(mimeType string) bool {
	return mimeType == "image/jpeg" ||
		mimeType == "image/png" ||
		mimeType == "image/jpg"
}

// cleanupTempFile removes the temporary upload copy. Best-effort: failures
// are logged and never surfaced to the caller.
func cleanupTempFile(path string) {
	if err := os.Remove(path); err != nil {
		log.Printf("[RecipeService] failed to delete temp file %s: %v", path, err)
	}
}

// ImageUpload describes an incoming image file already spooled to disk by
// the HTTP boundary.
type ImageUpload struct {
	TempPath    string
	ContentType string
}

// CreateRecipeInput carries the fields for a new recipe.
type CreateRecipeInput struct {
	Title        string
	Ingredients  string
	Instructions string
	Image        *ImageUpload
}

// RecipeList is a single page of recipes with pagination metadata.
type RecipeList struct {
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Pages int            `json:"pages"`
	Data  []model.Recipe `json:"data"`
}

// RecipeServiceOptions control the cache and media lifecycle behavior.
type RecipeServiceOptions struct {
	// CacheReads gates the cache read path. Writes populate the cache
	// either way.
	CacheReads bool
	// InvalidateOnWrite purges affected cache keys on create/update/delete.
	// When off, list and id entries may serve stale data until TTL expiry.
	InvalidateOnWrite bool
	// PurgeMediaOnDelete removes the stored image object when its recipe
	// is deleted.
	PurgeMediaOnDelete bool
}

// RecipeService orchestrates validation, image lifecycle, cache population
// and pagination on top of the repository and the media store.
type RecipeService struct {
	db    *gorm.DB
	media MediaStore
	cache RecipeCache
	opts  RecipeServiceOptions
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, media MediaStore, cache RecipeCache, opts RecipeServiceOptions) *RecipeService {
	return &RecipeService{
		db:    db,
		media: media,
		cache: cache,
		opts:  opts,
	}
}

// CreateRecipe validates the input, uploads the optional image and persists
// a new recipe. Image validation happens before any side effect.
func (s *RecipeService) CreateRecipe(ctx context.Context, input CreateRecipeInput) (*model.Recipe, error) {
	if input.Title == "" || input.Ingredients == "" || input.Instructions == "" {
		return nil, NewValidationError("title, ingredients and instructions are required")
	}

	if input.Image != nil && !isValidImageType(input.Image.ContentType) {
		return nil, NewValidationError("Invalid file type. Only JPG, JPEG, and PNG are allowed.")
	}

	recipe := &model.Recipe{
		Title:        input.Title,
		Ingredients:  input.Ingredients,
		Instructions: input.Instructions,
		Images:       model.RecipeImages{},
	}

	if input.Image != nil {
		// The temp copy goes away whether or not the upload succeeds.
		defer cleanupTempFile(input.Image.TempPath)

		object, err := s.media.Upload(ctx, input.Image.TempPath, input.Image.ContentType)
		if err != nil {
			return nil, NewDependencyError("failed to upload image", err)
		}
		recipe.Images = model.RecipeImages{{ExternalID: object.ExternalID, URL: object.URL}}
	}

	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, NewDependencyError("failed to create recipe", err)
	}

	s.invalidateAfterWrite(ctx, recipe.ID.String())
	return recipe, nil
}

// ListRecipes returns one page of recipes ordered by creation time
// descending, populating the list cache with the computed page.
func (s *RecipeService) ListRecipes(ctx context.Context, page, limit int) (*RecipeList, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	skip := (page - 1) * limit

	if s.opts.CacheReads {
		if cached, ok := s.cache.GetList(ctx, page, limit); ok {
			return cached, nil
		}
	}

	var recipes []model.Recipe
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, NewDependencyError("failed to fetch recipes", err)
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Recipe{}).Count(&total).Error; err != nil {
		return nil, NewDependencyError("failed to count recipes", err)
	}

	pages := int((total + int64(limit) - 1) / int64(limit))

	list := &RecipeList{
		Total: total,
		Page:  page,
		Pages: pages,
		Data:  recipes,
	}

	s.cache.SetList(ctx, page, limit, list)
	return list, nil
}

// GetRecipe fetches a single recipe by id, via the cache when enabled.
func (s *RecipeService) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	if id == "" {
		return nil, NewNotFoundError("Recipe not found")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, NewValidationError("invalid recipe id")
	}

	if s.opts.CacheReads {
		if cached, ok := s.cache.GetRecipe(ctx, id); ok {
			return cached, nil
		}
	}

	recipe, err := s.loadRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.SetRecipe(ctx, id, recipe)
	return recipe, nil
}

// UpdateRecipe merges the patch onto an existing recipe. A new image
// replaces the current one; the old media object is deleted best-effort.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id string, patch model.RecipePatch, image *ImageUpload) (*model.Recipe, error) {
	if id == "" {
		return nil, NewNotFoundError("Recipe not found")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, NewValidationError("invalid recipe id")
	}
	if err := validatePatch(&patch); err != nil {
		return nil, err
	}

	if image != nil {
		return s.updateWithImage(ctx, id, patch, image)
	}

	recipe, err := s.loadRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	if !patch.Empty() {
		if err := s.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", id).Updates(patch.Updates()).Error; err != nil {
			return nil, NewDependencyError("failed to update recipe", err)
		}
		patch.Apply(recipe)
	}

	s.invalidateAfterWrite(ctx, id)
	return recipe, nil
}

func (s *RecipeService) updateWithImage(ctx context.Context, id string, patch model.RecipePatch, image *ImageUpload) (*model.Recipe, error) {
	if !isValidImageType(image.ContentType) {
		return nil, NewValidationError("Invalid file type. Only JPG, JPEG, and PNG are allowed.")
	}

	defer cleanupTempFile(image.TempPath)

	object, err := s.media.Upload(ctx, image.TempPath, image.ContentType)
	if err != nil {
		return nil, NewDependencyError("failed to upload image", err)
	}

	recipe, err := s.loadRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	// Drop the replaced object. Non-fatal: an orphan in the media store is
	// preferable to failing the update.
	if len(recipe.Images) > 0 {
		if err := s.media.Delete(ctx, recipe.Images[0].ExternalID); err != nil {
			log.Printf("[RecipeService] failed to delete replaced image %s: %v", recipe.Images[0].ExternalID, err)
		}
	}

	patch.Apply(recipe)
	recipe.Images = model.RecipeImages{{ExternalID: object.ExternalID, URL: object.URL}}

	if err := s.db.WithContext(ctx).Save(recipe).Error; err != nil {
		return nil, NewDependencyError("failed to update recipe", err)
	}

	s.invalidateAfterWrite(ctx, id)
	return recipe, nil
}

// DeleteRecipe removes a recipe, optionally purging its media object.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id string) error {
	if id == "" {
		return NewNotFoundError("Recipe not found")
	}
	if _, err := uuid.Parse(id); err != nil {
		return NewValidationError("invalid recipe id")
	}

	recipe, err := s.loadRecipe(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&model.Recipe{}, "id = ?", id).Error; err != nil {
		return NewDependencyError("failed to delete recipe", err)
	}

	if s.opts.PurgeMediaOnDelete && len(recipe.Images) > 0 {
		if err := s.media.Delete(ctx, recipe.Images[0].ExternalID); err != nil {
			log.Printf("[RecipeService] failed to purge image %s: %v", recipe.Images[0].ExternalID, err)
		}
	}

	s.invalidateAfterWrite(ctx, id)
	return nil
}

func (s *RecipeService) loadRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Recipe not found")
		}
		return nil, NewDependencyError("failed to fetch recipe", err)
	}
	return &recipe, nil
}

func validatePatch(patch *model.RecipePatch) error {
	if patch.Title != nil && *patch.Title == "" {
		return NewValidationError("title must not be empty")
	}
	if patch.Ingredients != nil && *patch.Ingredients == "" {
		return NewValidationError("ingredients must not be empty")
	}
	if patch.Instructions != nil && *patch.Instructions == "" {
		return NewValidationError("instructions must not be empty")
	}
	return nil
}

func (s *RecipeService) invalidateAfterWrite(ctx context.Context, id string) {
	if !s.opts.InvalidateOnWrite {
		return
	}
	s.cache.InvalidateRecipe(ctx, id)
	s.cache.InvalidateLists(ctx)
}
