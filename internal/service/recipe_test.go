package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/recipehub/backend/internal/model"
	"github.com/recipehub/backend/internal/service"
	"github.com/recipehub/backend/internal/testhelpers"
)

func setupRecipeService(t *testing.T, opts service.RecipeServiceOptions) (*service.RecipeService, *gorm.DB, *testhelpers.MockMediaStore, *testhelpers.FakeRecipeCache) {
	db := testhelpers.SetupTestDB(t)
	media := new(testhelpers.MockMediaStore)
	cache := testhelpers.NewFakeRecipeCache()
	svc := service.NewRecipeService(db, media, cache, opts)
	return svc, db, media, cache
}

func writeTempImage(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "upload.png")
	if err := os.WriteFile(path, []byte("not really a png"), 0o644); err != nil {
		t.Fatalf("failed to write temp image: %v", err)
	}
	return path
}

func seedRecipes(t *testing.T, db *gorm.DB, titles ...string) []model.Recipe {
	base := time.Now().Add(-time.Hour)
	recipes := make([]model.Recipe, 0, len(titles))
	for i, title := range titles {
		recipe := model.Recipe{
			Title:        title,
			Ingredients:  "ingredients for " + title,
			Instructions: "instructions for " + title,
			CreatedAt:    base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, db.Create(&recipe).Error)
		recipes = append(recipes, recipe)
	}
	return recipes
}

func TestCreateRecipeWithoutImage(t *testing.T) {
	svc, _, media, _ := setupRecipeService(t, service.RecipeServiceOptions{})

	recipe, err := svc.CreateRecipe(context.Background(), service.CreateRecipeInput{
		Title:        "Pancakes",
		Ingredients:  "flour,milk,egg",
		Instructions: "mix and fry",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, recipe.ID)
	assert.Equal(t, "Pancakes", recipe.Title)
	assert.Equal(t, "flour,milk,egg", recipe.Ingredients)
	assert.Equal(t, "mix and fry", recipe.Instructions)
	assert.Empty(t, recipe.Images)
	assert.False(t, recipe.CreatedAt.IsZero())

	media.AssertNotCalled(t, "Upload")
}

func TestCreateRecipeMissingFields(t *testing.T) {
	svc, db, _, _ := setupRecipeService(t, service.RecipeServiceOptions{})

	_, err := svc.CreateRecipe(context.Background(), service.CreateRecipeInput{
		Title: "Pancakes",
	})
	require.Error(t, err)
	assert.Equal(t, service.KindValidation, service.KindOf(err))

	var count int64
	require.NoError(t, db.Model(&model.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRecipeRejectsDisallowedImageType(t *testing.T) {
	svc, db, media, _ := setupRecipeService(t, service.RecipeServiceOptions{})

	_, err := svc.CreateRecipe(context.Background(), service.CreateRecipeInput{
		Title:        "Pancakes",
		Ingredients:  "flour",
		Instructions: "fry",
		Image:        &service.ImageUpload{TempPath: writeTempImage(t), ContentType: "image/gif"},
	})
	require.Error(t, err)
	assert.Equal(t, service.KindValidation, service.KindOf(err))

	// No partial side effects: nothing persisted, nothing uploaded.
	var count int64
	require.NoError(t, db.Model(&model.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
	media.AssertNotCalled(t, "Upload")
}

func TestCreateRecipeWithImage(t *testing.T) {
	svc, _, media, _ := setupRecipeService(t, service.RecipeServiceOptions{})

	tempPath := writeTempImage(t)
	media.On("Upload", tempPath, "image/png").Return(&service.MediaObject{
		ExternalID: "recipes/abc.png",
		URL:        "https://bucket.s3.amazonaws.com/recipes/abc.png",
	}, nil)

	recipe, err := svc.CreateRecipe(context.Background(), service.CreateRecipeInput{
		Title:        "Pancakes",
		Ingredients:  "flour",
		Instructions: "fry",
		Image:        &service.ImageUpload{TempPath: tempPath, ContentType: "image/png"},
	})
	require.NoError(t, err)

	require.Len(t, recipe.Images, 1)
	assert.Equal(t, "recipes/abc.png", recipe.Images[0].ExternalID)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/recipes/abc.png", recipe.Images[0].URL)
	media.AssertExpectations(t)

	// The temp copy is removed after upload.
	_, statErr := os.Stat(tempPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestListRecipesPagination(t *testing.T) {
	svc, db, _, _ := setupRecipeService(t, service.RecipeServiceOptions{})

	titles := make([]string, 25)
	for i := range titles {
		titles[i] = "Recipe"
	}
	seedRecipes(t, db, titles...)

	list, err := svc.ListRecipes(context.Background(), 3, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(25), list.Total)
	assert.Equal(t, 3, list.Page)
	assert.Equal(t, 3, list.Pages)
	assert.Len(t, list.Data, 5)
}

func TestListRecipesOrdering(t *testing.T) {
	svc, db, _, _ := setupRecipeService(t, service.RecipeServiceOptions{})

	seedRecipes(t, db, "A", "B", "C")

	list, err := svc.ListRecipes(context.Background(), 0, 0)
	require.NoError(t, err)

	require.Len(t, list.Data, 3)
	assert.Equal(t, "C", list.Data[0].Title)
	assert.Equal(t, "B", list.Data[1].Title)
	assert.Equal(t, "A", list.Data[2].Title)
	assert.Equal(t, 1, list.Page)
}

func TestListRecipesServesCachedPageUntilExpiry(t *testing.T) {
	svc, db, _, cache := setupRecipeService(t, service.RecipeServiceOptions{CacheReads: true})

	seedRecipes(t, db, "A", "B")

	first, err := svc.ListRecipes(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), first.Total)
	assert.Equal(t, 1, cache.ListSets)

	// An intervening create does not purge the cached page.
	seedRecipes(t, db, "C")

	second, err := svc.ListRecipes(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Total)
	assert.Equal(t, 1, cache.ListHits)
	assert.Equal(t, 1, cache.ListSets)
}

func TestListRecipesCacheReadsDisabled(t *testing.T) {
	svc, db, _, cache := setupRecipeService(t, service.RecipeServiceOptions{CacheReads: false})

	seedRecipes(t, db, "A")
	cache.SetList(context.Background(), 1, 10, &service.RecipeList{Total: 99, Page: 1, Pages: 10})
	setsBefore := cache.ListSets

	list, err := svc.ListRecipes(context.Background(), 1, 10)
	require.NoError(t, err)

	// Storage answered, but the cache was still repopulated.
	assert.Equal(t, int64(1), list.Total)
	assert.Zero(t, cache.ListHits)
	assert.Equal(t, setsBefore+1, cache.ListSets)
}

func TestGetRecipe(t *testing.T) {
	svc, db, _, _ := setupRecipeService(t, service.RecipeServiceOptions{})

	seeded := seedRecipes(t, db, "Pancakes")

	first, err := svc.GetRecipe(context.Background(), seeded[0].ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", first.Title)

	// Repeated reads return structurally identical data.
	second, err := svc.GetRecipe(context.Background(), seeded[0].ID.String())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.Images, second.Images)
}

func TestGetRecipeErrors(t *testing.T) {
	svc, _, _, _ := setupRecipeService(t, service.RecipeServiceOptions{})

	_, err := svc.GetRecipe(context.Background(), "")
	assert.True(t, service.IsNotFound(err))

	_, err = svc.GetRecipe(context.Background(), uuid.NewString())
	assert.True(t, service.IsNotFound(err))

	_, err = svc.GetRecipe(context.Background(), "not-a-uuid")
	assert.Equal(t, service.KindValidation, service.KindOf(err))
}

func TestUpdateRecipeTitleOnly(t *testing.T) {
	svc, db, _, _ := setupRecipeService(t, service.RecipeServiceOptions{})

	seeded := seedRecipes(t, db, "Pancakes")
	id := seeded[0].ID.String()

	title := "Crepes"
	updated, err := svc.UpdateRecipe(context.Background(), id, model.RecipePatch{Title: &title}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Crepes", updated.Title)

	var stored model.Recipe
	require.NoError(t, db.First(&stored, "id = ?", id).Error)
	assert.Equal(t, "Crepes", stored.Title)
	assert.Equal(t, seeded[0].Ingredients, stored.Ingredients)
	assert.Equal(t, seeded[0].Instructions, stored.Instructions)
	assert.Empty(t, stored.Images)
}

func TestUpdateRecipeRejectsEmptyField(t *testing.T) {
	svc, db, _, _ := setupRecipeService(t, service.RecipeServiceOptions{})

	seeded := seedRecipes(t, db, "Pancakes")
	empty := ""

	_, err := svc.UpdateRecipe(context.Background(), seeded[0].ID.String(), model.RecipePatch{Ingredients: &empty}, nil)
	require.Error(t, err)
	assert.Equal(t, service.KindValidation, service.KindOf(err))
}

func TestUpdateRecipeUnknownID(t *testing.T) {
	svc, _, _, _ := setupRecipeService(t, service.RecipeServiceOptions{})

	title := "Crepes"
	_, err := svc.UpdateRecipe(context.Background(), uuid.NewString(), model.RecipePatch{Title: &title}, nil)
	assert.True(t, service.IsNotFound(err))
}

func TestUpdateRecipeReplacesImage(t *testing.T) {
	svc, db, media, _ := setupRecipeService(t, service.RecipeServiceOptions{})

	recipe := model.Recipe{
		Title:        "Pancakes",
		Ingredients:  "flour",
		Instructions: "fry",
		Images:       model.RecipeImages{{ExternalID: "recipes/old.jpg", URL: "https://bucket.s3.amazonaws.com/recipes/old.jpg"}},
	}
	require.NoError(t, db.Create(&recipe).Error)

	tempPath := writeTempImage(t)
	media.On("Upload", tempPath, "image/jpeg").Return(&service.MediaObject{
		ExternalID: "recipes/new.jpg",
		URL:        "https://bucket.s3.amazonaws.com/recipes/new.jpg",
	}, nil)
	media.On("Delete", "recipes/old.jpg").Return(nil)

	title := "Crepes"
	updated, err := svc.UpdateRecipe(context.Background(), recipe.ID.String(), model.RecipePatch{Title: &title},
		&service.ImageUpload{TempPath: tempPath, ContentType: "image/jpeg"})
	require.NoError(t, err)

	assert.Equal(t, "Crepes", updated.Title)
	require.Len(t, updated.Images, 1)
	assert.Equal(t, "recipes/new.jpg", updated.Images[0].ExternalID)
	media.AssertExpectations(t)
}

func TestUpdateRecipeKeepsImageWithoutNewUpload(t *testing.T) {
	svc, db, media, _ := setupRecipeService(t, service.RecipeServiceOptions{})

	recipe := model.Recipe{
		Title:        "Pancakes",
		Ingredients:  "flour",
		Instructions: "fry",
		Images:       model.RecipeImages{{ExternalID: "recipes/keep.jpg", URL: "https://bucket.s3.amazonaws.com/recipes/keep.jpg"}},
	}
	require.NoError(t, db.Create(&recipe).Error)

	title := "Crepes"
	updated, err := svc.UpdateRecipe(context.Background(), recipe.ID.String(), model.RecipePatch{Title: &title}, nil)
	require.NoError(t, err)

	require.Len(t, updated.Images, 1)
	assert.Equal(t, "recipes/keep.jpg", updated.Images[0].ExternalID)
	media.AssertNotCalled(t, "Delete")
}

func TestDeleteRecipe(t *testing.T) {
	svc, db, media, _ := setupRecipeService(t, service.RecipeServiceOptions{})

	seeded := seedRecipes(t, db, "Pancakes")
	id := seeded[0].ID.String()

	require.NoError(t, svc.DeleteRecipe(context.Background(), id))

	var count int64
	require.NoError(t, db.Model(&model.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)

	// Media purge is off by default.
	media.AssertNotCalled(t, "Delete")
}

func TestDeleteRecipeUnknownID(t *testing.T) {
	svc, _, _, _ := setupRecipeService(t, service.RecipeServiceOptions{})

	err := svc.DeleteRecipe(context.Background(), uuid.NewString())
	assert.True(t, service.IsNotFound(err))

	err = svc.DeleteRecipe(context.Background(), "")
	assert.True(t, service.IsNotFound(err))
}

func TestDeleteRecipePurgesMediaWhenEnabled(t *testing.T) {
	svc, db, media, _ := setupRecipeService(t, service.RecipeServiceOptions{PurgeMediaOnDelete: true})

	recipe := model.Recipe{
		Title:        "Pancakes",
		Ingredients:  "flour",
		Instructions: "fry",
		Images:       model.RecipeImages{{ExternalID: "recipes/gone.jpg", URL: "https://bucket.s3.amazonaws.com/recipes/gone.jpg"}},
	}
	require.NoError(t, db.Create(&recipe).Error)

	media.On("Delete", "recipes/gone.jpg").Return(nil)

	require.NoError(t, svc.DeleteRecipe(context.Background(), recipe.ID.String()))
	media.AssertExpectations(t)
}

func TestWritesInvalidateCacheWhenEnabled(t *testing.T) {
	svc, db, _, cache := setupRecipeService(t, service.RecipeServiceOptions{
		CacheReads:        true,
		InvalidateOnWrite: true,
	})

	seedRecipes(t, db, "A")
	_, err := svc.ListRecipes(context.Background(), 1, 10)
	require.NoError(t, err)

	_, err = svc.CreateRecipe(context.Background(), service.CreateRecipeInput{
		Title:        "B",
		Ingredients:  "b",
		Instructions: "b",
	})
	require.NoError(t, err)

	list, err := svc.ListRecipes(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Total)
	assert.Zero(t, cache.ListHits)
}
