package testhelpers

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/recipehub/backend/internal/model"
	"github.com/recipehub/backend/internal/service"
)

// MockMediaStore is a mock implementation of the MediaStore interface
type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Upload(ctx context.Context, localPath string, contentType string) (*service.MediaObject, error) {
	args := m.Called(localPath, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MediaObject), args.Error(1)
}

func (m *MockMediaStore) Delete(ctx context.Context, externalID string) error {
	args := m.Called(externalID)
	return args.Error(0)
}

// FakeRecipeCache is a map-backed RecipeCache for tests. It records hit and
// set counts so tests can assert on cache traffic.
type FakeRecipeCache struct {
	mu      sync.Mutex
	recipes map[string]*model.Recipe
	lists   map[[2]int]*service.RecipeList

	ListHits int
	ListSets int
}

func NewFakeRecipeCache() *FakeRecipeCache {
	return &FakeRecipeCache{
		recipes: make(map[string]*model.Recipe),
		lists:   make(map[[2]int]*service.RecipeList),
	}
}

func (c *FakeRecipeCache) GetRecipe(ctx context.Context, id string) (*model.Recipe, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	recipe, ok := c.recipes[id]
	return recipe, ok
}

func (c *FakeRecipeCache) SetRecipe(ctx context.Context, id string, recipe *model.Recipe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recipes[id] = recipe
}

func (c *FakeRecipeCache) GetList(ctx context.Context, page, limit int) (*service.RecipeList, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list, ok := c.lists[[2]int{page, limit}]
	if ok {
		c.ListHits++
	}
	return list, ok
}

func (c *FakeRecipeCache) SetList(ctx context.Context, page, limit int, list *service.RecipeList) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[[2]int{page, limit}] = list
	c.ListSets++
}

func (c *FakeRecipeCache) InvalidateRecipe(ctx context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.recipes, id)
}

func (c *FakeRecipeCache) InvalidateLists(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists = make(map[[2]int]*service.RecipeList)
}
