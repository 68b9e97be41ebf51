package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/recipehub/backend/internal/model"
)

// Cache key formats. The list key is deterministic in page and limit so
// repeated requests for the same page hit the same entry.
func recipeCacheKey(id string) string {
	return fmt.Sprintf("recipe_%s", id)
}

func listCacheKey(page, limit int) string {
	return fmt.Sprintf("recipes_page_%d_limit_%d", page, limit)
}

const listCacheKeyPattern = "recipes_page_*"

// RedisRecipeCache is a Redis-backed RecipeCache with per-key TTL. Redis
// failures are logged and reported as misses; the cache is an accelerator,
// never a source of truth.
type RedisRecipeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRecipeCache creates a new RedisRecipeCache instance
func NewRedisRecipeCache(client *redis.Client, ttl time.Duration) *RedisRecipeCache {
	return &RedisRecipeCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisRecipeCache) GetRecipe(ctx context.Context, id string) (*model.Recipe, bool) {
	payload, err := c.client.Get(ctx, recipeCacheKey(id)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("[Cache] get %s failed, treating as miss: %v", recipeCacheKey(id), err)
		return nil, false
	}

	var recipe model.Recipe
	if err := json.Unmarshal(payload, &recipe); err != nil {
		log.Printf("[Cache] corrupt entry %s, treating as miss: %v", recipeCacheKey(id), err)
		return nil, false
	}
	return &recipe, true
}

func (c *RedisRecipeCache) SetRecipe(ctx context.Context, id string, recipe *model.Recipe) {
	c.set(ctx, recipeCacheKey(id), recipe)
}

func (c *RedisRecipeCache) GetList(ctx context.Context, page, limit int) (*RecipeList, bool) {
	key := listCacheKey(page, limit)
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("[Cache] get %s failed, treating as miss: %v", key, err)
		return nil, false
	}

	var list RecipeList
	if err := json.Unmarshal(payload, &list); err != nil {
		log.Printf("[Cache] corrupt entry %s, treating as miss: %v", key, err)
		return nil, false
	}
	return &list, true
}

func (c *RedisRecipeCache) SetList(ctx context.Context, page, limit int, list *RecipeList) {
	c.set(ctx, listCacheKey(page, limit), list)
}

func (c *RedisRecipeCache) set(ctx context.Context, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		log.Printf("[Cache] marshal for %s failed: %v", key, err)
		return
	}
	if err := c.client.SetEx(ctx, key, payload, c.ttl).Err(); err != nil {
		log.Printf("[Cache] set %s failed: %v", key, err)
	}
}

// InvalidateRecipe drops the cached entry for a single recipe id.
func (c *RedisRecipeCache) InvalidateRecipe(ctx context.Context, id string) {
	if err := c.client.Del(ctx, recipeCacheKey(id)).Err(); err != nil {
		log.Printf("[Cache] del %s failed: %v", recipeCacheKey(id), err)
	}
}

// InvalidateLists drops every cached list page via SCAN so a write becomes
// visible on the next list request.
func (c *RedisRecipeCache) InvalidateLists(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, listCacheKeyPattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("[Cache] del %s failed: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("[Cache] scan %s failed: %v", listCacheKeyPattern, err)
	}
}
