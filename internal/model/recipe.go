package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeImage references an uploaded image in the media store.
type RecipeImage struct {
	ExternalID string `json:"external_id"`
	URL        string `json:"url"`
}

// RecipeImages is a custom type for handling image references in JSONB.
// Structurally a slice, but the service only ever reads and writes the
// first element.
type RecipeImages []RecipeImage

// Value implements the driver.Valuer interface
func (a RecipeImages) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *RecipeImages) Scan(value interface{}) error {
	if value == nil {
		*a = RecipeImages{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Recipe is the sole persisted entity: three free-form text fields and an
// optional single image reference.
type Recipe struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Title        string       `gorm:"size:255;not null" json:"title"`
	Ingredients  string       `gorm:"type:text;not null" json:"ingredients"`
	Instructions string       `gorm:"type:text;not null" json:"instructions"`
	Images       RecipeImages `gorm:"type:jsonb;not null;default:'[]'" json:"images"`
}

// BeforeCreate assigns the id so inserts work the same on Postgres and SQLite
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Images == nil {
		r.Images = RecipeImages{}
	}
	return nil
}

// RecipePatch enumerates the mutable text fields of a recipe. A nil field
// means "leave unchanged"; a present field replaces the stored value and
// must be non-empty.
type RecipePatch struct {
	Title        *string `json:"title"`
	Ingredients  *string `json:"ingredients"`
	Instructions *string `json:"instructions"`
}

// Empty reports whether the patch changes nothing.
func (p *RecipePatch) Empty() bool {
	return p.Title == nil && p.Ingredients == nil && p.Instructions == nil
}

// Apply merges the patch onto a recipe in place.
func (p *RecipePatch) Apply(r *Recipe) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Ingredients != nil {
		r.Ingredients = *p.Ingredients
	}
	if p.Instructions != nil {
		r.Instructions = *p.Instructions
	}
}

// Updates returns the patch as a column map for a partial update.
func (p *RecipePatch) Updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if p.Title != nil {
		updates["title"] = *p.Title
	}
	if p.Ingredients != nil {
		updates["ingredients"] = *p.Ingredients
	}
	if p.Instructions != nil {
		updates["instructions"] = *p.Instructions
	}
	return updates
}
