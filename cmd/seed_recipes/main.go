package main

import (
	"fmt"
	"log"
	"time"

	"github.com/recipehub/backend/config"
	"github.com/recipehub/backend/internal/database"
	"github.com/recipehub/backend/internal/model"
)

const numRecipes = 25

var samples = []struct {
	title        string
	ingredients  string
	instructions string
}{
	{"Pancakes", "flour, milk, egg, butter", "Whisk, rest the batter, fry on medium heat."},
	{"Tomato Soup", "tomatoes, onion, garlic, stock", "Sweat the onion, add tomatoes and stock, simmer, blend."},
	{"Garlic Bread", "baguette, butter, garlic, parsley", "Mix garlic butter, spread, bake until golden."},
	{"Greek Salad", "cucumber, tomato, feta, olives, olive oil", "Chop, combine, dress with oil and oregano."},
	{"Fried Rice", "rice, egg, scallions, soy sauce", "Fry day-old rice, push aside, scramble egg, combine."},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	base := time.Now().Add(-time.Duration(numRecipes) * time.Minute)
	for i := 0; i < numRecipes; i++ {
		sample := samples[i%len(samples)]
		recipe := model.Recipe{
			Title:        fmt.Sprintf("%s #%d", sample.title, i+1),
			Ingredients:  sample.ingredients,
			Instructions: sample.instructions,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(&recipe).Error; err != nil {
			log.Fatalf("Failed to seed recipe %d: %v", i+1, err)
		}
	}

	log.Printf("Seeded %d recipes", numRecipes)
}
