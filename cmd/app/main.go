package main

import (
	"context"
	"log"
	"os"

	"cakeshop/internal/adapters/cli"
	"cakeshop/internal/ai"
	"cakeshop/internal/app"
	"cakeshop/internal/core"
	"cakeshop/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		log.Fatal("Usage: app <command> [args]\nCommands: stock, cakes, orders, order, resolve, usage, fulfill, restock, apply-restock")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	store := core.NewPGStore(pool)
	ingredients := core.NewIngredientService(pool)
	cakes := core.NewCakeService(pool)
	recipes := core.NewRecipeService(pool)
	orders := core.NewOrderService(pool)
	resolution := core.NewResolutionService(store)

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set")
	}
	agent := ai.NewAgent(apiKey)

	svc := app.NewAppService(ingredients, cakes, recipes, orders, resolution, agent)

	cli.Run(ctx, svc, os.Args[1:])
}
