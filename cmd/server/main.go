package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "cakeshop/internal/adapters/web"
	"cakeshop/internal/ai"
	"cakeshop/internal/app"
	"cakeshop/internal/core"
	"cakeshop/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
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

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
