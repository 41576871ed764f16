// seed is a one-shot tool that applies the schema and loads demo catalog data.
// Safe to re-run; all inserts upsert on conflict.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"log"
	"os"

	"cakeshop/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	schema, err := os.ReadFile("migrations/schema.sql")
	if err != nil {
		log.Fatalf("Failed to read schema file: %v", err)
	}

	log.Println("Applying schema...")
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		log.Fatalf("Schema failed: %v", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("Seeding ingredients...")
	_, err = tx.Exec(ctx, `
		INSERT INTO ingredients (id, name, unit, quantity, per_quantity, unit_price)
		VALUES
		  ('E001', 'Wheat Flour',     'g',   1000, 1, 0.0020),
		  ('E002', 'Sugar',           'g',    800, 1, 0.0030),
		  ('E003', 'Butter',          'g',    500, 1, 0.0090),
		  ('E004', 'Eggs',            'pcs',   60, 1, 0.3500),
		  ('E005', 'Dark Chocolate',  'g',    400, 1, 0.0150),
		  ('E006', 'Vanilla Extract', 'ml',   120, 1, 0.0800)
		ON CONFLICT (id) DO UPDATE
		  SET name = EXCLUDED.name,
		      unit = EXCLUDED.unit,
		      quantity = EXCLUDED.quantity,
		      per_quantity = EXCLUDED.per_quantity,
		      unit_price = EXCLUDED.unit_price,
		      updated_at = now();
	`)
	if err != nil {
		log.Fatalf("Failed to seed ingredients: %v", err)
	}

	log.Println("Seeding recipes...")
	_, err = tx.Exec(ctx, `
		INSERT INTO recipes (id, name)
		VALUES
		  ('R001', 'Chocolate Cake Base'),
		  ('R002', 'Vanilla Sponge')
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name;

		DELETE FROM recipe_lines WHERE recipe_id IN ('R001', 'R002');

		INSERT INTO recipe_lines (recipe_id, line_number, ingredient_id, quantity_per_unit)
		VALUES
		  ('R001', 1, 'E001', 50),
		  ('R001', 2, 'E002', 30),
		  ('R001', 3, 'E003', 20),
		  ('R001', 4, 'E004', 2),
		  ('R001', 5, 'E005', 40),
		  ('R002', 1, 'E001', 45),
		  ('R002', 2, 'E002', 35),
		  ('R002', 3, 'E003', 25),
		  ('R002', 4, 'E004', 3),
		  ('R002', 5, 'E006', 5);
	`)
	if err != nil {
		log.Fatalf("Failed to seed recipes: %v", err)
	}

	log.Println("Seeding cakes...")
	_, err = tx.Exec(ctx, `
		INSERT INTO cakes (id, name, recipe_id, price, description)
		VALUES
		  ('C001', 'Chocolate Cake', 'R001', 18.50, 'Rich dark chocolate layer cake'),
		  ('C002', 'Vanilla Dream',  'R002', 16.00, 'Light vanilla sponge with cream')
		ON CONFLICT (id) DO UPDATE
		  SET name = EXCLUDED.name,
		      recipe_id = EXCLUDED.recipe_id,
		      price = EXCLUDED.price,
		      description = EXCLUDED.description;
	`)
	if err != nil {
		log.Fatalf("Failed to seed cakes: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Println("Seed data loaded successfully.")
}
