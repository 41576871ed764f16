package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"cakeshop/internal/app"
	"cakeshop/internal/core"
)

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:], the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	switch args[0] {
	case "stock", "ingredients", "s":
		result, err := svc.ListIngredients(ctx)
		if err != nil {
			log.Fatalf("Failed to load ingredients: %v", err)
		}
		printStock(result)

	case "cakes":
		result, err := svc.ListCakes(ctx)
		if err != nil {
			log.Fatalf("Failed to load cakes: %v", err)
		}
		printCakes(result)

	case "orders":
		status := ""
		if len(args) > 1 {
			status = args[1]
		}
		result, err := svc.ListOrders(ctx, status)
		if err != nil {
			log.Fatalf("Failed to load orders: %v", err)
		}
		printOrders(result)

	case "order", "o":
		if len(args) < 2 {
			log.Fatal("Usage: app order <order-id>")
		}
		result, err := svc.GetOrder(ctx, args[1])
		if err != nil {
			log.Fatalf("Failed to load order: %v", err)
		}
		printOrder(result.Order)

	case "resolve", "res", "r":
		if len(args) < 2 {
			log.Fatal("Usage: app resolve <order-id>")
		}
		result, err := svc.ResolveOrderIngredients(ctx, args[1])
		if err != nil {
			log.Fatalf("Resolution failed: %v", err)
		}
		printReport(result.Report)

	case "usage", "u":
		if len(args) < 2 {
			log.Fatal("Usage: app usage <order-id>")
		}
		result, err := svc.OrderIngredientUsage(ctx, args[1])
		if err != nil {
			log.Fatalf("Usage computation failed: %v", err)
		}
		printUsage(result)

	case "fulfill", "f":
		if len(args) < 2 {
			log.Fatal("Usage: app fulfill <order-id>")
		}
		result, err := svc.FulfillOrder(ctx, args[1])
		if err != nil {
			log.Fatalf("Fulfillment failed: %v", err)
		}
		fmt.Printf("Order %s fulfilled.\n", result.Order.ID)
		printReport(result.Report)

	case "restock":
		if len(args) < 2 {
			log.Fatal("Usage: app restock \"<delivery note>\"")
		}
		result, err := svc.InterpretRestock(ctx, args[1])
		if err != nil {
			log.Fatalf("Agent error: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result.Proposal)

	case "apply-restock":
		var proposal core.RestockProposal
		if err := json.NewDecoder(os.Stdin).Decode(&proposal); err != nil {
			log.Fatalf("Invalid JSON: %v", err)
		}
		result, err := svc.ApplyRestock(ctx, proposal)
		if err != nil {
			log.Fatalf("Apply failed: %v", err)
		}
		fmt.Println("Restock applied.")
		printStock(result)

	default:
		log.Fatalf("Unknown command: %s\nAvailable: stock, cakes, orders, order, resolve, usage, fulfill, restock, apply-restock", args[0])
	}
}

func printStock(result *app.IngredientListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 66))
	fmt.Printf("  %-62s\n", "INGREDIENT STOCK")
	fmt.Println(strings.Repeat("=", 66))
	fmt.Printf("  %-8s %-28s %-8s %15s\n", "ID", "NAME", "UNIT", "ON HAND")
	fmt.Println(strings.Repeat("-", 66))
	for _, ing := range result.Ingredients {
		fmt.Printf("  %-8s %-28s %-8s %15s\n", ing.ID, ing.Name, ing.Unit, ing.Quantity.String())
	}
	fmt.Println(strings.Repeat("=", 66))
}

func printCakes(result *app.CakeListResult) {
	fmt.Println()
	fmt.Printf("  %-8s %-30s %-8s %10s\n", "ID", "NAME", "RECIPE", "PRICE")
	fmt.Println(strings.Repeat("-", 62))
	for _, c := range result.Cakes {
		fmt.Printf("  %-8s %-30s %-8s %10s\n", c.ID, c.Name, c.RecipeID, c.Price.StringFixed(2))
	}
}

func printOrders(result *app.OrderListResult) {
	fmt.Println()
	fmt.Printf("  %-38s %-22s %-10s %10s\n", "ID", "CUSTOMER", "STATUS", "TOTAL")
	fmt.Println(strings.Repeat("-", 86))
	for _, o := range result.Orders {
		fmt.Printf("  %-38s %-22s %-10s %10s\n", o.ID, o.CustomerName, o.Status, o.Total.StringFixed(2))
	}
}

func printOrder(o *core.Order) {
	fmt.Println()
	fmt.Printf("  Order    : %s\n", o.ID)
	fmt.Printf("  Customer : %s\n", o.CustomerName)
	fmt.Printf("  Status   : %s\n", o.Status)
	fmt.Printf("  Date     : %s\n", o.OrderDate)
	fmt.Println(strings.Repeat("-", 62))
	fmt.Printf("  %-8s %-30s %8s %10s\n", "CAKE", "NAME", "QTY", "PRICE")
	for _, l := range o.Lines {
		fmt.Printf("  %-8s %-30s %8d %10s\n", l.CakeID, l.CakeName, l.Quantity, l.UnitPrice.StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 62))
	fmt.Printf("  %-48s %10s\n", "TOTAL", o.Total.StringFixed(2))
}

func printReport(report *core.ResolutionReport) {
	fmt.Println()
	if report.Empty {
		fmt.Printf("  Order %s has no lines; nothing to resolve.\n", report.OrderID)
		return
	}
	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("  REMAINING STOCK FOR ORDER %s\n", report.OrderID)
	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("  %-12s %14s %14s %14s\n", "INGREDIENT", "USED", "CURRENT", "REMAINING")
	fmt.Println(strings.Repeat("-", 62))
	for _, e := range report.Entries {
		marker := " "
		if e.Remaining.IsNegative() {
			marker = "!"
		}
		fmt.Printf("%s %-12s %14s %14s %14s\n", marker, e.IngredientID,
			e.Used.String(), e.Current.String(), e.Remaining.String())
	}
	fmt.Println(strings.Repeat("=", 62))
}

func printUsage(result *app.UsageResult) {
	fmt.Println()
	fmt.Printf("  INGREDIENT USAGE FOR ORDER %s\n", result.OrderID)
	fmt.Println(strings.Repeat("-", 42))
	fmt.Printf("  %-12s %14s\n", "INGREDIENT", "TOTAL USED")
	for _, e := range result.Entries {
		fmt.Printf("  %-12s %14s\n", e.IngredientID, e.TotalUsed.String())
	}
}
