package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"cookbook/internal/config"
	"cookbook/internal/telemetry"

	"github.com/joho/godotenv"
)

func main() {
	var serve bool
	var addr string
	var budget float64
	var random bool
	var save bool
	var shopping bool
	var generate string
	var category string
	var help bool

	flag.BoolVar(&serve, "serve", false, "Run the mock REST server")
	flag.StringVar(&addr, "addr", ":8080", "Address to bind in server mode")
	flag.Float64Var(&budget, "plan", 0, "Print a weekly meal plan for this budget (VND)")
	flag.BoolVar(&random, "random", false, "Print a random weekly meal plan")
	flag.BoolVar(&save, "save", false, "Add the printed plan's ingredients to the shopping list")
	flag.BoolVar(&shopping, "shopping", false, "Print the saved shopping list")
	flag.StringVar(&generate, "generate", "", "Generate a recipe from comma separated ingredients")
	flag.StringVar(&category, "category", "Dinner", "Category for -generate")
	flag.BoolVar(&help, "help", false, "Show help message")
	flag.BoolVar(&help, "h", false, "Show help message")
	flag.Parse()

	if help {
		showHelp()
		return
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx := context.Background()
	shutdown, err := telemetry.Setup(ctx, cfg.Log)
	if err != nil {
		log.Fatalf("failed to set up telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("telemetry shutdown", "error", err)
		}
	}()

	app, err := newApp(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}

	switch {
	case serve:
		err = runServer(ctx, app, addr)
	case budget > 0:
		err = app.printPlan(ctx, os.Stdout, budget, save)
	case random:
		err = app.printRandomPlan(ctx, os.Stdout, save)
	case shopping:
		err = app.printShoppingList(ctx, os.Stdout)
	case generate != "":
		err = app.printGenerated(ctx, os.Stdout, splitList(generate), category)
	default:
		showHelp()
		os.Exit(1)
	}
	if err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func showHelp() {
	fmt.Println("Cookbook - recipes, community posts and budget meal plans")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  cookbook -serve [-addr :8080]")
	fmt.Println("  cookbook -plan 700000 [-save]")
	fmt.Println("  cookbook -random [-save]")
	fmt.Println("  cookbook -shopping")
	fmt.Println("  cookbook -generate \"thịt gà, nấm\" [-category Dinner]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  COOKBOOK_USE_LOCAL, COOKBOOK_API_URL, COOKBOOK_SEED_PATH, COOKBOOK_CACHE_DIR")
	fmt.Println("  GEMINI_API_KEY, PEXELS_API_KEY, LOG_LEVEL, LOG_FORMAT")
}
