package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/posting-planner/internal/bootstrap"
	"github.com/posting-planner/internal/config"
	"github.com/posting-planner/internal/session"
	"github.com/posting-planner/internal/web"
)

func main() {
	configPath := flag.String("config", "", "path to planner TOML config")
	flag.Parse()

	if envPath := config.LoadEnv(); envPath != "" {
		fmt.Printf("Loaded environment from %s\n", envPath)
	}

	fmt.Println("=== Posting Planner Web Interface ===")

	appConfig, err := config.Load(config.GetEnv("PLANNER_CONFIG", *configPath))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	base, report, err := bootstrap.LoadOrEmpty(context.Background(), appConfig, appConfig.AllowEmptyStart)
	if err != nil {
		log.Fatalf("Failed to load address data: %v", err)
	}
	for _, src := range report.Sources {
		fmt.Printf("  • %s: %d rows\n", src.Name, src.Rows)
	}
	for _, w := range report.Warnings {
		fmt.Printf("  ! %s skipped: %s\n", w.Source, w.Reason)
	}
	fmt.Printf("Dataset: %d rows, %d households\n", base.Len(), base.TotalHouseholds())

	fmt.Printf("Server: http://%s\n", appConfig.Addr())

	webConfig := web.FromAppConfig(appConfig)
	server := web.NewServer(webConfig, session.NewRegistry(base), report)

	fmt.Println("\nFeatures enabled:")
	fmt.Printf("  • Export: %v\n", webConfig.Features.ExportEnabled)
	fmt.Printf("  • Merge uploads: %v\n", webConfig.Features.MergeEnabled)
	fmt.Println()

	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
