package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"supplier-inventory-api/internal/config"
	"supplier-inventory-api/internal/inventory"
	"supplier-inventory-api/internal/logging"
	"supplier-inventory-api/internal/store"
	"supplier-inventory-api/pkg/importer"
)

const usage = "Usage: import_excel --file=path.xlsx [--mapping=configs/mapping/catalog.yaml] [--dry-run]"

func main() {
	var filePath, mappingPath string
	dryRun := false

	for _, arg := range os.Args[1:] {
		if strings.HasPrefix(arg, "--file=") {
			filePath = strings.TrimPrefix(arg, "--file=")
		} else if strings.HasPrefix(arg, "--mapping=") {
			mappingPath = strings.TrimPrefix(arg, "--mapping=")
		} else if arg == "--dry-run" {
			dryRun = true
		}
	}

	if filePath == "" {
		fmt.Println("Error: file is required")
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if mappingPath == "" {
		mappingPath = cfg.ImportMapping
	}
	mapping, err := importer.LoadMapping(mappingPath)
	if err != nil {
		log.Fatalf("Invalid mapping: %v", err)
	}

	logger, err := logging.New("warn", false)
	if err != nil {
		log.Fatalf("Logger error: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer st.Close()
	if _, err := st.Migrate(ctx); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	file, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("Failed to open Excel file: %v", err)
	}
	defer file.Close()

	fmt.Printf("Importing from %s into %s (dry_run=%v)\n", filePath, st.Dialect(), dryRun)
	fmt.Println("=" + strings.Repeat("=", 60))

	summary, err := importer.ImportExcel(ctx, inventory.NewService(st, logger), file, importer.ImportOptions{
		Mapping:   mapping,
		DryRun:    dryRun,
		MaxErrors: 50,
	})
	printSummary(summary)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
}

func printSummary(summary importer.ImportSummary) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("IMPORT SUMMARY")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("Total inserted: %d\n", summary.Inserted)
	fmt.Printf("Total updated: %d\n", summary.Updated)
	fmt.Printf("Total skipped: %d\n", summary.Skipped)
	fmt.Printf("Total errors: %d\n", summary.Errors)
	fmt.Printf("Dry run: %v\n", summary.DryRun)

	if len(summary.Sheets) > 0 {
		fmt.Println("\nSheet Details:")
		for _, sheet := range summary.Sheets {
			fmt.Printf("  %s (%s): inserted=%d, updated=%d, skipped=%d, errors=%d\n",
				sheet.Name, sheet.Entity, sheet.Inserted, sheet.Updated, sheet.Skipped, sheet.Errors)

			if len(sheet.Samples) > 0 {
				fmt.Printf("    Error samples:\n")
				for _, sample := range sheet.Samples {
					fmt.Printf("      Row %d: %s\n", sample.Row, sample.Message)
				}
			}
		}
	}
}
