package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"supplier-inventory-api/internal/config"
	"supplier-inventory-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	st, err := store.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}
	defer st.Close()

	fmt.Printf("Connected to %s database\n", st.Dialect())

	applied, err := st.Migrate(ctx)
	if err != nil {
		log.Fatal("Failed to apply migrations: ", err)
	}

	if len(applied) == 0 {
		fmt.Println("Schema is up to date")
		return
	}
	for _, filename := range applied {
		fmt.Printf("Applied %s\n", filename)
	}
	fmt.Println("All migrations applied successfully")
}
