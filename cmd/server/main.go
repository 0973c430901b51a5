package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mookrata-pos/api/internal/config"
	"github.com/mookrata-pos/api/internal/database"
	"github.com/mookrata-pos/api/internal/qr"
	"github.com/mookrata-pos/api/internal/router"
	"github.com/mookrata-pos/api/internal/ws"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	log.Println("Connected to database")

	queries := database.New(pool)
	if err := bootstrap(ctx, queries); err != nil {
		log.Fatalf("Bootstrap failed: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	r := router.New(cfg, queries, pool, hub)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal(err)
	}
}

// bootstrap ensures the singleton settings row and the table pool exist.
// Idempotent so restarts are safe.
func bootstrap(ctx context.Context, queries *database.Queries) error {
	var price, vat pgtype.Numeric
	if err := price.Scan("299.00"); err != nil {
		return err
	}
	if err := vat.Scan("0.07"); err != nil {
		return err
	}
	if err := queries.CreateDefaultSettings(ctx, database.CreateDefaultSettingsParams{
		AdultPriceGross: price,
		VatRate:         vat,
		Currency:        "THB",
	}); err != nil {
		return fmt.Errorf("default settings: %w", err)
	}

	count, err := queries.CountTables(ctx)
	if err != nil {
		return fmt.Errorf("count tables: %w", err)
	}
	if count > 0 {
		return nil
	}

	for i := 1; i <= 50; i++ {
		code := fmt.Sprintf("TABLE-%02d", i)
		secret, err := qr.NewSecret()
		if err != nil {
			return fmt.Errorf("qr secret for %s: %w", code, err)
		}
		if _, err := queries.CreateTable(ctx, database.CreateTableParams{
			Code:     code,
			Name:     code,
			Status:   database.TableStatusAVAILABLE,
			QrSecret: secret,
		}); err != nil {
			return fmt.Errorf("create %s: %w", code, err)
		}
	}
	log.Println("Seeded 50 tables")
	return nil
}
