// Command stocktest hammers the stock adjustment transaction with concurrent
// single-unit decrements and checks the stock floor invariant afterwards.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"github.com/novashop/checkout/internal/adapter/storage"
	"github.com/novashop/checkout/internal/core/domain"
)

const (
	initialStock  = 20
	totalRequests = 50
)

func main() {
	dsn := flag.String("dsn", "root:root@tcp(localhost:3306)/checkout?parseTime=true", "mysql dsn")
	flag.Parse()

	ctx := context.Background()

	db, err := sql.Open("mysql", *dsn)
	if err != nil {
		log.Fatalf("failed to open mysql: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}

	catalog := storage.NewMySQLCatalog(db)

	product, err := catalog.Create(ctx, domain.Product{
		Title:  fmt.Sprintf("stocktest-%d", time.Now().UnixMilli()),
		Price:  decimal.NewFromFloat(199.90),
		Stock:  initialStock,
		Status: domain.ProductStatusActive,
	})
	if err != nil {
		log.Fatalf("failed to create test product: %v", err)
	}
	defer catalog.Delete(ctx, product.ID)

	var successCount atomic.Int32
	var failCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := catalog.ApplyStockDeltas(ctx, []domain.StockDelta{
				{ProductID: product.ID, QuantitySold: 1},
			})
			if err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	fmt.Println("========== STOCK TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Decrements: %d\n", totalRequests)
	fmt.Printf("Applied:          %d\n", successCount.Load())
	fmt.Printf("Errored:          %d\n", failCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("========================================")

	final, err := catalog.Get(ctx, product.ID)
	if err != nil || final == nil {
		log.Fatalf("failed to read back product: %v", err)
	}
	fmt.Printf("Final Stock:       %d\n", final.Stock)

	if final.Stock == 0 {
		fmt.Println("PASS: stock floored at 0, never negative")
	} else {
		fmt.Printf("FAIL: expected stock 0, got %d\n", final.Stock)
	}
}
