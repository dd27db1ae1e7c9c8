// Command setup creates the checkout schema and seeds the initial catalog.
// Safe to run repeatedly: tables are created if missing and products are
// only seeded into an empty catalog.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"

	_ "github.com/go-sql-driver/mysql"

	"github.com/novashop/checkout/internal/config"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		stock INT NOT NULL DEFAULT 0,
		status ENUM('Active', 'Inactive') NOT NULL DEFAULT 'Active',
		category VARCHAR(100),
		image VARCHAR(500),
		description TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id VARCHAR(100) PRIMARY KEY,
		customer_name VARCHAR(255) NOT NULL,
		customer_email VARCHAR(255) NOT NULL,
		customer_phone VARCHAR(20),
		customer_cpf VARCHAR(20),
		street VARCHAR(255) NOT NULL,
		number VARCHAR(20) NOT NULL,
		complement VARCHAR(255),
		neighborhood VARCHAR(100) NOT NULL,
		city VARCHAR(100) NOT NULL,
		state VARCHAR(2) NOT NULL,
		zip VARCHAR(10) NOT NULL,
		total DECIMAL(10,2) NOT NULL,
		status ENUM('pending', 'approved', 'failed') NOT NULL DEFAULT 'pending',
		payment_method ENUM('card', 'pix') NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id INT AUTO_INCREMENT PRIMARY KEY,
		order_id VARCHAR(100) NOT NULL,
		product_id INT NOT NULL,
		title VARCHAR(255) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		quantity INT NOT NULL,
		category VARCHAR(100),
		image VARCHAR(500),
		FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
	)`,
}

type seedProduct struct {
	title       string
	price       string
	stock       int
	status      string
	category    string
	image       string
	description string
}

var seedProducts = []seedProduct{
	{"Public and Managerial Administration", "199.90", 0, "Inactive", "Administration",
		"https://picsum.photos/seed/adm/400/300",
		"Complete Public and Managerial Administration course for civil service exams."},
	{"General and Public Accounting", "229.90", 5, "Inactive", "Accounting",
		"https://picsum.photos/seed/accounting/400/300",
		"Learn the fundamentals of general and public accounting."},
	{"Prep Course - Systems Analyst", "299.90", 10, "Active", "Technology",
		"https://picsum.photos/seed/systems/400/300",
		"Get ready for the biggest IT civil service exams."},
	{"Constitutional Law - Theory and Practice", "249.90", 15, "Active", "Law",
		"https://picsum.photos/seed/law/400/300",
		"Master Constitutional Law with theory and practice exercises."},
	{"Mathematics for Exams - Advanced Level", "189.90", 20, "Active", "Mathematics",
		"https://picsum.photos/seed/math/400/300",
		"Math course aimed at advanced-level civil service exams."},
	{"Portuguese - Grammar and Comprehension", "159.90", 30, "Active", "Portuguese",
		"https://picsum.photos/seed/portuguese/400/300",
		"Sharpen your grammar and reading comprehension."},
	{"Logical Reasoning - Advanced Method", "149.90", 25, "Active", "Logical Reasoning",
		"https://picsum.photos/seed/logic/400/300",
		"Develop your logical reasoning with an advanced method."},
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// Connect without a database first so we can create it.
	bootstrap, err := sql.Open("mysql", cfg.MySQL.BareDSN())
	if err != nil {
		log.Fatalf("failed to open mysql: %v", err)
	}
	if _, err := bootstrap.ExecContext(ctx,
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", cfg.MySQL.Database)); err != nil {
		log.Fatalf("failed to create database: %v", err)
	}
	bootstrap.Close()
	log.Printf("database %q ready", cfg.MySQL.Database)

	db, err := sql.Open("mysql", cfg.MySQL.DSN())
	if err != nil {
		log.Fatalf("failed to open mysql: %v", err)
	}
	defer db.Close()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Fatalf("failed to create table: %v", err)
		}
	}
	log.Println("tables created")

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		log.Fatalf("failed to count products: %v", err)
	}
	if count > 0 {
		log.Printf("catalog already has %d products, skipping seed", count)
		return
	}

	for _, p := range seedProducts {
		_, err := db.ExecContext(ctx, `
			INSERT INTO products (title, price, stock, status, category, image, description)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.title, p.price, p.stock, p.status, p.category, p.image, p.description)
		if err != nil {
			log.Fatalf("failed to seed product %q: %v", p.title, err)
		}
	}
	log.Printf("seeded %d products", len(seedProducts))
}
