package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration-test database. Expects a MySQL instance
// on localhost:3306 with a database named 'telar_test'; tests skip when it
// is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/telar_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties the test tables and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"NotificationOutbox", "OrderLines", "Orders", "Clients", "Product"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the tables the integration tests need.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createClientsTable := `
	CREATE TABLE IF NOT EXISTS Clients (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(150) NOT NULL,
		email VARCHAR(150) NOT NULL,
		phone VARCHAR(30),
		address VARCHAR(255),
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createProductTable := `
	CREATE TABLE IF NOT EXISTS Product (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		stock INT NOT NULL DEFAULT 0,
		minStock INT NOT NULL DEFAULT 0,
		price DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createOrdersTable := `
	CREATE TABLE IF NOT EXISTS Orders (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		clientId INT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
		priority VARCHAR(10) NOT NULL DEFAULT 'NORMAL',
		deliveryDate DATE,
		netTotal DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		taxAmount DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		grossTotal DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		idempotencyKey VARCHAR(64),
		createdBy VARCHAR(100),
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_idempotency (idempotencyKey),
		INDEX idx_client (clientId),
		INDEX idx_status (status),
		INDEX idx_created (createdAt)
	)`

	createOrderLinesTable := `
	CREATE TABLE IF NOT EXISTS OrderLines (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId INT UNSIGNED NOT NULL,
		productId INT NOT NULL,
		quantity INT NOT NULL,
		unitPrice DECIMAL(10,2) NOT NULL,
		subtotal DECIMAL(10,2) NOT NULL,
		size VARCHAR(20),
		color VARCHAR(40),
		note VARCHAR(255),
		FOREIGN KEY (orderId) REFERENCES Orders(id) ON DELETE CASCADE,
		INDEX idx_order (orderId),
		INDEX idx_product (productId)
	)`

	createOutboxTable := `
	CREATE TABLE IF NOT EXISTS NotificationOutbox (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId INT UNSIGNED NOT NULL,
		recipient VARCHAR(150) NOT NULL,
		subject VARCHAR(255) NOT NULL,
		body TEXT NOT NULL,
		status VARCHAR(10) NOT NULL DEFAULT 'PENDING',
		attempts INT NOT NULL DEFAULT 0,
		lastError VARCHAR(500),
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		sentAt DATETIME,
		INDEX idx_status (status, createdAt)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"Clients", createClientsTable},
		{"Product", createProductTable},
		{"Orders", createOrdersTable},
		{"OrderLines", createOrderLinesTable},
		{"NotificationOutbox", createOutboxTable},
	}

	for _, tbl := range tables {
		if _, err := db.Exec(tbl.query); err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
