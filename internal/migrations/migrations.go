package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            username TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL,
            created_at TEXT DEFAULT CURRENT_TIMESTAMP
        );`,
	`CREATE TABLE IF NOT EXISTS customers (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            first_name TEXT NOT NULL,
            last_name TEXT NOT NULL,
            dni TEXT NOT NULL UNIQUE,
            address TEXT NOT NULL DEFAULT ''
        );`,
	`CREATE TABLE IF NOT EXISTS products (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            price TEXT NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity >= 0)
        );`,
	`CREATE TABLE IF NOT EXISTS sales (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            code TEXT NOT NULL UNIQUE,
            sale_date TEXT NOT NULL,
            customer_id INTEGER NOT NULL,
            total TEXT NOT NULL,
            FOREIGN KEY(customer_id) REFERENCES customers(id)
        );`,
	`CREATE INDEX IF NOT EXISTS idx_sales_sale_date ON sales(sale_date);`,
	`CREATE TABLE IF NOT EXISTS sale_items (
            sale_id INTEGER NOT NULL,
            line_no INTEGER NOT NULL,
            product_id INTEGER NOT NULL,
            unit_price TEXT NOT NULL,
            PRIMARY KEY(sale_id, line_no),
            FOREIGN KEY(sale_id) REFERENCES sales(id) ON DELETE CASCADE,
            FOREIGN KEY(product_id) REFERENCES products(id)
        );`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
            id BIGINT AUTO_INCREMENT PRIMARY KEY,
            username VARCHAR(100) NOT NULL UNIQUE,
            password VARCHAR(255) NOT NULL,
            role VARCHAR(20) NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        ) ENGINE=InnoDB;`,
	`CREATE TABLE IF NOT EXISTS customers (
            id BIGINT AUTO_INCREMENT PRIMARY KEY,
            first_name VARCHAR(100) NOT NULL,
            last_name VARCHAR(100) NOT NULL,
            dni VARCHAR(32) NOT NULL UNIQUE,
            address VARCHAR(255) NOT NULL DEFAULT ''
        ) ENGINE=InnoDB;`,
	`CREATE TABLE IF NOT EXISTS products (
            id BIGINT AUTO_INCREMENT PRIMARY KEY,
            name VARCHAR(255) NOT NULL,
            price DECIMAL(12,2) NOT NULL,
            quantity BIGINT NOT NULL,
            CONSTRAINT chk_products_quantity CHECK (quantity >= 0)
        ) ENGINE=InnoDB;`,
	`CREATE TABLE IF NOT EXISTS sales (
            id BIGINT AUTO_INCREMENT PRIMARY KEY,
            code CHAR(36) NOT NULL UNIQUE,
            sale_date CHAR(10) NOT NULL,
            customer_id BIGINT NOT NULL,
            total DECIMAL(12,2) NOT NULL,
            INDEX idx_sales_sale_date (sale_date),
            FOREIGN KEY(customer_id) REFERENCES customers(id)
        ) ENGINE=InnoDB;`,
	`CREATE TABLE IF NOT EXISTS sale_items (
            sale_id BIGINT NOT NULL,
            line_no INT NOT NULL,
            product_id BIGINT NOT NULL,
            unit_price DECIMAL(12,2) NOT NULL,
            PRIMARY KEY(sale_id, line_no),
            FOREIGN KEY(sale_id) REFERENCES sales(id) ON DELETE CASCADE,
            FOREIGN KEY(product_id) REFERENCES products(id)
        ) ENGINE=InnoDB;`,
}

// Run creates the database schema required for the POS backend.
func Run(db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == "mysql" {
		schema = mysqlSchema
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
