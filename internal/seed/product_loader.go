package seed

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LoadProducts ingests the CSV catalog (name,price,quantity) into an empty
// products table and returns the number of rows inserted. A catalog that
// already has products is left alone.
func LoadProducts(db *sqlx.DB, csvPath string, logger *zap.Logger) int {
	var existing int
	if err := db.Get(&existing, `SELECT COUNT(*) FROM products`); err != nil {
		logger.Error("unable to count products", zap.Error(err))
		return 0
	}
	if existing > 0 {
		return 0
	}

	file, err := os.Open(csvPath)
	if err != nil {
		logger.Warn("unable to load product catalog", zap.String("path", csvPath), zap.Error(err))
		return 0
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		logger.Warn("unable to read product header", zap.Error(err))
		return 0
	}

	tx, err := db.Beginx()
	if err != nil {
		logger.Error("unable to start product transaction", zap.Error(err))
		return 0
	}
	stmt, err := tx.Preparex(`INSERT INTO products (name, price, quantity) VALUES (?, ?, ?)`)
	if err != nil {
		logger.Error("unable to prepare product insert", zap.Error(err))
		_ = tx.Rollback()
		return 0
	}
	defer stmt.Close()

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("unable to read product row", zap.Error(err))
			continue
		}
		if len(record) < 3 {
			continue
		}
		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil || price.IsNegative() {
			logger.Warn("skipping product with invalid price", zap.String("name", name))
			continue
		}
		quantity, err := strconv.ParseInt(strings.TrimSpace(record[2]), 10, 64)
		if err != nil || quantity < 0 {
			logger.Warn("skipping product with invalid quantity", zap.String("name", name))
			continue
		}

		if _, err := stmt.Exec(name, price, quantity); err != nil {
			logger.Warn("unable to insert product", zap.String("name", name), zap.Error(err))
		} else {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("unable to commit product seed", zap.Error(err))
		return 0
	}
	logger.Info("seeded product catalog", zap.Int("rows", rows))
	return rows
}
