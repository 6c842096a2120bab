package db

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmehdipour/credit-decision/internal/config"
	"github.com/jmoiron/sqlx"
)

// NewMySQLConnection opens the primary store (companies, financials,
// decisions, scores, outbox). The DSN must set parseTime=true.
func NewMySQLConnection(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("empty MySQL DSN")
	}
	return openPool("mysql", cfg, 5*time.Second)
}
