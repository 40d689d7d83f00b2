// Package schema adds the bot's tables and columns to an existing panel database.
// Every helper checks for the object first, so running them again is a no-op.
package schema

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Outcome string

const (
	Created       Outcome = "created"
	AlreadyExists Outcome = "already_exists"
	Pending       Outcome = "pending" // dry run, would be created
)

// Result describes one table or column the setup touched.
type Result struct {
	Table   string
	Column  string
	Outcome Outcome
}

type Migrator struct {
	db     *gorm.DB
	log    *zap.Logger
	dryRun bool
}

func NewMigrator(db *gorm.DB, log *zap.Logger) *Migrator {
	return &Migrator{db: db, log: log}
}

// DryRun reports what would change without executing any DDL.
func (m *Migrator) DryRun(on bool) *Migrator {
	m.dryRun = on
	return m
}

func (m *Migrator) CreateTableIfNotExists(table, ddl string) (Outcome, error) {
	if m.db.Migrator().HasTable(table) {
		m.log.Info("table already exists", zap.String("table", table))
		return AlreadyExists, nil
	}
	if m.dryRun {
		m.log.Info("table would be created", zap.String("table", table))
		return Pending, nil
	}

	m.log.Info("creating table", zap.String("table", table))
	if err := m.db.Exec(ddl).Error; err != nil {
		return "", fmt.Errorf("create table %s: %w", table, err)
	}
	m.log.Info("table created", zap.String("table", table))
	return Created, nil
}

func (m *Migrator) AddColumnIfNotExists(table, column, ddl string) (Outcome, error) {
	if !m.db.Migrator().HasTable(table) {
		return "", fmt.Errorf("add column %s.%s: table does not exist", table, column)
	}
	if m.db.Migrator().HasColumn(table, column) {
		m.log.Info("column already exists", zap.String("table", table), zap.String("column", column))
		return AlreadyExists, nil
	}
	if m.dryRun {
		m.log.Info("column would be added", zap.String("table", table), zap.String("column", column))
		return Pending, nil
	}

	m.log.Info("adding column", zap.String("table", table), zap.String("column", column))
	if err := m.db.Exec(ddl).Error; err != nil {
		return "", fmt.Errorf("add column %s.%s: %w", table, column, err)
	}
	m.log.Info("column added", zap.String("table", table), zap.String("column", column))
	return Created, nil
}

// Setup brings the bot's schema up to date: the payments ledger and the two
// wallet columns on admins.
func (m *Migrator) Setup() ([]Result, error) {
	ddl := ddlFor(m.db.Dialector.Name())
	results := make([]Result, 0, 3)

	outcome, err := m.CreateTableIfNotExists("payments", ddl.payments)
	if err != nil {
		return results, err
	}
	results = append(results, Result{Table: "payments", Outcome: outcome})

	for _, col := range []struct{ name, ddl string }{
		{"hakobot_balance", "ALTER TABLE admins ADD COLUMN hakobot_balance BIGINT NOT NULL DEFAULT 0"},
		{"hakobot_gb_fee", "ALTER TABLE admins ADD COLUMN hakobot_gb_fee BIGINT NOT NULL DEFAULT 2000"},
	} {
		outcome, err := m.AddColumnIfNotExists("admins", col.name, col.ddl)
		if err != nil {
			return results, err
		}
		results = append(results, Result{Table: "admins", Column: col.name, Outcome: outcome})
	}

	return results, nil
}

type dialectDDL struct {
	payments string
}

func ddlFor(dialect string) dialectDDL {
	if dialect == "mysql" {
		return dialectDDL{payments: `
CREATE TABLE payments (
	id INT AUTO_INCREMENT PRIMARY KEY,
	admin_id INT NOT NULL,
	amount BIGINT NOT NULL,
	payment_type ENUM('deposit', 'withdraw') NOT NULL,
	timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (admin_id) REFERENCES admins(id)
)`}
	}
	return dialectDDL{payments: `
CREATE TABLE payments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	admin_id INTEGER NOT NULL,
	amount BIGINT NOT NULL,
	payment_type VARCHAR(10) NOT NULL CHECK (payment_type IN ('deposit', 'withdraw')),
	timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (admin_id) REFERENCES admins(id)
)`}
}
