package db

import (
	"context"
	"fmt"

	"github.com/tiendapos/tiendapos/internal/platform/sqlbuild"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS "products" (
		"id" TEXT PRIMARY KEY,
		"code" TEXT NOT NULL,
		"description" TEXT NOT NULL,
		"provider" TEXT NOT NULL,
		"purchasePrice" REAL NOT NULL,
		"salePrice" REAL NOT NULL,
		"stock" INTEGER NOT NULL DEFAULT 0,
		"metadata" TEXT NOT NULL DEFAULT '{}',
		"createdAt" TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS "productos_comprados" (
		"id" TEXT PRIMARY KEY,
		"productId" TEXT NOT NULL,
		"productCode" TEXT NOT NULL,
		"productDescription" TEXT NOT NULL,
		"productProvider" TEXT NOT NULL,
		"purchasePrice" REAL NOT NULL,
		"quantity" INTEGER NOT NULL,
		"purchasedAt" TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS "productos_vendidos" (
		"id" TEXT PRIMARY KEY,
		"productId" TEXT NOT NULL,
		"productCode" TEXT NOT NULL,
		"productDescription" TEXT NOT NULL,
		"productProvider" TEXT NOT NULL,
		"purchasePrice" REAL NOT NULL,
		"salePrice" REAL NOT NULL,
		"soldAt" TEXT NOT NULL,
		"soldBy" TEXT NOT NULL,
		"isReturned" INTEGER NOT NULL DEFAULT 0,
		"returnedAt" TEXT NULL,
		"details" TEXT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS "config" (
		"id" INTEGER PRIMARY KEY AUTOINCREMENT,
		"key" TEXT NOT NULL,
		"value" TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS "users" (
		"id" INTEGER PRIMARY KEY AUTOINCREMENT,
		"username" TEXT NOT NULL,
		"password" TEXT NOT NULL,
		"role" TEXT NOT NULL
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS "products" (
		"id" TEXT PRIMARY KEY,
		"code" TEXT NOT NULL,
		"description" TEXT NOT NULL,
		"provider" TEXT NOT NULL,
		"purchasePrice" DOUBLE PRECISION NOT NULL,
		"salePrice" DOUBLE PRECISION NOT NULL,
		"stock" INTEGER NOT NULL DEFAULT 0,
		"metadata" TEXT NOT NULL DEFAULT '{}',
		"createdAt" TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS "productos_comprados" (
		"id" TEXT PRIMARY KEY,
		"productId" TEXT NOT NULL,
		"productCode" TEXT NOT NULL,
		"productDescription" TEXT NOT NULL,
		"productProvider" TEXT NOT NULL,
		"purchasePrice" DOUBLE PRECISION NOT NULL,
		"quantity" INTEGER NOT NULL,
		"purchasedAt" TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS "productos_vendidos" (
		"id" TEXT PRIMARY KEY,
		"productId" TEXT NOT NULL,
		"productCode" TEXT NOT NULL,
		"productDescription" TEXT NOT NULL,
		"productProvider" TEXT NOT NULL,
		"purchasePrice" DOUBLE PRECISION NOT NULL,
		"salePrice" DOUBLE PRECISION NOT NULL,
		"soldAt" TEXT NOT NULL,
		"soldBy" TEXT NOT NULL,
		"isReturned" INTEGER NOT NULL DEFAULT 0,
		"returnedAt" TEXT NULL,
		"details" TEXT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS "config" (
		"id" BIGSERIAL PRIMARY KEY,
		"key" TEXT NOT NULL,
		"value" TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS "users" (
		"id" BIGSERIAL PRIMARY KEY,
		"username" TEXT NOT NULL,
		"password" TEXT NOT NULL,
		"role" TEXT NOT NULL
	)`,
}

// Bootstrap creates the five tables when they do not exist yet. It never alters
// an existing table.
func Bootstrap(ctx context.Context, c Client) error {
	stmts := sqliteSchema
	if c.Dialect().Name() == sqlbuild.Postgres.Name() {
		stmts = postgresSchema
	}
	for _, stmt := range stmts {
		if _, err := c.Execute(ctx, stmt); err != nil {
			return fmt.Errorf("platform/db: bootstrap: %w", err)
		}
	}
	return nil
}
