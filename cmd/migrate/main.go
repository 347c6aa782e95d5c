// Command migrate applies, reverts or reports the goose migrations of the shop schema.
//
//	migrate up|down|status
package main

import (
	"fmt"
	"os"

	"shop-admin/internal/config"
	"shop-admin/internal/database"
	"shop-admin/internal/logger"
	"shop-admin/migrations"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: migrate up|down|status")
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "no .env loaded: %v\n", err)
	}

	cfg := config.Load()
	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	dbService, err := database.New(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer dbService.Close()

	db := dbService.DB()
	switch cmd := os.Args[1]; cmd {
	case "up":
		err = database.RunMigrations(db, migrations.FS, log)
	case "down":
		err = database.RollbackMigration(db, migrations.FS)
	case "status":
		err = database.GetMigrationStatus(db, migrations.FS)
	default:
		log.Fatal("Unknown command", zap.String("command", cmd))
	}
	if err != nil {
		log.Fatal("Migration command failed", zap.String("command", os.Args[1]), zap.Error(err))
	}
}
