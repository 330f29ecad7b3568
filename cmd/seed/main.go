package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"skill-bridge/internal/catalog"
	"skill-bridge/internal/config"
	"skill-bridge/internal/database/migration"
	dbpostgres "skill-bridge/internal/database/postgres"
	"skill-bridge/internal/database/seeder"
	"skill-bridge/internal/pkg/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "apply migrations without seeding the catalog")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer lg.Sync()

	if !cfg.Database.Enabled() {
		lg.Error("database is not configured", "required", "DB_HOST, DB_NAME, DB_USER")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		lg.Error("connect database failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	applied, err := migration.NewRunner().Run(ctx, db.SQLDB())
	if err != nil {
		lg.Error("migration failed", "error", err)
		os.Exit(1)
	}
	for _, m := range applied {
		lg.Info("migration applied", "version", m.Version, "name", m.Name)
	}
	if *migrateOnly {
		return
	}

	c, err := catalog.LoadFiles(catalog.Paths{
		Ontology: cfg.Catalog.SkillOntologyPath,
		Roles:    cfg.Catalog.RoleCatalogPath,
		Courses:  cfg.Catalog.CourseCatalogPath,
	}, catalog.Options{Strict: cfg.Catalog.Strict, Logger: lg})
	if err != nil {
		lg.Error("load catalog failed", "error", err)
		os.Exit(1)
	}

	r := seeder.Runner{Seeders: seeder.ForCatalog(c), Logger: lg}
	if err := r.Run(ctx, db); err != nil {
		lg.Error("seed failed", "error", err)
		os.Exit(1)
	}
	lg.Info("catalog seeded", "skills", c.Ontology.Len(), "roles", len(c.Roles), "courses", len(c.Courses))
}
