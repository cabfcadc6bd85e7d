// Command sample_grid seeds an in-memory store and writes the weekly grid as
// PNG, XLSX and ICS files, for checking the renderers without Telegram.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ishita-lives/schedulr/internal/app"
	"github.com/ishita-lives/schedulr/internal/export"
	"github.com/ishita-lives/schedulr/internal/render"
	"github.com/ishita-lives/schedulr/internal/repository/memory"
	"github.com/ishita-lives/schedulr/internal/service"
)

func main() {
	out := flag.String("out", ".", "output directory")
	tz := flag.String("tz", "UTC", "IANA time zone for the calendar export")
	flag.Parse()

	logger := app.NewLogger("development")
	defer logger.Sync()

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		log.Fatalf("Invalid time zone: %v", err)
	}

	ctx := context.Background()
	store := memory.NewStore()
	catalog := service.NewCatalogService(store, logger)
	enrollments := service.NewEnrollmentService(store, logger)
	grids := service.NewGridService(store, logger)

	admin, err := app.NewSeeder(store, catalog, enrollments, logger).Seed(ctx, 0)
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}

	grid, err := grids.BuildWeeklyGrid(ctx, admin)
	if err != nil {
		logger.Fatal("build grid failed", zap.Error(err))
	}

	png, err := render.GridImage(grid)
	if err != nil {
		logger.Fatal("render failed", zap.Error(err))
	}
	write(logger, *out, "schedule.png", png)

	workbook, name, err := export.GridWorkbook(grid)
	if err != nil {
		logger.Fatal("workbook failed", zap.Error(err))
	}
	write(logger, *out, name, workbook.Bytes())

	all, err := enrollments.EnrollmentsForActor(ctx, admin)
	if err != nil {
		logger.Fatal("load enrollments failed", zap.Error(err))
	}
	write(logger, *out, "schedule.ics", []byte(export.Calendar(all, time.Now(), loc)))
}

func write(logger *zap.Logger, dir, name string, data []byte) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Fatal("write failed", zap.String("path", path), zap.Error(err))
	}
	logger.Info("written", zap.String("path", path), zap.Int("bytes", len(data)))
}
