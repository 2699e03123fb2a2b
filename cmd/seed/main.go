// Command seed loads cohort and student fixture files into the configured
// store. Records that already exist are skipped.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/cohorttools/cohort-tools-api/internal/config"
	"github.com/cohorttools/cohort-tools-api/internal/fixtures"
	"github.com/cohorttools/cohort-tools-api/internal/logging"
	"github.com/cohorttools/cohort-tools-api/internal/repository"
)

func main() {
	cohortsPath := flag.String("cohorts", "cohorts.json", "path to the cohorts fixture file")
	studentsPath := flag.String("students", "students.json", "path to the students fixture file")
	timeout := flag.Duration("timeout", time.Minute, "overall seed timeout")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	if err := run(*cohortsPath, *studentsPath, *timeout); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(cohortsPath, studentsPath string, timeout time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.SetDefault(logging.New(cfg.LogLevel))

	cohorts, err := decodeFile(cohortsPath, fixtures.DecodeCohorts)
	if err != nil {
		return err
	}
	students, err := decodeFile(studentsPath, fixtures.DecodeStudents)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	report, err := fixtures.Seed(ctx, store, cohorts, students)
	if err != nil {
		return err
	}

	slog.Info("seed complete",
		"cohorts_created", report.CohortsCreated,
		"cohorts_skipped", report.CohortsSkipped,
		"students_created", report.StudentsCreated,
		"students_skipped", report.StudentsSkipped,
		"invalid", report.Invalid,
	)
	return nil
}

func decodeFile[T any](path string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	v, err := decode(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
