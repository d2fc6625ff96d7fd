package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/chronolab/carbondate/internal/adapter/curvedata"
	"github.com/chronolab/carbondate/internal/adapter/repository"
	"github.com/chronolab/carbondate/internal/batch"
	"github.com/chronolab/carbondate/internal/core/domain"
)

func main() {
	csvPath := flag.String("file", "samples.csv", "CSV of samples to calibrate")
	curveDir := flag.String("curves", "data/curves", "Directory with .14c curve files")
	workers := flag.Int("workers", 8, "Concurrent calibration workers")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found (this is fine)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	curvedata.InitMetrics()

	log.Printf("📁 Loading curves from %s...", *curveDir)
	provider := curvedata.NewDirProvider(*curveDir)
	curves, err := provider.LoadCurves(ctx)
	if err != nil {
		log.Fatalf("❌ Error loading curves: %v", err)
	}

	// Persistence is optional; without DATABASE_URL the run prints results
	// and exits.
	var repo *repository.PostgresRepository
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		dbPool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			log.Fatalf("❌ Error connecting to database: %v", err)
		}
		defer dbPool.Close()
		repo = repository.NewPostgresRepository(dbPool)
	}

	file, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("❌ Error opening %s: %v", *csvPath, err)
	}
	samples, err := batch.ReadSamples(file)
	file.Close()
	if err != nil {
		log.Fatalf("❌ Error reading %s: %v", *csvPath, err)
	}
	log.Printf("🚀 Calibrating %d samples with %d workers...", len(samples), *workers)

	// Workers push finished samples into a channel; the main loop flushes
	// them to postgres in batches on size or on a timer.
	work := make(chan batch.Sample, 100)
	results := make(chan domain.CalibratedSample, 100)

	var wg sync.WaitGroup
	var failedMu sync.Mutex
	totalFailed := 0
	for n := 0; n < *workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sample := range work {
				result, err := domain.CalibrateDate(curves, sample.Input)
				if err != nil {
					log.Printf("❌ %s: %v", sample.LabCode, err)
					failedMu.Lock()
					totalFailed++
					failedMu.Unlock()
					continue
				}
				for _, warning := range result.Warnings {
					log.Printf("⚠️  %s: %s", sample.LabCode, warning.Message)
				}
				record := domain.NewCalibratedSample(uuid.NewString(), sample.LabCode, result, time.Now().UTC())
				select {
				case results <- record:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(work)
		for _, sample := range samples {
			select {
			case work <- sample:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var pending []domain.CalibratedSample
	batchSize := 500
	totalSaved := 0

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	flush := func(reason string) {
		if len(pending) == 0 || repo == nil {
			pending = nil
			return
		}
		if err := repo.SaveBatch(ctx, pending); err != nil {
			log.Printf("❌ Error saving batch (%s): %v", reason, err)
		} else {
			totalSaved += len(pending)
			log.Printf("📦 Batch saved (%s): %d samples (total: %d)", reason, len(pending), totalSaved)
		}
		pending = nil
	}

	totalCalibrated := 0
MainLoop:
	for {
		select {
		case record, ok := <-results:
			if !ok {
				break MainLoop
			}
			totalCalibrated++
			printSample(record)
			pending = append(pending, record)
			if len(pending) >= batchSize {
				flush("size")
			}

		case <-ticker.C:
			flush("ticker")
		}
	}
	flush("final")

	log.Printf("🏁 Batch run finished: %d calibrated, %d failed, %d persisted", totalCalibrated, totalFailed, totalSaved)
	if totalFailed > 0 {
		os.Exit(1)
	}
}

func printSample(record domain.CalibratedSample) {
	parts := make([]string, 0, len(record.HPD95))
	for _, iv := range record.HPD95 {
		parts = append(parts, domain.FormatInterval(iv))
	}
	fmt.Printf("✅ %s: %v±%v BP -> mode %s, 95.4%%: %s\n",
		record.LabCode,
		record.Input.C14Age,
		record.Input.Uncertainty,
		domain.FormatCalYear(record.ModeCalBP),
		strings.Join(parts, "; "),
	)
}
