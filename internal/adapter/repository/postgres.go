package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chronolab/carbondate/internal/core/domain"
)

// PostgresRepository persists calibrated samples. Interval sets are stored
// as jsonb; the full distribution is deliberately not persisted (it is
// recomputable from the input and curve version).
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const insertQuery = `
	INSERT INTO calibrations
		(id, lab_code, c14_age, uncertainty, reservoir_correction, curve, search_mode,
		 mode_cal_bp, hpd68, hpd95, calibrated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO NOTHING
`

const selectColumns = `
	SELECT id, lab_code, c14_age, uncertainty, reservoir_correction, curve, search_mode,
	       mode_cal_bp, hpd68, hpd95, calibrated_at
	FROM calibrations
`

func (r *PostgresRepository) SaveResult(ctx context.Context, sample domain.CalibratedSample) error {
	args, err := insertArgs(sample)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, insertQuery, args...); err != nil {
		return fmt.Errorf("failed to save calibration %s: %w", sample.ID, err)
	}
	return nil
}

func (r *PostgresRepository) SaveBatch(ctx context.Context, samples []domain.CalibratedSample) error {
	batch := &pgx.Batch{}

	for _, sample := range samples {
		args, err := insertArgs(sample)
		if err != nil {
			return err
		}
		batch.Queue(insertQuery, args...)
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	if _, err := br.Exec(); err != nil {
		return fmt.Errorf("failed to execute batch: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByLabCode(ctx context.Context, labCode string) ([]domain.CalibratedSample, error) {
	query := selectColumns + `
		WHERE lab_code = $1
		ORDER BY calibrated_at DESC
	`

	rows, err := r.db.Query(ctx, query, labCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query calibrations: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

func (r *PostgresRepository) RecentResults(ctx context.Context, since time.Time, limit int) ([]domain.CalibratedSample, error) {
	query := selectColumns + `
		WHERE calibrated_at >= $1
		ORDER BY calibrated_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query calibrations since %v: %w", since, err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

func insertArgs(sample domain.CalibratedSample) ([]interface{}, error) {
	hpd68, err := json.Marshal(sample.HPD68)
	if err != nil {
		return nil, fmt.Errorf("failed to encode hpd68: %w", err)
	}
	hpd95, err := json.Marshal(sample.HPD95)
	if err != nil {
		return nil, fmt.Errorf("failed to encode hpd95: %w", err)
	}

	return []interface{}{
		sample.ID,
		sample.LabCode,
		sample.Input.C14Age,
		sample.Input.Uncertainty,
		sample.Input.ReservoirCorrection,
		string(sample.Input.CurveType),
		string(sample.Input.SearchMode),
		sample.ModeCalBP,
		hpd68,
		hpd95,
		sample.CalibratedAt,
	}, nil
}

func scanSamples(rows pgx.Rows) ([]domain.CalibratedSample, error) {
	var samples []domain.CalibratedSample

	for rows.Next() {
		var (
			sample       domain.CalibratedSample
			curve, mode  string
			hpd68, hpd95 []byte
		)
		err := rows.Scan(
			&sample.ID,
			&sample.LabCode,
			&sample.Input.C14Age,
			&sample.Input.Uncertainty,
			&sample.Input.ReservoirCorrection,
			&curve,
			&mode,
			&sample.ModeCalBP,
			&hpd68,
			&hpd95,
			&sample.CalibratedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calibration: %w", err)
		}

		sample.Input.CurveType = domain.CurveType(curve)
		sample.Input.SearchMode = domain.SearchMode(mode)
		if err := json.Unmarshal(hpd68, &sample.HPD68); err != nil {
			return nil, fmt.Errorf("failed to decode hpd68: %w", err)
		}
		if err := json.Unmarshal(hpd95, &sample.HPD95); err != nil {
			return nil, fmt.Errorf("failed to decode hpd95: %w", err)
		}

		samples = append(samples, sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return samples, nil
}
