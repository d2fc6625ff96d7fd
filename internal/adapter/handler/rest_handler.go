package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chronolab/carbondate/internal/adapter/curvedata"
	"github.com/chronolab/carbondate/internal/core/domain"
	"github.com/chronolab/carbondate/internal/core/ports"
)

// batchWorkers bounds the fan-out of one batch request. Calibrations over a
// shared curve set have no shared mutable state, so workers need no locking.
const batchWorkers = 8

// maxBatchSize bounds one batch request; larger uploads belong in the
// batchrunner.
const maxBatchSize = 1000

type RestHandler struct {
	provider ports.CurveProvider
	repo     ports.ResultRepository // nil = stateless deployment
}

func NewRestHandler(provider ports.CurveProvider, repo ports.ResultRepository) *RestHandler {
	return &RestHandler{
		provider: provider,
		repo:     repo,
	}
}

// Health check endpoint
func (h *RestHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":        "healthy",
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"service":       "carbondate-api",
		"curves_loaded": h.provider.Curves() != nil,
	}
	writeJSON(w, http.StatusOK, response)
}

// calibrateRequest is the JSON body of POST /api/v1/calibrate and each
// element of the batch endpoint's array.
type calibrateRequest struct {
	LabCode             string  `json:"lab_code,omitempty"`
	C14Age              float64 `json:"c14_age"`
	Uncertainty         float64 `json:"uncertainty"`
	ReservoirCorrection float64 `json:"reservoir_correction,omitempty"`
	Curve               string  `json:"curve,omitempty"`
	SearchMode          string  `json:"search_mode,omitempty"`
	IncludeDistribution bool    `json:"include_distribution,omitempty"`
}

func (req calibrateRequest) toInput() domain.CalibrationInput {
	// Unknown names pass through as-is: the pipeline owns the
	// fallback-with-warning policy for curve types.
	curveType, ok := domain.ParseCurveType(req.Curve)
	if !ok {
		curveType = domain.CurveType(req.Curve)
	}
	searchMode, ok := domain.ParseSearchMode(req.SearchMode)
	if !ok {
		searchMode = domain.SearchMode(req.SearchMode)
	}
	return domain.CalibrationInput{
		C14Age:              req.C14Age,
		Uncertainty:         req.Uncertainty,
		ReservoirCorrection: req.ReservoirCorrection,
		CurveType:           curveType,
		SearchMode:          searchMode,
	}
}

// Calibrate runs one calibration.
func (h *RestHandler) Calibrate(w http.ResponseWriter, r *http.Request) {
	var req calibrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	curves, err := h.ensureCurves(ctx)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	timer := curvedata.StartTimer()
	result, err := domain.CalibrateDate(curves, req.toInput())
	timer.ObserveDuration()

	if err != nil {
		curvedata.RecordCalibration(req.Curve, statusOf(err))
		writeError(w, httpStatusOf(err), err.Error())
		return
	}
	curvedata.RecordCalibration(string(result.Input.CurveType), "ok")
	curvedata.RecordHPDIntervals(len(result.HPD95))

	if h.repo != nil {
		sample := domain.NewCalibratedSample(uuid.NewString(), req.LabCode, result, time.Now().UTC())
		if err := h.repo.SaveResult(ctx, sample); err != nil {
			log.Printf("⚠️  Failed to persist calibration: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, resultResponse(result, req.IncludeDistribution))
}

// CalibrateBatch runs an array of calibrations concurrently over the shared
// curve set and reports a per-sample status.
func (h *RestHandler) CalibrateBatch(w http.ResponseWriter, r *http.Request) {
	var reqs []calibrateRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if len(reqs) == 0 {
		writeError(w, http.StatusBadRequest, "empty batch")
		return
	}
	if len(reqs) > maxBatchSize {
		writeError(w, http.StatusBadRequest, "batch too large (max 1000 samples)")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	curves, err := h.ensureCurves(ctx)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	jobID := uuid.NewString()
	now := time.Now().UTC()

	type batchItem struct {
		index int
		req   calibrateRequest
	}
	items := make(chan batchItem)
	outcomes := make([]map[string]interface{}, len(reqs))
	samples := make([]domain.CalibratedSample, len(reqs))
	kept := make([]bool, len(reqs))

	var wg sync.WaitGroup
	for n := 0; n < batchWorkers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range items {
				result, err := domain.CalibrateDate(curves, item.req.toInput())
				if err != nil {
					curvedata.RecordCalibration(item.req.Curve, statusOf(err))
					outcomes[item.index] = map[string]interface{}{
						"lab_code": item.req.LabCode,
						"status":   "error",
						"error":    err.Error(),
					}
					continue
				}
				curvedata.RecordCalibration(string(result.Input.CurveType), "ok")
				outcome := resultResponse(result, item.req.IncludeDistribution)
				outcome["lab_code"] = item.req.LabCode
				outcome["status"] = "ok"
				outcomes[item.index] = outcome
				samples[item.index] = domain.NewCalibratedSample(uuid.NewString(), item.req.LabCode, result, now)
				kept[item.index] = true
			}
		}()
	}

	for i, req := range reqs {
		items <- batchItem{index: i, req: req}
	}
	close(items)
	wg.Wait()

	if h.repo != nil {
		var toSave []domain.CalibratedSample
		for i, ok := range kept {
			if ok {
				toSave = append(toSave, samples[i])
			}
		}
		if len(toSave) > 0 {
			if err := h.repo.SaveBatch(ctx, toSave); err != nil {
				log.Printf("⚠️  Failed to persist batch %s: %v", jobID, err)
			}
		}
	}

	succeeded := 0
	for _, ok := range kept {
		if ok {
			succeeded++
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"job_id":    jobID,
		"total":     len(reqs),
		"succeeded": succeeded,
		"failed":    len(reqs) - succeeded,
		"results":   outcomes,
	})
}

// ListCurves reports the loaded curve inventory.
func (h *RestHandler) ListCurves(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	curves, err := h.ensureCurves(ctx)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	inventory := make([]map[string]interface{}, 0, len(curves))
	for _, curveType := range domain.KnownCurveTypes {
		curve, ok := curves[curveType]
		if !ok {
			continue
		}
		inventory = append(inventory, map[string]interface{}{
			"curve":      string(curveType),
			"points":     len(curve),
			"min_cal_bp": curve.MinCalBP(),
			"max_cal_bp": curve.MaxCalBP(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"curves": inventory})
}

// ensureCurves returns the loaded curve set, triggering a load when the
// provider has none yet. A failed load fails the calibration; the engine
// never proceeds without data.
func (h *RestHandler) ensureCurves(ctx context.Context) (domain.CurveSet, error) {
	if curves := h.provider.Curves(); curves != nil {
		return curves, nil
	}
	curves, err := h.provider.LoadCurves(ctx)
	if err != nil {
		return nil, err
	}
	return curves, nil
}

func resultResponse(result *domain.CalibrationResult, includeDistribution bool) map[string]interface{} {
	response := map[string]interface{}{
		"input": map[string]interface{}{
			"c14_age":              result.Input.C14Age,
			"uncertainty":          result.Input.Uncertainty,
			"reservoir_correction": result.Input.ReservoirCorrection,
			"curve":                string(result.Input.CurveType),
			"search_mode":          string(result.Input.SearchMode),
		},
		"mode_cal_bp":   result.ModeCalBP,
		"mode_calendar": domain.FormatCalYear(result.ModeCalBP),
		"hpd68":         intervalsResponse(result.HPD68),
		"hpd95":         intervalsResponse(result.HPD95),
		"range68":       intervalResponse(result.Range68),
		"range95":       intervalResponse(result.Range95),
	}
	if len(result.Warnings) > 0 {
		response["warnings"] = result.Warnings
	}
	if includeDistribution {
		dist := make([]map[string]interface{}, len(result.Distribution))
		for i, p := range result.Distribution {
			dist[i] = map[string]interface{}{"cal_bp": p.CalBP, "probability": p.Probability}
		}
		response["distribution"] = dist
	}
	return response
}

func intervalsResponse(intervals []domain.Interval) []map[string]interface{} {
	out := make([]map[string]interface{}, len(intervals))
	for i, iv := range intervals {
		out[i] = intervalResponse(iv)
	}
	return out
}

func intervalResponse(iv domain.Interval) map[string]interface{} {
	return map[string]interface{}{
		"min_cal_bp": iv.Min,
		"max_cal_bp": iv.Max,
		"calendar":   domain.FormatInterval(iv),
	}
}

func statusOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrMissingCurveData):
		return "missing_curve"
	default:
		return "error"
	}
}

func httpStatusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingCurveData):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCurveLoad):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
