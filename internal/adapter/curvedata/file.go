package curvedata

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/chronolab/carbondate/internal/core/domain"
)

// curveFileNames maps each curve type to the file name the published
// distributions use.
var curveFileNames = map[domain.CurveType]string{
	domain.IntCal20: "intcal20.14c",
	domain.SHCal20:  "shcal20.14c",
	domain.Marine20: "marine20.14c",
}

// ParseCurve reads a calibration curve in the standard .14c layout:
// comment lines prefixed with '#', then comma- or whitespace-separated rows
// of "calBP c14BP error". Extra columns (the published files carry Δ14C
// columns) are ignored. Rows are sorted ascending by calBP and deduplicated,
// keeping the first row seen for a calendar year.
func ParseCurve(r io.Reader) (domain.CalibrationCurve, error) {
	var curve domain.CalibrationCurve

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
		if len(fields) < 3 {
			return nil, fmt.Errorf("%w: line %d has %d columns, want at least 3", domain.ErrCurveLoad, lineNo, len(fields))
		}

		var vals [3]float64
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %d: %v", domain.ErrCurveLoad, lineNo, i+1, err)
			}
			vals[i] = v
		}

		curve = append(curve, domain.CurvePoint{CalBP: vals[0], C14BP: vals[1], Error: vals[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCurveLoad, err)
	}
	if len(curve) == 0 {
		return nil, fmt.Errorf("%w: no data rows", domain.ErrCurveLoad)
	}

	// Published files are ordered descending by calBP; the engine wants
	// ascending.
	sort.SliceStable(curve, func(i, j int) bool { return curve[i].CalBP < curve[j].CalBP })

	deduped := curve[:1]
	for _, p := range curve[1:] {
		if p.CalBP == deduped[len(deduped)-1].CalBP {
			continue
		}
		deduped = append(deduped, p)
	}
	return deduped, nil
}

// DirProvider loads calibration curves from .14c files in a local directory
// and caches the parsed set for the life of the process.
type DirProvider struct {
	dir string

	mu     sync.Mutex
	curves domain.CurveSet
}

// NewDirProvider creates a provider reading curve files from dir.
func NewDirProvider(dir string) *DirProvider {
	return &DirProvider{dir: dir}
}

// LoadCurves parses every known curve file found in the directory. Missing
// files are skipped with a log line; at least one curve must load. Repeated
// calls return the cached set.
func (p *DirProvider) LoadCurves(ctx context.Context) (domain.CurveSet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.curves != nil {
		return p.curves, nil
	}

	curves := make(domain.CurveSet)
	for curveType, name := range curveFileNames {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCurveLoad, err)
		}

		path := filepath.Join(p.dir, name)
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				log.Printf("⚠️  Curve file %s not found, %s unavailable", path, curveType)
				continue
			}
			return nil, fmt.Errorf("%w: open %s: %v", domain.ErrCurveLoad, path, err)
		}

		curve, err := ParseCurve(f)
		f.Close()
		if err != nil {
			RecordFetchError("parse")
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}

		curves[curveType] = curve
		RecordCurveLoaded(string(curveType), len(curve))
		log.Printf("✅ Loaded %s: %d points, %.0f-%.0f cal BP", curveType, len(curve), curve.MinCalBP(), curve.MaxCalBP())
	}

	if len(curves) == 0 {
		return nil, fmt.Errorf("%w: no curve files in %s", domain.ErrCurveLoad, p.dir)
	}

	p.curves = curves
	return curves, nil
}

// Curves returns the cached curve set, or nil if LoadCurves has not
// succeeded yet.
func (p *DirProvider) Curves() domain.CurveSet {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.curves
}
