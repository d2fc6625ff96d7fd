package curvedata

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/chronolab/carbondate/internal/core/domain"
)

// Public mirrors of the published curve files.
var defaultMirrorURLs = map[domain.CurveType]string{
	domain.IntCal20: "https://intcal.org/curves/intcal20.14c",
	domain.SHCal20:  "https://intcal.org/curves/shcal20.14c",
	domain.Marine20: "https://intcal.org/curves/marine20.14c",
}

// HTTPProvider downloads calibration curves from the public mirrors through
// the resilient client and caches the parsed set for the life of the
// process.
type HTTPProvider struct {
	client *ResilientClient
	urls   map[domain.CurveType]string

	mu     sync.Mutex
	curves domain.CurveSet
}

// NewHTTPProvider creates a provider fetching from the given mirror URLs.
// A nil or empty map selects the intcal.org mirrors.
func NewHTTPProvider(urls map[domain.CurveType]string) *HTTPProvider {
	if len(urls) == 0 {
		urls = defaultMirrorURLs
	}
	return &HTTPProvider{
		client: NewResilientClient(60*time.Second, DefaultResilientClientConfig()),
		urls:   urls,
	}
}

// LoadCurves downloads and parses every configured curve. A curve that fails
// to download is skipped with a log line; at least one curve must load.
// Repeated calls return the cached set.
func (p *HTTPProvider) LoadCurves(ctx context.Context) (domain.CurveSet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.curves != nil {
		return p.curves, nil
	}

	curves := make(domain.CurveSet)
	for curveType, url := range p.urls {
		curve, err := p.fetchCurve(ctx, url)
		if err != nil {
			log.Printf("❌ Failed to fetch %s from %s: %v", curveType, url, err)
			continue
		}
		curves[curveType] = curve
		RecordCurveLoaded(string(curveType), len(curve))
		log.Printf("✅ Fetched %s: %d points", curveType, len(curve))
	}

	if len(curves) == 0 {
		return nil, fmt.Errorf("%w: no curve could be fetched", domain.ErrCurveLoad)
	}

	p.curves = curves
	return curves, nil
}

// Curves returns the cached curve set, or nil if LoadCurves has not
// succeeded yet.
func (p *HTTPProvider) Curves() domain.CurveSet {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.curves
}

func (p *HTTPProvider) fetchCurve(ctx context.Context, url string) (domain.CalibrationCurve, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCurveLoad, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCurveLoad, err)
	}
	defer resp.Body.Close()

	curve, err := ParseCurve(resp.Body)
	if err != nil {
		RecordFetchError("parse")
		return nil, err
	}
	return curve, nil
}
