package profile

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/okian/ratingscope/internal/domain/extract"
	"github.com/okian/ratingscope/internal/domain/model"
	"github.com/okian/ratingscope/internal/domain/types"
	"github.com/okian/ratingscope/pkg/metrics"
)

// Synthetic record bounds.
const (
	syntheticFloor      = 1000
	syntheticCeiling    = 3000
	syntheticStartMin   = 1400
	syntheticStartSpan  = 400
	syntheticStep       = 100
	syntheticCurrentMin = 1600
	syntheticCurrentMax = 2400
	syntheticPeakMin    = 1800
	syntheticPeakMax    = 2700
	syntheticNameChars  = 6
)

// Rand is the random source behind synthetic records.
type Rand interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// NewRand returns a time-seeded source safe for concurrent use.
func NewRand() Rand {
	seed := uint64(time.Now().UnixNano())
	return NewSeededRand(seed)
}

// NewSeededRand returns a deterministic source safe for concurrent use.
func NewSeededRand(seed uint64) Rand {
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Synthetic builds a randomized stand-in record for id. The schema is the
// same as an extracted record.
func (a *Assembler) Synthetic(id string) types.Assembly {
	metrics.RecordSynthetic()

	year := a.extractor.CurrentYear()
	years := a.normalizer.Years

	hist := make(model.Series, years)
	v := syntheticStartMin + a.rand.IntN(syntheticStartSpan)
	for i := range hist {
		if i > 0 {
			v = clamp(v+a.rand.IntN(2*syntheticStep+1)-syntheticStep, syntheticFloor, syntheticCeiling)
		}
		hist[i] = model.Point{Year: year - (years - 1) + i, Rating: v}
	}

	current := syntheticCurrentMin + a.rand.IntN(syntheticCurrentMax-syntheticCurrentMin)
	peak := syntheticPeakMin + a.rand.IntN(syntheticPeakMax-syntheticPeakMin)
	best, _ := hist.Max()
	peakYear := best.Year
	if best.Rating > peak {
		peak = best.Rating
	}
	if current > peak {
		peak, peakYear = current, year
	}

	return types.Assembly{
		Record: types.PlayerRecord{
			ID:            id,
			Name:          syntheticName(id),
			CurrentRating: current,
			PeakRating:    peak,
			PeakDate:      extract.Peak{Rating: peak, Year: peakYear}.Date(),
			RatingHistory: hist,
			Trend:         a.classifier.Classify(hist),
		},
		Synthetic: true,
		Debug: types.Debug{
			Stages: map[string]string{"record": StageSynthetic},
		},
	}
}

func syntheticName(id string) string {
	r := []rune(id)
	if len(r) > syntheticNameChars {
		r = r[:syntheticNameChars]
	}
	if len(r) == 0 {
		return "Player"
	}
	return "Player " + string(r)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
