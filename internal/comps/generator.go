package comps

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"propertyiq/server/internal/models"
)

// Methodology describes how comparables are scored, reported verbatim in the
// comps response.
const Methodology = "Distance-weighted similarity scoring"

const (
	basePricePerSqft = 250.0
	metersPerMile    = 1609.344
	defaultLimit     = 10
)

// Generator produces synthetic comparable sales by perturbing the query
// property. This is a stub data source, not a comparable-sales search: every
// record is random noise around the request attributes.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewGenerator creates a generator around the given random source. A nil rnd
// falls back to a time-seeded source; tests inject a seeded one.
func NewGenerator(rnd *rand.Rand) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rnd: rnd, now: time.Now}
}

// Generate returns req.Limit synthetic comparables ordered by similarity
// descending. Each record perturbs sqft by up to ±10%, bedrooms by one, and
// the base price per sqft by up to ±15%.
func (g *Generator) Generate(req models.CompsRequest) []models.ComparableSale {
	g.mu.Lock()
	defer g.mu.Unlock()

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	origin := orb.Point{req.Longitude, req.Latitude}
	now := g.now()

	comparables := make([]models.ComparableSale, 0, limit)
	for i := 0; i < limit; i++ {
		priceVariance := g.uniform(-0.15, 0.15)
		distance := round2(g.uniform(0.1, 2.0))
		bearing := g.uniform(0, 360)
		location := geo.PointAtBearingAndDistance(origin, bearing, distance*metersPerMile)
		daysAgo := 30 + g.rnd.Intn(150)

		comparables = append(comparables, models.ComparableSale{
			Address:    fmt.Sprintf("%d Demo Street", 100+i*10),
			City:       "Sample City",
			State:      "CA",
			SoldPrice:  int(float64(req.Sqft) * basePricePerSqft * (1 + priceVariance)),
			SoldDate:   now.AddDate(0, 0, -daysAgo),
			Sqft:       int(float64(req.Sqft) * (1 + g.uniform(-0.1, 0.1))),
			Bedrooms:   req.Bedrooms + g.rnd.Intn(3) - 1,
			Bathrooms:  req.Bathrooms,
			Latitude:   location.Lat(),
			Longitude:  location.Lon(),
			Distance:   distance,
			Similarity: round2(g.uniform(0.75, 0.95)),
		})
	}

	sort.SliceStable(comparables, func(i, j int) bool {
		return comparables[i].Similarity > comparables[j].Similarity
	})

	return comparables
}

func (g *Generator) uniform(low, high float64) float64 {
	return low + g.rnd.Float64()*(high-low)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
