package routing

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comfort-route/internal/geo"
	"comfort-route/internal/models"
)

func coord(lat, lng float64) models.Coordinates {
	return models.Coordinates{Lat: lat, Lng: lng}
}

func sortedCoords(cs []models.Coordinates) []models.Coordinates {
	out := append([]models.Coordinates(nil), cs...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Lat != out[j].Lat {
			return out[i].Lat < out[j].Lat
		}
		return out[i].Lng < out[j].Lng
	})
	return out
}

func randomCoords(rng *rand.Rand, n int) []models.Coordinates {
	cs := make([]models.Coordinates, n)
	for i := range cs {
		cs[i] = coord(40.6+rng.Float64()*0.2, -74.1+rng.Float64()*0.2)
	}
	return cs
}

func TestGreedySequencer_NearestFirst(t *testing.T) {
	start := coord(0, 0)
	candidates := []models.Coordinates{coord(10, 10), coord(1, 1), coord(5, 5)}

	got := GreedySequencer{}.Sequence(candidates, start)

	want := []models.Coordinates{coord(1, 1), coord(5, 5), coord(10, 10)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sequence() mismatch (-want +got):\n%s", diff)
	}
}

func TestGreedySequencer_DoesNotMutateInput(t *testing.T) {
	candidates := []models.Coordinates{coord(10, 10), coord(1, 1), coord(5, 5)}
	original := append([]models.Coordinates(nil), candidates...)

	GreedySequencer{}.Sequence(candidates, coord(0, 0))

	assert.Equal(t, original, candidates)
}

func TestGreedySequencer_TieKeepsFirst(t *testing.T) {
	start := coord(0, 0)
	candidates := []models.Coordinates{coord(0, 1), coord(1, 0)}

	got := GreedySequencer{}.Sequence(candidates, start)

	assert.Equal(t, candidates, got)
}

func TestGreedySequencer_ShortInputs(t *testing.T) {
	seq := GreedySequencer{}

	assert.Empty(t, seq.Sequence(nil, coord(0, 0)))
	assert.Empty(t, seq.Sequence([]models.Coordinates{}, coord(0, 0)))

	one := []models.Coordinates{coord(3, 4)}
	assert.Equal(t, one, seq.Sequence(one, coord(0, 0)))
}

func TestSequencers_ArePermutations(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	sequencers := []Sequencer{GreedySequencer{}, TwoOptSequencer{}}

	for _, seq := range sequencers {
		t.Run(seq.Name(), func(t *testing.T) {
			for n := 0; n < 12; n++ {
				candidates := randomCoords(rng, n)
				got := seq.Sequence(candidates, coord(40.7, -74.0))

				require.Len(t, got, n)
				if diff := cmp.Diff(sortedCoords(candidates), sortedCoords(got)); diff != "" {
					t.Errorf("n=%d: not a permutation (-want +got):\n%s", n, diff)
				}
			}
		})
	}
}

func TestTwoOptSequencer_NeverLongerThanGreedy(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	start := coord(40.7, -74.0)

	for trial := 0; trial < 25; trial++ {
		candidates := randomCoords(rng, 3+trial%8)

		greedy := GreedySequencer{}.Sequence(candidates, start)
		improved := TwoOptSequencer{}.Sequence(candidates, start)

		assert.LessOrEqual(t, geo.PathLength(start, improved), geo.PathLength(start, greedy)+1e-9, "trial %d", trial)
	}
}

func TestTwoOptSequencer_UncrossesPath(t *testing.T) {
	// Greedy hops across to (1, 0.9) first and then has to come back.
	start := coord(0, 0)
	candidates := []models.Coordinates{
		coord(0, 1), coord(0, 2.1), coord(0, 3.3), coord(1, 3.3), coord(1, 0.9),
	}

	greedy := GreedySequencer{}.Sequence(candidates, start)
	improved := TwoOptSequencer{MaxPasses: 10}.Sequence(candidates, start)

	assert.Less(t, geo.PathLength(start, improved), geo.PathLength(start, greedy))
}

func TestFindNearest_SkipsNaN(t *testing.T) {
	candidates := []models.Coordinates{coord(math.NaN(), 0), coord(2, 2)}

	assert.Equal(t, 1, findNearest(coord(0, 0), candidates))
	assert.Equal(t, -1, findNearest(coord(0, 0), candidates[:1]))
}
