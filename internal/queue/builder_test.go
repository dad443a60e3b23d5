package queue

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"testing"

	"github.com/julianstephens/flashnote/internal/models"
)

type fixedPrefs struct{ shuffle bool }

func (f fixedPrefs) Get() models.Preferences {
	p := models.DefaultPreferences()
	p.Shuffle = f.shuffle
	return p
}

type captureSink struct{ queues []models.Queue }

func (c *captureSink) Set(q models.Queue) { c.queues = append(c.queues, q) }

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func notes(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("note-%d", i)
	}
	return out
}

func TestBuild_UnshuffledMapsPositions(t *testing.T) {
	sink := &captureSink{}
	b := NewBuilder(fixedPrefs{}, sink, seeded(1))

	q := b.Build("caps", []string{"A", "B", "C"})

	if len(q.Unshuffled) != 3 {
		t.Fatalf("len(Unshuffled) = %d, want 3", len(q.Unshuffled))
	}
	key := models.AlbumKey("caps")
	for i, item := range q.Unshuffled {
		if item.ID != i || item.AlbumName != "caps" || item.AlbumKey != key {
			t.Errorf("Unshuffled[%d] = %+v", i, item)
		}
	}
	if q.Unshuffled[1].NoteText != "B" {
		t.Errorf("Unshuffled[1].NoteText = %q, want B", q.Unshuffled[1].NoteText)
	}
	if len(sink.queues) != 1 {
		t.Fatalf("sink received %d queues, want 1", len(sink.queues))
	}
}

func TestBuild_NoShuffleIsIdentity(t *testing.T) {
	b := NewBuilder(fixedPrefs{shuffle: false}, nil, seeded(2))
	q := b.Build("album", notes(40))

	for i := range q.Unshuffled {
		if q.Shuffled[i] != q.Unshuffled[i] {
			t.Fatalf("Shuffled[%d] = %+v, want %+v", i, q.Shuffled[i], q.Unshuffled[i])
		}
	}
}

func TestBuild_ShuffleIsPermutation(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 50, 200} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			b := NewBuilder(fixedPrefs{shuffle: true}, nil, seeded(uint64(n)+3))
			q := b.Build("album", notes(n))

			if len(q.Shuffled) != len(q.Unshuffled) {
				t.Fatalf("len(Shuffled) = %d, len(Unshuffled) = %d", len(q.Shuffled), len(q.Unshuffled))
			}
			ids := make([]int, len(q.Shuffled))
			for i, item := range q.Shuffled {
				ids[i] = item.ID
				if item.NoteText != q.Unshuffled[item.ID].NoteText {
					t.Errorf("item %d lost its note text", item.ID)
				}
			}
			sort.Ints(ids)
			for i, id := range ids {
				if id != i {
					t.Fatalf("shuffled ids are not a permutation: %v", ids)
				}
			}
		})
	}
}

func TestBuild_ShuffleDoesNotTouchUnshuffled(t *testing.T) {
	b := NewBuilder(fixedPrefs{shuffle: true}, nil, seeded(4))
	q := b.Build("album", notes(30))
	for i, item := range q.Unshuffled {
		if item.ID != i {
			t.Fatalf("Unshuffled[%d].ID = %d", i, item.ID)
		}
	}
}

// Every permutation of four items should appear roughly equally often.
func TestShuffle_Fairness(t *testing.T) {
	const (
		trials = 48000
		perms  = 24
	)
	rng := seeded(5)
	counts := make(map[string]int, perms)

	for i := 0; i < trials; i++ {
		items := []string{"a", "b", "c", "d"}
		Shuffle(rng, items)
		counts[strings.Join(items, "")]++
	}

	if len(counts) != perms {
		t.Fatalf("saw %d distinct permutations, want %d", len(counts), perms)
	}

	expected := float64(trials) / perms
	var chi2 float64
	for perm, c := range counts {
		d := float64(c) - expected
		chi2 += d * d / expected
		if math.Abs(d) > expected*0.15 {
			t.Errorf("permutation %s seen %d times, expected about %.0f", perm, c, expected)
		}
	}
	// 23 degrees of freedom, p = 0.001 critical value.
	if chi2 > 49.73 {
		t.Errorf("chi-square = %.2f, distribution looks biased", chi2)
	}
}

func TestBuild_ReadsShuffleFlagEachTime(t *testing.T) {
	prefs := &togglePrefs{}
	b := NewBuilder(prefs, nil, seeded(6))

	q := b.Build("album", notes(20))
	for i := range q.Shuffled {
		if q.Shuffled[i].ID != i {
			t.Fatal("queue shuffled while shuffle was off")
		}
	}

	prefs.shuffle = true
	q = b.Build("album", notes(20))
	identity := true
	for i := range q.Shuffled {
		if q.Shuffled[i].ID != i {
			identity = false
		}
	}
	if identity {
		t.Error("queue not shuffled after shuffle was turned on")
	}
}

type togglePrefs struct{ shuffle bool }

func (p *togglePrefs) Get() models.Preferences {
	return models.Preferences{IntervalInSeconds: 1, Shuffle: p.shuffle}
}
