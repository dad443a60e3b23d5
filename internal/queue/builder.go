package queue

import (
	"math/rand/v2"
	"sync"

	"github.com/julianstephens/flashnote/internal/models"
)

// PreferencesSource supplies the shuffle flag at build time.
type PreferencesSource interface {
	Get() models.Preferences
}

// QueueSink receives every queue the builder produces.
type QueueSink interface {
	Set(models.Queue)
}

// Builder turns an album's notes into a Queue.
type Builder struct {
	prefs PreferencesSource
	sink  QueueSink

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBuilder returns a builder. A nil rng is replaced with one seeded by the
// runtime; a nil sink skips persistence.
func NewBuilder(prefs PreferencesSource, sink QueueSink, rng *rand.Rand) *Builder {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Builder{
		prefs: prefs,
		sink:  sink,
		rng:   rng,
	}
}

// Build creates a fresh queue for albumName, shuffled when the current
// preferences ask for it, and hands it to the sink.
func (b *Builder) Build(albumName string, notes []string) models.Queue {
	key := models.AlbumKey(albumName)
	unshuffled := make([]models.QueueItem, len(notes))
	for i, note := range notes {
		unshuffled[i] = models.QueueItem{
			ID:        i,
			AlbumName: albumName,
			NoteText:  note,
			AlbumKey:  key,
		}
	}

	shuffled := make([]models.QueueItem, len(unshuffled))
	copy(shuffled, unshuffled)
	if b.prefs.Get().Shuffle {
		b.mu.Lock()
		Shuffle(b.rng, shuffled)
		b.mu.Unlock()
	}

	q := models.Queue{Unshuffled: unshuffled, Shuffled: shuffled}
	if b.sink != nil {
		b.sink.Set(q)
	}
	return q
}

// Shuffle permutes items in place with Fisher-Yates.
func Shuffle[T any](rng *rand.Rand, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
