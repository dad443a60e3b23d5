package scheduler

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"

	"github.com/julianstephens/flashnote/internal/constants"
	"github.com/julianstephens/flashnote/internal/logger"
	"github.com/julianstephens/flashnote/internal/models"
	"github.com/julianstephens/flashnote/internal/notifier"
)

// QueueBuilder produces a fresh queue for each plan.
type QueueBuilder interface {
	Build(albumName string, notes []string) models.Queue
}

// PreferencesSource supplies interval and repeat at plan time.
type PreferencesSource interface {
	Get() models.Preferences
}

// Summary describes what one Plan call submitted.
type Summary struct {
	Album     string
	Queue     models.Queue
	Items     int
	Submitted int
	Failed    int
	FirstFire time.Time
	LastFire  time.Time
	EndFire   time.Time
}

// Planner turns an album into a capped, time-ordered set of notification
// requests. Only one plan runs at a time.
type Planner struct {
	service notifier.Service
	builder QueueBuilder
	prefs   PreferencesSource
	clock   clockwork.Clock
	log     *log.Logger

	mu sync.Mutex
}

func New(service notifier.Service, builder QueueBuilder, prefs PreferencesSource, clock clockwork.Clock) *Planner {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Planner{
		service: service,
		builder: builder,
		prefs:   prefs,
		clock:   clock,
		log:     logger.Component("scheduler"),
	}
}

// Plan replaces whatever is scheduled with notes from albumName. Service
// failures are logged and counted in the summary, never returned; the only
// error is a context that is already done.
func (p *Planner) Plan(ctx context.Context, albumName string, notes []string) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	summary := Summary{Album: albumName}

	if err := p.service.CancelAll(ctx); err != nil {
		p.log.Warn("cancel all failed, previous notifications may remain", "album", albumName, "error", err)
	}

	q := p.builder.Build(albumName, notes)
	summary.Queue = q
	prefs := p.prefs.Get()

	maxCount := constants.MaxScheduledNotificationCount - 1
	playingNext := Expand(q.Shuffled, prefs.Repeat, maxCount)
	summary.Items = len(playingNext)

	interval := intervalDuration(prefs.IntervalInSeconds)
	t := p.clock.Now()
	for _, item := range playingNext {
		t = t.Add(interval)
		p.submit(ctx, &summary, notifier.Request{
			ID:      item.ID,
			Title:   item.AlbumName,
			FiresAt: t,
			Message: item.NoteText,
			Tag:     item.Tag(),
		})
		if summary.FirstFire.IsZero() {
			summary.FirstFire = t
		}
		summary.LastFire = t
	}

	t = t.Add(constants.EndOfQueueDelay)
	p.submit(ctx, &summary, notifier.Request{
		ID:      constants.EndOfQueueID,
		Title:   albumName,
		FiresAt: t,
		Message: constants.EndOfQueueMessage,
		Tag:     models.EndTag(models.AlbumKey(albumName)),
	})
	summary.EndFire = t

	p.log.Info("planned album", "album", albumName, "submitted", summary.Submitted, "failed", summary.Failed)
	return summary, nil
}

func (p *Planner) submit(ctx context.Context, summary *Summary, req notifier.Request) {
	if err := p.service.Schedule(ctx, req); err != nil {
		p.log.Warn("notification not scheduled", "album", req.Title, "id", req.ID, "error", err)
		summary.Failed++
		return
	}
	summary.Submitted++
}

// Expand doubles items until it holds at least maxCount entries when repeat
// is set, then truncates to maxCount. Empty input stays empty.
func Expand(items []models.QueueItem, repeat bool, maxCount int) []models.QueueItem {
	out := make([]models.QueueItem, len(items))
	copy(out, items)
	if len(out) == 0 || maxCount <= 0 {
		return out[:0]
	}
	if repeat {
		for len(out) < maxCount {
			out = append(out, out...)
		}
	}
	if len(out) > maxCount {
		out = out[:maxCount]
	}
	return out
}

// intervalDuration converts seconds to a Duration, treating anything that is
// not a finite positive number as zero.
func intervalDuration(seconds float64) time.Duration {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	if math.IsInf(seconds, 1) || seconds > float64(math.MaxInt64/int64(time.Second)) {
		return time.Duration(math.MaxInt64 / int64(constants.MaxScheduledNotificationCount+1))
	}
	return time.Duration(seconds * float64(time.Second))
}
