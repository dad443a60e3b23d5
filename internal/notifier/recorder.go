package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

var _ Service = (*Recorder)(nil)

// Recorder is an in-memory Service that remembers every call in order.
// Tests use it in place of a real backend.
type Recorder struct {
	mu sync.Mutex

	Calls     []string
	Pending   []Request
	Submitted []Request
	History   []Delivered
	Perms     Permissions
	Chan      Channel

	// ScheduleErr, when set, decides whether a Schedule call fails.
	ScheduleErr func(Request) error
	CancelErr   error
	// ScheduleDelay slows every Schedule call down.
	ScheduleDelay time.Duration
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(call string) {
	r.Calls = append(r.Calls, call)
}

func (r *Recorder) CancelAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("cancelAll")
	if r.CancelErr != nil {
		return r.CancelErr
	}
	r.Pending = nil
	return nil
}

func (r *Recorder) CancelLast(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("cancelLast")
	if len(r.Pending) > 0 {
		r.Pending = r.Pending[:len(r.Pending)-1]
	}
	return nil
}

func (r *Recorder) Schedule(ctx context.Context, req Request) error {
	r.mu.Lock()
	delay, fail := r.ScheduleDelay, r.ScheduleErr
	r.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("schedule")
	if fail != nil {
		if err := fail(req); err != nil {
			return err
		}
	}
	r.Pending = append(r.Pending, req)
	r.Submitted = append(r.Submitted, req)
	return nil
}

func (r *Recorder) LocalNotif(ctx context.Context, sound string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("localNotif")
	r.History = append(r.History, Delivered{ID: uuid.NewString(), Sound: sound, DeliveredAt: time.Now()})
	return nil
}

func (r *Recorder) Scheduled(ctx context.Context) ([]Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("scheduled")
	return append([]Request(nil), r.Pending...), nil
}

func (r *Recorder) Delivered(ctx context.Context) ([]Delivered, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("delivered")
	return append([]Delivered(nil), r.History...), nil
}

func (r *Recorder) CheckPermission(ctx context.Context) (Permissions, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("checkPermission")
	return r.Perms, nil
}

func (r *Recorder) RequestPermissions(ctx context.Context) (Permissions, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("requestPermissions")
	r.Perms = Permissions{Alert: true, Badge: true, Sound: true}
	return r.Perms, nil
}

func (r *Recorder) AbandonPermissions(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("abandonPermissions")
	r.Perms = Permissions{}
	return nil
}

func (r *Recorder) CreateOrUpdateChannel(ctx context.Context, ch Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("createOrUpdateChannel")
	r.Chan = ch
	return nil
}

func (r *Recorder) PopInitialNotification(ctx context.Context) (*Delivered, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("popInitialNotification")
	for i := len(r.History) - 1; i >= 0; i-- {
		if !r.History[i].Opened {
			r.History[i].Opened = true
			d := r.History[i]
			return &d, nil
		}
	}
	return nil, nil
}

// Snapshot returns copies of the call log and submitted requests.
func (r *Recorder) Snapshot() ([]string, []Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Calls...), append([]Request(nil), r.Submitted...)
}

// Reset clears recorded calls and submissions but keeps failure settings.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = nil
	r.Submitted = nil
	r.Pending = nil
}
