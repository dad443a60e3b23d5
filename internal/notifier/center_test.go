package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/julianstephens/flashnote/internal/constants"
	"github.com/julianstephens/flashnote/internal/storage"
)

type captureSender struct {
	mu   sync.Mutex
	sent []Message
	fail func(Message) error
}

func (c *captureSender) Send(ctx context.Context, msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		if err := c.fail(msg); err != nil {
			return err
		}
	}
	c.sent = append(c.sent, msg)
	return nil
}

var start = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestCenter(t *testing.T) (*Center, *captureSender, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(start)
	sender := &captureSender{}
	return NewCenter(storage.NewMemoryStore(), sender, clock), sender, clock
}

func grant(t *testing.T, c *Center) {
	t.Helper()
	if _, err := c.RequestPermissions(context.Background()); err != nil {
		t.Fatalf("RequestPermissions() error = %v", err)
	}
}

func schedule(t *testing.T, c *Center, reqs ...Request) {
	t.Helper()
	for _, r := range reqs {
		if err := c.Schedule(context.Background(), r); err != nil {
			t.Fatalf("Schedule(%d) error = %v", r.ID, err)
		}
	}
}

func TestCenter_ScheduledInFireOrder(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCenter(t)

	schedule(t, c,
		Request{ID: 2, Title: "a", FiresAt: start.Add(20 * time.Second)},
		Request{ID: 1, Title: "a", FiresAt: start.Add(10 * time.Second)},
		Request{ID: 1, Title: "a", FiresAt: start.Add(30 * time.Second)},
	)

	got, err := c.Scheduled(ctx)
	if err != nil {
		t.Fatalf("Scheduled() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(Scheduled()) = %d, want 3 (duplicate ids are kept)", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].FiresAt.Before(got[i-1].FiresAt) {
			t.Errorf("Scheduled() not in fire order: %v", got)
		}
	}
}

func TestCenter_CancelAll(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCenter(t)
	schedule(t, c, Request{ID: 1, FiresAt: start}, Request{ID: 2, FiresAt: start})

	if err := c.CancelAll(ctx); err != nil {
		t.Fatalf("CancelAll() error = %v", err)
	}
	got, _ := c.Scheduled(ctx)
	if len(got) != 0 {
		t.Errorf("Scheduled() after CancelAll = %v, want empty", got)
	}
}

func TestCenter_CancelLastDropsNewestSubmission(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCenter(t)

	// The newest submission fires earliest, so order by time would pick wrong.
	schedule(t, c,
		Request{ID: 1, FiresAt: start.Add(10 * time.Second)},
		Request{ID: 2, FiresAt: start.Add(20 * time.Second)},
		Request{ID: 3, FiresAt: start.Add(5 * time.Second)},
	)
	if err := c.CancelLast(ctx); err != nil {
		t.Fatalf("CancelLast() error = %v", err)
	}

	got, _ := c.Scheduled(ctx)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("Scheduled() = %+v, want ids 1, 2", got)
	}

	// Cancelling on an empty set is a no-op.
	_ = c.CancelAll(ctx)
	if err := c.CancelLast(ctx); err != nil {
		t.Errorf("CancelLast() on empty error = %v", err)
	}
}

func TestCenter_DispatchDeliversDueInOrder(t *testing.T) {
	ctx := context.Background()
	c, sender, _ := newTestCenter(t)
	grant(t, c)

	schedule(t, c,
		Request{ID: 1, Title: "caps", Message: "B", FiresAt: start.Add(20 * time.Second), Tag: "k/1"},
		Request{ID: 0, Title: "caps", Message: "A", FiresAt: start.Add(10 * time.Second), Tag: "k/0"},
		Request{ID: 2, Title: "caps", Message: "C", FiresAt: start.Add(30 * time.Second), Tag: "k/2"},
	)

	result, err := c.Dispatch(ctx, start.Add(25*time.Second))
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(result.Delivered) != 2 || result.Failed != 0 || result.Dropped != 0 {
		t.Fatalf("Dispatch() = %+v, want 2 delivered", result)
	}
	if len(sender.sent) != 2 || sender.sent[0].Body != "A" || sender.sent[1].Body != "B" {
		t.Errorf("sent = %+v, want A then B", sender.sent)
	}
	if sender.sent[0].ChannelID != constants.DefaultChannelID {
		t.Errorf("ChannelID = %q, want default channel", sender.sent[0].ChannelID)
	}

	pending, _ := c.Scheduled(ctx)
	if len(pending) != 1 || pending[0].Message != "C" {
		t.Errorf("Scheduled() after dispatch = %+v, want only C", pending)
	}

	delivered, err := c.Delivered(ctx)
	if err != nil {
		t.Fatalf("Delivered() error = %v", err)
	}
	if len(delivered) != 2 || delivered[0].Message != "B" {
		t.Errorf("Delivered() = %+v, want newest first", delivered)
	}
	if delivered[0].ID == "" || delivered[0].ID == delivered[1].ID {
		t.Errorf("delivered ids not unique: %q %q", delivered[0].ID, delivered[1].ID)
	}
	if delivered[1].Tag != "k/0" {
		t.Errorf("Tag = %q, want k/0", delivered[1].Tag)
	}
}

func TestCenter_DispatchWithoutPermissionDrops(t *testing.T) {
	ctx := context.Background()
	c, sender, _ := newTestCenter(t)
	schedule(t, c, Request{ID: 1, FiresAt: start})

	result, err := c.Dispatch(ctx, start)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if result.Dropped != 1 || len(sender.sent) != 0 {
		t.Errorf("Dispatch() = %+v, sent %d; want 1 dropped", result, len(sender.sent))
	}
	if pending, _ := c.Scheduled(ctx); len(pending) != 0 {
		t.Errorf("dropped request still pending: %v", pending)
	}
}

func TestCenter_DispatchSendFailureIsNotRetried(t *testing.T) {
	ctx := context.Background()
	c, sender, _ := newTestCenter(t)
	grant(t, c)
	sender.fail = func(m Message) error {
		if m.Body == "bad" {
			return errors.New("tray gone")
		}
		return nil
	}
	schedule(t, c,
		Request{ID: 1, Message: "bad", FiresAt: start},
		Request{ID: 2, Message: "good", FiresAt: start.Add(time.Second)},
	)

	result, err := c.Dispatch(ctx, start.Add(time.Minute))
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if result.Failed != 1 || len(result.Delivered) != 1 {
		t.Errorf("Dispatch() = %+v, want 1 failed 1 delivered", result)
	}
	again, _ := c.Dispatch(ctx, start.Add(time.Hour))
	if again.Failed != 0 || len(again.Delivered) != 0 {
		t.Errorf("second Dispatch() = %+v, want nothing", again)
	}
}

func TestCenter_DeliveredHistoryIsBounded(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCenter(t)
	grant(t, c)

	for i := 0; i < constants.MaxDeliveredHistory+10; i++ {
		schedule(t, c, Request{ID: i, FiresAt: start})
	}
	if _, err := c.Dispatch(ctx, start); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	delivered, _ := c.Delivered(ctx)
	if len(delivered) != constants.MaxDeliveredHistory {
		t.Fatalf("len(Delivered()) = %d, want %d", len(delivered), constants.MaxDeliveredHistory)
	}
	if delivered[0].RequestID != constants.MaxDeliveredHistory+9 {
		t.Errorf("newest RequestID = %d, want %d", delivered[0].RequestID, constants.MaxDeliveredHistory+9)
	}
}

func TestCenter_Permissions(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCenter(t)

	perms, err := c.CheckPermission(ctx)
	if err != nil || perms.Alert {
		t.Fatalf("CheckPermission() = %+v, %v; want nothing granted", perms, err)
	}
	grant(t, c)
	if perms, _ = c.CheckPermission(ctx); !perms.Alert || !perms.Sound || !perms.Badge {
		t.Errorf("CheckPermission() after request = %+v", perms)
	}
	if err := c.AbandonPermissions(ctx); err != nil {
		t.Fatalf("AbandonPermissions() error = %v", err)
	}
	if perms, _ = c.CheckPermission(ctx); perms.Alert {
		t.Errorf("CheckPermission() after abandon = %+v", perms)
	}
}

func TestCenter_LocalNotif(t *testing.T) {
	ctx := context.Background()
	c, sender, clock := newTestCenter(t)

	if err := c.LocalNotif(ctx, ""); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("LocalNotif() without permission error = %v, want ErrPermissionDenied", err)
	}

	grant(t, c)
	clock.Advance(time.Minute)
	if err := c.LocalNotif(ctx, "sample.mp3"); err != nil {
		t.Fatalf("LocalNotif() error = %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0].Sound != "sample.mp3" || sender.sent[0].Title != constants.LocalNotifTitle {
		t.Errorf("sent = %+v", sender.sent)
	}
	delivered, _ := c.Delivered(ctx)
	if len(delivered) != 1 || !delivered[0].DeliveredAt.Equal(start.Add(time.Minute)) {
		t.Errorf("Delivered() = %+v", delivered)
	}
}

func TestCenter_ChannelSoundUsedByDefault(t *testing.T) {
	ctx := context.Background()
	c, sender, _ := newTestCenter(t)
	grant(t, c)

	if err := c.CreateOrUpdateChannel(ctx, Channel{}); err == nil {
		t.Error("CreateOrUpdateChannel() with empty id error = nil")
	}
	if err := c.CreateOrUpdateChannel(ctx, Channel{ID: "notes", SoundName: "chime.wav"}); err != nil {
		t.Fatalf("CreateOrUpdateChannel() error = %v", err)
	}
	ch, err := c.Channel(ctx)
	if err != nil || ch.Name != "notes" || ch.SoundName != "chime.wav" {
		t.Fatalf("Channel() = %+v, %v", ch, err)
	}

	if err := c.LocalNotif(ctx, ""); err != nil {
		t.Fatalf("LocalNotif() error = %v", err)
	}
	if sender.sent[0].Sound != "chime.wav" || sender.sent[0].ChannelID != "notes" {
		t.Errorf("sent = %+v, want channel sound", sender.sent[0])
	}
}

func TestCenter_PopInitialNotification(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCenter(t)

	got, err := c.PopInitialNotification(ctx)
	if err != nil || got != nil {
		t.Fatalf("PopInitialNotification() on empty = %+v, %v", got, err)
	}

	grant(t, c)
	schedule(t, c,
		Request{ID: 1, Message: "old", FiresAt: start},
		Request{ID: 2, Message: "new", FiresAt: start.Add(time.Second)},
	)
	if _, err := c.Dispatch(ctx, start.Add(time.Minute)); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	for _, want := range []string{"new", "old"} {
		got, err := c.PopInitialNotification(ctx)
		if err != nil || got == nil || got.Message != want {
			t.Fatalf("PopInitialNotification() = %+v, %v; want %s", got, err, want)
		}
	}
	if got, _ := c.PopInitialNotification(ctx); got != nil {
		t.Errorf("PopInitialNotification() after all opened = %+v", got)
	}
}

func TestCenter_MalformedStateIsIgnored(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	if err := store.Set(ctx, constants.ScheduledKey, "not json"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	c := NewCenter(store, &captureSender{}, clockwork.NewFakeClockAt(start))

	got, err := c.Scheduled(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("Scheduled() = %v, %v; want empty", got, err)
	}
	schedule(t, c, Request{ID: 1, FiresAt: start})
	if got, _ := c.Scheduled(ctx); len(got) != 1 {
		t.Errorf("Scheduled() after recovery = %v", got)
	}
}
