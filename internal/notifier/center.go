package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/julianstephens/flashnote/internal/constants"
	"github.com/julianstephens/flashnote/internal/logger"
	"github.com/julianstephens/flashnote/internal/storage"
)

var _ Service = (*Center)(nil)

type pending struct {
	Seq uint64 `json:"seq"`
	Request
}

type scheduledDoc struct {
	NextSeq  uint64    `json:"nextSeq"`
	Requests []pending `json:"requests"`
}

// DispatchResult counts what a Dispatch pass did with the due requests.
type DispatchResult struct {
	Delivered []Delivered
	Dropped   int
	Failed    int
}

// Center is a Service that keeps pending and delivered notifications in a
// storage.Provider and shows due ones through a Sender when Dispatch runs.
type Center struct {
	provider storage.Provider
	sender   Sender
	clock    clockwork.Clock
	log      *log.Logger

	mu sync.Mutex
}

func NewCenter(provider storage.Provider, sender Sender, clock clockwork.Clock) *Center {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Center{
		provider: provider,
		sender:   sender,
		clock:    clock,
		log:      logger.Component("notifier"),
	}
}

func (c *Center) CancelAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.loadScheduled(ctx)
	if err != nil {
		return err
	}
	doc.Requests = nil
	return c.saveJSON(ctx, constants.ScheduledKey, doc)
}

func (c *Center) CancelLast(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.loadScheduled(ctx)
	if err != nil {
		return err
	}
	if len(doc.Requests) == 0 {
		return nil
	}
	newest := 0
	for i, p := range doc.Requests {
		if p.Seq > doc.Requests[newest].Seq {
			newest = i
		}
	}
	doc.Requests = append(doc.Requests[:newest], doc.Requests[newest+1:]...)
	return c.saveJSON(ctx, constants.ScheduledKey, doc)
}

// Schedule adds req to the pending set. Duplicate IDs are kept side by side.
func (c *Center) Schedule(ctx context.Context, req Request) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.loadScheduled(ctx)
	if err != nil {
		return err
	}
	doc.NextSeq++
	doc.Requests = append(doc.Requests, pending{Seq: doc.NextSeq, Request: req})
	return c.saveJSON(ctx, constants.ScheduledKey, doc)
}

// Scheduled lists pending requests in fire order.
func (c *Center) Scheduled(ctx context.Context) ([]Request, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.loadScheduled(ctx)
	if err != nil {
		return nil, err
	}
	sortPending(doc.Requests)
	out := make([]Request, len(doc.Requests))
	for i, p := range doc.Requests {
		out[i] = p.Request
	}
	return out, nil
}

// Delivered lists delivered notifications, newest first.
func (c *Center) Delivered(ctx context.Context) ([]Delivered, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	history, err := c.loadDelivered(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Delivered, len(history))
	for i := range history {
		out[i] = history[len(history)-1-i]
	}
	return out, nil
}

// LocalNotif shows a notification immediately.
func (c *Center) LocalNotif(ctx context.Context, sound string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	perms, err := c.loadPermissions(ctx)
	if err != nil {
		return err
	}
	if !perms.Alert {
		return ErrPermissionDenied
	}
	channel, err := c.loadChannel(ctx)
	if err != nil {
		return err
	}
	if sound == "" {
		sound = channel.SoundName
	}

	req := Request{
		ID:      0,
		Title:   constants.LocalNotifTitle,
		Message: constants.LocalNotifMessage,
		FiresAt: c.clock.Now(),
	}
	if err := c.sender.Send(ctx, Message{Title: req.Title, Body: req.Message, Sound: sound, ChannelID: channel.ID}); err != nil {
		return fmt.Errorf("failed to send local notification: %w", err)
	}

	history, err := c.loadDelivered(ctx)
	if err != nil {
		return err
	}
	history = appendDelivered(history, newDelivered(req, channel.ID, sound, c.clock.Now()))
	return c.saveJSON(ctx, constants.DeliveredKey, history)
}

// Dispatch sends every pending request due at or before now, in fire order.
// Requests are removed from the pending set whether or not they could be
// shown; nothing is retried.
func (c *Center) Dispatch(ctx context.Context, now time.Time) (DispatchResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var result DispatchResult

	doc, err := c.loadScheduled(ctx)
	if err != nil {
		return result, err
	}
	sortPending(doc.Requests)

	var due, later []pending
	for _, p := range doc.Requests {
		if !p.FiresAt.After(now) {
			due = append(due, p)
		} else {
			later = append(later, p)
		}
	}
	if len(due) == 0 {
		return result, nil
	}

	doc.Requests = later
	if err := c.saveJSON(ctx, constants.ScheduledKey, doc); err != nil {
		return result, err
	}

	perms, err := c.loadPermissions(ctx)
	if err != nil {
		return result, err
	}
	channel, err := c.loadChannel(ctx)
	if err != nil {
		return result, err
	}

	for _, p := range due {
		if !perms.Alert {
			c.log.Warn("dropping notification without permission", "id", p.ID, "title", p.Title)
			result.Dropped++
			continue
		}
		msg := Message{Title: p.Title, Body: p.Message, Sound: channel.SoundName, ChannelID: channel.ID}
		if err := c.sender.Send(ctx, msg); err != nil {
			c.log.Warn("notification not delivered", "id", p.ID, "title", p.Title, "error", err)
			result.Failed++
			continue
		}
		result.Delivered = append(result.Delivered, newDelivered(p.Request, channel.ID, channel.SoundName, now))
	}

	if len(result.Delivered) == 0 {
		return result, nil
	}
	history, err := c.loadDelivered(ctx)
	if err != nil {
		return result, err
	}
	for _, d := range result.Delivered {
		history = appendDelivered(history, d)
	}
	return result, c.saveJSON(ctx, constants.DeliveredKey, history)
}

func (c *Center) CheckPermission(ctx context.Context) (Permissions, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadPermissions(ctx)
}

// RequestPermissions grants every permission. A desktop has no prompt to show.
func (c *Center) RequestPermissions(ctx context.Context) (Permissions, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	perms := Permissions{Alert: true, Badge: true, Sound: true}
	if err := c.saveJSON(ctx, constants.PermissionsKey, perms); err != nil {
		return Permissions{}, err
	}
	return perms, nil
}

func (c *Center) AbandonPermissions(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveJSON(ctx, constants.PermissionsKey, Permissions{})
}

func (c *Center) CreateOrUpdateChannel(ctx context.Context, ch Channel) error {
	if ch.ID == "" {
		return fmt.Errorf("channel id cannot be empty")
	}
	if ch.Name == "" {
		ch.Name = ch.ID
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveJSON(ctx, constants.ChannelKey, ch)
}

// Channel returns the active channel, or the default one if none was created.
func (c *Center) Channel(ctx context.Context) (Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadChannel(ctx)
}

func (c *Center) PopInitialNotification(ctx context.Context) (*Delivered, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	history, err := c.loadDelivered(ctx)
	if err != nil {
		return nil, err
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Opened {
			continue
		}
		history[i].Opened = true
		if err := c.saveJSON(ctx, constants.DeliveredKey, history); err != nil {
			return nil, err
		}
		popped := history[i]
		return &popped, nil
	}
	return nil, nil
}

func newDelivered(req Request, channelID, sound string, at time.Time) Delivered {
	return Delivered{
		ID:          uuid.NewString(),
		RequestID:   req.ID,
		Title:       req.Title,
		Message:     req.Message,
		Tag:         req.Tag,
		Sound:       sound,
		ChannelID:   channelID,
		DeliveredAt: at,
	}
}

func appendDelivered(history []Delivered, d Delivered) []Delivered {
	history = append(history, d)
	if over := len(history) - constants.MaxDeliveredHistory; over > 0 {
		history = history[over:]
	}
	return history
}

func sortPending(reqs []pending) {
	sort.SliceStable(reqs, func(i, j int) bool {
		if !reqs[i].FiresAt.Equal(reqs[j].FiresAt) {
			return reqs[i].FiresAt.Before(reqs[j].FiresAt)
		}
		return reqs[i].Seq < reqs[j].Seq
	})
}

func (c *Center) loadScheduled(ctx context.Context) (scheduledDoc, error) {
	doc, _, err := loadJSON(ctx, c, constants.ScheduledKey, scheduledDoc{})
	return doc, err
}

func (c *Center) loadDelivered(ctx context.Context) ([]Delivered, error) {
	history, _, err := loadJSON[[]Delivered](ctx, c, constants.DeliveredKey, nil)
	return history, err
}

func (c *Center) loadPermissions(ctx context.Context) (Permissions, error) {
	perms, _, err := loadJSON(ctx, c, constants.PermissionsKey, Permissions{})
	return perms, err
}

func (c *Center) loadChannel(ctx context.Context) (Channel, error) {
	def := Channel{ID: constants.DefaultChannelID, Name: constants.DefaultChannelName}
	ch, _, err := loadJSON(ctx, c, constants.ChannelKey, def)
	return ch, err
}

// loadJSON decodes key, returning def when the value is missing or malformed.
func loadJSON[T any](ctx context.Context, c *Center, key string, def T) (T, bool, error) {
	raw, err := c.provider.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return def, false, nil
		}
		return def, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		c.log.Warn("ignoring malformed notification state", "key", key, "error", err)
		return def, false, nil
	}
	return out, true, nil
}

func (c *Center) saveJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := c.provider.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
