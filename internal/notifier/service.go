package notifier

import (
	"context"
	"errors"
	"time"
)

var (
	ErrTrayNotRunning   = errors.New("flashnote-tray is not running")
	ErrPermissionDenied = errors.New("notification permission not granted")
)

// Request is a notification to fire at FiresAt. IDs are only unique within
// one album; Tag carries the album-qualified identity.
type Request struct {
	ID      int       `json:"id"`
	Title   string    `json:"title"`
	FiresAt time.Time `json:"firesAt"`
	Message string    `json:"message"`
	Tag     string    `json:"tag,omitempty"`
}

// Delivered is a notification that has already been shown.
type Delivered struct {
	ID          string    `json:"id"`
	RequestID   int       `json:"requestId"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Tag         string    `json:"tag,omitempty"`
	Sound       string    `json:"sound,omitempty"`
	ChannelID   string    `json:"channelId"`
	DeliveredAt time.Time `json:"deliveredAt"`
	Opened      bool      `json:"opened"`
}

type Permissions struct {
	Alert bool `json:"alert"`
	Badge bool `json:"badge"`
	Sound bool `json:"sound"`
}

type Channel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SoundName   string `json:"soundName,omitempty"`
}

// Service is everything the scheduler and the CLI need from a notification
// backend.
type Service interface {
	CancelAll(ctx context.Context) error
	CancelLast(ctx context.Context) error
	Schedule(ctx context.Context, req Request) error
	LocalNotif(ctx context.Context, sound string) error

	Scheduled(ctx context.Context) ([]Request, error)
	Delivered(ctx context.Context) ([]Delivered, error)

	CheckPermission(ctx context.Context) (Permissions, error)
	RequestPermissions(ctx context.Context) (Permissions, error)
	AbandonPermissions(ctx context.Context) error

	CreateOrUpdateChannel(ctx context.Context, ch Channel) error
	// PopInitialNotification returns the newest unopened delivered
	// notification and marks it opened, or nil when there is none.
	PopInitialNotification(ctx context.Context) (*Delivered, error)
}

// Message is what a Sender shows to the user.
type Message struct {
	Title     string
	Body      string
	Sound     string
	ChannelID string
}

// Sender displays a single notification right now.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
