package notifier

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

var _ Sender = (*LogSender)(nil)

// LogSender prints notifications instead of showing them. It backs the
// "log" sender setting and headless runs.
type LogSender struct {
	out *log.Logger
}

func NewLogSender(w io.Writer) *LogSender {
	return &LogSender{
		out: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			Prefix:          "notification",
			Level:           log.InfoLevel,
		}),
	}
}

func (l *LogSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	keyvals := []interface{}{"title", msg.Title}
	if msg.Sound != "" {
		keyvals = append(keyvals, "sound", msg.Sound)
	}
	l.out.Info(msg.Body, keyvals...)
	return nil
}
