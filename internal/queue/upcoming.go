package queue

import (
	"github.com/julianstephens/flashnote/internal/models"
)

// Upcoming returns the part of q.Shuffled that starts at the item whose tag
// is next, the earliest pending notification. It returns nil when nothing
// matches, such as after the terminal marker or for another album.
func Upcoming(q models.Queue, next string) []models.QueueItem {
	if next == "" {
		return nil
	}
	for i, item := range q.Shuffled {
		if item.Tag() == next {
			return q.Shuffled[i:]
		}
	}
	return nil
}
