package models

import (
	"fmt"

	"github.com/google/uuid"
)

// albumNamespace scopes album keys so the same name always maps to the same key.
var albumNamespace = uuid.MustParse("4c0a8a4e-5f0e-4d55-9d0b-7a3b6b1b9f21")

// QueueItem is one note in a playback session. ID is the zero-based position
// in the album's unshuffled list and is only unique within that album.
type QueueItem struct {
	ID        int       `json:"id"`
	AlbumName string    `json:"albumName"`
	NoteText  string    `json:"noteText"`
	AlbumKey  uuid.UUID `json:"albumKey"`
}

// Tag identifies the item across albums.
func (qi QueueItem) Tag() string {
	return ItemTag(qi.AlbumKey, qi.ID)
}

// Queue holds both orderings of an album's items for one playback session.
// Shuffled is always a permutation of Unshuffled.
type Queue struct {
	Unshuffled []QueueItem `json:"unshuffled"`
	Shuffled   []QueueItem `json:"shuffled"`
}

func (q Queue) Len() int {
	return len(q.Unshuffled)
}

func (q Queue) IsEmpty() bool {
	return len(q.Unshuffled) == 0
}

// AlbumName returns the album the queue was built from, or "" when empty.
func (q Queue) AlbumName() string {
	if len(q.Unshuffled) == 0 {
		return ""
	}
	return q.Unshuffled[0].AlbumName
}

// AlbumKey derives a stable identifier from an album name.
func AlbumKey(albumName string) uuid.UUID {
	return uuid.NewSHA1(albumNamespace, []byte(albumName))
}

func ItemTag(albumKey uuid.UUID, id int) string {
	return fmt.Sprintf("%s/%d", albumKey, id)
}

func EndTag(albumKey uuid.UUID) string {
	return albumKey.String() + "/end"
}
