package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/david/donor-concierge/internal/vision"
)

type Donor struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChatTurn is one persisted message. Turns are append-only and ordered by
// CreatedAt, then ID.
type ChatTurn struct {
	ID        int64       `json:"id"`
	DonorID   uuid.UUID   `json:"donor_id"`
	Role      vision.Role `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

func Transcript(turns []ChatTurn) []vision.Turn {
	out := make([]vision.Turn, 0, len(turns))
	for _, t := range turns {
		out = append(out, vision.Turn{Role: t.Role, Content: t.Content})
	}
	return out
}
