package deadletter

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Letter — батч, который не удалось доставить.
type Letter struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Records   int             `json:"records"`
	Reason    string          `json:"reason"`
	Payload   json.RawMessage `json:"payload"`
}

// NewLetter собирает письмо с новым ID; payload должен быть JSON массивом записей.
func NewLetter(records int, reason string, payload []byte) Letter {
	return Letter{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Records:   records,
		Reason:    reason,
		Payload:   payload,
	}
}

// Sink сохраняет недоставленные батчи для последующего разбора.
// Трекер никогда не перечитывает их обратно в очередь.
type Sink interface {
	Store(ctx context.Context, letter Letter) error
}
