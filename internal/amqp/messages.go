package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entities and actions carried by change messages.
const (
	EntityCategory = "category"
	EntityExpense  = "expense"

	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ChangeMessage announces that a category or expense was created, updated or deleted.
// Consumers fetch current state themselves; the message carries only identifiers.
type ChangeMessage struct {
	EventID   string    `json:"event_id"`
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChangeMessage creates a message with a fresh event id.
func NewChangeMessage(entity, action string, id int64) *ChangeMessage {
	return &ChangeMessage{
		EventID:   uuid.NewString(),
		Entity:    entity,
		Action:    action,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

// RoutingKey is entity.action, e.g. "expense.delete".
func (m *ChangeMessage) RoutingKey() string {
	return m.Entity + "." + m.Action
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON decodes and checks a message.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.EventID == "" || msg.Entity == "" || msg.Action == "" {
		return nil, fmt.Errorf("incomplete change message: %s", data)
	}
	return &msg, nil
}
