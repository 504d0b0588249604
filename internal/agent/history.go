package agent

import (
	"encoding/json"
	"log/slog"

	"github.com/insightlabs/insight/internal/domain/models"
	"github.com/insightlabs/insight/internal/ports"
)

// seedHistory converts persisted messages into the model's wire format.
// Messages with a role the model does not understand are dropped with a
// warning, and the remainder is front-trimmed so the conversation
// starts with a user message.
func seedHistory(messages []*models.Message, logger *slog.Logger) []ports.ModelMessage {
	wire := make([]ports.ModelMessage, 0, len(messages))
	for _, m := range messages {
		if !models.IsValidRole(m.Role) {
			logger.Warn("dropping message with unknown role",
				"message_id", m.ID,
				"role", string(m.Role))
			continue
		}
		wire = append(wire, toWire(m)...)
	}

	for len(wire) > 0 && wire[0].Role != "user" {
		wire = wire[1:]
	}
	return wire
}

// toWire expands one persisted message into its wire messages. A
// tool_result message fans out into one "tool" message per result so
// each call ID gets its answer.
func toWire(m *models.Message) []ports.ModelMessage {
	switch m.Role {
	case models.MessageRoleUser:
		return []ports.ModelMessage{{Role: "user", Content: m.Content}}

	case models.MessageRoleAssistant:
		msg := ports.ModelMessage{Role: "assistant", Content: m.Content}
		for _, call := range m.Calls {
			msg.ToolCalls = append(msg.ToolCalls, ports.ModelToolCall{
				ID:        call.ID,
				Name:      call.Name,
				Arguments: call.RawArgs,
			})
		}
		return []ports.ModelMessage{msg}

	case models.MessageRoleToolResult:
		wire := make([]ports.ModelMessage, 0, len(m.Results))
		for _, result := range m.Results {
			wire = append(wire, ports.ModelMessage{
				Role:       "tool",
				Content:    encodeResult(result),
				ToolCallID: result.CallID,
			})
		}
		return wire
	}
	return nil
}

// encodeResult serializes a capability result the way it was shown to
// the model during the original turn.
func encodeResult(result models.CapabilityResult) string {
	body := result.Payload
	if !result.Success {
		body = map[string]any{"success": false, "error": result.Error}
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return `{"success": false, "error": "unserializable result"}`
	}
	return string(encoded)
}
