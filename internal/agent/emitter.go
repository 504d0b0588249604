package agent

import (
	"github.com/insightlabs/insight/internal/domain/models"
	"github.com/insightlabs/insight/internal/ports"
)

// emitter stamps turn events with a gapless sequence number starting
// at 1 and forwards them to the sink. It is owned by a single
// goroutine for the duration of a turn, so no locking is needed.
type emitter struct {
	sink ports.EventSink
	seq  int
}

func newEmitter(sink ports.EventSink) *emitter {
	return &emitter{sink: sink}
}

func (e *emitter) send(event models.TurnEvent) error {
	e.seq++
	event.Seq = e.seq
	return e.sink.Send(event)
}

func (e *emitter) content(text string) error {
	return e.send(models.TurnEvent{
		Type: models.EventContent,
		Data: models.ContentData{Text: text},
	})
}

func (e *emitter) reasoning(data models.ReasoningData) error {
	return e.send(models.TurnEvent{
		Type: models.EventReasoning,
		Data: data,
	})
}

func (e *emitter) memory(memoryType models.MemoryType, key string) error {
	return e.send(models.TurnEvent{
		Type: models.EventMemory,
		Data: models.MemoryData{MemoryType: memoryType, Key: key},
	})
}

func (e *emitter) done(data models.DoneData) error {
	return e.send(models.TurnEvent{
		Type: models.EventDone,
		Data: data,
	})
}

func (e *emitter) error(message string, usage *models.UsageSummary) error {
	return e.send(models.TurnEvent{
		Type: models.EventError,
		Data: models.ErrorData{Message: message, Usage: usage},
	})
}
