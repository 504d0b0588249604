package agent

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/insightlabs/insight/internal/domain"
	"github.com/insightlabs/insight/internal/domain/models"
	"github.com/insightlabs/insight/internal/ports"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeModel replays a scripted sequence of responses, one per call.
// When the script runs out it repeats the last entry.
type fakeModel struct {
	script []scripted
	calls  int
	seen   [][]ports.ModelMessage
}

type scripted struct {
	response *ports.ModelResponse
	err      error
}

func (m *fakeModel) Complete(_ context.Context, messages []ports.ModelMessage, _ []ports.CapabilityDecl) (*ports.ModelResponse, error) {
	m.calls++
	m.seen = append(m.seen, messages)
	i := m.calls - 1
	if i >= len(m.script) {
		i = len(m.script) - 1
	}
	s := m.script[i]
	return s.response, s.err
}

func textResponse(text string) scripted {
	return scripted{response: &ports.ModelResponse{Text: text}}
}

func toolResponse(calls ...ports.ModelToolCall) scripted {
	return scripted{response: &ports.ModelResponse{ToolCalls: calls}}
}

type fakeWarehouse struct {
	result *models.QueryResult
	err    error
	query  string
}

func (w *fakeWarehouse) Execute(_ context.Context, query string) (*models.QueryResult, error) {
	w.query = query
	if w.err != nil {
		return nil, w.err
	}
	if w.result != nil {
		return w.result, nil
	}
	return &models.QueryResult{Success: true, Columns: []string{"n"}, Rows: []map[string]any{{"n": int64(1)}}, RowCount: 1}, nil
}

type fakeKnowledge struct {
	results []models.SearchResult
	err     error
	topK    int
}

func (k *fakeKnowledge) Search(_ context.Context, _ string, topK int) ([]models.SearchResult, error) {
	k.topK = topK
	return k.results, k.err
}

type fakeMemoryRepo struct {
	memory        *models.UserMemory
	analyses      []models.PastAnalysis
	savedAnalyses []models.PastAnalysis
	saves         []savedMemory
	saveErr       error
}

type savedMemory struct {
	userID     string
	memoryType models.MemoryType
	key        string
	value      string
}

func (r *fakeMemoryRepo) Get(_ context.Context, userID string) (*models.UserMemory, error) {
	if r.memory != nil {
		return r.memory, nil
	}
	return models.NewUserMemory(userID), nil
}

func (r *fakeMemoryRepo) Save(_ context.Context, userID string, memoryType models.MemoryType, key, value string) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves = append(r.saves, savedMemory{userID, memoryType, key, value})
	return nil
}

func (r *fakeMemoryRepo) Reset(context.Context, string) error { return nil }

func (r *fakeMemoryRepo) PastAnalyses(_ context.Context, _ string, _ int) ([]models.PastAnalysis, error) {
	return r.analyses, nil
}

func (r *fakeMemoryRepo) SavePastAnalysis(_ context.Context, _ string, analysis models.PastAnalysis) error {
	r.savedAnalyses = append(r.savedAnalyses, analysis)
	return nil
}

type fakeMessageRepo struct {
	history  []*models.Message
	appended []*models.Message
}

func (r *fakeMessageRepo) Append(_ context.Context, message *models.Message) error {
	message.Sequence = len(r.appended) + len(r.history) + 1
	r.appended = append(r.appended, message)
	return nil
}

func (r *fakeMessageRepo) ListRecent(_ context.Context, _ string, limit int) ([]*models.Message, error) {
	if len(r.history) > limit {
		return r.history[len(r.history)-limit:], nil
	}
	return r.history, nil
}

func (r *fakeMessageRepo) CountBySession(context.Context, string) (int, error) {
	return len(r.history) + len(r.appended), nil
}

// fakeTransactor runs the function directly; the fakes have no
// transactional storage to join.
type fakeTransactor struct{}

func (fakeTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSessionRepo struct {
	sessions map[string]*models.Session
	created  []*models.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *models.Session) error {
	r.sessions[session.ID] = session
	r.created = append(r.created, session)
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id string) (*models.Session, error) {
	if s, ok := r.sessions[id]; ok {
		return s, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (r *fakeSessionRepo) ListByUser(context.Context, string, int) ([]*models.Session, error) {
	return nil, nil
}

func (r *fakeSessionRepo) Touch(context.Context, string) error  { return nil }
func (r *fakeSessionRepo) Delete(context.Context, string) error { return nil }

type fakeIDs struct {
	sessions, messages, traces int
}

func (g *fakeIDs) SessionID() string {
	g.sessions++
	return fmt.Sprintf("is_%d", g.sessions)
}

func (g *fakeIDs) MessageID() string {
	g.messages++
	return fmt.Sprintf("im_%d", g.messages)
}

func (g *fakeIDs) TraceID() string {
	g.traces++
	return fmt.Sprintf("itr_%d", g.traces)
}

// collectSink records every event pushed during a turn.
type collectSink struct {
	events []models.TurnEvent
	err    error
}

func (s *collectSink) Send(event models.TurnEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}
