package postgres

import (
	"testing"
	"time"

	"github.com/insightlabs/insight/internal/domain/models"
	"github.com/pashagolub/pgxmock/v4"
)

func TestMessageRepository_Append(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	repo := &MessageRepository{
		BaseRepository: BaseRepository{pool: nil},
	}

	msg := models.NewUserMessage("im_1", "is_1", "show revenue by month")

	mock.ExpectQuery("INSERT INTO insight_messages").
		WithArgs(msg.ID, msg.SessionID, "user", msg.Content, []byte(nil), []byte(nil), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"sequence"}).AddRow(3))

	ctx := setupMockContext(mock)
	if err := repo.Append(ctx, msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Sequence != 3 {
		t.Errorf("Sequence = %d, want 3", msg.Sequence)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestMessageRepository_Append_WithCalls(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	repo := &MessageRepository{
		BaseRepository: BaseRepository{pool: nil},
	}

	msg := models.NewAssistantMessage("im_2", "is_1", "Here is the revenue breakdown.")
	msg.Calls = []models.CapabilityCall{{
		ID:   "call_1",
		Name: "query_warehouse",
		Kind: models.CapabilityQueryWarehouse,
	}}
	msg.Results = []models.CapabilityResult{{
		CallID:  "call_1",
		Name:    "query_warehouse",
		Success: true,
	}}

	mock.ExpectQuery("INSERT INTO insight_messages").
		WithArgs(msg.ID, msg.SessionID, "assistant", msg.Content, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"sequence"}).AddRow(4))

	ctx := setupMockContext(mock)
	if err := repo.Append(ctx, msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestMessageRepository_ListRecent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	repo := &MessageRepository{
		BaseRepository: BaseRepository{pool: nil},
	}

	now := time.Now()
	calls := []byte(`[{"id":"call_1","name":"query_warehouse","kind":"query_warehouse","known":true}]`)
	rows := pgxmock.NewRows([]string{"id", "session_id", "sequence", "role", "content", "capability_calls", "capability_results", "created_at"}).
		AddRow("im_1", "is_1", 1, "user", "show revenue", []byte(nil), []byte(nil), now).
		AddRow("im_2", "is_1", 2, "assistant", "Revenue is up.", calls, []byte(nil), now)

	mock.ExpectQuery("SELECT id, session_id, sequence, role, content").
		WithArgs("is_1", 20).
		WillReturnRows(rows)

	ctx := setupMockContext(mock)
	messages, err := repo.ListRecent(ctx, "is_1", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(messages) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(messages))
	}
	if messages[0].Role != models.MessageRoleUser {
		t.Errorf("messages[0].Role = %q, want user", messages[0].Role)
	}
	if len(messages[1].Calls) != 1 || messages[1].Calls[0].Name != "query_warehouse" {
		t.Errorf("messages[1].Calls = %+v", messages[1].Calls)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestMessageRepository_CountBySession(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	repo := &MessageRepository{
		BaseRepository: BaseRepository{pool: nil},
	}

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("is_1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))

	ctx := setupMockContext(mock)
	count, err := repo.CountBySession(ctx, "is_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 7 {
		t.Errorf("count = %d, want 7", count)
	}
}
