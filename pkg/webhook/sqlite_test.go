package webhook

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteSinkRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.db")

	sink, err := OpenSQLiteSink(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLiteSink: %v", err)
	}

	at := time.Date(2026, 10, 19, 12, 0, 0, 123, time.UTC)
	for i, payload := range []string{`{"foo":1}`, `{"bar":[1,2]}`, `{"baz":null}`} {
		rec := Record{ID: string(rune('a' + i)), WebhookID: "hook", ReceivedAt: at, Payload: json.RawMessage(payload)}
		if err := sink.Emit(ctx, rec); err != nil {
			t.Fatalf("Emit: %v", err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	// reopen to check persistence
	sink, err = OpenSQLiteSink(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer sink.Close()

	records, err := sink.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ID != "b" || string(records[0].Payload) != `{"bar":[1,2]}` {
		t.Errorf("records[0] = %+v", records[0])
	}
	if records[1].ID != "c" || !records[1].ReceivedAt.Equal(at) {
		t.Errorf("records[1] = %+v", records[1])
	}
}

func TestSQLiteSinkDuplicateID(t *testing.T) {
	ctx := context.Background()
	sink, err := OpenSQLiteSink(ctx, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	rec := Record{ID: "same", WebhookID: "hook", ReceivedAt: time.Now(), Payload: json.RawMessage(`{}`)}
	if err := sink.Emit(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if err := sink.Emit(ctx, rec); err == nil {
		t.Error("expected primary key violation")
	}
}

func TestReceiverWithSQLiteSink(t *testing.T) {
	ctx := context.Background()
	sink, err := OpenSQLiteSink(ctx, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	r := NewReceiver("hook", sink)
	if resp := post(t, r.Handler(), r.Path(), `{"foo":1}`); resp.Code != 200 {
		t.Fatalf("status = %d", resp.Code)
	}

	records, err := sink.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || string(records[0].Payload) != `{"foo":1}` {
		t.Errorf("records = %+v", records)
	}
}
