package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/varoOP/nocomps/internal/domain"
)

func TestDiscordService_SendSuccess(t *testing.T) {
	got := make(chan discordWebhook, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		var payload discordWebhook
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		got <- payload
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := NewDiscordService(zerolog.Nop(), srv.URL)
	err := s.SendSuccess(context.Background(), domain.Statistics{
		TotalEntries:       1200,
		WithoutComparisons: 42,
		Rows:               40,
		Batches:            1,
		MissingMedia:       2,
		Output:             "nocomps.md",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload := <-got
	if len(payload.Embeds) != 1 {
		t.Fatalf("expected one embed, got %d", len(payload.Embeds))
	}
	embed := payload.Embeds[0]
	if !strings.Contains(embed.Description, "nocomps.md") {
		t.Fatalf("description = %q", embed.Description)
	}

	fields := map[string]string{}
	for _, f := range embed.Fields {
		fields[f.Name] = f.Value
	}
	if fields["Missing Comparisons"] != "42" || fields["Report Rows"] != "40" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestDiscordService_SendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	s := NewDiscordService(zerolog.Nop(), srv.URL)
	err := s.SendError(context.Background(), errors.New("anilist down"))

	var statusErr *domain.HTTPStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPStatusError, got %v", err)
	}
}

func TestService_NoWebhookIsNoop(t *testing.T) {
	s := NewService(zerolog.Nop(), "")

	if err := s.SendSuccess(context.Background(), domain.Statistics{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SendError(context.Background(), errors.New("x")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
