package settlement

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"snarkel-service/internal/domain"
)

func TestSubmitPlanReturnsTxRef(t *testing.T) {
	var received domain.RewardDistributionPlan
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/distributions" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode plan: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"txRef": "0xdeadbeef"})
	}))
	defer server.Close()

	executor := NewHTTPExecutor(server.URL, time.Second)
	plan := domain.RewardDistributionPlan{
		ID:       "plan-1",
		RoomID:   "room-1",
		Strategy: domain.StrategyQuadratic,
		Token:    "tok",
		Pool:     "100",
		Payouts:  []domain.Payout{{Identity: "0xa", Amount: "100"}},
	}

	txRef, err := executor.SubmitPlan(context.Background(), plan)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if txRef != "0xdeadbeef" {
		t.Fatalf("expected txRef from server, got %s", txRef)
	}
	if received.ID != "plan-1" || len(received.Payouts) != 1 {
		t.Fatalf("plan not delivered verbatim: %+v", received)
	}
}

func TestSubmitPlanSurfacesRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "pool mismatch", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	executor := NewHTTPExecutor(server.URL, time.Second)
	if _, err := executor.SubmitPlan(context.Background(), domain.RewardDistributionPlan{}); err == nil {
		t.Fatalf("expected error on rejection")
	}
}

func TestStatusQueries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/distributions/room-done":
			json.NewEncoder(w).Encode(map[string]bool{"distributed": true})
		case "/distributions/room-open":
			json.NewEncoder(w).Encode(map[string]bool{"distributed": false})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	executor := NewHTTPExecutor(server.URL, time.Second)

	done, err := executor.Status(context.Background(), "room-done")
	if err != nil || !done {
		t.Fatalf("expected distributed=true, got %v err=%v", done, err)
	}
	done, err = executor.Status(context.Background(), "room-open")
	if err != nil || done {
		t.Fatalf("expected distributed=false, got %v err=%v", done, err)
	}
	// Unknown rooms read as not distributed.
	done, err = executor.Status(context.Background(), "room-unknown")
	if err != nil || done {
		t.Fatalf("expected 404 to mean undistributed, got %v err=%v", done, err)
	}
}
