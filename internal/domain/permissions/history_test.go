package permissions

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGetOneWithHistory_DecidedRequest_HasBothEntries(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	t0 := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(10 * time.Minute)

	svc.now = func() time.Time { return t0 }
	req := mustCreate(t, svc, CreateInput{
		CustomerID:  "cust-1",
		CaregiverID: "cg-1",
		Type:        TypeStreamView,
		Reason:      "pedido inicial",
	})

	svc.now = func() time.Time { return t1 }
	if _, err := svc.Approve(context.Background(), customer("cust-1"), DecideInput{RequestID: req.ID, Reason: "dale"}); err != nil {
		t.Fatalf("Approve error: %v", err)
	}

	detail, err := svc.GetOneWithHistory(context.Background(), customer("cust-1"), req.ID)
	if err != nil {
		t.Fatalf("GetOneWithHistory error: %v", err)
	}

	h := detail.History
	if len(h) != 2 {
		t.Fatalf("expected 2 history entries, got %d: %#v", len(h), h)
	}
	if h[0].Status != StatusPending || h[0].At != t0 {
		t.Fatalf("expected first entry PENDING@t0, got %#v", h[0])
	}
	if h[1].Status != StatusApproved || h[1].At != t1 || h[1].By != "cust-1" {
		t.Fatalf("expected second entry APPROVED@t1 by cust-1, got %#v", h[1])
	}
}

func TestGetOneWithHistory_ReopenKeepsFullTrail(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	t0 := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }
	req := mustCreate(t, svc, CreateInput{
		CustomerID:  "cust-1",
		CaregiverID: "cg-1",
		Type:        TypeAlertRead,
	})

	svc.now = func() time.Time { return t0.Add(5 * time.Minute) }
	if _, err := svc.Reject(context.Background(), customer("cust-1"), DecideInput{RequestID: req.ID, Reason: "no"}); err != nil {
		t.Fatalf("Reject error: %v", err)
	}

	svc.now = func() time.Time { return t0.Add(10 * time.Minute) }
	if _, err := svc.Reopen(context.Background(), customer("cust-1"), ReopenInput{RequestID: req.ID, Reason: "pensandolo mejor"}); err != nil {
		t.Fatalf("Reopen error: %v", err)
	}

	detail, err := svc.GetOneWithHistory(context.Background(), customer("cust-1"), req.ID)
	if err != nil {
		t.Fatalf("GetOneWithHistory error: %v", err)
	}

	// PENDING, REJECTED, PENDING: el reopen agrega, nunca colapsa.
	want := []RequestStatus{StatusPending, StatusRejected, StatusPending}
	if len(detail.History) != len(want) {
		t.Fatalf("expected %d entries, got %d: %#v", len(want), len(detail.History), detail.History)
	}
	for i, st := range want {
		if detail.History[i].Status != st {
			t.Fatalf("entry %d: expected %s, got %s", i, st, detail.History[i].Status)
		}
	}
}

func TestGetOneWithHistory_SynthesizesEntriesForLegacyData(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	// Documento viejo sin history: solo campos planos.
	t0 := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	p, _ := repo.CreateEmpty(context.Background(), "cust-1", "cg-1")
	p.Requests = append(p.Requests, PermissionRequest{
		ID:             "legacy-1",
		Type:           TypeProfileView,
		Value:          BoolValue(true),
		Status:         StatusRejected,
		Reason:         "pedido viejo",
		CreatedAt:      t0,
		DecidedAt:      &t1,
		DecidedBy:      "cust-1",
		DecisionReason: "no corresponde",
	})
	if err := repo.Update(context.Background(), p); err != nil {
		t.Fatalf("seed error: %v", err)
	}

	detail, err := svc.GetOneWithHistory(context.Background(), customer("cust-1"), "legacy-1")
	if err != nil {
		t.Fatalf("GetOneWithHistory error: %v", err)
	}

	h := detail.History
	if len(h) != 2 {
		t.Fatalf("expected 2 synthesized entries, got %d: %#v", len(h), h)
	}
	if h[0].Status != StatusPending || h[0].At != t0 || h[0].Reason != "pedido viejo" {
		t.Fatalf("expected synthesized PENDING from created_at, got %#v", h[0])
	}
	if h[1].Status != StatusRejected || h[1].At != t1 || h[1].Reason != "no corresponde" {
		t.Fatalf("expected synthesized REJECTED from decision fields, got %#v", h[1])
	}
}

func TestGetOneWithHistory_ScopesByRole(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	req := mustCreate(t, svc, CreateInput{
		CustomerID:  "cust-1",
		CaregiverID: "cg-1",
		Type:        TypeStreamView,
	})

	// Caregiver del par la ve.
	if _, err := svc.GetOneWithHistory(context.Background(), caregiver("cg-1"), req.ID); err != nil {
		t.Fatalf("caregiver GetOneWithHistory error: %v", err)
	}

	// Un tercero no.
	_, err := svc.GetOneWithHistory(context.Background(), caregiver("cg-2"), req.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign caregiver, got %v", err)
	}
	_, err = svc.GetOneWithHistory(context.Background(), customer("cust-2"), req.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign customer, got %v", err)
	}

	// Admin ve todo.
	if _, err := svc.GetOneWithHistory(context.Background(), Actor{ID: "admin-1", Role: RoleAdmin}, req.ID); err != nil {
		t.Fatalf("admin GetOneWithHistory error: %v", err)
	}
}
