package permissions

import (
	"context"
	"errors"
	"testing"
)

func TestBulkApprove_PartialFailure_NeverAborts(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	a := mustCreate(t, svc, CreateInput{CustomerID: "cust-1", CaregiverID: "cg-1", Type: TypeStreamView})
	b := mustCreate(t, svc, CreateInput{CustomerID: "cust-1", CaregiverID: "cg-2", Type: TypeAlertRead})

	res, err := svc.BulkApprove(context.Background(), customer("cust-1"), BulkInput{
		RequestIDs: []string{a.ID, "no-existe", b.ID},
	})
	if err != nil {
		t.Fatalf("BulkApprove error: %v", err)
	}

	if res.Updated != 2 {
		t.Fatalf("expected updated=2, got %d", res.Updated)
	}
	if len(res.Results) != 3 {
		t.Fatalf("expected 3 item results, got %d", len(res.Results))
	}

	byID := map[string]BulkItemResult{}
	for _, item := range res.Results {
		byID[item.ID] = item
	}
	if byID[a.ID].Status != BulkItemApproved || byID[b.ID].Status != BulkItemApproved {
		t.Fatalf("expected both real ids approved, got %#v", res.Results)
	}
	if byID["no-existe"].Status != BulkItemSkipped || byID["no-existe"].Reason != SkipReasonNotEligible {
		t.Fatalf("expected missing id skipped with reason, got %#v", byID["no-existe"])
	}

	// Los approves aplicaron efectivos en ambos pares.
	eff1, _ := svc.EffectiveFor(context.Background(), "cust-1", "cg-1")
	eff2, _ := svc.EffectiveFor(context.Background(), "cust-1", "cg-2")
	if !eff1.StreamView || !eff2.AlertRead {
		t.Fatalf("expected effective applied: %#v %#v", eff1, eff2)
	}
}

func TestBulkApprove_SkipsForeignAndDecided(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	mine := mustCreate(t, svc, CreateInput{CustomerID: "cust-1", CaregiverID: "cg-1", Type: TypeStreamView})
	foreign := mustCreate(t, svc, CreateInput{CustomerID: "cust-2", CaregiverID: "cg-1", Type: TypeStreamView})
	decided := mustCreate(t, svc, CreateInput{CustomerID: "cust-1", CaregiverID: "cg-1", Type: TypeAlertRead})
	if _, err := svc.Reject(context.Background(), customer("cust-1"), DecideInput{RequestID: decided.ID}); err != nil {
		t.Fatalf("Reject error: %v", err)
	}

	res, err := svc.BulkApprove(context.Background(), customer("cust-1"), BulkInput{
		RequestIDs: []string{mine.ID, foreign.ID, decided.ID},
	})
	if err != nil {
		t.Fatalf("BulkApprove error: %v", err)
	}

	if res.Updated != 1 {
		t.Fatalf("expected updated=1, got %d", res.Updated)
	}
	skipped := 0
	for _, item := range res.Results {
		if item.Status == BulkItemSkipped {
			skipped++
		}
	}
	if skipped != 2 {
		t.Fatalf("expected 2 skipped (foreign + decided), got %d: %#v", skipped, res.Results)
	}
}

func TestBulkReject_ItemErrorsDoNotAbort(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	a := mustCreate(t, svc, CreateInput{CustomerID: "cust-1", CaregiverID: "cg-1", Type: TypeStreamView})

	res, err := svc.BulkReject(context.Background(), customer("cust-1"), BulkInput{
		RequestIDs: []string{a.ID, "fantasma"},
		Reason:     "limpieza",
	})
	if err != nil {
		t.Fatalf("BulkReject error: %v", err)
	}

	if res.Updated != 1 {
		t.Fatalf("expected updated=1, got %d", res.Updated)
	}
	byID := map[string]BulkItemResult{}
	for _, item := range res.Results {
		byID[item.ID] = item
	}
	if byID[a.ID].Status != BulkItemRejected {
		t.Fatalf("expected %s rejected, got %#v", a.ID, byID[a.ID])
	}
	if byID["fantasma"].Status != BulkItemError || byID["fantasma"].Error == "" {
		t.Fatalf("expected error item for missing id, got %#v", byID["fantasma"])
	}
}

func TestBulk_CaregiverForbidden(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	_, err := svc.BulkApprove(context.Background(), caregiver("cg-1"), BulkInput{RequestIDs: []string{"x"}})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	_, err = svc.BulkReject(context.Background(), caregiver("cg-1"), BulkInput{RequestIDs: []string{"x"}})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
