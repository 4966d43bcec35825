package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"care-access/internal/router"
)

func TestHTTP_EndToEnd_PermissionLifecycle(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	customerID := "cust-1"
	caregiverID := "cg-1"

	// 1) Customer crea el perfil monitoreado
	profileID := createProfile(t, ts.URL, customerID, map[string]any{
		"name":      "Abuela Rosa",
		"time_zone": "America/Lima",
		"mobility":  "assisted",
	})

	// 2) Caregiver sin permisos: ni perfil, ni alertas, ni stream
	{
		st, _ := doReq(t, ts.URL, "GET", "/profiles/"+profileID, caregiverID, "caregiver", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 profile before grant, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/profiles/"+profileID+"/alerts", caregiverID, "caregiver", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 alerts before grant, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/profiles/"+profileID+"/stream", caregiverID, "caregiver", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 stream before grant, got %d", st)
		}
	}

	// 3) Caregiver pide stream_view y alert_read
	streamReqID := createRequest(t, ts.URL, caregiverID, customerID, map[string]any{
		"type":   "stream_view",
		"reason": "quiero acompañar el monitoreo",
	})
	alertReqID := createRequest(t, ts.URL, caregiverID, customerID, map[string]any{
		"type": "alert_read",
	})

	// 4) Customer ve sus solicitudes pendientes
	{
		st, body := doReq(t, ts.URL, "GET", "/me/permission-requests?status=PENDING", customerID, "customer", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing pending, got %d body=%s", st, string(body))
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 2 {
			t.Fatalf("expected 2 pending requests, got %d body=%s", len(items), string(body))
		}
	}

	// 5) Customer aprueba en lote; un id fantasma queda SKIPPED
	{
		st, body := doReq(t, ts.URL, "POST", "/permission-requests/bulk-approve", customerID, "customer", map[string]any{
			"request_ids": []string{streamReqID, "no-existe", alertReqID},
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 bulk approve, got %d body=%s", st, string(body))
		}
		var res struct {
			Updated int `json:"updated"`
			Results []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"results"`
		}
		_ = json.Unmarshal(body, &res)
		if res.Updated != 2 {
			t.Fatalf("expected updated=2, got %d body=%s", res.Updated, string(body))
		}
		for _, item := range res.Results {
			if item.ID == "no-existe" && item.Status != "SKIPPED" {
				t.Fatalf("expected ghost id SKIPPED, got %s", item.Status)
			}
		}
	}

	// 6) Caregiver ya puede pedir el ticket de stream y leer alertas
	{
		st, body := doReq(t, ts.URL, "GET", "/profiles/"+profileID+"/stream", caregiverID, "caregiver", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 stream ticket, got %d body=%s", st, string(body))
		}
		var ticket struct {
			SessionID string `json:"session_id"`
		}
		_ = json.Unmarshal(body, &ticket)
		if ticket.SessionID == "" {
			t.Fatalf("expected session_id in ticket body=%s", string(body))
		}
	}

	// 7) Customer genera una alerta, el caregiver la ve pero NO puede ack (sin alert_ack)
	alertID := raiseAlert(t, ts.URL, customerID, profileID, map[string]any{
		"kind":     "fall",
		"severity": "critical",
		"message":  "caida en el pasillo",
	})
	{
		st, body := doReq(t, ts.URL, "GET", "/profiles/"+profileID+"/alerts", caregiverID, "caregiver", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list alerts, got %d body=%s", st, string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/profiles/"+profileID+"/alerts/"+alertID+"/ack", caregiverID, "caregiver", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 ack without alert_ack, got %d", st)
		}
	}

	// 8) Pedir stream_view de nuevo corta en already_granted
	{
		st, body := doReq(t, ts.URL, "POST", "/customers/"+customerID+"/permission-requests", caregiverID, "caregiver", map[string]any{
			"type": "stream_view",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 already_granted, got %d body=%s", st, string(body))
		}
		var res struct {
			AlreadyGranted bool `json:"already_granted"`
		}
		_ = json.Unmarshal(body, &res)
		if !res.AlreadyGranted {
			t.Fatalf("expected already_granted=true body=%s", string(body))
		}
	}

	// 9) Ciclo reject -> reopen -> approve con alert_ack
	ackReqID := createRequest(t, ts.URL, caregiverID, customerID, map[string]any{
		"type": "alert_ack",
	})
	{
		st, body := doReq(t, ts.URL, "POST", "/permission-requests/"+ackReqID+"/reject", customerID, "customer", map[string]any{
			"reason": "todavia no",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 reject, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/permission-requests/"+ackReqID+"/reopen", customerID, "customer", map[string]any{
			"reason": "lo reconsidero",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 reopen, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/permission-requests/"+ackReqID+"/approve", customerID, "customer", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 approve after reopen, got %d body=%s", st, string(body))
		}
	}

	// 10) El detalle trae el history completo: PENDING, REJECTED, PENDING, APPROVED
	{
		st, body := doReq(t, ts.URL, "GET", "/permission-requests/"+ackReqID, customerID, "customer", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 detail, got %d body=%s", st, string(body))
		}
		var detail struct {
			History []struct {
				Status string `json:"status"`
			} `json:"history"`
		}
		_ = json.Unmarshal(body, &detail)
		want := []string{"PENDING", "REJECTED", "PENDING", "APPROVED"}
		if len(detail.History) != len(want) {
			t.Fatalf("expected %d history entries, got %d body=%s", len(want), len(detail.History), string(body))
		}
		for i, status := range want {
			if detail.History[i].Status != status {
				t.Fatalf("history[%d]: expected %s, got %s", i, status, detail.History[i].Status)
			}
		}
	}

	// 11) Con alert_ack vigente, el ack pasa
	{
		st, body := doReq(t, ts.URL, "POST", "/profiles/"+profileID+"/alerts/"+alertID+"/ack", caregiverID, "caregiver", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 ack with alert_ack, got %d body=%s", st, string(body))
		}
	}
}

func TestHTTP_LogWindow_BoundsCaregiverAccess(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	customerID := "cust-1"
	caregiverID := "cg-1"

	profileID := createProfile(t, ts.URL, customerID, map[string]any{
		"name": "Don Pedro",
	})

	// Owner registra un log de hoy.
	{
		st, body := doReq(t, ts.URL, "POST", "/profiles/"+profileID+"/logs", customerID, "customer", map[string]any{
			"kind":  "daily_log",
			"title": "desayuno ok",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 record log, got %d body=%s", st, string(body))
		}
	}

	// Sin log_access_days => 403.
	{
		st, _ := doReq(t, ts.URL, "GET", "/profiles/"+profileID+"/logs", caregiverID, "caregiver", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 logs without grant, got %d", st)
		}
	}

	// Caregiver pide 7 días de logs, el customer aprueba.
	reqID := createRequest(t, ts.URL, caregiverID, customerID, map[string]any{
		"type": "log_access_days",
		"days": 7,
	})
	{
		st, body := doReq(t, ts.URL, "POST", "/permission-requests/"+reqID+"/approve", customerID, "customer", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 approve, got %d body=%s", st, string(body))
		}
	}

	// Ahora ve el log de hoy.
	{
		st, body := doReq(t, ts.URL, "GET", "/profiles/"+profileID+"/logs", caregiverID, "caregiver", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 logs with grant, got %d body=%s", st, string(body))
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 {
			t.Fatalf("expected 1 log entry in window, got %d body=%s", len(items), string(body))
		}
	}

	// Los reportes siguen cerrados: report_access_days es otro permiso.
	{
		st, _ := doReq(t, ts.URL, "GET", "/profiles/"+profileID+"/logs?kind=report", caregiverID, "caregiver", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 reports without report_access_days, got %d", st)
		}
	}
}

func TestHTTP_DuplicatePendingRequest_Conflicts(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	createRequest(t, ts.URL, "cg-1", "cust-1", map[string]any{"type": "alert_read"})

	st, body := doReq(t, ts.URL, "POST", "/customers/cust-1/permission-requests", "cg-1", "caregiver", map[string]any{
		"type": "alert_read",
	})
	if st != http.StatusConflict {
		t.Fatalf("expected 409 duplicate pending, got %d body=%s", st, string(body))
	}
}

func createProfile(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/profiles", userID, "customer", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create profile, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create profile: missing id body=%s", string(body))
	}
	return resp.ID
}

func createRequest(t *testing.T, baseURL, caregiverID, customerID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/customers/"+customerID+"/permission-requests", caregiverID, "caregiver", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create request, got %d body=%s", st, string(body))
	}

	var resp struct {
		Request struct {
			ID string `json:"id"`
		} `json:"request"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Request.ID == "" {
		t.Fatalf("create request: missing id body=%s", string(body))
	}
	return resp.Request.ID
}

func raiseAlert(t *testing.T, baseURL, userID, profileID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/profiles/"+profileID+"/alerts", userID, "customer", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 raise alert, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("raise alert: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID, debugRole string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}
	if debugRole != "" {
		req.Header.Set("X-Debug-User-Role", debugRole)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
