package sheetserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/TCU-DCDA/cdex-inventory-app/internal/config"
	"github.com/TCU-DCDA/cdex-inventory-app/internal/inventory"
	"github.com/TCU-DCDA/cdex-inventory-app/internal/sheets"
	"github.com/TCU-DCDA/cdex-inventory-app/internal/sheetserver/sqlite"
)

const (
	testSheetID = "local-sheet-0001"
	testAPIKey  = "local-key-00001"
)

func newTestServer(t *testing.T) (*httptest.Server, *sqlite.SQLite) {
	t.Helper()
	store, err := sqlite.New(sqlite.MemoryPath)
	if err != nil {
		t.Fatalf("sqlite.New: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if _, err := store.Seed(context.Background(), sheets.FallbackEquipment(), sheets.FallbackCheckouts()); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	cfg := &Config{SheetID: testSheetID, APIKey: testAPIKey}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(NewServer(cfg, store, logger).Router())
	t.Cleanup(srv.Close)
	return srv, store
}

func newTestClient(t *testing.T, srv *httptest.Server, fallbacks *[]string) *sheets.Client {
	t.Helper()
	client, err := sheets.NewClient(config.Sheets{
		SheetID:   testSheetID,
		APIKey:    testAPIKey,
		ScriptURL: srv.URL + "/exec",
		APIBase:   srv.URL,
	}, sheets.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		OnFallback: func(table string, _ error) {
			*fallbacks = append(*fallbacks, table)
		},
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestClientReadsSeededTables(t *testing.T) {
	srv, _ := newTestServer(t)
	var fallbacks []string
	client := newTestClient(t, srv, &fallbacks)
	ctx := context.Background()

	if !client.IsConfigured() {
		t.Fatal("client not configured")
	}
	equipment := client.FetchEquipment(ctx)
	checkouts := client.FetchCheckouts(ctx)
	if len(fallbacks) != 0 {
		t.Fatalf("fallbacks = %v, want none", fallbacks)
	}

	want := sheets.FallbackEquipment()
	if len(equipment) != len(want) {
		t.Fatalf("equipment = %d items, want %d", len(equipment), len(want))
	}
	for i := range want {
		if equipment[i] != want[i] {
			t.Fatalf("equipment[%d] = %+v, want %+v", i, equipment[i], want[i])
		}
	}
	if len(checkouts) != len(sheets.FallbackCheckouts()) {
		t.Fatalf("checkouts = %d, want %d", len(checkouts), len(sheets.FallbackCheckouts()))
	}
}

func TestClientWritesRoundTrip(t *testing.T) {
	srv, store := newTestServer(t)
	var fallbacks []string
	client := newTestClient(t, srv, &fallbacks)
	ctx := context.Background()

	item := sheets.FallbackEquipment()[0]
	rec := inventory.CheckoutRecord{
		StudentName: "Jordan Smith", StudentID: "2002", StudentEmail: "j.smith@tcu.edu",
		StudentMajor: "Film", FacultySponsor: "Dr. Lee",
		CheckoutDate: "2024-06-28", ReturnDate: "2024-07-05",
		EquipmentID: item.ID, EquipmentName: item.Name, SerialNumber: item.SerialNumber,
	}
	if !client.AddCheckout(ctx, rec) {
		t.Fatal("AddCheckout = false")
	}

	records, err := store.Checkouts(ctx)
	if err != nil {
		t.Fatalf("Checkouts: %v", err)
	}
	added := records[len(records)-1]
	if added.StudentEmail != rec.StudentEmail || added.EquipmentID != item.ID {
		t.Fatalf("appended = %+v", added)
	}
	if got, _ := inventory.FindEquipment(client.FetchEquipment(ctx), item.ID); got.Available {
		t.Fatal("equipment still available after addCheckout")
	}

	if !client.MarkAsReturned(ctx, added.ID) {
		t.Fatal("MarkAsReturned = false")
	}
	if got, _ := inventory.FindEquipment(client.FetchEquipment(ctx), item.ID); !got.Available {
		t.Fatal("equipment unavailable after markReturned")
	}

	if !client.UpdateEquipment(ctx, item.ID, false) {
		t.Fatal("UpdateEquipment = false")
	}
	if got, _ := inventory.FindEquipment(client.FetchEquipment(ctx), item.ID); got.Available {
		t.Fatal("equipment available after updateEquipment(false)")
	}
}

func TestValuesRejectsWrongKeyAndSheet(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"wrong key", "/v4/spreadsheets/" + testSheetID + "/values/Equipment!A:E?key=nope", http.StatusForbidden},
		{"unknown sheet", "/v4/spreadsheets/other-sheet/values/Equipment!A:E?key=" + testAPIKey, http.StatusNotFound},
		{"unknown table", "/v4/spreadsheets/" + testSheetID + "/values/Staff!A:C?key=" + testAPIKey, http.StatusBadRequest},
		{"ok", "/v4/spreadsheets/" + testSheetID + "/values/Checkouts!A:M?key=" + testAPIKey, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatalf("GET: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestValuesIncludesHeaderRow(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/v4/spreadsheets/" + testSheetID + "/values/Equipment!A:E?key=" + testAPIKey)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	var payload sheets.ValueRange
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.MajorDimension != "ROWS" || payload.Range != "Equipment!A:E" {
		t.Fatalf("range = %q dimension = %q", payload.Range, payload.MajorDimension)
	}
	if len(payload.Values) != len(sheets.FallbackEquipment())+1 {
		t.Fatalf("rows = %d, want header plus %d", len(payload.Values), len(sheets.FallbackEquipment()))
	}
	if payload.Values[0][0] != "ID" {
		t.Fatalf("first cell = %v, want header", payload.Values[0][0])
	}
}

func TestExecResponses(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name      string
		body      string
		wantError string
		wantOK    bool
	}{
		{"unknown action", `{"action":"deleteEverything"}`, "Unknown action", false},
		{"empty body", ``, "request body is empty", false},
		{"missing checkout", `{"action":"addCheckout"}`, "checkout is required", false},
		{"invalid checkout", `{"action":"addCheckout","checkout":{"studentName":"x","studentEmail":"bad","equipmentId":1}}`, "", false},
		{"missing available", `{"action":"updateEquipment","equipmentId":1}`, "available is required", false},
		{"unknown checkout id", `{"action":"markReturned","checkoutId":404}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, srv.URL+"/exec", bytes.NewBufferString(tt.body))
			if err != nil {
				t.Fatalf("NewRequest: %v", err)
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Origin", "https://cdex.example.edu")
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			defer resp.Body.Close()
			if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
				t.Fatal("missing CORS header")
			}
			var out sheets.WriteResponse
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.Success != tt.wantOK {
				t.Fatalf("success = %v, want %v (error %q)", out.Success, tt.wantOK, out.Error)
			}
			if tt.wantError != "" && out.Error != tt.wantError {
				t.Fatalf("error = %q, want %q", out.Error, tt.wantError)
			}
			if !tt.wantOK && out.Error == "" {
				t.Fatal("error is empty for a rejected write")
			}
		})
	}
}

func TestExecPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/exec", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Origin", "https://cdex.example.edu")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		t.Fatalf("status = %d, want 2xx", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Allow-Origin = %q, want *", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Methods"); got != http.MethodPost {
		t.Fatalf("Allow-Methods = %q, want POST", got)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.yaml")
	content := "env: prod\nstorage_path: /tmp/cdex.db\nsheet_id: sheet-from-file\napi_key: key-from-file\nskip_seed: true\nhttp_server:\n  address: 0.0.0.0:9000\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CDEX_API_KEY", "key-from-env")
	t.Setenv("CDEX_SHEET_ID", "")
	_ = os.Unsetenv("CDEX_SHEET_ID")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Env != "prod" || cfg.StoragePath != "/tmp/cdex.db" || cfg.SheetID != "sheet-from-file" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.APIKey != "key-from-env" {
		t.Fatalf("APIKey = %q, want env override", cfg.APIKey)
	}
	if !cfg.SkipSeed {
		t.Fatal("SkipSeed = false, want true from file")
	}
	if cfg.Addr != "0.0.0.0:9000" {
		t.Fatalf("Addr = %q", cfg.Addr)
	}
	if cfg.ReadTimeout.Seconds() != 10 {
		t.Fatalf("ReadTimeout = %v, want default 10s", cfg.ReadTimeout)
	}
}

func TestLoadConfigRequiresCredentials(t *testing.T) {
	for _, key := range []string{"CDEX_SHEET_ID", "CDEX_API_KEY"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("LoadConfig succeeded without sheet_id and api_key")
	}
}
