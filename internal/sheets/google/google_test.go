package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	ports "fintrack/internal/sheets"

	goption "google.golang.org/api/option"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Options{})
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	_, err := New(context.Background(), Options{SpreadsheetID: "id"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Options{SpreadsheetID: "id", CredentialsFile: "/non/existent.json"})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		base string
		year int
		want string
	}{
		{"Activity", 2024, "2024 Activity"},
		{" Activity ", 2025, "2025 Activity"},
		{"2023 Activity", 2025, "2023 Activity"},
		{"", 2025, ""},
		{"12345", 2025, "2025 12345"},
	}
	for _, tt := range tests {
		if got := yearPrefixedName(tt.base, tt.year); got != tt.want {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
		}
	}
}

func TestA1Quoting(t *testing.T) {
	if got := a1("2024 Activity", "A:I"); got != "'2024 Activity'!A:I" {
		t.Errorf("a1() = %q", got)
	}
	if got := a1("Bob's", "A1"); got != "'Bob''s'!A1" {
		t.Errorf("a1() = %q", got)
	}
}

// fakeSheets records calls made against the Sheets REST surface.
type fakeSheets struct {
	mu       sync.Mutex
	tabs     []string
	created  []string
	appended [][]any
	headers  int
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	path := r.URL.Path

	switch {
	case strings.HasSuffix(path, ":batchUpdate"):
		var req struct {
			Requests []struct {
				AddSheet struct {
					Properties struct {
						Title string `json:"title"`
					} `json:"properties"`
				} `json:"addSheet"`
			} `json:"requests"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		title := req.Requests[0].AddSheet.Properties.Title
		f.tabs = append(f.tabs, title)
		f.created = append(f.created, title)
		io.WriteString(w, `{}`)
	case strings.HasSuffix(path, ":append"):
		var vr struct {
			Values [][]any `json:"values"`
		}
		json.NewDecoder(r.Body).Decode(&vr)
		f.appended = append(f.appended, vr.Values...)
		io.WriteString(w, `{"updates":{"updatedRange":"'2024 Activity'!A2:I2"}}`)
	case r.Method == http.MethodPut:
		f.headers++
		io.WriteString(w, `{}`)
	default:
		var sheets []map[string]any
		for _, t := range f.tabs {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": t}})
		}
		json.NewEncoder(w).Encode(map[string]any{"sheets": sheets})
	}
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := New(context.Background(), Options{
		SpreadsheetID: "sheet-1",
		SheetName:     "Activity",
		ClientOptions: []goption.ClientOption{
			goption.WithEndpoint(srv.URL + "/"),
			goption.WithHTTPClient(srv.Client()),
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestAppendActivity_CreatesYearSheetOnce(t *testing.T) {
	fake := &fakeSheets{tabs: []string{"Sheet1"}}
	c := newTestClient(t, fake)

	row := ports.ActivityRow{
		Timestamp: time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC),
		Event:     "transaction.created",
		Username:  "alice",
		Kind:      "expense",
		Amount:    "12.50",
		Category:  "Food",
	}

	ref, err := c.AppendActivity(context.Background(), row)
	if err != nil {
		t.Fatalf("AppendActivity() error = %v", err)
	}
	if ref != "'2024 Activity'!A2:I2" {
		t.Errorf("ref = %q", ref)
	}
	if _, err := c.AppendActivity(context.Background(), row); err != nil {
		t.Fatalf("second AppendActivity() error = %v", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.created) != 1 || fake.created[0] != "2024 Activity" {
		t.Errorf("created = %v", fake.created)
	}
	if fake.headers != 1 {
		t.Errorf("header written %d times", fake.headers)
	}
	if len(fake.appended) != 2 || fake.appended[0][1] != "transaction.created" || fake.appended[0][7] != "12.50" {
		t.Errorf("appended = %v", fake.appended)
	}
}

func TestAppendActivity_NilService(t *testing.T) {
	c := &Client{svc: nil}
	if _, err := c.AppendActivity(context.Background(), ports.ActivityRow{}); err == nil {
		t.Fatal("expected error with nil service")
	}
}
