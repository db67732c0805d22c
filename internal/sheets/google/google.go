package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	ports "fintrack/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client appends activity rows to "<year> <SheetName>" tabs of one spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetBase     string

	mu    sync.Mutex
	known map[string]bool // tabs confirmed to exist
}

var _ ports.ActivityWriter = (*Client)(nil)

// Options configures New. One of CredentialsJSON or CredentialsFile is required
// unless ClientOptions already carry authentication.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
	ClientOptions   []goption.ClientOption
}

func New(ctx context.Context, opts Options) (*Client, error) {
	spreadsheetID := strings.TrimSpace(opts.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	base := strings.TrimSpace(opts.SheetName)
	if base == "" {
		base = "Activity"
	}

	clientOpts := opts.ClientOptions
	if len(clientOpts) == 0 {
		creds, err := loadCredentials(ctx, opts.CredentialsJSON, opts.CredentialsFile)
		if err != nil {
			return nil, err
		}
		clientOpts = []goption.ClientOption{
			goption.WithCredentialsJSON(creds),
			goption.WithScopes(gsheet.SpreadsheetsScope),
		}
	}

	svc, err := gsheet.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetBase:     base,
		known:         make(map[string]bool),
	}, nil
}

func loadCredentials(ctx context.Context, inline, file string) ([]byte, error) {
	inline = strings.TrimSpace(inline)
	file = strings.TrimSpace(file)
	switch {
	case inline != "":
		slog.InfoContext(ctx, "Using inline service account credentials", "json_length", len(inline))
		return []byte(inline), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.InfoContext(ctx, "Read service account credentials", "path", file, "size", len(b))
		return b, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
}

// AppendActivity implements sheets.ActivityWriter.
func (c *Client) AppendActivity(ctx context.Context, row ports.ActivityRow) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if row.Timestamp.IsZero() {
		return "", errors.New("activity row has no timestamp")
	}

	sheet := yearPrefixedName(c.sheetBase, row.Timestamp.Year())
	if err := c.ensureSheet(ctx, sheet); err != nil {
		return "", err
	}

	vr := &gsheet.ValueRange{Values: [][]any{row.Values()}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, a1(sheet, "A:I"), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", sheet, err)
	}

	ref := sheet
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	return ref, nil
}

// ensureSheet creates the yearly tab with its header row on first use.
func (c *Client) ensureSheet(ctx context.Context, title string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.known[title] {
		return nil
	}

	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read spreadsheet: %w", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			c.known[s.Properties.Title] = true
		}
	}
	if c.known[title] {
		return nil
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: title}},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("create sheet %s: %w", title, err)
	}

	header := &gsheet.ValueRange{Values: [][]any{ports.ActivityHeader}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, a1(title, "A1:I1"), header).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header to %s: %w", title, err)
	}

	slog.InfoContext(ctx, "Created activity sheet", "sheet", title)
	c.known[title] = true
	return nil
}

// a1 builds a quoted A1 range, e.g. 'Activity 2024'!A:I.
func a1(sheet, cells string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!" + cells
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
