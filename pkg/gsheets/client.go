package gsheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/nggurbanov/curator-helper/pkg/domain"
)

var spreadsheetURLRe = regexp.MustCompile(`spreadsheets/d/([a-zA-Z0-9\-_]+)`)

var settingsHeader = []any{"Setting Key", "Setting Value"}

type client struct {
	svc                 *sheets.Service
	serviceAccountEmail string
}

// NewClient builds a Sheets API client from a service-account key file.
// The client email is kept so admins can be told whom to share their
// spreadsheet with.
func NewClient(ctx context.Context, credentialsPath string) (*client, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	email := readServiceAccountEmail(credentialsPath)

	return &client{svc: svc, serviceAccountEmail: email}, nil
}

func readServiceAccountEmail(credentialsPath string) string {
	raw, err := os.ReadFile(credentialsPath)
	if err != nil {
		return ""
	}
	var key struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(raw, &key); err != nil {
		slog.Warn("service account key file is not valid JSON", "path", credentialsPath)
		return ""
	}
	return key.ClientEmail
}

func (c *client) ServiceAccountEmail() string { return c.serviceAccountEmail }

// CheckAccess verifies the bot can open the spreadsheet, returning a
// human-readable reason on failure.
func (c *client) CheckAccess(ctx context.Context, sheetURL string) (bool, string) {
	id, err := SpreadsheetIDFromURL(sheetURL)
	if err != nil {
		return false, "That does not look like a Google Sheet URL."
	}

	if _, err := c.svc.Spreadsheets.Get(id).Context(ctx).Do(); err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			switch apiErr.Code {
			case 403:
				return false, "Permission denied. Share the sheet with the bot's service account (Editor role): " + c.serviceAccountEmail
			case 404:
				return false, "Spreadsheet not found. Check the URL."
			}
		}
		return false, "Could not open the spreadsheet: " + err.Error()
	}
	return true, ""
}

// ReadFAQs reads question-answer pairs from the first two columns of the
// named worksheet. A header row is skipped. An error means the remote
// resource is unreadable; it must never be used to wipe local state other
// than by explicit caller decision.
func (c *client) ReadFAQs(ctx context.Context, sheetURL, sheetName string) ([]domain.FAQ, error) {
	rows, err := c.readRange(ctx, sheetURL, sheetName)
	if err != nil {
		return nil, err
	}

	faqs := make([]domain.FAQ, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		question := strings.TrimSpace(cellString(row[0]))
		answer := strings.TrimSpace(cellString(row[1]))
		if i == 0 && isFAQHeader(question) {
			continue
		}
		if question != "" && answer != "" {
			faqs = append(faqs, domain.FAQ{Question: question, Answer: answer})
		}
	}
	return faqs, nil
}

func isFAQHeader(cell string) bool {
	lower := strings.ToLower(cell)
	return lower == "question" || lower == "вопрос"
}

// ReadSettings reads key-value rows from the settings worksheet, coercing
// values the way admins type them: true/false, integers, decimals,
// everything else a string.
func (c *client) ReadSettings(ctx context.Context, sheetURL, sheetName string) (domain.ChatConfig, error) {
	rows, err := c.readRange(ctx, sheetURL, sheetName)
	if err != nil {
		return nil, err
	}

	settings := domain.ChatConfig{}
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		key := strings.TrimSpace(cellString(row[0]))
		if key == "" {
			continue
		}
		if i == 0 && isSettingsHeader(key) {
			continue
		}
		settings[key] = CoerceCellValue(strings.TrimSpace(cellString(row[1])))
	}
	return settings, nil
}

func isSettingsHeader(cell string) bool {
	lower := strings.ToLower(cell)
	return lower == "setting" || lower == "key" || lower == "setting key"
}

// WriteSettings overwrites the settings worksheet with cfg, creating the
// worksheet if it is missing. Rows follow the default-settings schema
// order first, then any extra keys; both groups alphabetically, since the
// config record itself carries no order.
func (c *client) WriteSettings(ctx context.Context, sheetURL, sheetName string, cfg, defaults domain.ChatConfig) error {
	id, err := SpreadsheetIDFromURL(sheetURL)
	if err != nil {
		return err
	}

	if err := c.ensureWorksheet(ctx, id, sheetName); err != nil {
		return err
	}

	rangeRef := fmt.Sprintf("'%s'!A:B", sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(id, rangeRef, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clearing settings sheet %q: %w", sheetName, err)
	}

	values := [][]any{settingsHeader}
	for _, key := range sortedKeys(defaults) {
		value, ok := cfg[key]
		if !ok {
			value = defaults[key]
		}
		values = append(values, []any{key, formatCellValue(value)})
	}
	for _, key := range sortedKeys(cfg) {
		if _, isDefault := defaults[key]; !isDefault {
			values = append(values, []any{key, formatCellValue(cfg[key])})
		}
	}

	_, err = c.svc.Spreadsheets.Values.
		Update(id, rangeRef, &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("writing settings sheet %q: %w", sheetName, err)
	}
	return nil
}

func (c *client) readRange(ctx context.Context, sheetURL, sheetName string) ([][]any, error) {
	id, err := SpreadsheetIDFromURL(sheetURL)
	if err != nil {
		return nil, err
	}

	resp, err := c.svc.Spreadsheets.Values.
		Get(id, fmt.Sprintf("'%s'!A:B", sheetName)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheetName, err)
	}
	return resp.Values, nil
}

func (c *client) ensureWorksheet(ctx context.Context, spreadsheetID, sheetName string) error {
	spreadsheet, err := c.svc.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("opening spreadsheet: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == sheetName {
			return nil
		}
	}

	slog.Info("creating missing worksheet", "sheet", sheetName)
	_, err = c.svc.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: sheetName},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("creating worksheet %q: %w", sheetName, err)
	}
	return nil
}

// SpreadsheetIDFromURL extracts the document id from a Google Sheets URL.
func SpreadsheetIDFromURL(sheetURL string) (string, error) {
	m := spreadsheetURLRe.FindStringSubmatch(sheetURL)
	if m == nil {
		return "", fmt.Errorf("no spreadsheet id in URL %q", sheetURL)
	}
	return m[1], nil
}

// CoerceCellValue maps a cell's text to the richest matching scalar type.
func CoerceCellValue(raw string) any {
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return float64(n)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && strings.Contains(raw, ".") {
		return f
	}
	return raw
}

func formatCellValue(value any) string {
	switch t := value.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(raw)
	}
}

func cellString(cell any) string {
	if s, ok := cell.(string); ok {
		return s
	}
	return fmt.Sprint(cell)
}

func sortedKeys(cfg domain.ChatConfig) []string {
	keys := make([]string, 0, len(cfg))
	for key := range cfg {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
