package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"bill_split/internal/notifications"
	"bill_split/internal/processing"
	"bill_split/internal/sheets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const splitHTML = `<table id="split_table">
<thead><tr><th>name</th><th>price</th><th>quantity</th><th>Alice</th><th>Bob</th></tr></thead>
<tbody>
<tr><td>Beer</td><td>4.00</td><td>2</td><td><input type="checkbox" checked><input type="checkbox"></td><td><input type="checkbox" checked><input type="checkbox" checked></td></tr>
<tr><td>Fries</td><td>3.00</td><td>1</td><td><input type="checkbox"></td><td><input type="checkbox" checked></td></tr>
</tbody>
</table>`

var jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")

func newTestServer(t *testing.T, cfg Config, sheetSync *processing.SheetSync) *httptest.Server {
	t.Helper()
	s, err := NewServer(cfg, sheetSync)
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func postHTML(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := ts.Client().Post(ts.URL+path, "text/html; charset=utf-8", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestPing(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	resp, err := ts.Client().Get(ts.URL + "/ping")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", readBody(t, resp))
}

func TestSecureHeaders(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	resp, err := ts.Client().Get(ts.URL + "/ping")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "default-src 'self'; style-src 'self' fonts.googleapis.com; font-src fonts.gstatic.com", resp.Header.Get("Content-Security-Policy"))
	assert.Equal(t, "origin-when-cross-origin", resp.Header.Get("Referrer-Policy"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "deny", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "0", resp.Header.Get("X-XSS-Protection"))
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	resp, err := ts.Client().Get(ts.URL + "/ping")
	require.NoError(t, err)
	resp.Body.Close()
	generated := resp.Header.Get("X-Request-Id")
	assert.Len(t, generated, 36)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/ping", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "receipt-42")
	resp, err = ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "receipt-42", resp.Header.Get("X-Request-Id"))
}

func TestRecoverPanic(t *testing.T) {
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})).ServeHTTP(rr, r)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "close", rr.Header().Get("Connection"))
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	resp, err := ts.Client().Get(ts.URL + "/missing")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHome(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	resp, err := ts.Client().Get(ts.URL + "/")
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="split_table"`)
	assert.Contains(t, body, "Person 1")
	assert.NotContains(t, body, "Moscow Mule")
	assert.NotContains(t, body, `id="sheet_sync"`)
}

func TestHomeDebugShowsSample(t *testing.T) {
	ts := newTestServer(t, Config{Debug: true}, nil)

	resp, err := ts.Client().Get(ts.URL + "/")
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Moscow Mule")
	assert.Contains(t, body, "Debug mode")
}

func TestStaticFiles(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	resp, err := ts.Client().Get(ts.URL + "/static/js/main.js")
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "split_table")
}

func TestCalculate(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	resp := postHTML(t, ts, "/split/calculate", splitHTML)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="totals_table"`)
	assert.Contains(t, body, "<td>Alice</td><td>2.00</td>")
	assert.Contains(t, body, "<td>Bob</td><td>9.00</td>")
}

func TestCalculateHugeQuantity(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	html := `<table id="split_table">
<thead><tr><th>name</th><th>price</th><th>quantity</th><th>Alice</th></tr></thead>
<tbody><tr><td>Rice</td><td>1</td><td>9000000000000000000</td><td><input type="checkbox" checked></td></tr></tbody>
</table>`
	resp := postHTML(t, ts, "/split/calculate", html)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<td>Alice</td><td>1.00</td>")
}

func TestCalculateWithoutTable(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	resp := postHTML(t, ts, "/split/calculate", "<p>nothing here</p>")
	body := readBody(t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "split table not found")
}

func TestAddColumn(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	resp := postHTML(t, ts, "/split/columns/add?name=Carol", splitHTML)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Carol</th>")
	// Beer has two units and Fries one, so Carol gets three new boxes.
	assert.Equal(t, strings.Count(splitHTML, `type="checkbox"`)+3, strings.Count(body, `type="checkbox"`))
}

func TestRemoveColumn(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	resp := postHTML(t, ts, "/split/columns/remove", splitHTML)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Alice</th>")
	assert.NotContains(t, body, "Bob")
}

func TestRemoveProtectedColumn(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	protected := `<table id="split_table"><tr><th>name</th><th>price</th><th>quantity</th><th>#</th></tr></table>`
	resp := postHTML(t, ts, "/split/columns/remove", protected)
	resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestValidateCell(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	tests := []struct {
		name     string
		form     url.Values
		value    string
		accepted bool
	}{
		{"valid price", url.Values{"type": {"price"}, "original": {"4.00"}, "value": {" 5.5 "}}, "5.5", true},
		{"invalid price", url.Values{"type": {"price"}, "original": {"4.00"}, "value": {"abc"}}, "4.00", false},
		{"negative price", url.Values{"type": {"price"}, "original": {"4.00"}, "value": {"-1"}}, "4.00", false},
		{"fractional quantity", url.Values{"type": {"quantity"}, "original": {"2"}, "value": {"12.5"}}, "2", false},
		{"blank name", url.Values{"type": {"iname"}, "original": {"Beer"}, "value": {"   "}}, "Beer", false},
		{"enter keeps", url.Values{"type": {"iname"}, "original": {"Beer"}, "value": {"Stout"}, "key": {"Enter"}}, "Stout", true},
		{"escape restores", url.Values{"type": {"iname"}, "original": {"Beer"}, "value": {"Stout"}, "key": {"Escape"}}, "Beer", false},
		{"person header", url.Values{"type": {"person"}, "original": {"Alice"}, "value": {""}}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ts.Client().PostForm(ts.URL+"/cells/validate", tt.form)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var got cellResult
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.value, got.Value)
			assert.Equal(t, tt.accepted, got.Accepted)
		})
	}
}

func TestValidateCellRejectsUnknownInput(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	for _, form := range []url.Values{
		{"type": {"checks"}, "value": {"x"}},
		{"type": {"price"}, "value": {"1"}, "key": {"Tab"}},
	} {
		resp, err := ts.Client().PostForm(ts.URL+"/cells/validate", form)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "form %v", form)
	}
}

func postReceipt(t *testing.T, ts *httptest.Server, image []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "receipt.jpg")
	require.NoError(t, err)
	_, err = part.Write(image)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := ts.Client().Post(ts.URL+"/receipt", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	return resp
}

func TestReceiptUploadDebug(t *testing.T) {
	ts := newTestServer(t, Config{Debug: true}, nil)

	resp := postReceipt(t, ts, jpegHeader)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="split_table"`)
	assert.Contains(t, body, "Moscow Mule")
	assert.Contains(t, body, "Jägermeister 4cl")
	assert.Contains(t, body, "Person 2")
}

func TestReceiptUploadRejectsNonImages(t *testing.T) {
	ts := newTestServer(t, Config{Debug: true}, nil)

	resp := postReceipt(t, ts, []byte("just some text"))
	resp.Body.Close()

	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestReceiptUploadMissingFile(t *testing.T) {
	ts := newTestServer(t, Config{Debug: true}, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("other", "value"))
	require.NoError(t, mw.Close())

	resp, err := ts.Client().Post(ts.URL+"/receipt", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExport(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	resp := postHTML(t, ts, "/split/export?format=pdf", splitHTML)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "bill_split.pdf")
	assert.True(t, strings.HasPrefix(body, "%PDF-"))

	resp = postHTML(t, ts, "/split/export?format=xlsx", splitHTML)
	body = readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "bill_split.xlsx")
	// xlsx files are zip archives
	assert.True(t, strings.HasPrefix(body, "PK"))
}

func TestExportUnknownFormat(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	resp := postHTML(t, ts, "/split/export?format=csv", splitHTML)
	resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type memoryStore struct {
	values map[string][][]interface{}
}

func (m *memoryStore) ReadSheet(ctx context.Context, spreadsheetID, range_ string) ([][]interface{}, error) {
	return m.values[range_], nil
}

func (m *memoryStore) UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error {
	m.values[range_] = values
	return nil
}

func (m *memoryStore) ClearRange(ctx context.Context, spreadsheetID, range_ string) error {
	return nil
}

func TestSheetSync(t *testing.T) {
	cfg := sheets.Config{SpreadsheetID: "sheet", SplitRange: "Split!A1:Z200", TotalsRange: "Totals!A1"}
	store := &memoryStore{values: map[string][][]interface{}{
		cfg.SplitRange: {
			{"Item", "Price", "Quantity", "Alice", "Bob"},
			{"Pizza", "12", "1", "TRUE", "TRUE"},
		},
	}}
	ts := newTestServer(t, Config{}, processing.NewSheetSync(store, cfg, nil))

	resp, err := ts.Client().Get(ts.URL + "/")
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), `id="sheet_sync"`)

	resp, err = ts.Client().Post(ts.URL+"/sheet/sync", "", nil)
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<td>Alice</td><td>6.00</td>")
	assert.Len(t, store.values[cfg.TotalsRange], 3)
}

func TestSheetSyncNotifiesAfterResponse(t *testing.T) {
	bodies := make(chan string, 1)
	ntfy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies <- string(body)
	}))
	t.Cleanup(ntfy.Close)

	cfg := sheets.Config{SpreadsheetID: "sheet", SplitRange: "Split!A1:Z200", TotalsRange: "Totals!A1"}
	store := &memoryStore{values: map[string][][]interface{}{
		cfg.SplitRange: {
			{"Item", "Price", "Quantity", "Alice", "Bob"},
			{"Pizza", "12", "1", "TRUE", "TRUE"},
		},
	}}
	notifier := notifications.NewClient(ntfy.URL, "bills", true, true, "", 0, time.Millisecond, time.Millisecond)
	ts := newTestServer(t, Config{}, processing.NewSheetSync(store, cfg, notifier))

	resp, err := ts.Client().Post(ts.URL+"/sheet/sync", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	select {
	case body := <-bodies:
		assert.Contains(t, body, "Alice owes 6.00")
	case <-time.After(2 * time.Second):
		t.Fatal("no notification reached ntfy")
	}

	assert.Eventually(t, func() bool {
		sent, failed, _ := notifier.GetMetrics()
		return sent == 1 && failed == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSheetSyncNotConfigured(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	resp, err := ts.Client().Post(ts.URL+"/sheet/sync", "", nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
