package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"bill_split/internal/export"
	"bill_split/internal/receipt"
	"bill_split/internal/split"
	"bill_split/internal/table"

	"github.com/rs/zerolog/log"
)

type templateData struct {
	Table template.HTML
	Debug bool
	Sheet bool
}

// cellResult is the reply to a finished cell edit: the text the cell should
// show and whether the edit was kept.
type cellResult struct {
	Value    string `json:"value"`
	Accepted bool   `json:"accepted"`
}

func ping(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// initialGrid is the table shown on first load: the sample receipt in debug
// mode, otherwise a single blank line.
func (s *Server) initialGrid() table.Grid {
	if s.cfg.Debug {
		return receipt.Grid(receipt.Sample())
	}
	return table.NewGrid(receipt.DefaultPeople, split.Item{Name: "Item", Price: "0.00", Quantity: "1"})
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	var tbl bytes.Buffer
	if err := table.RenderHTML(&tbl, s.initialGrid()); err != nil {
		serverError(w, err)
		return
	}

	data := templateData{
		Table: template.HTML(tbl.String()),
		Debug: s.cfg.Debug,
		Sheet: s.sheetSync != nil,
	}
	writeHTML(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return s.templates.ExecuteTemplate(buf, "bill_split", data)
	})
}

func (s *Server) calculate(w http.ResponseWriter, r *http.Request) {
	g, ok := readTable(w, r)
	if !ok {
		return
	}

	totals := g.Calculate()
	log.Debug().
		Int("items", len(g)-1).
		Int("people", len(totals.Shares())).
		Str("allocated", split.FormatAmount(totals.Sum())).
		Msg("Calculated split")

	writeHTML(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return table.RenderTotalsHTML(buf, totals)
	})
}

func (s *Server) addColumn(w http.ResponseWriter, r *http.Request) {
	g, ok := readTable(w, r)
	if !ok {
		return
	}

	g, err := g.AddPerson(r.URL.Query().Get("name"))
	if err != nil {
		clientErrorMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	writeHTML(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return table.RenderHTML(buf, g)
	})
}

func (s *Server) removeColumn(w http.ResponseWriter, r *http.Request) {
	g, ok := readTable(w, r)
	if !ok {
		return
	}

	g, err := g.RemovePerson()
	if err != nil {
		if errors.Is(err, table.ErrProtectedColumn) {
			clientErrorMsg(w, http.StatusConflict, err.Error())
			return
		}
		clientErrorMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	writeHTML(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return table.RenderHTML(buf, g)
	})
}

// validateCell replays one edit of a cell through the editor: focus with the
// original text, type the new value, then finish with the given key (Enter
// or Escape) or by leaving the cell when no key is given.
func (s *Server) validateCell(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxTableBytes)
	if err := r.ParseForm(); err != nil {
		clientError(w, http.StatusBadRequest)
		return
	}

	kind := table.ColumnType(r.PostForm.Get("type"))
	switch kind {
	case table.TypeName, table.TypePrice, table.TypeQuantity, table.TypePerson:
	default:
		clientErrorMsg(w, http.StatusBadRequest, fmt.Sprintf("unknown cell type %q", kind))
		return
	}

	editor := table.NewEditor(kind, r.PostForm.Get("original"))
	editor.Focus()
	editor.Input(r.PostForm.Get("value"))

	var accepted bool
	switch key := r.PostForm.Get("key"); key {
	case "", "Enter":
		accepted = editor.Blur()
	case "Escape":
		editor.Key(key)
	default:
		clientErrorMsg(w, http.StatusBadRequest, fmt.Sprintf("unknown key %q", key))
		return
	}

	writeJSON(w, http.StatusOK, cellResult{Value: editor.Text(), Accepted: accepted})
}

func (s *Server) receiptUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxReceiptBytes+1024)
	if err := r.ParseMultipartForm(maxReceiptBytes); err != nil {
		clientError(w, http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		clientErrorMsg(w, http.StatusBadRequest, "missing receipt file")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		serverError(w, fmt.Errorf("failed to read receipt: %w", err))
		return
	}

	items, err := s.scanner.Scan(r.Context(), image)
	switch {
	case err == nil:
	case errors.Is(err, receipt.ErrUnsupportedImage):
		clientErrorMsg(w, http.StatusUnsupportedMediaType, err.Error())
		return
	case errors.Is(err, receipt.ErrNotAReceipt), errors.Is(err, receipt.ErrNoItems):
		clientErrorMsg(w, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.Is(err, receipt.ErrOCRNotEnabled):
		clientErrorMsg(w, http.StatusNotImplemented, err.Error())
		return
	default:
		serverError(w, fmt.Errorf("failed to scan receipt: %w", err))
		return
	}

	writeHTML(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return table.RenderHTML(buf, receipt.Grid(items))
	})
}

func (s *Server) exportSplit(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		clientErrorMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	g, ok := readTable(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, g); err != nil {
		serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	buf.WriteTo(w)
}

// sheetSyncNow runs one sheet sync pass and replies with the sheet's totals.
func (s *Server) sheetSyncNow(w http.ResponseWriter, r *http.Request) {
	if s.sheetSync == nil {
		clientErrorMsg(w, http.StatusNotFound, "no spreadsheet configured")
		return
	}

	if _, err := s.sheetSync.RunOnce(r.Context()); err != nil {
		serverError(w, fmt.Errorf("failed to sync sheet: %w", err))
		return
	}

	totals, _ := s.sheetSync.Last()
	writeHTML(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return table.RenderTotalsHTML(buf, totals)
	})
}
