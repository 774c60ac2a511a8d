package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"bill_split/internal/table"

	"github.com/rs/zerolog/log"
)

func serverError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("Server error")
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func clientError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

// clientErrorMsg replies with status and a message the page shows as-is.
func clientErrorMsg(w http.ResponseWriter, status int, msg string) {
	log.Debug().Int("status", status).Str("message", msg).Msg("Client error")
	http.Error(w, msg, status)
}

// readTable parses the split table posted as the request body.
func readTable(w http.ResponseWriter, r *http.Request) (table.Grid, bool) {
	body := http.MaxBytesReader(w, r.Body, maxTableBytes)
	g, err := table.ParseHTML(body, table.SplitTableID)
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			clientError(w, http.StatusRequestEntityTooLarge)
		case errors.Is(err, table.ErrTableNotFound):
			clientErrorMsg(w, http.StatusBadRequest, err.Error())
		default:
			clientError(w, http.StatusBadRequest)
		}
		return nil, false
	}
	if len(g) == 0 {
		clientErrorMsg(w, http.StatusBadRequest, table.ErrEmptyTable.Error())
		return nil, false
	}
	return g, true
}

// writeHTML renders into a buffer first so a failed render still yields a
// clean 500.
func writeHTML(w http.ResponseWriter, status int, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		serverError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		serverError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
