package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"videoadmin-backend-go/internal/services"
	"videoadmin-backend-go/internal/store"
)

func decodeRecord[T any](rec store.Record) (T, error) {
	var out T
	raw, err := json.Marshal(rec)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(raw, &out)
	return out, err
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// decodeBody reads a JSON object body; the mock does not validate fields
// beyond well-formedness.
func decodeBody(r *http.Request) (store.Record, error) {
	rec := store.Record{}
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// queryFilters turns the raw query string into equality filters for the
// store's linear scan (first value per key, empty values dropped).
func queryFilters(r *http.Request) map[string]string {
	values := r.URL.Query()
	if len(values) == 0 {
		return nil
	}
	filters := make(map[string]string, len(values))
	for key, list := range values {
		if len(list) > 0 && list[0] != "" {
			filters[key] = list[0]
		}
	}
	if len(filters) == 0 {
		return nil
	}
	return filters
}

func parseIntOr(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

// writeStoreError maps store and service errors onto the mock's error
// contract: 404 for missing records, 500 with a generic message otherwise.
func writeStoreError(w http.ResponseWriter, err error, notFoundMsg, failMsg string) {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrBackupNotFound) {
		WriteError(w, http.StatusNotFound, notFoundMsg)
		return
	}
	var serr services.ServiceError
	if errors.As(err, &serr) {
		WriteError(w, serr.Status, serr.Message)
		return
	}
	WriteError(w, http.StatusInternalServerError, failMsg)
}
