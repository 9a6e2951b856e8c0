package helpers

import (
	"net/http"
	"strconv"

	"omekan/internal/domain"
)

// ParsePage reads limit and offset from the query string and clamps them with
// domain.NewPage. Invalid values fall back to the defaults.
func ParsePage(r *http.Request) domain.Page {
	q := r.URL.Query()
	limit := domain.DefaultLimit
	if s := q.Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			limit = v
		}
	}
	offset := 0
	if s := q.Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			offset = v
		}
	}
	return domain.NewPage(limit, offset)
}

// QueryInt64 parses an optional positive id from the query string. Empty or
// non-positive values yield nil; malformed values are reported as ok == false.
func QueryInt64(r *http.Request, key string) (v *int64, ok bool) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, false
	}
	if n <= 0 {
		return nil, true
	}
	return &n, true
}

// PathID parses the {name} path value as a positive int64. On failure it
// writes a 400 and returns false.
func PathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		WriteJSONError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
