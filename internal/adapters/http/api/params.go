package api

import (
	"fmt"
	"net/http"
	"strings"
)

// requireQuery returns the trimmed values of names from the query string,
// in order. The first missing one is reported as ErrMissingParam.
func requireQuery(r *http.Request, names ...string) ([]string, error) {
	q := r.URL.Query()
	out := make([]string, 0, len(names))
	for _, n := range names {
		v := strings.TrimSpace(q.Get(n))
		if v == "" {
			return nil, fmt.Errorf("%w %q", ErrMissingParam, n)
		}
		out = append(out, v)
	}
	return out, nil
}
