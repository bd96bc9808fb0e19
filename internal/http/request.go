package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"
)

// amountValue accepts a monetary amount as either a JSON number or a decimal
// string and normalizes it to cents. Parse failures are recorded rather than
// returned so handlers can answer with a field-level message instead of a
// generic body error.
type amountValue struct {
	cents int64
	set   bool
	err   error
}

func (a *amountValue) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			return nil
		}
	}

	cents, err := core.ParseDecimalToCents(raw)
	if err != nil {
		a.err = err
		return nil
	}
	a.cents = cents
	a.set = true
	return nil
}

// parseDate accepts RFC 3339 timestamps and plain dates. An empty string is
// a zero time, left for storage to default.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// pathID extracts the {id} path segment as an int64.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
