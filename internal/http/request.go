package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
)

const (
	defaultTrendDays = 30
	maxTrendDays     = 365
)

// transactionPayload is the request body shape shared by create and
// update. Amount is kept raw so both JSON numbers and quoted strings
// (including the comma decimal separator) go through core.ParseAmount.
type transactionPayload struct {
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Amount      json.RawMessage `json:"amount"`
	Date        string          `json:"date"`
	Description *string         `json:"description"`
}

func decodePayload(r *http.Request) (transactionPayload, error) {
	var p transactionPayload
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return p, fmt.Errorf("invalid request body: %w", err)
	}
	return p, nil
}

func (p transactionPayload) toDraft() (core.Draft, error) {
	amount, err := core.ParseAmount(strings.Trim(string(p.Amount), `"`))
	if err != nil {
		return core.Draft{}, err
	}
	date, err := core.ParseDate(p.Date)
	if err != nil {
		return core.Draft{}, err
	}
	var desc *string
	if p.Description != nil {
		desc = core.TrimDescription(sanitizeInput(*p.Description))
	}
	draft := core.Draft{
		Type:        core.TransactionType(strings.ToLower(strings.TrimSpace(p.Type))),
		Category:    sanitizeInput(p.Category),
		Amount:      amount,
		Date:        date,
		Description: desc,
	}
	return draft, draft.Validate()
}

// parseTypeParam reads an optional ?type= filter. ok is false when the
// parameter is present but not a known type.
func parseTypeParam(query url.Values) (t core.TransactionType, present, ok bool) {
	v := strings.ToLower(strings.TrimSpace(query.Get("type")))
	if v == "" {
		return "", false, true
	}
	t = core.TransactionType(v)
	return t, true, t.Valid()
}

// parseTrendRange resolves the series range: explicit start/end dates, or
// a trailing ?days= window ending today (default 30 days back).
func parseTrendRange(query url.Values, now time.Time) (start, end core.Date, err error) {
	startStr := strings.TrimSpace(query.Get("start"))
	endStr := strings.TrimSpace(query.Get("end"))
	if startStr != "" || endStr != "" {
		if startStr == "" || endStr == "" {
			return start, end, fmt.Errorf("start and end must be given together")
		}
		if start, err = core.ParseDate(startStr); err != nil {
			return start, end, fmt.Errorf("invalid start date %q", startStr)
		}
		if end, err = core.ParseDate(endStr); err != nil {
			return start, end, fmt.Errorf("invalid end date %q", endStr)
		}
		if end.Before(start.Time) {
			return start, end, fmt.Errorf("end date before start date")
		}
		return start, end, nil
	}

	days := defaultTrendDays
	if v := strings.TrimSpace(query.Get("days")); v != "" {
		d, convErr := strconv.Atoi(v)
		if convErr != nil || d < 1 || d > maxTrendDays {
			return start, end, fmt.Errorf("invalid days %q: must be 1-%d", v, maxTrendDays)
		}
		days = d
	}
	end = core.DateOf(now)
	start = core.DateOf(now.AddDate(0, 0, -days))
	return start, end, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
