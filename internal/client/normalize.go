package client

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/emiliodom/greetings-wall/internal/domain"
)

// The proxy forwards whatever the upstream database answers, and that shape
// has drifted across API versions: a bare array, a {"records":[...]} wrapper
// or a {"list":[...]} wrapper, with row fields either at the root or under
// "fields". The union is resolved here, once, and nowhere else.

type listEnvelope struct {
	Records []json.RawMessage `json:"records"`
	List    []json.RawMessage `json:"list"`
}

func splitRows(body []byte) ([]json.RawMessage, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err == nil {
		return rows, nil
	}
	var env listEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unrecognized list shape: %w", err)
	}
	if env.Records != nil {
		return env.Records, nil
	}
	return env.List, nil
}

// dateLayouts covers RFC3339 plus the space-separated variants NocoDB emits.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func pickString(row map[string]json.RawMessage, names ...string) string {
	for _, n := range names {
		raw, ok := row[n]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// Normalize flattens a raw list body into GreetingRecords. A row with no
// date at all is stamped with now; a row whose date exists but does not
// parse keeps a zero CreatedAt, which the gate treats as not recent.
func Normalize(body []byte, now time.Time) ([]domain.GreetingRecord, error) {
	rawRows, err := splitRows(body)
	if err != nil {
		return nil, err
	}
	out := make([]domain.GreetingRecord, 0, len(rawRows))
	for _, raw := range rawRows {
		var row map[string]json.RawMessage
		if err := json.Unmarshal(raw, &row); err != nil {
			continue
		}
		// v3 rows nest everything under "fields"
		if nested, ok := row["fields"]; ok {
			var inner map[string]json.RawMessage
			if err := json.Unmarshal(nested, &inner); err == nil {
				row = inner
			}
		}
		rec := domain.GreetingRecord{
			Message:      pickString(row, "Message", "message"),
			Feeling:      pickString(row, "Notes", "notes"),
			SubmitterKey: pickString(row, "User", "user"),
			CountryCode:  pickString(row, "Country", "country"),
		}
		if rawDate := pickString(row, "CreatedAt", "created_at", "createdAt"); rawDate != "" {
			rec.CreatedAt = parseDate(rawDate)
		} else {
			rec.CreatedAt = now
		}
		out = append(out, rec)
	}
	return out, nil
}
