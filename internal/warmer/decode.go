package warmer

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pricofy/lambda-warmer/internal/domain"
)

// Decode classifies a raw event. It returns false if the event is not a
// warmer ping. Missing or malformed metadata fields fall back to their
// defaults; Decode never fails.
//
// fallbackID is the correlation ID used when neither the event nor cfg
// provides one.
func Decode(event json.RawMessage, cfg Config, fallbackID string) (domain.Ping, bool) {
	cfg = cfg.withDefaults()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(event, &fields); err != nil || fields == nil {
		return domain.Ping{}, false
	}

	if !truthy(fields[cfg.FlagField]) {
		return domain.Ping{}, false
	}

	concurrency := 1
	if n, ok := integer(fields[cfg.ConcurrencyField]); ok && n > 1 {
		concurrency = n
	}

	index := 1
	if n, ok := integer(fields[domain.InvocationField]); ok && n > 1 {
		index = n
	}

	total := concurrency
	if n, ok := integer(fields[domain.ConcurrencyField]); ok {
		total = max(n, 1)
	}

	correlationID, ok := text(fields[domain.CorrelationIDField])
	if !ok {
		correlationID = cfg.CorrelationID
	}
	if correlationID == "" {
		correlationID = fallbackID
	}

	return domain.Ping{
		Metadata: domain.Metadata{
			InvocationIndex:  index,
			TotalConcurrency: total,
			CorrelationID:    correlationID,
		},
		Concurrency: concurrency,
		Test:        truthy(fields[cfg.TestField]),
	}, true
}

// value decodes a single field. Numbers are kept as json.Number.
func value(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

// truthy reports whether a JSON value counts as set: true, a non-zero number,
// a non-empty string, or any object or array.
func truthy(raw json.RawMessage) bool {
	switch v := value(raw).(type) {
	case nil:
		return false
	case bool:
		return v
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	case string:
		return v != ""
	default:
		return true
	}
}

// integer extracts a finite number from a JSON number or numeric string,
// truncated toward zero. Values outside the int32 range are rejected.
func integer(raw json.RawMessage) (int, bool) {
	var s string
	switch v := value(raw).(type) {
	case json.Number:
		s = v.String()
	case string:
		s = strings.TrimSpace(v)
	default:
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// text extracts a non-empty correlation ID from a string or number.
func text(raw json.RawMessage) (string, bool) {
	switch v := value(raw).(type) {
	case string:
		return v, v != ""
	case json.Number:
		return v.String(), v.String() != "0"
	default:
		return "", false
	}
}
