// Package normalize validates raw health event payloads and canonicalizes
// them into schema.NormalizedRecord values.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hi-wesley/my-healthness-pal-sub000/schema"
)

// disorderWarnRatio is the fraction of out-of-order consecutive record
// pairs above which a (non-fatal) chronology warning is emitted.
const disorderWarnRatio = 0.10

// Result is the normalizer's output. Errors are per-record and non-fatal
// here; the caller decides whether any of them blocks downstream analysis.
type Result struct {
	Records  []schema.NormalizedRecord
	Errors   []string
	Sources  []string
	Warnings []string
}

// dateTimeLayouts are tried in order when parsing record date-times.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParsePayload decodes an input payload into its user block and raw record
// list. It accepts either an object with a "records" array or a bare array
// of records. Malformed JSON or a wrong top-level shape fails fast with a
// single error; nothing is partially processed.
func ParsePayload(data []byte) (schema.UserProfile, []any, error) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return schema.UserProfile{}, nil, fmt.Errorf("invalid JSON payload: %w", err)
	}

	switch v := root.(type) {
	case []any:
		return schema.UserProfile{}, v, nil

	case map[string]any:
		rawRecords, ok := v["records"]
		if !ok {
			return schema.UserProfile{}, nil, fmt.Errorf("payload object has no 'records' array")
		}
		records, ok := rawRecords.([]any)
		if !ok {
			return schema.UserProfile{}, nil, fmt.Errorf("payload 'records' must be an array")
		}

		var user schema.UserProfile
		if rawUser, ok := v["user"].(map[string]any); ok {
			user.ID, _ = rawUser["id"].(string)
			user.Name, _ = rawUser["name"].(string)
			user.TZ, _ = rawUser["tz"].(string)
		}
		return user, records, nil

	default:
		return schema.UserProfile{}, nil, fmt.Errorf("payload must be a JSON object or array")
	}
}

// Normalize validates each raw record and canonicalizes the valid ones.
// Error strings are 1-indexed by record position. Valid records with an
// unrecognized type are kept; the aggregator ignores them later.
func Normalize(raw []any) *Result {
	res := &Result{}
	sources := make(map[string]struct{})

	for i, item := range raw {
		rec, err := normalizeOne(i+1, item)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		sources[rec.Source] = struct{}{}
		res.Records = append(res.Records, rec)
	}

	res.Sources = sortedSources(sources)

	if warn, ok := chronologyWarning(res.Records); ok {
		res.Warnings = append(res.Warnings, warn)
	}

	return res
}

// normalizeOne validates a single raw record.
func normalizeOne(num int, item any) (schema.NormalizedRecord, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return schema.NormalizedRecord{}, fmt.Errorf("record %d: not an object", num)
	}

	typeStr, _ := obj["type"].(string)
	if strings.TrimSpace(typeStr) == "" {
		return schema.NormalizedRecord{}, fmt.Errorf("record %d: missing or empty 'type'", num)
	}

	data, ok := obj["data"].(map[string]any)
	if !ok {
		return schema.NormalizedRecord{}, fmt.Errorf("record %d: missing 'data' object", num)
	}

	timestamp := ParseDateTime(obj["timestamp"])
	start := ParseDateTime(obj["start"])
	end := ParseDateTime(obj["end"])

	if timestamp == nil && (start == nil || end == nil) {
		return schema.NormalizedRecord{}, fmt.Errorf("record %d: needs a 'timestamp' or a 'start'/'end' pair", num)
	}
	if start != nil && end != nil && !end.After(*start) {
		return schema.NormalizedRecord{}, fmt.Errorf("record %d: 'end' must be after 'start'", num)
	}

	source, _ := obj["source"].(string)
	if strings.TrimSpace(source) == "" {
		source = schema.UnknownSource
	}

	return schema.NormalizedRecord{
		Type:      schema.RecordType(typeStr),
		Data:      data,
		Source:    source,
		Timestamp: timestamp,
		Start:     start,
		End:       end,
	}, nil
}

// chronologyWarning checks the share of consecutive record pairs that are
// out of chronological order by best-available timestamp. The result is
// diagnostic only and never blocks processing.
func chronologyWarning(records []schema.NormalizedRecord) (string, bool) {
	if len(records) < 2 {
		return "", false
	}

	pairs := len(records) - 1
	outOfOrder := 0
	for i := 0; i < pairs; i++ {
		a := records[i].EffectiveTime()
		b := records[i+1].EffectiveTime()
		if a != nil && b != nil && a.After(*b) {
			outOfOrder++
		}
	}

	ratio := float64(outOfOrder) / float64(pairs)
	if ratio <= disorderWarnRatio {
		return "", false
	}
	return fmt.Sprintf("%d of %d consecutive record pairs are out of chronological order; results are unaffected but the export may be corrupted", outOfOrder, pairs), true
}

// ParseDateTime parses an ISO-ish date-time value, returning nil when it
// cannot be resolved to a real instant.
func ParseDateTime(v any) *time.Time {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// CoerceNumber applies the lenient numeric coercion used throughout data
// extraction: a finite number passes through, a numeric string is parsed,
// and anything else (including NaN, infinities, and empty strings) yields
// "no value" rather than an error.
func CoerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return CoerceNumber(float64(n))
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return CoerceNumber(f)
	case string:
		trimmed := strings.TrimSpace(n)
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return CoerceNumber(f)
	default:
		return 0, false
	}
}

func sortedSources(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
