package repository

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

// Encode resolves timestamp sentinels against now and serialises the record as JSON.
// Embedded stores (bolt, memory) share this encoding so reads look identical across backends.
func Encode(rec Record, now time.Time) ([]byte, error) {
	out := make(Record, len(rec))
	for k, v := range rec {
		if IsServerTimestamp(v) {
			v = now.UTC()
		}
		out[k] = v
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return b, nil
}

// Decode parses a record produced by Encode. Timestamp keys come back as time.Time.
func Decode(b []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	for _, k := range []string{CreatedAtKey, UpdatedAtKey} {
		s, ok := rec[k].(string)
		if !ok {
			continue
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", k, err)
		}
		rec[k] = t
	}
	return rec, nil
}

// Matches reports whether every where-clause equals the record's top-level value.
// Values are compared after a JSON round trip so 1 and 1.0 or typed and untyped maps agree.
func Matches(rec Record, where map[string]any) bool {
	for k, want := range where {
		got, ok := rec[k]
		if !ok || !reflect.DeepEqual(normalize(got), normalize(want)) {
			return false
		}
	}
	return true
}

func normalize(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(time.RFC3339Nano)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}

// Sort orders documents by a top-level key, falling back to id for ties and missing keys.
func Sort(docs []Document, orderBy string, desc bool) {
	sort.SliceStable(docs, func(i, j int) bool {
		c := 0
		if orderBy != "" {
			c = compare(docs[i].Record[orderBy], docs[j].Record[orderBy])
		}
		if c == 0 {
			c = strings.Compare(docs[i].ID, docs[j].ID)
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// compare orders nil first, then booleans, numbers, times and strings among themselves.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	switch x := a.(type) {
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// CarryCreatedAt returns rec with prev's createdAt when rec does not set one.
func CarryCreatedAt(rec, prev Record) Record {
	if _, ok := rec[CreatedAtKey]; ok {
		return rec
	}
	v, ok := prev[CreatedAtKey]
	if !ok {
		return rec
	}
	out := make(Record, len(rec)+1)
	for k, val := range rec {
		out[k] = val
	}
	out[CreatedAtKey] = v
	return out
}
