package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	created := now.Add(-time.Hour)

	b, err := Encode(Record{
		"text":       "Pick one",
		CreatedAtKey: created,
		UpdatedAtKey: ServerTimestamp,
		"answerGroups": []map[string]any{
			{"id": "g1", "answers": []map[string]any{{"id": "a1", "text": "Yes"}}},
		},
	}, now)
	require.NoError(t, err)

	rec, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, "Pick one", rec["text"])
	assert.True(t, created.Equal(rec[CreatedAtKey].(time.Time)))
	assert.True(t, now.Equal(rec[UpdatedAtKey].(time.Time)))
	groups := rec["answerGroups"].([]any)
	assert.Len(t, groups, 1)
}

func TestDecode_InvalidTimestamp(t *testing.T) {
	_, err := Decode([]byte(`{"createdAt":"yesterday"}`))
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	rec := Record{"required": true, "text": "a", "score": 1.0}

	assert.True(t, Matches(rec, nil))
	assert.True(t, Matches(rec, map[string]any{"required": true}))
	assert.True(t, Matches(rec, map[string]any{"score": 1}))
	assert.False(t, Matches(rec, map[string]any{"required": false}))
	assert.False(t, Matches(rec, map[string]any{"missing": "x"}))
}

func TestSort(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	docs := []Document{
		{ID: "b", Record: Record{CreatedAtKey: t0.Add(2 * time.Hour), "text": "beta"}},
		{ID: "a", Record: Record{CreatedAtKey: t0, "text": "alpha"}},
		{ID: "c", Record: Record{CreatedAtKey: t0.Add(time.Hour)}},
	}

	Sort(docs, CreatedAtKey, true)
	assert.Equal(t, []string{"b", "c", "a"}, ids(docs))

	Sort(docs, "text", false)
	assert.Equal(t, []string{"c", "a", "b"}, ids(docs))

	Sort(docs, "", false)
	assert.Equal(t, []string{"a", "b", "c"}, ids(docs))
}

func ids(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}
