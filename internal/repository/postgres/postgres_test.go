package postgres

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"testing"
	"time"

	"questionapi/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonArg matches a JSON bind argument by value rather than by byte layout.
type jsonArg struct {
	want any
}

func (j jsonArg) Match(v driver.Value) bool {
	b, ok := v.([]byte)
	if !ok {
		return false
	}
	var got any
	if err := json.Unmarshal(b, &got); err != nil {
		return false
	}
	wb, _ := json.Marshal(j.want)
	var want any
	_ = json.Unmarshal(wb, &want)
	return reflect.DeepEqual(got, want)
}

func newMock(t *testing.T) (*DocumentPostgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDocumentPostgres(db), mock
}

func TestDocumentPostgres_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("server timestamps", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "questions" (id, body, created_at, updated_at) VALUES ($1, $2, now(), now()) ON CONFLICT (id) DO NOTHING`)).
			WithArgs("q1", jsonArg{map[string]any{"text": "Pick one"}}).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(ctx, "questions", "q1", repository.Record{
			"text":                  "Pick one",
			repository.CreatedAtKey: repository.ServerTimestamp,
			repository.UpdatedAtKey: repository.ServerTimestamp,
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("explicit createdAt", func(t *testing.T) {
		repo, mock := newMock(t)
		created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		mock.ExpectExec(regexp.QuoteMeta(`VALUES ($1, $2, $3, now())`)).
			WithArgs("q1", sqlmock.AnyArg(), created).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(ctx, "questions", "q1", repository.Record{
			repository.CreatedAtKey: created,
			repository.UpdatedAtKey: repository.ServerTimestamp,
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate id", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectExec(`INSERT INTO "questions"`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Create(ctx, "questions", "q1", repository.Record{})
		assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	})

	t.Run("bad timestamp type", func(t *testing.T) {
		repo, _ := newMock(t)
		err := repo.Create(ctx, "questions", "q1", repository.Record{repository.CreatedAtKey: "yesterday"})
		assert.Error(t, err)
	})
}

func TestDocumentPostgres_Replace(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps created_at", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "questions" SET body = $2, created_at = created_at, updated_at = now() WHERE id = $1`)).
			WithArgs("q1", jsonArg{map[string]any{"text": "v2"}}).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Replace(ctx, "questions", "q1", repository.Record{
			"text":                  "v2",
			repository.UpdatedAtKey: repository.ServerTimestamp,
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectExec(`UPDATE "questions"`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Replace(ctx, "questions", "missing", repository.Record{})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestDocumentPostgres_Get(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMock(t)
	now := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"body", "created_at", "updated_at"}).
			AddRow([]byte(`{"text":"Pick one","answerGroups":[{"id":"g1","answers":[{"id":"a1","text":"Yes"}]}]}`), now, now)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT body, created_at, updated_at FROM "questions" WHERE id = $1`)).
			WithArgs("q1").
			WillReturnRows(rows)

		rec, err := repo.Get(ctx, "questions", "q1")
		require.NoError(t, err)
		assert.Equal(t, "Pick one", rec["text"])
		assert.Equal(t, now, rec[repository.CreatedAtKey])
		assert.Len(t, rec["answerGroups"], 1)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT body`).WithArgs("missing").WillReturnRows(sqlmock.NewRows([]string{"body", "created_at", "updated_at"}))

		_, err := repo.Get(ctx, "questions", "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("driver error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT body`).WithArgs("q1").WillReturnError(errors.New("conn reset"))

		_, err := repo.Get(ctx, "questions", "q1")
		assert.EqualError(t, err, "conn reset")
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Query(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)

	t.Run("ordered by created_at", func(t *testing.T) {
		repo, mock := newMock(t)
		rows := sqlmock.NewRows([]string{"id", "body", "created_at", "updated_at"}).
			AddRow("q2", []byte(`{"text":"b"}`), now, now).
			AddRow("q1", []byte(`{"text":"a"}`), now.Add(-time.Hour), now)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, body, created_at, updated_at FROM "questions" ORDER BY created_at DESC, id DESC`)).
			WillReturnRows(rows)

		docs, err := repo.Query(ctx, "questions", repository.QueryOptions{OrderBy: repository.CreatedAtKey, Descending: true})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "q2", docs[0].ID)
		assert.Equal(t, "a", docs[1].Record["text"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filter and body key order", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE body @> $1::jsonb ORDER BY body -> $2 ASC, id ASC`)).
			WithArgs(jsonArg{map[string]any{"required": true}}, "text").
			WillReturnRows(sqlmock.NewRows([]string{"id", "body", "created_at", "updated_at"}))

		docs, err := repo.Query(ctx, "questions", repository.QueryOptions{OrderBy: "text", Where: map[string]any{"required": true}})
		require.NoError(t, err)
		assert.Empty(t, docs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDocumentPostgres_Delete(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "questions" WHERE id = $1`)).
		WithArgs("q1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), "questions", "q1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
