package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"questionapi/internal/model"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       *model.Question
		want    *ValidationError
		wantErr error
	}{
		{name: "nil", q: nil, wantErr: ErrQuestionNil},
		{name: "valid", q: pickOne()},
		{
			name: "missing text",
			q:    &model.Question{AnswerGroups: pickOne().AnswerGroups},
			want: &ValidationError{Kind: MissingText},
		},
		{
			name: "empty group set",
			q:    &model.Question{Text: "x", AnswerGroups: []model.AnswerGroup{}},
			want: &ValidationError{Kind: EmptyGroupSet},
		},
		{
			name: "empty answer set",
			q:    &model.Question{Text: "x", AnswerGroups: []model.AnswerGroup{{ID: "g7"}}},
			want: &ValidationError{Kind: EmptyAnswerSet, GroupID: "g7"},
		},
		{
			name: "blank answer text",
			q: &model.Question{Text: "x", AnswerGroups: []model.AnswerGroup{
				{ID: "g1", Answers: []model.Answer{{ID: "a1", Text: "ok"}, {ID: "a2", Text: "\t"}}},
			}},
			want: &ValidationError{Kind: MissingAnswerText, GroupID: "g1", AnswerID: "a2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.q)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.want != nil:
				var verr *ValidationError
				if assert.True(t, errors.As(err, &verr)) {
					assert.Equal(t, tt.want, verr)
				}
				assert.ErrorIs(t, err, ErrValidation)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	cause := errors.New("boom")

	uerr := &UploadError{Path: "questions/q1/image/x.png", Cause: cause}
	assert.ErrorIs(t, uerr, ErrUploadFailed)
	assert.ErrorIs(t, uerr, cause)
	assert.Equal(t, "upload questions/q1/image/x.png: boom", uerr.Error())

	serr := &StoreError{Op: "get", Cause: cause}
	assert.ErrorIs(t, serr, ErrStore)
	assert.ErrorIs(t, serr, cause)

	verr := &ValidationError{Kind: EmptyAnswerSet, GroupID: "g1"}
	assert.Equal(t, `answer group "g1" must have at least one answer`, verr.Error())
	assert.NotErrorIs(t, verr, ErrStore)
}
