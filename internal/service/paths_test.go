package service

import (
	"net/url"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"questionapi/internal/model"
)

func TestBlobPaths(t *testing.T) {
	u := model.Upload{Filename: "Cat.PNG"}

	assert.Regexp(t, regexp.MustCompile(`^questions/q1/image/[0-9a-f-]{36}\.png$`), questionImagePath("q1", u))
	assert.Regexp(t,
		regexp.MustCompile(`^questions/q1/groups/g1/answers/a1/[0-9a-f-]{36}\.png$`),
		answerImagePath("q1", "g1", "a1", u))

	assert.NotEqual(t, answerImagePath("q1", "g1", "a1", u), answerImagePath("q1", "g1", "a1", u))
	assert.Regexp(t,
		regexp.MustCompile(`^questions/q~2F1/groups/~2E~2E/answers/a~201/`),
		answerImagePath("q/1", "..", "a 1", u))
}

func TestSegment(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "0b7c1f5e-3d2a-4c1b-9f00-aa11bb22cc33", want: "0b7c1f5e-3d2a-4c1b-9f00-aa11bb22cc33"},
		{in: "snake_case", want: "snake_case"},
		{in: "a.b", want: "a~2Eb"},
		{in: "a%2Eb", want: "a~252Eb"},
		{in: "~", want: "~7E"},
		{in: "é", want: "~C3~A9"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := segment(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, url.PathEscape(got), "segment needs no URL escaping")
		})
	}
	assert.NotEqual(t, segment("a.b"), segment("a~2Eb"))
}

func TestNodePrefix(t *testing.T) {
	assert.Equal(t, "questions/q1/image/", nodePrefix("q1", model.NodeRef{}))
	assert.Equal(t, "questions/q1/groups/g1/answers/a1/", nodePrefix("q1", model.NodeRef{GroupID: "g1", AnswerID: "a1"}))
	assert.Equal(t, "questions/q~2F1/", questionPrefix("q/1"))
}

func TestExtension(t *testing.T) {
	tests := []struct {
		name string
		u    model.Upload
		want string
	}{
		{name: "from filename", u: model.Upload{Filename: "photo.JPEG", ContentType: "image/png"}, want: ".jpeg"},
		{name: "from content type", u: model.Upload{ContentType: "image/jpeg"}, want: ".jpg"},
		{name: "content type with params", u: model.Upload{ContentType: "image/webp; q=1"}, want: ".webp"},
		{name: "nothing known", u: model.Upload{ContentType: "application/x-unknown-thing"}, want: ""},
		{name: "bare dot", u: model.Upload{Filename: "weird."}, want: ""},
		{name: "unsafe characters", u: model.Upload{Filename: "x.p/ng"}, want: ""},
		{name: "empty", u: model.Upload{}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extension(tt.u))
		})
	}
}
