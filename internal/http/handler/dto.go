package handler

import (
	"time"

	"questionapi/internal/model"
)

// questionBody is the wire form of a question tree, used for requests and responses.
// imageUrl carries an already stored attachment; new images arrive as multipart file parts.
type questionBody struct {
	ID           string      `json:"id,omitempty"`
	Text         string      `json:"text"`
	Description  string      `json:"description,omitempty"`
	Required     bool        `json:"required"`
	ImageURL     string      `json:"imageUrl,omitempty"`
	AnswerGroups []groupBody `json:"answerGroups"`
	CreatedAt    *time.Time  `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time  `json:"updatedAt,omitempty"`
}

type groupBody struct {
	ID      string       `json:"id"`
	Name    string       `json:"name,omitempty"`
	Answers []answerBody `json:"answers"`
}

type answerBody struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

type questionListResponse struct {
	Items []questionBody `json:"data"`
	Total int            `json:"total"`
}

type idResponse struct {
	ID string `json:"id"`
}

func (b questionBody) toModel() *model.Question {
	q := &model.Question{
		ID:           b.ID,
		Text:         b.Text,
		Description:  b.Description,
		Required:     b.Required,
		Image:        model.ResolvedAttachment(b.ImageURL),
		AnswerGroups: make([]model.AnswerGroup, 0, len(b.AnswerGroups)),
	}
	for _, g := range b.AnswerGroups {
		group := model.AnswerGroup{ID: g.ID, Name: g.Name, Answers: make([]model.Answer, 0, len(g.Answers))}
		for _, a := range g.Answers {
			group.Answers = append(group.Answers, model.Answer{
				ID:        a.ID,
				Text:      a.Text,
				IsCorrect: a.IsCorrect,
				Image:     model.ResolvedAttachment(a.ImageURL),
			})
		}
		q.AnswerGroups = append(q.AnswerGroups, group)
	}
	return q
}

func fromModel(q *model.Question) questionBody {
	b := questionBody{
		ID:           q.ID,
		Text:         q.Text,
		Description:  q.Description,
		Required:     q.Required,
		ImageURL:     q.Image.URL(),
		AnswerGroups: make([]groupBody, 0, len(q.AnswerGroups)),
	}
	if !q.CreatedAt.IsZero() {
		b.CreatedAt = &q.CreatedAt
	}
	if !q.UpdatedAt.IsZero() {
		b.UpdatedAt = &q.UpdatedAt
	}
	for _, g := range q.AnswerGroups {
		group := groupBody{ID: g.ID, Name: g.Name, Answers: make([]answerBody, 0, len(g.Answers))}
		for _, a := range g.Answers {
			group.Answers = append(group.Answers, answerBody{
				ID:        a.ID,
				Text:      a.Text,
				IsCorrect: a.IsCorrect,
				ImageURL:  a.Image.URL(),
			})
		}
		b.AnswerGroups = append(b.AnswerGroups, group)
	}
	return b
}
