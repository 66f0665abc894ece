package service

import (
	"encoding/json"
	"fmt"
	"time"

	"questionapi/internal/model"
	"questionapi/internal/repository"
)

type storedQuestion struct {
	Text         string        `json:"text"`
	Description  string        `json:"description"`
	Required     bool          `json:"required"`
	ImageURL     string        `json:"imageUrl"`
	AnswerGroups []storedGroup `json:"answerGroups"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

type storedGroup struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Answers []storedAnswer `json:"answers"`
}

type storedAnswer struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
	ImageURL  string `json:"imageUrl"`
}

// fromRecord reshapes a flat record, whatever backend produced it, into a question tree.
func fromRecord(id string, rec repository.Record) (*model.Question, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("reshape question %s: %w", id, err)
	}
	var sq storedQuestion
	if err := json.Unmarshal(b, &sq); err != nil {
		return nil, fmt.Errorf("reshape question %s: %w", id, err)
	}

	q := &model.Question{
		ID:           id,
		Text:         sq.Text,
		Description:  sq.Description,
		Required:     sq.Required,
		Image:        model.ResolvedAttachment(sq.ImageURL),
		AnswerGroups: make([]model.AnswerGroup, 0, len(sq.AnswerGroups)),
		CreatedAt:    sq.CreatedAt,
		UpdatedAt:    sq.UpdatedAt,
	}
	for _, g := range sq.AnswerGroups {
		group := model.AnswerGroup{
			ID:      g.ID,
			Name:    g.Name,
			Answers: make([]model.Answer, 0, len(g.Answers)),
		}
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
	return q, nil
}
