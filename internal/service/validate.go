package service

import (
	"strings"

	"questionapi/internal/model"
)

// Validate checks the tree-shape rules of a question. It performs no I/O.
func Validate(q *model.Question) error {
	if q == nil {
		return ErrQuestionNil
	}
	if strings.TrimSpace(q.Text) == "" {
		return &ValidationError{Kind: MissingText}
	}
	if len(q.AnswerGroups) == 0 {
		return &ValidationError{Kind: EmptyGroupSet}
	}
	for _, g := range q.AnswerGroups {
		if len(g.Answers) == 0 {
			return &ValidationError{Kind: EmptyAnswerSet, GroupID: g.ID}
		}
		for _, a := range g.Answers {
			if strings.TrimSpace(a.Text) == "" {
				return &ValidationError{Kind: MissingAnswerText, GroupID: g.ID, AnswerID: a.ID}
			}
		}
	}
	return nil
}
