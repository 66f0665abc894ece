package service

import (
	"fmt"

	"questionapi/internal/model"
	"questionapi/internal/repository"
)

// Sanitize turns a resolved question into a persistable record. It is pure.
// updatedAt always asks for a server timestamp; createdAt does too when the question is new
// or carries none, otherwise the existing value is kept. A pending attachment anywhere in the
// tree is a resolver bug and fails with ErrUnresolvedAttachment.
func Sanitize(q *model.Question, isNew bool) (repository.Record, error) {
	rec := repository.Record{
		"text":                  q.Text,
		"required":              q.Required,
		repository.UpdatedAtKey: repository.ServerTimestamp,
	}
	if q.Description != "" {
		rec["description"] = q.Description
	}
	if isNew || q.CreatedAt.IsZero() {
		rec[repository.CreatedAtKey] = repository.ServerTimestamp
	} else {
		rec[repository.CreatedAtKey] = q.CreatedAt
	}
	if err := putImage(rec, q.Image, "question"); err != nil {
		return nil, err
	}

	groups := make([]map[string]any, 0, len(q.AnswerGroups))
	for _, g := range q.AnswerGroups {
		answers := make([]map[string]any, 0, len(g.Answers))
		for _, a := range g.Answers {
			am := map[string]any{
				"id":        a.ID,
				"text":      a.Text,
				"isCorrect": a.IsCorrect,
			}
			if err := putImage(am, a.Image, "answer "+a.ID); err != nil {
				return nil, err
			}
			answers = append(answers, am)
		}
		gm := map[string]any{
			"id":      g.ID,
			"answers": answers,
		}
		if g.Name != "" {
			gm["name"] = g.Name
		}
		groups = append(groups, gm)
	}
	rec["answerGroups"] = groups
	return rec, nil
}

func putImage(m map[string]any, a model.Attachment, node string) error {
	switch a.State() {
	case model.AttachmentPending:
		return fmt.Errorf("%w: %s", ErrUnresolvedAttachment, node)
	case model.AttachmentResolved:
		m["imageUrl"] = a.URL()
	}
	return nil
}
