package model

import "time"

// Question is the root of a stored question tree.
// ID is empty until the question is saved for the first time.
type Question struct {
	ID           string        `json:"id,omitempty"`
	Text         string        `json:"text"`
	Description  string        `json:"description,omitempty"`
	Required     bool          `json:"required"`
	Image        Attachment    `json:"-"`
	AnswerGroups []AnswerGroup `json:"answerGroups"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// AnswerGroup is an ordered set of answers. ID is minted by the client when the group is created.
type AnswerGroup struct {
	ID      string   `json:"id"`
	Name    string   `json:"name,omitempty"`
	Answers []Answer `json:"answers"`
}

// Answer is a leaf of the question tree.
type Answer struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	IsCorrect bool       `json:"isCorrect"`
	Image     Attachment `json:"-"`
}

// NodeRef addresses one attachment-bearing node of a question.
// The zero value addresses the question itself.
type NodeRef struct {
	GroupID  string
	AnswerID string
}

// IsQuestion reports whether the ref points at the question node.
func (r NodeRef) IsQuestion() bool {
	return r.GroupID == "" && r.AnswerID == ""
}

// Clone returns a deep copy of the tree. Pending payload bytes are shared, they are never mutated.
func (q *Question) Clone() *Question {
	if q == nil {
		return nil
	}
	out := *q
	if q.AnswerGroups != nil {
		out.AnswerGroups = make([]AnswerGroup, len(q.AnswerGroups))
		for i, g := range q.AnswerGroups {
			out.AnswerGroups[i] = g
			if g.Answers != nil {
				out.AnswerGroups[i].Answers = append([]Answer(nil), g.Answers...)
			}
		}
	}
	return &out
}

// Attachment returns a pointer to the attachment slot addressed by ref, or nil if no such node exists.
func (q *Question) Attachment(ref NodeRef) *Attachment {
	if ref.IsQuestion() {
		return &q.Image
	}
	for gi := range q.AnswerGroups {
		g := &q.AnswerGroups[gi]
		if g.ID != ref.GroupID {
			continue
		}
		for ai := range g.Answers {
			if g.Answers[ai].ID == ref.AnswerID {
				return &g.Answers[ai].Image
			}
		}
	}
	return nil
}

// ImageURLs returns every resolved attachment URL in the tree, question first, then answers in order.
func (q *Question) ImageURLs() []string {
	var urls []string
	if u := q.Image.URL(); u != "" {
		urls = append(urls, u)
	}
	for _, g := range q.AnswerGroups {
		for _, a := range g.Answers {
			if u := a.Image.URL(); u != "" {
				urls = append(urls, u)
			}
		}
	}
	return urls
}
