package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"questionapi/internal/logger"
	"questionapi/internal/model"
	"questionapi/internal/repository"
	"questionapi/internal/storage"
)

var tracer = otel.Tracer("questionapi/internal/service")

// ListOptions orders and filters List. An empty OrderBy lists newest first.
type ListOptions struct {
	OrderBy    string
	Descending bool
	Where      map[string]any
}

// QuestionService defines the use cases for question documents and their attachments.
type QuestionService interface {
	// Save validates q, uploads its pending attachments, then writes the whole tree.
	// A question without an id is created under a freshly minted one. The id is returned.
	Save(ctx context.Context, q *model.Question) (string, error)

	// Get returns the question stored under id.
	Get(ctx context.Context, id string) (*model.Question, error)

	// List returns all stored questions.
	List(ctx context.Context, opts ListOptions) ([]*model.Question, error)

	// Delete removes a question and, best-effort, every blob it references.
	Delete(ctx context.Context, id string) error

	// RemoveAttachment clears the attachment of one node and deletes its blob best-effort.
	RemoveAttachment(ctx context.Context, id string, ref model.NodeRef) error
}

type questionService struct {
	store   storage.Storage
	repo    repository.DocumentStore
	log     *zap.Logger
	metrics *Metrics
}

// Option configures a QuestionService.
type Option func(*questionService)

// WithLogger sets the logger used for swallowed cleanup failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *questionService) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics sets the upload and cleanup counters.
func WithMetrics(m *Metrics) Option {
	return func(s *questionService) { s.metrics = m }
}

// NewQuestionService constructs a new QuestionService.
func NewQuestionService(store storage.Storage, repo repository.DocumentStore, opts ...Option) QuestionService {
	s := &questionService{store: store, repo: repo, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *questionService) Save(ctx context.Context, in *model.Question) (string, error) {
	if err := Validate(in); err != nil {
		return "", err
	}

	q := in.Clone()
	mintIDs(q)

	ctx, span := tracer.Start(ctx, "question.save", trace.WithAttributes(attribute.String("question.id", q.ID)))
	defer span.End()

	prev, err := s.load(ctx, q.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", fail(span, err)
	}
	isNew := prev == nil
	if !isNew && !prev.CreatedAt.IsZero() {
		q.CreatedAt = prev.CreatedAt
	}

	if err := s.resolveAttachments(ctx, q); err != nil {
		return "", fail(span, err)
	}

	rec, err := Sanitize(q, isNew)
	if err != nil {
		return "", fail(span, err)
	}

	if isNew {
		err = s.repo.Create(ctx, questionsCollection, q.ID, rec)
		if err != nil {
			return "", fail(span, &StoreError{Op: "create", Cause: err})
		}
	} else {
		err = s.repo.Replace(ctx, questionsCollection, q.ID, rec)
		if errors.Is(err, repository.ErrNotFound) {
			return "", fail(span, ErrNotFound)
		}
		if err != nil {
			return "", fail(span, &StoreError{Op: "replace", Cause: err})
		}
		s.reconcileReplaced(ctx, prev, q)
	}

	logger.FromContext(ctx, s.log).Debug("question saved",
		zap.String("question_id", q.ID),
		zap.Bool("created", isNew),
	)
	return q.ID, nil
}

func (s *questionService) Get(ctx context.Context, id string) (*model.Question, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	return s.load(ctx, id)
}

func (s *questionService) List(ctx context.Context, opts ListOptions) ([]*model.Question, error) {
	query := repository.QueryOptions{
		OrderBy:    opts.OrderBy,
		Descending: opts.Descending,
		Where:      opts.Where,
	}
	if query.OrderBy == "" {
		query.OrderBy = repository.CreatedAtKey
		query.Descending = true
	}

	docs, err := s.repo.Query(ctx, questionsCollection, query)
	if err != nil {
		return nil, &StoreError{Op: "query", Cause: err}
	}
	out := make([]*model.Question, 0, len(docs))
	for _, d := range docs {
		q, err := fromRecord(d.ID, d.Record)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *questionService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	ctx, span := tracer.Start(ctx, "question.delete", trace.WithAttributes(attribute.String("question.id", id)))
	defer span.End()

	q, err := s.load(ctx, id)
	if err != nil {
		return fail(span, err)
	}
	if err := s.reconcileDelete(ctx, q); err != nil {
		return fail(span, err)
	}
	return nil
}

func (s *questionService) RemoveAttachment(ctx context.Context, id string, ref model.NodeRef) error {
	if id == "" {
		return ErrIDRequired
	}
	ctx, span := tracer.Start(ctx, "question.remove_attachment", trace.WithAttributes(
		attribute.String("question.id", id),
		attribute.String("answer.id", ref.AnswerID),
	))
	defer span.End()

	q, err := s.load(ctx, id)
	if err != nil {
		return fail(span, err)
	}
	slot := q.Attachment(ref)
	if slot == nil {
		return fail(span, ErrNodeNotFound)
	}
	url := slot.URL()
	if url == "" {
		return nil
	}
	*slot = model.NoAttachment()

	rec, err := Sanitize(q, false)
	if err != nil {
		return fail(span, err)
	}
	if err := s.repo.Replace(ctx, questionsCollection, id, rec); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(span, ErrNotFound)
		}
		return fail(span, &StoreError{Op: "replace", Cause: err})
	}
	s.deleteBlobs(ctx, id, []image{{url: url, ref: ref}}, "remove")
	return nil
}

// load fetches and reshapes a stored question. Unknown ids map to ErrNotFound.
func (s *questionService) load(ctx context.Context, id string) (*model.Question, error) {
	rec, err := s.repo.Get(ctx, questionsCollection, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StoreError{Op: "get", Cause: err}
	}
	return fromRecord(id, rec)
}

// mintIDs assigns ids to the question and any group or answer arriving without one.
func mintIDs(q *model.Question) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	for gi := range q.AnswerGroups {
		g := &q.AnswerGroups[gi]
		if g.ID == "" {
			g.ID = uuid.NewString()
		}
		for ai := range g.Answers {
			if g.Answers[ai].ID == "" {
				g.Answers[ai].ID = uuid.NewString()
			}
		}
	}
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
