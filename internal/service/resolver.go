package service

import (
	"bytes"
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"questionapi/internal/model"
	"questionapi/internal/storage"
)

// uploadTarget is one pending attachment and the slot its URL goes back into.
type uploadTarget struct {
	path   string
	node   string
	slot   *model.Attachment
	upload model.Upload
}

func collectUploads(q *model.Question) []uploadTarget {
	var targets []uploadTarget
	if u, ok := q.Image.Upload(); ok {
		targets = append(targets, uploadTarget{
			path:   questionImagePath(q.ID, u),
			node:   q.ID,
			slot:   &q.Image,
			upload: u,
		})
	}
	for gi := range q.AnswerGroups {
		g := &q.AnswerGroups[gi]
		for ai := range g.Answers {
			a := &g.Answers[ai]
			u, ok := a.Image.Upload()
			if !ok {
				continue
			}
			targets = append(targets, uploadTarget{
				path:   answerImagePath(q.ID, g.ID, a.ID, u),
				node:   a.ID,
				slot:   &a.Image,
				upload: u,
			})
		}
	}
	return targets
}

// resolveAttachments uploads every pending attachment of q concurrently and rewrites each
// slot with its URL. All uploads are awaited; the first failure is returned as *UploadError.
// Uploads that succeeded before a failure are left in place.
func (s *questionService) resolveAttachments(ctx context.Context, q *model.Question) error {
	targets := collectUploads(q)
	if len(targets) == 0 {
		return nil
	}

	ctx, span := tracer.Start(ctx, "question.resolve_attachments",
		trace.WithAttributes(attribute.Int("attachments", len(targets))))
	defer span.End()

	questionID := q.ID
	var g errgroup.Group
	for _, t := range targets {
		g.Go(func() error {
			info, err := s.store.Put(ctx, t.path, bytes.NewReader(t.upload.Data), storage.PutObjectOptions{
				Size:        int64(len(t.upload.Data)),
				ContentType: t.upload.ContentType,
				Metadata: map[string]string{
					"question-id": questionID,
					"node-id":     t.node,
				},
			})
			s.metrics.uploadDone(err)
			if err != nil {
				return &UploadError{Path: t.path, Cause: err}
			}
			url := info.URL
			if url == "" {
				url = s.store.URL(t.path)
			}
			*t.slot = model.ResolvedAttachment(url)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "attachment upload failed")
		return err
	}
	return nil
}
