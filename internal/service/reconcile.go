package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"questionapi/internal/logger"
	"questionapi/internal/model"
)

// image is a resolved attachment URL together with the node that references it.
type image struct {
	url string
	ref model.NodeRef
}

func images(q *model.Question) []image {
	var out []image
	if u := q.Image.URL(); u != "" {
		out = append(out, image{url: u})
	}
	for _, g := range q.AnswerGroups {
		for _, a := range g.Answers {
			if u := a.Image.URL(); u != "" {
				out = append(out, image{url: u, ref: model.NodeRef{GroupID: g.ID, AnswerID: a.ID}})
			}
		}
	}
	return out
}

// reconcileDelete removes every blob owned by q, then the document itself.
// Blob failures never block the document delete.
func (s *questionService) reconcileDelete(ctx context.Context, q *model.Question) error {
	s.deleteBlobs(ctx, q.ID, images(q), "delete")
	if err := s.repo.Delete(ctx, questionsCollection, q.ID); err != nil {
		return &StoreError{Op: "delete", Cause: err}
	}
	return nil
}

// reconcileReplaced deletes blobs that prev referenced and next no longer does:
// cleared or replaced attachments and those of removed answers.
func (s *questionService) reconcileReplaced(ctx context.Context, prev, next *model.Question) {
	if prev == nil {
		return
	}
	s.deleteBlobs(ctx, next.ID, orphaned(prev, next), "replace")
}

// deleteBlobs removes the blobs behind imgs. Only keys under the referencing node's own
// path are touched; anything else may belong to another document and is skipped.
// Failures are logged and counted, never returned.
func (s *questionService) deleteBlobs(ctx context.Context, questionID string, imgs []image, reason string) {
	log := logger.FromContext(ctx, s.log)
	for _, img := range imgs {
		key, ok := s.store.KeyFromURL(img.url)
		if !ok {
			log.Warn("skipping attachment outside blob store", zap.String("url", img.url), zap.String("reason", reason))
			continue
		}
		if !strings.HasPrefix(key, nodePrefix(questionID, img.ref)) {
			log.Warn("skipping blob not owned by node",
				zap.String("key", key),
				zap.String("question_id", questionID),
				zap.String("answer_id", img.ref.AnswerID),
				zap.String("reason", reason),
			)
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			s.metrics.cleanupFailed()
			log.Warn("blob cleanup failed",
				zap.String("key", key),
				zap.String("reason", reason),
				zap.Error(err),
			)
			continue
		}
		log.Debug("blob deleted", zap.String("key", key), zap.String("reason", reason))
	}
}

func orphaned(prev, next *model.Question) []image {
	keep := make(map[string]struct{})
	for _, u := range next.ImageURLs() {
		keep[u] = struct{}{}
	}
	var out []image
	for _, img := range images(prev) {
		if _, ok := keep[img.url]; !ok {
			out = append(out, img)
		}
	}
	return out
}
