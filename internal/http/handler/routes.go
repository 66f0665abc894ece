package handler

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"questionapi/internal/model"
	"questionapi/internal/service"
)

// DefaultUploadMaxBytes bounds a single attachment part when no limit is configured.
const DefaultUploadMaxBytes = 10 << 20

// Pinger reports whether the document database is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type routeOptions struct {
	log            *zap.Logger
	uploadMaxBytes int64
}

// RouteOption configures the question handlers.
type RouteOption func(*routeOptions)

// WithLogger sets the logger used for failed requests.
func WithLogger(l *zap.Logger) RouteOption {
	return func(o *routeOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// WithUploadMaxBytes bounds each attachment part of a multipart save.
func WithUploadMaxBytes(n int64) RouteOption {
	return func(o *routeOptions) {
		if n > 0 {
			o.uploadMaxBytes = n
		}
	}
}

func buildOptions(opts []RouteOption) routeOptions {
	o := routeOptions{log: zap.NewNop(), uploadMaxBytes: DefaultUploadMaxBytes}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// db may be nil when the document backend has no network dependency.
func RegisterRoutes(app *fiber.App, db Pinger, svc service.QuestionService, opts ...RouteOption) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", APIDocs())

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/questions", ListQuestions(svc, opts...))
	app.Post("/questions", CreateQuestion(svc, opts...))
	app.Get("/questions/:id", GetQuestion(svc, opts...))
	app.Put("/questions/:id", UpdateQuestion(svc, opts...))
	app.Delete("/questions/:id", DeleteQuestion(svc, opts...))
	app.Delete("/questions/:id/image", RemoveQuestionImage(svc, opts...))
	app.Delete("/questions/:id/groups/:groupId/answers/:answerId/image", RemoveAnswerImage(svc, opts...))
}

// APIDocs serves Swagger UI pointed at /openapi.yaml.
func APIDocs() fiber.Handler {
	const html = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Question API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
	return func(c *fiber.Ctx) error {
		return c.Type("html").SendString(html)
	}
}

// HealthCheck checks database connectivity when there is a database to check.
func HealthCheck(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

var listOrderKeys = map[string]bool{"createdAt": true, "updatedAt": true, "text": true}

// ListQuestions lists questions, newest first unless orderBy/order say otherwise.
// The optional required=true|false filter keeps matching questions only.
func ListQuestions(svc service.QuestionService, opts ...RouteOption) fiber.Handler {
	o := buildOptions(opts)
	return func(c *fiber.Ctx) error {
		var lo service.ListOptions

		if orderBy := c.Query("orderBy"); orderBy != "" {
			if !listOrderKeys[orderBy] {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ORDER_BY", "orderBy must be createdAt, updatedAt or text")
			}
			lo.OrderBy = orderBy
		}
		switch order := c.Query("order", "desc"); order {
		case "asc":
		case "desc":
			lo.Descending = true
		default:
			return writeError(c, fiber.StatusBadRequest, "INVALID_ORDER", "order must be asc or desc")
		}
		if lo.OrderBy == "" && !lo.Descending {
			lo.OrderBy = "createdAt"
		}

		if raw := c.Query("required"); raw != "" {
			required, err := strconv.ParseBool(raw)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_FILTER", "required must be true or false")
			}
			lo.Where = map[string]any{"required": required}
		}

		qs, err := svc.List(c.UserContext(), lo)
		if err != nil {
			return writeServiceError(c, o.log, err)
		}
		res := questionListResponse{Items: make([]questionBody, 0, len(qs)), Total: len(qs)}
		for _, q := range qs {
			res.Items = append(res.Items, fromModel(q))
		}
		return c.JSON(res)
	}
}

// GetQuestion returns a single question tree.
func GetQuestion(svc service.QuestionService, opts ...RouteOption) fiber.Handler {
	o := buildOptions(opts)
	return func(c *fiber.Ctx) error {
		q, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, o.log, err)
		}
		return c.JSON(fromModel(q))
	}
}

// CreateQuestion saves a new question from a JSON body or a multipart form.
func CreateQuestion(svc service.QuestionService, opts ...RouteOption) fiber.Handler {
	o := buildOptions(opts)
	return func(c *fiber.Ctx) error {
		q, herr := parseQuestion(c, o)
		if herr != nil {
			return writeError(c, herr.status, herr.code, herr.message)
		}
		id, err := svc.Save(c.UserContext(), q)
		if err != nil {
			return writeServiceError(c, o.log, err)
		}
		return c.Status(fiber.StatusCreated).JSON(idResponse{ID: id})
	}
}

// UpdateQuestion saves the question under the id in the path, creating it if unknown.
func UpdateQuestion(svc service.QuestionService, opts ...RouteOption) fiber.Handler {
	o := buildOptions(opts)
	return func(c *fiber.Ctx) error {
		q, herr := parseQuestion(c, o)
		if herr != nil {
			return writeError(c, herr.status, herr.code, herr.message)
		}
		q.ID = c.Params("id")
		id, err := svc.Save(c.UserContext(), q)
		if err != nil {
			return writeServiceError(c, o.log, err)
		}
		return c.JSON(idResponse{ID: id})
	}
}

// DeleteQuestion removes a question and its attachments.
func DeleteQuestion(svc service.QuestionService, opts ...RouteOption) fiber.Handler {
	o := buildOptions(opts)
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, o.log, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RemoveQuestionImage clears the question's own image.
func RemoveQuestionImage(svc service.QuestionService, opts ...RouteOption) fiber.Handler {
	o := buildOptions(opts)
	return func(c *fiber.Ctx) error {
		if err := svc.RemoveAttachment(c.UserContext(), c.Params("id"), model.NodeRef{}); err != nil {
			return writeServiceError(c, o.log, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RemoveAnswerImage clears one answer's image.
func RemoveAnswerImage(svc service.QuestionService, opts ...RouteOption) fiber.Handler {
	o := buildOptions(opts)
	return func(c *fiber.Ctx) error {
		ref := model.NodeRef{GroupID: c.Params("groupId"), AnswerID: c.Params("answerId")}
		if err := svc.RemoveAttachment(c.UserContext(), c.Params("id"), ref); err != nil {
			return writeServiceError(c, o.log, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type httpError struct {
	status  int
	code    string
	message string
}

func badRequest(code, message string) *httpError {
	return &httpError{status: fiber.StatusBadRequest, code: code, message: message}
}

// parseQuestion reads a question tree from a JSON body, or from a multipart form whose
// "question" field holds the JSON and whose file parts "image" and "image:{answerID}"
// carry new attachments.
func parseQuestion(c *fiber.Ctx, o routeOptions) (*model.Question, *httpError) {
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		var body questionBody
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return nil, badRequest("INVALID_BODY", "request body must be a JSON question")
		}
		return body.toModel(), nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, badRequest("INVALID_BODY", "malformed multipart form")
	}
	raw := form.Value["question"]
	if len(raw) == 0 {
		return nil, badRequest("QUESTION_REQUIRED", "question field is required")
	}
	var body questionBody
	if err := json.Unmarshal([]byte(raw[0]), &body); err != nil {
		return nil, badRequest("INVALID_BODY", "question field must be JSON")
	}
	q := body.toModel()

	for field, files := range form.File {
		if len(files) == 0 {
			continue
		}
		slot, herr := attachmentSlot(q, field)
		if herr != nil {
			return nil, herr
		}
		up, herr := readUpload(files[0], o.uploadMaxBytes)
		if herr != nil {
			return nil, herr
		}
		*slot = model.PendingAttachment(up)
	}
	return q, nil
}

func attachmentSlot(q *model.Question, field string) (*model.Attachment, *httpError) {
	if field == "image" {
		return &q.Image, nil
	}
	answerID, ok := strings.CutPrefix(field, "image:")
	if !ok || answerID == "" {
		return nil, badRequest("UNKNOWN_FILE_FIELD", "unexpected file field "+field)
	}
	for gi := range q.AnswerGroups {
		for ai := range q.AnswerGroups[gi].Answers {
			if q.AnswerGroups[gi].Answers[ai].ID == answerID {
				return &q.AnswerGroups[gi].Answers[ai].Image, nil
			}
		}
	}
	return nil, badRequest("UNKNOWN_ANSWER", "no answer with id "+answerID)
}

func readUpload(fh *multipart.FileHeader, maxBytes int64) (model.Upload, *httpError) {
	if fh.Size > maxBytes {
		return model.Upload{}, &httpError{status: fiber.StatusRequestEntityTooLarge, code: "FILE_TOO_LARGE", message: "attachment exceeds size limit"}
	}
	f, err := fh.Open()
	if err != nil {
		return model.Upload{}, badRequest("FILE_OPEN_ERROR", "cannot open uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return model.Upload{}, badRequest("FILE_OPEN_ERROR", "cannot read uploaded file")
	}
	if int64(len(data)) > maxBytes {
		return model.Upload{}, &httpError{status: fiber.StatusRequestEntityTooLarge, code: "FILE_TOO_LARGE", message: "attachment exceeds size limit"}
	}

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return model.Upload{Data: data, ContentType: ct, Filename: fh.Filename}, nil
}
