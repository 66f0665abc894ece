package service

import (
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"

	"questionapi/internal/model"
)

const questionsCollection = "questions"

var imageExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/avif":    ".avif",
}

// questionImagePath is questions/{questionID}/image/{random}{ext}.
func questionImagePath(questionID string, u model.Upload) string {
	return nodePrefix(questionID, model.NodeRef{}) + uuid.NewString() + extension(u)
}

// answerImagePath is questions/{questionID}/groups/{groupID}/answers/{answerID}/{random}{ext}.
func answerImagePath(questionID, groupID, answerID string, u model.Upload) string {
	return nodePrefix(questionID, model.NodeRef{GroupID: groupID, AnswerID: answerID}) + uuid.NewString() + extension(u)
}

// questionPrefix is the key prefix every blob of the question lives under.
func questionPrefix(questionID string) string {
	return "questions/" + segment(questionID) + "/"
}

// nodePrefix is the key prefix of the blobs owned by the node ref points at.
func nodePrefix(questionID string, ref model.NodeRef) string {
	if ref.IsQuestion() {
		return questionPrefix(questionID) + "image/"
	}
	return questionPrefix(questionID) + "groups/" + segment(ref.GroupID) + "/answers/" + segment(ref.AnswerID) + "/"
}

// segment encodes an id as a single URL-safe path element. Bytes outside
// [A-Za-z0-9_-] become ~HH, so the key needs no further escaping in a URL.
func segment(id string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteByte(c)
		default:
			b.WriteByte('~')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		}
	}
	return b.String()
}

func extension(u model.Upload) string {
	ext := strings.ToLower(path.Ext(u.Filename))
	if ext == "" && u.ContentType != "" {
		ct, _, err := mime.ParseMediaType(u.ContentType)
		if err == nil {
			if e, ok := imageExtensions[ct]; ok {
				ext = e
			} else if exts, _ := mime.ExtensionsByType(ct); len(exts) > 0 {
				ext = exts[0]
			}
		}
	}
	if len(ext) < 2 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
