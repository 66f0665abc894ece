package model

// AttachmentState tells which view of an attachment a node currently carries.
type AttachmentState int

const (
	// AttachmentNone means the node has no image.
	AttachmentNone AttachmentState = iota
	// AttachmentPending means raw bytes are waiting to be uploaded.
	AttachmentPending
	// AttachmentResolved means the image lives in blob storage under URL.
	AttachmentResolved
)

func (s AttachmentState) String() string {
	switch s {
	case AttachmentPending:
		return "pending"
	case AttachmentResolved:
		return "resolved"
	default:
		return "none"
	}
}

// Upload is a raw attachment payload that has not been stored yet.
type Upload struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Attachment is the image slot of a Question or Answer node.
// The zero value is AttachmentNone. A node never holds raw bytes and a URL at the same time.
type Attachment struct {
	state  AttachmentState
	url    string
	upload Upload
}

// NoAttachment returns an empty attachment slot.
func NoAttachment() Attachment {
	return Attachment{}
}

// PendingAttachment wraps raw bytes that must be uploaded before the node is persisted.
func PendingAttachment(u Upload) Attachment {
	return Attachment{state: AttachmentPending, upload: u}
}

// ResolvedAttachment references an already stored blob. An empty url yields NoAttachment.
func ResolvedAttachment(url string) Attachment {
	if url == "" {
		return Attachment{}
	}
	return Attachment{state: AttachmentResolved, url: url}
}

func (a Attachment) State() AttachmentState { return a.state }

func (a Attachment) IsPending() bool { return a.state == AttachmentPending }

// URL returns the resolved reference, or "" when the attachment is not resolved.
func (a Attachment) URL() string {
	if a.state != AttachmentResolved {
		return ""
	}
	return a.url
}

// Upload returns the pending payload.
func (a Attachment) Upload() (Upload, bool) {
	if a.state != AttachmentPending {
		return Upload{}, false
	}
	return a.upload, true
}
