package domain

import (
	"strings"
	"time"
)

// MemoType represents the kind of a memo
type MemoType int

const (
	MemoTypeText  MemoType = 1
	MemoTypeVoice MemoType = 2
)

// Status represents memo status
type Status string

const (
	StatusTextMemo   Status = "Text Memo"
	StatusVoiceMemo  Status = "Voice Memo"
	StatusFavorites  Status = "favorites"
	StatusNotes      Status = "notes"
	StatusRecycleBin Status = "recycle bin"
	StatusDeleted    Status = "deleted"
)

// Memo represents a memo domain entity.
//
// Description is set only for text memos and Audio only for voice memos.
// Images is always non-nil and empty for voice memos.
type Memo struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	MemoType        MemoType  `json:"memoType"`
	Title           string    `json:"title"`
	Description     *string   `json:"description,omitempty"`
	Images          []string  `json:"images"`
	Audio           *string   `json:"audio,omitempty"`
	AdditionalNotes string    `json:"additionalNotes,omitempty"`
	Status          Status    `json:"status"`
	CreatedDate     time.Time `json:"createdDate"`
}

// MemoDraft is the unvalidated field set submitted for a new memo
type MemoDraft struct {
	UserID          string
	Title           string
	MemoType        string
	Description     string
	AdditionalNotes string
}

// UploadedFile is a file already persisted by the upload store
type UploadedFile struct {
	OriginalName string `json:"originalName"`
	StoredPath   string `json:"storedPath"`
}

// VoiceMemoSummary is the projection returned when listing a user's voice memos
type VoiceMemoSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	FilePath string `json:"filePath"`
}

// MemoWithOwner is a memo joined with its owner's display name.
// Owner is nil when the owning user no longer exists.
type MemoWithOwner struct {
	Memo
	Owner *Owner `json:"owner"`
}

// NewMemo validates a draft against the type-conditional rules and builds a
// normalized memo. The first failing rule is returned.
func NewMemo(draft MemoDraft, files []UploadedFile, now time.Time) (*Memo, error) {
	if draft.UserID == "" {
		return nil, &ValidationError{Field: "userId", Message: "userId is required."}
	}
	if draft.Title == "" {
		return nil, &ValidationError{Field: "title", Message: "Title is required."}
	}

	memoType, err := ParseMemoType(draft.MemoType)
	if err != nil {
		return nil, err
	}

	memo := &Memo{
		UserID:          draft.UserID,
		MemoType:        memoType,
		Title:           draft.Title,
		AdditionalNotes: draft.AdditionalNotes,
		Status:          memoType.DefaultStatus(),
		CreatedDate:     now,
	}

	switch memoType {
	case MemoTypeText:
		if draft.Description == "" {
			return nil, &ValidationError{Field: "description", Message: "Text Memo (memoType 1) requires a description."}
		}
		description := draft.Description
		memo.Description = &description
		memo.Images = make([]string, 0, len(files))
		for _, f := range files {
			memo.Images = append(memo.Images, f.StoredPath)
		}
	case MemoTypeVoice:
		if len(files) == 0 {
			return nil, &ValidationError{Field: "audio", Message: "Voice Memo requires an audio file."}
		}
		// 2件目以降のファイルは破棄する
		audio := files[0].StoredPath
		memo.Audio = &audio
		memo.Images = []string{}
	}

	return memo, nil
}

// Validate checks the stored-shape invariants of a memo
func (m *Memo) Validate() error {
	if m.UserID == "" {
		return &ValidationError{Field: "userId", Message: "userId is required."}
	}
	if m.Title == "" {
		return &ValidationError{Field: "title", Message: "Title is required."}
	}
	if !m.MemoType.IsValid() {
		return ErrInvalidMemoType
	}
	if !m.Status.IsValid() {
		return &ValidationError{Field: "status", Message: "Invalid status."}
	}

	switch m.MemoType {
	case MemoTypeText:
		if m.Description == nil || *m.Description == "" {
			return &ValidationError{Field: "description", Message: "Text Memo (memoType 1) requires a description."}
		}
		if m.Audio != nil {
			return &ValidationError{Field: "audio", Message: "Text Memo must not have an audio file."}
		}
	case MemoTypeVoice:
		if m.Audio == nil || *m.Audio == "" {
			return &ValidationError{Field: "audio", Message: "Voice Memo requires an audio file."}
		}
		if m.Description != nil {
			return &ValidationError{Field: "description", Message: "Voice Memo must not have a description."}
		}
		if len(m.Images) > 0 {
			return &ValidationError{Field: "images", Message: "Voice Memo must not have images."}
		}
	}
	return nil
}

// VoiceSummary projects a voice memo with its audio path normalized to forward slashes
func (m *Memo) VoiceSummary() VoiceMemoSummary {
	var filePath string
	if m.Audio != nil {
		filePath = strings.ReplaceAll(*m.Audio, `\`, "/")
	}
	return VoiceMemoSummary{
		ID:       m.ID,
		Title:    m.Title,
		FilePath: filePath,
	}
}

// ParseMemoType parses the wire form ("1" or "2") of a memo type
func ParseMemoType(s string) (MemoType, error) {
	switch s {
	case "1":
		return MemoTypeText, nil
	case "2":
		return MemoTypeVoice, nil
	default:
		return 0, ErrInvalidMemoType
	}
}

// IsValid validates if the memo type is valid
func (t MemoType) IsValid() bool {
	switch t {
	case MemoTypeText, MemoTypeVoice:
		return true
	default:
		return false
	}
}

// DefaultStatus returns the status a new memo of this type starts with
func (t MemoType) DefaultStatus() Status {
	if t == MemoTypeVoice {
		return StatusVoiceMemo
	}
	return StatusTextMemo
}

// String returns string representation of MemoType
func (t MemoType) String() string {
	switch t {
	case MemoTypeText:
		return "text"
	case MemoTypeVoice:
		return "voice"
	default:
		return "unknown"
	}
}

// ParseStatus parses a stored status value
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", &ValidationError{Field: "status", Message: "Invalid status."}
	}
	return status, nil
}

// IsValid validates if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusTextMemo, StatusVoiceMemo, StatusFavorites, StatusNotes, StatusRecycleBin, StatusDeleted:
		return true
	default:
		return false
	}
}

// String returns string representation of Status
func (s Status) String() string {
	return string(s)
}
