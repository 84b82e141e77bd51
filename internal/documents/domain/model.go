package domain

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("document not found")

// Status is the visibility state of a document.
type Status string

const (
	StatusPrivate    Status = "private"
	StatusPublic     Status = "public"
	StatusInProgress Status = "in_progress"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusPrivate, StatusPublic, StatusInProgress:
		return true
	}
	return false
}

// FileType describes the stored file. Uploads only produce image or pdf;
// doc/docx exist in older records and are still accepted on read.
type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypePDF   FileType = "pdf"
	FileTypeDoc   FileType = "doc"
	FileTypeDocx  FileType = "docx"
)

// Document is one historical document record. The application only ever holds
// transient copies of these; the record store owns them.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"` // free-text year, e.g. "1914"
	FileURL     string    `json:"file_url"`
	ImageURL    string    `json:"image_url,omitempty"`
	FileType    FileType  `json:"file_type"`
	Description string    `json:"description"`
	Section     string    `json:"section"` // matches a menu item title
	Tags        []string  `json:"tags"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UploaderUID string    `json:"uploader_uid,omitempty"`
}
