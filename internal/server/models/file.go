package models

import "time"

// File describes metadata for an uploaded payload. The bytes themselves
// live in the blob store under StorageKey.
type File struct {
	ID int64
	// OwnerID references the owning user; it must name an existing,
	// active user at creation time.
	OwnerID int64
	// FileName is the name supplied by the uploader. Not unique, even
	// within one owner.
	FileName string
	// StorageKey is the server-assigned blob location. Unique across all
	// files regardless of owner or file name.
	StorageKey string
	// Size is the payload length in bytes.
	Size int64
	// CreatedAt is set at upload time and never changes.
	CreatedAt time.Time
}

// FileView is a File joined with its owner's username, used by admin
// listings.
type FileView struct {
	File
	OwnerUsername string
}
