package types

import "time"

// FileEntry describes one listed parquet object. IDs are only meaningful
// within the listing that produced them.
type FileEntry struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	RemotePath   string    `json:"path"`
	SizeBytes    int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}
