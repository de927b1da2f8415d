package utils

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	entropyLock sync.Mutex
	entropy     = ulid.Monotonic(rand.Reader, 0)
)

// GenerateULID returns a ULID that sorts after every ULID previously
// generated by this process
func GenerateULID() ulid.ULID {
	entropyLock.Lock()
	defer entropyLock.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}

// GenerateULIDString generates a new ULID as a string
func GenerateULIDString() string {
	return GenerateULID().String()
}

// StagingPattern returns an os.CreateTemp style pattern for a staged copy,
// e.g. "stage-01j9...-*.parquet". ext may be empty.
func StagingPattern(ext string) string {
	return "stage-" + strings.ToLower(GenerateULIDString()) + "-*" + ext
}

// RequestID returns a fresh random request identifier
func RequestID() string {
	return uuid.NewString()
}
