// Package catalog enumerates the Parquet objects under a store prefix
package catalog

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gear6io/pqview/pkg/errors"
	"github.com/gear6io/pqview/server/storage"
	"github.com/gear6io/pqview/server/types"
)

// ParquetSuffix selects the objects a listing keeps. Matching is
// case-sensitive.
const ParquetSuffix = ".parquet"

// Catalog lists the Parquet files of one store prefix. Ids are positions
// in the listing, so they are only stable while the set of objects is.
type Catalog struct {
	store  storage.ObjectStore
	prefix string
	logger zerolog.Logger
}

func New(store storage.ObjectStore, prefix string, logger zerolog.Logger) *Catalog {
	return &Catalog{
		store:  store,
		prefix: prefix,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// List returns one entry per object ending in .parquet, numbered from "1"
// in enumeration order
func (c *Catalog) List(ctx context.Context) ([]types.FileEntry, error) {
	objects, err := c.store.List(ctx, c.prefix)
	if err != nil {
		return nil, errors.New(ErrCatalogUnavailable, "cannot list objects", err).
			AddContext("prefix", c.prefix).
			AddContext("store", c.store.Type().String())
	}

	entries := make([]types.FileEntry, 0, len(objects))
	for _, obj := range objects {
		if !strings.HasSuffix(obj.Key, ParquetSuffix) {
			continue
		}
		entries = append(entries, types.FileEntry{
			ID:           strconv.Itoa(len(entries) + 1),
			Name:         baseName(obj.Key),
			RemotePath:   c.store.URI(obj.Key),
			SizeBytes:    obj.Size,
			LastModified: obj.LastModified,
		})
	}

	c.logger.Debug().
		Str("prefix", c.prefix).
		Int("objects", len(objects)).
		Int("files", len(entries)).
		Msg("Listed files")

	return entries, nil
}

// Resolve re-lists and returns the entry with id
func (c *Catalog) Resolve(ctx context.Context, id string) (types.FileEntry, error) {
	entries, err := c.List(ctx)
	if err != nil {
		return types.FileEntry{}, err
	}

	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return types.FileEntry{}, errors.New(ErrFileNotFound, "file not found", nil).AddContext("file_id", id)
}

func baseName(key string) string {
	return key[strings.LastIndex(key, "/")+1:]
}
