package syncclient

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"leaflet/internal/model"
	"leaflet/pkg/jsonfile"
	"leaflet/pkg/log"
)

// Cache is the durable local copy of the client state.
type Cache struct {
	path string
	l    log.Logger
}

// NewCache returns a cache stored at path. Nothing is touched on disk until
// the first Save.
func NewCache(path string, l log.Logger) *Cache {
	return &Cache{path: path, l: l}
}

// Load returns the cached document. A missing file is an empty cache; an
// unreadable one is moved aside and also treated as empty.
func (c *Cache) Load(ctx context.Context) Document {
	var doc Document
	err := jsonfile.Read(c.path, &doc)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		doc = Document{}
	case errors.Is(err, jsonfile.ErrCorrupt):
		c.l.Warnf(ctx, "syncclient.Cache.Load: %v", err)
		if dst, qErr := jsonfile.Quarantine(c.path, strconv.FormatInt(time.Now().Unix(), 10)); qErr != nil {
			c.l.Errorf(ctx, "syncclient.Cache.Load: %v", qErr)
		} else {
			c.l.Warnf(ctx, "syncclient.Cache.Load: corrupt cache moved to %s", dst)
		}
		doc = Document{}
	default:
		c.l.Errorf(ctx, "syncclient.Cache.Load: %v", err)
		doc = Document{}
	}

	if doc.Preferences == nil {
		doc.Preferences = model.DefaultPreferences()
	}
	return doc
}

// Save atomically replaces the cached document.
func (c *Cache) Save(doc Document) error {
	if doc.Tasks == nil {
		doc.Tasks = []Entry{}
	}
	return jsonfile.Write(c.path, doc)
}
