// Package archive files completed checks as JSON documents in object storage.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/google/uuid"

	"breachguard/internal/model"
	"breachguard/internal/repository"
	"breachguard/internal/storage"
)

// CheckArchive writes one object per check under
// <collection>/<yyyy>/<mm>/<dd>/<uuid>.json.
type CheckArchive struct {
	store      storage.Storage
	collection string
}

// NewCheckArchive creates an archive filing checks under repository.CollectionCheck.
func NewCheckArchive(store storage.Storage) *CheckArchive {
	return &CheckArchive{store: store, collection: repository.CollectionCheck}
}

var _ repository.CheckRecorder = (*CheckArchive)(nil)

// Create uploads the check as a JSON document.
func (a *CheckArchive) Create(ctx context.Context, c *model.Check) error {
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal check: %w", err)
	}

	at := c.CheckedAt.UTC()
	key := path.Join(a.collection, at.Format("2006/01/02"), uuid.NewString()+".json")

	if _, err := a.store.Put(ctx, key, bytes.NewReader(b), storage.PutObjectOptions{
		Size:        int64(len(b)),
		ContentType: "application/json",
		Metadata: map[string]string{
			"source": c.Source,
		},
	}); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
