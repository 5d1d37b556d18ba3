package gallery

import (
	"context"
	"fmt"
	"io"

	"github.com/nbhive/nbhive/internal/archive"
	"github.com/nbhive/nbhive/pkg/logger"
	"github.com/nbhive/nbhive/pkg/metrics"
)

// Export serializes every public notebook into an archive the import path
// consumes losslessly. With no public notebook it fails with
// ErrNothingToExport and writes nothing.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	nbs, err := s.notebooks.ListPublic(ctx)
	if err != nil {
		return err
	}
	if len(nbs) == 0 {
		return ErrNothingToExport
	}

	items := make([]archive.Item, 0, len(nbs))
	for _, nb := range nbs {
		data, err := s.contents.Get(ctx, nb.ContentID)
		if err != nil {
			return fmt.Errorf("content for %s: %w", nb.UUID, err)
		}
		public := nb.Public
		meta := archive.Meta{
			UUID:        nb.UUID,
			Title:       nb.Title,
			Description: nb.Description,
			Owner:       nb.Owner.Name(),
			OwnerKind:   string(nb.Owner.Kind),
			Created:     archive.NewDate(nb.CreatedAt),
			Updated:     archive.NewDate(nb.UpdatedAt),
			Public:      &public,
		}
		if nb.Creator != nil {
			meta.Creator = nb.Creator.Name
		}
		if nb.Updater != nil {
			meta.Updater = nb.Updater.Name
		}
		if len(nb.Tags) > 0 {
			meta.Tags = nb.Tags
		}
		items = append(items, archive.Item{Key: nb.UUID, Meta: meta, Content: data})
	}

	if err := archive.Encode(w, items); err != nil {
		return err
	}
	metrics.ExportsServed.Inc()
	logger.Infof("export: %d notebooks serialized", len(items))
	return nil
}
