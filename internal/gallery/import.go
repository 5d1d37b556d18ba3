package gallery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/nbhive/nbhive/internal/archive"
	"github.com/nbhive/nbhive/internal/identity"
	"github.com/nbhive/nbhive/internal/jupyter"
	"github.com/nbhive/nbhive/internal/notebook"
	"github.com/nbhive/nbhive/internal/notebook/repository"
	"github.com/nbhive/nbhive/internal/revision"
	"github.com/nbhive/nbhive/internal/stage"
	"github.com/nbhive/nbhive/pkg/logger"
	"github.com/nbhive/nbhive/pkg/metrics"
)

// ImportOptions carries batch-level defaults.
type ImportOptions struct {
	// DefaultVisibility applies to created notebooks whose sidecar record
	// leaves the public flag unset.
	DefaultVisibility bool
}

// Import decodes the archive and reconciles every entry against the store.
// Archive-level malformation fails the whole call; everything after that is
// captured per entry, and one entry's failure never halts the batch.
func (s *Service) Import(ctx context.Context, actingUser *identity.User, r io.Reader, opts ImportOptions) (*Report, error) {
	ar, err := archive.Decode(r)
	if err != nil {
		return nil, err
	}

	report := newReport()
	for _, entry := range ar.Entries {
		success, errMsg := s.importEntry(ctx, actingUser, ar.Metadata, entry, opts)
		if errMsg != "" {
			logger.Warnf("import: %s", errMsg)
			metrics.ImportEntryErrors.Inc()
			report.Errors = append(report.Errors, errMsg)
			continue
		}
		metrics.NotebooksImported.WithLabelValues(success.Action).Inc()
		report.Successes = append(report.Successes, *success)
	}
	logger.Infof("import: batch done, %d committed, %d rejected", len(report.Successes), len(report.Errors))
	return report, nil
}

// identifierFor resolves the identifier for a created notebook: the sidecar
// value when present, otherwise the one the stage generated.
func identifierFor(meta archive.Meta, st *stage.Stage) string {
	if meta.UUID != "" {
		return meta.UUID
	}
	return st.UUID
}

// importEntry runs the per-entry state machine. It returns either a success
// or a message describing why the entry was skipped; the stage allocated for
// the entry is discarded on every exit path.
func (s *Service) importEntry(ctx context.Context, actingUser *identity.User, metadata map[string]archive.Meta, entry archive.Entry, opts ImportOptions) (*Success, string) {
	key := archive.Key(entry.Name)
	meta, ok := metadata[key]
	if !ok {
		return nil, fmt.Sprintf("metadata missing for %s (%s)", key, entry.Name)
	}

	if meta.OwnerKind == "" {
		return nil, "owner kind missing for " + entry.Name
	}
	owner, err := s.resolver.ResolveOwner(ctx, meta.Owner, identity.OwnerKind(meta.OwnerKind))
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrUnknownKind):
			return nil, "owner kind invalid for " + entry.Name
		case errors.Is(err, identity.ErrNotFound):
			return nil, "owner missing for " + entry.Name
		default:
			return nil, fmt.Sprintf("owner lookup failed for %s: %v", entry.Name, err)
		}
	}
	// creator/updater are optional; absence is not an error
	creator, err := s.resolver.ResolveUser(ctx, meta.Creator)
	if err != nil {
		return nil, fmt.Sprintf("creator lookup failed for %s: %v", entry.Name, err)
	}
	updater, err := s.resolver.ResolveUser(ctx, meta.Updater)
	if err != nil {
		return nil, fmt.Sprintf("updater lookup failed for %s: %v", entry.Name, err)
	}

	jn, err := jupyter.Parse(entry.Content)
	if err != nil {
		return nil, fmt.Sprintf("unable to parse notebook %s: %v", entry.Name, err)
	}
	jn.StripOutput()
	jn.StripGalleryMeta()
	normalized, err := jn.PrettyJSON()
	if err != nil {
		return nil, fmt.Sprintf("unable to serialize notebook %s: %v", entry.Name, err)
	}

	actingName := ""
	if actingUser != nil {
		actingName = actingUser.Name
	}
	st := stage.New(actingName, normalized)
	if err := s.stages.Save(ctx, st); err != nil {
		return nil, "unable to stage notebook " + entry.Name
	}
	// the stage never outlives its entry's processing, success or not
	defer func() {
		if err := s.stages.Discard(ctx, st.UUID); err != nil {
			logger.Warnf("import: discard stage %s: %v", st.UUID, err)
		}
	}()

	var nb *notebook.Notebook
	var oldContent []byte
	isNew := false
	existing, err := s.notebooks.FindByOwnerTitle(ctx, owner.Key(), meta.Title)
	switch {
	case err == nil:
		nb = existing
		if meta.UUID == "" {
			return nil, "a notebook with that title and owner already exists and the uuid was not specified, will not overwrite " + entry.Name
		}
		if meta.UUID != nb.UUID {
			return nil, "uuid mismatch for existing notebook, will not overwrite " + entry.Name
		}
		if meta.Updated != nil && meta.Updated.Day().Before(archive.DayOf(nb.UpdatedAt)) {
			return nil, "stale update, not applied " + entry.Name
		}
		if data, err := s.contents.Get(ctx, nb.ContentID); err == nil {
			oldContent = data
		}
	case errors.Is(err, repository.ErrNotFound):
		isNew = true
		nb = &notebook.Notebook{
			UUID:    identifierFor(meta, st),
			Title:   notebook.GroomTitle(meta.Title),
			Owner:   owner,
			Creator: creator,
			Public:  opts.DefaultVisibility,
		}
		if meta.Public != nil {
			nb.Public = *meta.Public
		}
	default:
		return nil, fmt.Sprintf("lookup failed for %s: %v", entry.Name, err)
	}

	// common finishing steps for either branch
	nb.Lang, nb.LangVersion = jn.Language()
	if meta.Description != "" {
		nb.Description = meta.Description
	}
	if updater != nil {
		nb.Updater = updater
	}
	if len(meta.Tags) > 0 {
		nb.Tags = meta.Tags
	}
	now := time.Now().UTC()
	if isNew {
		nb.CreatedAt = now
	}
	nb.UpdatedAt = now
	if meta.Created != nil {
		nb.CreatedAt = meta.Created.Day()
	}
	if meta.Updated != nil {
		nb.UpdatedAt = meta.Updated.Day()
	}

	// content-level constraints, then record-level constraints; nothing is
	// committed when either fails
	if causes := jn.Validate(); len(causes) > 0 {
		bad := &notebook.BadUploadError{Message: "bad content in " + entry.Name, Causes: causes}
		return nil, bad.Error()
	}
	if verr := nb.Validate(); verr != nil {
		return nil, verr.Error() + " in " + entry.Name
	}

	nb.CommitID = st.UUID
	nb.ContentID = nb.UUID
	if err := s.contents.Put(ctx, nb.ContentID, st.Content); err != nil {
		return nil, fmt.Sprintf("failed to store content for %s: %v", entry.Name, err)
	}

	if err := s.notebooks.Save(ctx, nb); err != nil {
		// both validations passed, so we don't expect to land here; roll the
		// committed content back before reporting. On the update branch the
		// pre-update fetch may have failed, so only a created notebook's
		// content is removed outright.
		if isNew {
			s.contents.Remove(ctx, nb.ContentID)
		} else if oldContent != nil {
			s.contents.Put(ctx, nb.ContentID, oldContent)
		}
		return nil, fmt.Sprintf("failed to save %s: %v", entry.Name, err)
	}

	updaterName := ""
	if updater != nil {
		updaterName = updater.Name
	}
	var rev *revision.Revision
	action := "updated"
	if isNew {
		action = "created"
		rev, err = s.ledger.RecordCreation(ctx, nb, updaterName, s.commitMsg)
	} else {
		kind := revision.KindContent
		if oldContent != nil && bytes.Equal(st.Content, oldContent) {
			kind = revision.KindMetadata
		}
		rev, err = s.ledger.RecordUpdate(ctx, nb, updaterName, s.commitMsg, kind)
	}
	if err != nil {
		return nil, fmt.Sprintf("failed to record revision for %s: %v", entry.Name, err)
	}
	if meta.Updated != nil {
		if err := s.ledger.OverrideTimestamps(ctx, rev, meta.Updated.Day()); err != nil {
			logger.Warnf("import: override revision timestamps for %s: %v", nb.UUID, err)
		}
	}
	if updater != nil {
		if err := s.signals.RegisterUpload(ctx, nb.UUID, updater.Name); err != nil {
			logger.Warnf("import: register affinity for %s: %v", nb.UUID, err)
		}
		if err := s.threads.Subscribe(ctx, nb.UUID, updater.Name); err != nil {
			logger.Warnf("import: subscribe %s to %s: %v", updater.Name, nb.UUID, err)
		}
	}

	return &Success{Title: nb.Title, Locator: "/notebooks/" + nb.UUID, Action: action}, ""
}
