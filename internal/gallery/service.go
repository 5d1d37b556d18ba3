// Package gallery implements the batch import/export plane: reconciling
// archived notebooks against the store and serializing the store back into an
// archive the import path accepts.
package gallery

import (
	"errors"

	"github.com/nbhive/nbhive/internal/content"
	"github.com/nbhive/nbhive/internal/discussion"
	"github.com/nbhive/nbhive/internal/identity"
	"github.com/nbhive/nbhive/internal/notebook/repository"
	"github.com/nbhive/nbhive/internal/recommend"
	"github.com/nbhive/nbhive/internal/revision"
	"github.com/nbhive/nbhive/internal/stage"
)

// ErrNothingToExport is returned when no public notebook is eligible for
// export.
var ErrNothingToExport = errors.New("no notebooks found")

// Service wires the import/export engine to its collaborators.
type Service struct {
	notebooks repository.Repository
	resolver  *identity.Resolver
	stages    stage.Store
	contents  content.Store
	ledger    revision.Ledger
	signals   recommend.Signals
	threads   discussion.Threads
	commitMsg string
}

func NewService(
	notebooks repository.Repository,
	resolver *identity.Resolver,
	stages stage.Store,
	contents content.Store,
	ledger revision.Ledger,
	signals recommend.Signals,
	threads discussion.Threads,
	commitMsg string,
) *Service {
	if commitMsg == "" {
		commitMsg = "Notebook imported by administrator"
	}
	return &Service{
		notebooks: notebooks,
		resolver:  resolver,
		stages:    stages,
		contents:  contents,
		ledger:    ledger,
		signals:   signals,
		threads:   threads,
		commitMsg: commitMsg,
	}
}

// Notebooks exposes the backing repository for the read-side handlers.
func (s *Service) Notebooks() repository.Repository { return s.notebooks }

// Contents exposes the committed content store for the read-side handlers.
func (s *Service) Contents() content.Store { return s.contents }
