package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hylla/datefield/internal/domain"
)

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Service represents service data used by this package.
type Service struct {
	repo  Repository
	idGen IDGenerator
	clock Clock
}

// NewService constructs a new value for this package.
func NewService(repo Repository, idGen IDGenerator, clock Clock) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		repo:  repo,
		idGen: idGen,
		clock: clock,
	}
}

// Submit persists values captured earlier from the named form. The form name
// is checked before an id is drawn.
func (s *Service) Submit(ctx context.Context, formName string, values []domain.FieldValue) (domain.Submission, error) {
	formName = strings.TrimSpace(formName)
	if formName == "" {
		return domain.Submission{}, fmt.Errorf("build submission: %w", domain.ErrInvalidName)
	}
	submission, err := domain.NewSubmission(s.idGen(), formName, values, s.clock())
	if err != nil {
		return domain.Submission{}, fmt.Errorf("build submission: %w", err)
	}
	if err := s.repo.CreateSubmission(ctx, submission); err != nil {
		return domain.Submission{}, fmt.Errorf("persist submission: %w", err)
	}
	return submission, nil
}

// GetSubmission returns one submission by id.
func (s *Service) GetSubmission(ctx context.Context, id string) (domain.Submission, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Submission{}, domain.ErrInvalidID
	}
	return s.repo.GetSubmission(ctx, id)
}

// ListSubmissions lists submissions newest first.
func (s *Service) ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]domain.Submission, error) {
	if filter.Limit < 0 {
		return nil, ErrInvalidLimit
	}
	filter.FormName = strings.TrimSpace(filter.FormName)
	return s.repo.ListSubmissions(ctx, filter)
}

// LatestValues returns the most recent submission for formName, if any.
func (s *Service) LatestValues(ctx context.Context, formName string) (domain.Submission, bool, error) {
	subs, err := s.ListSubmissions(ctx, SubmissionFilter{FormName: formName, Limit: 1})
	if err != nil {
		return domain.Submission{}, false, err
	}
	if len(subs) == 0 {
		return domain.Submission{}, false, nil
	}
	return subs[0], true, nil
}
