package app

import (
	"context"

	"github.com/hylla/datefield/internal/domain"
)

// Repository represents repository data used by this package.
type Repository interface {
	CreateSubmission(context.Context, domain.Submission) error
	GetSubmission(context.Context, string) (domain.Submission, error)
	ListSubmissions(context.Context, SubmissionFilter) ([]domain.Submission, error)
}

// SubmissionFilter narrows submission listings; zero values mean "all".
type SubmissionFilter struct {
	FormName string
	Limit    int
}
