package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hylla/datefield/internal/domain"
)

// SnapshotVersion defines a package constant value.
const SnapshotVersion = "datefield.snapshot.v1"

// Snapshot represents snapshot data used by this package.
type Snapshot struct {
	Version     string               `json:"version"`
	ExportedAt  time.Time            `json:"exported_at"`
	Submissions []SnapshotSubmission `json:"submissions"`
}

// SnapshotSubmission represents snapshot submission data used by this package.
type SnapshotSubmission struct {
	ID          string              `json:"id"`
	FormName    string              `json:"form_name"`
	Values      []domain.FieldValue `json:"values"`
	SubmittedAt time.Time           `json:"submitted_at"`
}

// ExportSnapshot handles export snapshot.
func (s *Service) ExportSnapshot(ctx context.Context, formName string) (Snapshot, error) {
	subs, err := s.ListSubmissions(ctx, SubmissionFilter{FormName: formName})
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{
		Version:     SnapshotVersion,
		ExportedAt:  s.clock().UTC(),
		Submissions: make([]SnapshotSubmission, 0, len(subs)),
	}
	for _, sub := range subs {
		snap.Submissions = append(snap.Submissions, snapshotSubmissionFromDomain(sub))
	}
	snap.sort()
	return snap, nil
}

// ImportSnapshot inserts submissions that are not already stored. Existing ids are skipped.
func (s *Service) ImportSnapshot(ctx context.Context, snap Snapshot) (int, error) {
	if err := snap.Validate(); err != nil {
		return 0, err
	}
	snap.sort()

	imported := 0
	for _, item := range snap.Submissions {
		sub, err := item.toDomain()
		if err != nil {
			return imported, err
		}
		if _, err := s.repo.GetSubmission(ctx, sub.ID); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return imported, err
		}
		if err := s.repo.CreateSubmission(ctx, sub); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

// Validate validates the requested operation.
func (s *Snapshot) Validate() error {
	if s.Version != "" && s.Version != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version: %q", s.Version)
	}
	ids := map[string]struct{}{}
	for i, sub := range s.Submissions {
		id := strings.TrimSpace(sub.ID)
		if id == "" {
			return fmt.Errorf("submissions[%d].id is required", i)
		}
		if strings.TrimSpace(sub.FormName) == "" {
			return fmt.Errorf("submissions[%d].form_name is required", i)
		}
		if sub.SubmittedAt.IsZero() {
			return fmt.Errorf("submissions[%d].submitted_at is required", i)
		}
		if _, exists := ids[id]; exists {
			return fmt.Errorf("duplicate submission id: %q", id)
		}
		ids[id] = struct{}{}
	}
	return nil
}

func (s *Snapshot) sort() {
	sort.Slice(s.Submissions, func(i, j int) bool {
		a := s.Submissions[i]
		b := s.Submissions[j]
		if a.SubmittedAt.Equal(b.SubmittedAt) {
			return a.ID < b.ID
		}
		return a.SubmittedAt.Before(b.SubmittedAt)
	})
}

func snapshotSubmissionFromDomain(sub domain.Submission) SnapshotSubmission {
	return SnapshotSubmission{
		ID:          sub.ID,
		FormName:    sub.FormName,
		Values:      append([]domain.FieldValue(nil), sub.Values...),
		SubmittedAt: sub.SubmittedAt.UTC(),
	}
}

func (s SnapshotSubmission) toDomain() (domain.Submission, error) {
	sub, err := domain.NewSubmission(s.ID, s.FormName, s.Values, s.SubmittedAt)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("snapshot submission %q: %w", s.ID, err)
	}
	return sub, nil
}
