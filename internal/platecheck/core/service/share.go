package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/autopeer-io/platecheck/internal/platecheck/core/gating"
	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
	"github.com/autopeer-io/platecheck/pkg/log"
)

// ErrSharingDisabled is returned by Share when no archive is configured.
var ErrSharingDisabled = errors.New("report sharing is not configured")

// Share resolves a report, gates it for tier and stores the presentation.
// It returns a temporary download URL for the snapshot.
func (s *Service) Share(ctx context.Context, input string, tier model.Tier) (string, error) {
	if s.archive == nil {
		return "", ErrSharingDisabled
	}

	report, err := s.Resolve(ctx, input, tier)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(gating.Present(report, tier))
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	key := fmt.Sprintf("reports/%s/%s/%s.json", report.Registration, tier, uuid.NewString())
	if err := s.archive.Put(ctx, key, body, "application/json"); err != nil {
		return "", fmt.Errorf("failed to archive report: %w", err)
	}

	url, err := s.archive.GeneratePresignedURL(ctx, key, s.shareExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to generate share URL: %w", err)
	}

	log.FromContext(ctx).Info("Report shared", "registration", report.Registration, "tier", tier, "key", key)
	return url, nil
}
