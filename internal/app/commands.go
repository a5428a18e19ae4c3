package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ModerationService handles approve/reject decisions. The reference data
// set is a read-only snapshot, so there is no row to update yet; the
// decision is validated, logged and acknowledged so a persistent backend
// can slot in behind the same call later.
type ModerationService struct{}

func NewModerationService() *ModerationService { return &ModerationService{} }

func (s *ModerationService) SetApproval(ctx context.Context, reviewID int64, approved bool) (string, error) {
	if reviewID <= 0 {
		return "", fmt.Errorf("invalid review id %d", reviewID)
	}
	verb := "rejected"
	if approved {
		verb = "approved"
	}
	log.Info().Int64("review_id", reviewID).Bool("approved", approved).Msg("moderation decision")
	return fmt.Sprintf("Review %d %s successfully", reviewID, verb), nil
}
