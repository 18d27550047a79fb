package service

import (
	"context"
	"fmt"

	"bidcheck/internal/domain"
	"bidcheck/internal/port"
)

// GenerationService relays audit requests to the AI provider for callers who
// still hold an entitlement.
type GenerationService interface {
	Generate(ctx context.Context, userID string, body []byte) (*port.ForwardResult, error)
}

type generationService struct {
	forwarder    port.GenerationForwarder
	entitlements EntitlementService
}

// NewGenerationService creates a new GenerationService.
func NewGenerationService(forwarder port.GenerationForwarder, entitlements EntitlementService) GenerationService {
	return &generationService{forwarder: forwarder, entitlements: entitlements}
}

func (s *generationService) Generate(ctx context.Context, userID string, body []byte) (*port.ForwardResult, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: request body is empty", domain.ErrInvalidInput)
	}
	status, err := s.entitlements.Status(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !status.Allowed {
		return nil, domain.ErrEntitlementExhausted
	}
	return s.forwarder.Forward(ctx, body)
}
