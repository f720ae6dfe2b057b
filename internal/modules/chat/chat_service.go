package chat

import (
	"context"
	"fmt"

	"growshare/internal/models"
)

// FarmerLookup resolves the farmer profile ID that owns a user account.
type FarmerLookup interface {
	FindProfileIDByUserID(ctx context.Context, userID string) (string, error)
}

// ServiceInterface defines business logic for the farmer↔admin support chat.
type ServiceInterface interface {
	// SendMessage posts a message into a farmer's thread. Farmers may only
	// post into their own thread; admins address any farmer by ID.
	SendMessage(ctx context.Context, senderID, senderRole, farmerID, body string) (*models.Message, error)
	ListThread(ctx context.Context, requesterID, requesterRole, farmerID string, page, limit int) ([]*models.Message, error)
	ListConversations(ctx context.Context) ([]*models.Conversation, error)
	// ResolveThread maps the requester onto the thread they may join and
	// returns the farmer profile ID, or ErrForbidden.
	ResolveThread(ctx context.Context, requesterID, requesterRole, farmerID string) (string, error)
}

type Service struct {
	repo    RepositoryInterface
	farmers FarmerLookup
	hub     *Hub
}

func NewService(repo RepositoryInterface, farmers FarmerLookup, hub *Hub) ServiceInterface {
	return &Service{repo: repo, farmers: farmers, hub: hub}
}

func (s *Service) ResolveThread(ctx context.Context, requesterID, requesterRole, farmerID string) (string, error) {
	switch requesterRole {
	case models.RoleAdmin:
		if farmerID == "" {
			return "", models.ErrValidation
		}
		return farmerID, nil
	case models.RoleFarmer:
		profileID, err := s.farmers.FindProfileIDByUserID(ctx, requesterID)
		if err != nil {
			return "", fmt.Errorf("service.ResolveThread: %w", err)
		}
		// Farmers are pinned to their own thread regardless of the ID they ask for.
		if farmerID != "" && farmerID != profileID {
			return "", models.ErrForbidden
		}
		return profileID, nil
	default:
		return "", models.ErrForbidden
	}
}

func (s *Service) SendMessage(ctx context.Context, senderID, senderRole, farmerID, body string) (*models.Message, error) {
	threadID, err := s.ResolveThread(ctx, senderID, senderRole, farmerID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		SenderID:   senderID,
		FarmerID:   threadID,
		SenderRole: senderRole,
		Body:       body,
	}
	saved, err := s.repo.InsertMessage(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("service.SendMessage: %w", err)
	}

	s.hub.Broadcast(saved)
	return saved, nil
}

func (s *Service) ListThread(ctx context.Context, requesterID, requesterRole, farmerID string, page, limit int) ([]*models.Message, error) {
	threadID, err := s.ResolveThread(ctx, requesterID, requesterRole, farmerID)
	if err != nil {
		return nil, err
	}

	messages, err := s.repo.ListByFarmer(ctx, threadID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("service.ListThread: %w", err)
	}

	// Opening the thread marks the other side's messages as read.
	if err := s.repo.MarkRead(ctx, threadID, requesterRole); err != nil {
		return nil, fmt.Errorf("service.ListThread.MarkRead: %w", err)
	}
	return messages, nil
}

func (s *Service) ListConversations(ctx context.Context) ([]*models.Conversation, error) {
	conversations, err := s.repo.ListConversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ListConversations: %w", err)
	}
	return conversations, nil
}
