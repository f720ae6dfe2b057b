package advisor

import (
	"context"
	"fmt"
	"log"

	"growshare/internal/models"
	"growshare/pkg/llm"
)

// StatsProvider supplies the aggregate snapshot folded into advisory prompts
// when the caller did not send their own context.
type StatsProvider interface {
	GetPlatformStats(ctx context.Context) (*models.PlatformStats, error)
}

// ServiceInterface defines business logic for the AI advisory relay.
type ServiceInterface interface {
	Chat(ctx context.Context, role string, req models.AdvisorRequest) (*models.AdvisorResponse, error)
}

type Service struct {
	client llm.Client
	stats  StatsProvider
}

func NewService(client llm.Client, stats StatsProvider) ServiceInterface {
	return &Service{client: client, stats: stats}
}

// Chat relays a conversation to the LLM gateway with the type-specific
// system prompt prepended. The farmer and admin chat types are restricted to
// those roles.
func (s *Service) Chat(ctx context.Context, role string, req models.AdvisorRequest) (*models.AdvisorResponse, error) {
	switch req.Type {
	case TypeFarmer:
		if role != models.RoleFarmer && role != models.RoleAdmin {
			return nil, models.ErrForbidden
		}
	case TypeAdmin:
		if role != models.RoleAdmin {
			return nil, models.ErrForbidden
		}
	}

	chatCtx := req.Context
	if chatCtx == nil && (req.Type == TypeTrending || req.Type == TypeFarmer || req.Type == TypeAdmin) {
		stats, err := s.stats.GetPlatformStats(ctx)
		if err != nil {
			// Stats are best effort; the chat still works without them.
			log.Printf("advisor: failed to load platform stats: %v", err)
		} else {
			chatCtx = map[string]any{
				"total_orders":       stats.TotalOrders,
				"orders_by_status":   stats.OrdersByStatus,
				"popular_vegetables": stats.PopularVegetables,
			}
			if req.Type == TypeAdmin {
				chatCtx["total_users"] = stats.TotalUsers
				chatCtx["total_farmers"] = stats.TotalFarmers
				chatCtx["total_revenue"] = stats.TotalRevenue
			}
		}
	}

	messages := make([]llm.Message, 0, len(req.Messages)+1)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt(req.Type, chatCtx)})
	for _, m := range req.Messages {
		if m.Role == "system" {
			// The system prompt is ours; client-supplied system turns are dropped.
			continue
		}
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}

	reply, err := s.client.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("service.Chat: %w", err)
	}
	return &models.AdvisorResponse{Reply: reply}, nil
}
