package chat

import (
	"context"
	"errors"
	"fmt"

	"growshare/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface declares database operations for support messages.
type RepositoryInterface interface {
	InsertMessage(ctx context.Context, msg *models.Message) (*models.Message, error)
	ListByFarmer(ctx context.Context, farmerID string, page, limit int) ([]*models.Message, error)
	// MarkRead stamps read_at on all messages in the farmer's thread that were
	// sent by the other side and are still unread.
	MarkRead(ctx context.Context, farmerID, readerRole string) error
	ListConversations(ctx context.Context) ([]*models.Conversation, error)
}

// Repository is a PostgreSQL implementation of RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new chat repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func (r *Repository) InsertMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	query := `
		INSERT INTO messages (sender_id, farmer_id, sender_role, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, msg.SenderID, msg.FarmerID, msg.SenderRole, msg.Body).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("repository.InsertMessage: %w", err)
	}
	return msg, nil
}

func (r *Repository) ListByFarmer(ctx context.Context, farmerID string, page, limit int) ([]*models.Message, error) {
	offset := (page - 1) * limit
	query := `
		SELECT id, sender_id, farmer_id, sender_role, body, read_at, created_at
		FROM messages
		WHERE farmer_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, farmerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("repository.ListByFarmer: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.SenderID, &m.FarmerID, &m.SenderRole, &m.Body, &m.ReadAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository.ListByFarmer.Scan: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.ListByFarmer.Rows: %w", err)
	}
	return messages, nil
}

func (r *Repository) MarkRead(ctx context.Context, farmerID, readerRole string) error {
	query := `
		UPDATE messages
		SET read_at = NOW()
		WHERE farmer_id = $1 AND sender_role <> $2 AND read_at IS NULL`
	if _, err := r.db.Exec(ctx, query, farmerID, readerRole); err != nil {
		return fmt.Errorf("repository.MarkRead: %w", err)
	}
	return nil
}

func (r *Repository) ListConversations(ctx context.Context) ([]*models.Conversation, error) {
	query := `
		SELECT m.farmer_id,
		       fp.farm_name,
		       (SELECT body FROM messages lm
		        WHERE lm.farmer_id = m.farmer_id
		        ORDER BY lm.created_at DESC LIMIT 1) AS last_message,
		       MAX(m.created_at) AS last_message_at,
		       COUNT(*) FILTER (WHERE m.sender_role = 'farmer' AND m.read_at IS NULL) AS unread_count
		FROM messages m
		JOIN farmer_profiles fp ON fp.id = m.farmer_id
		GROUP BY m.farmer_id, fp.farm_name
		ORDER BY last_message_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository.ListConversations: %w", err)
	}
	defer rows.Close()

	var conversations []*models.Conversation
	for rows.Next() {
		cv := &models.Conversation{}
		if err := rows.Scan(&cv.FarmerID, &cv.FarmName, &cv.LastMessage, &cv.LastMessageAt, &cv.UnreadCount); err != nil {
			return nil, fmt.Errorf("repository.ListConversations.Scan: %w", err)
		}
		conversations = append(conversations, cv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.ListConversations.Rows: %w", err)
	}
	return conversations, nil
}
