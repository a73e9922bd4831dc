package repository

import (
	"major_compass_backend/internal/model"

	"gorm.io/gorm"
)

type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

func (r *ChatRepository) CreateSession(session *model.ChatSession) error {
	return r.DB.Create(session).Error
}

func (r *ChatRepository) FindSessionsByUser(userID uint) ([]model.ChatSession, error) {
	var sessions []model.ChatSession
	err := r.DB.Where("user_id = ?", userID).Order("updated_at DESC").Find(&sessions).Error
	return sessions, err
}

func (r *ChatRepository) FindSessionByID(sessionID string, userID uint) (*model.ChatSession, error) {
	var session model.ChatSession
	err := r.DB.
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("chat_messages.created_at")
		}).
		Where("id = ? AND user_id = ?", sessionID, userID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *ChatRepository) AppendMessage(message *model.ChatMessage) error {
	return r.DB.Create(message).Error
}

func (r *ChatRepository) DeleteSession(sessionID string, userID uint) error {
	return r.DB.Where("id = ? AND user_id = ?", sessionID, userID).Delete(&model.ChatSession{}).Error
}
