package service

import (
	"major_compass_backend/internal/model"
	"major_compass_backend/internal/repository"
	"major_compass_backend/internal/util"

	"gorm.io/gorm"
)

// ChatService AI 助手会话与历史记录
type ChatService struct {
	ChatRepo *repository.ChatRepository
	AI       *AIService
}

func NewChatService(chatRepo *repository.ChatRepository, ai *AIService) *ChatService {
	return &ChatService{
		ChatRepo: chatRepo,
		AI:       ai,
	}
}

type ChatAnswer struct {
	SessionID string `json:"sessionId"`
	Content   string `json:"content"`
}

// Ask 提问；sessionID 为空时新建会话，否则带上该会话历史继续多轮对话
func (s *ChatService) Ask(userID uint, sessionID, prompt string) (*ChatAnswer, error) {
	var session *model.ChatSession
	var history []AIChatMessage

	if sessionID == "" {
		session = &model.ChatSession{
			UserID: userID,
			Title:  sessionTitle(prompt),
		}
		if err := s.ChatRepo.CreateSession(session); err != nil {
			return nil, err
		}
	} else {
		var err error
		session, err = s.ChatRepo.FindSessionByID(sessionID, userID)
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSessionNotFound
		}
		if err != nil {
			return nil, err
		}
		for _, m := range session.Messages {
			history = append(history, AIChatMessage{Role: m.Role, Content: m.Content})
		}
	}

	if err := s.ChatRepo.AppendMessage(&model.ChatMessage{
		SessionID: session.ID,
		Role:      "user",
		Content:   prompt,
	}); err != nil {
		return nil, err
	}

	content, err := s.AI.Chat(prompt, history)
	if err != nil {
		return nil, err
	}

	if err := s.ChatRepo.AppendMessage(&model.ChatMessage{
		SessionID: session.ID,
		Role:      "assistant",
		Content:   content,
	}); err != nil {
		return nil, err
	}

	return &ChatAnswer{SessionID: session.ID, Content: content}, nil
}

func (s *ChatService) GetSessions(userID uint) ([]model.ChatSession, error) {
	return s.ChatRepo.FindSessionsByUser(userID)
}

func (s *ChatService) GetSessionDetail(sessionID string, userID uint) (*model.ChatSession, error) {
	session, err := s.ChatRepo.FindSessionByID(sessionID, userID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrSessionNotFound
	}
	return session, err
}

func (s *ChatService) DeleteSession(sessionID string, userID uint) error {
	return s.ChatRepo.DeleteSession(sessionID, userID)
}

// sessionTitle 取首问前若干字符作为会话标题
func sessionTitle(prompt string) string {
	runes := []rune(prompt)
	if len(runes) > 30 {
		return string(runes[:30])
	}
	return prompt
}
