package model

// ChatSession AI 助手会话
type ChatSession struct {
	UUIDBase
	UserID   uint          `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Title    string        `gorm:"size:255" json:"title"`
	Messages []ChatMessage `gorm:"foreignKey:SessionID" json:"messages,omitempty"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

// ChatMessage 会话内单条消息，Role 为 user/assistant
type ChatMessage struct {
	BaseModel
	SessionID string `gorm:"index;type:varchar(36);not null" json:"sessionId"`
	Role      string `gorm:"size:20;not null" json:"role"`
	Content   string `gorm:"type:text" json:"content"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
