package service

import (
	"encoding/json"
	"fmt"
	"major_compass_backend/internal/config"
	"major_compass_backend/internal/model"
	"major_compass_backend/internal/repository"
	"major_compass_backend/internal/util"
	"major_compass_backend/pkg/logger"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fakeAIServer 回显收到的消息条数，便于校验多轮历史是否带上
func fakeAIServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		reply := fmt.Sprintf("reply to %d messages", len(req.Messages))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"` + reply + `"}}]}`))
	}))
}

func newTestChatService(t *testing.T, baseURL string) *ChatService {
	t.Helper()
	logger.Log = zap.NewNop()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.ChatSession{}, &model.ChatMessage{}))

	ai := NewAIService(config.AIConfig{BaseURL: baseURL, Model: "test"})
	return NewChatService(repository.NewChatRepository(db), ai)
}

func TestAskCreatesSessionAndStoresBothMessages(t *testing.T) {
	srv := fakeAIServer(t)
	defer srv.Close()
	s := newTestChatService(t, srv.URL)

	answer, err := s.Ask(1, "", "计算机专业学什么？")
	require.NoError(t, err)
	assert.NotEmpty(t, answer.SessionID)
	// system + user
	assert.Equal(t, "reply to 2 messages", answer.Content)

	session, err := s.GetSessionDetail(answer.SessionID, 1)
	require.NoError(t, err)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, "user", session.Messages[0].Role)
	assert.Equal(t, "assistant", session.Messages[1].Role)
	assert.Equal(t, "计算机专业学什么？", session.Title)
}

func TestAskContinuesSessionWithHistory(t *testing.T) {
	srv := fakeAIServer(t)
	defer srv.Close()
	s := newTestChatService(t, srv.URL)

	first, err := s.Ask(1, "", "第一问")
	require.NoError(t, err)

	second, err := s.Ask(1, first.SessionID, "第二问")
	require.NoError(t, err)

	// system + 2 条历史 + 新 user
	assert.Equal(t, "reply to 4 messages", second.Content)
	assert.Equal(t, first.SessionID, second.SessionID)

	session, err := s.GetSessionDetail(first.SessionID, 1)
	require.NoError(t, err)
	assert.Len(t, session.Messages, 4)
}

func TestAskRejectsForeignSession(t *testing.T) {
	srv := fakeAIServer(t)
	defer srv.Close()
	s := newTestChatService(t, srv.URL)

	answer, err := s.Ask(1, "", "第一问")
	require.NoError(t, err)

	_, err = s.Ask(2, answer.SessionID, "冒名提问")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestSessionTitleTruncated(t *testing.T) {
	long := strings.Repeat("很长的问题", 20)
	assert.Equal(t, 30, len([]rune(sessionTitle(long))))
	assert.Equal(t, "短问题", sessionTitle("短问题"))
}
