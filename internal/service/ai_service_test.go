package service

import (
	"major_compass_backend/internal/config"
	"major_compass_backend/pkg/logger"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGradeEssayFallsBackWhenRemoteUnavailable(t *testing.T) {
	logger.Log = zap.NewNop()
	s := NewAIService(config.AIConfig{BaseURL: "http://127.0.0.1:1", Model: "test"})

	result := s.GradeEssay("为什么选择计算机专业？", strings.Repeat("因为 我 喜欢 编程 ", 10))

	assert.True(t, result.Fallback)
	assert.GreaterOrEqual(t, result.Score, 40)
	assert.LessOrEqual(t, result.Score, 85)
	assert.NotEmpty(t, result.Feedback)
}

func TestGradeEssayFallsBackOnUnparsableResponse(t *testing.T) {
	logger.Log = zap.NewNop()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"这不是 JSON"}}]}`))
	}))
	defer srv.Close()

	s := NewAIService(config.AIConfig{BaseURL: srv.URL, Model: "test"})
	result := s.GradeEssay("题目", "回答")

	assert.True(t, result.Fallback)
}

func TestGradeEssayParsesStructuredResponse(t *testing.T) {
	logger.Log = zap.NewNop()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant",` +
			`"content":"` + "```json\\n{\\\"score\\\":88,\\\"feedback\\\":\\\"思路清晰\\\",\\\"strengths\\\":[\\\"结构完整\\\"]}\\n```" + `"}}]}`))
	}))
	defer srv.Close()

	s := NewAIService(config.AIConfig{BaseURL: srv.URL, Model: "test"})
	result := s.GradeEssay("题目", "回答")

	assert.False(t, result.Fallback)
	assert.Equal(t, 88, result.Score)
	assert.Equal(t, "思路清晰", result.Feedback)
	assert.Equal(t, []string{"结构完整"}, result.Strengths)
}

func TestHeuristicGradeBounds(t *testing.T) {
	empty := heuristicGrade("")
	assert.Equal(t, 0, empty.Score)
	assert.True(t, empty.Fallback)

	long := heuristicGrade(strings.Repeat("word ", 500))
	assert.Equal(t, 85, long.Score)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("{\"a\":1}"))
}
