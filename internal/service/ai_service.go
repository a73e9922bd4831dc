package service

import (
	"encoding/json"
	"fmt"
	"io"
	"major_compass_backend/internal/config"
	"major_compass_backend/pkg/logger"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{},
	}
}

// UpdateConfig 配置热更新时替换密钥与模型，已发出的请求不受影响
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.config = cfg
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const advisorSystemPrompt = "你是一个专业的升学与专业选择顾问，请结合学生的学习路线和兴趣回答问题。" +
	"严禁回答任何政治、色情、暴力或与专业探索、学习规划无关的问题，超出范围时请礼貌拒绝并引导回学习话题。"

func (s *AIService) complete(messages []AIChatMessage) (string, error) {
	reqBody := ChatCompletionRequest{
		Model:    s.config.Model,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", s.config.BaseURL+"/chat/completions", strings.NewReader(string(jsonData)))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("AI returned no choices")
}

// Chat 单轮问答，history 用于多轮上下文
func (s *AIService) Chat(prompt string, history []AIChatMessage) (string, error) {
	messages := []AIChatMessage{{Role: "system", Content: advisorSystemPrompt}}

	for _, h := range history {
		messages = append(messages, AIChatMessage{Role: h.Role, Content: h.Content})
	}

	messages = append(messages, AIChatMessage{Role: "user", Content: prompt})

	return s.complete(messages)
}

// GradeResult 结构化评分结果
// swagger:model GradeResult
type GradeResult struct {
	Score        int      `json:"score"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths,omitempty"`
	Improvements []string `json:"improvements,omitempty"`
	Fallback     bool     `json:"fallback"`
}

// GradeEssay 请求远端按固定 JSON 结构评分
// 远端失败时必须给出本地兜底结果（按字数估分），不把错误抛给调用方
func (s *AIService) GradeEssay(question, answer string) *GradeResult {
	schemaPrompt := "你是一个学习测评助手。请针对学生的回答评分，只输出一个 JSON 对象，不要输出其他文字。" +
		"结构为：{\"score\": 0到100的整数, \"feedback\": \"一句话总评\", " +
		"\"strengths\": [\"优点\"], \"improvements\": [\"改进建议\"]}"

	messages := []AIChatMessage{
		{Role: "system", Content: schemaPrompt},
		{Role: "user", Content: fmt.Sprintf("题目：%s\n\n学生回答：%s", question, answer)},
	}

	content, err := s.complete(messages)
	if err != nil {
		logger.Log.Warn("AI grading failed, using heuristic fallback", zap.Error(err))
		return heuristicGrade(answer)
	}

	var result GradeResult
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &result); err != nil {
		logger.Log.Warn("AI grading returned unparsable JSON, using heuristic fallback", zap.Error(err))
		return heuristicGrade(answer)
	}

	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 100 {
		result.Score = 100
	}
	return &result
}

// stripCodeFence 去掉模型偶尔包裹的 markdown 代码块
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}

// heuristicGrade 按字数估分的本地兜底
func heuristicGrade(answer string) *GradeResult {
	words := len(strings.Fields(answer))

	score := 40 + words/25*5
	if words == 0 {
		score = 0
	}
	if score > 85 {
		score = 85
	}

	return &GradeResult{
		Score:    score,
		Feedback: "AI 评分暂不可用，以下为根据回答长度估算的参考分",
		Fallback: true,
	}
}
