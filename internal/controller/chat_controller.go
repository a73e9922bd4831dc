package controller

import (
	"errors"
	"major_compass_backend/internal/service"
	"major_compass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	ChatService *service.ChatService
	AIService   *service.AIService
}

func NewChatController(chatService *service.ChatService, aiService *service.AIService) *ChatController {
	return &ChatController{
		ChatService: chatService,
		AIService:   aiService,
	}
}

// AskRequest 提问请求
type AskRequest struct {
	SessionID string `json:"sessionId"`
	Prompt    string `json:"prompt" binding:"required"`
}

// Ask godoc
// @Summary AI 助手提问
// @Description sessionId 为空时新建会话；否则携带会话历史进行多轮对话
// @Tags AI助手
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body AskRequest true "提问内容"
// @Success 200 {object} util.Response{data=service.ChatAnswer} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未登录"
// @Failure 404 {object} util.Response "会话不存在"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/chat/ask [post]
func (c *ChatController) Ask(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.ChatService.Ask(claims.UserID, req.SessionID, req.Prompt)
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, answer)
}

// GetSessions godoc
// @Summary 获取会话列表
// @Tags AI助手
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.ChatSession} "成功"
// @Failure 401 {object} util.Response "未登录"
// @Router /api/chat/sessions [get]
func (c *ChatController) GetSessions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	sessions, err := c.ChatService.GetSessions(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sessions)
}

// GetSessionDetail godoc
// @Summary 获取会话历史
// @Tags AI助手
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "会话 ID"
// @Success 200 {object} util.Response{data=model.ChatSession} "成功"
// @Failure 401 {object} util.Response "未登录"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/chat/sessions/{id} [get]
func (c *ChatController) GetSessionDetail(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.ChatService.GetSessionDetail(ctx.Param("id"), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, session)
}

// DeleteSession godoc
// @Summary 删除会话
// @Tags AI助手
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "会话 ID"
// @Success 200 {object} util.Response "成功"
// @Failure 401 {object} util.Response "未登录"
// @Router /api/chat/sessions/{id} [delete]
func (c *ChatController) DeleteSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ChatService.DeleteSession(ctx.Param("id"), claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GradeRequest 测评主观题评分请求
type GradeRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// Grade godoc
// @Summary 主观题 AI 评分
// @Description 调用 AI 按固定 JSON 结构评分；远端不可用时返回按字数估算的兜底结果（fallback=true）
// @Tags AI助手
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body GradeRequest true "题目与回答"
// @Success 200 {object} util.Response{data=service.GradeResult} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未登录"
// @Router /api/chat/grade [post]
func (c *ChatController) Grade(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, c.AIService.GradeEssay(req.Question, req.Answer))
}
