package controller

import (
	"major_compass_backend/internal/model"
	"major_compass_backend/internal/service"
	"major_compass_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type ProgressController struct {
	ProgressService   *service.ProgressService
	CompletionService *service.CompletionService
}

func NewProgressController(progressService *service.ProgressService, completionService *service.CompletionService) *ProgressController {
	return &ProgressController{
		ProgressService:   progressService,
		CompletionService: completionService,
	}
}

// GetProgress godoc
// @Summary 获取进度记录
// @Description 返回当前用户的完整进度记录，首次访问时自动创建
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.ProgressRecord} "成功"
// @Failure 401 {object} util.Response "未登录"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	record, err := c.ProgressService.GetOrInit(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// ExploreMajor godoc
// @Summary 记录专业浏览
// @Description 首次浏览某专业计 25 分，重复浏览不重复计分
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   slug path string true "专业 slug"
// @Success 200 {object} util.Response "成功"
// @Failure 401 {object} util.Response "未登录"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/progress/majors/{slug}/explore [post]
func (c *ProgressController) ExploreMajor(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ProgressService.RecordMajorExplored(claims.UserID, ctx.Param("slug")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ViewRoadmap godoc
// @Summary 记录路线图查看
// @Description 首次查看某路线图计 30 分
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   slug path string true "路线图 slug"
// @Success 200 {object} util.Response "成功"
// @Failure 401 {object} util.Response "未登录"
// @Router /api/progress/roadmaps/{slug}/view [post]
func (c *ProgressController) ViewRoadmap(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ProgressService.RecordRoadmapViewed(claims.UserID, ctx.Param("slug")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// TakeAssessment godoc
// @Summary 记录测评完成
// @Description 首次完成某测评计 50 分
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "测评 ID"
// @Success 200 {object} util.Response "成功"
// @Failure 401 {object} util.Response "未登录"
// @Router /api/progress/assessments/{id}/take [post]
func (c *ProgressController) TakeAssessment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ProgressService.RecordAssessmentTaken(claims.UserID, ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// MajorProgressRequest 专业完成度更新请求
type MajorProgressRequest struct {
	Percent int `json:"percent" binding:"min=0,max=100"`
}

// SetMajorProgress godoc
// @Summary 更新专业完成度
// @Description 无条件覆盖某专业的完成百分比，不计分
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   slug path string true "专业 slug"
// @Param   body body MajorProgressRequest true "完成百分比"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未登录"
// @Router /api/progress/majors/{slug} [put]
func (c *ProgressController) SetMajorProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req MajorProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.SetMajorProgress(claims.UserID, ctx.Param("slug"), req.Percent); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ActivityRequest 自定义活动上报请求
type ActivityRequest struct {
	Action string `json:"action" binding:"required"`
	Type   string `json:"type"`
	Points int    `json:"points" binding:"min=0"`
}

// RecordActivity godoc
// @Summary 上报自定义活动
// @Description 追加一条活动记录，可携带积分
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ActivityRequest true "活动内容"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未登录"
// @Router /api/progress/activities [post]
func (c *ProgressController) RecordActivity(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ActivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	activityType := model.ActivityType(req.Type)
	if activityType == "" {
		activityType = model.ActivityGeneral
	}

	err := c.ProgressService.RecordActivity(claims.UserID, model.Activity{
		Action: req.Action,
		Type:   activityType,
		Points: req.Points,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CheckIn godoc
// @Summary 每日签到
// @Description 按自然日维护连续活跃天数，同一天重复调用无副作用
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.ProgressRecord} "成功"
// @Failure 401 {object} util.Response "未登录"
// @Router /api/progress/checkin [post]
func (c *ProgressController) CheckIn(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ProgressService.TouchStreak(claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	record, err := c.ProgressService.GetOrInit(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// GoalsRequest 目标列表更新请求
type GoalsRequest struct {
	Goals datatypes.JSON `json:"goals" binding:"required"`
}

// SetGoals godoc
// @Summary 更新学习目标
// @Description 整体替换用户自定义目标列表
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body GoalsRequest true "目标列表"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未登录"
// @Router /api/progress/goals [put]
func (c *ProgressController) SetGoals(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req GoalsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.SetGoals(claims.UserID, req.Goals); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// AwardPointsRequest 管理端积分调整请求
type AwardPointsRequest struct {
	Action string `json:"action" binding:"required"`
	Points int    `json:"points" binding:"required,min=1"`
}

// AwardPoints godoc
// @Summary 管理端调整积分
// @Description 给指定用户追加一条带积分的活动记录
// @Tags 用户管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "用户 ID"
// @Param   body body AwardPointsRequest true "调整内容"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/admin/users/{id}/points [post]
func (c *ProgressController) AwardPoints(ctx *gin.Context) {
	var req AwardPointsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.ProgressService.RecordActivity(util.MustParseUint(ctx.Param("id")), model.Activity{
		Action: req.Action,
		Type:   model.ActivityGeneral,
		Points: req.Points,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListCompletions godoc
// @Summary 获取全部路线图完成状态
// @Description 返回当前用户所有路线图的完成状态列表
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.RoadmapCompletion} "成功"
// @Failure 401 {object} util.Response "未登录"
// @Router /api/progress/completions [get]
func (c *ProgressController) ListCompletions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	completions, err := c.CompletionService.LoadAll(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, completions)
}

// GetCompletion godoc
// @Summary 获取路线图完成状态
// @Description 返回当前用户在某路线图上已完成与进行中的任务列表
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   slug path string true "路线图 slug"
// @Success 200 {object} util.Response{data=model.RoadmapCompletion} "成功"
// @Failure 401 {object} util.Response "未登录"
// @Router /api/progress/roadmaps/{slug}/completion [get]
func (c *ProgressController) GetCompletion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	completion, err := c.CompletionService.Load(claims.UserID, ctx.Param("slug"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, completion)
}

// CompletionRequest 完成状态整体替换请求
type CompletionRequest struct {
	CompletedTaskIDs  []string `json:"completedTaskIds"`
	InProgressTaskIDs []string `json:"inProgressTaskIds"`
}

// SaveCompletion godoc
// @Summary 保存路线图完成状态
// @Description 整份替换当前用户在某路线图上的完成状态
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   slug path string true "路线图 slug"
// @Param   body body CompletionRequest true "完成状态"
// @Success 200 {object} util.Response{data=model.RoadmapCompletion} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未登录"
// @Router /api/progress/roadmaps/{slug}/completion [put]
func (c *ProgressController) SaveCompletion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CompletionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	completion, err := c.CompletionService.Save(claims.UserID, ctx.Param("slug"), req.CompletedTaskIDs, req.InProgressTaskIDs)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, completion)
}
