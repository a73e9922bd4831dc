package controller

import (
	"errors"
	"major_compass_backend/internal/model"
	"major_compass_backend/internal/service"
	"major_compass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	CatalogService  *service.CatalogService
	ProgressService *service.ProgressService
}

func NewCatalogController(catalogService *service.CatalogService, progressService *service.ProgressService) *CatalogController {
	return &CatalogController{
		CatalogService:  catalogService,
		ProgressService: progressService,
	}
}

// ListMajors godoc
// @Summary 获取专业列表
// @Description 返回全部专业及其子方向，匿名可访问
// @Tags 目录
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Major} "成功"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/majors [get]
func (c *CatalogController) ListMajors(ctx *gin.Context) {
	majors, err := c.CatalogService.ListMajors(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, majors)
}

// GetMajor godoc
// @Summary 获取专业详情
// @Description 返回专业详情；已登录用户自动记录一次专业浏览，记录失败不影响浏览
// @Tags 目录
// @Produce  json
// @Param   slug path string true "专业 slug"
// @Success 200 {object} util.Response{data=model.Major} "成功"
// @Failure 404 {object} util.Response "专业不存在"
// @Router /api/majors/{slug} [get]
func (c *CatalogController) GetMajor(ctx *gin.Context) {
	slug := ctx.Param("slug")

	major, err := c.CatalogService.GetMajor(slug)
	if err != nil {
		if errors.Is(err, util.ErrMajorNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	// 匿名用户不埋点；埋点失败也不影响内容浏览
	if claims := util.GetUserFromContext(ctx); claims != nil {
		c.ProgressService.RecordMajorExplored(claims.UserID, slug)
	}

	util.Success(ctx, major)
}

// GetRoadmap godoc
// @Summary 获取路线图
// @Description 返回子方向的完整路线图（阶段与任务按序）；已登录用户自动记录一次路线图查看
// @Tags 目录
// @Produce  json
// @Param   slug path string true "路线图 slug"
// @Success 200 {object} util.Response{data=model.Subspecialization} "成功"
// @Failure 404 {object} util.Response "路线图不存在"
// @Router /api/roadmaps/{slug} [get]
func (c *CatalogController) GetRoadmap(ctx *gin.Context) {
	slug := ctx.Param("slug")

	roadmap, err := c.CatalogService.GetRoadmap(ctx.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, util.ErrRoadmapNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	if claims := util.GetUserFromContext(ctx); claims != nil {
		c.ProgressService.RecordRoadmapViewed(claims.UserID, slug)
	}

	util.Success(ctx, roadmap)
}

// CreateMajor godoc
// @Summary 创建专业
// @Description 管理端新增专业
// @Tags 目录管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body model.Major true "专业信息"
// @Success 201 {object} util.Response{data=model.Major} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/admin/majors [post]
func (c *CatalogController) CreateMajor(ctx *gin.Context) {
	var major model.Major
	if err := ctx.ShouldBindJSON(&major); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CatalogService.CreateMajor(ctx.Request.Context(), &major); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, major)
}

// UpdateMajor godoc
// @Summary 更新专业
// @Tags 目录管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "专业 ID"
// @Param   body body model.Major true "专业信息"
// @Success 200 {object} util.Response{data=model.Major} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/admin/majors/{id} [put]
func (c *CatalogController) UpdateMajor(ctx *gin.Context) {
	var major model.Major
	if err := ctx.ShouldBindJSON(&major); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	major.ID = util.MustParseUint(ctx.Param("id"))

	if err := c.CatalogService.UpdateMajor(ctx.Request.Context(), &major); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, major)
}

// DeleteMajor godoc
// @Summary 删除专业
// @Tags 目录管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "专业 ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/majors/{id} [delete]
func (c *CatalogController) DeleteMajor(ctx *gin.Context) {
	if err := c.CatalogService.DeleteMajor(ctx.Request.Context(), util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CreateSubspecialization godoc
// @Summary 创建子方向
// @Tags 目录管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body model.Subspecialization true "子方向信息"
// @Success 201 {object} util.Response{data=model.Subspecialization} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/admin/subspecializations [post]
func (c *CatalogController) CreateSubspecialization(ctx *gin.Context) {
	var sub model.Subspecialization
	if err := ctx.ShouldBindJSON(&sub); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CatalogService.CreateSubspecialization(ctx.Request.Context(), &sub); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, sub)
}

// CreateStage godoc
// @Summary 创建路线图阶段
// @Tags 目录管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body model.RoadmapStage true "阶段信息"
// @Success 201 {object} util.Response{data=model.RoadmapStage} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/admin/stages [post]
func (c *CatalogController) CreateStage(ctx *gin.Context) {
	var stage model.RoadmapStage
	if err := ctx.ShouldBindJSON(&stage); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CatalogService.CreateStage(ctx.Request.Context(), &stage); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, stage)
}

// CreateTask godoc
// @Summary 创建路线图任务
// @Tags 目录管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body model.RoadmapTask true "任务信息"
// @Success 201 {object} util.Response{data=model.RoadmapTask} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/admin/tasks [post]
func (c *CatalogController) CreateTask(ctx *gin.Context) {
	var task model.RoadmapTask
	if err := ctx.ShouldBindJSON(&task); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CatalogService.CreateTask(ctx.Request.Context(), &task); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, task)
}
