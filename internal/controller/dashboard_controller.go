package controller

import (
	"major_compass_backend/internal/service"
	"major_compass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{
		DashboardService: dashboardService,
	}
}

// GetDashboard godoc
// @Summary 获取学习仪表盘
// @Description 返回积分、等级、连续天数、里程碑、推荐与成就；传 roadmap 参数时包含该路线图的推导数据
// @Tags 仪表盘
// @Produce  json
// @Security BearerAuth
// @Param   roadmap query string false "路线图 slug"
// @Success 200 {object} util.Response{data=service.Dashboard} "成功"
// @Failure 401 {object} util.Response "未登录"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	dashboard, err := c.DashboardService.GetUserDashboard(claims.UserID, ctx.Query("roadmap"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}
