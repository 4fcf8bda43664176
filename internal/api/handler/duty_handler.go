package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/dto"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/service"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/response"
)

// DutyHandler 值班模块 HTTP 处理器
type DutyHandler struct {
	dutySvc   service.DutyService
	statusSvc service.StatusService
}

// NewDutyHandler 创建 DutyHandler
func NewDutyHandler(dutySvc service.DutyService, statusSvc service.StatusService) *DutyHandler {
	return &DutyHandler{dutySvc: dutySvc, statusSvc: statusSvc}
}

// Schedule 批量排班；逐条失败在响应体 errors 中返回
// POST /api/v1/duties/schedule
func (h *DutyHandler) Schedule(c *gin.Context) {
	var req dto.ScheduleDutiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.dutySvc.ScheduleDuties(c.Request.Context(), req.Duties)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Complete 标记值班完成
// PUT /api/v1/duties/complete/:id
func (h *DutyHandler) Complete(c *gin.Context) {
	result, err := h.dutySvc.CompleteDuty(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// DayStatus 单日各班次完成情况
// GET /api/v1/duties/status/:date
func (h *DutyHandler) DayStatus(c *gin.Context) {
	result, err := h.statusSvc.GetDayStatus(c.Request.Context(), c.Param("date"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// List 值班记录查询
// GET /api/v1/duties
func (h *DutyHandler) List(c *gin.Context) {
	var req dto.ListDutiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.statusSvc.ListDuties(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}
