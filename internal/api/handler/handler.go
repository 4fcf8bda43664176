package handler

import "github.com/vishwanathak47/Employee-Duty-Management/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth     *AuthHandler
	Employee *EmployeeHandler
	Duty     *DutyHandler
	Report   *ReportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth),
		Employee: NewEmployeeHandler(svc.Employee, svc.Calendar),
		Duty:     NewDutyHandler(svc.Duty, svc.Status),
		Report:   NewReportHandler(svc.Report),
	}
}
