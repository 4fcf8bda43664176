package service

import (
	"go.uber.org/zap"

	"github.com/vishwanathak47/Employee-Duty-Management/config"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/repository"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/jwt"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/metrics"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/redis"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/timeutil"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth     AuthService
	Employee EmployeeService
	Duty     DutyService
	Status   StatusService
	Report   ReportService
	Calendar CalendarService
}

// NewService 创建 Service 聚合
// rdb 可为 nil（无 Redis 时登出退化为空操作）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	norm *timeutil.Normalizer,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	var blacklist TokenBlacklist
	if rdb != nil {
		blacklist = rdb
	}
	return &Service{
		Auth:     NewAuthService(repo, jwtMgr, blacklist, logger),
		Employee: NewEmployeeService(repo, norm, cfg.Duty.AvailabilityThreshold, logger),
		Duty:     NewDutyService(repo, norm, m, logger),
		Status:   NewStatusService(repo, norm, logger),
		Report:   NewReportService(repo, norm, logger),
		Calendar: NewCalendarService(repo, norm, logger),
	}
}
