package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/dto"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/model"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/repository"
	pkgerrors "github.com/vishwanathak47/Employee-Duty-Management/pkg/errors"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/timeutil"
)

const calendarProductID = "-//Employee Duty Management//Duty Calendar//EN"

// CalendarService 员工值班日历导出
type CalendarService interface {
	// ExportEmployeeCalendar 导出员工已排班值班为 iCalendar，返回内容与建议文件名
	ExportEmployeeCalendar(ctx context.Context, id string, req *dto.CalendarRequest) ([]byte, string, error)
}

type calendarService struct {
	repo   *repository.Repository
	norm   *timeutil.Normalizer
	logger *zap.Logger
	now    func() time.Time
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, norm *timeutil.Normalizer, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, norm: norm, logger: logger, now: time.Now}
}

func (s *calendarService) ExportEmployeeCalendar(ctx context.Context, id string, req *dto.CalendarRequest) ([]byte, string, error) {
	filter := repository.DutyFilter{}
	if req != nil {
		if req.From != "" {
			day, err := s.norm.CanonicalDay(req.From)
			if err != nil {
				return nil, "", ErrInvalidDate.Wrap(err)
			}
			filter.DateFrom = day
		}
		if req.To != "" {
			day, err := s.norm.CanonicalDay(req.To)
			if err != nil {
				return nil, "", ErrInvalidDate.Wrap(err)
			}
			filter.DateTo = day
		}
	}

	employee, err := loadEmployee(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, "", err
	}
	filter.EmployeeRef = employee.ID

	duties, err := s.repo.Duty.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询员工值班失败", zap.String("id", id), zap.Error(err))
		return nil, "", pkgerrors.Store(err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName(fmt.Sprintf("%s 值班表", employee.Name))
	cal.SetXWRTimezone(s.norm.Location().String())

	stamp := s.now()
	for i := range duties {
		d := &duties[i]
		if !d.IsScheduled {
			continue
		}
		if !d.ShiftTime.Valid() {
			return nil, "", ErrUnknownShift
		}
		start, end, err := s.shiftBounds(d)
		if err != nil {
			return nil, "", ErrCorruptDutyDate.Wrap(err)
		}

		evt := cal.AddEvent(d.DutyID + "@duty-management")
		evt.SetDtStampTime(stamp)
		evt.SetStartAt(start)
		evt.SetEndAt(end)
		evt.SetSummary(fmt.Sprintf("值班 %s", d.ShiftTime))
		evt.SetDescription(fmt.Sprintf("%s (%s)", employee.Name, employee.EmployeeID))
		if d.IsCompleted {
			evt.SetStatus(ics.ObjectStatusConfirmed)
		} else {
			evt.SetStatus(ics.ObjectStatusTentative)
		}
	}

	filename := fmt.Sprintf("duties_%s.ics", employee.EmployeeID)
	return []byte(cal.Serialize()), filename, nil
}

// shiftBounds 班次在固定时区下的起止时刻
func (s *calendarService) shiftBounds(d *model.Duty) (time.Time, time.Time, error) {
	day, err := s.norm.ParseDay(d.DutyDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	startHour, endHour := d.ShiftTime.Window()
	return day.Add(time.Duration(startHour) * time.Hour), day.Add(time.Duration(endHour) * time.Hour), nil
}
