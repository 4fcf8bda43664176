package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/dto"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/model"
)

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func toEmployeeBrief(e *model.Employee) *dto.EmployeeBrief {
	if e == nil {
		return nil
	}
	return &dto.EmployeeBrief{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		Name:       e.Name,
		Gender:     string(e.Gender),
		PhotoURL:   e.PhotoURL,
	}
}

func toDutyResponse(d *model.Duty) dto.DutyResponse {
	resp := dto.DutyResponse{
		ID:          d.DutyID,
		EmployeeRef: d.EmployeeRef,
		Employee:    toEmployeeBrief(d.Employee),
		Date:        d.DutyDate,
		ShiftTime:   string(d.ShiftTime),
		IsScheduled: d.IsScheduled,
		IsCompleted: d.IsCompleted,
		CreatedAt:   formatTime(d.CreatedAt),
		UpdatedAt:   formatTime(d.UpdatedAt),
	}
	if d.CompletedAt != nil {
		s := formatTime(*d.CompletedAt)
		resp.CompletedAt = &s
	}
	return resp
}

var hundred = decimal.NewFromInt(100)

// percentage completed/total×100，保留一位小数；total 为 0 时为 0
func percentage(completed, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(completed)).
		Mul(hundred).
		DivRound(decimal.NewFromInt(int64(total)), 1)
}
