package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/dto"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/model"
)

func TestExportEmployeeCalendar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.addEmployee(t, "E1")
	f.addEmployee(t, "E2")

	morning := f.schedule(t, "E1", "2024-03-15", model.ShiftMorning)
	f.schedule(t, "E1", "2024-03-20", model.ShiftEvening)
	f.schedule(t, "E2", "2024-03-15", model.ShiftGeneral)
	_, err := f.dutyService().ScheduleDuties(ctx, []dto.ScheduleDutyItem{
		{EmployeeID: "E1", Date: "2024-03-16", ShiftTime: "9am-6pm", IsScheduled: boolPtr(false)},
	})
	require.NoError(t, err)

	svc := NewCalendarService(f.repo, f.norm, zap.NewNop())
	data, name, err := svc.ExportEmployeeCalendar(ctx, emp.ID, &dto.CalendarRequest{From: "2024-03-01", To: "2024-03-31"})
	require.NoError(t, err)
	assert.Equal(t, "duties_E1.ics", name)

	cal, err := ics.ParseCalendar(strings.NewReader(string(data)))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2, "仅导出本人已排班的值班")

	var found *ics.VEvent
	for _, e := range events {
		if e.Id() == morning+"@duty-management" {
			found = e
		}
	}
	require.NotNil(t, found)

	start, err := found.GetStartAt()
	require.NoError(t, err)
	end, err := found.GetEndAt()
	require.NoError(t, err)
	// 6am-2pm IST = 00:30-08:30 UTC
	assert.Equal(t, "2024-03-15T00:30:00Z", start.UTC().Format("2006-01-02T15:04:05Z"))
	assert.Equal(t, "2024-03-15T08:30:00Z", end.UTC().Format("2006-01-02T15:04:05Z"))
}

func TestExportEmployeeCalendar_Errors(t *testing.T) {
	f := newFixture(t)
	svc := NewCalendarService(f.repo, f.norm, zap.NewNop())
	ctx := context.Background()

	_, _, err := svc.ExportEmployeeCalendar(ctx, "00000000-0000-0000-0000-000000000000", nil)
	assert.True(t, errors.Is(err, ErrEmployeeNotFound))

	emp := f.addEmployee(t, "E1")
	_, _, err = svc.ExportEmployeeCalendar(ctx, emp.ID, &dto.CalendarRequest{From: "March"})
	assert.True(t, errors.Is(err, ErrInvalidDate))
}
