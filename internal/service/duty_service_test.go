package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/dto"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/model"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/repository"
	pkgerrors "github.com/vishwanathak47/Employee-Duty-Management/pkg/errors"
)

// ── ScheduleDuties ──

func TestScheduleDuties_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(t, "E1")
	f.addEmployee(t, "E2")
	svc := f.dutyService()
	ctx := context.Background()

	items := []dto.ScheduleDutyItem{
		{EmployeeID: "E1", Date: "2024-03-15", ShiftTime: "6am-2pm"},
		{EmployeeID: "E2", Date: "2024-03-15", ShiftTime: "2pm-10pm"},
	}

	for round := 1; round <= 2; round++ {
		resp, err := svc.ScheduleDuties(ctx, items)
		if err != nil {
			t.Fatalf("第 %d 次排班失败: %v", round, err)
		}
		if resp.CreatedOrUpdatedCount != 2 {
			t.Errorf("第 %d 次：期望 CreatedOrUpdatedCount=2，实际 %d", round, resp.CreatedOrUpdatedCount)
		}
	}

	all, err := f.repo.Duty.List(ctx, repository.DutyFilter{})
	if err != nil {
		t.Fatalf("查询值班失败: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("重复排班不应产生新记录，期望 2 条，实际 %d", len(all))
	}
}

func TestScheduleDuties_SameKeyLatestIsScheduledWins(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(t, "E1")
	svc := f.dutyService()
	ctx := context.Background()

	first, err := svc.ScheduleDuties(ctx, []dto.ScheduleDutyItem{
		{EmployeeID: "E1", Date: "2024-03-15", ShiftTime: "6am-2pm", IsScheduled: boolPtr(true)},
	})
	if err != nil {
		t.Fatalf("排班失败: %v", err)
	}
	second, err := svc.ScheduleDuties(ctx, []dto.ScheduleDutyItem{
		{EmployeeID: "E1", Date: "2024-03-15", ShiftTime: "6am-2pm", IsScheduled: boolPtr(false)},
	})
	if err != nil {
		t.Fatalf("再次排班失败: %v", err)
	}

	if first.Records[0].ID != second.Records[0].ID {
		t.Errorf("同一自然键应原地更新，ID 变化 %s → %s", first.Records[0].ID, second.Records[0].ID)
	}

	all, _ := f.repo.Duty.List(ctx, repository.DutyFilter{})
	if len(all) != 1 {
		t.Fatalf("期望 1 条记录，实际 %d", len(all))
	}
	if all[0].IsScheduled {
		t.Error("期望 is_scheduled 为最后一次的 false")
	}
}

func TestScheduleDuties_SameBatchLastWriteWins(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(t, "E1")
	svc := f.dutyService()
	ctx := context.Background()

	// 同一批次内相同自然键：后写覆盖前写
	resp, err := svc.ScheduleDuties(ctx, []dto.ScheduleDutyItem{
		{EmployeeID: "E1", Date: "2024-03-15", ShiftTime: "9am-6pm"},
		{EmployeeID: "E1", Date: "2024-03-15", ShiftTime: "9am-6pm", IsScheduled: boolPtr(false)},
	})
	if err != nil {
		t.Fatalf("排班失败: %v", err)
	}
	if resp.Records[0].ID != resp.Records[1].ID {
		t.Error("同批次相同自然键应指向同一条记录")
	}
	if resp.Records[1].IsScheduled {
		t.Error("后一条应覆盖 is_scheduled")
	}
}

func TestScheduleDuties_PartialFailure(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(t, "E1")
	svc := f.dutyService()
	ctx := context.Background()

	resp, err := svc.ScheduleDuties(ctx, []dto.ScheduleDutyItem{
		{EmployeeID: "E1", Date: "2024-03-15", ShiftTime: "6am-2pm"},
		{EmployeeID: "E1", Date: "2024-03-15"},
		{EmployeeID: "GHOST", Date: "2024-03-15", ShiftTime: "6am-2pm"},
		{EmployeeID: "E1", Date: "2024-03-15", ShiftTime: "night"},
		{EmployeeID: "E1", Date: "15/03/2024", ShiftTime: "2pm-10pm"},
	})
	if err != nil {
		t.Fatalf("批次不应整体失败: %v", err)
	}

	if resp.ProcessedCount != 5 || resp.CreatedOrUpdatedCount != 1 || resp.ErrorCount != 4 {
		t.Fatalf("计数不符: processed=%d ok=%d errors=%d", resp.ProcessedCount, resp.CreatedOrUpdatedCount, resp.ErrorCount)
	}

	want := []struct {
		index int
		code  string
		kind  pkgerrors.Kind
	}{
		{1, "MissingField", pkgerrors.KindValidation},
		{2, "EmployeeNotFound", pkgerrors.KindNotFound},
		{3, "InvalidShift", pkgerrors.KindValidation},
		{4, "InvalidDate", pkgerrors.KindValidation},
	}
	for i, w := range want {
		got := resp.Errors[i]
		if got.Index != w.index || got.Code != w.code || got.Kind != string(w.kind) {
			t.Errorf("第 %d 个错误: 期望 (%d, %s, %s)，实际 (%d, %s, %s)", i, w.index, w.code, w.kind, got.Index, got.Code, got.Kind)
		}
	}

	// 合法条目已持久化
	if _, err := f.repo.Duty.GetByID(ctx, resp.Records[0].ID); err != nil {
		t.Errorf("合法条目应已落库: %v", err)
	}
}

func TestScheduleDuties_OneValidOneMissingShift(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(t, "E1")

	resp, err := f.dutyService().ScheduleDuties(context.Background(), []dto.ScheduleDutyItem{
		{EmployeeID: "E1", Date: "2024-03-15", ShiftTime: "6am-2pm"},
		{EmployeeID: "E1", Date: "2024-03-16"},
	})
	if err != nil {
		t.Fatalf("排班失败: %v", err)
	}
	if resp.ProcessedCount != 2 || resp.ErrorCount != 1 {
		t.Errorf("期望 processed=2 errors=1，实际 %d/%d", resp.ProcessedCount, resp.ErrorCount)
	}
}

func TestScheduleDuties_EmptyBatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.dutyService().ScheduleDuties(context.Background(), nil)
	if !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("期望 ErrEmptyBatch，实际 %v", err)
	}
	if pkgerrors.KindOf(err) != pkgerrors.KindValidation {
		t.Errorf("期望 validation_error，实际 %s", pkgerrors.KindOf(err))
	}
}

func TestScheduleDuties_DoesNotTouchCounters(t *testing.T) {
	f := newFixture(t)
	emp := f.addEmployee(t, "E1")
	f.schedule(t, "E1", "2024-03-15", model.ShiftMorning)

	got, err := f.repo.Employee.GetByID(context.Background(), emp.ID)
	if err != nil {
		t.Fatalf("查询员工失败: %v", err)
	}
	if got.TotalDutiesCount != 0 {
		t.Errorf("排班不应改变累计完成数，实际 %d", got.TotalDutiesCount)
	}
}

// ── CompleteDuty ──

func TestCompleteDuty_IncrementsCountersOnce(t *testing.T) {
	f := newFixture(t)
	emp := f.addEmployee(t, "E1")
	dutyID := f.schedule(t, "E1", "2024-03-15", model.ShiftMorning)
	svc := f.dutyService()
	ctx := context.Background()

	resp, err := svc.CompleteDuty(ctx, dutyID)
	if err != nil {
		t.Fatalf("完成值班失败: %v", err)
	}
	if !resp.Duty.IsCompleted || resp.Duty.CompletedAt == nil {
		t.Error("返回的值班应已完成并带完成时间")
	}
	if resp.Employee.TotalDutiesCount != 1 || resp.Employee.MonthlyCount != 1 {
		t.Errorf("期望 total=1 monthly=1，实际 %d/%d", resp.Employee.TotalDutiesCount, resp.Employee.MonthlyCount)
	}
	if resp.Employee.EmployeeID != "E1" {
		t.Errorf("期望员工编号 E1，实际 %s", resp.Employee.EmployeeID)
	}

	// 再次完成：冲突，计数不变
	_, err = svc.CompleteDuty(ctx, dutyID)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("期望 ErrAlreadyCompleted，实际 %v", err)
	}
	if pkgerrors.KindOf(err) != pkgerrors.KindConflict {
		t.Errorf("期望 conflict，实际 %s", pkgerrors.KindOf(err))
	}

	got, _ := f.repo.Employee.GetByID(ctx, emp.ID)
	md, _ := f.repo.MonthlyDuty.Get(ctx, emp.ID, "03-2024")
	if got.TotalDutiesCount != 1 || md.CompletedCount != 1 {
		t.Errorf("重复完成后计数应保持 1，实际 total=%d monthly=%d", got.TotalDutiesCount, md.CompletedCount)
	}
}

func TestCompleteDuty_NotFound(t *testing.T) {
	f := newFixture(t)
	svc := f.dutyService()

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		if _, err := svc.CompleteDuty(context.Background(), id); !errors.Is(err, ErrDutyNotFound) {
			t.Errorf("id=%s 期望 ErrDutyNotFound，实际 %v", id, err)
		}
	}
}

func TestCompleteDuty_DanglingEmployeeRollsBack(t *testing.T) {
	f := newFixture(t)
	emp := f.addEmployee(t, "E1")
	dutyID := f.schedule(t, "E1", "2024-03-15", model.ShiftMorning)
	ctx := context.Background()

	if _, err := f.repo.Employee.Delete(ctx, emp.ID); err != nil {
		t.Fatalf("删除员工失败: %v", err)
	}

	_, err := f.dutyService().CompleteDuty(ctx, dutyID)
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("期望 ErrEmployeeNotFound，实际 %v", err)
	}

	duty, err := f.repo.Duty.GetByID(ctx, dutyID)
	if err != nil {
		t.Fatalf("查询值班失败: %v", err)
	}
	if duty.IsCompleted {
		t.Error("事务应回滚，值班不应被标记完成")
	}
	if _, err := f.repo.MonthlyDuty.Get(ctx, emp.ID, "03-2024"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("事务应回滚，不应存在月度记录: %v", err)
	}
}

func TestCompleteDuty_CounterInvariant(t *testing.T) {
	f := newFixture(t)
	emp := f.addEmployee(t, "E1")
	svc := f.dutyService()
	ctx := context.Background()

	days := []string{"2024-02-28", "2024-02-29", "2024-03-01", "2024-03-15", "2024-04-01"}
	for _, day := range days {
		id := f.schedule(t, "E1", day, model.ShiftGeneral)
		if _, err := svc.CompleteDuty(ctx, id); err != nil {
			t.Fatalf("完成 %s 失败: %v", day, err)
		}
	}

	got, _ := f.repo.Employee.GetByID(ctx, emp.ID)
	rows, err := f.repo.MonthlyDuty.ListByEmployee(ctx, emp.ID)
	if err != nil {
		t.Fatalf("查询月度计数失败: %v", err)
	}

	sum := 0
	perMonth := map[string]int{}
	for _, r := range rows {
		sum += r.CompletedCount
		perMonth[r.MonthYear] = r.CompletedCount
	}
	if got.TotalDutiesCount != sum {
		t.Errorf("累计 %d 应等于月度之和 %d", got.TotalDutiesCount, sum)
	}
	if perMonth["02-2024"] != 2 || perMonth["03-2024"] != 2 || perMonth["04-2024"] != 1 {
		t.Errorf("月度分桶不符: %v", perMonth)
	}
}
