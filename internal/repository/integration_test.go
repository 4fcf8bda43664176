//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/model"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/repository"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/database"
	pkgerrors "github.com/vishwanathak47/Employee-Duty-Management/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=postgres password=postgres dbname=duty_management_test sslmode=disable TimeZone=Asia/Kolkata"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 使用正式迁移脚本建表，与生产库结构一致
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "数据库迁移失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// setupEmployee 创建测试员工并返回清理函数
func setupEmployee(t *testing.T) (*model.Employee, func()) {
	t.Helper()
	emp := &model.Employee{
		EmployeeID: fmt.Sprintf("IT%d", time.Now().UnixNano()),
		Name:       "集成测试员工",
		Gender:     model.GenderMale,
	}
	if err := testDB.Create(emp).Error; err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}
	cleanup := func() {
		testDB.Where("employee_ref = ?", emp.ID).Delete(&model.Duty{})
		testDB.Where("employee_ref = ?", emp.ID).Delete(&model.MonthlyDuty{})
		testDB.Where("id = ?", emp.ID).Delete(&model.Employee{})
	}
	return emp, cleanup
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	emp, cleanup := setupEmployee(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx 失败: %v", err)
	}
	txRepo := repo.WithTx(tx)

	if err := txRepo.MonthlyDuty.Increment(ctx, emp.ID, "03-2024"); err != nil {
		tx.Rollback()
		t.Fatalf("事务内递增失败: %v", err)
	}
	tx.Rollback()

	if _, err := repo.MonthlyDuty.Get(ctx, emp.ID, "03-2024"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("期望回滚后查不到月度记录，实际: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Concurrent completion
// ═══════════════════════════════════════════════════════════

func TestConcurrentCompletion_CountersSerialize(t *testing.T) {
	emp, cleanup := setupEmployee(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	const n = 20
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		d := &model.Duty{
			EmployeeRef: emp.ID,
			DutyDate:    fmt.Sprintf("2024-03-%02d", i+1),
			ShiftTime:   model.ShiftMorning,
			IsScheduled: true,
		}
		if err := repo.Duty.Create(ctx, d); err != nil {
			t.Fatalf("创建值班失败: %v", err)
		}
		ids = append(ids, d.DutyID)
	}

	// 每条值班被两个并发请求争抢，只能成功一次
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for _, id := range ids {
		for k := 0; k < 2; k++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
					rows, err := txRepo.Duty.MarkCompleted(ctx, id, time.Now())
					if err != nil {
						return err
					}
					if rows == 0 {
						return pkgerrors.ErrOptimisticLock
					}
					if err := txRepo.MonthlyDuty.Increment(ctx, emp.ID, "03-2024"); err != nil {
						return err
					}
					_, err = txRepo.Employee.IncrementTotal(ctx, emp.ID)
					return err
				})
				if err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}(id)
		}
	}
	wg.Wait()

	if succeeded != n {
		t.Fatalf("期望成功 %d 次，实际 %d", n, succeeded)
	}
	got, err := repo.Employee.GetByID(ctx, emp.ID)
	if err != nil {
		t.Fatalf("查询员工失败: %v", err)
	}
	md, err := repo.MonthlyDuty.Get(ctx, emp.ID, "03-2024")
	if err != nil {
		t.Fatalf("查询月度记录失败: %v", err)
	}
	if got.TotalDutiesCount != n || md.CompletedCount != n {
		t.Errorf("期望累计与月度均为 %d，实际 total=%d monthly=%d", n, got.TotalDutiesCount, md.CompletedCount)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Optimistic Lock
// ═══════════════════════════════════════════════════════════

func TestOptimisticLock_Employee_ConflictDetected(t *testing.T) {
	emp, cleanup := setupEmployee(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	copy1, _ := repo.Employee.GetByID(ctx, emp.ID)
	copy2, _ := repo.Employee.GetByID(ctx, emp.ID)

	copy1.Name = "第一次修改"
	if err := repo.Employee.Update(ctx, copy1); err != nil {
		t.Fatalf("第一次更新应成功: %v", err)
	}

	copy2.Name = "第二次修改"
	if err := repo.Employee.Update(ctx, copy2); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，得到: %v", err)
	}
}
