package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/repository"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/service"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/timeutil"
)

var (
	reportMonth  string
	reportOutDir string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the monthly duty report as .xlsx",
	Example: `  dutyctl report --month 03-2024
  dutyctl report --month 03-2024 --out ./reports`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportMonth, "month", "m", "", "报表月份 MM-YYYY（默认当月）")
	reportCmd.Flags().StringVarP(&reportOutDir, "out", "o", ".", "输出目录")
}

func runReport(cmd *cobra.Command, args []string) error {
	norm, err := timeutil.LoadNormalizer(cfg.Duty.Timezone)
	if err != nil {
		return err
	}
	if reportMonth == "" {
		reportMonth = norm.CurrentMonth()
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	svc := service.NewReportService(repository.NewRepository(db), norm, logger)
	buf, filename, err := svc.ExportMonthlyReport(cmd.Context(), reportMonth)
	if err != nil {
		return err
	}

	path := filepath.Join(reportOutDir, filename)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("写入报表失败: %w", err)
	}

	logger.Info("报表已导出", zap.String("month", reportMonth), zap.String("path", path))
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
