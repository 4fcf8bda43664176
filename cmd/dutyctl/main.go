// dutyctl 值班系统运维命令行：数据库迁移与离线报表导出
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "time/tzdata"

	"github.com/vishwanathak47/Employee-Duty-Management/config"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/database"
	applogger "github.com/vishwanathak47/Employee-Duty-Management/pkg/logger"
)

var (
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "dutyctl",
	Short:         "Employee duty management operations tool",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = applogger.NewLogger(&cfg.Log)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认查找 ./config/config.yaml）")
	rootCmd.AddCommand(migrateCmd, reportCmd)
}

// openDB 按配置连接数据库
func openDB() (*gorm.DB, error) {
	return database.NewDB(&cfg.Database, cfg.Log.Level, logger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}
