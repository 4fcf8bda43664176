package dto

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/model"
)

var ymdPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// RegisterValidators 注册自定义校验标签：shift（已知班次）、ymd（YYYY-MM-DD）
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("shift", func(fl validator.FieldLevel) bool {
		return model.ShiftTime(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if !ymdPattern.MatchString(s) {
			return false
		}
		_, err := time.Parse("2006-01-02", s)
		return err == nil
	})
}
