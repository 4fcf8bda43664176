package timeutil

import (
	"fmt"
	"regexp"
	"time"

	"github.com/jinzhu/now"

	pkgerrors "github.com/vishwanathak47/Employee-Duty-Management/pkg/errors"
)

const (
	// DayLayout 日期键格式，同时也是存储中的规范连接键
	DayLayout = "2006-01-02"
	// MonthLayout 月份桶格式
	MonthLayout = "01-2006"
)

var (
	ErrInvalidDateFormat  = pkgerrors.New(pkgerrors.KindValidation, "InvalidDateFormat", "日期格式无效，应为 YYYY-MM-DD")
	ErrInvalidMonthFormat = pkgerrors.New(pkgerrors.KindValidation, "InvalidMonthFormat", "月份格式无效，应为 MM-YYYY")
)

var (
	dayPattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	monthPattern = regexp.MustCompile(`^\d{2}-\d{4}$`)
)

// Normalizer 将外部日期字符串规范化为固定时区下的自然日。
// 时区与时钟均由构造参数注入，不依赖进程级默认时区。
type Normalizer struct {
	loc   *time.Location
	clock func() time.Time
}

// NewNormalizer 创建 Normalizer；loc 为 nil 时使用 UTC，clock 为 nil 时使用 time.Now
func NewNormalizer(loc *time.Location, clock func() time.Time) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = time.Now
	}
	return &Normalizer{loc: loc, clock: clock}
}

// LoadNormalizer 按 IANA 时区名创建 Normalizer
func LoadNormalizer(tz string) (*Normalizer, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("加载时区 %q 失败: %w", tz, err)
	}
	return NewNormalizer(loc, nil), nil
}

// Location 返回固定时区
func (n *Normalizer) Location() *time.Location { return n.loc }

// ParseDay 解析 YYYY-MM-DD，返回该日在固定时区的零点
func (n *Normalizer) ParseDay(s string) (time.Time, error) {
	if !dayPattern.MatchString(s) {
		return time.Time{}, ErrInvalidDateFormat
	}
	t, err := time.ParseInLocation(DayLayout, s, n.loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat.Wrap(err)
	}
	return now.With(t).BeginningOfDay(), nil
}

// NormalizeDay 将任意时刻截断为固定时区下当日零点（幂等）
func (n *Normalizer) NormalizeDay(t time.Time) time.Time {
	return now.With(t.In(n.loc)).BeginningOfDay()
}

// DayKey 返回时刻所在自然日的规范键
func (n *Normalizer) DayKey(t time.Time) string {
	return n.NormalizeDay(t).Format(DayLayout)
}

// CanonicalDay 校验并规范化日期字符串，返回规范键
func (n *Normalizer) CanonicalDay(s string) (string, error) {
	t, err := n.ParseDay(s)
	if err != nil {
		return "", err
	}
	return n.DayKey(t), nil
}

// MonthBucket 返回时刻所在月份桶 MM-YYYY
func (n *Normalizer) MonthBucket(t time.Time) string {
	return t.In(n.loc).Format(MonthLayout)
}

// MonthBucketOfDay 由规范日期键计算月份桶
func (n *Normalizer) MonthBucketOfDay(dayKey string) (string, error) {
	t, err := n.ParseDay(dayKey)
	if err != nil {
		return "", err
	}
	return n.MonthBucket(t), nil
}

// Month 一个月份桶及其首末自然日
type Month struct {
	Bucket string
	Start  time.Time // 当月第一天零点
	End    time.Time // 当月最后一天零点
}

// FirstDayKey 当月第一天的规范键
func (m Month) FirstDayKey() string { return m.Start.Format(DayLayout) }

// LastDayKey 当月最后一天的规范键
func (m Month) LastDayKey() string { return m.End.Format(DayLayout) }

// ParseMonth 解析 MM-YYYY 月份桶
func (n *Normalizer) ParseMonth(s string) (Month, error) {
	if !monthPattern.MatchString(s) {
		return Month{}, ErrInvalidMonthFormat
	}
	t, err := time.ParseInLocation(MonthLayout, s, n.loc)
	if err != nil {
		return Month{}, ErrInvalidMonthFormat.Wrap(err)
	}
	nt := now.With(t)
	return Month{
		Bucket: s,
		Start:  nt.BeginningOfMonth(),
		End:    n.NormalizeDay(nt.EndOfMonth()),
	}, nil
}

// Today 注入时钟下的当日零点
func (n *Normalizer) Today() time.Time {
	return n.NormalizeDay(n.clock())
}

// CurrentMonth 注入时钟下的当前月份桶
func (n *Normalizer) CurrentMonth() string {
	return n.MonthBucket(n.clock())
}
