package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BaSui01/humanloop/resume"
)

// Record 是一条已尝试提交的审计记录。
type Record struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	InterruptID string    `gorm:"index" json:"interrupt_id"`
	Action      string    `gorm:"index" json:"action"`
	SubmitType  string    `json:"submit_type"`
	ArgsJSON    string    `json:"args_json"`
	Outcome     string    `gorm:"index" json:"outcome"`
	Error       string    `json:"error,omitempty"`
	LatencyMS   int64     `json:"latency_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName 指定审计表名。
func (Record) TableName() string { return "decisions" }

// Recorder 是基于 gorm + SQLite 的决策审计存储，
// 实现 resume.DecisionRecorder。
type Recorder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open 打开（必要时创建）path 处的 SQLite 审计库。
// ":memory:" 可用于测试。
func Open(path string, logger *zap.Logger) (*Recorder, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	return NewRecorder(db, logger)
}

// NewRecorder 在已建立的 gorm 连接上创建审计存储并迁移表结构。
func NewRecorder(db *gorm.DB, logger *zap.Logger) (*Recorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate history schema: %w", err)
	}
	return &Recorder{
		db:     db,
		logger: logger.With(zap.String("component", "decision_history")),
	}, nil
}

// Close 释放底层数据库连接。
func (r *Recorder) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record 追加一条审计记录。
func (r *Recorder) Record(ctx context.Context, d resume.Decision) error {
	argsJSON := ""
	if d.Args != nil {
		data, err := json.Marshal(d.Args)
		if err != nil {
			// 参数无法序列化不应丢掉整条审计。
			r.logger.Warn("failed to marshal decision args", zap.Error(err))
		} else {
			argsJSON = string(data)
		}
	}

	rec := Record{
		InterruptID: d.InterruptID,
		Action:      d.Action,
		SubmitType:  string(d.SubmitType),
		ArgsJSON:    argsJSON,
		Outcome:     d.Outcome,
		Error:       d.Err,
		LatencyMS:   d.Latency.Milliseconds(),
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("record decision: %w", err)
	}
	return nil
}

// ByAction 返回指定操作最近的若干条审计记录。
func (r *Recorder) ByAction(ctx context.Context, action string, limit int) ([]Record, error) {
	var records []Record
	err := r.db.WithContext(ctx).
		Where("action = ?", action).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("query by action: %w", err)
	}
	return records, nil
}

// Recent 返回最近的若干条审计记录。
func (r *Recorder) Recent(ctx context.Context, limit int) ([]Record, error) {
	var records []Record
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	return records, nil
}
