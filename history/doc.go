// Package history 将已提交的人工决策落入嵌入式 SQLite 审计库，
// 支持按操作名与时间回溯查询。
package history
