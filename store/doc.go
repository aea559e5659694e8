// Package store 提供开放中断会话的持久化能力，
// 供前端重连后重建进行中的决策。内置内存与 Redis 两种实现。
package store
