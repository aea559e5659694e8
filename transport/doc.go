// Package transport 提供恢复原语的具体 WebSocket 实现：
// 发送恢复指令帧，消费事件帧直至运行终止，期间维持心跳。
package transport
