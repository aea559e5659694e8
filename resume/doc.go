// Package resume 驱动暂停运行的恢复提交：校验并组装响应载荷、
// 调用底层运行的恢复原语，并维护 loading/streaming/finished/error
// 状态机。失败经由错误分类器转为面向用户的通知。
package resume
