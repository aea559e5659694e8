// Package interrupt 提供暂停运行的能力解析、编辑对账与恢复载荷组装能力。
//
// 该包将远端运行暂停时下发的能力描述符解析为合法的人工响应集合，
// 跟踪用户是否实际修改了提议参数（未修改的"编辑"折叠为"接受"），
// 并组装恢复运行所需的线格式载荷。
package interrupt
