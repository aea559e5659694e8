// 版权所有 2026 HumanLoop Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 metrics 提供基于 Prometheus 的指标采集能力，覆盖中断生命周期
与恢复提交两个维度。

# 概述

本包通过 Collector 统一注册和记录 Prometheus 指标，使用 promauto
注册机制并支持注入自定义 Registry（测试隔离）。所有指标按
namespace 隔离，支持多维度 label 分组。

# 核心类型

  - Collector：指标收集器，持有提交计数、恢复耗时直方图与
    开放中断 Gauge，所有方法对 nil 接收者安全。

# 主要能力

  - 提交指标：按 type（accept/edit/response/ignore）与
    outcome（ok/failed）分组的提交总数与恢复调用耗时。
  - 中断指标：当前开放中断数量 Gauge。
*/
package metrics
