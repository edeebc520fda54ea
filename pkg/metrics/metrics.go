// Package metrics 提供基于Prometheus的指标收集
//
// # 指标类型
//
//   - Counter（计数器）: 只增不减，如借出总数、熔断降级次数
//   - Gauge（仪表盘）: 可增可减，如正在处理的请求数、熔断器状态
//   - Histogram（直方图）: 观测值分布，如请求耗时、罚款金额
//
// # 使用方式
//
// 所有指标在包加载时创建，InitMetrics负责注册到默认Registry（只注册一次），
// 之后由 /metrics 端点暴露。未注册时指标照常计数，单元测试无需初始化。
//
//	metrics.InitMetrics()
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	metrics.IncCounterVec(metrics.LoanOperationsTotal, map[string]string{
//	    "operation": "issue",
//	    "result":    "success",
//	})
//
// # 命名规范
//
//  1. Counter 以 _total 结尾
//  2. Histogram 以单位结尾（_seconds）
//  3. 标签只用有限取值（operation、result），不要用图书ID、会员ID做标签
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var registerOnce sync.Once

var (
	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/api/v1/books/:id）、status
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 1ms、10ms、100ms、500ms、1s、5s、10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 借阅业务指标

	// LoanOperationsTotal 借出/归还次数
	// 标签：operation（issue/return）、result（success/failure）
	LoanOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_operations_total",
			Help: "借出/归还操作总数",
		},
		[]string{"operation", "result"},
	)

	// LoanOperationDuration 借出/归还耗时（包含事务）
	LoanOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "loan_operation_duration_seconds",
			Help:    "借出/归还耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"operation"},
	)

	// FineAmount 归还时产生的罚款金额分布（只统计罚款>0的归还）
	FineAmount = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "loan_fine_amount",
			Help:    "逾期罚款金额",
			Buckets: []float64{50, 100, 250, 500, 1000, 5000},
		},
	)

	// InventoryConsistencyFaults 库存数据不一致次数（归还时可借数量将超过总数）
	// 正常情况下应该一直是0，大于0需要人工核对库存
	InventoryConsistencyFaults = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_consistency_faults_total",
			Help: "库存数据不一致次数",
		},
	)

	// 客户端指标

	// CircuitBreakerState 熔断器状态
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	// CircuitBreakerRequests 熔断器请求总数
	// 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	// TransportFallbacksTotal API不可用时降级到本地种子数据的次数
	TransportFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transport_fallbacks_total",
			Help: "降级到本地数据的调用次数",
		},
		[]string{"operation"},
	)

	// 基础设施指标

	// EventsPublishedTotal 借阅事件发布次数
	// 标签：routing_key、result（success/failure）
	EventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "借阅事件发布总数",
		},
		[]string{"routing_key", "result"},
	)

	// CacheRequestsTotal 缓存命中统计
	// 标签：cache（book）、result（hit/miss/error）
	CacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "缓存请求总数",
		},
		[]string{"cache", "result"},
	)
)

// InitMetrics 将所有指标注册到默认Registry
// 可以重复调用，只注册一次
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			HTTPRequestsInProgress,
			LoanOperationsTotal,
			LoanOperationDuration,
			FineAmount,
			InventoryConsistencyFaults,
			CircuitBreakerState,
			CircuitBreakerRequests,
			TransportFallbacksTotal,
			EventsPublishedTotal,
			CacheRequestsTotal,
		)
	})
}

// Result 把error转换成result标签值
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// IncCounterVec 递增带标签的Counter
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGaugeVec 设置带标签的Gauge
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

// ObserveHistogramVec 记录带标签的观测值
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
