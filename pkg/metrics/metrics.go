package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты бронирования для метрики bookings_total
const (
	BookingResultSuccess  = "success"
	BookingResultConflict = "conflict"
	BookingResultNotFound = "not_found"
	BookingResultInvalid  = "invalid"
	BookingResultError    = "error"
)

// Metrics набор метрик сервиса
// Все методы допускают nil-получатель: при выключенных метриках ничего не пишется
type Metrics struct {
	serviceName string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBConnections   *prometheus.GaugeVec

	BookingsTotal *prometheus.CounterVec

	SlotGenerationRuns     *prometheus.CounterVec
	SlotsGeneratedTotal    *prometheus.CounterVec
	SlotsSkippedTotal      *prometheus.CounterVec
	SlotGenerationFailures *prometheus.CounterVec
	SlotGenerationDuration *prometheus.HistogramVec
}

// New регистрирует метрики в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует метрики в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"service", "operation"}),

		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),

		DBConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections",
			Help: "Database pool connections by state",
		}, []string{"service", "state"}),

		BookingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Total number of booking attempts by result",
		}, []string{"service", "result"}),

		SlotGenerationRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "slot_generation_runs_total",
			Help: "Total number of slot generation runs",
		}, []string{"service"}),

		SlotsGeneratedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "slots_generated_total",
			Help: "Total number of slots inserted by generation",
		}, []string{"service"}),

		SlotsSkippedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "slots_skipped_total",
			Help: "Total number of slots skipped because they already existed",
		}, []string{"service"}),

		SlotGenerationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "slot_generation_failures_total",
			Help: "Total number of schedules that failed during generation",
		}, []string{"service"}),

		SlotGenerationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "slot_generation_duration_seconds",
			Help:    "Slot generation run duration in seconds",
			Buckets: []float64{.05, .1, .5, 1, 5, 10, 30, 60},
		}, []string{"service"}),
	}
}

// ServiceName имя сервиса в лейблах
func (m *Metrics) ServiceName() string {
	if m == nil {
		return ""
	}
	return m.serviceName
}

// ObserveHTTPRequest фиксирует обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный SQL запрос
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(m.serviceName, operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(m.serviceName, operation).Inc()
	}
}

// SetDBConnections обновляет состояние пула соединений
func (m *Metrics) SetDBConnections(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.DBConnections.WithLabelValues(m.serviceName, "open").Set(float64(open))
	m.DBConnections.WithLabelValues(m.serviceName, "in_use").Set(float64(inUse))
	m.DBConnections.WithLabelValues(m.serviceName, "idle").Set(float64(idle))
}

// ObserveBooking фиксирует результат попытки бронирования
func (m *Metrics) ObserveBooking(result string) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(m.serviceName, result).Inc()
}

// ObserveSlotGeneration фиксирует итог прогона генерации слотов
func (m *Metrics) ObserveSlotGeneration(created, skipped int64, failures int, duration time.Duration) {
	if m == nil {
		return
	}
	m.SlotGenerationRuns.WithLabelValues(m.serviceName).Inc()
	m.SlotsGeneratedTotal.WithLabelValues(m.serviceName).Add(float64(created))
	m.SlotsSkippedTotal.WithLabelValues(m.serviceName).Add(float64(skipped))
	m.SlotGenerationFailures.WithLabelValues(m.serviceName).Add(float64(failures))
	m.SlotGenerationDuration.WithLabelValues(m.serviceName).Observe(duration.Seconds())
}
