// Package metrics exposes inventory and budget state as Prometheus gauges read at scrape time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/chucky-1/grocery/internal/model"
)

const namespace = "grocery"

// Source is the part of the grocery service the collector reads.
type Source interface {
	TotalSpent() float64
	CategorySummary() map[string]float64
	Budgets() model.Budgets
	OutOfStockItems() []*model.Item
	History() []model.Trip
}

type Collector struct {
	source Source

	spendTotal    *prometheus.Desc
	categorySpend *prometheus.Desc
	budgetLimit   *prometheus.Desc
	outOfStock    *prometheus.Desc
	trips         *prometheus.Desc
}

func NewCollector(source Source) *Collector {
	return &Collector{
		source: source,
		spendTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "spend_total"),
			"Value of everything in stock.", nil, nil),
		categorySpend: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "category_spend"),
			"Value of the stock of one category.", []string{"category"}, nil),
		budgetLimit: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "budget_limit"),
			"Configured spending limit, 0 for none.", []string{"category"}, nil),
		outOfStock: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "out_of_stock_items"),
			"Items on the shopping list.", nil, nil),
		trips: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "shopping_trips"),
			"Recorded shopping trips.", nil, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.spendTotal
	ch <- c.categorySpend
	ch <- c.budgetLimit
	ch <- c.outOfStock
	ch <- c.trips
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.spendTotal, prometheus.GaugeValue, c.source.TotalSpent())
	for category, spent := range c.source.CategorySummary() {
		ch <- prometheus.MustNewConstMetric(c.categorySpend, prometheus.GaugeValue, spent, category)
	}
	for category, limit := range c.source.Budgets() {
		ch <- prometheus.MustNewConstMetric(c.budgetLimit, prometheus.GaugeValue, limit, category)
	}
	ch <- prometheus.MustNewConstMetric(c.outOfStock, prometheus.GaugeValue, float64(len(c.source.OutOfStockItems())))
	ch <- prometheus.MustNewConstMetric(c.trips, prometheus.GaugeValue, float64(len(c.source.History())))
}

// NewRegistry returns a registry holding the grocery collector.
func NewRegistry(source Source) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewCollector(source))
	return reg
}
