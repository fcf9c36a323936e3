package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// itemsCreated counts tracked items by input mode.
	itemsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_items_created_total",
		Help: "Total number of items created by input type",
	}, []string{"input_type"})

	// repricesTotal counts items whose price moved during a refresh.
	repricesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracker_reprices_total",
		Help: "Total number of item reprices applied",
	})

	// alertsTriggered counts rule transitions into the alerted state.
	alertsTriggered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_alerts_triggered_total",
		Help: "Total number of alerts triggered by rule type",
	}, []string{"rule_type"})
)
