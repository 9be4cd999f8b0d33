package kariru

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes a store's activity as Prometheus collectors, fed by the
// store's event bus.
type Metrics struct {
	EntitiesLive   prometheus.Gauge
	InsertsTotal   prometheus.Counter
	RemovesTotal   prometheus.Counter
	DespawnsTotal  prometheus.Counter
	ConflictsTotal prometheus.Counter
}

// AttachMetrics builds the store's collectors, registers them with reg and
// subscribes them to the store's events. Call it once per store; a second
// registration on the same registerer fails with an AlreadyRegisteredError
// from the prometheus client.
func AttachMetrics(s *Store, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		EntitiesLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kariru_entities_live",
			Help: "Number of entities currently alive in the store.",
		}),
		InsertsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kariru_component_inserts_total",
			Help: "Total component insert and replace operations.",
		}),
		RemovesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kariru_component_removes_total",
			Help: "Total component remove (take) operations.",
		}),
		DespawnsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kariru_despawns_total",
			Help: "Total entity despawns.",
		}),
		ConflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kariru_borrow_conflicts_total",
			Help: "Total rejected accesses that would have violated the aliasing invariant.",
		}),
	}
	for _, c := range []prometheus.Collector{
		m.EntitiesLive, m.InsertsTotal, m.RemovesTotal, m.DespawnsTotal, m.ConflictsTotal,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	bus := s.Events()
	Subscribe(bus, func(EntityCreated) { m.EntitiesLive.Inc() })
	Subscribe(bus, func(EntityDespawned) {
		m.EntitiesLive.Dec()
		m.DespawnsTotal.Inc()
	})
	Subscribe(bus, func(ComponentInserted) { m.InsertsTotal.Inc() })
	Subscribe(bus, func(ComponentRemoved) { m.RemovesTotal.Inc() })
	Subscribe(bus, func(BorrowConflict) { m.ConflictsTotal.Inc() })
	return m, nil
}
