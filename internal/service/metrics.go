package service

import "github.com/prometheus/client_golang/prometheus"

var (
	warrantiesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warranties_created_total",
		Help: "Warranty requests created by clients",
	})
	statusTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warranty_status_transitions_total",
		Help: "Warranty status changes applied by admins",
	}, []string{"from", "to"})
	numberConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warranty_number_conflicts_total",
		Help: "Generated warranty numbers rejected by the unique constraint",
	})
	lookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warranty_lookups_total",
		Help: "Public warranty lookups by result",
	}, []string{"result"})
	signIns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_sign_ins_total",
		Help: "Sign-in attempts by result",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(warrantiesCreated, statusTransitions, numberConflicts, lookups, signIns)
}
