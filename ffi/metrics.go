package ffi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	callbackInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ul2_callback_invocations_total",
			Help: "Native-to-Go callback invocations by callback kind",
		},
		[]string{"kind"},
	)
	callbackPanics = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ul2_callback_panics_total",
			Help: "Panics recovered at the native callback boundary",
		},
		[]string{"kind"},
	)
	boxesLive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ul2_callback_closures_live",
			Help: "Boxed callbacks currently reachable from native user data",
		},
	)
	handlesDestroyed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ul2_handles_destroyed_total",
			Help: "Native destroy calls issued by owning handles",
		},
		[]string{"kind"},
	)
	handlesLeaked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ul2_handles_leaked_total",
			Help: "Owning handles garbage collected without Close",
		},
		[]string{"kind"},
	)
)
