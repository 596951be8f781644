/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package metrics provides Prometheus metrics for the credential plugins.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

// Result labels for metrics.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	// AuthTotal counts Vault authentication attempts by method.
	AuthTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "credential_plugins",
			Subsystem: "vault",
			Name:      "auth_total",
			Help:      "Total number of Vault authentication attempts",
		},
		[]string{"method", "result"},
	)

	// LookupTotal counts secret lookups by plugin.
	LookupTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "credential_plugins",
			Subsystem: "plugin",
			Name:      "lookup_total",
			Help:      "Total number of secret lookups",
		},
		[]string{"plugin", "result"},
	)

	// LookupDuration observes how long secret lookups take, including authentication.
	LookupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "credential_plugins",
			Subsystem: "plugin",
			Name:      "lookup_duration_seconds",
			Help:      "Duration of secret lookups in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"plugin"},
	)

	// ClientCacheSizeGauge tracks the number of cached Vault clients.
	ClientCacheSizeGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "credential_plugins",
			Subsystem: "vault",
			Name:      "client_cache_size",
			Help:      "Number of authenticated Vault clients held in the cache",
		},
	)
)

func init() {
	// Register all metrics with the controller-runtime metrics registry
	metrics.Registry.MustRegister(
		AuthTotal,
		LookupTotal,
		LookupDuration,
		ClientCacheSizeGauge,
	)
}

func result(success bool) string {
	if success {
		return ResultSuccess
	}
	return ResultFailure
}

// IncrementAuth increments the authentication counter.
func IncrementAuth(method string, success bool) {
	AuthTotal.WithLabelValues(method, result(success)).Inc()
}

// ObserveLookup records the outcome and duration of a lookup.
func ObserveLookup(plugin string, success bool, d time.Duration) {
	LookupTotal.WithLabelValues(plugin, result(success)).Inc()
	LookupDuration.WithLabelValues(plugin).Observe(d.Seconds())
}

// SetClientCacheSize sets the client cache size.
func SetClientCacheSize(size int) {
	ClientCacheSizeGauge.Set(float64(size))
}
