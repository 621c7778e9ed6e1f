/*
 * metrics.go, part of gonb.
 *
 * Copyright 2026 The gonb Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package ff

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	pathCached      = "cached"
	pathIncremental = "incremental"
	pathFull        = "full"
)

var (
	energyEvaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gonb_energy_evaluations_total",
		Help: "Energy requests, by forcefield and by the path taken to answer them",
	}, []string{"ff", "path"})

	pendingDeltas = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gonb_pending_deltas",
		Help:    "Molecules with pending changes when the energy was requested",
		Buckets: []float64{0, 1, 2, 5, 10, 50, 100, 1000},
	})

	fullRecomputeSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gonb_full_recompute_seconds",
		Help:    "Time spent recomputing energies from scratch",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1, 10, 100},
	})

	consistencyDrift = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gonb_consistency_drift_kcal",
		Help: "Difference between the last incremental energy and a full recomputation, when checked",
	})
)
