// Copyright 2026 The biomedRelExt Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package biomedrelext

import "github.com/prometheus/client_golang/prometheus"

var (
	documentOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "relext",
			Subsystem: "pipeline",
			Name:      "document_ops_total",
			Help:      "The total number of documents processed.",
		},
		[]string{"task", "status"},
	)
	candidateCreationOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "relext",
			Subsystem: "pipeline",
			Name:      "candidate_creation_ops_total",
			Help:      "The total number of candidate pairs created.",
		},
		[]string{"task", "pair_type"},
	)
	positiveCandidateOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "relext",
			Subsystem: "pipeline",
			Name:      "positive_candidate_ops_total",
			Help:      "The total number of candidates labeled as known relations.",
		},
		[]string{"task"},
	)
	prunedCandidateOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "relext",
			Subsystem: "pipeline",
			Name:      "pruned_candidate_ops_total",
			Help:      "The total number of candidates removed by hierarchy pruning.",
		},
		[]string{"task"},
	)
	droppedMentionOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "relext",
			Subsystem: "pipeline",
			Name:      "dropped_mention_ops_total",
			Help:      "The total number of mentions excluded from pairing.",
		},
		[]string{"reason"},
	)

	documentDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "relext",
			Subsystem: "pipeline",
			Name:      "document_duration_seconds",
			Help:      "Time taken to turn one document into candidates.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"task"},
	)

	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "relext",
			Subsystem: "pipeline",
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits.",
		},
		[]string{"cache_type"},
	)
	cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "relext",
			Subsystem: "pipeline",
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses.",
		},
		[]string{"cache_type"},
	)
)

func init() {
	prometheus.MustRegister(documentOps)
	prometheus.MustRegister(candidateCreationOps)
	prometheus.MustRegister(positiveCandidateOps)
	prometheus.MustRegister(prunedCandidateOps)
	prometheus.MustRegister(droppedMentionOps)
	prometheus.MustRegister(documentDuration)
	prometheus.MustRegister(cacheHits)
	prometheus.MustRegister(cacheMisses)
}

// RecordDocument counts a processed document by outcome ("ok", "failed")
func RecordDocument(task, status string) {
	documentOps.WithLabelValues(task, status).Inc()
}

// RecordCandidateCreation counts created candidates of one pair type
func RecordCandidateCreation(task, pairType string, count int) {
	candidateCreationOps.WithLabelValues(task, pairType).Add(float64(count))
}

// RecordPositiveCandidates counts candidates labeled as known relations
func RecordPositiveCandidates(task string, count int) {
	positiveCandidateOps.WithLabelValues(task).Add(float64(count))
}

// RecordPrunedCandidates counts candidates removed by hierarchy pruning
func RecordPrunedCandidates(task string, count int) {
	prunedCandidateOps.WithLabelValues(task).Add(float64(count))
}

// RecordDroppedMentions counts mentions that never reach pairing
func RecordDroppedMentions(reason string, count int) {
	droppedMentionOps.WithLabelValues(reason).Add(float64(count))
}

// RecordDocumentDuration records how long one document took
func RecordDocumentDuration(task string, seconds float64) {
	documentDuration.WithLabelValues(task).Observe(seconds)
}

// RecordCacheHit increments the cache hit counter
func RecordCacheHit(cacheType string) {
	cacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss increments the cache miss counter
func RecordCacheMiss(cacheType string) {
	cacheMisses.WithLabelValues(cacheType).Inc()
}
