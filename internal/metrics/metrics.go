package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	eligibilityChecksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "themis_eligibility_checks_total",
		Help: "Total number of eligibility checks by outcome",
	}, []string{"outcome"})
	receiptsMintedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "themis_receipts_minted_total",
		Help: "Total number of vote receipts minted",
	})
	resultRecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "themis_result_records_verified_total",
		Help: "Total number of result records structurally verified by validity",
	}, []string{"valid"})
	auditConflictsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "themis_audit_assignment_conflicts_total",
		Help: "Total number of duplicate course assignments found by the registry audit",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(eligibilityChecksTotal, receiptsMintedTotal, resultRecordsTotal, auditConflictsTotal)
}

// IncEligibilityCheck increments the eligibility checks counter for an outcome.
func IncEligibilityCheck(outcome string) { eligibilityChecksTotal.WithLabelValues(outcome).Inc() }

// IncReceiptMinted increments the minted receipts counter.
func IncReceiptMinted() { receiptsMintedTotal.Inc() }

// IncResultRecordVerified increments the verified records counter.
func IncResultRecordVerified(valid bool) {
	if valid {
		resultRecordsTotal.WithLabelValues("true").Inc()
	} else {
		resultRecordsTotal.WithLabelValues("false").Inc()
	}
}

// IncAuditConflict increments the audit findings counter.
func IncAuditConflict() { auditConflictsTotal.Inc() }
