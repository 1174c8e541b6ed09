package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submittedTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ccd",
		Name:      "transactions_submitted_total",
		Help:      "Transactions accepted by the node, by payload type.",
	}, []string{"type"})

	failedSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ccd",
		Name:      "transaction_submissions_failed_total",
		Help:      "Transactions rejected by the node or not sent, by payload type.",
	}, []string{"type"})

	finalizedTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ccd",
		Name:      "transactions_finalized_total",
		Help:      "Awaited transactions that reached finalization, by outcome.",
	}, []string{"outcome"})
)

func outcomeLabel(rejected bool) string {
	if rejected {
		return "rejected"
	}
	return "success"
}
