package proof

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "proof")

var (
	proofsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goowl_proofs_generated_total",
		Help: "The total number of PRP proofs generated.",
	})
	proofsVerified = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goowl_proofs_verified_total",
		Help: "The total number of PRP proofs that verified successfully.",
	})
	proofsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goowl_proofs_rejected_total",
		Help: "The total number of PRP proofs that failed verification.",
	})
)
