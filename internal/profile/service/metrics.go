package service

import "github.com/AlibekovAA/user-profile/internal/observability/metrics"

const (
	resultSuccess  = "success"
	resultInvalid  = "invalid"
	resultConflict = "conflict"
	resultNotFound = "not_found"
	resultInternal = "error"

	stagePrecheck = "precheck"
	stageStore    = "store"
)

func recordRead(result string) {
	metrics.ProfileReadsTotal.WithLabelValues(result).Inc()
}

func recordUpdate(result string) {
	metrics.ProfileUpdatesTotal.WithLabelValues(result).Inc()
}

func recordEmailConflict(stage string) {
	metrics.EmailConflictsTotal.WithLabelValues(stage).Inc()
}
