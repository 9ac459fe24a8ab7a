package observability

// Metric name prefixes
const (
	MetricPrefix = "arcade"
)

// Metric names
const (
	// Round metrics
	RoundsStartedTotal  = MetricPrefix + ".rounds.started"
	RoundsAcceptedTotal = MetricPrefix + ".rounds.accepted"
	RoundsRejectedTotal = MetricPrefix + ".rounds.rejected"
	RoundDuration       = MetricPrefix + ".rounds.duration"

	// Economy metrics
	TicketsEarnedTotal = MetricPrefix + ".tickets.earned"
	ShopPurchasesTotal = MetricPrefix + ".shop.purchases"
	UsersFlaggedTotal  = MetricPrefix + ".moderation.flagged"
)

// Label keys
const (
	LabelGame     = "game"
	LabelReason   = "reason"
	LabelCategory = "category"
)
