package testevents

import "time"

// Runner configuration constants.
const (
	DefaultSettle           = 500 * time.Millisecond
	PercentageMultiplier    = 100
	WorkerChannelMultiplier = 2
)

// Generator weights, out of weightTotal. Whatever is left is a reset.
const (
	weightFilter  = 50
	weightSearch  = 20
	weightSelect  = 25
	weightTotal   = 100
	maxBurstChars = 8
)
