package sim

import "time"

// TicksPerSecond is the fixed logical tick rate of the simulation.
const TicksPerSecond = 60

// TickDuration is the wall-clock length of one tick, truncated to the nanosecond.
const TickDuration = time.Second / TicksPerSecond

// Clock is a monotonic time source.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the process's monotonic clock.
type SystemClock struct{}

// Now returns time.Now, which carries a monotonic reading.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// TicksDue returns how many ticks should have been simulated after elapsed.
// It is the inverse of TickTime: TicksDue(TickTime(n)) == n and
// TicksDue(TickTime(n)-1) == n-1.
func TicksDue(elapsed time.Duration) uint64 {
	if elapsed <= 0 {
		return 0
	}
	return uint64((int64(elapsed)*TicksPerSecond + TicksPerSecond - 1) / int64(time.Second))
}

// TickTime returns the elapsed wall-clock time after which n ticks are due.
func TickTime(n uint64) time.Duration {
	return time.Duration(n) * time.Second / TicksPerSecond
}
