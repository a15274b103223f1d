package query

import (
	"time"
)

// Observer receives controller lifecycle hooks. Implementations must be safe for
// concurrent use and must not block.
type Observer interface {
	// TriggerStarted is called when a trigger starts a new fetch
	TriggerStarted(key string, trigger Trigger)
	// TriggerJoined is called when a manual refetch joins a fetch already in flight
	TriggerJoined(key string, trigger Trigger)
	// TriggerCoalesced is called when an interval or focus trigger is dropped
	TriggerCoalesced(key string, trigger Trigger)
	// FetchStarted is called when the data source is invoked
	FetchStarted(key string)
	// FetchFinished is called when the data source returns and the result is applied
	FetchFinished(key string, elapsed time.Duration, err error)
	// FetchDiscarded is called when a result arrives after invalidation
	FetchDiscarded(key string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) TriggerStarted(string, Trigger) {}
func (nopObserver) TriggerJoined(string, Trigger) {}
func (nopObserver) TriggerCoalesced(string, Trigger) {}
func (nopObserver) FetchStarted(string) {}
func (nopObserver) FetchFinished(string, time.Duration, error) {}
func (nopObserver) FetchDiscarded(string, time.Duration) {}
