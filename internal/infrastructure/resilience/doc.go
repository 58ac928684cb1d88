/*
Package resilience provides the circuit breaker guarding remote asset fetches.

Fonts and images referenced by a document may live on remote hosts. When a
host keeps failing the breaker opens and fetches fail fast, so a restore
degrades to fallback fonts instead of waiting on every request.

# Usage

	breaker := resilience.New("assets", resilience.Settings{
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	data, err := resilience.Run(breaker, func() ([]byte, error) {
		return fetch(ctx, url)
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                       [failure]
	                                           v
	                                         Open
*/
package resilience
