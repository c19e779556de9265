package metrics

// Bridge-level metric helpers. All of them tolerate a missing global
// collector so hot paths never fail on metrics.

// SetActiveSessions sets the active session gauge.
func SetActiveSessions(count float64) error {
	m := GetGlobalMetrics()
	if m == nil {
		return nil
	}
	return m.SetGauge("session_active", count, nil)
}

// IncrementSessionCreated counts a session creation.
func IncrementSessionCreated() error {
	m := GetGlobalMetrics()
	if m == nil {
		return nil
	}
	return m.IncrementCounter("session_created", nil)
}

// IncrementSessionClosed counts a session teardown.
func IncrementSessionClosed() error {
	m := GetGlobalMetrics()
	if m == nil {
		return nil
	}
	return m.IncrementCounter("session_closed", nil)
}

// IncrementSessionEvicted counts an idle eviction.
func IncrementSessionEvicted() error {
	m := GetGlobalMetrics()
	if m == nil {
		return nil
	}
	return m.IncrementCounter("session_evicted", nil)
}

// IncrementFramesForwarded counts frames pushed to the inference backend.
func IncrementFramesForwarded() error {
	m := GetGlobalMetrics()
	if m == nil {
		return nil
	}
	return m.IncrementCounter("frames_forwarded", nil)
}

// IncrementFramesReturned counts processed frames delivered to clients.
func IncrementFramesReturned() error {
	m := GetGlobalMetrics()
	if m == nil {
		return nil
	}
	return m.IncrementCounter("frames_returned", nil)
}

// IncrementFramesDropped counts frames dropped under backpressure.
func IncrementFramesDropped() error {
	m := GetGlobalMetrics()
	if m == nil {
		return nil
	}
	return m.IncrementCounter("frames_dropped", nil)
}

// IncrementMalformedFrames counts undecodable client frames.
func IncrementMalformedFrames() error {
	m := GetGlobalMetrics()
	if m == nil {
		return nil
	}
	return m.IncrementCounter("frames_malformed", nil)
}

// IncrementChannelReconnects counts inference stream reconnect attempts.
func IncrementChannelReconnects() error {
	m := GetGlobalMetrics()
	if m == nil {
		return nil
	}
	return m.IncrementCounter("channel_reconnects", nil)
}
