package metrics

// Instrument names shared between registration and the recording sites.
const (
	HTTPRequestsTotal       = "http_requests_total"
	HTTPRequestDuration     = "http_request_duration_seconds"
	ActiveWSConnections     = "active_websocket_connections"
	PositionFixesTotal      = "position_fixes_total"
	RealtimeEventsForwarded = "realtime_events_forwarded"
)
