package observability

type EventEnvelope struct {
	EventType string      `json:"event_type"`
	EventName string      `json:"event_name"`
	Payload   interface{} `json:"payload"`
}

// WSEventPayload is the structured body published for websocket lifecycle events.
type WSEventPayload struct {
	ConnID     string `json:"conn_id"`
	UserID     int64  `json:"user_id"`
	DeviceID   string `json:"device_id"`
	IP         string `json:"ip"`
	Event      string `json:"event"`
	DurationMS int64  `json:"duration_ms"`
	Reason     string `json:"reason"`
}

// WSEventEnvelope wraps a websocket lifecycle payload in the shared envelope.
func WSEventEnvelope(eventName string, payload WSEventPayload) EventEnvelope {
	payload.Event = eventName
	return EventEnvelope{
		EventType: "ws_events",
		EventName: eventName,
		Payload:   payload,
	}
}

func BuildHeaders(requestID, traceID string) map[string]string {
	headers := map[string]string{}
	if requestID != "" {
		headers["x-request-id"] = requestID
	}
	if traceID != "" {
		headers["trace_id"] = traceID
	}
	return headers
}
