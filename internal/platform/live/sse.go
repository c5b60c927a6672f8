// Copyright (c) 2026 Confero. All rights reserved.

package live

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/confero/confero/pkg/result"
)

// SSE event names, one per result variant.
const (
	eventLoading  = "loading"
	eventSnapshot = "snapshot"
	eventError    = "error"
)

/*
ServeSSE renders a watch stream as a text/event-stream response.

Description: Each stream value becomes one SSE event — "loading" with no
payload, "snapshot" with the JSON-encoded data, or "error" with a generic
message (causes stay server-side). The handler returns when the client
disconnects or the stream closes.

Parameters:
  - writer: http.ResponseWriter
  - request: *http.Request (its context governs the stream lifetime)
  - stream: <-chan result.Of[T] from [Watch]
*/
func ServeSSE[T any](writer http.ResponseWriter, request *http.Request, stream <-chan result.Of[T]) {
	flusher, ok := writer.(http.Flusher)
	if !ok {
		http.Error(writer, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Streams outlive the server's per-response write deadline.
	_ = http.NewResponseController(writer).SetWriteDeadline(time.Time{})

	header := writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-request.Context().Done():
			return
		case value, open := <-stream:
			if !open {
				return
			}
			writeEvent(writer, value)
			flusher.Flush()
		}
	}
}

// writeEvent serializes one result value into SSE wire format.
func writeEvent[T any](writer http.ResponseWriter, value result.Of[T]) {
	switch {
	case value.IsLoading():
		fmt.Fprintf(writer, "event: %s\ndata: {}\n\n", eventLoading)

	case value.IsFailure():
		// The cause is logged where it happened; clients get a fixed notice.
		fmt.Fprintf(writer, "event: %s\ndata: {\"error\":\"snapshot failed\"}\n\n", eventError)

	default:
		data, _ := value.Data()
		payload, err := json.Marshal(data)
		if err != nil {
			fmt.Fprintf(writer, "event: %s\ndata: {\"error\":\"snapshot failed\"}\n\n", eventError)
			return
		}
		fmt.Fprintf(writer, "event: %s\ndata: %s\n\n", eventSnapshot, payload)
	}
}
