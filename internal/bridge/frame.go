package bridge

import (
	"encoding/json"
	"fmt"
	"io"
)

// writeFrame emits one SSE frame in the exact wire shape spec.md §4.5.2
// requires: "id: {counter}\nevent: {name}\ndata: {json}\n\n".
func writeFrame(w io.Writer, counter int, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", counter, event, payload)
	return err
}

// writeRetry emits the reconnect directive, always the first frame on a
// connection and exempt from the id/event/data shape.
func writeRetry(w io.Writer, millis int) error {
	_, err := fmt.Fprintf(w, "retry: %d\n\n", millis)
	return err
}

// writeHeartbeat emits the bare comment frame that bypasses counter, event
// and data entirely.
func writeHeartbeat(w io.Writer) error {
	_, err := fmt.Fprint(w, ": heartbeat\n\n")
	return err
}
