package workerclient

import "errors"

// ErrUnavailable covers transport failures: connection refused, DNS, and
// context deadline exceeded on the bounded dispatch call.
var ErrUnavailable = errors.New("workerclient: worker unavailable")

// ErrRPC covers a reachable worker that returned a non-OK RPC status.
var ErrRPC = errors.New("workerclient: rpc error")
