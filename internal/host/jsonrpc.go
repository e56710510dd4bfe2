// internal/host/jsonrpc.go
package host

import (
	"encoding/json"
	"fmt"
)

const jsonrpcVersion = "2.0"

// Standard JSON-RPC 2.0 error codes. The host's own errors fall in the
// server error range.
const (
	CodeParseError       = -32700
	CodeInvalidRequest   = -32600
	CodeMethodNotFound   = -32601
	CodeInvalidParams    = -32603
	CodeServerErrorUpper = -32000
	CodeServerErrorLower = -32099
)

// RPCError is a JSON-RPC error object returned by the host.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("host: rpc error %d: %s", e.Code, e.Message)
}

// IsServerError reports whether the code lies in the reserved
// implementation-defined server error range.
func (e *RPCError) IsServerError() bool {
	return e.Code <= CodeServerErrorUpper && e.Code >= CodeServerErrorLower
}

// rpcRequest is an outgoing call or notification.
type rpcRequest struct {
	Version string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
	ID      int64  `json:"id,omitempty"`
}

// rpcEnvelope covers everything the host sends: call responses carry
// ID plus Result or Error, notifications carry Method plus Params.
type rpcEnvelope struct {
	Version string          `json:"jsonrpc"`
	ID      *int64          `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}
