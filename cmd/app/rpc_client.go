package main

import (
	"context"
	"encoding/json"
	"net"
	"sync/atomic"
	"time"
)

var rpcSeq atomic.Int64

// rpcClient dials the server's unix socket once per call.
type rpcClient struct {
	socket string
}

type rpcCall struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
	ID      int64  `json:"id"`
}

type rpcReply struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newRPCClient(socket string) *rpcClient {
	return &rpcClient{socket: socket}
}

func (c *rpcClient) call(ctx context.Context, method string, params any, out any) error {
	dialer := net.Dialer{Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, "unix", c.socket)
	if err != nil {
		return &remoteError{Transport: "uds", Message: err.Error(), Unreachable: true}
	}
	defer func() { _ = conn.Close() }()
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(20 * time.Second)
	}
	_ = conn.SetDeadline(deadline)

	if err := json.NewEncoder(conn).Encode(rpcCall{JSONRPC: "2.0", Method: method, Params: params, ID: rpcSeq.Add(1)}); err != nil {
		return err
	}
	var reply rpcReply
	if err := json.NewDecoder(conn).Decode(&reply); err != nil {
		return err
	}
	if reply.Error != nil {
		return &remoteError{Transport: "uds", Code: reply.Error.Code, Message: reply.Error.Message}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(reply.Result, out)
}
