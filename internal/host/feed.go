// internal/host/feed.go
package host

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// FeedListener receives pushed updates from the host.
// Callbacks run on the feed's read goroutine and must not block.
type FeedListener interface {
	OnPrinterState(state PrinterState)
	OnKlippyState(state KlippyState)
	OnFeedDown(err error)
}

// FeedConfig configures the JSON-RPC websocket feed.
type FeedConfig struct {
	URL           string // ws(s)://host:port/websocket
	APIKey        string
	ClientName    string
	ClientVersion string

	DialTimeout time.Duration
	CallTimeout time.Duration

	// Reconnect backoff: starts at Backoff, doubles up to MaxBackoff,
	// resets after a session that got past the handshake.
	Backoff    time.Duration
	MaxBackoff time.Duration
}

// Feed follows printer state over the host's websocket. It identifies
// the connection, subscribes to print_stats and dispatches
// notifications until the connection drops, then redials.
type Feed struct {
	cfg      FeedConfig
	listener FeedListener
	log      zerolog.Logger

	writeMu sync.Mutex
	conn    *websocket.Conn

	callMu sync.Mutex
	nextID int64
	calls  map[int64]chan rpcReply
}

type rpcReply struct {
	result json.RawMessage
	err    error
}

// NewFeed creates a feed. Run must be called to connect.
func NewFeed(cfg FeedConfig, listener FeedListener, log zerolog.Logger) (*Feed, error) {
	if cfg.URL == "" {
		return nil, errors.New("host feed: url required")
	}
	if listener == nil {
		return nil, errors.New("host feed: listener required")
	}

	if cfg.ClientName == "" {
		cfg.ClientName = "camwatch"
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 30 * time.Second
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Second
	}

	return &Feed{
		cfg:      cfg,
		listener: listener,
		log:      log,
		calls:    make(map[int64]chan rpcReply),
	}, nil
}

// Run maintains the connection until ctx is cancelled.
func (f *Feed) Run(ctx context.Context) {
	backoff := f.cfg.Backoff

	for {
		established, err := f.session(ctx)

		if ctx.Err() != nil {
			return
		}

		f.listener.OnFeedDown(err)
		f.log.Warn().Err(err).Dur("backoff", backoff).Msg("host feed down, reconnecting")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		if established {
			backoff = f.cfg.Backoff
		} else {
			backoff *= 2
			if backoff > f.cfg.MaxBackoff {
				backoff = f.cfg.MaxBackoff
			}
		}
	}
}

// session runs one connection: dial, identify, subscribe, then read
// until the connection dies. The bool reports whether the handshake
// completed.
func (f *Feed) session(ctx context.Context) (bool, error) {
	dialer := websocket.Dialer{HandshakeTimeout: f.cfg.DialTimeout}

	header := http.Header{}
	if f.cfg.APIKey != "" {
		header.Set("X-Api-Key", f.cfg.APIKey)
	}

	conn, resp, err := dialer.DialContext(ctx, f.cfg.URL, header)
	if err != nil {
		if resp != nil {
			return false, fmt.Errorf("host feed: dial: %w (status %s)", err, resp.Status)
		}
		return false, fmt.Errorf("host feed: dial: %w", err)
	}

	f.setConn(conn)
	defer func() {
		f.setConn(nil)
		conn.Close()
	}()

	// Unblock the read loop when ctx is cancelled.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- f.readLoop(conn)
	}()

	if err := f.identify(ctx); err != nil {
		return false, err
	}
	if err := f.subscribe(ctx); err != nil {
		return false, err
	}

	f.log.Info().Str("url", f.cfg.URL).Msg("host feed connected")

	err = <-errc
	f.failCalls(err)
	return true, err
}

func (f *Feed) setConn(conn *websocket.Conn) {
	f.writeMu.Lock()
	f.conn = conn
	f.writeMu.Unlock()
}

func (f *Feed) readLoop(conn *websocket.Conn) error {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("host feed: read: %w", err)
		}
		f.dispatchRaw(raw)
	}
}

// ---- handshake calls ----

func (f *Feed) identify(ctx context.Context) error {
	params := map[string]any{
		"client_name": f.cfg.ClientName,
		"version":     f.cfg.ClientVersion,
		"type":        "agent",
		"url":         "https://github.com/tamzrod/camwatch",
	}
	if f.cfg.APIKey != "" {
		params["api_key"] = f.cfg.APIKey
	}

	result, err := f.call(ctx, "server.connection.identify", params)
	if err != nil {
		return fmt.Errorf("host feed: identify: %w", err)
	}

	var out struct {
		ConnectionID int64 `json:"connection_id"`
	}
	if err := json.Unmarshal(result, &out); err == nil {
		f.log.Debug().Int64("connection_id", out.ConnectionID).Msg("host feed identified")
	}

	return nil
}

func (f *Feed) subscribe(ctx context.Context) error {
	params := map[string]any{
		"objects": map[string]any{"print_stats": nil},
	}

	result, err := f.call(ctx, "printer.objects.subscribe", params)
	if err != nil {
		return fmt.Errorf("host feed: subscribe: %w", err)
	}

	// The subscribe result carries the initial object values.
	var out struct {
		Status json.RawMessage `json:"status"`
	}
	if err := json.Unmarshal(result, &out); err == nil && len(out.Status) > 0 {
		f.applyStatus(out.Status)
	}

	return nil
}

// ---- outgoing calls ----

func (f *Feed) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	cctx, cancel := context.WithTimeout(ctx, f.cfg.CallTimeout)
	defer cancel()

	f.callMu.Lock()
	f.nextID++
	id := f.nextID
	ch := make(chan rpcReply, 1)
	f.calls[id] = ch
	f.callMu.Unlock()

	defer func() {
		f.callMu.Lock()
		delete(f.calls, id)
		f.callMu.Unlock()
	}()

	if err := f.write(rpcRequest{
		Version: jsonrpcVersion,
		Method:  method,
		Params:  params,
		ID:      id,
	}); err != nil {
		return nil, err
	}

	select {
	case rep := <-ch:
		return rep.result, rep.err
	case <-cctx.Done():
		return nil, fmt.Errorf("host feed: call %s: %w", method, cctx.Err())
	}
}

func (f *Feed) write(req rpcRequest) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	if f.conn == nil {
		return errors.New("host feed: not connected")
	}
	return f.conn.WriteJSON(req)
}

func (f *Feed) failCalls(err error) {
	f.callMu.Lock()
	defer f.callMu.Unlock()

	for id, ch := range f.calls {
		ch <- rpcReply{err: err}
		delete(f.calls, id)
	}
}

// ---- incoming dispatch ----

// dispatchRaw handles a single message or a batch.
func (f *Feed) dispatchRaw(raw []byte) {
	raw = bytes.TrimSpace(raw)

	if len(raw) > 0 && raw[0] == '[' {
		var batch []json.RawMessage
		if err := json.Unmarshal(raw, &batch); err != nil {
			f.log.Debug().Err(err).Msg("host feed: bad batch payload")
			return
		}
		for _, item := range batch {
			f.dispatch(item)
		}
		return
	}

	f.dispatch(raw)
}

func (f *Feed) dispatch(raw []byte) {
	var msg rpcEnvelope
	if err := json.Unmarshal(raw, &msg); err != nil {
		f.log.Debug().Err(err).Msg("host feed: bad payload")
		return
	}
	if msg.Version != jsonrpcVersion {
		return
	}

	switch {
	case msg.ID != nil && (msg.Result != nil || msg.Error != nil):
		f.deliver(*msg.ID, msg)
	case msg.Method != "":
		f.notifyMethod(msg.Method, msg.Params)
	}
}

func (f *Feed) deliver(id int64, msg rpcEnvelope) {
	f.callMu.Lock()
	ch, ok := f.calls[id]
	if ok {
		delete(f.calls, id)
	}
	f.callMu.Unlock()

	if !ok {
		return
	}

	if msg.Error != nil {
		ch <- rpcReply{err: msg.Error}
		return
	}
	ch <- rpcReply{result: msg.Result}
}

func (f *Feed) notifyMethod(method string, params json.RawMessage) {
	switch method {
	case "notify_status_update":
		// params is [status, eventtime]
		var parts []json.RawMessage
		if err := json.Unmarshal(params, &parts); err != nil || len(parts) == 0 {
			return
		}
		f.applyStatus(parts[0])

	case "notify_klippy_ready":
		f.listener.OnKlippyState(KlippyReady)
	case "notify_klippy_shutdown":
		f.listener.OnKlippyState(KlippyShutdown)
	case "notify_klippy_disconnected":
		f.listener.OnKlippyState(KlippyDisconnected)
	}
}

// applyStatus extracts print_stats.state from a status object. Status
// updates are deltas, so the field may simply be absent.
func (f *Feed) applyStatus(raw json.RawMessage) {
	var st struct {
		PrintStats *struct {
			State *string `json:"state"`
		} `json:"print_stats"`
	}

	if err := json.Unmarshal(raw, &st); err != nil {
		return
	}
	if st.PrintStats == nil || st.PrintStats.State == nil {
		return
	}

	f.listener.OnPrinterState(PrinterStateFor(*st.PrintStats.State))
}
