package wire

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/massim-fleetctl/internal/domain/action"
)

const (
	// defaultActionRate bounds outbound action writes; the server only ever
	// asks for one per step per agent, but a reconnect storm across 16
	// agent sockets must not hammer it, the same defensive posture the
	// teacher gives its outbound HTTP client.
	defaultActionRate  = rate.Limit(16)
	defaultActionBurst = 16
)

// Conn is one agent's socket connection: authenticate, then alternate
// receiving a request-action and sending back one action until the server
// closes the stream with sim-end/bye.
type Conn struct {
	conn    net.Conn
	reader  *bufio.Reader
	limiter *rate.Limiter
}

// Dial opens a TCP connection to addr and authenticates as username.
func Dial(ctx context.Context, addr, username, password string) (*Conn, error) {
	var d net.Dialer
	nc, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("wire: dial %s: %w", addr, err)
	}
	c := &Conn{
		conn:    nc,
		reader:  bufio.NewReader(nc),
		limiter: rate.NewLimiter(defaultActionRate, defaultActionBurst),
	}
	if err := c.authenticate(username, password); err != nil {
		nc.Close()
		return nil, err
	}
	return c, nil
}

func (c *Conn) authenticate(username, password string) error {
	req := AuthRequest{Type: "auth-request", Username: username, Password: password}
	if err := writeMessage(c.conn, req); err != nil {
		return err
	}
	var resp AuthResponse
	if err := readMessage(c.reader, &resp); err != nil {
		return err
	}
	if resp.Result != "ok" {
		return fmt.Errorf("wire: auth rejected: %s", resp.Result)
	}
	return nil
}

// NextSimStart blocks for the match's sim-start message.
func (c *Conn) NextSimStart() (SimStart, error) {
	var msg SimStart
	err := readMessage(c.reader, &msg)
	return msg, err
}

// NextRequestAction blocks for the next per-step perception message, or
// returns ErrSimEnded once the server sends sim-end/bye instead.
func (c *Conn) NextRequestAction() (RequestAction, error) {
	raw, err := c.reader.ReadBytes(0)
	if err != nil {
		return RequestAction{}, fmt.Errorf("wire: read message: %w", err)
	}
	raw = raw[:len(raw)-1]

	kind, err := peekType(raw)
	if err != nil {
		return RequestAction{}, err
	}
	switch kind {
	case "sim-end", "bye":
		return RequestAction{}, ErrSimEnded
	}

	var msg RequestAction
	if err := decodeXML(raw, &msg); err != nil {
		return RequestAction{}, err
	}
	return msg, nil
}

// SendAction submits one agent's decision for the given request-action id,
// blocking on the rate limiter so a burst of late responses can never
// exceed the outbound budget.
func (c *Conn) SendAction(ctx context.Context, requestID string, a action.Action) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wire: rate limit wait: %w", err)
	}
	msg := ActionMessage{
		Type:   "action",
		ID:     requestID,
		Kind:   string(a.Type),
		Params: encodeParams(a),
	}
	return writeMessage(c.conn, msg)
}

// Close shuts down the underlying socket.
func (c *Conn) Close() error {
	return c.conn.Close()
}

func encodeParams(a action.Action) []ParamXML {
	var params []ParamXML
	add := func(name, value string) {
		if value != "" {
			params = append(params, ParamXML{Name: name, Value: value})
		}
	}
	add("facility", a.Facility)
	add("item", a.Item)
	if a.Amount != 0 {
		add("amount", fmt.Sprint(a.Amount))
	}
	add("job", a.JobID)
	add("agent", a.Agent)
	return params
}

// errSimEnded is a sentinel so callers can stop their request/respond loop
// on a normal match end instead of treating it as a socket failure.
type errSimEnded struct{}

func (errSimEnded) Error() string { return "wire: simulation ended" }

// ErrSimEnded is returned by NextRequestAction once the server has sent
// sim-end or bye in place of another request-action.
var ErrSimEnded error = errSimEnded{}

// DeadlineTime converts a request-action's unix-millis deadline into a
// time.Time the caller can feed to context.WithDeadline.
func DeadlineTime(millis int64) time.Time {
	return time.UnixMilli(millis)
}
