package castv2

import (
	"context"
	"crypto/tls"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// DefaultHeartbeat is how often virtual connections are pinged.
const DefaultHeartbeat = 5 * time.Second

// maxFrameSize is the largest message a receiver accepts.
const maxFrameSize = 64 << 10

// closeTimeout bounds how long Close waits to say goodbye.
const closeTimeout = time.Second

// ErrClosed is returned by requests on a closed channel.
var ErrClosed = errors.New("cast channel closed")

// A vconn is a virtual connection represented by a pair of source and
// destination ID.
type vconn struct {
	LocalID  string
	RemoteID string
}

func (vc vconn) NewMsg(namespace, payload string) *Msg {
	return &Msg{vc.LocalID, vc.RemoteID, namespace, payload}
}

func (vc vconn) control(namespace, msgType string) *Msg {
	return vc.NewMsg(namespace, `{"type":"`+msgType+`"}`)
}

// Channel represents a cast channel to the receiver device.
//
// It also manages the virtual connections. If a messages will be sent
// to a new source and destination ID pair, a virtual connection will be
// automatically established and kept alive.
type Channel struct {
	conn      io.ReadWriteCloser
	log       zerolog.Logger
	heartbeat time.Duration

	// wmu serializes frames on the wire.
	wmu sync.Mutex

	mu      sync.Mutex
	vconns  map[vconn]struct{}
	pending map[uint64]chan *Msg
	subs    []func(*Msg)

	lastReqID atomic.Uint64

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Option configures a Channel.
type Option func(*Channel)

// WithLogger sets the logger for protocol errors.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Channel) { c.log = l }
}

// WithHeartbeat overrides DefaultHeartbeat. Zero disables heartbeats.
func WithHeartbeat(d time.Duration) Option {
	return func(c *Channel) { c.heartbeat = d }
}

// Dial connects to the receiver device at addr over TLS. Receivers use
// self-signed certificates, so the certificate is not verified.
func Dial(ctx context.Context, addr string, opts ...Option) (*Channel, error) {
	d := &tls.Dialer{
		// #nosec G402 -- cast devices present self-signed certificates
		Config: &tls.Config{InsecureSkipVerify: true},
	}

	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	return NewChannel(conn, opts...), nil
}

// NewChannel returns a Channel speaking over conn and starts reading
// from it.
func NewChannel(conn io.ReadWriteCloser, opts ...Option) *Channel {
	c := &Channel{
		conn:      conn,
		log:       zerolog.Nop(),
		heartbeat: DefaultHeartbeat,
		vconns:    make(map[vconn]struct{}),
		pending:   make(map[uint64]chan *Msg),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.wg.Add(1)
	go c.listen()
	if c.heartbeat > 0 {
		c.wg.Add(1)
		go c.keepalive()
	}

	return c
}

// readMsg reads a message from the channel and blocks until it returns.
func (c *Channel) readMsg() (*Msg, error) {
	// Each message is prefixed with its length as a big-endian uint32.
	var n uint32
	if err := binary.Read(c.conn, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	if n > maxFrameSize {
		return nil, fmt.Errorf("frame of %d bytes exceeds limit", n)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(c.conn, buf); err != nil {
		return nil, err
	}

	msg := new(Msg)
	err := msg.UnmarshalBinary(buf)

	return msg, err
}

// writeMsg sends the message over the wire. Callers hold wmu.
func (c *Channel) writeMsg(msg *Msg) error {
	data, err := msg.MarshalBinary()
	if err != nil {
		return err
	}

	frame := make([]byte, 4+len(data))
	binary.BigEndian.PutUint32(frame, uint32(len(data)))
	copy(frame[4:], data)

	_, err = c.conn.Write(frame)
	return err
}

func (c *Channel) write(msg *Msg) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	return c.writeMsg(msg)
}

func (c *Channel) listen() {
	defer c.wg.Done()
	defer c.shutdown()

	for {
		msg, err := c.readMsg()
		if errors.Is(err, ErrBinaryPayload) {
			continue
		}
		if err != nil {
			select {
			case <-c.done:
			default:
				c.log.Warn().Err(err).Msg("cast channel read failed")
			}
			return
		}

		c.handle(msg)
	}
}

func (c *Channel) handle(msg *Msg) {
	var h Header
	if err := json.Unmarshal([]byte(msg.Payload), &h); err != nil {
		c.log.Debug().Str("payload", msg.Payload).Msg("unexpected payload")
		return
	}

	vc := vconn{msg.DestinationID, msg.SourceID}
	switch msg.Namespace {
	case NamespaceHeartbeat:
		if h.Type == TypePing {
			if err := c.write(vc.control(NamespaceHeartbeat, TypePong)); err != nil {
				c.log.Warn().Err(err).Msg("cast pong failed")
			}
		}
		return
	case NamespaceConnection:
		if h.Type == TypeClose {
			c.mu.Lock()
			delete(c.vconns, vc)
			c.mu.Unlock()
		}
		return
	}

	c.mu.Lock()
	respCh, ok := c.pending[h.RequestID]
	delete(c.pending, h.RequestID)
	subs := c.subs
	c.mu.Unlock()

	if ok {
		respCh <- msg
		return
	}

	for _, fn := range subs {
		fn(msg)
	}
}

func (c *Channel) keepalive() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			vcs := make([]vconn, 0, len(c.vconns))
			for vc := range c.vconns {
				vcs = append(vcs, vc)
			}
			c.mu.Unlock()

			for _, vc := range vcs {
				if err := c.write(vc.control(NamespaceHeartbeat, TypePing)); err != nil {
					c.log.Warn().Err(err).Msg("cast heartbeat failed")
				}
			}
		}
	}
}

func (c *Channel) shutdown() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Done is closed once the channel stops reading, either after Close or
// because the connection was lost.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Close terminates all established virtual connections and then closes
// the underlying connection.
func (c *Channel) Close() error {
	select {
	case <-c.done:
	default:
		if wd, ok := c.conn.(interface{ SetWriteDeadline(time.Time) error }); ok {
			_ = wd.SetWriteDeadline(time.Now().Add(closeTimeout))
		}

		c.mu.Lock()
		vcs := make([]vconn, 0, len(c.vconns))
		for vc := range c.vconns {
			vcs = append(vcs, vc)
			delete(c.vconns, vc)
		}
		c.mu.Unlock()

		for _, vc := range vcs {
			_ = c.write(vc.control(NamespaceConnection, TypeClose))
		}
	}

	c.shutdown()
	err := c.conn.Close()
	c.wg.Wait()

	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// Subscribe registers fn for broadcasts and for responses nobody is
// waiting for. fn runs on the channel's reader goroutine.
func (c *Channel) Subscribe(fn func(*Msg)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.subs = append(c.subs, fn)
}

// Send sends a request without waiting for its response.
func (c *Channel) Send(srcID, destID, namespace string, req Request) error {
	req.SetRequestID(c.lastReqID.Add(1))

	return c.send(vconn{srcID, destID}, namespace, req)
}

// Request sends a request and waits for the response carrying its
// request ID.
func (c *Channel) Request(ctx context.Context, srcID, destID, namespace string, req Request) (*Msg, error) {
	id := c.lastReqID.Add(1)
	req.SetRequestID(id)

	respCh := make(chan *Msg, 1)
	c.mu.Lock()
	c.pending[id] = respCh
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	if err := c.send(vconn{srcID, destID}, namespace, req); err != nil {
		return nil, err
	}

	select {
	case msg := <-respCh:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, ErrClosed
	}
}

func (c *Channel) send(vc vconn, namespace string, req Request) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()

	c.mu.Lock()
	_, connected := c.vconns[vc]
	c.vconns[vc] = struct{}{}
	c.mu.Unlock()

	if !connected {
		if err := c.writeMsg(vc.control(NamespaceConnection, TypeConnect)); err != nil {
			c.mu.Lock()
			delete(c.vconns, vc)
			c.mu.Unlock()
			return fmt.Errorf("connect %s: %w", vc.RemoteID, err)
		}
	}

	return c.writeMsg(vc.NewMsg(namespace, string(payload)))
}
