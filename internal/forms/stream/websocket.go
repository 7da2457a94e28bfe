package stream

import (
	"context"
	"errors"
	"fmt"
	"formflow/internal/forms/domain"
	"formflow/internal/forms/httpclient"
	"formflow/internal/forms/usecases"
	"formflow/internal/logger"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	_writeWait       = 10 * time.Second
	_handshakeWait   = 10 * time.Second
	_defaultReadSize = 1 << 20
)

type Config struct {
	BaseURL string
	// ReadTimeout bounds the silence tolerated between frames; zero waits
	// forever. Server pings count as traffic.
	ReadTimeout time.Duration
	ReadLimit   int64
}

var _ usecases.SnapshotStreamDialer = (*Dialer)(nil)

// Dialer opens analytics push channels at <base>/ws/forms/{id}.
type Dialer struct {
	config Config
	dialer *websocket.Dialer
	log    logger.Logger
}

func NewDialer(config Config, log logger.Logger) *Dialer {
	if config.ReadLimit <= 0 {
		config.ReadLimit = _defaultReadSize
	}
	return &Dialer{
		config: config,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: _handshakeWait,
		},
		log: logger.OrNop(log),
	}
}

func (d *Dialer) URL(formID domain.ID) string {
	return httpclient.WebSocketURL(d.config.BaseURL, "/ws/forms/"+formID.String())
}

func (d *Dialer) Dial(ctx context.Context, formID domain.ID) (usecases.SnapshotStream, error) {
	target := d.URL(formID)

	conn, resp, err := d.dialer.DialContext(ctx, target, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dialing %s: %s: %w", target, resp.Status, err)
		}
		return nil, fmt.Errorf("dialing %s: %w", target, err)
	}

	conn.SetReadLimit(d.config.ReadLimit)

	s := &Stream{
		conn:        conn,
		readTimeout: d.config.ReadTimeout,
		closed:      make(chan struct{}),
		log:         d.log,
	}
	if s.readTimeout > 0 {
		conn.SetPingHandler(func(appData string) error {
			conn.SetReadDeadline(time.Now().Add(s.readTimeout))
			s.writeMu.Lock()
			defer s.writeMu.Unlock()
			err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(_writeWait))
			if errors.Is(err, websocket.ErrCloseSent) {
				return nil
			}
			return err
		})
	}

	go s.closeOnDone(ctx)

	d.log.Debugw("analytics stream opened", "form_id", formID, "url", target)

	return s, nil
}

var _ usecases.SnapshotStream = (*Stream)(nil)

// Stream is one open websocket. Writes are serialized; Close may race with a
// blocked Receive, which then returns usecases.ErrStreamClosed.
type Stream struct {
	conn        *websocket.Conn
	readTimeout time.Duration
	writeMu     sync.Mutex
	closeOnce   sync.Once
	closed      chan struct{}
	log         logger.Logger
}

func (s *Stream) Send(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(_writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// Receive returns the next text frame. Binary frames are skipped.
func (s *Stream) Receive(ctx context.Context) ([]byte, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.readTimeout > 0 {
			s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		}

		messageType, payload, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.closed:
				return nil, usecases.ErrStreamClosed
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, usecases.ErrStreamClosed
			}
			return nil, fmt.Errorf("reading frame: %w", err)
		}
		if messageType != websocket.TextMessage {
			continue
		}
		return payload, nil
	}
}

func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closed)

		s.writeMu.Lock()
		_ = s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		s.writeMu.Unlock()

		err = s.conn.Close()
		s.log.Debugw("analytics stream closed", "remote_addr", s.conn.RemoteAddr().String())
	})
	return err
}

func (s *Stream) closeOnDone(ctx context.Context) {
	select {
	case <-ctx.Done():
		_ = s.Close()
	case <-s.closed:
	}
}
