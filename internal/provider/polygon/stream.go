package polygon

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/david89it/trading-opportunities-platform/internal/domain/models"
	drepo "github.com/david89it/trading-opportunities-platform/internal/domain/repository"
	"github.com/david89it/trading-opportunities-platform/pkg/logger"

	"github.com/gorilla/websocket"
)

// Stream implements a MarketStream backed by the Polygon stocks WebSocket.
type Stream struct {
	apiKey         string
	websocketURL   string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	log            *logger.Logger

	conn      *websocket.Conn
	connected bool
}

// NewStream creates a quote stream for the given symbols.
func NewStream(apiKey, websocketURL string, symbols []string, reconnectDelay, pingInterval time.Duration, log *logger.Logger) drepo.MarketStream {
	return &Stream{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		log:            log,
	}
}

// Connect dials the WebSocket and authenticates.
func (s *Stream) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.websocketURL, nil)
	if err != nil {
		return fmt.Errorf("polygon connect: %w", err)
	}
	s.conn = conn

	auth := map[string]string{"action": "auth", "params": s.apiKey}
	if err := conn.WriteJSON(auth); err != nil {
		_ = conn.Close()
		return fmt.Errorf("polygon auth: %w", err)
	}

	s.connected = true
	if s.log != nil {
		s.log.Info("polygon stream connected")
	}
	return nil
}

// Subscribe subscribes to quote events for the configured symbols.
func (s *Stream) Subscribe(_ context.Context) error {
	if s.conn == nil || !s.connected {
		return fmt.Errorf("polygon stream not connected")
	}

	channels := make([]string, len(s.symbols))
	for i, sym := range s.symbols {
		channels[i] = "Q." + sym
	}
	msg := map[string]string{"action": "subscribe", "params": strings.Join(channels, ",")}
	if err := s.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("polygon subscribe: %w", err)
	}

	if s.log != nil {
		s.log.Info("polygon stream subscribed", logger.Int("symbols", len(s.symbols)))
	}
	return nil
}

type wsQuote struct {
	Event     string  `json:"ev"`
	Symbol    string  `json:"sym"`
	Bid       float64 `json:"bp"`
	Ask       float64 `json:"ap"`
	Timestamp int64   `json:"t"` // ms
}

// Read streams Quote events and errors until ctx is done or the connection
// drops. Events are dropped on backpressure rather than blocking the reader.
func (s *Stream) Read(ctx context.Context) (<-chan *models.Quote, <-chan error) {
	quotes := make(chan *models.Quote, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if s.conn != nil {
					_ = s.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(quotes)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if s.conn == nil {
					errs <- fmt.Errorf("polygon conn nil")
					return
				}
				_, b, err := s.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("polygon read: %w", err)
					return
				}

				var events []wsQuote
				if err := json.Unmarshal(b, &events); err != nil {
					// status and auth frames are not arrays of quotes
					continue
				}
				for _, ev := range events {
					if ev.Event != "Q" {
						continue
					}
					q := &models.Quote{
						Symbol:    ev.Symbol,
						Bid:       ev.Bid,
						Ask:       ev.Ask,
						Timestamp: ev.Timestamp,
					}
					select {
					case quotes <- q:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return quotes, errs
}

// Reconnect closes and re-establishes the connection and subscriptions.
func (s *Stream) Reconnect(ctx context.Context) error {
	_ = s.Close()
	time.Sleep(s.reconnectDelay)
	if err := s.Connect(ctx); err != nil {
		return err
	}
	return s.Subscribe(ctx)
}

// Close closes the WebSocket connection.
func (s *Stream) Close() error {
	s.connected = false
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// IsConnected indicates connection status.
func (s *Stream) IsConnected() bool { return s.connected }
