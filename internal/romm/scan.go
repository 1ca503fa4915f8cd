package romm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/websocket"
)

// ScanSocket pushes rescan requests to the server over its websocket channel.
// One short-lived connection per trigger: the signal is fire-and-forget and
// the server does the actual scanning asynchronously.
type ScanSocket struct {
	wsURL  string
	origin string
	token  string
	logger *slog.Logger
}

// NewScanSocket creates a scan trigger bound to the server's websocket endpoint
func NewScanSocket(baseURL, token string, logger *slog.Logger) *ScanSocket {
	if logger == nil {
		logger = slog.Default()
	}

	wsURL := strings.Replace(baseURL, "http://", "ws://", 1)
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)

	return &ScanSocket{
		wsURL:  wsURL + "/ws/scan",
		origin: baseURL,
		token:  token,
		logger: logger,
	}
}

// TriggerScan asks the server to rescan the given platforms. Implements
// domain.ScanNotifier.
func (s *ScanSocket) TriggerScan(ctx context.Context, platformIDs []int, rescan bool) error {
	cfg, err := websocket.NewConfig(s.wsURL, s.origin)
	if err != nil {
		return fmt.Errorf("failed to build websocket config: %w", err)
	}
	cfg.Header.Set("Authorization", "Bearer "+s.token)

	conn, err := websocket.DialConfig(cfg)
	if err != nil {
		s.logger.Error("scan socket dial failed", "error", err)
		return fmt.Errorf("failed to reach scan socket: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetWriteDeadline(deadline)
	}

	frame := scanFrame{Platforms: platformIDs, CompleteScan: rescan}
	if err := websocket.JSON.Send(conn, frame); err != nil {
		s.logger.Error("scan trigger send failed", "error", err)
		return fmt.Errorf("failed to send scan trigger: %w", err)
	}

	s.logger.Info("triggered library scan", "platforms", platformIDs, "rescan", rescan)
	return nil
}
