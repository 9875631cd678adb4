// follow-monitor prints live telemetry from a running follower's dashboard.
//
// Usage:
//
//	follow-monitor -addr localhost:8080
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/teslashibe/go-follow/internal/httpc"
	"github.com/teslashibe/go-follow/pkg/follow"
	"github.com/teslashibe/go-follow/pkg/web"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "Dashboard host:port")
	verbose := flag.Bool("v", false, "Print error signals and latency")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *addr, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, addr string, verbose bool) error {
	var st web.Status
	if err := httpc.GetJSON(ctx, "http://"+addr+"/api/status", &st); err != nil {
		return fmt.Errorf("status: %w", err)
	}
	fmt.Printf("session %s, up %s, %d cycles\n", st.Session, st.Uptime, st.Stats.Cycles)

	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws/telemetry"}
	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", u.String(), err)
	}
	defer conn.Close()

	sum := newSummary()
	defer func() { fmt.Println(sum) }()

	go func() {
		<-ctx.Done()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		var c follow.Cycle
		if err := json.Unmarshal(data, &c); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  bad telemetry: %v\n", err)
			continue
		}
		sum.add(c)
		fmt.Println(formatCycle(c, verbose))
	}
}

func formatCycle(c follow.Cycle, verbose bool) string {
	line := fmt.Sprintf("L=%.2f R=%.2f state=%s", c.Command.Left, c.Command.Right, c.Command.State)
	if c.Command.IsStop() {
		line += " cause=" + c.Command.Cause.String()
	}
	if c.ErrText != "" {
		line += " error=" + c.ErrText
	}
	if verbose {
		if e := c.Command.Errors; e != nil {
			line += fmt.Sprintf(" x=%+.3f d=%.3f", e.X, e.D)
		}
		line += fmt.Sprintf(" seq=%d latency=%s", c.Seq, c.Latency)
	}
	return line
}
