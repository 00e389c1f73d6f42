package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"parley/internal/core"
	"parley/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	name := flag.String("name", "cli-user", "display name to join with")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	joinPayload, err := json.Marshal(proto.JoinData{DisplayName: *name})
	if err != nil {
		return fmt.Errorf("marshal join: %w", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeJoin, Data: joinPayload}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Printf("Connected to %s as %s\n", *addr, *name)
	fmt.Println("Type messages and press Enter to send. Start with @name for a direct message. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, conn)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	// The welcome frame tells us our own name; it is filtered out of the
	// typing line so we never see "you are typing".
	var self string

	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			if ctx.Err() != nil {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		raw, err := json.Marshal(outbound.Data)
		if err != nil {
			log.Printf("marshal outbound data: %v", err)
			continue
		}

		switch outbound.Type {
		case proto.OutboundTypeWelcome:
			var evt proto.WelcomeData
			if err := json.Unmarshal(raw, &evt); err != nil {
				log.Printf("unmarshal welcome: %v", err)
				continue
			}
			self = evt.DisplayName
			fmt.Printf("* joined as %s (session %s)\n", evt.DisplayName, evt.SessionID)
		case proto.OutboundTypeHistory:
			var evt proto.HistoryData
			if err := json.Unmarshal(raw, &evt); err != nil {
				log.Printf("unmarshal history: %v", err)
				continue
			}
			for _, msg := range evt.Messages {
				printMessage(msg)
			}
		case proto.OutboundTypeMessage:
			var evt proto.MessageEvent
			if err := json.Unmarshal(raw, &evt); err != nil {
				log.Printf("unmarshal message: %v", err)
				continue
			}
			printMessage(evt)
		case proto.OutboundTypeSystem:
			var evt proto.SystemData
			if err := json.Unmarshal(raw, &evt); err != nil {
				log.Printf("unmarshal system: %v", err)
				continue
			}
			fmt.Printf("* %s\n", evt.Text)
		case proto.OutboundTypeRoster:
			var evt proto.RosterData
			if err := json.Unmarshal(raw, &evt); err != nil {
				log.Printf("unmarshal roster: %v", err)
				continue
			}
			names := make([]string, 0, len(evt.Sessions))
			for _, s := range evt.Sessions {
				names = append(names, s.DisplayName)
			}
			fmt.Printf("* online: %s\n", strings.Join(names, ", "))
		case proto.OutboundTypeTypingRoster:
			var evt proto.TypingRosterData
			if err := json.Unmarshal(raw, &evt); err != nil {
				log.Printf("unmarshal typing roster: %v", err)
				continue
			}
			line := core.FormatTypingRoster(core.WithoutName(evt.DisplayNames, self))
			if line != "" {
				fmt.Printf("* %s\n", line)
			}
		case proto.OutboundTypeError:
			var evt proto.ErrorData
			if err := json.Unmarshal(raw, &evt); err != nil {
				log.Printf("unmarshal error: %v", err)
				continue
			}
			fmt.Printf("! %s\n", evt.Text)
		default:
			fmt.Printf("type=%s data=%s\n", outbound.Type, string(raw))
		}
	}
}

func printMessage(evt proto.MessageEvent) {
	ts := evt.Timestamp.Format("15:04:05")
	if evt.IsDirect {
		fmt.Printf("[%s] %s -> %s (dm): %s\n", ts, evt.SenderName, evt.RecipientName, evt.Text)
		return
	}
	fmt.Printf("[%s] %s: %s\n", ts, evt.SenderName, evt.Text)
}

func writeLoop(ctx context.Context, conn *websocket.Conn) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}

			payload, err := json.Marshal(proto.MessageData{Text: text})
			if err != nil {
				log.Printf("marshal message: %v", err)
				return
			}
			if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeMessage, Data: payload}); err != nil {
				log.Printf("send error: %v", err)
				return
			}
		}
	}
}
