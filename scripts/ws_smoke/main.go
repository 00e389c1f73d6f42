package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"parley/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	name := flag.String("name", "smoke-tester", "display name to join with")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(frameType string, v any) error {
		payload, marshalErr := json.Marshal(v)
		if marshalErr != nil {
			return fmt.Errorf("marshal %s: %w", frameType, marshalErr)
		}
		if writeErr := wsjson.Write(ctx, conn, proto.Inbound{Type: frameType, Data: payload}); writeErr != nil {
			return fmt.Errorf("send %s: %w", frameType, writeErr)
		}
		return nil
	}

	if err := send(proto.InboundTypeJoin, proto.JoinData{DisplayName: *name}); err != nil {
		return err
	}
	if err := send(proto.InboundTypeMessage, proto.MessageData{Text: *text}); err != nil {
		return err
	}

	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		fmt.Printf("Received outbound: type=%s\n", outbound.Type)

		raw, err := json.Marshal(outbound.Data)
		if err != nil {
			return fmt.Errorf("marshal outbound data: %w", err)
		}

		switch outbound.Type {
		case proto.OutboundTypeMessage:
			var evt proto.MessageEvent
			if unmarshalErr := json.Unmarshal(raw, &evt); unmarshalErr != nil {
				fmt.Printf("Raw data: %s\n", string(raw))
				return fmt.Errorf("unmarshal message: %w", unmarshalErr)
			}
			fmt.Printf("MessageEvent: sender=%s text=%q ts=%s\n", evt.SenderName, evt.Text, evt.Timestamp.Format(time.RFC3339))
			return nil
		case proto.OutboundTypeWelcome:
			var evt proto.WelcomeData
			if err := json.Unmarshal(raw, &evt); err == nil {
				fmt.Printf("Welcome: session=%s name=%s\n", evt.SessionID, evt.DisplayName)
			}
		case proto.OutboundTypeError:
			var evt proto.ErrorData
			if err := json.Unmarshal(raw, &evt); err == nil {
				fmt.Printf("Error: %s\n", evt.Text)
			}
		default:
			// keep looping for the echoed message
		}
	}
}
