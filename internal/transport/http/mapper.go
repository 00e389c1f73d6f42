package http

import (
	"encoding/json"
	"fmt"

	"parley/internal/core"
	"parley/internal/proto"
)

// inboundToCommand maps a wire frame to an engine command. A non-nil error
// means the frame was malformed or unknown; per the error taxonomy such
// frames are dropped with a warning and never terminate the connection.
func inboundToCommand(inbound proto.Inbound) (*core.Command, error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if len(inbound.Data) > 0 {
			if err := json.Unmarshal(inbound.Data, &join); err != nil {
				return nil, fmt.Errorf("decode join: %w", err)
			}
		}
		return &core.Command{Kind: core.CommandJoin, Name: join.DisplayName}, nil
	case proto.InboundTypeMessage:
		var msg proto.MessageData
		if len(inbound.Data) == 0 {
			return nil, fmt.Errorf("message frame without payload")
		}
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		return &core.Command{Kind: core.CommandSendMessage, Text: msg.Text}, nil
	case proto.InboundTypeTypingStart:
		return &core.Command{Kind: core.CommandTypingStart}, nil
	case proto.InboundTypeTypingStop:
		return &core.Command{Kind: core.CommandTypingStop}, nil
	default:
		return nil, fmt.Errorf("unknown frame type %q", inbound.Type)
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventWelcome:
		return proto.Outbound{
			Type: proto.OutboundTypeWelcome,
			Data: proto.WelcomeData{SessionID: event.SessionID, DisplayName: event.Name},
		}
	case core.EventHistory:
		messages := make([]proto.MessageEvent, 0, len(event.Messages))
		for _, msg := range event.Messages {
			messages = append(messages, messageEvent(msg))
		}
		return proto.Outbound{
			Type: proto.OutboundTypeHistory,
			Data: proto.HistoryData{Messages: messages},
		}
	case core.EventMessage:
		return proto.Outbound{
			Type: proto.OutboundTypeMessage,
			Data: messageEvent(event.Message),
		}
	case core.EventSystem:
		return proto.Outbound{
			Type: proto.OutboundTypeSystem,
			Data: proto.SystemData{Text: event.Text, Timestamp: event.Timestamp},
		}
	case core.EventRoster:
		sessions := make([]proto.RosterEntry, 0, len(event.Roster))
		for _, entry := range event.Roster {
			sessions = append(sessions, proto.RosterEntry{SessionID: entry.SessionID, DisplayName: entry.Name})
		}
		return proto.Outbound{
			Type: proto.OutboundTypeRoster,
			Data: proto.RosterData{Sessions: sessions},
		}
	case core.EventTypingRoster:
		names := event.Typing
		if names == nil {
			names = []string{}
		}
		return proto.Outbound{
			Type: proto.OutboundTypeTypingRoster,
			Data: proto.TypingRosterData{DisplayNames: names},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{
				Type: proto.OutboundTypeError,
				Data: proto.ErrorData{Code: "unknown", Text: "unknown error"},
			}
		}
		return proto.Outbound{
			Type: proto.OutboundTypeError,
			Data: proto.ErrorData{Code: event.Error.Code, Text: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeSystem}
	}
}

func messageEvent(msg core.Message) proto.MessageEvent {
	return proto.MessageEvent{
		Text:          msg.Text,
		SenderName:    msg.Sender,
		Timestamp:     msg.CreatedAt,
		IsDirect:      msg.Direct,
		RecipientName: msg.Recipient,
	}
}
