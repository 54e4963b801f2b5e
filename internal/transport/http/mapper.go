package http

import (
	"context"
	"encoding/json"

	"github.com/vovakirdan/roomcast-server/internal/core"
	"github.com/vovakirdan/roomcast-server/internal/proto"
)

// dispatch decodes an inbound envelope and invokes the coordinator. It
// returns a protocol error for malformed-but-parseable input and a hard
// error only for undecodable payloads.
func (h *WSHandler) dispatch(ctx context.Context, client *core.Client, inbound proto.Inbound) (*proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, err
		}
		if join.Room == "" {
			return &proto.Error{Code: "bad_request", Msg: "room is required"}, nil
		}
		h.coordinator.Join(ctx, client.ID, join.Room, join.Token)
		return nil, nil
	case proto.InboundTypeMsg:
		var msg proto.MsgData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, err
		}
		if msg.Room == "" {
			return &proto.Error{Code: "bad_request", Msg: "room is required"}, nil
		}
		h.coordinator.Send(ctx, client.ID, msg.Room, msg.Text, msg.Token)
		return nil, nil
	case proto.InboundTypeStats:
		h.coordinator.RequestStats(client.ID)
		return nil, nil
	default:
		return &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventAvailableRooms:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameAvailableRooms,
			Data:  statsToProto(event.Stats),
		}
	case core.EventRoomStats:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameRoomStats,
			Data:  statsToProto(event.Stats),
		}
	case core.EventJoinedRoom:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameJoinedRoom,
			Data: proto.EventJoinedRoom{
				Room:  event.Room,
				Name:  event.DisplayName,
				Count: event.Occupancy,
			},
		}
	case core.EventUserJoined:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameUserJoined,
			Data: proto.EventUserJoined{
				Room: event.Room,
				Nick: event.Nick,
			},
		}
	case core.EventUserLeft:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameUserLeft,
			Data: proto.EventUserLeft{
				Room: event.Room,
				Nick: event.Nick,
			},
		}
	case core.EventRoomOccupancy:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameRoomCount,
			Data: proto.EventRoomCount{
				Room:  event.Room,
				Count: event.Occupancy,
			},
		}
	case core.EventHistory:
		messages := make([]proto.EventMessage, 0, len(event.Messages))
		for _, msg := range event.Messages {
			messages = append(messages, messageToProto(msg))
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNamePrevMessages,
			Data: proto.EventHistory{
				Room:     event.Room,
				Messages: messages,
			},
		}
	case core.EventMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameNewMessage,
			Data:  messageToProto(event.Message),
		}
	case core.EventAuthError:
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Event: proto.EventNameAuthError,
			Error: errorToProto(event.Error),
		}
	case core.EventError:
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Event: proto.EventNameErrorMessage,
			Error: errorToProto(event.Error),
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func statsToProto(stats []core.RoomStat) []proto.RoomStat {
	out := make([]proto.RoomStat, 0, len(stats))
	for _, s := range stats {
		out = append(out, proto.RoomStat{
			ID:    s.ID,
			Name:  s.DisplayName,
			Count: s.Occupancy,
		})
	}
	return out
}

func messageToProto(msg core.Message) proto.EventMessage {
	return proto.EventMessage{
		ID:     msg.ID,
		Room:   msg.Room,
		UserID: msg.UserID,
		Nick:   msg.Nick,
		Text:   msg.Text,
		TS:     msg.CreatedAt.Unix(),
	}
}

func errorToProto(coreErr *core.CoreError) *proto.Error {
	if coreErr == nil {
		return &proto.Error{Code: "unknown", Msg: "unknown error"}
	}
	return &proto.Error{Code: coreErr.Code, Msg: coreErr.Message}
}
