package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/roomcast-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	api := flag.String("api", "http://localhost:8080", "HTTP API base URL")
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	email := flag.String("email", "smoke@example.com", "account email")
	password := flag.String("password", "password123", "account password")
	nick := flag.String("nick", "smoke", "nick used when the account has to be created")
	room := flag.String("room", "general", "room id")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	token, err := obtainToken(ctx, *api, *email, *password, *nick)
	if err != nil {
		return err
	}

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(msgType string, data any) error {
		payload, marshalErr := json.Marshal(data)
		if marshalErr != nil {
			return fmt.Errorf("marshal %s: %w", msgType, marshalErr)
		}
		if writeErr := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload}); writeErr != nil {
			return fmt.Errorf("send %s: %w", msgType, writeErr)
		}
		return nil
	}

	if err := send(proto.InboundTypeJoin, proto.JoinData{Room: *room, Token: token}); err != nil {
		return err
	}
	if err := send(proto.InboundTypeMsg, proto.MsgData{Room: *room, Text: *text, Token: token}); err != nil {
		return err
	}

	for {
		var outbound struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
			Error *proto.Error    `json:"error"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		fmt.Printf("Received outbound: type=%s", outbound.Type)
		if outbound.Event != "" {
			fmt.Printf(" event=%s", outbound.Event)
		}
		fmt.Println()

		if outbound.Error != nil {
			return fmt.Errorf("server error: %s (%s)", outbound.Error.Msg, outbound.Error.Code)
		}

		switch outbound.Event {
		case proto.EventNameNewMessage:
			var evt proto.EventMessage
			if unmarshalErr := json.Unmarshal(outbound.Data, &evt); unmarshalErr != nil {
				fmt.Printf("Raw data: %s\n", string(outbound.Data))
				return fmt.Errorf("unmarshal message: %w", unmarshalErr)
			}
			fmt.Printf("EventMessage: room=%s nick=%s text=%q ts=%d\n", evt.Room, evt.Nick, evt.Text, evt.TS)
			return nil
		case proto.EventNameUserJoined:
			var evt proto.EventUserJoined
			if err := json.Unmarshal(outbound.Data, &evt); err == nil {
				fmt.Printf("Join: room=%s nick=%s\n", evt.Room, evt.Nick)
			}
		case proto.EventNameUserLeft:
			var evt proto.EventUserLeft
			if err := json.Unmarshal(outbound.Data, &evt); err == nil {
				fmt.Printf("Left: room=%s nick=%s\n", evt.Room, evt.Nick)
			}
		default:
			// keep looping for the echoed message
		}
	}
}

// obtainToken logs in, registering the account first if it does not exist.
func obtainToken(ctx context.Context, api, email, password, nick string) (string, error) {
	token, err := authRequest(ctx, api+"/api/auth/login", map[string]string{
		"email": email, "password": password,
	})
	if err == nil {
		return token, nil
	}

	token, regErr := authRequest(ctx, api+"/api/auth/register", map[string]string{
		"email": email, "password": password, "nick": nick,
	})
	if regErr != nil {
		return "", fmt.Errorf("login: %v; register: %w", err, regErr)
	}
	return token, nil
}

func authRequest(ctx context.Context, url string, body map[string]string) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("%s returned no token", url)
	}
	return out.Token, nil
}
