package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	httpadapter "github.com/Ilovko/r6s/internal/adapters/http"
	"github.com/Ilovko/r6s/internal/editor"
)

// watchSession follows the live channel of the HTTP server. It always talks
// to cfg.Server, whatever transport the other commands use.
func watchSession(ctx context.Context, cfg cliConfig, onFrame func(editor.Frame) error) error {
	endpoint, err := liveURL(cfg.Server, cfg.Session)
	if err != nil {
		return err
	}
	conn, _, err := websocket.Dial(ctx, endpoint, nil)
	if err != nil {
		return err
	}
	defer conn.CloseNow()

	for {
		var msg httpadapter.LiveMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				return conn.Close(websocket.StatusNormalClosure, "")
			}
			if websocket.CloseStatus(err) == websocket.StatusGoingAway {
				fmt.Println("session closed")
				return nil
			}
			return err
		}
		switch msg.Type {
		case "frame":
			if msg.Frame != nil {
				if err := onFrame(*msg.Frame); err != nil {
					return err
				}
			}
		case "error":
			return errors.New(msg.Error)
		}
	}
}

func liveURL(server, session string) (string, error) {
	u, err := url.Parse(strings.TrimRight(server, "/"))
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path += "/ws/sessions/" + url.PathEscape(session)
	return u.String(), nil
}
