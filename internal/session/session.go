// Package session is the boundary to the hosting real-time voice session.
// Transcribed utterances arrive as JSON bus messages over a websocket; the
// only thing sent back is spoken-text instructions. Audio never touches
// this process.
package session

import (
	"context"
	"encoding/json"
	log "log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	KindTranscript = "transcript"
	KindSpeak      = "speak"

	shard          = "valet"
	reconnectDelay = 2 * time.Second
)

type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// Handler processes one utterance. speak delivers spoken text back to the
// session and stays valid after the handler returns, for late tool results.
type Handler func(ctx context.Context, utterance string, speak func(text string) error)

type Session struct {
	url string

	mu   sync.Mutex // guards writes; tool goroutines speak concurrently
	conn *websocket.Conn
}

func Dial(url string) (*Session, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}

	log.Info("Connected to session bus", "url", url)
	return &Session{url: url, conn: conn}, nil
}

// Run reads bus messages until ctx is cancelled, feeding each transcript to
// handler one at a time. A closed connection triggers a reconnect loop; a
// bad frame is logged and skipped.
func (s *Session) Run(ctx context.Context, handler Handler) {
	for {
		if ctx.Err() != nil {
			return
		}

		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			// A read error leaves the connection unusable either way.
			log.Warn("Session bus read failed, reconnecting", "url", s.url, "err", err)
			s.reconnect(ctx)
			continue
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Warn("Dropping malformed bus message", "err", err)
			continue
		}
		if msg.Kind != KindTranscript {
			continue
		}

		from := msg.From
		speak := func(text string) error {
			return s.write(Message{
				From:    shard,
				To:      from,
				Kind:    KindSpeak,
				Content: text,
			})
		}

		handler(ctx, msg.Content, speak)
	}
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

func (s *Session) write(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Session) reconnect(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.Dial(s.url, nil)
		if err == nil {
			s.mu.Lock()
			s.conn = conn
			s.mu.Unlock()
			log.Info("Reconnected to session bus", "url", s.url)
			return
		}

		time.Sleep(reconnectDelay)
	}
}
