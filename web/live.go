/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package web

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"bennypowers.dev/learnjq/pipeline"
	"bennypowers.dev/learnjq/session"
	"bennypowers.dev/learnjq/stage"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 << 10
)

// Client message types.
const (
	MessageFilter   = "filter"
	MessageStage    = "stage"
	MessageNavigate = "navigate"
)

// Server message types.
const (
	MessageState   = "state"
	MessageOutcome = "outcome"
	MessageError   = "error"
)

// ClientMessage is a message from the browser.
type ClientMessage struct {
	Type     string `json:"type"`
	Filter   string `json:"filter,omitempty"`
	ID       string `json:"id,omitempty"`
	Location string `json:"location,omitempty"`
}

// StageInfo describes the current stage in a state message.
type StageInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Panels holds rendered HTML for the static panels.
type Panels struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
	Filter   string `json:"filter"`
}

// OutcomeMessage carries one evaluation result.
type OutcomeMessage struct {
	Type       string        `json:"type,omitempty"`
	Generation uint64        `json:"generation"`
	Kind       pipeline.Kind `json:"kind"`
	Text       string        `json:"text"`
	HTML       string        `json:"html"`
	Verdict    string        `json:"verdict,omitempty"`
}

// StateMessage replaces the whole page state.
type StateMessage struct {
	Type       string         `json:"type"`
	Session    string         `json:"session"`
	Stage      StageInfo      `json:"stage"`
	Prev       string         `json:"prev"`
	Next       string         `json:"next"`
	Filter     string         `json:"filter"`
	Location   string         `json:"location"`
	Generation uint64         `json:"generation"`
	Push       bool           `json:"push"`
	Panels     Panels         `json:"panels"`
	Outcome    OutcomeMessage `json:"outcome"`
}

// FilterMessage acknowledges a filter edit with the re-highlighted overlay.
type FilterMessage struct {
	Type       string `json:"type"`
	Filter     string `json:"filter"`
	Location   string `json:"location"`
	Generation uint64 `json:"generation"`
	HTML       string `json:"html"`
}

// ErrorMessage reports a rejected client message.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// liveConn serialises writes to one websocket.
type liveConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *liveConn) send(v any) error {
	return c.sendBuilt(func() any { return v })
}

// sendBuilt builds and writes a message under the write lock, so a snapshot
// taken by build is never overtaken by an older outcome.
func (c *liveConn) sendBuilt(build func() any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(build())
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	s.sessions.Add(1)
	defer s.sessions.Done()
	defer ws.Close()
	ws.SetReadLimit(maxMessageSize)

	conn := &liveConn{conn: ws}

	// The pipeline may publish before New returns.
	var live atomic.Pointer[session.Session]
	sess := session.New(s.Catalog(), s.opts.Engine, func(u pipeline.Update) {
		current := live.Load()
		if current == nil {
			return
		}
		msg := s.outcomeMessage(current.Stage(), u.Generation, u.Outcome)
		msg.Type = MessageOutcome
		if err := conn.send(msg); err != nil {
			s.log.Debug("send outcome", zap.Error(err))
		}
	}, session.Options{Debounce: s.opts.Debounce, Messages: s.opts.Messages})
	defer sess.Close()

	log := s.log.With(zap.String("session", sess.ID()))
	log.Debug("session opened")
	defer log.Debug("session closed")

	// Closing the socket unblocks ReadJSON when the server shuts down.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-r.Context().Done():
			_ = ws.Close()
		case <-stop:
		}
	}()

	if raw := r.URL.Query().Get("location"); raw != "" {
		if _, err := sess.Navigate(raw); err != nil {
			_ = conn.send(ErrorMessage{Type: MessageError, Message: err.Error()})
		}
	}
	live.Store(sess)
	if err := conn.sendBuilt(func() any { return s.stateMessage(sess, false) }); err != nil {
		return
	}

	for {
		var msg ClientMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("read", zap.Error(err))
			}
			return
		}

		var reply func() any
		switch msg.Type {
		case MessageFilter:
			gen := sess.SetFilter(msg.Filter)
			reply = func() any { return s.filterMessage(sess, gen) }
			log.Debug("filter", zap.Uint64("generation", gen))
		case MessageStage:
			_, err := sess.SelectStage(msg.ID)
			reply = s.stateReply(sess, true, err)
		case MessageNavigate:
			_, err := sess.Navigate(msg.Location)
			reply = s.stateReply(sess, false, err)
		default:
			reply = errorReply("unknown message type " + msg.Type)
		}
		if err := conn.sendBuilt(reply); err != nil {
			log.Debug("send", zap.Error(err))
			return
		}
	}
}

func (s *Server) stateReply(sess *session.Session, push bool, err error) func() any {
	if err != nil {
		return errorReply(err.Error())
	}
	return func() any { return s.stateMessage(sess, push) }
}

func errorReply(message string) func() any {
	return func() any { return ErrorMessage{Type: MessageError, Message: message} }
}

func (s *Server) outcomeMessage(st *stage.Stage, gen uint64, out pipeline.Outcome) OutcomeMessage {
	html, err := s.render.outcome(out)
	if err != nil {
		s.log.Error("render outcome", zap.Error(err))
	}
	return OutcomeMessage{
		Generation: gen,
		Kind:       out.Kind,
		Text:       out.Text,
		HTML:       html,
		Verdict:    s.render.verdict(st, out),
	}
}

func (s *Server) stateMessage(sess *session.Session, push bool) StateMessage {
	snap := sess.Snapshot()
	st := sess.Stage()
	catalog := sess.Catalog()
	prev, _ := catalog.Prev(st.ID())
	next, _ := catalog.Next(st.ID())

	input, _ := s.render.json(st.InputText())
	expected, _ := s.render.json(st.ExpectedText())
	filter, _ := s.render.filter(snap.Filter)

	return StateMessage{
		Type:       MessageState,
		Session:    snap.ID,
		Stage:      StageInfo{ID: st.ID(), Title: st.Title(), Description: st.Description()},
		Prev:       prev.ID(),
		Next:       next.ID(),
		Filter:     snap.Filter,
		Location:   snap.Location,
		Generation: snap.Generation,
		Push:       push,
		Panels:     Panels{Input: input, Expected: expected, Filter: filter},
		Outcome:    s.outcomeMessage(st, snap.Generation, snap.Outcome),
	}
}

func (s *Server) filterMessage(sess *session.Session, gen uint64) FilterMessage {
	snap := sess.Snapshot()
	html, _ := s.render.filter(snap.Filter)
	return FilterMessage{
		Type:       MessageFilter,
		Filter:     snap.Filter,
		Location:   snap.Location,
		Generation: gen,
		HTML:       html,
	}
}
