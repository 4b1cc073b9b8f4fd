package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"brainbuzz/internal/app"
	"brainbuzz/internal/domain"
)

// Inbound message types.
const (
	msgAnswer = "answer"
	msgGuess  = "guess"
	msgNext   = "next"
	msgFinish = "finish"
)

type WSHandler struct {
	games    *app.GameService
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(games *app.GameService, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		games: games,
		log:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Choice *int `json:"choice"`
}

type guessPayload struct {
	Word string `json:"word"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ServeWS starts a play of the game in the path and streams its events over
// the upgraded connection. Closing the socket abandons an unfinished play.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	player := playerFrom(r)
	if !player.SignedIn() && player.Device == "" {
		respondError(w, "missing device or token", http.StatusBadRequest)
		return
	}

	play, err := h.games.Start(r.Context(), domain.GameKind(chi.URLParam(r, "game")), player)
	if err != nil {
		respondErr(w, err)
		return
	}
	defer play.Abandon()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	log := h.log.With().Str("play", play.ID()).Str("game", string(play.Game())).Logger()
	events, cancel := play.Subscribe()
	defer cancel()

	send := make(chan outboundMessage, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug().Err(err).Msg("ws write error")
				return
			}
		}
	}()

	// emit never blocks on a dead writer.
	emit := func(msg outboundMessage) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	go func() {
		defer close(eventsDone)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage{Type: ev.Type, Payload: ev.Payload}:
				case <-writerDone:
					return
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	play.Begin()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if err := h.dispatch(r, play, inbound); err != nil {
			emit(outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}})
		}
	}
	log.Debug().Msg("ws closed")

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}

var (
	errBadPayload  = errors.New("invalid message payload")
	errUnsupported = errors.New("unsupported message type")
)

// dispatch applies one client move. Results reach the client as play events;
// only rejected moves are returned.
func (h *WSHandler) dispatch(r *http.Request, play app.Play, msg inboundMessage) error {
	ctx := r.Context()
	switch msg.Type {
	case msgAnswer:
		qp, ok := play.(app.QuizPlayer)
		if !ok {
			return domain.ErrWrongGame
		}
		var payload answerPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Choice == nil {
			return errBadPayload
		}
		_, err := qp.Answer(ctx, *payload.Choice)
		return err
	case msgGuess:
		wp, ok := play.(app.WordPlayer)
		if !ok {
			return domain.ErrWrongGame
		}
		var payload guessPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return errBadPayload
		}
		_, err := wp.Guess(ctx, payload.Word)
		return err
	case msgNext:
		qp, ok := play.(app.QuizPlayer)
		if !ok {
			return domain.ErrWrongGame
		}
		return qp.Next(ctx)
	case msgFinish:
		_, err := play.Finish(ctx)
		return err
	}
	return errUnsupported
}
