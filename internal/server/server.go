package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/gaslab/internal/gas"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Command is one inbound control message from a connected client.
type Command struct {
	Action  string  `json:"action"`
	Value   float64 `json:"value"`
	Species string  `json:"species,omitempty"`
}

// Server steps the simulation in real time and broadcasts a snapshot to
// every websocket client each frame. Inbound commands mutate the
// simulation between steps.
type Server struct {
	addr      string
	frameRate int

	mu      sync.Mutex
	sim     *gas.Sim
	clients map[*websocket.Conn]bool
}

func New(sim *gas.Sim, addr string, frameRate int) *Server {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &Server{
		addr:      addr,
		frameRate: frameRate,
		sim:       sim,
		clients:   make(map[*websocket.Conn]bool),
	}
}

// Run blocks until the context is cancelled or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	srv := &http.Server{Addr: s.addr, Handler: mux}

	go s.loop(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", s.addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Handler exposes the websocket endpoint for embedding in another mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if _, ok := err.(websocket.HandshakeError); !ok {
			log.Println(err)
		}
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	go s.readSocket(conn)
}

func (s *Server) readSocket(conn *websocket.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			return
		}

		s.mu.Lock()
		s.apply(cmd)
		s.mu.Unlock()
	}
}

// Apply executes one control command against the simulation.
func (s *Server) Apply(cmd Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(cmd)
}

func (s *Server) apply(cmd Command) {
	switch cmd.Action {
	case "pump":
		species := gas.Heavy
		if cmd.Species == gas.Light.Name {
			species = gas.Light
		}
		n := int(cmd.Value)
		if n < 0 {
			n = 0
		}
		s.sim.SetTarget(species, n)
	case "width":
		s.sim.RequestWidth(cmd.Value)
	case "wall-speed":
		s.sim.SetWallSpeed(cmd.Value)
	case "end-resize":
		s.sim.EndResize()
	case "heat":
		s.sim.SetHeatCool(cmd.Value)
	case "hold":
		s.sim.SetHoldMode(gas.HoldMode(int(cmd.Value)))
	case "divider":
		if cmd.Value > 0 {
			s.sim.Container.SetDivider(cmd.Value)
		} else {
			s.sim.Container.RemoveDivider()
		}
	case "lid":
		s.sim.Container.SetLidOpening(cmd.Value)
	case "collisions":
		s.sim.SetCollisionsEnabled(cmd.Value != 0)
	}
}

func (s *Server) loop(ctx context.Context) {
	interval := time.Second / time.Duration(s.frameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.frame()
		}
	}
}

func (s *Server) frame() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sim.Step(0.2); err != nil {
		log.Printf("step failed: %v", err)
		return
	}
	if len(s.clients) == 0 {
		return
	}

	data, err := json.Marshal(s.sim.Snapshot())
	if err != nil {
		log.Printf("marshal: %v", err)
		return
	}

	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			delete(s.clients, conn)
			conn.Close()
		}
	}
}
