package server

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Nerahikada/BlueLight/packet"
	"github.com/rs/zerolog"
)

const queueTimeout = time.Second * 10

// PacketHandler is a function that is able to process a packet from the given client.
type PacketHandler func(sender *net.UDPAddr, header *packet.PacketHeader, pk packet.Packet) error

// The server receives control packets from tooling and passes them on to its handlers. It only
// receives data, and never sends a response back to any sender.
type Server struct {
	// logger is the logger used for the server.
	logger zerolog.Logger
	// conn is the underlying connection from where the Server reads incoming packets from.
	conn *net.UDPConn
	// msgQueue is the queue for messages sent by clients to the server. This queue is handled by various
	// workers.
	msgQueue chan *packet.Message
	// running is an atomic boolean that is set to true once the server starts listening for connections.
	running atomic.Bool
	// started is set by the first call to Start, stopped by the first call to Stop.
	started  atomic.Bool
	stopped  atomic.Bool
	stopOnce sync.Once
	stopErr  error
	workers  int
	wg       sync.WaitGroup

	packetHandlers []PacketHandler
}

// New creates a server listening on the port of the config. Handlers must be added before Start is
// called.
func New(cfg Config, logger zerolog.Logger) (*Server, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: cfg.Port})
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", cfg.Port, err)
	}

	return &Server{
		logger:         logger,
		conn:           conn,
		msgQueue:       make(chan *packet.Message, 65535),
		workers:        max(cfg.Workers, 1),
		packetHandlers: make([]PacketHandler, 0),
	}, nil
}

// Addr returns the address the server is listening on.
func (srv *Server) Addr() *net.UDPAddr {
	return srv.conn.LocalAddr().(*net.UDPAddr)
}

// AddHandler adds a packet handler to the list of the server's packet handlers.
func (srv *Server) AddHandler(handler PacketHandler) {
	if srv.running.Load() {
		panic(fmt.Errorf("cannot add packet handler when server is running"))
	}
	srv.packetHandlers = append(srv.packetHandlers, handler)
}

// Start starts the server's workers and listens for packets on it's connection. It blocks until Stop
// is called and all queued messages were processed.
func (srv *Server) Start() {
	if !srv.started.CompareAndSwap(false, true) {
		panic("server is already started")
	}
	if srv.stopped.Load() {
		close(srv.msgQueue)
		return
	}
	srv.running.Store(true)
	for i := 0; i < srv.workers; i++ {
		srv.wg.Add(1)
		go srv.worker(i)
	}
	srv.logger.Info().Str("addr", srv.Addr().String()).Int("workers", srv.workers).Msg("control server listening")

	srv.listen()
	close(srv.msgQueue)
	srv.wg.Wait()
}

// Stop stops the server and it's processing of packets. The connection is closed even if Start was
// never called, in which case a later Start returns immediately.
func (srv *Server) Stop() error {
	srv.stopOnce.Do(func() {
		srv.stopped.Store(true)
		srv.running.Store(false)
		srv.stopErr = srv.conn.Close()
	})
	return srv.stopErr
}

func (srv *Server) worker(id int) {
	defer func() {
		if v := recover(); v != nil {
			srv.logger.Err(fmt.Errorf("%v", v)).Int("workerID", id).Msg("worker crashed")
			go srv.worker(id)
			return
		}
		srv.wg.Done()
	}()
	srv.logger.Debug().Int("worker", id).Msg("server worker started")

	for msg := range srv.msgQueue {
		srv.handleMessage(msg)
	}
}

func (srv *Server) handleMessage(msg *packet.Message) {
	defer msg.Dispose()
	defer func() {
		if v := recover(); v != nil {
			srv.logger.Err(fmt.Errorf("%v", v)).
				Str("sender", msg.Sender().String()).
				Msg("error occured when attempting to process message")
		}
	}()

	header, pk, ok := msg.Decode()
	if !ok {
		srv.logger.Warn().
			Str("addr", msg.Sender().String()).
			Uint64("packetID", header.PacketID).
			Str("passphrase", base64.StdEncoding.EncodeToString(header.Passphrase)).
			Msg("unable to find packet with ID")
		return
	}

	for _, handler := range srv.packetHandlers {
		if err := handler(msg.Sender(), header, pk); err != nil {
			srv.logger.Warn().Err(err).
				Str("addr", msg.Sender().String()).
				Uint64("packetID", header.PacketID).
				Msg("packet handler failed")
			return
		}
	}
}

func (srv *Server) listen() {
	msgBuffer := make([]byte, 1492)
	for srv.running.Load() {
		size, senderAddr, err := srv.conn.ReadFromUDP(msgBuffer)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			srv.logger.Err(err).Msg("failed to read message")
			continue
		}

		select {
		case srv.msgQueue <- packet.NewMessage(msgBuffer[:size], senderAddr):
			// OK
		case <-time.After(queueTimeout):
			srv.logger.Warn().Str("addr", senderAddr.String()).Msg("failed to push message into queue")
		}
	}
}
