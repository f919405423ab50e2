package network

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/Nerahikada/BlueLight/entity"
	"github.com/Nerahikada/BlueLight/world"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sandertv/gophertunnel/minecraft"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// spawnPosition is where joining players are put. The slice has no terrain, so players are placed
// somewhere they can watch fireworks from.
var spawnPosition = mgl32.Vec3{0.5, 64, 0.5}

// Listener accepts Bedrock Edition clients and adds them to a world as viewers.
type Listener struct {
	logger    zerolog.Logger
	world     *world.World
	listener  *minecraft.Listener
	worldName string
}

// Listen starts listening for Bedrock clients on the address.
func Listen(addr, worldName string, w *world.World, logger zerolog.Logger) (*Listener, error) {
	l, err := minecraft.ListenConfig{}.Listen("raknet", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	return &Listener{
		logger:    logger,
		world:     w,
		listener:  l,
		worldName: worldName,
	}, nil
}

// Addr returns the address the listener is bound to.
func (l *Listener) Addr() net.Addr {
	return l.listener.Addr()
}

// Serve accepts connections until the context is cancelled or the listener fails.
func (l *Listener) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = l.listener.Close()
	}()

	l.logger.Info().Str("addr", l.Addr().String()).Msg("accepting bedrock connections")
	for {
		c, err := l.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		go l.handleConn(c.(*minecraft.Conn))
	}
}

func (l *Listener) handleConn(conn *minecraft.Conn) {
	defer conn.Close()

	identity := conn.IdentityData()
	key, err := viewerKey(identity.Identity)
	if err != nil {
		l.logger.Warn().Err(err).Str("name", identity.DisplayName).Msg("rejecting connection")
		return
	}
	log := l.logger.With().Str("player", identity.DisplayName).Str("uuid", key).Logger()

	runtimeID := entity.NextRuntimeID()
	err = conn.StartGame(minecraft.GameData{
		WorldName:       l.worldName,
		EntityUniqueID:  int64(runtimeID),
		EntityRuntimeID: runtimeID,
		PlayerPosition:  spawnPosition,
		WorldSpawn:      protocol.BlockPos{0, 64, 0},
		PlayerGameMode:  3,
	})
	if err != nil {
		log.Err(err).Msg("failed to start game")
		return
	}

	l.world.AddViewer(key, conn)
	defer l.world.RemoveViewer(key)
	log.Info().Msg("player joined")

	for {
		if _, err := conn.ReadPacket(); err != nil {
			if !errors.Is(err, net.ErrClosed) {
				log.Debug().Err(err).Msg("connection closed")
			}
			log.Info().Msg("player left")
			return
		}
	}
}

// viewerKey turns the identity UUID of a player into the key the player is known by in the world.
func viewerKey(identity string) (string, error) {
	id, err := uuid.Parse(identity)
	if err != nil {
		return "", fmt.Errorf("invalid identity %q: %w", identity, err)
	}
	if id == uuid.Nil {
		return "", errors.New("identity must not be the nil UUID")
	}
	return id.String(), nil
}
