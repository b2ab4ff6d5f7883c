// Command simcore is the composition root: load configuration, build the
// terrain/world state, wire the reference transport and persistence
// adapters, and run the fixed-step tick loop until a shutdown signal
// arrives. The simulation core itself (internal/world) never imports
// internal/transport or internal/persist directly — this binary is the
// only place that does.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/simcore/internal/command"
	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/config"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
	"github.com/l1jgo/simcore/internal/persist"
	"github.com/l1jgo/simcore/internal/scripting"
	"github.com/l1jgo/simcore/internal/terrain"
	"github.com/l1jgo/simcore/internal/transport"
	"github.com/l1jgo/simcore/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, serverID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              simcore  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m     authoritative tick · spatial sim      \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s \033[90m(id: %d)\033[0m\n\n", serverName, serverID)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	cfgPath := "config/server.toml"
	if p := os.Getenv("SIMCORE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID)

	printSection("database")
	bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(bootCtx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	printOK("postgres connected")

	if err := persist.RunMigrations(bootCtx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	printOK("migrations applied")

	adapter := persist.NewAdapter(db)
	guilds, err := adapter.LoadGuilds(bootCtx)
	if err != nil {
		return fmt.Errorf("load guilds: %w", err)
	}
	fmt.Println()

	printSection("world data")
	zones, err := terrain.LoadZoneTable("data/zones.yaml", "data/zones")
	if err != nil {
		return fmt.Errorf("load zone table: %w", err)
	}
	printStat("zones", zones.Count())
	printStat("guilds", len(guilds))

	luaEngine, err := scripting.NewEngine("scripts", log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("lua scripts loaded")
	fmt.Println()

	wcfg := world.Config{
		TickHz:            cfg.Simulation.TickHz,
		GridCellSize:      cfg.Simulation.GridCellSize,
		AggroDefault:      cfg.Simulation.AggroDefault,
		LeashDefault:      cfg.Simulation.LeashDefault,
		CCDRWindowS:       cfg.Simulation.CCDRWindowS,
		CCImmunityS:       cfg.Simulation.CCImmunityS,
		PathWorkers:       cfg.Simulation.PathWorkers,
		PathExpansion:     cfg.Simulation.PathExpansion,
		PersistBatchTicks: cfg.Simulation.PersistBatchTicks,
	}
	w := world.NewWorld(wcfg, zones, cfg.Server.StartTime)
	w.Persist = adapter
	w.Formula = scripting.NewLuaFormula(luaEngine)

	netServer, err := transport.NewServer(cfg.Network.BindAddress, cfg.Network.InQueueSize, cfg.Network.OutQueueSize, log)
	if err != nil {
		return fmt.Errorf("transport server: %w", err)
	}
	go netServer.AcceptLoop()

	conn := newConnectionHub(w, adapter, log)
	go conn.acceptSessions(netServer)
	conn.subscribeOutbound(w)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	systemTicker := time.NewTicker(w.StepDuration())
	inputPoll := time.NewTicker(2 * time.Millisecond)
	defer systemTicker.Stop()
	defer inputPoll.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("listening on %s", netServer.Addr().String()))
	printReady(fmt.Sprintf("tick rate %s, input poll 2ms", w.StepDuration()))
	fmt.Println()

	for {
		select {
		case <-systemTicker.C:
			w.Step()
		case <-inputPoll.C:
			// Drains commands into World's inbox between ticks so a command
			// arriving right after a tick starts doesn't wait a full tick
			// period before inputSystem picks it up; inputSystem itself
			// still only runs once per Step, at PhaseInput.
			conn.drainSessions(bootCtx)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			conn.saveAll(context.Background())
			netServer.Shutdown()
			log.Info("server stopped")
			return nil
		}
	}
}

// connectionHub owns the mapping between transport sessions and the
// entities they drive, the one piece of state the simulation core itself
// deliberately knows nothing about (spec §6's "core never touches the
// wire" boundary). All world-mutating calls it makes happen on the same
// goroutine as the tick loop (drainSessions, the event subscriptions),
// matching World's single-tick-thread-owner contract.
type connectionHub struct {
	w       *world.World
	persist *persist.Adapter
	log     *zap.Logger

	mu       sync.Mutex
	sessions map[uint64]*transport.Session
	entities map[uint64]uint64 // sessionID -> entity id, stored as uint64 to avoid an ecs import here
}

func newConnectionHub(w *world.World, p *persist.Adapter, log *zap.Logger) *connectionHub {
	return &connectionHub{
		w:        w,
		persist:  p,
		log:      log,
		sessions: make(map[uint64]*transport.Session),
		entities: make(map[uint64]uint64),
	}
}

func (c *connectionHub) acceptSessions(srv *transport.Server) {
	for sess := range srv.NewSessions() {
		c.mu.Lock()
		c.sessions[sess.ID] = sess
		c.mu.Unlock()
		sess.Start()
	}
}

// drainSessions pulls decoded commands off every live session. Authenticate
// is handled here rather than in world.Dispatch: it resolves a durable
// character row into a live entity, which needs the concrete persistence
// adapter, not the narrower world.PersistencePort the core sees.
func (c *connectionHub) drainSessions(ctx context.Context) {
	c.mu.Lock()
	sessions := make([]*transport.Session, 0, len(c.sessions))
	for _, sess := range c.sessions {
		sessions = append(sessions, sess)
	}
	c.mu.Unlock()

	for _, sess := range sessions {
		if sess.IsClosed() {
			c.forget(sess.ID)
			continue
		}
		c.drainOne(ctx, sess)
	}
}

func (c *connectionHub) drainOne(ctx context.Context, sess *transport.Session) {
	for {
		select {
		case cmd, ok := <-sess.Commands():
			if !ok {
				c.forget(sess.ID)
				return
			}
			if auth, isAuth := cmd.(command.Authenticate); isAuth {
				c.authenticate(ctx, sess, auth)
				continue
			}
			c.w.Enqueue(cmd)
		default:
			return
		}
	}
}

// authenticate resolves Token as a character name, loading or creating its
// row, then spawns the entity and binds it to the session.
func (c *connectionHub) authenticate(ctx context.Context, sess *transport.Session, auth command.Authenticate) {
	charID, err := c.persist.LoadByName(ctx, auth.Token)
	if err != nil {
		charID, err = c.persist.CreateCharacter(ctx, auth.Token, auth.Token, 1, 0, 0, 0)
		if err != nil {
			c.log.Error("create character failed", zap.String("name", auth.Token), zap.Error(err))
			sess.Close()
			return
		}
	}
	snap, err := c.persist.LoadCharacter(ctx, charID)
	if err != nil {
		c.log.Error("load character failed", zap.Int64("character_id", charID), zap.Error(err))
		sess.Close()
		return
	}

	id := world.SpawnCharacter(c.w, auth.SessionID, snap)
	sess.SetState(transport.StateInWorld)

	c.mu.Lock()
	c.entities[sess.ID] = uint64(id)
	c.mu.Unlock()

	c.log.Info("character entered world", zap.String("name", snap.Name), zap.Int64("character_id", charID))
}

func (c *connectionHub) forget(sessionID uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, sessionID)
	delete(c.entities, sessionID)
}

// subscribeOutbound fans every interest/combat/match event out to every
// session currently in world. A deployment that needs per-observer
// filtering narrower than internal/interest's own Enter/Leave diff would
// add a recipient field to the event types themselves; this reference
// wiring broadcasts, trading bandwidth for simplicity.
func (c *connectionHub) subscribeOutbound(w *world.World) {
	broadcast := func(ev any) {
		c.mu.Lock()
		defer c.mu.Unlock()
		for _, sess := range c.sessions {
			if sess.State() != transport.StateInWorld {
				continue
			}
			if err := sess.SendEvent(ev); err != nil {
				c.log.Debug("send event failed", zap.Error(err))
			}
		}
	}
	event.Subscribe(w.Bus, func(ev event.EntitySpawn) { broadcast(ev) })
	event.Subscribe(w.Bus, func(ev event.EntityDespawn) { broadcast(ev) })
	event.Subscribe(w.Bus, func(ev event.PositionDelta) { broadcast(ev) })
	event.Subscribe(w.Bus, func(ev event.DamageDealt) { broadcast(ev) })
	event.Subscribe(w.Bus, func(ev event.EntityDied) { broadcast(ev) })
	event.Subscribe(w.Bus, func(ev event.MatchStateChanged) { broadcast(ev) })
}

// saveAll flushes every connected character's snapshot on shutdown, ahead
// of persistSystem's normal batch cadence.
func (c *connectionHub) saveAll(ctx context.Context) {
	c.w.Store.Session.Each(func(id ecs.EntityID, _ *component.SessionRef) {
		snap, ok := world.SnapshotOf(c.w, id)
		if !ok {
			return
		}
		if err := c.persist.SaveCharacter(ctx, snap); err != nil {
			c.log.Error("save on shutdown failed", zap.Int64("character_id", snap.CharacterID), zap.Error(err))
		}
	})
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
