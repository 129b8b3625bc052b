package web

import (
	"context"
	"log"

	"cloud.google.com/go/pubsub"
	"github.com/gin-gonic/gin"

	"melbgo/config"
	"melbgo/gate"
	"melbgo/mq/gcppubsub"
	"melbgo/mq/goch"
	"melbgo/mq/mq"
	"melbgo/mq/rabbit"
	"melbgo/state"
	"melbgo/store/mem"
	"melbgo/store/pg"
	st "melbgo/store/store"
	"melbgo/suggest"
	"melbgo/trip"
)

// StoreMode selects the document store backend.
type StoreMode string

const (
	StoreModeMemory   StoreMode = "memory"
	StoreModePostgres StoreMode = "postgres"
)

type ServiceConfig struct {
	IsDev     bool
	Port      string
	MqMode    mq.Mode
	StoreMode StoreMode
}

// Serve wires up the full backend and runs the HTTP server: store,
// change queue, access gate, the trip state controller and its live
// subscription, then the REST and websocket surface on top.
func Serve(cfg ServiceConfig) {
	ctx := context.Background()

	if !cfg.IsDev {
		gin.SetMode(gin.ReleaseMode)
	}

	store := buildStore(cfg.StoreMode)
	queue := buildQueue(ctx, cfg.MqMode)
	defer func() {
		if err := queue.Close(); err != nil {
			log.Printf("failed to close message queue: %v", err)
		}
	}()

	g := buildGate()
	controller := state.NewController(trip.ID, state.NewAdapter(store, queue), g)
	if err := controller.Start(); err != nil {
		log.Fatalf("Failed to start trip controller: %v", err)
	}
	defer controller.Close()

	suggester := suggest.New(ctx)

	r := gin.New()
	setupMiddlewares(r)

	h := NewHandler(controller, suggester)
	h.RegisterRoutes(r)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run web server: %v", err)
	}
}

func buildStore(mode StoreMode) st.DocumentStore {
	switch mode {
	case StoreModePostgres:
		db, err := pg.InitPostgresGORM(pg.CreateDSN())
		if err != nil {
			log.Fatalf("Failed to connect to postgres: %v", err)
		}
		return pg.NewGORMDocumentStore(db)
	default:
		return mem.NewInMemoryDocumentStore()
	}
}

func buildQueue(ctx context.Context, mode mq.Mode) mq.DocumentMessageQueue {
	switch mode {
	case mq.ModeRabbitMQ:
		conn := rabbit.NewRabbitConnection(rabbit.CreateAmqpURL())
		queue, err := rabbit.NewRabbitDocumentMessageQueue(conn)
		if err != nil {
			log.Fatalf("Failed to create rabbitmq queue: %v", err)
		}
		return queue
	case mq.ModeGCPPubSub:
		client, err := pubsub.NewClient(ctx, gcppubsub.GetGCPProjectID())
		if err != nil {
			log.Fatalf("Failed to create pubsub client: %v", err)
		}
		queue, err := gcppubsub.NewPubSubDocumentMessageQueue(ctx, client)
		if err != nil {
			log.Fatalf("Failed to create pubsub queue: %v", err)
		}
		return queue
	default:
		return goch.NewChannelDocumentMessageQueue(16)
	}
}

func buildGate() *gate.Gate {
	markerPath, err := gate.DefaultMarkerPath(config.AppName)
	if err != nil {
		log.Printf("auth marker disabled: %v", err)
		return gate.New(config.SharedSecret(), nil)
	}
	return gate.New(config.SharedSecret(), gate.NewFileMarkerStore(markerPath))
}
