// syncd runs one user session headless: it hydrates the accessors, announces
// the session and keeps local state fresh by refetching on every push event.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tchindavaldo/yaammoo-core/internal/bonus"
	"github.com/Tchindavaldo/yaammoo-core/internal/bridge"
	"github.com/Tchindavaldo/yaammoo-core/internal/config"
	"github.com/Tchindavaldo/yaammoo-core/internal/domain"
	"github.com/Tchindavaldo/yaammoo-core/internal/kafka"
	"github.com/Tchindavaldo/yaammoo-core/internal/merchant"
	"github.com/Tchindavaldo/yaammoo-core/internal/notify"
	"github.com/Tchindavaldo/yaammoo-core/internal/orders"
	"github.com/Tchindavaldo/yaammoo-core/internal/redisx"
	"github.com/Tchindavaldo/yaammoo-core/internal/rest"
	"github.com/Tchindavaldo/yaammoo-core/internal/session"
	"github.com/Tchindavaldo/yaammoo-core/internal/wallet"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.SessionUserID == "" {
		log.Fatal("syncd: SESSION_USER_ID is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := rest.NewClient(cfg.APIBaseURL)
	cache := redisx.NewCache(redisx.New(cfg.RedisAddr))

	holder := session.New(api, cache)
	holder.Subscribe(func(u *domain.User) {
		if u == nil {
			log.Println("syncd: signed out")
			return
		}
		log.Printf("syncd: signed in as %s", u.UID)
	})

	ids := make(chan *session.Identity, 1)
	ids <- &session.Identity{UID: cfg.SessionUserID}
	go holder.Run(ctx, ids)

	userOrders := orders.New(api, cfg.SessionUserID)
	notifications := notify.New(api, cfg.SessionUserID, cfg.SessionFastFoodID)
	transactions := wallet.New(api, cfg.SessionUserID)
	bonuses := bonus.New(api, cfg.SessionUserID)

	br := &bridge.Bridge{
		UserID:        cfg.SessionUserID,
		FastFoodID:    cfg.SessionFastFoodID,
		Service:       cfg.ServiceName,
		Dedup:         cache,
		UserOrders:    userOrders.Fetch,
		Transactions:  transactions.Fetch,
		Notifications: notifications.Fetch,
	}

	var seller *merchant.Accessor
	if cfg.SessionFastFoodID != "" {
		seller = merchant.New(api, cfg.SessionUserID, cfg.SessionFastFoodID)
		br.MerchantOrders = seller.Fetch
	}

	hydrate(ctx, userOrders.Fetch, "orders")
	hydrate(ctx, notifications.Fetch, "notifications")
	hydrate(ctx, transactions.Fetch, "transactions")
	if seller != nil {
		hydrate(ctx, seller.Fetch, "merchant")
	}
	if err := session.ResendPushToken(ctx, api, cache, cfg.SessionUserID); err != nil {
		log.Printf("syncd: push token resend: %v", err)
	}
	if cat, err := bonuses.Catalog(ctx); err != nil {
		log.Printf("syncd: bonus catalog: %v", err)
	} else {
		log.Printf("syncd: %d bonuses available", len(cat))
	}

	prod := kafka.NewProducer(cfg.KafkaBrokers, cfg.EventsTopic, 64)
	prod.Start(ctx)
	br.Announce(prod)

	cons := kafka.NewConsumer(cfg.KafkaBrokers, "syncd-"+cfg.SessionUserID, cfg.EventsTopic)
	log.Printf("syncd: session %s online, consuming %s", cfg.SessionUserID, cfg.EventsTopic)
	if err := cons.Start(ctx, br.Handle); err != nil {
		log.Printf("syncd: consumer: %v", err)
	}

	prod.WaitClosed()
	log.Println("syncd: bye")
}

func hydrate(ctx context.Context, fetch func(context.Context) error, what string) {
	fctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := fetch(fctx); err != nil {
		log.Printf("syncd: initial %s fetch: %v", what, err)
	}
}
