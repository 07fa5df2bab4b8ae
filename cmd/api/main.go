package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"certchain.org/internal/auth"
	"certchain.org/internal/cert"
	"certchain.org/internal/chain"
	"certchain.org/internal/httpapi"
	"certchain.org/internal/obs"
	"certchain.org/internal/store/pg"
	"certchain.org/internal/stream"
	"certchain.org/internal/verify"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	// Stores: Postgres when a DSN is configured, in-memory otherwise.
	var (
		db         *sql.DB
		certStore  cert.Store
		instStore  auth.Store
		instLookup cert.InstituteDirectory
	)
	if dsn := os.Getenv("CERTCHAIN_PG_DSN"); dsn != "" {
		var err error
		db, err = pg.Open(dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		certStore = pg.NewCertificates(db)
		pgInst := pg.NewInstitutes(db)
		instStore = pgInst
		instLookup = pgInst
	} else {
		memCerts := cert.NewInMemory()
		memInst := auth.NewInMemory()
		certStore = memCerts
		instStore = memInst
		instLookup = memInst
	}

	// Ledger: real node when an RPC endpoint is reachable, mock otherwise.
	var ledger chain.Ledger = chain.NewMock()
	if rpcURL := os.Getenv("CERTCHAIN_ETH_RPC_URL"); rpcURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		node, err := chain.Dial(ctx, rpcURL)
		cancel()
		if err != nil {
			log.Printf("eth node unreachable, using mock ledger: %v", err)
		} else {
			defer node.Close()
			ledger = node
		}
	}

	institutes := auth.NewService(instStore)
	certOpts := []cert.Option{}
	if base := os.Getenv("CERTCHAIN_VERIFY_BASE_URL"); base != "" {
		certOpts = append(certOpts, cert.WithVerifyBaseURL(base))
	}
	certs := cert.NewService(certStore, instLookup, ledger, certOpts...)
	verifier := verify.New(certStore, ledger)

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, institutes, certs, verifier, stream.New())

	addr := os.Getenv("CERTCHAIN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting certchain-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
