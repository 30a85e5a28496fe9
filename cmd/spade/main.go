package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/veloracrm/spade/internal/agent"
	"github.com/veloracrm/spade/internal/gateway"
	"github.com/veloracrm/spade/internal/governance"
	"github.com/veloracrm/spade/internal/observability"
	"github.com/veloracrm/spade/internal/store"
	"github.com/veloracrm/spade/internal/tools"
	"github.com/veloracrm/spade/pkg/config"
)

func main() {
	observability.PrintBanner()
	observability.InitializeTerminal()

	// Route all log output through the terminal mutex so it never
	// interrupts the dashboard's cursor save/restore sequence.
	log.SetOutput(observability.NewTermWriter())

	cfg := config.LoadConfig("config.json")

	tgCfg, ok := cfg.GetTelegramConfig()
	if !ok {
		log.Fatal("Telegram gateway is not enabled or token is missing")
	}

	st, err := store.Open(cfg.Memory.Path)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	// Tool registry: the full vocabulary as stubs, with the live
	// integrations layered on top.
	registry := tools.NewStubRegistry()

	knowledgeTool, err := tools.NewKnowledgeTool()
	if err != nil {
		log.Printf("Warning: Failed to initialize knowledge tool: %v", err)
	} else {
		registry.Register(knowledgeTool)
	}
	registry.Register(tools.NewReminderTool(st))

	gate := governance.NewGate()
	gate.DenyTool(tools.NameCreatePayment)
	if cfg.Policy.RulesPath != "" {
		if err := gate.LoadRules(cfg.Policy.RulesPath); err != nil {
			log.Printf("Warning: policy rules not loaded: %v", err)
		}
	}

	logger := observability.NewLogger()

	tg, err := gateway.NewTelegramGateway(tgCfg.Token)
	if err != nil {
		log.Fatal(err)
	}

	sessions := agent.NewManager(agent.Options{
		Registry:               registry,
		Gate:                   gate,
		Confirmer:              tg,
		Store:                  st,
		Logger:                 logger,
		ClarificationThreshold: cfg.Engine.ClarificationThreshold,
	})
	tg.Sessions = sessions
	tg.History = st

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := agent.NewScheduler(st, tg, logger)
	go scheduler.Run(ctx)

	// Live resource dashboard (1-second updates)
	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.PrintLiveStatus()
			}
		}
	}()

	// Start gateway in a goroutine so we can wait for context in the main loop
	go func() {
		if err := tg.Start(); err != nil {
			log.Printf("\033[91m[ FAIL ] GATEWAY CRITICAL ERROR: %v\033[0m", err)
			stop()
		}
	}()

	<-ctx.Done()

	tg.Stop()
	observability.CleanupTerminal()

	// Give a short time for final logs/syncs
	time.Sleep(500 * time.Millisecond)
	log.Println("\033[95m[ EXIT ] CORE DE-INITIALIZED. GOODBYE.\033[0m")
}
