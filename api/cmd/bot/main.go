package main

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/apex/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"herbula/api/internal/app"
	"herbula/api/internal/config"
	"herbula/api/internal/handle"
	"herbula/api/internal/httpserver"
	"herbula/api/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config")
	}
	cfg.SetupLogging()
	if cfg.TelegramBotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("init")
	}
	defer a.Close()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.WithError(err).Fatal("telegram")
	}
	bot.Debug = false

	var history telegram.HistoryRepo
	if a.Repo != nil {
		history = a.Repo
	}
	r := telegram.NewRouter(bot, a.Service, history)

	// DefaultServeMux: ListenForWebhook регистрирует обработчик именно там.
	httpserver.Register(nil, handle.New(a.Service), a.Ping())

	addr := "0.0.0.0:" + cfg.Port
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Serve(gctx, addr, http.DefaultServeMux)
	})

	if webhookURL := strings.TrimSpace(cfg.WebhookURL); webhookURL != "" {
		updates, err := setupWebhook(bot, webhookURL)
		if err != nil {
			log.WithError(err).Fatal("webhook")
		}
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case upd, ok := <-updates:
					if !ok {
						log.Warn("webhook updates channel closed")
						return nil
					}
					r.HandleUpdate(upd)
				}
			}
		})
	} else {
		g.Go(func() error {
			runPolling(gctx, bot, r.HandleUpdate)
			return nil
		})
	}

	log.WithField("bot", bot.Self.UserName).Info("herbula bot started")
	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("bot stopped")
	}
}

// ---------------- Modes -----------------

func setupWebhook(bot *tgbotapi.BotAPI, baseURL string) (tgbotapi.UpdatesChannel, error) {
	// секретный путь вебхука
	path := "/webhook/" + shortHash(bot.Token)
	public := strings.TrimRight(baseURL, "/") + path

	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		return nil, err
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		return nil, err
	}
	log.Infof("webhook listening on %s", path)
	return bot.ListenForWebhook(path), nil
}

// ---------------- Polling loop -----------------

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") { // HTTP 429 от Telegram
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return 2 * time.Second
	}
	return 1 * time.Second
}

func runPolling(ctx context.Context, bot *tgbotapi.BotAPI, handle func(tgbotapi.Update)) {
	offset := 0
	baseDelay := 1 * time.Second
	maxDelay := 15 * time.Second

	for {
		select {
		case <-ctx.Done():
			log.Info("polling: context cancelled")
			return
		default:
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30 // long polling timeout (sec)

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := min(max(retryDelayFromError(err), baseDelay), maxDelay)
			log.WithError(err).Warnf("polling error; retry in %v", d)
			sleep(ctx, d)
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}

		if len(updates) == 0 {
			sleep(ctx, 200*time.Millisecond)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// ---------------- Helpers -----------------

// секретный суффикс пути вебхука: FNV-1a от токена, 16 hex-символов
func shortHash(s string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return fmt.Sprintf("%016x", h.Sum64())
}
