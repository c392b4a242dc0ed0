package telegram

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/apex/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"herbula/api/internal/plant"
)

type Identifier interface {
	Identify(ctx context.Context, req plant.Request) (plant.Identification, error)
}

type HistoryRepo interface {
	RecentByChat(ctx context.Context, chatID int64, limit int) ([]plant.Identification, error)
}

type Router struct {
	Bot     *tgbotapi.BotAPI
	Service Identifier
	History HistoryRepo // nil: без БД команда /history недоступна

	engines      engineChoice
	photos       *collector
	httpc        *http.Client
	fileEndpoint string // tgbotapi.FileEndpoint: "%s" токен, "%s" путь
}

func NewRouter(bot *tgbotapi.BotAPI, svc Identifier, history HistoryRepo) *Router {
	r := &Router{
		Bot:     bot,
		Service: svc,
		History: history,
		httpc:   &http.Client{Timeout: 60 * time.Second},

		fileEndpoint: tgbotapi.FileEndpoint,
	}
	r.photos = newCollector(debounce, r.processBatch)
	return r
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(*upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}
	msg := upd.Message

	switch {
	case msg.IsCommand():
		r.HandleCommand(*msg)
	case len(msg.Photo) > 0:
		r.acceptPhoto(*msg)
	case msg.Document != nil:
		r.acceptDocument(*msg)
	default:
		r.send(msg.Chat.ID, helpText)
	}
}

func (r *Router) HandleCommand(msg tgbotapi.Message) {
	cid := msg.Chat.ID
	switch msg.Command() {
	case "start", "help":
		r.send(cid, helpText)
	case "engine":
		arg := strings.ToLower(strings.TrimSpace(msg.CommandArguments()))
		if arg == "" {
			cur := r.engines.Get(cid)
			if cur == "" {
				cur = "default"
			}
			out := tgbotapi.NewMessage(cid, "Current engine: "+cur)
			out.ReplyMarkup = makeEngineKeyboard()
			r.sendMessage(out)
			return
		}
		r.setEngine(cid, arg)
	case "history":
		r.sendHistory(cid)
	default:
		r.send(cid, "Unknown command")
	}
}

func (r *Router) handleCallback(cq tgbotapi.CallbackQuery) {
	if _, err := r.Bot.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		log.WithError(err).Warn("telegram: answer callback")
	}
	if cq.Message == nil {
		return
	}
	if name, ok := strings.CutPrefix(cq.Data, "engine:"); ok {
		r.setEngine(cq.Message.Chat.ID, name)
	}
}

func (r *Router) setEngine(chatID int64, name string) {
	switch name {
	case "rest", "sdk":
		r.engines.Set(chatID, name)
		r.send(chatID, "Ok, using the "+name+" engine.")
	default:
		r.send(chatID, "Unknown engine. Available: rest | sdk")
	}
}

func (r *Router) sendHistory(chatID int64) {
	if r.History == nil {
		r.send(chatID, "History is not available.")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	items, err := r.History.RecentByChat(ctx, chatID, 5)
	if err != nil {
		r.SendError(chatID, err)
		return
	}
	r.send(chatID, formatHistory(items))
}

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	r.sendMessage(msg)
}

func (r *Router) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := r.Bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", msg.ChatID).Warn("telegram: send")
	}
}

// SendError отправляет текст ошибки без разметки.
func (r *Router) SendError(chatID int64, err error) {
	r.sendMessage(tgbotapi.NewMessage(chatID, "⚠️ "+err.Error()))
}
