package telegram

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"herbula/api/internal/plant"
)

const helpText = "Send me 1 or 2 photos of a plant (as an album or one by one) and I'll tell you what it is.\n" +
	"Commands:\n/engine [rest|sdk] — choose the Gemini client\n/history — your last identifications"

// цвет рамки карточки в приложении: зелёный / красный / жёлтый
func categoryMark(c plant.Category) string {
	switch c {
	case plant.CategoryHerbal:
		return "🟢"
	case plant.CategoryPoisonous:
		return "🔴"
	default:
		return "🟡"
	}
}

// FormatPlant renders the result card as Telegram HTML.
func FormatPlant(p plant.Plant) string {
	var b strings.Builder
	name := p.Name
	if name == "" {
		name = "Unknown plant"
	}
	fmt.Fprintf(&b, "%s <b>%s</b>\n\n", categoryMark(p.Category), esc(name))
	row(&b, "Category", strings.ToUpper(string(p.Category)))
	row(&b, "Description", p.Description)
	row(&b, "Common Uses", p.Uses)
	row(&b, "Health Benefits", p.HealthBenefits)
	row(&b, "Problems Solved", p.ProblemsSolved)
	return strings.TrimRight(b.String(), "\n")
}

func row(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		value = "-"
	}
	fmt.Fprintf(b, "<b>%s:</b> %s\n", label, esc(value))
}

func formatHistory(items []plant.Identification) string {
	if len(items) == 0 {
		return "No identifications yet."
	}
	var b strings.Builder
	b.WriteString("<b>Recent identifications:</b>\n")
	for i, it := range items {
		name := it.Plant.Name
		if name == "" {
			name = "Unknown plant"
		}
		fmt.Fprintf(&b, "%d. %s %s — %s\n", i+1, categoryMark(it.Plant.Category), esc(name),
			it.CreatedAt.Format("2006-01-02 15:04"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func makeEngineKeyboard() tgbotapi.InlineKeyboardMarkup {
	rest := tgbotapi.NewInlineKeyboardButtonData("REST", "engine:rest")
	sdk := tgbotapi.NewInlineKeyboardButtonData("SDK", "engine:sdk")
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(rest, sdk))
}

// текст модели идёт в HTML-режиме, экранируем только <>&
func esc(s string) string { return html.EscapeString(s) }
