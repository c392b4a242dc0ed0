package plant

import (
	"encoding/json"
	"time"
)

type Category string

const (
	CategoryHerbal    Category = "herbal"
	CategoryPoisonous Category = "poisonous"
	CategoryNonHerbal Category = "non_herbal"
)

// ParseCategory returns "" for anything outside herbal|poisonous|non_herbal.
func ParseCategory(s string) Category {
	switch c := Category(s); c {
	case CategoryHerbal, CategoryPoisonous, CategoryNonHerbal:
		return c
	default:
		return ""
	}
}

// Plant: типизированный взгляд на ответ модели. Поля заполняются мягко:
// нестроковые значения читаются как пустые.
type Plant struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Uses           string   `json:"uses"`
	HealthBenefits string   `json:"health_benefits"`
	ProblemsSolved string   `json:"problems_solved"`
	Category       Category `json:"category"`
}

// Identification is one sanitized model answer. Raw is the JSON object exactly
// as the model produced it and is what goes back to the caller.
type Identification struct {
	RequestID  string
	Engine     string
	Model      string
	ImageCount int
	ImageHash  string
	CreatedAt  time.Time
	Cached     bool

	Plant Plant
	Raw   json.RawMessage
}

// Request: вход сервиса: 1–2 base64-картинки и необязательное имя движка.
type Request struct {
	Images []string `json:"images" validate:"required,min=1,max=2"`
	Engine string   `json:"engine,omitempty"`

	// Source/ChatID попадают только в историю.
	Source string `json:"-"`
	ChatID int64  `json:"-"`
}

// Envelope is the uniform {ok, data|message} response body.
type Envelope struct {
	OK      bool            `json:"ok"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

func Success(id Identification) Envelope {
	return Envelope{OK: true, Data: id.Raw}
}

func Failure(err error) Envelope {
	return Envelope{OK: false, Message: err.Error()}
}
