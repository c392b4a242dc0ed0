package plant

import (
	"context"
	"fmt"
	"strings"
)

type Engine interface {
	Name() string
	GetModel() string
	// Identify отправляет картинки вместе с Prompt и возвращает разобранный ответ.
	Identify(ctx context.Context, images []string) (Identification, error)
}

type Engines struct {
	REST    Engine
	SDK     Engine
	Default string
}

func (e *Engines) GetEngine(name string) (Engine, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = e.Default
	}
	var eng Engine
	switch name {
	case "rest", "":
		eng = e.REST
	case "sdk", "genai":
		eng = e.SDK
	default:
		return nil, fmt.Errorf("unknown engine %q; use 'rest' or 'sdk'", name)
	}
	if eng == nil {
		return nil, fmt.Errorf("engine %q is not configured", name)
	}
	return eng, nil
}
