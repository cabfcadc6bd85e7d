package handlers

import (
	"github.com/ishita-lives/schedulr/internal/controller/callbacks/callbacktypes"
)

// Handlers serves slash commands and dialog text messages.
type Handlers struct {
	*callbacktypes.Handler
}

func NewHandlers(deps *callbacktypes.Handler) *Handlers {
	return &Handlers{Handler: deps}
}
