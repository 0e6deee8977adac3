package accountlink

import (
	"context"
	"errors"

	"lowvie/internal/models"
)

// OpenRequest is everything the SDK needs to start a linking session.
type OpenRequest struct {
	Session     models.Session
	ClientID    string
	Environment string
	Product     string
	EntryPoint  string
	MerchantIDs []int
}

// Launch tells the page how to start the SDK in the browser.
type Launch struct {
	ScriptURL string      `json:"-"`
	Options   OpenOptions `json:"options"`
}

// OpenOptions mirrors the SDK's open() argument.
type OpenOptions struct {
	SessionID     string `json:"sessionId"`
	ClientID      string `json:"clientId"`
	Environment   string `json:"environment"`
	Product       string `json:"product"`
	MerchantIDs   []int  `json:"merchantIds"`
	EntryPoint    string `json:"entryPoint"`
	UseCategories bool   `json:"useCategories"`
	UseSearch     bool   `json:"useSearch"`
}

// Opener hands a session to the account-linking SDK. The script opener drives
// the real SDK in the browser; tests use MockOpener.
type Opener interface {
	Open(ctx context.Context, request OpenRequest) (*Launch, error)
}

// ScriptOpener starts the vendor SDK from its CDN script. The page loads the
// script once per document and relays callbacks back to the server.
type ScriptOpener struct {
	scriptURL string
}

func NewScriptOpener(scriptURL string) *ScriptOpener {
	return &ScriptOpener{scriptURL: scriptURL}
}

func (o *ScriptOpener) Open(_ context.Context, request OpenRequest) (*Launch, error) {
	if request.Session.SessionID == "" {
		return nil, ErrNoSession
	}
	if o.scriptURL == "" {
		return nil, errors.New("account-link script URL is not configured")
	}

	return &Launch{
		ScriptURL: o.scriptURL,
		Options: OpenOptions{
			SessionID:   request.Session.SessionID,
			ClientID:    request.ClientID,
			Environment: request.Environment,
			Product:     request.Product,
			MerchantIDs: append([]int(nil), request.MerchantIDs...),
			EntryPoint:  request.EntryPoint,
		},
	}, nil
}
