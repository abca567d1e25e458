package auth

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// OAuthProvider enveloppe une config oauth2 pour les clients qui font
// l'échange de code eux-mêmes (app mobile du staff)
type OAuthProvider struct {
	Name   string
	Config *oauth2.Config
}

func (p *OAuthProvider) GetAuthURL(state string) string {
	return p.Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (p *OAuthProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return p.Config.Exchange(ctx, code)
}

// Client renvoie un client HTTP authentifié avec le token obtenu
func (p *OAuthProvider) Client(ctx context.Context, token *oauth2.Token) *http.Client {
	return p.Config.Client(ctx, token)
}
