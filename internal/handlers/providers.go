package handlers

import (
	"os"

	"mesob_back_end/internal/auth"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Providers expose les configurations OAuth brutes, pour les clients
// qui gèrent eux-mêmes l'échange de code (app mobile du staff)
var Providers = map[string]*auth.OAuthProvider{}

func InitProviders() {
	Providers["google"] = &auth.OAuthProvider{
		Name: "google",
		Config: &oauth2.Config{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
			Scopes:       []string{"email"},
			Endpoint:     google.Endpoint,
		},
	}

	Providers["facebook"] = &auth.OAuthProvider{
		Name: "facebook",
		Config: &oauth2.Config{
			ClientID:     os.Getenv("FACEBOOK_CLIENT_ID"),
			ClientSecret: os.Getenv("FACEBOOK_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("FACEBOOK_REDIRECT_URL"),
			Scopes:       []string{"email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://www.facebook.com/v15.0/dialog/oauth",
				TokenURL: "https://graph.facebook.com/v15.0/oauth/access_token",
			},
		},
	}
}
