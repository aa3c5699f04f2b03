package auth

import (
	"context"
	"net/http"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/triplog/pkg/kv"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/oauth2"
	oauth2github "golang.org/x/oauth2/github"
)

func init() {
	Register("github", NewGitHubProvider)
}

// UsersClient is the part of the GitHub users API the provider needs
type UsersClient interface {
	Get(ctx context.Context, user string) (*github.User, *github.Response, error)
}

// 🐙 GitHubProvider logs in with GitHub OAuth. The GitHub login becomes the username.
type GitHubProvider struct {
	oauth   *oauth2.Config
	cfg     Config
	storage kv.Store

	// users builds a users client over an authorized http client
	users func(*http.Client) UsersClient
}

var _ Provider = (*GitHubProvider)(nil)

// NewGitHubProvider builds the github provider. Endpoints default to github.com.
func NewGitHubProvider(cfg Config, storage kv.Store) (Provider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("github provider requires a client id")
	}

	endpoint := oauth2github.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"read:user", "user:email"}
	}

	return &GitHubProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		cfg:     cfg,
		storage: storage,
		users: func(hc *http.Client) UsersClient {
			return github.NewClient(hc).Users
		},
	}, nil
}

func (g *GitHubProvider) Name() string {
	return "github"
}

func (g *GitHubProvider) BeginLogin(ctx context.Context) (string, error) {
	verifier := oauth2.GenerateVerifier()
	if err := g.storage.Save(ctx, kv.KeyCodeVerifier, verifier); err != nil {
		return "", errors.Errorf("saving code verifier: %w", err)
	}
	state, err := issueState(ctx, g.storage)
	if err != nil {
		return "", err
	}
	return g.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)), nil
}

func (g *GitHubProvider) CompleteLogin(ctx context.Context, code, state string) (Profile, error) {
	if code == "" {
		return Profile{}, errors.New("authorization code is missing")
	}
	if err := consumeState(ctx, g.storage, state); err != nil {
		return Profile{}, err
	}
	if err := g.storage.Save(ctx, kv.KeyAuthCode, code); err != nil {
		return Profile{}, errors.Errorf("saving auth code: %w", err)
	}

	var opts []oauth2.AuthCodeOption
	var verifier string
	if ok, err := g.storage.Load(ctx, kv.KeyCodeVerifier, &verifier); err != nil {
		return Profile{}, errors.Errorf("loading code verifier: %w", err)
	} else if ok {
		opts = append(opts, oauth2.VerifierOption(verifier))
	}

	token, err := g.oauth.Exchange(g.oauthContext(ctx), code, opts...)
	if err != nil {
		return Profile{}, errors.Errorf("exchanging code: %w", err)
	}
	if err := g.storage.Save(ctx, kv.KeyAccessToken, token); err != nil {
		return Profile{}, errors.Errorf("saving access token: %w", err)
	}

	return g.profile(ctx, token)
}

func (g *GitHubProvider) UserInfo(ctx context.Context) (Profile, error) {
	var token oauth2.Token
	ok, err := g.storage.Load(ctx, kv.KeyAccessToken, &token)
	if err != nil {
		return Profile{}, errors.Errorf("loading access token: %w", err)
	}
	if !ok || token.AccessToken == "" {
		return Profile{}, errors.New("not logged in to github")
	}
	return g.profile(ctx, &token)
}

func (g *GitHubProvider) profile(ctx context.Context, token *oauth2.Token) (Profile, error) {
	hc := oauth2.NewClient(g.oauthContext(ctx), oauth2.StaticTokenSource(token))

	user, _, err := g.users(hc).Get(ctx, "")
	if err != nil {
		return Profile{}, errors.Errorf("getting github user: %w", err)
	}

	raw := map[string]any{
		"username": user.GetLogin(),
		"name":     user.GetName(),
		"email":    user.GetEmail(),
	}
	p, err := profileFromFields(raw, "username", "email", "name")
	if err != nil {
		return Profile{}, err
	}

	zerolog.Ctx(ctx).Debug().Str("login", user.GetLogin()).Msg("resolved github user")

	if err := remember(ctx, g.storage, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// oauthContext carries the configured http client into oauth2 calls
func (g *GitHubProvider) oauthContext(ctx context.Context) context.Context {
	if g.cfg.HTTPClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, g.cfg.HTTPClient)
}
