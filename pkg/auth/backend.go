package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
	"github.com/walteh/triplog/pkg/kv"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/oauth2"
)

func init() {
	Register("backend", NewBackendProvider)
}

// 🏠 BackendProvider runs the PKCE authorization-code flow in which the
// project backend performs the code exchange and answers with the profile
type BackendProvider struct {
	oauth   *oauth2.Config
	cfg     Config
	storage kv.Store
}

var _ Provider = (*BackendProvider)(nil)

// NewBackendProvider builds the backend provider. It needs an authorization
// URL, a client id and a callback URL.
func NewBackendProvider(cfg Config, storage kv.Store) (Provider, error) {
	if cfg.AuthURL == "" {
		return nil, errors.New("backend provider requires an authorization url")
	}
	if cfg.ClientID == "" {
		return nil, errors.New("backend provider requires a client id")
	}
	if cfg.CallbackURL == "" {
		return nil, errors.New("backend provider requires a callback url")
	}

	return &BackendProvider{
		oauth: &oauth2.Config{
			ClientID:    cfg.ClientID,
			RedirectURL: cfg.RedirectURL,
			Scopes:      cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		cfg:     cfg,
		storage: storage,
	}, nil
}

func (b *BackendProvider) Name() string {
	return "backend"
}

func (b *BackendProvider) BeginLogin(ctx context.Context) (string, error) {
	verifier := oauth2.GenerateVerifier()
	if err := b.storage.Save(ctx, kv.KeyCodeVerifier, verifier); err != nil {
		return "", errors.Errorf("saving code verifier: %w", err)
	}
	state, err := issueState(ctx, b.storage)
	if err != nil {
		return "", err
	}

	u := b.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	zerolog.Ctx(ctx).Debug().Str("url", u).Msg("built authorization url")
	return u, nil
}

func (b *BackendProvider) CompleteLogin(ctx context.Context, code, state string) (Profile, error) {
	if code == "" {
		return Profile{}, errors.New("authorization code is missing")
	}
	if err := consumeState(ctx, b.storage, state); err != nil {
		return Profile{}, err
	}
	if err := b.storage.Save(ctx, kv.KeyAuthCode, code); err != nil {
		return Profile{}, errors.Errorf("saving auth code: %w", err)
	}

	u, err := url.Parse(b.cfg.CallbackURL)
	if err != nil {
		return Profile{}, errors.Errorf("parsing callback url: %w", err)
	}
	q := u.Query()
	q.Set("code", code)

	var verifier string
	if ok, err := b.storage.Load(ctx, kv.KeyCodeVerifier, &verifier); err != nil {
		return Profile{}, errors.Errorf("loading code verifier: %w", err)
	} else if ok {
		q.Set("code_verifier", verifier)
	}
	u.RawQuery = q.Encode()

	raw, err := b.getJSON(ctx, u.String())
	if err != nil {
		return Profile{}, errors.Errorf("exchanging code: %w", err)
	}

	p, err := profileFromFields(raw, "name", "email", "username")
	if err != nil {
		return Profile{}, err
	}
	if err := remember(ctx, b.storage, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (b *BackendProvider) UserInfo(ctx context.Context) (Profile, error) {
	if b.cfg.UserInfoURL == "" {
		return Profile{}, errors.New("backend provider has no user info url")
	}

	raw, err := b.getJSON(ctx, b.cfg.UserInfoURL)
	if err != nil {
		return Profile{}, errors.Errorf("fetching user info: %w", err)
	}

	p, err := profileFromFields(raw, "name", "username", "email")
	if err != nil {
		return Profile{}, err
	}
	if err := remember(ctx, b.storage, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (b *BackendProvider) getJSON(ctx context.Context, u string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.cfg.httpClient().Do(req)
	if err != nil {
		return nil, errors.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.Errorf("endpoint %s not found", req.URL.Path)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Errorf("decoding profile: %w", err)
	}
	return raw, nil
}
