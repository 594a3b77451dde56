package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/kakao"

	sharedauth "resumai-backend/internal/shared/auth"
	"resumai-backend/internal/shared/server/respond"
	"resumai-backend/internal/shared/telemetry"
	"resumai-backend/internal/users"
)

const userInfoURL = "https://kapi.kakao.com/v2/user/me"

// KakaoService handles Kakao OAuth login flows.
type KakaoService struct {
	oauthConfig *oauth2.Config
	uiRedirect  string
	stateTTL    time.Duration
	stateStore  *stateStore
	users       *users.Service

	userInfoURL string
}

// NewKakaoService builds a KakaoService.
func NewKakaoService(restAPIKey, clientSecret, redirectURL, uiRedirect string, userSvc *users.Service) *KakaoService {
	return &KakaoService{
		oauthConfig: &oauth2.Config{
			ClientID:     restAPIKey,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"profile_nickname",
				"profile_image",
				"account_email",
			},
			Endpoint: kakao.Endpoint,
		},
		uiRedirect:  uiRedirect,
		stateTTL:    5 * time.Minute,
		stateStore:  newStateStore(),
		users:       userSvc,
		userInfoURL: userInfoURL,
	}
}

// RegisterRoutes attaches Kakao auth routes.
func (s *KakaoService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/kakao/start", s.start)
	rg.GET("/auth/kakao/callback", s.callback)
}

func (s *KakaoService) start(c *gin.Context) {
	if s.oauthConfig.ClientID == "" || s.oauthConfig.RedirectURL == "" {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "Kakao auth not configured", nil)
		return
	}

	state := uuid.NewString()
	s.stateStore.put(state, time.Now().Add(s.stateTTL))

	c.Redirect(http.StatusFound, s.oauthConfig.AuthCodeURL(state))
}

func (s *KakaoService) callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}

	if !s.stateStore.consume(state) {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code", nil)
		return
	}

	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch kakao profile", nil)
		return
	}
	if profile.ID == 0 {
		respond.Error(c, http.StatusBadGateway, "auth_failed", "invalid kakao profile", nil)
		return
	}

	user, err := s.users.UpsertFromKakao(ctx, users.User{
		ID:           uuid.NewString(),
		Email:        profile.KakaoAccount.Email,
		Username:     profile.KakaoAccount.Profile.Nickname,
		KakaoOID:     profile.ID,
		ProfileImage: profile.KakaoAccount.Profile.ProfileImageURL,
	})
	if err != nil {
		telemetry.Error("kakao.upsert_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to provision user", nil)
		return
	}

	jwt, err := sharedauth.SignJWT(user.ID, user.Email, user.Username, user.ProfileImage)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}

	redirectURL, err := appendToken(s.uiRedirect, jwt)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to redirect", nil)
		return
	}

	c.Redirect(http.StatusFound, redirectURL)
}

type kakaoProfile struct {
	ID           int64 `json:"id"`
	KakaoAccount struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname        string `json:"nickname"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

func (s *KakaoService) fetchProfile(ctx context.Context, token *oauth2.Token) (kakaoProfile, error) {
	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return kakaoProfile{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return kakaoProfile{}, fmt.Errorf("kakao userinfo status %d", resp.StatusCode)
	}

	var profile kakaoProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return kakaoProfile{}, err
	}
	return profile, nil
}

type stateStore struct {
	items map[string]time.Time
	mu    sync.Mutex
}

func newStateStore() *stateStore {
	return &stateStore{items: make(map[string]time.Time)}
}

func (s *stateStore) put(state string, exp time.Time) {
	s.mu.Lock()
	s.items[state] = exp
	s.mu.Unlock()
}

func (s *stateStore) consume(state string) bool {
	s.mu.Lock()
	exp, ok := s.items[state]
	if ok {
		delete(s.items, state)
	}
	s.mu.Unlock()
	if !ok {
		return false
	}
	if time.Now().After(exp) {
		return false
	}
	return true
}

func appendToken(rawURL, token string) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
