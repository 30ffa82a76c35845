package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/wadjakorntonsri/go-3dnav/pkg/config"
	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
	"github.com/wadjakorntonsri/go-3dnav/pkg/ports"
)

const sessionTTL = 24 * time.Hour

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type AuthHandler struct {
	oauthConfig   *oauth2.Config
	admin         ports.AdminService
	limiter       *IPRateLimiter
	logger        *zap.Logger
	jwtSecret     []byte
	frontendURL   string
	allowedEmails []string
	isProduction  bool
}

type GoogleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func NewAuthHandler(cfg *config.Config, admin ports.AdminService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		admin:         admin,
		limiter:       NewPerMinuteLimiter(cfg.LoginRatePerMinute).TrustProxyHeaders(cfg.TrustProxyHeaders),
		logger:        logger,
		jwtSecret:     []byte(cfg.JWTSecret),
		frontendURL:   cfg.FrontendURL,
		allowedEmails: cfg.AllowedEmails,
		isProduction:  cfg.IsProduction(),
	}
}

// Login checks email and password and starts a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(r) {
		h.logger.Warn("login rate limited", zap.String("ip", clientIP(r, h.limiter.trustProxy)))
		writeJSON(w, http.StatusTooManyRequests, Response{Success: false, Error: "too many login attempts, try again later"})
		return
	}

	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err, "")
		return
	}

	user, err := h.admin.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err, "")
		return
	}

	token, expires, err := issueToken(h.jwtSecret, user.Email, user.Role, sessionTTL)
	if err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	h.setSessionCookie(w, token, expires)

	h.logger.Info("login successful", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	writeJSON(w, http.StatusOK, Response{Success: true, Data: loginResponse{
		Token:     token,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		ExpiresAt: expires,
	}})
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := h.generateStateOauthCookie(w)
	url := h.oauthConfig.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	oauthState, err := r.Cookie("oauthstate")
	if err != nil {
		h.logger.Warn("oauth callback: missing oauthstate cookie", zap.Error(err))
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	if r.FormValue("state") != oauthState.Value {
		h.logger.Warn("oauth callback: invalid state")
		writeError(w, h.logger, domain.ErrUnauthorized, "")
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		h.logger.Error("oauth callback: code exchange failed", zap.Error(err))
		writeError(w, h.logger, err, "")
		return
	}

	googleUser, err := h.fetchGoogleUser(r.Context(), token)
	if err != nil {
		h.logger.Error("oauth callback: failed getting user info", zap.Error(err))
		writeError(w, h.logger, err, "")
		return
	}

	email := domain.NormalizeEmail(googleUser.Email)
	role := domain.RoleUser
	if slices.Contains(h.allowedEmails, email) {
		role = domain.RoleAdmin
	}

	jwtToken, expires, err := issueToken(h.jwtSecret, email, role, sessionTTL)
	if err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	h.setSessionCookie(w, jwtToken, expires)

	h.logger.Info("login successful", zap.String("email", email), zap.String("role", string(role)), zap.String("provider", "google"))
	http.Redirect(w, r, h.frontendURL, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) fetchGoogleUser(ctx context.Context, token *oauth2.Token) (*GoogleUser, error) {
	resp, err := h.oauthConfig.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var u GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setSessionCookie(w, "", time.Now().Add(-1*time.Hour))
	http.Redirect(w, r, strings.TrimSuffix(h.frontendURL, "/")+"/login", http.StatusTemporaryRedirect)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookie,
		Value:    value,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) generateStateOauthCookie(w http.ResponseWriter) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     "oauthstate",
		Value:    state,
		Expires:  time.Now().Add(20 * time.Minute),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	return state
}
