package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"bazar/m/domain"
)

const tokenTTL = 24 * time.Hour

type authClaims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (h *Handler) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, authClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	})
	return token.SignedString([]byte(h.secret))
}

func (h *Handler) parseToken(raw string) (*authClaims, error) {
	claims := &authClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(h.secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// authMiddleware puts the verified token claims on the request context.
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := h.parseToken(raw)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxClaims, claims)))
	})
}

func claimsFrom(ctx context.Context) (*authClaims, bool) {
	claims, ok := ctx.Value(ctxClaims).(*authClaims)
	return claims, ok
}

func (h *Handler) requireRole(w http.ResponseWriter, r *http.Request, allowed ...string) bool {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing role")
		return false
	}
	for _, role := range allowed {
		if claims.Role == role {
			return true
		}
	}
	respondError(w, http.StatusForbidden, "insufficient permissions")
	return false
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// register is the open sign-up endpoint and only ever creates cashiers.
// Admin accounts come from createUser or the startup bootstrap.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Role != "" && req.Role != domain.RoleCashier {
		respondError(w, http.StatusForbidden, "only an admin can create "+req.Role+" accounts")
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Password, domain.RoleCashier)
	if err != nil {
		h.respondServiceError(w, r, err, "unable to complete registration")
		return
	}
	h.respondWithToken(w, http.StatusCreated, user)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		h.respondServiceError(w, r, err, "unable to create user")
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondServiceError(w, r, err, "unable to log in")
		return
	}
	h.respondWithToken(w, http.StatusOK, user)
}

func (h *Handler) respondWithToken(w http.ResponseWriter, status int, user *domain.User) {
	token, err := h.issueToken(user)
	if err != nil {
		h.logger.Error("sign token", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}
	respondJSON(w, status, authResponse{Token: token, User: *user})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	claims, ok := claimsFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing token claims")
		return
	}
	if err := h.auth.ChangePassword(r.Context(), claims.UserID, payload.NewPassword); err != nil {
		h.respondServiceError(w, r, err, "unable to update password")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}
