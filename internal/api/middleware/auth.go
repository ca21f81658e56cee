package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// Заголовки, которые проставляет gateway в режиме header
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
	HeaderClinicID = "X-Clinic-ID"
)

const (
	AuthModeHeader = "header"
	AuthModeJWT    = "jwt"
)

const (
	msgUnauthorized = "требуется аутентификация"
	msgInvalidToken = "некорректный токен"
	msgBadIdentity  = "некорректные данные пользователя"
	msgForbidden    = "доступ запрещен"
)

var errInvalidIdentity = errors.New("invalid identity")

// Claims JWT claims сервиса идентификации
type Claims struct {
	jwt.RegisteredClaims
	Role     string `json:"role"`
	ClinicID string `json:"clinic_id,omitempty"`
}

// Authenticator достает identity вызывающего из заголовков или bearer токена
type Authenticator struct {
	mode   string
	secret []byte
}

// NewAuthenticator создает аутентификатор; jwtSecret нужен только в режиме jwt
func NewAuthenticator(mode, jwtSecret string) (*Authenticator, error) {
	switch mode {
	case AuthModeHeader:
	case AuthModeJWT:
		if jwtSecret == "" {
			return nil, fmt.Errorf("auth: jwt secret is required in %q mode", mode)
		}
	default:
		return nil, fmt.Errorf("auth: unknown mode %q", mode)
	}
	return &Authenticator{mode: mode, secret: []byte(jwtSecret)}, nil
}

// Middleware кладет domain.Identity в контекст запроса, без identity отвечает 401
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			identity domain.Identity
			err      error
		)
		if a.mode == AuthModeJWT {
			identity, err = a.fromBearer(r)
		} else {
			identity, err = fromHeaders(r)
		}
		if err != nil {
			handlers.RespondUnauthorized(w, err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func fromHeaders(r *http.Request) (domain.Identity, error) {
	identity := domain.Identity{
		UserID:   strings.TrimSpace(r.Header.Get(HeaderUserID)),
		Role:     domain.Role(strings.TrimSpace(r.Header.Get(HeaderUserRole))),
		ClinicID: strings.TrimSpace(r.Header.Get(HeaderClinicID)),
	}
	if identity.UserID == "" {
		return domain.Identity{}, errors.New(msgUnauthorized)
	}
	if identity.Role == "" {
		identity.Role = domain.RolePatient
	}
	if err := validateIdentity(identity); err != nil {
		return domain.Identity{}, errors.New(msgBadIdentity)
	}
	return identity, nil
}

func (a *Authenticator) fromBearer(r *http.Request) (domain.Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return domain.Identity{}, errors.New(msgUnauthorized)
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return domain.Identity{}, errors.New(msgInvalidToken)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return domain.Identity{}, errors.New(msgInvalidToken)
	}

	identity := domain.Identity{
		UserID:   claims.Subject,
		Role:     domain.Role(claims.Role),
		ClinicID: claims.ClinicID,
	}
	if err := validateIdentity(identity); err != nil {
		return domain.Identity{}, errors.New(msgInvalidToken)
	}
	return identity, nil
}

func validateIdentity(identity domain.Identity) error {
	if identity.UserID == "" || !identity.Role.IsValid() {
		return errInvalidIdentity
	}
	if identity.Role == domain.RoleClinicAdmin && identity.ClinicID == "" {
		return errInvalidIdentity
	}
	return nil
}

// RequireRole пропускает только пользователей с одной из ролей
// Должен стоять после Authenticator.Middleware
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentity(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}
			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			handlers.RespondForbidden(w, msgForbidden)
		})
	}
}

// WithIdentity кладет identity в контекст
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity возвращает identity из контекста
func GetIdentity(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}

// GetUserID возвращает ID пользователя из контекста
func GetUserID(ctx context.Context) (string, bool) {
	identity, ok := GetIdentity(ctx)
	if !ok || identity.UserID == "" {
		return "", false
	}
	return identity.UserID, true
}
