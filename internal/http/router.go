package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"gym-insights/backend/internal/config"
	"gym-insights/backend/internal/domain/account"
	"gym-insights/backend/internal/domain/embed"
	"gym-insights/backend/internal/domain/report"
	"gym-insights/backend/internal/httpjson"
	"gym-insights/backend/internal/middleware"
)

type RouterDeps struct {
	Cfg      config.Config
	Accounts *account.Service
	Reports  *report.Service
	Embeds   *embed.Signer
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger)
	r.Use(middleware.CORS(d.Cfg.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpjson.Write(w, 200, map[string]any{"ok": true, "ts": time.Now().UTC().Format(time.RFC3339)})
	})

	// ===== Auth routes (only when Postgres is configured) =====
	if d.Accounts != nil {
		r.Post("/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
			var in account.RegisterInput
			if err := httpjson.Read(r, &in); err != nil {
				httpjson.Error(w, 400, "invalid json")
				return
			}

			out, err := d.Accounts.Register(r.Context(), in)
			if err != nil {
				status, msg := mapAccountError(err)
				httpjson.Error(w, status, msg)
				return
			}
			httpjson.Write(w, 201, out)
		})

		r.Post("/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
			var in account.LoginInput
			if err := httpjson.Read(r, &in); err != nil {
				httpjson.Error(w, 400, "invalid json")
				return
			}

			sess, acc, err := d.Accounts.Login(r.Context(), in)
			if err != nil {
				status, msg := mapAccountError(err)
				httpjson.Error(w, status, msg)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     middleware.SessionCookie,
				Value:    sess.Token,
				Path:     "/",
				Expires:  sess.ExpiresAt,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			httpjson.Write(w, 200, map[string]any{"account": acc, "expiresAt": sess.ExpiresAt})
		})

		r.Post("/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(middleware.SessionCookie); err == nil && c.Value != "" {
				_ = d.Accounts.Logout(r.Context(), c.Value)
			}
			http.SetCookie(w, &http.Cookie{
				Name:     middleware.SessionCookie,
				Value:    "",
				Path:     "/",
				MaxAge:   -1,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			httpjson.Write(w, 200, map[string]any{"ok": true})
		})
	}

	// ===== Analytics routes =====
	r.Group(func(pr chi.Router) {
		if d.Accounts != nil {
			pr.Use(middleware.WithSession(d.Accounts))

			pr.Get("/v1/me", func(w http.ResponseWriter, r *http.Request) {
				acc, _ := middleware.GetAccount(r.Context())
				httpjson.Write(w, 200, acc)
			})
		}

		pr.Get("/v1/analytics", func(w http.ResponseWriter, r *http.Request) {
			q, err := queryFromRequest(r)
			if err != nil {
				httpjson.Error(w, 400, err.Error())
				return
			}

			out, err := d.Reports.Build(r.Context(), q)
			if err != nil {
				status, msg := mapReportError(err)
				httpjson.Error(w, status, msg)
				return
			}
			httpjson.Write(w, 200, out)
		})

		// Issue a short-lived token so the dashboard can be embedded
		// without a cookie.
		if d.Embeds != nil && d.Embeds.Configured() {
			pr.Post("/v1/embed/token", func(w http.ResponseWriter, r *http.Request) {
				var in struct {
					SiteID int64 `json:"siteId"`
				}
				if err := httpjson.Read(r, &in); err != nil {
					httpjson.Error(w, 400, "invalid json")
					return
				}
				if in.SiteID <= 0 {
					httpjson.Error(w, 400, "missing siteId")
					return
				}

				tok, err := d.Embeds.Issue(in.SiteID)
				if err != nil {
					httpjson.Error(w, 500, err.Error())
					return
				}
				httpjson.Write(w, 201, map[string]any{"token": tok})
			})
		}
	})

	// ===== Embed analytics (token auth, no cookie) =====
	if d.Embeds != nil && d.Embeds.Configured() {
		r.Get("/v1/embed/analytics", func(w http.ResponseWriter, r *http.Request) {
			siteID, err := d.Embeds.Verify(r.URL.Query().Get("token"))
			if err != nil {
				httpjson.Error(w, 401, "invalid embed token")
				return
			}

			// the token, not the query string, decides the site
			q := report.Query{
				SiteID:    siteID,
				StartDate: r.URL.Query().Get("start"),
				EndDate:   r.URL.Query().Get("end"),
			}
			out, err := d.Reports.Build(r.Context(), q)
			if err != nil {
				status, msg := mapReportError(err)
				httpjson.Error(w, status, msg)
				return
			}
			httpjson.Write(w, 200, out)
		})
	}

	// ===== Static dashboard =====
	if d.Cfg.StaticDir != "" {
		fs := http.FileServer(http.Dir(d.Cfg.StaticDir))
		r.Handle("/*", fs)
	}

	return r
}

func queryFromRequest(r *http.Request) (report.Query, error) {
	var q report.Query
	if raw := r.URL.Query().Get("siteId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return q, errors.New("siteId must be an integer")
		}
		q.SiteID = id
	}
	q.StartDate = r.URL.Query().Get("start")
	q.EndDate = r.URL.Query().Get("end")
	return q, nil
}

func mapReportError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case report.IsErrBadRequest(err):
		return 400, err.Error()
	case report.IsErrNotConfigured(err):
		return 500, err.Error()
	case report.IsErrUpstream(err):
		return 502, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapAccountError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case account.IsErrBadRequest(err):
		return 400, err.Error()
	case account.IsErrUnauthorized(err):
		return 401, err.Error()
	case account.IsErrNotFound(err):
		return 404, err.Error()
	case account.IsErrConflict(err):
		return 409, err.Error()
	default:
		return 500, err.Error()
	}
}
