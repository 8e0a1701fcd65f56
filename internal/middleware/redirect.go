package middleware

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// LocalReferer renvoie la page d'origine d'un formulaire, limitée aux
// chemins locaux. Une notice précédente n'est pas reportée.
func LocalReferer(c *gin.Context, fallback string) string {
	ref := c.GetHeader("Referer")
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || u.Path == "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return fallback
	}
	if u.Host != "" && u.Host != c.Request.Host {
		return fallback
	}

	q := u.Query()
	q.Del("notice")
	if len(q) > 0 {
		return u.Path + "?" + q.Encode()
	}
	return u.Path
}

// WithNotice ajoute le code de notice à un chemin local.
func WithNotice(path, notice string) string {
	u, err := url.Parse(path)
	if err != nil {
		return path
	}
	q := u.Query()
	q.Set("notice", notice)
	u.RawQuery = q.Encode()
	return u.String()
}
