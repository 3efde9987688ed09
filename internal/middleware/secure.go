package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

func SecurityHeaders() func(http.Handler) http.Handler {
	sec := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		ReferrerPolicy:     "no-referrer",
	})

	return sec.Handler
}
