package session_test

import (
	"net/http"

	"github.com/mcoot/connectfour/internal/services/session"
)

func httpHandler(srv *session.Server) http.Handler {
	return http.HandlerFunc(srv.HandleWebSocket)
}
