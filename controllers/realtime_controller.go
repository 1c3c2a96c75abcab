package controllers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brianvfarias/daily-diet-api/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type RealtimeController struct {
	RT *services.RealtimeHub
}

func NewRealtimeController(rt *services.RealtimeHub) *RealtimeController {
	return &RealtimeController{RT: rt}
}

var upgrader = websocket.Upgrader{CheckOrigin: sameOrigin}

// sameOrigin accepts clients that send no Origin (non-browser) and browser
// pages served from the host the socket is opened on.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// MealStream streams the session's meal events until the client goes away.
func (rc *RealtimeController) MealStream(c *gin.Context) {
	sid, ok := sessionIDFromCtx(c)
	if !ok {
		unauthorized(c)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := services.NewWSClient(sid, conn)
	rc.RT.Register(cl)

	done := make(chan struct{})
	go func() {
		t := time.NewTicker(25 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := cl.Ping(); err != nil {
					return
				}
			}
		}
	}()

	// read loop ends on client close/error
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			close(done)
			rc.RT.Unregister(cl)
			return
		}
	}
}
