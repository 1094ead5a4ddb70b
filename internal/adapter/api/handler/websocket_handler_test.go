package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	ws "edulearn/internal/infrastructure/websocket"
)

func TestHandleWebSocket_MissingTokenAnswersUnauthorizedEnvelope(t *testing.T) {
	req := require.New(t)

	e := echo.New()
	httpReq := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(httpReq, rec)

	h := NewWebSocketHandler(ws.NewManager(), nil)

	req.NoError(h.HandleWebSocket(c))
	req.Equal(http.StatusUnauthorized, rec.Code)

	var body map[string]interface{}
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	req.Equal(false, body["success"])
	req.Equal("Authentication token required", body["message"])
}
