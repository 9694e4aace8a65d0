package websocket

import (
	"github.com/labstack/echo/v4"
)

// Handler upgrades the "/ws" endpoint to a websocket observer connection.
func (s *Server) Handler(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	userID, _ := c.Get("user_id").(string)

	client := NewClient(conn, userID)
	s.hub.Register(client)

	client.Run()

	defer s.hub.Unregister(client)

	// Wait for the client context to be done (connection closed)
	<-client.Context().Done()

	return nil
}
