package realtime

import (
	"estate_crm/internal/logger"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

var upgrader = websocket.FastHTTPUpgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(ctx *fasthttp.RequestCtx) bool {
		// CORS cho websocket được kiểm soát ở tầng reverse proxy
		return true
	},
}

// DashboardHandler trả về handler Fiber upgrade kết nối lên websocket
// và gắn client vào hub. Route: GET /ws/dashboard.
func DashboardHandler(hub *Hub) fiber.Handler {
	return func(c fiber.Ctx) error {
		err := upgrader.Upgrade(c.RequestCtx(), func(conn *websocket.Conn) {
			client := hub.Register()
			defer conn.Close()

			// Goroutine ghi duy nhất cho mỗi client, giữ FIFO
			done := make(chan struct{})
			go func() {
				defer close(done)
				for msg := range client.Send {
					if err := conn.WriteJSON(msg); err != nil {
						logger.GetAppLogger().WithFields(logrus.Fields{
							"client_id": client.ID,
							"error":     err.Error(),
						}).Warn("📡 [REALTIME] Lỗi ghi websocket")
						return
					}
				}
			}()

			// Vòng đọc chỉ để phát hiện client ngắt kết nối,
			// dashboard không gửi dữ liệu lên server
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					break
				}
			}

			hub.Unregister(client)
			<-done
		})
		if err != nil {
			logger.GetAppLogger().WithError(err).Warn("📡 [REALTIME] Upgrade websocket thất bại")
			return err
		}
		return nil
	}
}
