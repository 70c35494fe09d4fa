package service

import (
	"encoding/json"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	feedWriteWait  = 10 * time.Second
	feedPongWait   = 60 * time.Second
	feedPingPeriod = (feedPongWait * 9) / 10
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ProgressEvent 推送给面板的进度增量
type ProgressEvent struct {
	LessonID  uint `json:"lessonId"`
	TimeSpent int  `json:"timeSpent"`
	Completed bool `json:"completed"`
}

type feedClient struct {
	hub    *ProgressHub
	conn   *websocket.Conn
	send   chan []byte
	userID uint
}

func (c *feedClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(feedPongWait))
		return nil
	})
	// 面板连接只下行，上行消息统统丢弃
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *feedClient) writePump() {
	ticker := time.NewTicker(feedPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ProgressHub 面板实时进度推送。显式构造注入，
// 生命周期跟随进程：NewApp 创建，Stop 时关停。
// 同一用户允许多个面板连接（多标签页）。
type ProgressHub struct {
	mu         sync.RWMutex
	clients    map[uint]map[*feedClient]bool
	register   chan *feedClient
	unregister chan *feedClient
	done       chan struct{}
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{
		clients:    make(map[uint]map[*feedClient]bool),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		done:       make(chan struct{}),
	}
}

func (h *ProgressHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*feedClient]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()
			monitoring.FeedConnections.Inc()

		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.userID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					close(client.send)
					monitoring.FeedConnections.Dec()
					if len(conns) == 0 {
						delete(h.clients, client.userID)
					}
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for _, conns := range h.clients {
				for client := range conns {
					close(client.send)
					client.conn.Close()
				}
			}
			h.clients = make(map[uint]map[*feedClient]bool)
			h.mu.Unlock()
			return
		}
	}
}

func (h *ProgressHub) Stop() {
	close(h.done)
}

// NotifyProgress 尽力投递，慢连接直接丢帧，绝不阻塞活动关闭路径。
// hub 为 nil 时 no-op（测试里不起推送）。
func (h *ProgressHub) NotifyProgress(userID uint, event ProgressEvent) {
	if h == nil {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"type": "PROGRESS",
		"data": event,
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}

// ServeWS 升级连接并挂进 hub
func (h *ProgressHub) ServeWS(w http.ResponseWriter, r *http.Request, userID uint) {
	conn, err := feedUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &feedClient{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 16),
		userID: userID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}
