package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"antelope-chat-api/internal/application/chat"
	"antelope-chat-api/internal/interfaces/http/dto"
	apperrors "antelope-chat-api/pkg/errors"
)

// ChatHandler 对话端点，以 SSE 下发流式事件
type ChatHandler struct {
	resolver *chat.Resolver
	pipeline *chat.Pipeline
}

// NewChatHandler 创建对话处理器
func NewChatHandler(resolver *chat.Resolver, pipeline *chat.Pipeline) *ChatHandler {
	return &ChatHandler{resolver: resolver, pipeline: pipeline}
}

// Chat 执行一次对话。
// 决议失败走普通 JSON 错误；流开始后的失败以 error 事件下发。
func (h *ChatHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	ctx := c.Request.Context()
	resolution, err := h.resolver.Resolve(ctx, currentUserID(c), req.LLMConfig)
	if err != nil {
		respondError(c, err)
		return
	}

	runReq := &chat.Request{
		Messages:         req.Messages,
		ChainID:          req.ChainID,
		AccountName:      req.AccountName,
		ChainEndpoint:    req.ChainEndpoint,
		HyperionEndpoint: req.HyperionEndpoint,
		Resolution:       resolution,
	}

	events := make(chan chat.Event, 32)
	errCh := make(chan error, 1)
	go func() {
		errCh <- h.pipeline.Run(ctx, runReq, events)
		close(events)
	}()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		ev, ok := <-events
		if !ok {
			if runErr := <-errCh; runErr != nil {
				appErr := apperrors.AsAppError(runErr)
				c.SSEvent("error", gin.H{
					"code":    appErr.Code,
					"message": appErr.Message,
					"detail":  appErr.Detail,
				})
			}
			c.SSEvent("done", gin.H{})
			return false
		}
		c.SSEvent(ev.Type, ev.Data)
		return true
	})
}
