package response

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/greekgang/terminal/pkg/pagination"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// Success writes a success envelope.
func Success[T any](ctx *gin.Context, status int, data T, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
	})
}

// Error writes an error envelope.
func Error(ctx *gin.Context, status int, message string, err interface{}) {
	ctx.JSON(status, errBody(ctx, status, message, err))
}

// Abort writes an error envelope and stops the handler chain; for middleware.
func Abort(ctx *gin.Context, status int, message string, err interface{}) {
	ctx.AbortWithStatusJSON(status, errBody(ctx, status, message, err))
}

func errBody(ctx *gin.Context, status int, message string, err interface{}) APIResponse[any] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return APIResponse[any]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
}

// PageEnvelope is the listing shape shared by every collection endpoint.
type PageEnvelope struct {
	Items []any   `json:"items"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
	Count int64   `json:"count"`
}

// Paginated writes one page of a collection, with prev/next links rebuilt
// from the request path so page boundaries stay stable for the client.
func Paginated[T any](ctx *gin.Context, pg pagination.Page[T], toJSON func(T) any) {
	items := make([]any, 0, len(pg.Items))
	for _, it := range pg.Items {
		items = append(items, toJSON(it))
	}
	env := PageEnvelope{Items: items, Count: pg.Total}
	if pg.HasPrev() {
		env.Prev = pageURL(ctx, pg.Number-1)
	}
	if pg.HasNext() {
		env.Next = pageURL(ctx, pg.Number+1)
	}
	ctx.JSON(http.StatusOK, env)
}

func pageURL(ctx *gin.Context, page int) *string {
	u := fmt.Sprintf("%s?page=%d", ctx.Request.URL.Path, page)
	return &u
}
