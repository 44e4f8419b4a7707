// Package response provides HTTP response utilities for web applications.
// It offers a consistent API for generating various types of HTTP responses
// including JSON, plain text, HTML strings, raw bytes, redirects, WebSockets
// and Server-Sent Events. Redirects answer HTMX requests (HX-Request header)
// with an HX-Location header. The package has no template, file download,
// generic streaming or response-decorator helpers.
//
// # Basic Usage
//
// All functions return handler.Response which can be used in HTTP handlers:
//
//	import "github.com/momentumlabs/docflow/core/response"
//
//	func getUserHandler(ctx handler.Context) handler.Response {
//		user := User{ID: 1, Name: "John Doe"}
//		return response.JSON(user)
//	}
//
//	func homeHandler(ctx handler.Context) handler.Response {
//		return response.HTML("<h1>Welcome!</h1>")
//	}
//
// # JSON Responses
//
// Create JSON responses with automatic serialization:
//
//	// JSON with 200 OK status
//	response.JSON(map[string]string{
//		"message": "Success",
//		"status":  "ok",
//	})
//
//	// JSON with custom status code
//	response.JSONWithStatus(user, http.StatusCreated)
//
// # Basic Response Types
//
// Create simple text and HTML responses:
//
//	// Plain text response
//	response.String("Hello, World!")
//
//	// HTML content
//	response.HTML("<h1>Welcome</h1>")
//
//	// Raw bytes with content type
//	response.Bytes(imageData, "image/jpeg")
//
//	// Empty responses
//	response.NoContent()           // 204 No Content
//	response.Status(http.StatusOK) // Custom status with no body
//
// # Redirects
//
// Handle HTTP redirections (with automatic HTMX support):
//
//	// Temporary redirect (302)
//	response.Redirect("/dashboard")
//
//	// Permanent redirect (301)
//	response.RedirectPermanent("/new-location")
//
//	// See Other (303) - POST-redirect-GET pattern
//	response.RedirectSeeOther("/success")
//
//	// Temporary redirect preserving method (307)
//	response.RedirectTemporary("/retry")
//
//	// Custom redirect status
//	response.RedirectWithStatus("/custom", http.StatusFound)
//
// # Server-Sent Events (SSE)
//
// Create real-time streaming responses:
//
//	events := make(chan any)
//	go func() {
//		defer close(events)
//		for i := 0; i < 10; i++ {
//			events <- fmt.Sprintf("Event %d", i)
//			time.Sleep(time.Second)
//		}
//	}()
//
//	response.SSE(events)
//
//	// With custom event configuration
//	response.SSE(events,
//		response.WithEventName("update"),
//		response.WithKeepAlive(30*time.Second),
//		response.WithEventIDGenerator(func(data any) string {
//			return fmt.Sprintf("msg-%d", time.Now().Unix())
//		}),
//	)
//
// # WebSocket Responses
//
// Upgrade HTTP connections to WebSocket:
//
//	response.WebSocket(func(ctx context.Context, conn *websocket.Conn) error {
//		defer conn.Close()
//		for {
//			var message map[string]any
//			if err := conn.ReadJSON(&message); err != nil {
//				return err
//			}
//			// Echo message back
//			return conn.WriteJSON(message)
//		}
//	})
//
//	// Simple echo WebSocket
//	response.EchoWebSocket()
//
//	// Channel-based WebSocket
//	incoming := make(chan response.WebSocketMessage)
//	outgoing := make(chan response.WebSocketMessage)
//	response.WebSocketWithChannels(incoming, outgoing)
//
// # Error Handling
//
// The package provides structured error handling with HTTPError types:
//
//	// Return an error to be handled by error middleware
//	response.Error(errors.New("something went wrong"))
//
//	// Use predefined HTTP errors
//	response.Error(response.ErrNotFound)
//	response.Error(response.ErrUnauthorized.WithMessage("Invalid token"))
//
//	// Custom HTTP error
//	httpErr := response.HTTPError{
//		Status:  http.StatusBadRequest,
//		Code:    "validation_failed",
//		Message: "Invalid input data",
//		Details: map[string]any{
//			"field_errors": []string{"email is required"},
//		},
//	}
//	response.Error(httpErr)
//
//	// Use error handlers for consistent error processing
//	response.ErrorHandler(ctx, err)     // Plain text error response
//	response.JSONErrorHandler(ctx, err) // JSON error response
//
// # Rendering Responses
//
// Use the Render function to execute responses in handlers:
//
//	func handler(ctx handler.Context) {
//		resp := response.JSON(data)
//		response.Render(ctx, resp)
//	}
package response
