// Package router provides a high-performance HTTP router with middleware support,
// context management, and flexible routing patterns. It offers both programmatic
// route definition and chainable middleware composition for building robust web applications.
//
// # Features
//
//   - High-performance radix tree-based routing
//   - Type-safe middleware composition
//   - Context-aware request handling
//   - Path parameter extraction
//   - Method-based routing (GET, POST, PUT, DELETE, etc.)
//   - Mount support for sub-routers
//   - Error handling with custom error handlers
//   - Middleware chaining with proper execution order
//   - Compatible with standard http.Handler interface
//
// # Basic Usage
//
// Create a router and define routes with handlers:
//
//	import "github.com/momentumlabs/docflow/core/router"
//
//	// Create a new router using the default *router.Context
//	r := router.New[*router.Context]()
//
//	// Define routes
//	r.Get("/users", listUsersHandler)
//	r.Post("/users", createUserHandler)
//	r.Get("/users/{id}", getUserHandler)
//	r.Put("/users/{id}", updateUserHandler)
//	r.Delete("/users/{id}", deleteUserHandler)
//
//	// Start server
//	http.ListenAndServe(":8080", r)
//
// # Path Parameters
//
// Extract path parameters from URLs:
//
//	func getUserHandler(ctx *router.Context) handler.Response {
//		userID := ctx.Param("id")
//		user, err := userService.GetByID(userID)
//		if err != nil {
//			return response.Error(response.ErrNotFound.WithMessage("User not found"))
//		}
//		return response.JSON(user)
//	}
//
//	// Multiple parameters
//	r.Get("/users/{userID}/posts/{postID}", func(ctx *router.Context) handler.Response {
//		userID := ctx.Param("userID")
//		postID := ctx.Param("postID")
//		// Handle request
//	})
//
// # Middleware
//
// Add middleware for cross-cutting concerns:
//
//	// Logging middleware
//	func loggingMiddleware(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
//		return func(ctx *router.Context) handler.Response {
//			start := time.Now()
//			response := next(ctx)
//			log.Printf("%s %s - %v", ctx.Request().Method, ctx.Request().URL.Path, time.Since(start))
//			return response
//		}
//	}
//
//	// Auth middleware
//	func authMiddleware(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
//		return func(ctx *router.Context) handler.Response {
//			token := ctx.Request().Header.Get("Authorization")
//			if !isValidToken(token) {
//				return response.Error(response.ErrUnauthorized)
//			}
//			ctx.SetValue("userID", extractUserID(token))
//			return next(ctx)
//		}
//	}
//
//	// Apply middleware
//	r.Use(loggingMiddleware)
//	r.Use(authMiddleware)
//
// # Route Groups
//
// Group routes with common middleware. Route mounts a sub-router under a
// prefix; Group shares the parent's paths and only adds middleware:
//
//	// API v1 routes
//	r.Route("/api/v1", func(v1 router.Router[*router.Context]) {
//		v1.Use(apiMiddleware)
//		v1.Get("/users", listUsersHandler)
//		v1.Post("/users", createUserHandler)
//	})
//
//	// Admin routes
//	r.Group(func(admin router.Router[*router.Context]) {
//		admin.Use(adminMiddleware)
//		admin.Get("/admin/dashboard", dashboardHandler)
//		admin.Get("/admin/users", adminUsersHandler)
//	})
//
// # Error Handling
//
// Implement custom error handling with the WithErrorHandler option:
//
//	r := router.New[*router.Context](router.WithErrorHandler(func(ctx *router.Context, err error) {
//		log.Printf("Route error: %v", err)
//		switch {
//		case errors.Is(err, router.ErrNotFound):
//			response.Render(ctx, response.StringWithStatus("Not found", http.StatusNotFound))
//		case errors.Is(err, router.ErrMethodNotAllowed):
//			response.Render(ctx, response.StringWithStatus("Method not allowed", http.StatusMethodNotAllowed))
//		default:
//			response.Render(ctx, response.StringWithStatus("Internal server error", http.StatusInternalServerError))
//		}
//	}))
//
// # Sub-routers and Mounting
//
// Mount sub-routers for modular applications:
//
//	// User routes
//	userRouter := router.New[*router.Context]()
//	userRouter.Get("/", listUsersHandler)
//	userRouter.Post("/", createUserHandler)
//	userRouter.Get("/{id}", getUserHandler)
//
//	// Product routes
//	productRouter := router.New[*router.Context]()
//	productRouter.Get("/", listProductsHandler)
//	productRouter.Post("/", createProductHandler)
//
//	// Mount sub-routers
//	r.Mount("/users", userRouter)
//	r.Mount("/products", productRouter)
//
// # Best Practices
//
//   - Use middleware for cross-cutting concerns
//   - Group related routes together
//   - Implement proper error handling
//   - Use path parameters for dynamic routes
//   - Apply authentication/authorization middleware appropriately
//   - Log requests and responses for debugging
//   - Use context for request-scoped data
//   - Keep handlers focused on single responsibilities
package router
