package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventlisting/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	userController *controllers.UserController,
	categoryController *controllers.CategoryController,
	eventController *controllers.EventController,
	requestController *controllers.RequestController,
	compilationController *controllers.CompilationController,
	commentController *controllers.CommentController,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Admin
	mux.HandleFunc("POST /admin/users", userController.Create)
	mux.HandleFunc("GET /admin/users", userController.List)
	mux.HandleFunc("DELETE /admin/users/{userID}", userController.Delete)
	mux.HandleFunc("POST /admin/categories", categoryController.Create)
	mux.HandleFunc("PATCH /admin/categories/{catID}", categoryController.Update)
	mux.HandleFunc("DELETE /admin/categories/{catID}", categoryController.Delete)
	mux.HandleFunc("GET /admin/events", eventController.SearchAdmin)
	mux.HandleFunc("PATCH /admin/events/{eventID}", eventController.UpdateAdmin)
	mux.HandleFunc("POST /admin/compilations", compilationController.Create)
	mux.HandleFunc("PATCH /admin/compilations/{compID}", compilationController.Update)
	mux.HandleFunc("DELETE /admin/compilations/{compID}", compilationController.Delete)
	mux.HandleFunc("DELETE /admin/comments/{commentID}", commentController.DeleteAdmin)

	// Private (initiator / requester, identified by path param)
	mux.HandleFunc("POST /users/{userID}/events", eventController.Create)
	mux.HandleFunc("GET /users/{userID}/events", eventController.ListOwn)
	mux.HandleFunc("GET /users/{userID}/events/{eventID}", eventController.GetOwn)
	mux.HandleFunc("PATCH /users/{userID}/events/{eventID}", eventController.UpdateOwn)
	mux.HandleFunc("GET /users/{userID}/events/{eventID}/requests", requestController.ListForEvent)
	mux.HandleFunc("PATCH /users/{userID}/events/{eventID}/requests", requestController.Moderate)
	mux.HandleFunc("POST /users/{userID}/requests", requestController.Create)
	mux.HandleFunc("GET /users/{userID}/requests", requestController.ListOwn)
	mux.HandleFunc("PATCH /users/{userID}/requests/{requestID}/cancel", requestController.Cancel)
	mux.HandleFunc("POST /users/{userID}/comments", commentController.Create)
	mux.HandleFunc("GET /users/{userID}/comments", commentController.ListForUser)
	mux.HandleFunc("PATCH /users/{userID}/comments/{commentID}", commentController.Update)
	mux.HandleFunc("DELETE /users/{userID}/comments/{commentID}", commentController.Delete)

	// Public
	mux.HandleFunc("GET /events", eventController.SearchPublic)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetPublic)
	mux.HandleFunc("GET /events/{eventID}/comments", commentController.ListForEvent)
	mux.HandleFunc("GET /categories", categoryController.List)
	mux.HandleFunc("GET /categories/{catID}", categoryController.Get)
	mux.HandleFunc("GET /compilations", compilationController.List)
	mux.HandleFunc("GET /compilations/{compID}", compilationController.Get)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
