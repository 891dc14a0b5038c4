package router

import (
	"go-content-api/handler"
	"go-content-api/repository"
	"go-content-api/service"
	"net/http"
)

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	verificationHandler *handler.VerificationHandler,
	categoryHandler *handler.CategoryHandler,
	issuer *service.TokenService,
	users repository.IUserRepository,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)

	if authHandler != nil {
		mux.Handle("POST /register", handler.ErrorHandlingMiddleware(authHandler.Register))
		mux.Handle("POST /login", handler.ErrorHandlingMiddleware(authHandler.Login))
		mux.Handle("POST /refresh-token", handler.ErrorHandlingMiddleware(authHandler.Refresh))

		// Logout requires a valid access token on top of the refresh token
		// in the body.
		auth := handler.AuthMiddleware(issuer)
		mux.Handle("POST /logout", auth(handler.ErrorHandlingMiddleware(authHandler.Logout)))
	}

	if userHandler != nil {
		// The literal check-email pattern takes precedence over the uid
		// wildcard.
		mux.Handle("GET /users/check-email", handler.ErrorHandlingMiddleware(userHandler.CheckEmail))
		mux.Handle("GET /users/{uid}", handler.ErrorHandlingMiddleware(userHandler.Get))
		mux.Handle("POST /users/check-username", handler.ErrorHandlingMiddleware(userHandler.CheckUsername))
		mux.Handle("POST /users/check-password", handler.ErrorHandlingMiddleware(userHandler.CheckPassword))

		auth := handler.AuthMiddleware(issuer)
		mux.Handle("PUT /profile", auth(handler.ErrorHandlingMiddleware(userHandler.UpdateProfile)))
	}

	if verificationHandler != nil {
		mux.Handle("POST /email/send-code", handler.ErrorHandlingMiddleware(verificationHandler.SendCode))
		mux.Handle("POST /email/verify", handler.ErrorHandlingMiddleware(verificationHandler.VerifyCode))
	}

	if categoryHandler != nil {
		mux.Handle("GET /categories", handler.ErrorHandlingMiddleware(categoryHandler.List))
		mux.Handle("GET /categories/{id}", handler.ErrorHandlingMiddleware(categoryHandler.Get))

		// Category mutations are restricted to admins.
		auth := handler.AuthMiddleware(issuer)
		admin := handler.AdminMiddleware(users)
		mux.Handle("POST /categories", auth(admin(handler.ErrorHandlingMiddleware(categoryHandler.Create))))
		mux.Handle("PUT /categories/{id}", auth(admin(handler.ErrorHandlingMiddleware(categoryHandler.Update))))
		mux.Handle("DELETE /categories/{id}", auth(admin(handler.ErrorHandlingMiddleware(categoryHandler.Delete))))
	}

	return mux
}
