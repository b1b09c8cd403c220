package api

import (
	"net/http"
	"time"

	"wlog/internal/api/handler"
	"wlog/internal/api/middleware"
	"wlog/internal/app/service"
	"wlog/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	exerciseService *service.ExerciseService,
	workoutService *service.WorkoutService,
	workoutExerciseService *service.WorkoutExerciseService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// jwtauth.Verifier parses "Authorization: Bearer T" when present;
	// ClaimsLoader turns the result into a claim set, or anonymous.
	r.Use(jwtauth.Verifier(security.TokenAuth))
	r.Use(middleware.ClaimsLoader)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("wlog backend"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(apiRouter chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		apiRouter.Route("/login", authHandler.RegisterRoutes)

		userHandler := handler.NewUserHandler(userService)
		apiRouter.Route("/users", userHandler.RegisterRoutes)

		exerciseHandler := handler.NewExerciseHandler(exerciseService)
		apiRouter.Route("/exercises", exerciseHandler.RegisterRoutes)

		workoutHandler := handler.NewWorkoutHandler(workoutService)
		apiRouter.Route("/workouts", workoutHandler.RegisterRoutes)

		workoutExerciseHandler := handler.NewWorkoutExerciseHandler(workoutExerciseService)
		apiRouter.Route("/workoutsexercises", workoutExerciseHandler.RegisterRoutes)
	})

	return r
}
