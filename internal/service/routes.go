package service

import (
	"net/http"

	"github.com/gorilla/mux"

	"roomledger/internal/auth"
	"roomledger/internal/middleware"
)

// Services bundles the handler groups behind the HTTP API.
type Services struct {
	Auth        *AuthService
	Users       *UserService
	Expenses    *ExpenseService
	Payments    *PaymentService
	Summary     *SummaryService
	Electricity *ElectricityService
}

// NewRouter builds the API router. Three tiers share the /api prefix:
// public (login, forgot-password), authenticated, and admin-only.
func NewRouter(svc Services, jwtManager *auth.JWTManager) *mux.Router {
	r := mux.NewRouter()

	public := r.PathPrefix("/api").Subrouter()
	public.HandleFunc("/login", svc.Auth.Login).Methods(http.MethodPost)
	public.HandleFunc("/forgot-password", svc.Auth.ForgotPassword).Methods(http.MethodPost)

	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(middleware.RequireAuth(jwtManager))
	authed.HandleFunc("/change-password", svc.Auth.ChangePassword).Methods(http.MethodPost)
	authed.HandleFunc("/users", svc.Users.List).Methods(http.MethodGet)
	authed.HandleFunc("/expenses", svc.Expenses.Create).Methods(http.MethodPost)
	authed.HandleFunc("/expenses", svc.Expenses.List).Methods(http.MethodGet)
	authed.HandleFunc("/expenses/{id}", svc.Expenses.Get).Methods(http.MethodGet)
	authed.HandleFunc("/payments", svc.Payments.Create).Methods(http.MethodPost)
	authed.HandleFunc("/payments", svc.Payments.List).Methods(http.MethodGet)
	authed.HandleFunc("/summary", svc.Summary.Get).Methods(http.MethodGet)

	admin := r.PathPrefix("/api").Subrouter()
	admin.Use(middleware.RequireAuth(jwtManager), middleware.RequireAdmin())
	admin.HandleFunc("/register", svc.Users.Register).Methods(http.MethodPost)
	admin.HandleFunc("/admin/users/{userId}", svc.Users.Update).Methods(http.MethodPut)
	admin.HandleFunc("/admin/reset-password", svc.Users.ResetPassword).Methods(http.MethodPost)
	admin.HandleFunc("/admin/remote-login", svc.Auth.RemoteLogin).Methods(http.MethodPost)
	admin.HandleFunc("/admin/meter-readings", svc.Electricity.CreateReading).Methods(http.MethodPost)
	admin.HandleFunc("/admin/meter-readings", svc.Electricity.ListReadings).Methods(http.MethodGet)
	admin.HandleFunc("/admin/generate-bill", svc.Electricity.GenerateBill).Methods(http.MethodPost)
	admin.HandleFunc("/admin/electricity-bills", svc.Electricity.ListBills).Methods(http.MethodGet)

	return r
}
