package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"chirp/auth"
	"chirp/monitoring"
	"chirp/service"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Server struct {
	service  *service.Service
	verifier *auth.Verifier
}

func NewServer(svc *service.Service, verifier *auth.Verifier) *Server {
	return &Server{
		service:  svc,
		verifier: verifier,
	}
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.identityMiddleware)

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	router.HandleFunc("/login", s.login).Methods("POST")
	router.HandleFunc("/users", s.createUser).Methods("POST")
	router.HandleFunc("/users", s.listUsers).Methods("GET")
	router.HandleFunc("/users/{userId}", s.updateUser).Methods("PUT")
	router.HandleFunc("/users/{userId}", s.deleteUser).Methods("DELETE")
	router.HandleFunc("/me", s.currentUser).Methods("GET")
	router.HandleFunc("/following/{otherUserId}", s.toggleFollowing).Methods("POST")
	router.HandleFunc("/users/{userId}/posts", s.feed).Methods("GET")
	router.HandleFunc("/users/{userId}/posts", s.createPost).Methods("POST")
	router.HandleFunc("/posts/{postId}", s.getPost).Methods("GET")
	router.HandleFunc("/posts/{postId}", s.updatePost).Methods("PUT")
	router.HandleFunc("/posts/{postId}", s.deletePost).Methods("DELETE")

	return router
}

func (s *Server) Run(host string, port int) error {
	handler := monitoring.NewServerMiddleware(s.Router())
	return http.ListenAndServe(fmt.Sprintf("%s:%d", host, port), handler)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.service.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendJson(w, result)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var input service.CreateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.service.CreateUser(r.Context(), input)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendJsonStatus(w, http.StatusCreated, user)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var request struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Bio       string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.service.UpdateUser(
		r.Context(),
		identityFromRequest(r),
		mux.Vars(r)["userId"],
		request.FirstName,
		request.LastName,
		request.Bio,
	)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendJson(w, user)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.service.DeleteUser(r.Context(), identityFromRequest(r), mux.Vars(r)["userId"])
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendJson(w, user)
}

func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.service.CurrentUser(r.Context(), identityFromRequest(r))
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendJson(w, user)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.service.ListUsers(r.Context(), identityFromRequest(r))
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendJson(w, users)
}

func (s *Server) toggleFollowing(w http.ResponseWriter, r *http.Request) {
	following, err := s.service.ToggleFollowing(
		r.Context(),
		identityFromRequest(r),
		mux.Vars(r)["otherUserId"],
	)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	if following == nil {
		following = make([]primitive.ObjectID, 0)
	}
	sendJson(w, following)
}

func (s *Server) feed(w http.ResponseWriter, r *http.Request) {
	posts, err := s.service.Feed(r.Context(), identityFromRequest(r), mux.Vars(r)["userId"])
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendJson(w, posts)
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.service.GetPost(r.Context(), identityFromRequest(r), mux.Vars(r)["postId"])
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendJson(w, post)
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Body     string `json:"body"`
		ImageUrl string `json:"imageUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := s.service.CreatePost(
		r.Context(),
		identityFromRequest(r),
		mux.Vars(r)["userId"],
		request.Body,
		request.ImageUrl,
	)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendJsonStatus(w, http.StatusCreated, post)
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := s.service.UpdatePost(
		r.Context(),
		identityFromRequest(r),
		mux.Vars(r)["postId"],
		request.Body,
	)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendJson(w, post)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	post, err := s.service.DeletePost(r.Context(), identityFromRequest(r), mux.Vars(r)["postId"])
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendJson(w, post)
}
