package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/unispace-app/unispace-backend/internal/auth"
	"github.com/unispace-app/unispace-backend/internal/pkg/response"
	"github.com/unispace-app/unispace-backend/internal/user"
)

// Handler serves user and authentication endpoints.
type Handler struct {
	service    user.Service
	jwtManager *auth.JWTManager
}

// NewHandler creates a user Handler.
func NewHandler(service user.Service, jwtManager *auth.JWTManager) *Handler {
	return &Handler{
		service:    service,
		jwtManager: jwtManager,
	}
}

// Register creates a new account. Self-registration never grants admin.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	// Role escalation requires an existing admin using the admin endpoint.
	role := user.RoleUser

	u, err := h.service.Register(c.Request.Context(), user.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, NewUserResponse(u), "User registered successfully")
}

// Login authenticates a user and returns a JWT access token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	u, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwtManager.GenerateAccessToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	response.OK(c, LoginResponse{
		AccessToken: token,
		User:        NewUserResponse(u),
	}, "Login successful")
}

// Me returns the profile of the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	userID := auth.GetUserID(c)
	if userID == "" {
		response.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, NewUserResponse(u), "User retrieved successfully")
}

// List returns a paginated user list. Admin only.
func (h *Handler) List(c *gin.Context) {
	var req ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindingError(c, err)
		return
	}
	req.Normalize()

	users, total, err := h.service.List(c.Request.Context(), user.Filter{
		Email:    req.Email,
		Role:     req.Role,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]UserResponse, len(users))
	for i, u := range users {
		items[i] = NewUserResponse(u)
	}

	page := response.NewPage(items, req.Page, req.PageSize, total)
	response.OK(c, page, "Users retrieved successfully")
}

// Get returns one user by ID. Admin only.
func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Fail(c, http.StatusBadRequest, "User ID must be a valid UUID")
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, NewUserResponse(u), "User retrieved successfully")
}

// Create adds a user with an explicit role. Admin only.
func (h *Handler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	u, err := h.service.Register(c.Request.Context(), user.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     user.Role(req.Role),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, NewUserResponse(u), "User created successfully")
}

// Update modifies a user's profile or role. Admin only.
func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Fail(c, http.StatusBadRequest, "User ID must be a valid UUID")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	var role *user.Role
	if req.Role != nil {
		r := user.Role(*req.Role)
		role = &r
	}

	u, err := h.service.Update(c.Request.Context(), id, user.UpdateRequest{
		Name:  req.Name,
		Email: req.Email,
		Role:  role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, NewUserResponse(u), "User updated successfully")
}

// Delete removes a user. Admin only.
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Fail(c, http.StatusBadRequest, "User ID must be a valid UUID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, nil, "User deleted successfully")
}
