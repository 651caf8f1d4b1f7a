package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-console/internal/adapter/gin/middleware"
	"user-console/internal/domain/session"
	domain "user-console/internal/domain/user"
	"user-console/internal/usecase/user"
	apperrors "user-console/pkg/errors"
	"user-console/pkg/logger"
	"user-console/pkg/security"
)

// ConsoleHandler serves the server-rendered user management pages.
type ConsoleHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewConsoleHandler creates a new ConsoleHandler instance
func NewConsoleHandler(uc user.Usecase, log *zap.Logger) *ConsoleHandler {
	return &ConsoleHandler{
		uc:  uc,
		log: log,
	}
}

// userForm is the HTML form body of the create and edit pages.
type userForm struct {
	Name        string `form:"name"`
	Username    string `form:"username"`
	Email       string `form:"email"`
	Phone       string `form:"phone"`
	Website     string `form:"website"`
	Street      string `form:"street"`
	Suite       string `form:"suite"`
	City        string `form:"city"`
	Zipcode     string `form:"zipcode"`
	CompanyName string `form:"company_name"`
}

func (f userForm) input() user.UserInput {
	return user.UserInput{
		Name:        f.Name,
		Username:    f.Username,
		Email:       f.Email,
		Phone:       f.Phone,
		Website:     f.Website,
		Street:      f.Street,
		Suite:       f.Suite,
		City:        f.City,
		Zipcode:     f.Zipcode,
		CompanyName: f.CompanyName,
	}
}

// Index handles GET /
func (h *ConsoleHandler) Index(c *gin.Context) {
	c.Redirect(http.StatusFound, "/users")
}

// ListUsers handles GET /users. Query parameters change the session's view
// state and are then dropped by a redirect so a reload does not repeat them.
func (h *ConsoleHandler) ListUsers(c *gin.Context) {
	st := middleware.SessionState(c)
	ctx := c.Request.Context()

	if c.Query("reload") == "1" {
		if err := h.uc.LoadUsers(ctx, st, true); err != nil {
			h.renderLoadError(c)
			return
		}
	}

	req := user.ListUsersRequest{
		ClearSearch: c.Query("clear") == "1",
		ToggleSort:  c.Query("sort"),
		Mode:        c.Query("view"),
		MobileHint:  c.GetHeader("Sec-CH-UA-Mobile") == "?1",
	}
	if q, ok := c.GetQuery("q"); ok {
		req.Search = &q
	}

	resp, err := h.uc.ListUsers(ctx, st, req)
	if err != nil {
		if errors.Is(err, user.ErrLoadFailed) {
			h.renderLoadError(c)
			return
		}
		h.renderError(c, err)
		return
	}

	if len(c.Request.URL.RawQuery) > 0 {
		c.Redirect(http.StatusSeeOther, "/users")
		return
	}

	h.render(c, http.StatusOK, "list.html", "Users", gin.H{
		"Users": resp.Users,
		"Total": resp.Total,
		"View":  resp.View,
		"Empty": resp.Empty,
	})
}

// NewUser handles GET /users/new
func (h *ConsoleHandler) NewUser(c *gin.Context) {
	h.renderForm(c, http.StatusOK, "create", 0, user.UserInput{}, nil)
}

// CreateUser handles POST /users
func (h *ConsoleHandler) CreateUser(c *gin.Context) {
	st := middleware.SessionState(c)

	var form userForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Warn("Invalid create user form", zap.Error(err))
		h.renderError(c, apperrors.NewValidationError("form", "malformed form body"))
		return
	}
	in := form.input()

	created, err := h.uc.CreateUser(c.Request.Context(), st, user.CreateUserRequest{UserInput: in})
	if err != nil {
		h.formFailure(c, st, "create", 0, in, err, user.CreateFailedMessage)
		return
	}

	logger.WithContext(c.Request.Context(), h.log).Info("user created via console", zap.Int64("id", created.ID))
	st.Success("Created!", "User created successfully")
	c.Redirect(http.StatusSeeOther, "/users")
}

// ShowUser handles GET /users/:id
func (h *ConsoleHandler) ShowUser(c *gin.Context) {
	u, ok := h.lookup(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "detail.html", u.Name, gin.H{"User": u})
}

// EditUser handles GET /users/:id/edit
func (h *ConsoleHandler) EditUser(c *gin.Context) {
	u, ok := h.lookup(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, "edit", u.ID, user.InputFromUser(*u), nil)
}

// UpdateUser handles POST /users/:id
func (h *ConsoleHandler) UpdateUser(c *gin.Context) {
	st := middleware.SessionState(c)
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var form userForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Warn("Invalid update user form", zap.Error(err))
		h.renderError(c, apperrors.NewValidationError("form", "malformed form body"))
		return
	}
	in := form.input()

	if _, err := h.uc.UpdateUser(c.Request.Context(), st, user.UpdateUserRequest{ID: id, UserInput: in}); err != nil {
		h.formFailure(c, st, "edit", id, in, err, err.Error())
		return
	}

	st.Success("Updated!", "User updated successfully")
	c.Redirect(http.StatusSeeOther, userURL(id))
}

// ConfirmDelete handles GET /users/:id/delete
func (h *ConsoleHandler) ConfirmDelete(c *gin.Context) {
	u, ok := h.lookup(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "confirm_delete.html", "Delete "+u.Name, gin.H{"User": u})
}

// DeleteUser handles POST /users/:id/delete
func (h *ConsoleHandler) DeleteUser(c *gin.Context) {
	st := middleware.SessionState(c)
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.uc.DeleteUser(c.Request.Context(), st, id); err != nil {
		var notFound *apperrors.NotFoundError
		if errors.As(err, &notFound) {
			h.renderError(c, err)
			return
		}
		st.Failure("Error!", err.Error())
		c.Redirect(http.StatusSeeOther, userURL(id))
		return
	}

	st.Success("Deleted!", "User has been deleted.")
	c.Redirect(http.StatusSeeOther, "/users")
}

// Settings handles GET /settings
func (h *ConsoleHandler) Settings(c *gin.Context) {
	h.render(c, http.StatusOK, "settings.html", "Settings", gin.H{})
}

// ToggleTheme handles POST /settings/theme. An explicit theme value wins over toggling.
func (h *ConsoleHandler) ToggleTheme(c *gin.Context) {
	st := middleware.SessionState(c)
	if theme, ok := c.GetPostForm("theme"); ok {
		st.Theme = session.ParseTheme(theme)
	} else {
		st.ToggleTheme()
	}

	target := c.PostForm("return_to")
	if !security.IsSafeRedirect(target) {
		target = "/settings"
	}
	c.Redirect(http.StatusSeeOther, target)
}

// lookup loads the user named by the :id path parameter or renders the error page.
func (h *ConsoleHandler) lookup(c *gin.Context) (*domain.User, bool) {
	id, ok := h.parseID(c)
	if !ok {
		return nil, false
	}

	u, err := h.uc.GetUser(c.Request.Context(), middleware.SessionState(c), id)
	if err != nil {
		if errors.Is(err, user.ErrLoadFailed) {
			h.renderLoadError(c)
			return nil, false
		}
		h.renderError(c, err)
		return nil, false
	}
	return u, true
}

func (h *ConsoleHandler) parseID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		h.log.Warn("Invalid user ID", zap.String("id", idStr))
		h.renderError(c, apperrors.NewNotFoundError("user", "User not found"))
		return 0, false
	}
	return id, true
}

// formFailure re-renders a form after a failed submit. Field problems are
// shown inline, anything else as an error toast above the kept values.
func (h *ConsoleHandler) formFailure(c *gin.Context, st *session.State, mode string, id int64, in user.UserInput, err error, toast string) {
	var validation *apperrors.ValidationError
	var exists *apperrors.AlreadyExistsError
	switch {
	case errors.As(err, &validation):
		h.renderForm(c, validation.HTTPStatus(), mode, id, in, validation.Fields)
	case errors.As(err, &exists):
		h.renderForm(c, exists.HTTPStatus(), mode, id, in, map[string]string{"email": "Email already exists"})
	case errors.Is(err, user.ErrLoadFailed):
		h.renderLoadError(c)
	default:
		var notFound *apperrors.NotFoundError
		if errors.As(err, &notFound) {
			h.renderError(c, err)
			return
		}
		logger.WithContext(c.Request.Context(), h.log).Error("user form submit failed", zap.String("mode", mode), zap.Error(err))
		st.Failure("Error!", toast)
		h.renderForm(c, statusFor(err), mode, id, in, nil)
	}
}

func (h *ConsoleHandler) renderForm(c *gin.Context, status int, mode string, id int64, in user.UserInput, errs map[string]string) {
	title, action, cancel := "Add User", "/users", "/users"
	if mode == "edit" {
		title = fmt.Sprintf("Edit User #%d", id)
		action, cancel = userURL(id), userURL(id)
	}

	h.render(c, status, "form.html", title, gin.H{
		"Mode":      mode,
		"UserID":    id,
		"Action":    action,
		"CancelURL": cancel,
		"Input":     in,
		"Errors":    errs,
	})
}

func (h *ConsoleHandler) renderLoadError(c *gin.Context) {
	h.render(c, http.StatusBadGateway, "error.html", "Error", gin.H{
		"Heading":  "Error",
		"Message":  user.LoadFailedMessage,
		"RetryURL": "/users?reload=1",
	})
}

func (h *ConsoleHandler) renderError(c *gin.Context, err error) {
	status := statusFor(err)
	heading := http.StatusText(status)
	message := err.Error()
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		message = "An internal error occurred"
	}
	h.render(c, status, "error.html", heading, gin.H{
		"Heading": heading,
		"Message": message,
	})
}

// render adds the layout fields and pops the pending toast.
func (h *ConsoleHandler) render(c *gin.Context, status int, name, title string, data gin.H) {
	st := middleware.SessionState(c)
	data["Title"] = title
	data["Theme"] = st.Theme
	data["Flash"] = st.PopFlash()
	data["CurrentPath"] = c.Request.URL.Path
	c.HTML(status, name, data)
}

func userURL(id int64) string {
	return "/users/" + strconv.FormatInt(id, 10)
}
