package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/saudapakka/saudapakka-mandate"
	"github.com/saudapakka/saudapakka-mandate/internal/domain"
	"github.com/saudapakka/saudapakka-mandate/internal/lifecycle"
	"github.com/saudapakka/saudapakka-mandate/internal/present/rest/middleware"
	"github.com/saudapakka/saudapakka-mandate/internal/present/rest/presenter"
	"github.com/saudapakka/saudapakka-mandate/internal/service"
	"github.com/saudapakka/saudapakka-mandate/internal/usecase"
	"github.com/saudapakka/saudapakka-mandate/viewfilter"
)

const maxSignatureBytes = 2 << 20

// Realtime relays a user's channel to a websocket.
type Realtime interface {
	Realtime(ctx context.Context, channel string, output chan<- saudapakka.Event)
}

type Handler struct {
	config       domain.Config
	mandate      *usecase.MandateUsecase
	notification *usecase.NotificationUsecase
	auth         *service.AuthService
	signal       Realtime
}

func NewHandler(
	config domain.Config,
	mandate *usecase.MandateUsecase,
	notification *usecase.NotificationUsecase,
	auth *service.AuthService,
	signal Realtime,
) *Handler {
	return &Handler{
		config:       config,
		mandate:      mandate,
		notification: notification,
		auth:         auth,
		signal:       signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.handleHealthz)

	api := e.Group("/api")
	api.POST("/auth/login/", h.handleLogin)
	api.GET("/auth/me/", h.handleMe)

	api.GET("/mandates/", h.handleListMandates)
	api.POST("/mandates/", h.handleCreateMandate)
	api.GET("/mandates/search_broker/", h.handleSearchBroker)
	api.GET("/mandates/:id/", h.handleGetMandate)
	api.DELETE("/mandates/:id/", h.handleDeleteMandate)
	api.POST("/mandates/:id/accept_and_sign/", h.handleAcceptAndSign)
	api.POST("/mandates/:id/reject/", h.handleReject)
	api.POST("/mandates/:id/cancel_mandate/", h.handleCancel)
	api.POST("/mandates/:id/renew_mandate/", h.handleRenew)
	api.GET("/mandates/:id/letter/", h.handleLetter)

	api.GET("/properties/my_listings/", h.handleMyListings)
	api.GET("/properties/:id/", h.handleGetProperty)

	api.GET("/notifications/", h.handleListNotifications)
	api.POST("/notifications/mark_all_as_read/", h.handleMarkAllAsRead)
	api.POST("/notifications/:id/mark_as_read/", h.handleMarkAsRead)

	api.GET("/realtime", h.handleRealtime)
}

func (h *Handler) handleHealthz(c echo.Context) error {
	return presenter.OK(c, echo.Map{"status": "ok"})
}

// viewer returns the authenticated viewer or writes the 401 response.
func (h *Handler) viewer(c echo.Context) (domain.Viewer, bool, error) {
	viewer, err := middleware.Viewer(c.Request().Context())
	if err != nil {
		return domain.Viewer{}, false, presenter.Error(c, err)
	}
	return viewer, true, nil
}

func (h *Handler) wire(viewer domain.Viewer, detail domain.MandateDetail) saudapakka.Mandate {
	return detail.Wire(lifecycle.MyRole(detail.Mandate, viewer), h.config.SignatureBaseURL)
}

func (h *Handler) handleLogin(c echo.Context) error {
	var req saudapakka.LoginRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}
	verr := domain.NewValidationError()
	if req.Email == "" {
		verr.Add("email", "This field is required.")
	}
	if req.Password == "" {
		verr.Add("password", "This field is required.")
	}
	if err := verr.OrNil(); err != nil {
		return presenter.Error(c, err)
	}

	token, user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, saudapakka.LoginResponse{Token: token, User: user.Wire()})
}

func (h *Handler) handleMe(c echo.Context) error {
	viewer, ok, err := h.viewer(c)
	if !ok {
		return err
	}
	user, err := h.auth.Me(c.Request().Context(), viewer)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, user.Wire())
}

func (h *Handler) handleListMandates(c echo.Context) error {
	viewer, ok, err := h.viewer(c)
	if !ok {
		return err
	}

	view := viewfilter.ViewAll
	if raw := c.QueryParam("view"); raw != "" {
		parsed, valid := viewfilter.ParseView(raw)
		if !valid {
			return presenter.Error(c, domain.Invalid("view", "\""+raw+"\" is not a valid choice."))
		}
		view = parsed
	}

	details, err := h.mandate.List(c.Request().Context(), viewer)
	if err != nil {
		return presenter.Error(c, err)
	}

	mandates := make([]saudapakka.Mandate, 0, len(details))
	for _, d := range details {
		mandates = append(mandates, h.wire(viewer, d))
	}
	return presenter.OK(c, viewfilter.Filter(viewer.Wire(), mandates, view))
}

func (h *Handler) handleGetMandate(c echo.Context) error {
	viewer, ok, err := h.viewer(c)
	if !ok {
		return err
	}
	detail, err := h.mandate.Get(c.Request().Context(), viewer, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, h.wire(viewer, detail))
}

func (h *Handler) handleCreateMandate(c echo.Context) error {
	viewer, ok, err := h.viewer(c)
	if !ok {
		return err
	}

	var req saudapakka.CreateMandateRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	sig, err := readUpload(c, req.SignatureField())
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	detail, err := h.mandate.Create(c.Request().Context(), viewer, domain.CreateMandateInput{
		PropertyID:     req.PropertyItem,
		InitiatedBy:    req.InitiatedBy,
		DealType:       req.DealType,
		BrokerID:       req.Broker,
		IsExclusive:    req.IsExclusive,
		CommissionRate: req.CommissionRate,
		Signature:      sig,
	})
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, h.wire(viewer, detail))
}

func (h *Handler) handleAcceptAndSign(c echo.Context) error {
	viewer, ok, err := h.viewer(c)
	if !ok {
		return err
	}
	sig, err := readUpload(c, "signature")
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	detail, err := h.mandate.AcceptAndSign(c.Request().Context(), viewer, c.Param("id"), sig)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, h.wire(viewer, detail))
}

func (h *Handler) handleReject(c echo.Context) error {
	viewer, ok, err := h.viewer(c)
	if !ok {
		return err
	}
	var req saudapakka.RejectMandateRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}
	detail, err := h.mandate.Reject(c.Request().Context(), viewer, c.Param("id"), req.Reason)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, h.wire(viewer, detail))
}

func (h *Handler) handleCancel(c echo.Context) error {
	viewer, ok, err := h.viewer(c)
	if !ok {
		return err
	}
	detail, err := h.mandate.Cancel(c.Request().Context(), viewer, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, h.wire(viewer, detail))
}

func (h *Handler) handleRenew(c echo.Context) error {
	viewer, ok, err := h.viewer(c)
	if !ok {
		return err
	}
	sig, err := readUpload(c, "signature")
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	detail, err := h.mandate.Renew(c.Request().Context(), viewer, c.Param("id"), sig)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, h.wire(viewer, detail))
}

func (h *Handler) handleDeleteMandate(c echo.Context) error {
	viewer, ok, err := h.viewer(c)
	if !ok {
		return err
	}
	if err := h.mandate.Delete(c.Request().Context(), viewer, c.Param("id")); err != nil {
		return presenter.Error(c, err)
	}
	return presenter.NoContent(c)
}

func (h *Handler) handleSearchBroker(c echo.Context) error {
	if _, ok, err := h.viewer(c); !ok {
		return err
	}
	broker, err := h.mandate.SearchBroker(c.Request().Context(), c.QueryParam("mobile_number"))
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return presenter.BadRequestMessage(c, "Mobile number required")
		}
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "Broker not found")
		}
		return presenter.Error(c, err)
	}
	return presenter.OK(c, broker.Wire())
}

func (h *Handler) handleLetter(c echo.Context) error {
	viewer, ok, err := h.viewer(c)
	if !ok {
		return err
	}
	text, err := h.mandate.Letter(c.Request().Context(), viewer, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return c.String(http.StatusOK, text)
}

func (h *Handler) handleMyListings(c echo.Context) error {
	viewer, ok, err := h.viewer(c)
	if !ok {
		return err
	}
	properties, err := h.mandate.MyListings(c.Request().Context(), viewer)
	if err != nil {
		return presenter.Error(c, err)
	}
	result := make([]saudapakka.Property, 0, len(properties))
	for _, p := range properties {
		result = append(result, p.Wire())
	}
	return presenter.OK(c, result)
}

func (h *Handler) handleGetProperty(c echo.Context) error {
	if _, ok, err := h.viewer(c); !ok {
		return err
	}
	property, err := h.mandate.Property(c.Request().Context(), c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, property.Wire())
}

func (h *Handler) handleListNotifications(c echo.Context) error {
	viewer, ok, err := h.viewer(c)
	if !ok {
		return err
	}
	notifications, err := h.notification.List(c.Request().Context(), viewer)
	if err != nil {
		return presenter.Error(c, err)
	}
	result := make([]saudapakka.Notification, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, n.Wire())
	}
	return presenter.OK(c, result)
}

func (h *Handler) handleMarkAsRead(c echo.Context) error {
	viewer, ok, err := h.viewer(c)
	if !ok {
		return err
	}
	if err := h.notification.MarkAsRead(c.Request().Context(), viewer, c.Param("id")); err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "marked as read"})
}

func (h *Handler) handleMarkAllAsRead(c echo.Context) error {
	viewer, ok, err := h.viewer(c)
	if !ok {
		return err
	}
	count, err := h.notification.MarkAllAsRead(c.Request().Context(), viewer)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "all marked as read", "count": count})
}

// readUpload returns the named multipart file, or nil when the request carries none.
func readUpload(c echo.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	if fh.Size > maxSignatureBytes {
		return nil, errors.New("signature file is too large")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxSignatureBytes))
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Request struct {
	Type string `json:"type"`
}

func (h *Handler) handleRealtime(c echo.Context) error {
	viewer, ok, err := h.viewer(c)
	if !ok {
		return err
	}
	if h.signal == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"detail": "Realtime is not enabled."})
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	output := make(chan saudapakka.Event)
	go h.signal.Realtime(ctx, domain.UserChannel(viewer.UserID), output)

	quit := make(chan struct{})

	go func() {
		defer close(quit)
		for {
			var req Request
			err := ws.ReadJSON(&req)
			if err != nil {

				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}
				return
			}

			switch req.Type {
			case "h": // heartbeat
			default:
				slog.InfoContext(
					ctx, "Unknown request type",
					slog.String("type", req.Type),
					slog.String("module", "socket"),
				)
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event, ok := <-output:
			if !ok {
				return nil
			}
			ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
			err := ws.WriteJSON(event)
			if err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
