package booking

import (
	"net/http"

	"docemania/infras/otel"
	"docemania/internal/domains/booking/model"
	"docemania/internal/domains/booking/model/dto"
	"docemania/internal/domains/booking/service"
	"docemania/shared/constant"
	gDto "docemania/shared/dto"
	"docemania/shared/failure"
	"docemania/shared/validator"
	"docemania/transport/http/response"

	"github.com/go-chi/chi/v5"
)

const (
	queryParamEventFrom = "event_from"
	queryParamEventTo   = "event_to"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Patch("/{id}", handler.UpdateBooking)
		routerGroup.Delete("/{id}", handler.DeleteBooking)
	})
}

// CreateBooking handles a cake order submitted through the public form.
// @Summary Create a new booking
// @Description Register a cake order. The event date must not be in the past and the status starts as pending.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} dto.BookingResponse "Created booking"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		response.WithTracedError(writer, scope, err, "failed to validate request body")

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		response.WithTracedError(writer, scope, err, "failed to create booking")

		return
	}

	scope.AddEvent("Booking created successfully by " + res.CreatedBy)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetBookings retrieves bookings for the admin panel.
// @Summary Get all bookings
// @Tags Booking
// @Produce json
// @Param status query string false "Filter by status (pending, confirmed, cancelled)"
// @Param cake_type query string false "Filter by cake type"
// @Param event_from query string false "Events on or after this date (YYYY-MM-DD)"
// @Param event_to query string false "Events on or before this date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort_by query string false "created_at, updated_at, name, event_date or status"
// @Param sort_dir query string false "ASC or DESC"
// @Success 200 {object} dto.GetBookingsResponse "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, false)

	filterGroup, err := bookingFilter(r)
	if err != nil {
		response.WithTracedError(w, scope, err, "invalid booking filter")

		return
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get bookings")

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

func bookingFilter(r *http.Request) (gDto.FilterGroup, error) {
	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if status := model.Status(query.Get(model.FieldStatus)); status != "" {
		if !status.IsValid() {
			return filterGroup, failure.BadRequestFromString("invalid status filter")
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    string(status),
			Table:    model.TableName,
		})
	}

	if cakeType := query.Get(model.FieldCakeType); cakeType != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCakeType,
			Operator: gDto.FilterOperatorEq,
			Value:    cakeType,
			Table:    model.TableName,
		})
	}

	ranges := []struct {
		param    string
		operator string
	}{
		{queryParamEventFrom, gDto.FilterOperatorGreaterEq},
		{queryParamEventTo, gDto.FilterOperatorLessEq},
	}

	for _, rng := range ranges {
		value := query.Get(rng.param)
		if value == "" {
			continue
		}

		if err := validator.ValidateVar(value, "datetime="+constant.DayFormat); err != nil {
			return filterGroup, err
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			ArgName:  rng.param,
			Field:    model.FieldEventDate,
			Operator: rng.operator,
			Value:    value,
			Table:    model.TableName,
		})
	}

	return filterGroup, nil
}

// GetBookingByID retrieves a booking with its WhatsApp follow-up link.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse "Booking details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get booking by ID")

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// UpdateBooking partially updates a booking, including its status.
// @Summary Update a booking by ID
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateBookingRequest true "Update Booking Request"
// @Success 200 {object} dto.BookingResponse "Updated booking"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateBookingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		response.WithTracedError(w, scope, err, "failed to validate request body")

		return
	}

	res, err := handler.service.Update(ctx, req, id)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to update booking")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking updated successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteBooking permanently deletes a booking.
// @Summary Delete a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message "Booking deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		response.WithTracedError(w, scope, err, "failed to delete booking")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Booking deleted successfully")
}
