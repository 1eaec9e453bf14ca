package testimonial

import (
	"net/http"
	"strconv"

	"docemania/infras/otel"
	"docemania/internal/domains/testimonial/model"
	"docemania/internal/domains/testimonial/model/dto"
	"docemania/internal/domains/testimonial/service"
	"docemania/shared/constant"
	gDto "docemania/shared/dto"
	"docemania/shared/validator"
	"docemania/transport/http/response"

	"github.com/go-chi/chi/v5"
)

const queryParamMinRating = "min_rating"

type Handler struct {
	service service.Testimonial
	otel    otel.Otel
}

func New(service service.Testimonial, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/testimonials", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTestimonial)
		routerGroup.Get("/", handler.GetTestimonials)
		routerGroup.Get("/{id}", handler.GetTestimonialByID)
		routerGroup.Patch("/{id}", handler.UpdateTestimonial)
		routerGroup.Delete("/{id}", handler.DeleteTestimonial)
	})
}

// CreateTestimonial handles a testimonial submitted by a customer or an admin.
// @Summary Create a testimonial
// @Description Public endpoint. The date defaults to today when omitted.
// @Tags Testimonial
// @Accept json
// @Produce json
// @Param request body dto.CreateTestimonialRequest true "Create Testimonial Request"
// @Success 201 {object} dto.TestimonialResponse "Created testimonial"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/testimonials [post]
func (handler *Handler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTestimonial")
	defer scope.End()

	req := dto.CreateTestimonialRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.WithTracedError(w, scope, err, "failed to validate request body")

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to create testimonial")

		return
	}

	scope.AddEvent("Testimonial created by " + res.CreatedBy)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetTestimonials retrieves testimonials.
// @Summary Get all testimonials
// @Tags Testimonial
// @Produce json
// @Param min_rating query int false "Only testimonials rated at least this"
// @Param name query string false "Filter by author name"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort_by query string false "created_at, updated_at, name, rating or date"
// @Param sort_dir query string false "ASC or DESC"
// @Success 200 {object} dto.GetTestimonialsResponse "List of testimonials"
// @Failure 500 {object} response.Error
// @Router /v1/testimonials [get]
func (handler *Handler) GetTestimonials(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTestimonials")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, false)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if minRating, err := strconv.Atoi(r.URL.Query().Get(queryParamMinRating)); err == nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldRating,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    minRating,
			Table:    model.TableName,
		})
	}

	if name := r.URL.Query().Get(model.FieldName); name != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	testimonials, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get testimonials")

		return
	}

	response.WithJSON(w, http.StatusOK, testimonials)
}

// GetTestimonialByID retrieves a testimonial by its ID.
// @Summary Get a testimonial by ID
// @Tags Testimonial
// @Produce json
// @Param id path string true "Testimonial ID"
// @Success 200 {object} dto.TestimonialResponse "Testimonial details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/testimonials/{id} [get]
func (handler *Handler) GetTestimonialByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTestimonialByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	testimonial, err := handler.service.Get(ctx, id)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get testimonial by ID")

		return
	}

	response.WithJSON(w, http.StatusOK, testimonial)
}

// UpdateTestimonial partially updates a testimonial.
// @Summary Update a testimonial by ID
// @Tags Testimonial
// @Accept json
// @Produce json
// @Param id path string true "Testimonial ID"
// @Param request body dto.UpdateTestimonialRequest true "Update Testimonial Request"
// @Success 200 {object} dto.TestimonialResponse "Updated testimonial"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/testimonials/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTestimonial")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateTestimonialRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		response.WithTracedError(w, scope, err, "failed to validate request body")

		return
	}

	res, err := handler.service.Update(ctx, req, id)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to update testimonial")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Testimonial updated successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteTestimonial deletes a testimonial.
// @Summary Delete a testimonial by ID
// @Tags Testimonial
// @Produce json
// @Param id path string true "Testimonial ID"
// @Success 200 {object} response.Message "Testimonial deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/testimonials/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTestimonial")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		response.WithTracedError(w, scope, err, "failed to delete testimonial")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Testimonial deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Testimonial deleted successfully")
}
