package gallery

import (
	"net/http"

	"docemania/infras/otel"
	"docemania/internal/domains/gallery/model"
	"docemania/internal/domains/gallery/model/dto"
	"docemania/internal/domains/gallery/service"
	"docemania/shared/constant"
	gDto "docemania/shared/dto"
	"docemania/shared/failure"
	"docemania/shared/validator"
	"docemania/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.GalleryItem
	otel    otel.Otel
}

func New(service service.GalleryItem, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/gallery-items", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateGalleryItem)
		routerGroup.Get("/", handler.GetGalleryItems)
		routerGroup.Post("/upload", handler.UploadImage)
		routerGroup.Get("/{id}", handler.GetGalleryItemByID)
		routerGroup.Patch("/{id}", handler.UpdateGalleryItem)
		routerGroup.Delete("/{id}", handler.DeleteGalleryItem)
	})
}

// CreateGalleryItem handles the creation of a new gallery item.
// @Summary Create a new gallery item
// @Description Create a gallery item pointing at an image previously uploaded through /v1/gallery-items/upload.
// @Tags Gallery
// @Accept json
// @Produce json
// @Param request body dto.CreateGalleryItemRequest true "Create Gallery Item Request"
// @Success 201 {object} dto.GalleryItemResponse "Created gallery item"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/gallery-items [post]
// @Security BearerAuth
func (handler *Handler) CreateGalleryItem(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateGalleryItem")
	defer scope.End()

	req := dto.CreateGalleryItemRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		response.WithTracedError(writer, scope, err, "failed to validate request body")

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		response.WithTracedError(writer, scope, err, "failed to create gallery item")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Gallery item created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetGalleryItems retrieves gallery items, newest first unless sorted otherwise.
// @Summary Get all gallery items
// @Description Retrieve gallery items with optional filtering, sorting and pagination.
// @Tags Gallery
// @Accept json
// @Produce json
// @Param category query string false "Filter by category"
// @Param title query string false "Filter by title"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort_by query string false "created_at, updated_at, title or category"
// @Param sort_dir query string false "ASC or DESC"
// @Success 200 {object} dto.GetGalleryItemsResponse "List of gallery items"
// @Failure 500 {object} response.Error
// @Router /v1/gallery-items [get]
func (handler *Handler) GetGalleryItems(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGalleryItems")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, false)

	category := r.URL.Query().Get(model.FieldCategory)
	title := r.URL.Query().Get(model.FieldTitle)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if category != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCategory,
			Operator: gDto.FilterOperatorEq,
			Value:    category,
			Table:    model.TableName,
		})
	}

	if title != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldTitle,
			Operator: gDto.FilterOperatorLike,
			Value:    title,
			Table:    model.TableName,
		})
	}

	items, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get gallery items")

		return
	}

	response.WithJSON(w, http.StatusOK, items)
}

// GetGalleryItemByID retrieves a gallery item by its ID.
// @Summary Get a gallery item by ID
// @Tags Gallery
// @Produce json
// @Param id path string true "Gallery item ID"
// @Success 200 {object} dto.GalleryItemResponse "Gallery item details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/gallery-items/{id} [get]
func (handler *Handler) GetGalleryItemByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGalleryItemByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	item, err := handler.service.Get(ctx, id)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get gallery item by ID")

		return
	}

	response.WithJSON(w, http.StatusOK, item)
}

// UpdateGalleryItem partially updates a gallery item by its ID.
// @Summary Update a gallery item by ID
// @Description Only the fields present in the body are changed. Replacing image_url deletes the previous image.
// @Tags Gallery
// @Accept json
// @Produce json
// @Param id path string true "Gallery item ID"
// @Param request body dto.UpdateGalleryItemRequest true "Update Gallery Item Request"
// @Success 200 {object} dto.GalleryItemResponse "Updated gallery item"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/gallery-items/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateGalleryItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateGalleryItem")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateGalleryItemRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		response.WithTracedError(w, scope, err, "failed to validate request body")

		return
	}

	res, err := handler.service.Update(ctx, req, id)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to update gallery item")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Gallery item updated successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteGalleryItem deletes a gallery item and its image.
// @Summary Delete a gallery item by ID
// @Tags Gallery
// @Produce json
// @Param id path string true "Gallery item ID"
// @Success 200 {object} response.Message "Gallery item deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/gallery-items/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteGalleryItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteGalleryItem")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		response.WithTracedError(w, scope, err, "failed to delete gallery item")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Gallery item deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Gallery item deleted successfully")
}

// UploadImage stores a gallery image in the blob store.
// @Summary Upload a gallery image
// @Description Upload an image file (png, jpeg or webp, up to 10 MB) and return its public URL.
// @Tags Gallery
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file to upload"
// @Success 201 {object} dto.UploadImageResponse "Image uploaded successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/gallery-items/upload [post]
// @Security BearerAuth
func (handler *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadImage")
	defer scope.End()

	r.Body = http.MaxBytesReader(w, r.Body, constant.RequestMaxUploadBytes)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		response.WithTracedError(w, scope, failure.BadRequest(err), "failed to parse multipart form")

		return
	}

	file, fileHeader, err := r.FormFile(constant.FormFile)
	if err != nil {
		response.WithTracedError(w, scope, failure.BadRequest(err), "failed to get file from form")

		return
	}
	defer file.Close()

	req := dto.UploadImageRequest{
		Image:     fileHeader,
		ImageFile: file,
	}

	if err := validator.ValidateStruct(&req); err != nil {
		response.WithTracedError(w, scope, err, "failed to validate uploaded file")

		return
	}

	res, err := handler.service.UploadImage(ctx, req)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to upload file")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Image uploaded successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}
