package controller

import (
	"strings"

	"feature-catalog-be/internal/dto"
	"feature-catalog-be/internal/pkg/apperror"
	"feature-catalog-be/internal/pkg/serverutils"
	"feature-catalog-be/internal/service"
	"feature-catalog-be/pkg/catalog/coordinator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const sampleFileField = "sample_file"

type IFeatureRecordController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	Statistics(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	BulkDelete(ctx *fiber.Ctx) error
}

type featureRecordController struct {
	service service.IFeatureRecordService
}

func NewFeatureRecordController(service service.IFeatureRecordService) IFeatureRecordController {
	return &featureRecordController{service: service}
}

func (c *featureRecordController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/features/v1")
	h.Get("", c.GetAll)
	h.Get("/search", c.Search)
	h.Get("/statistics", c.Statistics)
	h.Post("", c.Create)
	h.Post("/bulk-delete", c.BulkDelete)
	h.Get("/:id", c.Show)
	h.Put("/:id", c.Update)
	h.Delete("/:id", c.Delete)
}

func recordID(ctx *fiber.Ctx) (uuid.UUID, error) {
	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return uuid.Nil, &apperror.NotFoundError{Resource: "feature record", ID: idParam}
	}
	return id, nil
}

// parseRecordRequest reads a JSON or multipart body; the returned closer releases the upload
func parseRecordRequest(ctx *fiber.Ctx) (*dto.FeatureRecordRequest, *coordinator.Upload, func(), error) {
	var req dto.FeatureRecordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, nil, nil, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	noop := func() {}
	if !strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return &req, nil, noop, nil
	}

	fh, err := ctx.FormFile(sampleFileField)
	if err != nil || fh == nil {
		return &req, nil, noop, nil
	}
	file, err := fh.Open()
	if err != nil {
		return nil, nil, nil, &apperror.StorageError{Op: "read upload", Err: err}
	}

	upload := &coordinator.Upload{Filename: fh.Filename, Size: fh.Size, Content: file}
	return &req, upload, func() { _ = file.Close() }, nil
}

func (c *featureRecordController) GetAll(ctx *fiber.Ctx) error {
	var req dto.ListFeatureRecordsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all feature records", res))
}

func (c *featureRecordController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchFeatureRecordsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Search(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search feature records", res))
}

func (c *featureRecordController) Statistics(ctx *fiber.Ctx) error {
	res, err := c.service.Statistics(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get catalog statistics", res))
}

func (c *featureRecordController) Show(ctx *fiber.Ctx) error {
	id, err := recordID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show feature record", res))
}

func (c *featureRecordController) Create(ctx *fiber.Ctx) error {
	req, upload, release, err := parseRecordRequest(ctx)
	if err != nil {
		return err
	}
	defer release()

	res, err := c.service.Create(ctx.UserContext(), req, upload)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create feature record", res))
}

func (c *featureRecordController) Update(ctx *fiber.Ctx) error {
	id, err := recordID(ctx)
	if err != nil {
		return err
	}

	req, upload, release, err := parseRecordRequest(ctx)
	if err != nil {
		return err
	}
	defer release()

	res, err := c.service.Update(ctx.UserContext(), id, req, upload)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update feature record", res))
}

func (c *featureRecordController) Delete(ctx *fiber.Ctx) error {
	id, err := recordID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Delete(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete feature record", res))
}

func (c *featureRecordController) BulkDelete(ctx *fiber.Ctx) error {
	var req dto.BulkDeleteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.BulkDelete(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success bulk delete feature records", res))
}
