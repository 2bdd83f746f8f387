package controller

import (
	"fmt"

	"feature-catalog-be/internal/dto"
	"feature-catalog-be/internal/entity"
	"feature-catalog-be/internal/pkg/apperror"
	"feature-catalog-be/internal/pkg/serverutils"
	"feature-catalog-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReferenceController interface {
	RegisterRoutes(r fiber.Router)
	GetActive(ctx *fiber.Ctx) error
	GetEntities(ctx *fiber.Ctx) error
	Cascade(ctx *fiber.Ctx) error
	PurgeInactive(ctx *fiber.Ctx) error
}

type referenceController struct {
	service service.IReferenceService
}

func NewReferenceController(service service.IReferenceService) IReferenceController {
	return &referenceController{service: service}
}

func (c *referenceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/references/v1/:category")
	h.Get("", c.GetActive)
	h.Get("/entities", c.GetEntities)
	h.Get("/cascade", c.Cascade)
	h.Delete("/inactive", c.PurgeInactive)
}

func categoryParam(ctx *fiber.Ctx) (entity.Category, error) {
	raw := ctx.Params("category")
	category, err := entity.ParseCategory(raw)
	if err != nil {
		v := apperror.NewValidationError()
		v.Add("category", fmt.Sprintf("Unknown category '%s'", raw))
		return "", v
	}
	return category, nil
}

func (c *referenceController) GetActive(ctx *fiber.Ctx) error {
	category, err := categoryParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListActive(ctx.UserContext(), category)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get active "+category.String()+" names", res))
}

func (c *referenceController) GetEntities(ctx *fiber.Ctx) error {
	category, err := categoryParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListEntities(ctx.UserContext(), category, ctx.QueryBool("include_inactive", false))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get "+category.String()+" entities", res))
}

func (c *referenceController) Cascade(ctx *fiber.Ctx) error {
	category, err := categoryParam(ctx)
	if err != nil {
		return err
	}

	var req dto.CascadeRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}

	res, err := c.service.Cascade(ctx.UserContext(), category, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get "+category.String()+" options", res))
}

func (c *referenceController) PurgeInactive(ctx *fiber.Ctx) error {
	category, err := categoryParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.PurgeInactive(ctx.UserContext(), category)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success purge inactive "+category.String()+" entities", res))
}
