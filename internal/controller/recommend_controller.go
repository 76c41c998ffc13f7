package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/katnyeung/beans-finder-sub000/internal/dto"
	"github.com/katnyeung/beans-finder-sub000/internal/pkg/serverutils"
	"github.com/katnyeung/beans-finder-sub000/internal/service"
)

type IRecommendController interface {
	RegisterRoutes(r fiber.Router)
	Recommend(ctx *fiber.Ctx) error
	ShowProduct(ctx *fiber.Ctx) error
	BudgetStats(ctx *fiber.Ctx) error
}

type recommendController struct {
	recommendService service.IRecommendService
}

func NewRecommendController(recommendService service.IRecommendService) IRecommendController {
	return &recommendController{
		recommendService: recommendService,
	}
}

func (c *recommendController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/recommend/v1")
	h.Post("", c.Recommend)
	h.Get("budget", c.BudgetStats)
	h.Get("product/:id", c.ShowProduct)
}

func (c *recommendController) Recommend(ctx *fiber.Ctx) error {
	var req dto.RecommendRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.recommendService.Recommend(ctx.Context(), &req)
	if err != nil {
		return err
	}

	// Refusal outcomes keep their payload but change the status code so
	// clients can branch without parsing.
	switch res.Outcome {
	case dto.OutcomeBudgetExceeded:
		return ctx.Status(fiber.StatusTooManyRequests).JSON(res)
	case dto.OutcomeClassificationFailed:
		return ctx.Status(fiber.StatusBadGateway).JSON(res)
	default:
		return ctx.JSON(res)
	}
}

func (c *recommendController) ShowProduct(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	res, err := c.recommendService.ShowProduct(ctx.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show product", res))
}

func (c *recommendController) BudgetStats(ctx *fiber.Ctx) error {
	res, err := c.recommendService.BudgetStats(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show budget stats", res))
}
