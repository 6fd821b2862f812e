package controller

import (
	"subscription-tracker-be/internal/dto"
	"subscription-tracker-be/internal/pkg/serverutils"
	"subscription-tracker-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	ListSubscriptions(ctx *fiber.Ctx) error
	UpcomingRenewals(ctx *fiber.Ctx) error
}

type userController struct {
	userService         service.IUserService
	subscriptionService service.ISubscriptionService
}

func NewUserController(userService service.IUserService, subscriptionService service.ISubscriptionService) IUserController {
	return &userController{
		userService:         userService,
		subscriptionService: subscriptionService,
	}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/user/v1")
	h.Post("", c.Register)
	h.Get(":id", c.Show)
	h.Get(":id/subscriptions", c.ListSubscriptions)
	h.Get(":id/subscriptions/upcoming", c.UpcomingRenewals)
}

func (c *userController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.userService.Register(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("User registered", res))
}

func (c *userController) Show(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	res, err := c.userService.Show(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("User", res))
}

func (c *userController) ListSubscriptions(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var query dto.ListSubscriptionsQuery
	if err := ctx.QueryParser(&query); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := c.subscriptionService.ListByUser(ctx.UserContext(), id, query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("User subscriptions", res))
}

func (c *userController) UpcomingRenewals(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var query dto.UpcomingRenewalsQuery
	if err := ctx.QueryParser(&query); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := c.subscriptionService.UpcomingRenewals(ctx.UserContext(), id, query.Days)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Upcoming renewals", res))
}
