package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Envelope is the success wrapper every video operation returns.
type Envelope[T any] struct {
	StatusCode int    `json:"statusCode"`
	Data       T      `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func NewEnvelope[T any](status int, data T, msg string) *Envelope[T] {
	return &Envelope[T]{StatusCode: status, Data: data, Message: msg, Success: status < 400}
}

type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// JSONSuccess writes env with its own status code so header and body agree.
func JSONSuccess[T any](c *fiber.Ctx, env *Envelope[T]) error {
	return c.Status(env.StatusCode).JSON(env)
}

func JSONError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorBody{StatusCode: status, Message: msg})
}

// RenderError maps any error onto the uniform error body.
func RenderError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return JSONError(c, appErr.StatusCode(), appErr.Message)
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JSONError(c, fe.Code, fe.Message)
	}
	return JSONError(c, fiber.StatusInternalServerError, "internal server error")
}
