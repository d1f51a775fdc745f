package ai

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MeowSalty/tribeai/config"
	"github.com/MeowSalty/tribeai/services/ai"
)

// statusFor 根据错误状态码策略返回分发错误对应的 HTTP 状态码
//
// legacy 策略下所有分发错误均返回 500
func statusFor(policy string, err error) int {
	if policy != config.PolicyStrict {
		return fiber.StatusInternalServerError
	}

	switch ai.ErrorKind(err) {
	case ai.KindEmptyMessage:
		return fiber.StatusUnprocessableEntity
	case ai.KindUnsupportedModel:
		return fiber.StatusBadRequest
	case ai.KindProviderNotConfigured:
		return fiber.StatusServiceUnavailable
	case ai.KindGenerationFailed:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
