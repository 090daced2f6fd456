package handler

import (
	"github.com/gin-gonic/gin"

	"workingtime/backend/internal/dto"
	"workingtime/backend/internal/service"
	"workingtime/backend/pkg/response"
)

// SimulationHandler 排产模拟模块 HTTP 处理器
type SimulationHandler struct {
	simulationSvc service.SimulationService
}

// NewSimulationHandler 创建 SimulationHandler
func NewSimulationHandler(simulationSvc service.SimulationService) *SimulationHandler {
	return &SimulationHandler{simulationSvc: simulationSvc}
}

// Simulate 运行排产模拟
// POST /api/v1/simulate
func (h *SimulationHandler) Simulate(c *gin.Context) {
	var req dto.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.simulationSvc.Simulate(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}
