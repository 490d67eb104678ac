// Package leadhdl - Handler khách hàng tiềm năng (Lead).
package leadhdl

import (
	"fmt"

	basehdl "estate_crm/internal/api/base/handler"
	leaddto "estate_crm/internal/api/lead/dto"
	leadsvc "estate_crm/internal/api/lead/service"
	"estate_crm/internal/common"
	"estate_crm/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeadHandler xử lý các request liên quan đến lead
type LeadHandler struct {
	leadService *leadsvc.LeadService
}

// NewLeadHandler tạo instance mới của LeadHandler với EventSink được inject
// từ cmd/server (hub websocket + kênh email).
func NewLeadHandler(sink leadsvc.EventSink) (*LeadHandler, error) {
	leadService, err := leadsvc.NewLeadService(sink)
	if err != nil {
		return nil, fmt.Errorf("failed to create lead service: %v", err)
	}
	return &LeadHandler{
		leadService: leadService,
	}, nil
}

// parseLeadID đọc và validate :id từ URI
func parseLeadID(c fiber.Ctx) (primitive.ObjectID, error) {
	idStr := c.Params("id")
	if idStr == "" {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationInput, "Thiếu id", common.StatusBadRequest, nil)
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat, "ID không hợp lệ", common.StatusBadRequest, err)
	}
	return id, nil
}

// HandleList xử lý GET /leads
func (h *LeadHandler) HandleList(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		leads, err := h.leadService.List(c.Context())
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, leads, nil)
		return nil
	})
}

// HandleGet xử lý GET /leads/:id
func (h *LeadHandler) HandleGet(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := parseLeadID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		lead, err := h.leadService.GetByID(c.Context(), id)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, lead, nil)
		return nil
	})
}

// HandleCreate xử lý POST /leads
func (h *LeadHandler) HandleCreate(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input leaddto.LeadCreateInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		lead, err := h.leadService.Create(c.Context(), &input)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogCRUD("create", "lead", lead.ID.Hex(), c, nil)
		basehdl.HandleResponse(c, lead, nil)
		return nil
	})
}

// HandleUpdate xử lý PUT /leads/:id (chỉnh sửa trường, không ghi nhật ký)
func (h *LeadHandler) HandleUpdate(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := parseLeadID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		var input leaddto.LeadUpdateInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		lead, err := h.leadService.Update(c.Context(), id, &input)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogCRUD("update", "lead", id.Hex(), c, nil)
		basehdl.HandleResponse(c, lead, nil)
		return nil
	})
}

// HandleUpdateStatus xử lý PATCH /leads/:id/status
func (h *LeadHandler) HandleUpdateStatus(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := parseLeadID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		var input leaddto.LeadStatusUpdateInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		lead, err := h.leadService.TransitionStatus(c.Context(), id, input.Status)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogCRUD("update_status", "lead", id.Hex(), c, map[string]interface{}{"status": input.Status})
		basehdl.HandleResponse(c, lead, nil)
		return nil
	})
}

// HandleAssign xử lý PATCH /leads/:id/assign (agentId = null để gỡ agent)
func (h *LeadHandler) HandleAssign(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := parseLeadID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		var input leaddto.LeadAssignInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		// Thiếu trường agentId khác với agentId: null (gỡ agent) -
		// body thiếu trường không được phép gỡ agent
		agentID, present, err := input.AgentValue()
		if err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "Trường agentId không hợp lệ", common.StatusBadRequest, err))
			return nil
		}
		if !present {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Thiếu trường bắt buộc: agentId", common.StatusBadRequest, nil))
			return nil
		}
		lead, err := h.leadService.Assign(c.Context(), id, agentID)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogCRUD("assign", "lead", id.Hex(), c, nil)
		basehdl.HandleResponse(c, lead, nil)
		return nil
	})
}

// HandleAddActivity xử lý POST /leads/:id/activities (note/contact thủ công)
func (h *LeadHandler) HandleAddActivity(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := parseLeadID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		var input leaddto.LeadActivityInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		lead, err := h.leadService.AddActivity(c.Context(), id, input.Kind, input.Description)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogCRUD("add_activity", "lead", id.Hex(), c, map[string]interface{}{"kind": input.Kind})
		basehdl.HandleResponse(c, lead, nil)
		return nil
	})
}

// HandleDelete xử lý DELETE /leads/:id (xóa cứng)
func (h *LeadHandler) HandleDelete(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := parseLeadID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.leadService.Delete(c.Context(), id); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogCRUD("delete", "lead", id.Hex(), c, nil)
		basehdl.HandleResponse(c, nil, nil)
		return nil
	})
}
