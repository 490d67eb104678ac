// Package propertyhdl - Handler bất động sản.
package propertyhdl

import (
	"fmt"

	basehdl "estate_crm/internal/api/base/handler"
	propertydto "estate_crm/internal/api/property/dto"
	propertysvc "estate_crm/internal/api/property/service"
	"estate_crm/internal/common"
	"estate_crm/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PropertyHandler xử lý các request liên quan đến bất động sản
type PropertyHandler struct {
	propertyService *propertysvc.PropertyService
}

// NewPropertyHandler tạo instance mới của PropertyHandler
func NewPropertyHandler() (*PropertyHandler, error) {
	propertyService, err := propertysvc.NewPropertyService()
	if err != nil {
		return nil, fmt.Errorf("failed to create property service: %v", err)
	}
	return &PropertyHandler{
		propertyService: propertyService,
	}, nil
}

// parsePropertyID đọc và validate :id từ URI
func parsePropertyID(c fiber.Ctx) (primitive.ObjectID, error) {
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

// HandleList xử lý GET /properties.
// Hỗ trợ filter theo type, status, featured qua query string.
func (h *PropertyHandler) HandleList(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		filter := bson.M{}
		if t := c.Query("type"); t != "" {
			filter["type"] = t
		}
		if s := c.Query("status"); s != "" {
			filter["status"] = s
		}
		if f := c.Query("featured"); f == "true" {
			filter["featured"] = true
		}
		properties, err := h.propertyService.Find(c.Context(), filter, nil)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, properties, nil)
		return nil
	})
}

// HandleGet xử lý GET /properties/:id
func (h *PropertyHandler) HandleGet(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := parsePropertyID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		property, err := h.propertyService.FindOneById(c.Context(), id)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, property, nil)
		return nil
	})
}

// HandleCreate xử lý POST /properties
func (h *PropertyHandler) HandleCreate(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input propertydto.PropertyCreateInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		property, err := h.propertyService.Create(c.Context(), &input)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogCRUD("create", "property", property.ID.Hex(), c, nil)
		basehdl.HandleResponse(c, property, nil)
		return nil
	})
}

// HandleUpdate xử lý PUT /properties/:id
func (h *PropertyHandler) HandleUpdate(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := parsePropertyID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		var input propertydto.PropertyUpdateInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		property, err := h.propertyService.Update(c.Context(), id, &input)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogCRUD("update", "property", id.Hex(), c, nil)
		basehdl.HandleResponse(c, property, nil)
		return nil
	})
}

// HandleDelete xử lý DELETE /properties/:id
func (h *PropertyHandler) HandleDelete(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := parsePropertyID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.propertyService.Delete(c.Context(), id); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogCRUD("delete", "property", id.Hex(), c, nil)
		basehdl.HandleResponse(c, nil, nil)
		return nil
	})
}

// HandleUploadImage xử lý POST /properties/:id/images (multipart, field "image")
func (h *PropertyHandler) HandleUploadImage(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := parsePropertyID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		fileHeader, err := c.FormFile("image")
		if err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Thiếu file ảnh (field: image)", common.StatusBadRequest, err))
			return nil
		}
		property, err := h.propertyService.UploadImage(c.Context(), id, fileHeader)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogCRUD("upload_image", "property", id.Hex(), c, nil)
		basehdl.HandleResponse(c, property, nil)
		return nil
	})
}

// HandleDeleteImage xử lý DELETE /properties/:id/images
func (h *PropertyHandler) HandleDeleteImage(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := parsePropertyID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		var input propertydto.PropertyImageDeleteInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		property, err := h.propertyService.DeleteImage(c.Context(), id, input.PublicID)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogCRUD("delete_image", "property", id.Hex(), c, nil)
		basehdl.HandleResponse(c, property, nil)
		return nil
	})
}
