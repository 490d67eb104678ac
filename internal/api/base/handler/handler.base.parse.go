package basehdl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"estate_crm/internal/common"
	"estate_crm/internal/global"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ParseRequestBody parse và validate dữ liệu từ request body.
// Sử dụng json.Decoder với UseNumber() để xử lý chính xác các số.
func ParseRequestBody(c fiber.Ctx, input interface{}) error {
	body := c.Body()
	reader := bytes.NewReader(body)
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err)
	}

	// Validate với validator từ global, trả về tên trường lỗi đầu tiên
	// để client biết chính xác trường nào thiếu/sai
	if err := global.Validate.Struct(input); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			firstErr := validationErrs[0]
			fieldName := lowerFirst(firstErr.Field())
			if firstErr.Tag() == "required" {
				return common.NewError(
					common.ErrCodeValidationInput,
					fmt.Sprintf("Thiếu trường bắt buộc: %s", fieldName),
					common.StatusBadRequest,
					err,
				)
			}
			return common.NewError(
				common.ErrCodeValidationInput,
				fmt.Sprintf("Trường %s không hợp lệ", fieldName),
				common.StatusBadRequest,
				err,
			)
		}
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err)
	}

	return nil
}

// lowerFirst chuyển chữ cái đầu về thường để khớp với tên trường JSON
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
