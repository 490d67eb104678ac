package leaddto

import (
	"bytes"
	"encoding/json"

	models "estate_crm/internal/api/lead/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeadCreateInput đầu vào tạo lead. Name/Email/Phone/Budget là bắt buộc.
// Budget là con trỏ để phân biệt thiếu trường với ngân sách 0 (hợp lệ).
type LeadCreateInput struct {
	Name             string   `json:"name" validate:"required,no_xss"`
	Email            string   `json:"email" validate:"required,email"`
	Phone            string   `json:"phone" validate:"required"`
	Budget           *float64 `json:"budget" validate:"required,gte=0"`
	Interest         string   `json:"interest"`
	Notes            string   `json:"notes"`
	AssignedAgent    string   `json:"assignedAgent"`
	PropertyInterest string   `json:"propertyInterest"`
}

// LeadUpdateInput đầu vào chỉnh sửa thông tin lead.
// Chỉnh sửa trường KHÔNG ghi hoạt động vào nhật ký.
type LeadUpdateInput struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone"`
	Budget           *float64 `json:"budget"`
	Interest         *string  `json:"interest"`
	Notes            *string  `json:"notes"`
	PropertyInterest *string  `json:"propertyInterest"`
}

// LeadStatusUpdateInput đầu vào đổi trạng thái lead.
type LeadStatusUpdateInput struct {
	Status string `json:"status" validate:"required,lead_status"`
}

// LeadAssignInput đầu vào gán/gỡ agent cho lead.
// AgentID giữ nguyên raw JSON vì ba trường hợp phải được phân biệt:
// thiếu trường (request lỗi), null (gỡ agent), chuỗi (gán agent) —
// decode thẳng vào *string thì thiếu trường và null đều ra nil.
type LeadAssignInput struct {
	AgentID json.RawMessage `json:"agentId"`
}

// AgentValue parse giá trị agentId từ body.
// present = false khi body không có trường agentId.
func (input *LeadAssignInput) AgentValue() (agentID *string, present bool, err error) {
	if len(input.AgentID) == 0 {
		return nil, false, nil
	}
	if bytes.Equal(bytes.TrimSpace(input.AgentID), []byte("null")) {
		return nil, true, nil
	}
	var s string
	if err := json.Unmarshal(input.AgentID, &s); err != nil {
		return nil, true, err
	}
	return &s, true, nil
}

// LeadActivityInput đầu vào ghi thêm hoạt động thủ công (note/contact).
type LeadActivityInput struct {
	Kind        string `json:"kind" validate:"required"`
	Description string `json:"description" validate:"required,no_xss"`
}

// AgentSummary thông tin rút gọn của agent được gán
type AgentSummary struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// PropertySummary thông tin rút gọn của bất động sản quan tâm
type PropertySummary struct {
	ID    primitive.ObjectID `json:"id"`
	Title string             `json:"title"`
	Price float64            `json:"price"`
}

// LeadResponse lead trả về client với agent và property đã được resolve.
// AssignedAgent/PropertyInterest là null khi không gán hoặc không resolve được.
type LeadResponse struct {
	ID               primitive.ObjectID    `json:"id"`
	Name             string                `json:"name"`
	Email            string                `json:"email"`
	Phone            string                `json:"phone"`
	Budget           float64               `json:"budget"`
	Interest         string                `json:"interest,omitempty"`
	Status           string                `json:"status"`
	Notes            string                `json:"notes,omitempty"`
	AssignedAgent    *AgentSummary         `json:"assignedAgent"`
	PropertyInterest *PropertySummary      `json:"propertyInterest"`
	Activities       []models.LeadActivity `json:"activities"`
	CreatedAt        int64                 `json:"createdAt"`
	UpdatedAt        int64                 `json:"updatedAt"`
}
