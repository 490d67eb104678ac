// Package models - model khách hàng tiềm năng (Lead) và nhật ký hoạt động.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các trạng thái của lead trong vòng đời bán hàng
const (
	LeadStatusNew         = "New"
	LeadStatusContacted   = "Contacted"
	LeadStatusViewing     = "Viewing"
	LeadStatusNegotiation = "Negotiation"
	LeadStatusClosed      = "Closed"
)

// Các loại hoạt động trong nhật ký lead
const (
	ActivityKindCreation     = "creation"
	ActivityKindAssignment   = "assignment"
	ActivityKindStatusChange = "status_change"
	ActivityKindNote         = "note"
	ActivityKindContact      = "contact"
)

// Mô tả hoạt động chuẩn, giữ nguyên wording để frontend hiển thị nhất quán
const (
	DescLeadCreated  = "Lead created"
	DescLeadAssigned = "Lead assigned to agent"
)

// StatusChangeDescription trả về mô tả chuẩn cho hoạt động đổi trạng thái
func StatusChangeDescription(newStatus string) string {
	return "Status changed to " + newStatus
}

// IsValidLeadStatus kiểm tra trạng thái lead hợp lệ
func IsValidLeadStatus(s string) bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusViewing, LeadStatusNegotiation, LeadStatusClosed:
		return true
	}
	return false
}

// IsValidActivityKind kiểm tra loại hoạt động hợp lệ
func IsValidActivityKind(k string) bool {
	switch k {
	case ActivityKindCreation, ActivityKindAssignment, ActivityKindStatusChange, ActivityKindNote, ActivityKindContact:
		return true
	}
	return false
}

// LeadActivity một dòng trong nhật ký hoạt động của lead (append-only)
type LeadActivity struct {
	Kind        string `json:"kind" bson:"kind"`
	Description string `json:"description" bson:"description"`
	Timestamp   int64  `json:"timestamp" bson:"timestamp"`
}

// NewLeadActivity tạo hoạt động mới với timestamp hiện tại
func NewLeadActivity(kind, description string) LeadActivity {
	return LeadActivity{
		Kind:        kind,
		Description: description,
		Timestamp:   time.Now().UnixMilli(),
	}
}

// Lead định nghĩa mô hình khách hàng tiềm năng.
// Activities là nhật ký append-only, không bao giờ sửa hay xóa phần tử.
type Lead struct {
	ID               primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Name             string              `json:"name" bson:"name"`
	Email            string              `json:"email" bson:"email" index:"single"`
	Phone            string              `json:"phone" bson:"phone"`
	Budget           float64             `json:"budget" bson:"budget"`
	Interest         string              `json:"interest,omitempty" bson:"interest,omitempty"`
	Status           string              `json:"status" bson:"status" index:"single"`
	Notes            string              `json:"notes,omitempty" bson:"notes,omitempty"`
	AssignedAgent    *primitive.ObjectID `json:"assignedAgent,omitempty" bson:"assignedAgent,omitempty" index:"single"`
	PropertyInterest *primitive.ObjectID `json:"propertyInterest,omitempty" bson:"propertyInterest,omitempty"`
	Activities       []LeadActivity      `json:"activities" bson:"activities"`
	CreatedAt        int64               `json:"createdAt" bson:"createdAt"`
	UpdatedAt        int64               `json:"updatedAt" bson:"updatedAt"`
}
