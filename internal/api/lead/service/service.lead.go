// Package leadsvc - service khách hàng tiềm năng (Lead), lõi nghiệp vụ CRM:
// tạo lead, đổi trạng thái, gán agent, nhật ký hoạt động, phát sự kiện realtime.
package leadsvc

import (
	"context"
	"fmt"

	authmodels "estate_crm/internal/api/auth/models"
	basesvc "estate_crm/internal/api/base/service"
	leaddto "estate_crm/internal/api/lead/dto"
	models "estate_crm/internal/api/lead/models"
	propertymodels "estate_crm/internal/api/property/models"
	"estate_crm/internal/common"
	"estate_crm/internal/global"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Tên sự kiện realtime trên wire, frontend lắng nghe đúng các tên này
const (
	EventNewLead    = "new-lead"
	EventLeadClosed = "lead-closed"
)

// EventSink là kênh phát sự kiện realtime được inject vào service.
// Publish phải non-blocking, lỗi phát sự kiện không ảnh hưởng nghiệp vụ.
type EventSink interface {
	Publish(event string, payload interface{})
}

// noopSink dùng khi không có kênh realtime (ví dụ trong test)
type noopSink struct{}

func (noopSink) Publish(event string, payload interface{}) {}

// eventForStatus trả về tên sự kiện cần phát sau khi đổi trạng thái thành công,
// rỗng nếu không cần phát. Chỉ Closed sinh sự kiện.
func eventForStatus(newStatus string) string {
	if newStatus == models.LeadStatusClosed {
		return EventLeadClosed
	}
	return ""
}

// LeadService là cấu trúc chứa các phương thức liên quan đến lead.
// Base service của collection leads được giữ qua interface để test có thể
// thay bằng fake ghi lại các update document.
type LeadService struct {
	basesvc.BaseServiceMongo[models.Lead]
	userService     *basesvc.BaseServiceMongoImpl[authmodels.User]
	propertyService *basesvc.BaseServiceMongoImpl[propertymodels.Property]
	sink            EventSink
}

// NewLeadService tạo mới LeadService. sink = nil sẽ dùng noopSink.
func NewLeadService(sink EventSink) (*LeadService, error) {
	leadCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Leads)
	if !exist {
		return nil, fmt.Errorf("failed to get leads collection: %v", common.ErrNotFound)
	}
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}
	propertyCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Properties)
	if !exist {
		return nil, fmt.Errorf("failed to get properties collection: %v", common.ErrNotFound)
	}
	if sink == nil {
		sink = noopSink{}
	}
	return &LeadService{
		BaseServiceMongo: basesvc.NewBaseServiceMongo[models.Lead](leadCollection),
		userService:      basesvc.NewBaseServiceMongo[authmodels.User](userCollection),
		propertyService:  basesvc.NewBaseServiceMongo[propertymodels.Property](propertyCollection),
		sink:             sink,
	}, nil
}

// Create tạo lead mới với trạng thái New và một hoạt động creation.
// Luôn phát sự kiện new-lead sau khi ghi thành công, kể cả khi không ai
// đang kết nối dashboard.
func (s *LeadService) Create(ctx context.Context, input *leaddto.LeadCreateInput) (*models.Lead, error) {
	lead := models.Lead{
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Interest:   input.Interest,
		Notes:      input.Notes,
		Status:     models.LeadStatusNew,
		Activities: []models.LeadActivity{models.NewLeadActivity(models.ActivityKindCreation, models.DescLeadCreated)},
	}
	if input.Budget != nil {
		lead.Budget = *input.Budget
	}

	if input.AssignedAgent != "" {
		agentID, err := primitive.ObjectIDFromHex(input.AssignedAgent)
		if err != nil {
			return nil, common.NewError(common.ErrCodeValidationFormat, "Agent ID không hợp lệ", common.StatusBadRequest, err)
		}
		lead.AssignedAgent = &agentID
	}
	if input.PropertyInterest != "" {
		propertyID, err := primitive.ObjectIDFromHex(input.PropertyInterest)
		if err != nil {
			return nil, common.NewError(common.ErrCodeValidationFormat, "Property ID không hợp lệ", common.StatusBadRequest, err)
		}
		lead.PropertyInterest = &propertyID
	}

	created, err := s.BaseServiceMongo.InsertOne(ctx, lead)
	if err != nil {
		return nil, err
	}

	s.sink.Publish(EventNewLead, created)
	logrus.WithFields(logrus.Fields{"lead_id": created.ID.Hex(), "email": created.Email}).Info("🏠 [LEAD] Tạo lead mới")
	return &created, nil
}

// TransitionStatus đổi trạng thái lead và ghi hoạt động status_change trong
// MỘT lần FindOneAndUpdate duy nhất để tránh mất cập nhật khi hai request
// đổi trạng thái cùng lúc. Chỉ phát lead-closed khi trạng thái mới là Closed,
// và chỉ sau khi ghi thành công.
func (s *LeadService) TransitionStatus(ctx context.Context, id primitive.ObjectID, newStatus string) (*models.Lead, error) {
	if !models.IsValidLeadStatus(newStatus) {
		return nil, common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Trạng thái không hợp lệ: %s", newStatus), common.StatusBadRequest, nil)
	}

	activity := models.NewLeadActivity(models.ActivityKindStatusChange, models.StatusChangeDescription(newStatus))
	update := &basesvc.UpdateData{
		Set:  map[string]interface{}{"status": newStatus},
		Push: map[string]interface{}{"activities": activity},
	}

	updated, err := s.BaseServiceMongo.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, nil)
	if err != nil {
		return nil, err
	}

	if event := eventForStatus(newStatus); event != "" {
		s.sink.Publish(event, updated)
	}
	logrus.WithFields(logrus.Fields{"lead_id": id.Hex(), "status": newStatus}).Info("🏠 [LEAD] Đổi trạng thái")
	return &updated, nil
}

// Assign gán hoặc gỡ agent cho lead. agentID = nil nghĩa là gỡ.
// Không kiểm tra agent tồn tại, không đụng đến trạng thái lead.
// Hoạt động assignment luôn dùng mô tả chuẩn DescLeadAssigned.
func (s *LeadService) Assign(ctx context.Context, id primitive.ObjectID, agentID *string) (*models.Lead, error) {
	activity := models.NewLeadActivity(models.ActivityKindAssignment, models.DescLeadAssigned)
	update := &basesvc.UpdateData{
		Push: map[string]interface{}{"activities": activity},
	}

	if agentID == nil {
		update.Unset = map[string]interface{}{"assignedAgent": ""}
	} else {
		objID, err := primitive.ObjectIDFromHex(*agentID)
		if err != nil {
			return nil, common.NewError(common.ErrCodeValidationFormat, "Agent ID không hợp lệ", common.StatusBadRequest, err)
		}
		update.Set = map[string]interface{}{"assignedAgent": objID}
	}

	updated, err := s.BaseServiceMongo.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, nil)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"lead_id": id.Hex(), "assigned": agentID != nil}).Info("🏠 [LEAD] Gán agent")
	return &updated, nil
}

// AddActivity ghi thêm hoạt động thủ công (note hoặc contact) vào nhật ký
func (s *LeadService) AddActivity(ctx context.Context, id primitive.ObjectID, kind, description string) (*models.Lead, error) {
	if kind != models.ActivityKindNote && kind != models.ActivityKindContact {
		return nil, common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Loại hoạt động không hợp lệ: %s", kind), common.StatusBadRequest, nil)
	}

	activity := models.NewLeadActivity(kind, description)
	update := &basesvc.UpdateData{
		Push: map[string]interface{}{"activities": activity},
	}
	updated, err := s.BaseServiceMongo.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, nil)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Update chỉnh sửa thông tin lead. KHÔNG ghi hoạt động vào nhật ký,
// chỉ đổi trạng thái và gán agent mới sinh hoạt động.
func (s *LeadService) Update(ctx context.Context, id primitive.ObjectID, input *leaddto.LeadUpdateInput) (*models.Lead, error) {
	set := map[string]interface{}{}
	unset := map[string]interface{}{}

	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.Email != "" {
		set["email"] = input.Email
	}
	if input.Phone != "" {
		set["phone"] = input.Phone
	}
	if input.Budget != nil {
		set["budget"] = *input.Budget
	}
	if input.Interest != nil {
		set["interest"] = *input.Interest
	}
	if input.Notes != nil {
		set["notes"] = *input.Notes
	}
	if input.PropertyInterest != nil {
		if *input.PropertyInterest == "" {
			unset["propertyInterest"] = ""
		} else {
			propertyID, err := primitive.ObjectIDFromHex(*input.PropertyInterest)
			if err != nil {
				return nil, common.NewError(common.ErrCodeValidationFormat, "Property ID không hợp lệ", common.StatusBadRequest, err)
			}
			set["propertyInterest"] = propertyID
		}
	}

	if len(set) == 0 && len(unset) == 0 {
		return nil, common.NewError(common.ErrCodeValidationInput, "Không có trường nào để cập nhật", common.StatusBadRequest, nil)
	}

	update := &basesvc.UpdateData{Set: set}
	if len(unset) > 0 {
		update.Unset = unset
	}
	updated, err := s.BaseServiceMongo.UpdateById(ctx, id, update)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete xóa cứng lead, nhật ký hoạt động mất theo document
func (s *LeadService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.BaseServiceMongo.DeleteById(ctx, id)
}

// List trả về toàn bộ lead (mới nhất trước) với agent và property đã resolve
func (s *LeadService) List(ctx context.Context) ([]leaddto.LeadResponse, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	leads, err := s.BaseServiceMongo.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	return s.resolveLeads(ctx, leads)
}

// GetByID trả về một lead theo id với agent và property đã resolve
func (s *LeadService) GetByID(ctx context.Context, id primitive.ObjectID) (*leaddto.LeadResponse, error) {
	lead, err := s.BaseServiceMongo.FindOneById(ctx, id)
	if err != nil {
		return nil, err
	}
	responses, err := s.resolveLeads(ctx, []models.Lead{lead})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// resolveLeads resolve hàng loạt tham chiếu agent/property cho danh sách lead.
// Tham chiếu không resolve được (agent/property đã bị xóa) trả về null thay
// vì lỗi.
func (s *LeadService) resolveLeads(ctx context.Context, leads []models.Lead) ([]leaddto.LeadResponse, error) {
	agentIDs := make([]primitive.ObjectID, 0)
	propertyIDs := make([]primitive.ObjectID, 0)
	seenAgents := map[primitive.ObjectID]bool{}
	seenProperties := map[primitive.ObjectID]bool{}
	for _, lead := range leads {
		if lead.AssignedAgent != nil && !seenAgents[*lead.AssignedAgent] {
			seenAgents[*lead.AssignedAgent] = true
			agentIDs = append(agentIDs, *lead.AssignedAgent)
		}
		if lead.PropertyInterest != nil && !seenProperties[*lead.PropertyInterest] {
			seenProperties[*lead.PropertyInterest] = true
			propertyIDs = append(propertyIDs, *lead.PropertyInterest)
		}
	}

	agentMap := map[primitive.ObjectID]leaddto.AgentSummary{}
	if len(agentIDs) > 0 {
		agents, err := s.userService.FindManyByIds(ctx, agentIDs)
		if err == nil {
			for _, agent := range agents {
				agentMap[agent.ID] = leaddto.AgentSummary{ID: agent.ID, Name: agent.Name, Email: agent.Email}
			}
		} else {
			logrus.WithError(err).Warn("🏠 [LEAD] Lỗi resolve agent, trả về null")
		}
	}

	propertyMap := map[primitive.ObjectID]leaddto.PropertySummary{}
	if len(propertyIDs) > 0 {
		properties, err := s.propertyService.FindManyByIds(ctx, propertyIDs)
		if err == nil {
			for _, property := range properties {
				propertyMap[property.ID] = leaddto.PropertySummary{ID: property.ID, Title: property.Title, Price: property.Price}
			}
		} else {
			logrus.WithError(err).Warn("🏠 [LEAD] Lỗi resolve property, trả về null")
		}
	}

	responses := make([]leaddto.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		responses = append(responses, toLeadResponse(lead, agentMap, propertyMap))
	}
	return responses, nil
}

// toLeadResponse dựng response từ lead và các map tham chiếu đã resolve
func toLeadResponse(lead models.Lead, agents map[primitive.ObjectID]leaddto.AgentSummary, properties map[primitive.ObjectID]leaddto.PropertySummary) leaddto.LeadResponse {
	resp := leaddto.LeadResponse{
		ID:         lead.ID,
		Name:       lead.Name,
		Email:      lead.Email,
		Phone:      lead.Phone,
		Budget:     lead.Budget,
		Interest:   lead.Interest,
		Status:     lead.Status,
		Notes:      lead.Notes,
		Activities: lead.Activities,
		CreatedAt:  lead.CreatedAt,
		UpdatedAt:  lead.UpdatedAt,
	}
	if lead.AssignedAgent != nil {
		if agent, ok := agents[*lead.AssignedAgent]; ok {
			resp.AssignedAgent = &agent
		}
	}
	if lead.PropertyInterest != nil {
		if property, ok := properties[*lead.PropertyInterest]; ok {
			resp.PropertyInterest = &property
		}
	}
	return resp
}
