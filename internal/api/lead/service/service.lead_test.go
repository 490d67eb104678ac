package leadsvc

import (
	"context"
	"errors"
	"testing"
	"time"

	basesvc "estate_crm/internal/api/base/service"
	leaddto "estate_crm/internal/api/lead/dto"
	models "estate_crm/internal/api/lead/models"
	"estate_crm/internal/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeLeadBase giả lập base service của collection leads: giữ một lead trong
// bộ nhớ và áp dụng UpdateData giống như MongoDB sẽ áp dụng ($set/$push/$unset).
type fakeLeadBase struct {
	basesvc.BaseServiceMongo[models.Lead]
	lead    models.Lead
	updates []*basesvc.UpdateData
}

func (f *fakeLeadBase) InsertOne(ctx context.Context, data models.Lead) (models.Lead, error) {
	data.ID = primitive.NewObjectID()
	now := time.Now().UnixMilli()
	data.CreatedAt = now
	data.UpdatedAt = now
	f.lead = data
	return data, nil
}

func (f *fakeLeadBase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts *options.FindOneAndUpdateOptions) (models.Lead, error) {
	ud, err := basesvc.ToUpdateData(update)
	if err != nil {
		return models.Lead{}, err
	}
	f.updates = append(f.updates, ud)

	if v, ok := ud.Set["status"].(string); ok {
		f.lead.Status = v
	}
	if v, ok := ud.Set["assignedAgent"].(primitive.ObjectID); ok {
		f.lead.AssignedAgent = &v
	}
	if _, ok := ud.Unset["assignedAgent"]; ok {
		f.lead.AssignedAgent = nil
	}
	if v, ok := ud.Push["activities"].(models.LeadActivity); ok {
		f.lead.Activities = append(f.lead.Activities, v)
	}
	f.lead.UpdatedAt = time.Now().UnixMilli()
	return f.lead, nil
}

// captureSink ghi lại tên các sự kiện đã phát
type captureSink struct {
	events []string
}

func (s *captureSink) Publish(event string, payload interface{}) {
	s.events = append(s.events, event)
}

func newTestLeadService(fake *fakeLeadBase, sink EventSink) *LeadService {
	if sink == nil {
		sink = noopSink{}
	}
	return &LeadService{BaseServiceMongo: fake, sink: sink}
}

func f64(v float64) *float64 { return &v }

func TestCreateAppendsCreationActivityAndEmits(t *testing.T) {
	fake := &fakeLeadBase{}
	sink := &captureSink{}
	svc := newTestLeadService(fake, sink)

	created, err := svc.Create(context.Background(), &leaddto.LeadCreateInput{
		Name:   "Nguyễn Văn A",
		Email:  "a@example.com",
		Phone:  "0901234567",
		Budget: f64(0),
	})
	if err != nil {
		t.Fatalf("Create lỗi: %v", err)
	}

	if created.Status != models.LeadStatusNew {
		t.Errorf("Status = %q, muốn %q", created.Status, models.LeadStatusNew)
	}
	if created.Budget != 0 {
		t.Errorf("Budget = %v, muốn 0 (ngân sách 0 là hợp lệ)", created.Budget)
	}
	if len(created.Activities) != 1 {
		t.Fatalf("len(Activities) = %d, muốn 1", len(created.Activities))
	}
	if created.Activities[0].Kind != models.ActivityKindCreation {
		t.Errorf("Activities[0].Kind = %q, muốn %q", created.Activities[0].Kind, models.ActivityKindCreation)
	}
	if created.Activities[0].Description != models.DescLeadCreated {
		t.Errorf("Activities[0].Description = %q, muốn %q", created.Activities[0].Description, models.DescLeadCreated)
	}

	// new-lead phát vô điều kiện sau khi ghi thành công
	if len(sink.events) != 1 || sink.events[0] != EventNewLead {
		t.Errorf("events = %v, muốn [%q]", sink.events, EventNewLead)
	}
}

// Đổi sang đúng trạng thái hiện tại vẫn phải ghi một hoạt động status_change
func TestTransitionStatusSameStatusStillAppendsActivity(t *testing.T) {
	fake := &fakeLeadBase{lead: models.Lead{
		ID:         primitive.NewObjectID(),
		Status:     models.LeadStatusNew,
		Activities: []models.LeadActivity{models.NewLeadActivity(models.ActivityKindCreation, models.DescLeadCreated)},
	}}
	sink := &captureSink{}
	svc := newTestLeadService(fake, sink)

	updated, err := svc.TransitionStatus(context.Background(), fake.lead.ID, models.LeadStatusNew)
	if err != nil {
		t.Fatalf("TransitionStatus lỗi: %v", err)
	}

	if len(updated.Activities) != 2 {
		t.Fatalf("len(Activities) = %d, muốn 2", len(updated.Activities))
	}
	last := updated.Activities[1]
	if last.Kind != models.ActivityKindStatusChange {
		t.Errorf("Kind = %q, muốn %q", last.Kind, models.ActivityKindStatusChange)
	}
	if last.Description != "Status changed to New" {
		t.Errorf("Description = %q, muốn %q", last.Description, "Status changed to New")
	}
	if len(sink.events) != 0 {
		t.Errorf("events = %v, muốn rỗng (New không phát sự kiện)", sink.events)
	}
}

// N lần đổi trạng thái ⇒ 1 + N hoạt động; chỉ Closed phát lead-closed
func TestTransitionStatusActivityCountAndEmission(t *testing.T) {
	fake := &fakeLeadBase{}
	sink := &captureSink{}
	svc := newTestLeadService(fake, sink)

	created, err := svc.Create(context.Background(), &leaddto.LeadCreateInput{
		Name: "Trần Thị B", Email: "b@example.com", Phone: "0902222222", Budget: f64(3000000000),
	})
	if err != nil {
		t.Fatalf("Create lỗi: %v", err)
	}

	transitions := []string{models.LeadStatusContacted, models.LeadStatusViewing, models.LeadStatusClosed}
	for _, status := range transitions {
		if _, err := svc.TransitionStatus(context.Background(), created.ID, status); err != nil {
			t.Fatalf("TransitionStatus(%s) lỗi: %v", status, err)
		}
	}

	if got := len(fake.lead.Activities); got != 1+len(transitions) {
		t.Errorf("len(Activities) = %d, muốn %d (1 creation + %d status_change)", got, 1+len(transitions), len(transitions))
	}

	// Mỗi lần transition là MỘT update document chứa cả $set lẫn $push
	if len(fake.updates) != len(transitions) {
		t.Fatalf("Ghi %d update, muốn %d", len(fake.updates), len(transitions))
	}
	for i, ud := range fake.updates {
		if _, ok := ud.Set["status"]; !ok {
			t.Errorf("updates[%d] thiếu $set status", i)
		}
		if _, ok := ud.Push["activities"]; !ok {
			t.Errorf("updates[%d] thiếu $push activities", i)
		}
	}

	want := []string{EventNewLead, EventLeadClosed}
	if len(sink.events) != len(want) {
		t.Fatalf("events = %v, muốn %v", sink.events, want)
	}
	for i := range want {
		if sink.events[i] != want[i] {
			t.Errorf("events[%d] = %q, muốn %q", i, sink.events[i], want[i])
		}
	}
}

// Gán rồi gỡ agent ⇒ hai hoạt động assignment, cùng mô tả chuẩn
func TestAssignThenUnassign(t *testing.T) {
	fake := &fakeLeadBase{lead: models.Lead{
		ID:         primitive.NewObjectID(),
		Status:     models.LeadStatusContacted,
		Activities: []models.LeadActivity{models.NewLeadActivity(models.ActivityKindCreation, models.DescLeadCreated)},
	}}
	sink := &captureSink{}
	svc := newTestLeadService(fake, sink)

	agentHex := primitive.NewObjectID().Hex()
	assigned, err := svc.Assign(context.Background(), fake.lead.ID, &agentHex)
	if err != nil {
		t.Fatalf("Assign lỗi: %v", err)
	}
	if assigned.AssignedAgent == nil || assigned.AssignedAgent.Hex() != agentHex {
		t.Errorf("AssignedAgent = %v, muốn %s", assigned.AssignedAgent, agentHex)
	}

	unassigned, err := svc.Assign(context.Background(), fake.lead.ID, nil)
	if err != nil {
		t.Fatalf("Assign(nil) lỗi: %v", err)
	}
	if unassigned.AssignedAgent != nil {
		t.Errorf("AssignedAgent = %v, muốn nil sau khi gỡ", unassigned.AssignedAgent)
	}
	if _, ok := fake.updates[1].Unset["assignedAgent"]; !ok {
		t.Error("Update gỡ agent thiếu $unset assignedAgent")
	}

	// 1 creation + 2 assignment, cả hai cùng mô tả chuẩn
	if got := len(unassigned.Activities); got != 3 {
		t.Fatalf("len(Activities) = %d, muốn 3", got)
	}
	for _, activity := range unassigned.Activities[1:] {
		if activity.Kind != models.ActivityKindAssignment {
			t.Errorf("Kind = %q, muốn %q", activity.Kind, models.ActivityKindAssignment)
		}
		if activity.Description != models.DescLeadAssigned {
			t.Errorf("Description = %q, muốn %q", activity.Description, models.DescLeadAssigned)
		}
	}

	if len(sink.events) != 0 {
		t.Errorf("events = %v, muốn rỗng (gán agent không phát sự kiện)", sink.events)
	}
}

// Trạng thái ngoài enum bị từ chối trước khi ghi, không có update, không có sự kiện
func TestTransitionStatusRejectsUnknownValue(t *testing.T) {
	fake := &fakeLeadBase{lead: models.Lead{ID: primitive.NewObjectID(), Status: models.LeadStatusNew}}
	sink := &captureSink{}
	svc := newTestLeadService(fake, sink)

	_, err := svc.TransitionStatus(context.Background(), fake.lead.ID, "Pending")
	if err == nil {
		t.Fatal("TransitionStatus với trạng thái lạ phải trả về lỗi")
	}
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("Lỗi không phải *common.Error: %v", err)
	}
	if appErr.Code.Code != common.ErrCodeValidationInput.Code {
		t.Errorf("Code = %q, muốn %q", appErr.Code.Code, common.ErrCodeValidationInput.Code)
	}
	if appErr.StatusCode != common.StatusBadRequest {
		t.Errorf("StatusCode = %d, muốn %d", appErr.StatusCode, common.StatusBadRequest)
	}

	if len(fake.updates) != 0 {
		t.Errorf("Ghi %d update, muốn 0", len(fake.updates))
	}
	if len(sink.events) != 0 {
		t.Errorf("events = %v, muốn rỗng", sink.events)
	}
}

func TestAssignRejectsMalformedAgentID(t *testing.T) {
	fake := &fakeLeadBase{lead: models.Lead{ID: primitive.NewObjectID()}}
	svc := newTestLeadService(fake, nil)

	bad := "không-phải-object-id"
	if _, err := svc.Assign(context.Background(), fake.lead.ID, &bad); err == nil {
		t.Fatal("Assign với agent id sai định dạng phải trả về lỗi")
	}
	if len(fake.updates) != 0 {
		t.Errorf("Ghi %d update, muốn 0", len(fake.updates))
	}
}

func TestEventForStatus(t *testing.T) {
	// Chỉ Closed sinh sự kiện lead-closed
	if got := eventForStatus(models.LeadStatusClosed); got != EventLeadClosed {
		t.Errorf("eventForStatus(Closed) = %q, muốn %q", got, EventLeadClosed)
	}

	for _, status := range []string{models.LeadStatusNew, models.LeadStatusContacted, models.LeadStatusViewing, models.LeadStatusNegotiation} {
		if got := eventForStatus(status); got != "" {
			t.Errorf("eventForStatus(%q) = %q, muốn rỗng", status, got)
		}
	}
}

func TestToLeadResponseResolvesReferences(t *testing.T) {
	agentID := primitive.NewObjectID()
	propertyID := primitive.NewObjectID()

	lead := models.Lead{
		ID:               primitive.NewObjectID(),
		Name:             "Nguyễn Văn A",
		Email:            "a@example.com",
		Status:           models.LeadStatusNew,
		AssignedAgent:    &agentID,
		PropertyInterest: &propertyID,
	}

	agents := map[primitive.ObjectID]leaddto.AgentSummary{
		agentID: {ID: agentID, Name: "Agent B", Email: "b@example.com"},
	}
	properties := map[primitive.ObjectID]leaddto.PropertySummary{
		propertyID: {ID: propertyID, Title: "Căn hộ Q7", Price: 2500000000},
	}

	resp := toLeadResponse(lead, agents, properties)

	if resp.AssignedAgent == nil {
		t.Fatal("AssignedAgent bị nil dù agent có trong map")
	}
	if resp.AssignedAgent.Name != "Agent B" {
		t.Errorf("AssignedAgent.Name = %q, muốn %q", resp.AssignedAgent.Name, "Agent B")
	}
	if resp.PropertyInterest == nil {
		t.Fatal("PropertyInterest bị nil dù property có trong map")
	}
	if resp.PropertyInterest.Title != "Căn hộ Q7" {
		t.Errorf("PropertyInterest.Title = %q, muốn %q", resp.PropertyInterest.Title, "Căn hộ Q7")
	}
}

// Tham chiếu không resolve được (agent/property đã bị xóa) phải trả về null,
// không được lỗi.
func TestToLeadResponseUnresolvedReferences(t *testing.T) {
	agentID := primitive.NewObjectID()
	propertyID := primitive.NewObjectID()

	lead := models.Lead{
		ID:               primitive.NewObjectID(),
		Name:             "Nguyễn Văn C",
		Status:           models.LeadStatusViewing,
		AssignedAgent:    &agentID,
		PropertyInterest: &propertyID,
	}

	resp := toLeadResponse(lead, map[primitive.ObjectID]leaddto.AgentSummary{}, map[primitive.ObjectID]leaddto.PropertySummary{})

	if resp.AssignedAgent != nil {
		t.Errorf("AssignedAgent = %+v, muốn nil khi agent không tồn tại", resp.AssignedAgent)
	}
	if resp.PropertyInterest != nil {
		t.Errorf("PropertyInterest = %+v, muốn nil khi property không tồn tại", resp.PropertyInterest)
	}
}

func TestToLeadResponseCopiesFields(t *testing.T) {
	lead := models.Lead{
		ID:     primitive.NewObjectID(),
		Name:   "Trần Thị D",
		Email:  "d@example.com",
		Phone:  "0901234567",
		Budget: 1500000000,
		Status: models.LeadStatusNegotiation,
		Activities: []models.LeadActivity{
			{Kind: models.ActivityKindCreation, Description: models.DescLeadCreated, Timestamp: 1},
		},
		CreatedAt: 100,
		UpdatedAt: 200,
	}

	resp := toLeadResponse(lead, nil, nil)

	if resp.ID != lead.ID {
		t.Errorf("ID = %v, muốn %v", resp.ID, lead.ID)
	}
	if resp.Budget != lead.Budget {
		t.Errorf("Budget = %v, muốn %v", resp.Budget, lead.Budget)
	}
	if resp.Status != models.LeadStatusNegotiation {
		t.Errorf("Status = %q, muốn %q", resp.Status, models.LeadStatusNegotiation)
	}
	if len(resp.Activities) != 1 {
		t.Fatalf("len(Activities) = %d, muốn 1", len(resp.Activities))
	}
	if resp.Activities[0].Description != models.DescLeadCreated {
		t.Errorf("Activities[0].Description = %q, muốn %q", resp.Activities[0].Description, models.DescLeadCreated)
	}
}
