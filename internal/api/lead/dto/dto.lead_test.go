package leaddto

import (
	"encoding/json"
	"testing"

	"estate_crm/internal/global"
)

// Thiếu trường agentId phải phân biệt được với agentId: null -
// body {} không được phép hiểu nhầm thành lệnh gỡ agent.
func TestLeadAssignInputAgentValue(t *testing.T) {
	cases := []struct {
		name        string
		body        string
		wantPresent bool
		wantAgent   string // rỗng = muốn nil
		wantErr     bool
	}{
		{name: "thiếu trường", body: `{}`, wantPresent: false},
		{name: "null tường minh", body: `{"agentId":null}`, wantPresent: true},
		{name: "chuỗi agent id", body: `{"agentId":"656e0c3f9d3f2a0001a1b2c3"}`, wantPresent: true, wantAgent: "656e0c3f9d3f2a0001a1b2c3"},
		{name: "sai kiểu", body: `{"agentId":123}`, wantPresent: true, wantErr: true},
	}

	for _, tc := range cases {
		var input LeadAssignInput
		if err := json.Unmarshal([]byte(tc.body), &input); err != nil {
			t.Fatalf("%s: decode lỗi: %v", tc.name, err)
		}

		agentID, present, err := input.AgentValue()
		if present != tc.wantPresent {
			t.Errorf("%s: present = %v, muốn %v", tc.name, present, tc.wantPresent)
		}
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s: muốn lỗi parse nhưng không có", tc.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: AgentValue lỗi: %v", tc.name, err)
			continue
		}
		if tc.wantAgent == "" {
			if agentID != nil {
				t.Errorf("%s: agentID = %q, muốn nil", tc.name, *agentID)
			}
		} else {
			if agentID == nil || *agentID != tc.wantAgent {
				t.Errorf("%s: agentID = %v, muốn %q", tc.name, agentID, tc.wantAgent)
			}
		}
	}
}

// Ngân sách 0 là hợp lệ, chỉ thiếu trường hoặc giá trị âm mới bị từ chối
func TestLeadCreateInputBudgetValidation(t *testing.T) {
	global.InitValidator()

	f64 := func(v float64) *float64 { return &v }
	base := LeadCreateInput{
		Name:  "Nguyễn Văn A",
		Email: "a@example.com",
		Phone: "0901234567",
	}

	valid := base
	valid.Budget = f64(0)
	if err := global.Validate.Struct(valid); err != nil {
		t.Errorf("Budget = 0 bị từ chối: %v", err)
	}

	missing := base
	if err := global.Validate.Struct(missing); err == nil {
		t.Error("Thiếu budget phải bị từ chối")
	}

	negative := base
	negative.Budget = f64(-1)
	if err := global.Validate.Struct(negative); err == nil {
		t.Error("Budget âm phải bị từ chối")
	}
}

// status phải nằm trong enum ngay từ tầng validate
func TestLeadStatusUpdateInputValidation(t *testing.T) {
	global.InitValidator()

	if err := global.Validate.Struct(LeadStatusUpdateInput{Status: "Contacted"}); err != nil {
		t.Errorf("Status Contacted bị từ chối: %v", err)
	}
	if err := global.Validate.Struct(LeadStatusUpdateInput{Status: "Pending"}); err == nil {
		t.Error("Status ngoài enum phải bị từ chối")
	}
	if err := global.Validate.Struct(LeadStatusUpdateInput{}); err == nil {
		t.Error("Thiếu status phải bị từ chối")
	}
}
