package basesvc

import (
	"testing"
)

func TestToUpdateDataPassthrough(t *testing.T) {
	original := &UpdateData{
		Set: map[string]interface{}{"name": "abc"},
	}
	got, err := ToUpdateData(original)
	if err != nil {
		t.Fatalf("ToUpdateData lỗi: %v", err)
	}
	if got != original {
		t.Error("ToUpdateData(*UpdateData) phải trả về chính con trỏ đó")
	}

	// UpdateData value cũng được chấp nhận
	got, err = ToUpdateData(UpdateData{Set: map[string]interface{}{"x": 1}})
	if err != nil {
		t.Fatalf("ToUpdateData(UpdateData) lỗi: %v", err)
	}
	if got.Set["x"] == nil {
		t.Error("ToUpdateData(UpdateData) mất dữ liệu Set")
	}
}

func TestToUpdateDataWrapsPlainMap(t *testing.T) {
	got, err := ToUpdateData(map[string]interface{}{"status": "Closed", "budget": 100})
	if err != nil {
		t.Fatalf("ToUpdateData lỗi: %v", err)
	}
	if got.Set == nil {
		t.Fatal("Map thường phải được wrap vào Set")
	}
	if got.Set["status"] != "Closed" {
		t.Errorf("Set[status] = %v, muốn Closed", got.Set["status"])
	}
	if got.Unset != nil || got.Push != nil {
		t.Error("Map thường không được sinh ra Unset/Push")
	}
}

func TestToUpdateDataFromOperatorMap(t *testing.T) {
	data := map[string]interface{}{
		"$set":   map[string]interface{}{"status": "Contacted"},
		"$unset": map[string]interface{}{"notes": ""},
		"$push":  map[string]interface{}{"activities": "x"},
	}
	got, err := ToUpdateData(data)
	if err != nil {
		t.Fatalf("ToUpdateData lỗi: %v", err)
	}
	if got.Set["status"] != "Contacted" {
		t.Errorf("Set[status] = %v, muốn Contacted", got.Set["status"])
	}
	if _, ok := got.Unset["notes"]; !ok {
		t.Error("Unset[notes] bị mất")
	}
	if _, ok := got.Push["activities"]; !ok {
		t.Error("Push[activities] bị mất")
	}
}

func TestToUpdateDataFromStruct(t *testing.T) {
	type patch struct {
		Name  string `bson:"name"`
		Phone string `bson:"phone,omitempty"`
	}
	got, err := ToUpdateData(patch{Name: "Nguyễn Văn E"})
	if err != nil {
		t.Fatalf("ToUpdateData lỗi: %v", err)
	}
	if got.Set == nil {
		t.Fatal("Struct phải được wrap vào Set")
	}
	if got.Set["name"] != "Nguyễn Văn E" {
		t.Errorf("Set[name] = %v, muốn %q", got.Set["name"], "Nguyễn Văn E")
	}
	// omitempty: trường rỗng không xuất hiện trong $set
	if _, ok := got.Set["phone"]; ok {
		t.Error("Trường phone rỗng (omitempty) vẫn xuất hiện trong Set")
	}
}
