package utility

import (
	"testing"
)

type sampleDoc struct {
	Name  string `bson:"name"`
	Email string `bson:"email,omitempty"`
	Age   int    `bson:"age"`
}

func TestToMap(t *testing.T) {
	m, err := ToMap(sampleDoc{Name: "Nguyễn Văn A", Age: 30})
	if err != nil {
		t.Fatalf("ToMap lỗi: %v", err)
	}
	if m["name"] != "Nguyễn Văn A" {
		t.Errorf("m[name] = %v, muốn %q", m["name"], "Nguyễn Văn A")
	}
	// omitempty: email rỗng không xuất hiện
	if _, ok := m["email"]; ok {
		t.Error("Trường email rỗng (omitempty) vẫn xuất hiện trong map")
	}
}

func TestCustomBsonSet(t *testing.T) {
	cb := &CustomBson{}
	query, err := cb.Set(sampleDoc{Name: "abc", Age: 1})
	if err != nil {
		t.Fatalf("Set lỗi: %v", err)
	}

	setVal, ok := query["$set"]
	if !ok {
		t.Fatalf("Thiếu key $set, query = %v", query)
	}
	inner, ok := setVal.(map[string]interface{})
	if !ok {
		t.Fatalf("$set không phải map, là %T", setVal)
	}
	if inner["name"] != "abc" {
		t.Errorf("$set[name] = %v, muốn abc", inner["name"])
	}
	if _, ok := query["$push"]; ok {
		t.Error("Set không được sinh ra $push")
	}
}

func TestCustomBsonPushAndUnset(t *testing.T) {
	cb := &CustomBson{}

	query, err := cb.Push(map[string]interface{}{"activities": "x"})
	if err != nil {
		t.Fatalf("Push lỗi: %v", err)
	}
	if _, ok := query["$push"]; !ok {
		t.Errorf("Thiếu key $push, query = %v", query)
	}

	query, err = cb.Unset(map[string]interface{}{"notes": ""})
	if err != nil {
		t.Fatalf("Unset lỗi: %v", err)
	}
	if _, ok := query["$unset"]; !ok {
		t.Errorf("Thiếu key $unset, query = %v", query)
	}
}
