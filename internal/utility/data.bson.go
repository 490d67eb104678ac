package utility

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// CustomBson dùng để tạo các truy vấn bson ($set, $push, $unset, $addToSet)
// từ struct thay vì viết bson.M thủ công.
type CustomBson struct{}

// BsonWrapper bọc các toán tử update cơ bản của MongoDB.
// Gán struct dữ liệu vào trường tương ứng rồi ToMap để có truy vấn hoàn chỉnh.
type BsonWrapper struct {
	// Set đặt giá trị cho các trường. Mã hóa thành { $set: {...} }
	Set interface{} `json:"$set,omitempty" bson:"$set,omitempty"`

	// Unset xóa các trường khỏi document. Mã hóa thành { $unset: {...} }
	Unset interface{} `json:"$unset,omitempty" bson:"$unset,omitempty"`

	// Push thêm một giá trị vào trường mảng. Mã hóa thành { $push: {...} }
	Push interface{} `json:"$push,omitempty" bson:"$push,omitempty"`

	// AddToSet thêm giá trị vào mảng nếu chưa tồn tại
	AddToSet interface{} `json:"$addToSet,omitempty" bson:"$addToSet,omitempty"`
}

// ToMap chuyển đổi struct thành map[string]interface{} qua bson marshal,
// nhờ đó tôn trọng các bson tag (omitempty, tên field) của model.
func ToMap(s interface{}) (map[string]interface{}, error) {
	var stringInterfaceMap map[string]interface{}
	itr, err := bson.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("bson marshal failed: %w", err)
	}
	err = bson.Unmarshal(itr, &stringInterfaceMap)
	if err != nil {
		return nil, fmt.Errorf("bson unmarshal failed: %w", err)
	}
	return stringInterfaceMap, nil
}

// Set tạo truy vấn { $set: {...} } từ struct dữ liệu
func (customBson *CustomBson) Set(data interface{}) (map[string]interface{}, error) {
	s := BsonWrapper{Set: data}
	return ToMap(s)
}

// Push tạo truy vấn { $push: {...} } từ struct dữ liệu
func (customBson *CustomBson) Push(data interface{}) (map[string]interface{}, error) {
	s := BsonWrapper{Push: data}
	return ToMap(s)
}

// Unset tạo truy vấn { $unset: {...} } từ struct dữ liệu
func (customBson *CustomBson) Unset(data interface{}) (map[string]interface{}, error) {
	s := BsonWrapper{Unset: data}
	return ToMap(s)
}

// AddToSet tạo truy vấn { $addToSet: {...} } từ struct dữ liệu
func (customBson *CustomBson) AddToSet(data interface{}) (map[string]interface{}, error) {
	s := BsonWrapper{AddToSet: data}
	return ToMap(s)
}
