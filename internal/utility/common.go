package utility

import (
	"encoding/json"
)

// ConvertStruct chuyển đổi một struct sang struct khác qua JSON marshal.
// target phải là con trỏ đến struct đích.
func ConvertStruct(source interface{}, target interface{}) (interface{}, error) {
	jsonData, err := json.Marshal(source)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(jsonData, target)
	if err != nil {
		return nil, err
	}

	return target, nil
}
