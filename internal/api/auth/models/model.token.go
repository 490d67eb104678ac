package models

// Token chứa token xác thực của một thiết bị (theo hwid)
type Token struct {
	Hwid     string `json:"hwid" bson:"hwid"`
	JwtToken string `json:"jwtToken" bson:"jwtToken"`
}
