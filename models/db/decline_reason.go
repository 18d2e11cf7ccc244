package dbmodels

type DeclineReason struct {
	BaseModel
	Name string `gorm:"type:varchar(255)"`
}
