package model

// MapCoordinates locates a suite on the building map
type MapCoordinates struct {
	Floor int `json:"floor"`
	X     int `json:"x"`
	Y     int `json:"y"`
}

// DirectoryEntry maps a suite number to the business occupying it
type DirectoryEntry struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	SuiteNumber    string          `json:"suite_number" gorm:"type:varchar(50);uniqueIndex;not null"`
	BusinessName   string          `json:"business_name" gorm:"type:varchar(255);not null"`
	TenantID       *uint           `json:"tenant_id,omitempty" gorm:"uniqueIndex"`
	MapCoordinates *MapCoordinates `json:"map_coordinates" gorm:"type:jsonb;serializer:json"`
}
