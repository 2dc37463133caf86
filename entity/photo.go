package entity

import "time"

// Photo metadata. The encoded bytes live in the object store under Filename;
// the row is immutable once stored except for the Deleted flag.
type Photo struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Filename    string    `json:"filename" gorm:"type:varchar(64)"`
	OriginName  string    `json:"origin_name" gorm:"type:varchar(512);not null"`
	ContentType string    `json:"content_type" gorm:"type:varchar(255);not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Created     time.Time `json:"created" gorm:"not null;autoCreateTime"`
	Deleted     bool      `json:"-" gorm:"not null;default:false;index"`
}
