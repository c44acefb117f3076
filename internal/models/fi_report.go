package models

import (
	"time"

	"gorm.io/datatypes"
)

// FIReport is a Final Inspection report. The three measurement blobs are
// positionally aligned: index i in each describes the same table row.
type FIReport struct {
	ID         string  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportName *string `json:"reportName"`
	ClientName *string `json:"clientName"`
	Status     *string `json:"status"`

	FinalINSReportVDA    *bool `gorm:"column:final_ins_report_vda;default:false" json:"finalINSReportVDA"`
	DimensionReport      *bool `gorm:"default:false" json:"dimensionReport"`
	HapticsVI            *bool `gorm:"column:haptics_vi;default:false" json:"hapticsVI"`
	MaterialReport       *bool `gorm:"default:false" json:"materialReport"`
	MaterialsBoughtParts *bool `gorm:"default:false" json:"materialsBoughtParts"`

	SupplierNumber  *int       `json:"supplierNumber"`
	SupplierName    *string    `json:"supplierName"`
	Date            *time.Time `json:"date"`
	TestRepNo       *string    `json:"testRepNo"`
	PartSubNoCavity *string    `json:"partSubNoCavity"`
	Identification  *string    `json:"identification"`
	DrawingNo       *string    `json:"drawingNo"`
	LevelDateIndex  *string    `json:"levelDateIndex"`

	CustomerTestReNo        *string `json:"customerTestReNo"`
	CustomerPartSubNoCavity *string `json:"customerPartSubNoCavity"`
	CustomerIdentification  *string `json:"customerIdentification"`
	CustomerDrawingNo       *string `json:"customerDrawingNo"`
	CustomerLevelDateIndex  *string `json:"customerLevelDateIndex"`

	BlankReportData   datatypes.JSON `gorm:"type:jsonb" json:"blankReportData"`
	SupplierFiledData datatypes.JSON `gorm:"type:jsonb" json:"supplierFiledData"`
	CustomerFiledData datatypes.JSON `gorm:"type:jsonb" json:"customerFiledData"`

	RemarkSupplier *string `json:"remarkSupplier"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (FIReport) TableName() string { return "fi_reports" }
