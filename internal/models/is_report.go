package models

import (
	"time"

	"gorm.io/datatypes"
)

// ISReport is an Initial Sample report. BlankReportData holds the whole
// nested form tree and is authoritative on reload; the flat columns are a
// projection kept for listing and search.
type ISReport struct {
	ID               string         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportName       *string        `json:"reportName"`
	ClientName       *string        `json:"clientName"`
	BlankReportData  datatypes.JSON `gorm:"type:jsonb" json:"blankReportData"`
	SenderSupplier   *string        `json:"senderSupplier"`
	ReceiverCustomer *string        `json:"receiverCustomer"`
	ReportType       *string        `json:"reportType"`

	FirstSample              *bool `gorm:"default:false" json:"firstSample"`
	FollowingSample          *bool `gorm:"default:false" json:"followingSample"`
	TestReportOfOtherSamples *bool `gorm:"default:false" json:"testReportOfOtherSamples"`

	FunctionReport          *bool `gorm:"default:false" json:"functionReport"`
	DimensionReport         *bool `gorm:"default:false" json:"dimensionReport"`
	MaterialReport          *bool `gorm:"default:false" json:"materialReport"`
	ReliabilityTest         *bool `gorm:"default:false" json:"reliabilityTest"`
	ProcessCapability       *bool `gorm:"default:false" json:"processCapability"`
	FlowChart               *bool `gorm:"default:false" json:"flowChart"`
	TestingDeviceCapability *bool `gorm:"default:false" json:"testingDeviceCapability"`
	MeasuringMethods        *bool `gorm:"default:false" json:"measuringMethods"`
	SecurityDataSheets      *bool `gorm:"default:false" json:"securityDataSheets"`
	Haptics                 *bool `gorm:"default:false" json:"haptics"`
	Acoustics               *bool `gorm:"default:false" json:"acoustics"`
	Odour                   *bool `gorm:"default:false" json:"odour"`
	ListUsedCompon          *bool `gorm:"default:false" json:"listUsedCompon"`
	Certificates            *bool `gorm:"default:false" json:"certificates"`
	ReleaseOfConstruction   *bool `gorm:"default:false" json:"releaseOfConstruction"`
	MaterialsParts          *bool `gorm:"default:false" json:"materialsParts"`
	OtherReport             *bool `gorm:"default:false" json:"otherReport"`
	DeviationReport         *bool `gorm:"default:false" json:"deviationReport"`

	SupplierNumber  *string  `json:"supplierNumber"`
	TestReportNo    *string  `json:"testReportNo"`
	PartNo          *string  `json:"partNo"`
	Identification  *string  `json:"identification"`
	DrawingNo       *string  `json:"drawingNo"`
	LevelIndex      *string  `json:"levelIndex"`
	OdderingCallNo  *string  `json:"odderingCallNo"`
	DeliveryNoteNo  *string  `json:"deliveryNoteNo"`
	SuppliedQty     *int     `json:"suppliedQty"`
	BatchNumber     *int     `json:"batchNumber"`
	WeightOfSamples *float64 `json:"weightOfSamples"`

	CustomerName            *string `json:"customerName"`
	CustomerNumber          *string `json:"customerNumber"`
	CustomerTestReportNo    *string `json:"customerTestReportNo"`
	CustomerOrderNo         *string `json:"customerOrderNo"`
	CustomerPartNo          *string `json:"customerPartNo"`
	CustomerIdentification  *string `json:"customerIdentification"`
	CustomerDrawingNo       *string `json:"customerDrawingNo"`
	CustomerLevelIndex      *string `json:"customerLevelIndex"`
	CustomerUnloadingArea   *string `json:"customerUnloadingArea"`
	CustomerWeightOfSamples *string `json:"customerWeightOfSamples"`
	CustomerMaterial        *string `json:"customerMaterial"`
	CustomerGoodsNo         *string `json:"customerGoodsNo"`

	DocumentationDuty       *bool `gorm:"default:false" json:"documentationDuty"`
	CarriedOut              *bool `gorm:"default:false" json:"carriedOut"`
	NewParts                *bool `gorm:"default:false" json:"newParts"`
	ChangeOfProduct         *bool `gorm:"default:false" json:"changeOfProduct"`
	TransferToProduction    *bool `gorm:"default:false" json:"transferToProduction"`
	LongerInterruption      *bool `gorm:"default:false" json:"longerInterruption"`
	TheSubSupplier          *bool `gorm:"default:false" json:"theSubSupplier"`
	NewTools                *bool `gorm:"default:false" json:"newTools"`
	RemedyingOfDeviation    *bool `gorm:"default:false" json:"remedyingOfDeviation"`
	OtherMaterials          *bool `gorm:"default:false" json:"otherMaterials"`
	PresentationCover       *bool `gorm:"default:false" json:"presentationCover"`
	AcceptanceAtTheCustomer *bool `gorm:"default:false" json:"acceptanceAtTheCustomer"`
	AcceptanceAtTheSupplier *bool `gorm:"default:false" json:"acceptanceAtTheSupplier"`

	SupplierNotes *string `json:"supplierNotes"`
	VdaBd         *bool   `gorm:"default:false" json:"vdaBd"`
	PpapGuideline *bool   `gorm:"default:false" json:"ppapGuideline"`

	SupplierName2      *string    `gorm:"column:supplier_name2" json:"supplierName2"`
	SupplierDepartment *string    `json:"supplierDepartment"`
	SupplierPhone      *string    `json:"supplierPhone"`
	SupplierDate       *time.Time `json:"supplierDate"`
	SupplierSignature  *string    `json:"supplierSignature"`

	DecisionOfCustomer  datatypes.JSON `gorm:"type:jsonb" json:"decisionOfCustomer"`
	DeviationApprovalNo *string        `json:"deviationApprovalNo"`
	ReturnDeliveryDate  *time.Time     `json:"returnDeliveryDate"`
	CustomerNotes       *string        `json:"customerNotes"`
	CustomerDepartment  *string        `json:"customerDepartment"`
	CustomerPhone       *string        `json:"customerPhone"`
	CustomerSignature   *string        `json:"customerSignature"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ISReport) TableName() string { return "is_reports" }
