package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"qcreports/internal/models"
	"qcreports/internal/util"
)

const defaultProcessConditions = "Process, machine, production site, material, supplier, measuring devices are not allowed to be modified after release of this PPAP. All conditions must be fulfilled before a ..."

type ISSupplierInfo struct {
	TestReportNo       string `json:"testReportNo"`
	PartNo             string `json:"partNo"`
	Identification     string `json:"identification"`
	DrawingNo          string `json:"drawingNo"`
	LevelDateIndex     string `json:"levelDateIndex"`
	OrderingCallNoDate string `json:"orderingCallNoDate"`
	DeliveryNoteNoDate string `json:"deliveryNoteNoDate"`
	SuppliedQuantity   string `json:"suppliedQuantity"`
	BatchNumber        string `json:"batchNumber"`
	WeightOfSamples    string `json:"weightOfSamples"`
}

type ISCustomerInfo struct {
	TestReportNo         string `json:"testReportNo"`
	PartNo               string `json:"partNo"`
	Identification       string `json:"identification"`
	DrawingNo            string `json:"drawingNo"`
	LevelDateIndex       string `json:"levelDateIndex"`
	UnloadingArea        string `json:"unloadingArea"`
	WeightOfSamples      string `json:"weightOfSamples"`
	KindOfMaterial       string `json:"kindOfMaterial"`
	ReceiptOfGoodsNoDate string `json:"receiptOfGoodsNoDate"`
}

type ISReasons struct {
	NewParts                     bool `json:"newParts"`
	ChangeOfProduct              bool `json:"changeOfProduct"`
	TransferOfProduction         bool `json:"transferOfProduction"`
	ChangedProductionMethod      bool `json:"changedProductionMethod"`
	LongerInterruption           bool `json:"longerInterruption"`
	ChangeOfSubSupplier          bool `json:"changeOfSubSupplier"`
	NewToolsProductionFacilities bool `json:"newToolsProductionFacilities"`
	RemedyingDeviation           bool `json:"remedyingDeviation"`
	OtherMaterials               bool `json:"otherMaterials"`
}

type ISPresentationStep struct {
	PresentationCoverSheet     bool `json:"presentationCoverSheet"`
	CompleteAcceptanceCustomer bool `json:"completeAcceptanceCustomer"`
	CompleteAcceptanceSupplier bool `json:"completeAcceptanceSupplier"`
}

type ISEnclosures struct {
	FunctionReport               bool `json:"functionReport"`
	DimensionReport              bool `json:"dimensionReport"`
	MaterialReport               bool `json:"materialReport"`
	ReliabilityTest              bool `json:"reliabilityTest"`
	ProcessCapabilityCertificate bool `json:"processCapabilityCertificate"`
	FlowChart                    bool `json:"flowChart"`
	TestingDeviceCapability      bool `json:"testingDeviceCapability"`
	MeasuringMethods             bool `json:"measuringMethods"`
	SecurityDataSheets           bool `json:"securityDataSheets"`
	HapticsVisualInspection      bool `json:"hapticsVisualInspection"`
	Acoustics                    bool `json:"acoustics"`
	Odour                        bool `json:"odour"`
	ListUsedComponents           bool `json:"listUsedComponents"`
	Certificates                 bool `json:"certificates"`
	ReleaseOfConstruction        bool `json:"releaseOfConstruction"`
	MaterialsInBoughtParts       bool `json:"materialsInBoughtParts"`
	Others                       bool `json:"others"`
	DeviationReport              bool `json:"deviationReport"`
}

// Decision is the customer's verdict on one enclosure.
type Decision struct {
	Released            string `json:"released"`
	FreeUnderConditions string `json:"freeUnderConditions"`
	Refused             string `json:"refused"`
}

type ISConfirmation struct {
	VdaBd2Ziff4 bool `json:"vdaBd2Ziff4"`
	QS9000PPAP  bool `json:"qs9000PPAP"`
}

type ContactDetails struct {
	Name          string `json:"name"`
	Department    string `json:"department"`
	PhoneFaxEmail string `json:"phoneFaxEmail"`
	Date          string `json:"date"`
	Signature     string `json:"signature"`
}

// ISForm is the nested editing tree of an IS report. It is stored verbatim
// as the record's blankReportData.
type ISForm struct {
	SenderSupplier         string              `json:"senderSupplier"`
	ReceiverCustomer       string              `json:"receiverCustomer"`
	ReportType             string              `json:"reportType"`
	SupplierNumber         string              `json:"supplierNumber"`
	CustomerNumber         string              `json:"customerNumber"`
	CustomerOrderNo        string              `json:"customerOrderNo"`
	SupplierDate           string              `json:"supplierDate"`
	InitialSampleReport    bool                `json:"initialSampleReport"`
	FirstSample            bool                `json:"firstSample"`
	FollowingSample        bool                `json:"followingSample"`
	TestReportOtherSamples bool                `json:"testReportOtherSamples"`
	SupplierInfo           ISSupplierInfo      `json:"supplierInfo"`
	CustomerInfo           ISCustomerInfo      `json:"customerInfo"`
	DocumentationDuty      bool                `json:"documentationDuty"`
	FmeaCarriedOut         bool                `json:"fmeaCarriedOut"`
	ReasonForInspection    ISReasons           `json:"reasonForInspection"`
	PresentationStep       ISPresentationStep  `json:"presentationStep"`
	Enclosures             ISEnclosures        `json:"enclosures"`
	Decisions              map[string]Decision `json:"decisions"`
	Notes                  string              `json:"notes"`
	SupplierConfirmation   ISConfirmation      `json:"supplierConfirmation"`
	SupplierDetails        ContactDetails      `json:"supplierDetails"`
	CustomerDetails        ContactDetails      `json:"customerDetails"`
	Distributor            string              `json:"distributor"`
	DeviationApprovalNo    string              `json:"deviationApprovalNo"`
	ReturnShipmentDelivery string              `json:"returnShipmentDeliveryNote"`
	ProcessConditions      string              `json:"processConditions"`
	CustomerNotes          string              `json:"customerNotes"`
}

// DecisionItems lists the enclosures a customer decides on, plus the overall
// decision.
var DecisionItems = []string{
	"functionReport", "dimensionReport", "materialReport", "reliabilityTest",
	"flowChart", "testingDeviceCapability", "processCapability", "measuringMethods",
	"securityDataSheets", "hapticsVisualInspection", "acoustics", "odour",
	"listUsedComponents", "certificates", "releaseOfConstruction",
	"materialsInBoughtParts", "deviationReport", "completeDecision",
}

func defaultDecisions() map[string]Decision {
	d := make(map[string]Decision, len(DecisionItems))
	for _, item := range DecisionItems {
		d[item] = Decision{}
	}
	return d
}

// DefaultISForm returns the form a new IS report opens with.
func DefaultISForm(now time.Time) ISForm {
	return ISForm{
		SupplierDate:         now.UTC().Format(util.InputDateLayout),
		InitialSampleReport:  true,
		FirstSample:          true,
		ReasonForInspection:  ISReasons{NewParts: true},
		Enclosures:           ISEnclosures{DimensionReport: true, MaterialReport: true},
		Decisions:            defaultDecisions(),
		SupplierConfirmation: ISConfirmation{VdaBd2Ziff4: true},
		ProcessConditions:    defaultProcessConditions,
	}
}

// MergeISForm overlays a stored form tree onto the defaults. Keys missing
// from the blob, at any depth, keep their default value. A value of the
// wrong type is skipped and reported in the returned error while the rest of
// the tree is still merged; a blob that is not JSON returns the defaults.
func MergeISForm(defaults ISForm, blob []byte) (ISForm, error) {
	out := defaults
	out.Decisions = make(map[string]Decision, len(defaults.Decisions))
	for k, v := range defaults.Decisions {
		out.Decisions[k] = v
	}
	err := json.Unmarshal(blob, &out)
	var typeErr *json.UnmarshalTypeError
	if err != nil && !errors.As(err, &typeErr) {
		return defaults, fmt.Errorf("merge is form: %w", err)
	}
	if out.Decisions == nil {
		out.Decisions = defaultDecisions()
	}
	if err != nil {
		return out, fmt.Errorf("merge is form: %w", err)
	}
	return out, nil
}

func isTypeError(err error) bool {
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr)
}

// ISReportName picks the first non-empty identifier of the form.
func ISReportName(f ISForm, now time.Time) string {
	for _, v := range []string{
		f.SupplierInfo.DrawingNo, f.CustomerInfo.DrawingNo,
		f.SupplierInfo.PartNo, f.CustomerInfo.PartNo,
		f.SupplierInfo.Identification, f.CustomerInfo.Identification,
	} {
		if v != "" {
			return v
		}
	}
	return "IS Report - " + now.UTC().Format(util.InputDateLayout)
}

// SaveISForm flattens f into the record projection and stores the whole
// tree as blankReportData.
func SaveISForm(f ISForm, now time.Time) (Patch, error) {
	tree, err := models.EncodeJSON(f)
	if err != nil {
		return nil, err
	}
	decisions := f.Decisions
	if decisions == nil {
		decisions = map[string]Decision{}
	}
	decisionCol, err := models.EncodeJSON(decisions)
	if err != nil {
		return nil, err
	}
	si, ci, e := f.SupplierInfo, f.CustomerInfo, f.Enclosures
	p := Patch{
		"reportName":       ISReportName(f, now),
		"clientName":       f.ReceiverCustomer,
		"blankReportData":  tree,
		"senderSupplier":   f.SenderSupplier,
		"receiverCustomer": f.ReceiverCustomer,
		"reportType":       f.ReportType,

		"firstSample":              f.FirstSample,
		"followingSample":          f.FollowingSample,
		"testReportOfOtherSamples": f.TestReportOtherSamples,

		"functionReport":          e.FunctionReport,
		"dimensionReport":         e.DimensionReport,
		"materialReport":          e.MaterialReport,
		"reliabilityTest":         e.ReliabilityTest,
		"processCapability":       e.ProcessCapabilityCertificate,
		"flowChart":               e.FlowChart,
		"testingDeviceCapability": e.TestingDeviceCapability,
		"measuringMethods":        e.MeasuringMethods,
		"securityDataSheets":      e.SecurityDataSheets,
		"haptics":                 e.HapticsVisualInspection,
		"acoustics":               e.Acoustics,
		"odour":                   e.Odour,
		"listUsedCompon":          e.ListUsedComponents,
		"certificates":            e.Certificates,
		"releaseOfConstruction":   e.ReleaseOfConstruction,
		"materialsParts":          e.MaterialsInBoughtParts,
		"otherReport":             e.Others,
		"deviationReport":         e.DeviationReport,

		"supplierNumber":  f.SupplierNumber,
		"testReportNo":    si.TestReportNo,
		"partNo":          si.PartNo,
		"identification":  si.Identification,
		"drawingNo":       si.DrawingNo,
		"levelIndex":      si.LevelDateIndex,
		"odderingCallNo":  si.OrderingCallNoDate,
		"deliveryNoteNo":  si.DeliveryNoteNoDate,
		"suppliedQty":     wholeOrNil(si.SuppliedQuantity),
		"batchNumber":     wholeOrNil(si.BatchNumber),
		"weightOfSamples": numberOrNil(si.WeightOfSamples),

		"customerName":            f.ReceiverCustomer,
		"customerNumber":          f.CustomerNumber,
		"customerTestReportNo":    ci.TestReportNo,
		"customerOrderNo":         f.CustomerOrderNo,
		"customerPartNo":          ci.PartNo,
		"customerIdentification":  ci.Identification,
		"customerDrawingNo":       ci.DrawingNo,
		"customerLevelIndex":      ci.LevelDateIndex,
		"customerUnloadingArea":   ci.UnloadingArea,
		"customerWeightOfSamples": ci.WeightOfSamples,
		"customerMaterial":        ci.KindOfMaterial,
		"customerGoodsNo":         ci.ReceiptOfGoodsNoDate,

		"documentationDuty":       f.DocumentationDuty,
		"carriedOut":              f.FmeaCarriedOut,
		"newParts":                f.ReasonForInspection.NewParts,
		"changeOfProduct":         f.ReasonForInspection.ChangeOfProduct,
		"transferToProduction":    f.ReasonForInspection.TransferOfProduction,
		"longerInterruption":      f.ReasonForInspection.LongerInterruption,
		"theSubSupplier":          f.ReasonForInspection.ChangeOfSubSupplier,
		"newTools":                f.ReasonForInspection.NewToolsProductionFacilities,
		"remedyingOfDeviation":    f.ReasonForInspection.RemedyingDeviation,
		"otherMaterials":          f.ReasonForInspection.OtherMaterials,
		"presentationCover":       f.PresentationStep.PresentationCoverSheet,
		"acceptanceAtTheCustomer": f.PresentationStep.CompleteAcceptanceCustomer,
		"acceptanceAtTheSupplier": f.PresentationStep.CompleteAcceptanceSupplier,

		"supplierNotes": f.Notes,
		"vdaBd":         f.SupplierConfirmation.VdaBd2Ziff4,
		"ppapGuideline": f.SupplierConfirmation.QS9000PPAP,

		"supplierName2":      f.SupplierDetails.Name,
		"supplierDepartment": f.SupplierDetails.Department,
		"supplierPhone":      f.SupplierDetails.PhoneFaxEmail,
		"supplierDate":       dateOrNil(f.SupplierDetails.Date),
		"supplierSignature":  f.SupplierDetails.Signature,

		"decisionOfCustomer":  decisionCol,
		"deviationApprovalNo": f.DeviationApprovalNo,
		"returnDeliveryDate":  dateOrNil(f.CustomerDetails.Date),
		"customerNotes":       f.ProcessConditions,
		"customerDepartment":  f.CustomerDetails.Department,
		"customerPhone":       f.CustomerDetails.PhoneFaxEmail,
		"customerSignature":   f.CustomerDetails.Signature,
	}
	return p, nil
}

// isDates are the date fields of a stored tree, read before merging so a
// missing value falls back to the flat column rather than the default.
type isDates struct {
	SupplierDate    string `json:"supplierDate"`
	SupplierDetails struct {
		Date string `json:"date"`
	} `json:"supplierDetails"`
	CustomerDetails struct {
		Date string `json:"date"`
	} `json:"customerDetails"`
}

// LoadISForm rebuilds the editing tree of r. A populated blankReportData is
// merged over the defaults; older records without it are mapped back from
// their flat columns.
func LoadISForm(r *models.ISReport, now time.Time, lg *zap.SugaredLogger) ISForm {
	defaults := DefaultISForm(now)
	obj, err := models.DecodeObject(r.BlankReportData)
	if err != nil {
		lg.Warnw("unreadable IS form data, using flat fields", "report_id", r.ID, "field", "blankReportData", "error", err)
	}
	if err == nil && len(obj) > 0 {
		blob, _ := json.Marshal(obj)
		f, mergeErr := MergeISForm(defaults, blob)
		if mergeErr != nil && isTypeError(mergeErr) {
			lg.Warnw("IS form data has mistyped values, skipping them", "report_id", r.ID, "error", mergeErr)
			mergeErr = nil
		}
		if mergeErr == nil {
			var dates isDates
			_ = json.Unmarshal(blob, &dates)
			f.SupplierDate = util.FormatDateInputString(firstNonEmpty(dates.SupplierDate, util.FormatDateInput(r.SupplierDate)))
			f.SupplierDetails.Date = util.FormatDateInputString(firstNonEmpty(dates.SupplierDetails.Date, util.FormatDateInput(r.SupplierDate)))
			f.CustomerDetails.Date = util.FormatDateInputString(firstNonEmpty(dates.CustomerDetails.Date, util.FormatDateInput(r.ReturnDeliveryDate)))
			return f
		}
		lg.Warnw("IS form data does not fit the form, using flat fields", "report_id", r.ID, "error", mergeErr)
	}
	return isFormFromColumns(r, defaults, lg)
}

func isFormFromColumns(r *models.ISReport, defaults ISForm, lg *zap.SugaredLogger) ISForm {
	s := deref
	decisions := defaults.Decisions
	if obj, err := models.DecodeObject(r.DecisionOfCustomer); err != nil {
		lg.Warnw("unreadable customer decisions, using defaults", "report_id", r.ID, "error", err)
	} else if len(obj) > 0 {
		blob, _ := json.Marshal(obj)
		merged, err := MergeISForm(defaults, []byte(`{"decisions":`+string(blob)+`}`))
		if err == nil || isTypeError(err) {
			decisions = merged.Decisions
		}
	}
	processConditions := defaultProcessConditions
	if v := s(r.CustomerNotes); v != "" {
		processConditions = v
	}
	return ISForm{
		SenderSupplier:         s(r.SenderSupplier),
		ReceiverCustomer:       s(r.ReceiverCustomer),
		ReportType:             s(r.ReportType),
		SupplierNumber:         s(r.SupplierNumber),
		CustomerNumber:         s(r.CustomerNumber),
		CustomerOrderNo:        s(r.CustomerOrderNo),
		SupplierDate:           util.FormatDateInput(r.SupplierDate),
		InitialSampleReport:    true,
		FirstSample:            boolOr(r.FirstSample, true),
		FollowingSample:        boolOr(r.FollowingSample, false),
		TestReportOtherSamples: boolOr(r.TestReportOfOtherSamples, false),
		SupplierInfo: ISSupplierInfo{
			TestReportNo:       s(r.TestReportNo),
			PartNo:             s(r.PartNo),
			Identification:     s(r.Identification),
			DrawingNo:          s(r.DrawingNo),
			LevelDateIndex:     s(r.LevelIndex),
			OrderingCallNoDate: s(r.OdderingCallNo),
			DeliveryNoteNoDate: s(r.DeliveryNoteNo),
			SuppliedQuantity:   intText(r.SuppliedQty),
			BatchNumber:        intText(r.BatchNumber),
			WeightOfSamples:    floatText(r.WeightOfSamples),
		},
		CustomerInfo: ISCustomerInfo{
			TestReportNo:         s(r.CustomerTestReportNo),
			PartNo:               s(r.CustomerPartNo),
			Identification:       s(r.CustomerIdentification),
			DrawingNo:            s(r.CustomerDrawingNo),
			LevelDateIndex:       s(r.CustomerLevelIndex),
			UnloadingArea:        s(r.CustomerUnloadingArea),
			WeightOfSamples:      s(r.CustomerWeightOfSamples),
			KindOfMaterial:       s(r.CustomerMaterial),
			ReceiptOfGoodsNoDate: s(r.CustomerGoodsNo),
		},
		DocumentationDuty: isTrue(r.DocumentationDuty),
		FmeaCarriedOut:    isTrue(r.CarriedOut),
		ReasonForInspection: ISReasons{
			NewParts:                     isTrue(r.NewParts),
			ChangeOfProduct:              isTrue(r.ChangeOfProduct),
			TransferOfProduction:         isTrue(r.TransferToProduction),
			LongerInterruption:           isTrue(r.LongerInterruption),
			ChangeOfSubSupplier:          isTrue(r.TheSubSupplier),
			NewToolsProductionFacilities: isTrue(r.NewTools),
			RemedyingDeviation:           isTrue(r.RemedyingOfDeviation),
			OtherMaterials:               isTrue(r.OtherMaterials),
		},
		PresentationStep: ISPresentationStep{
			PresentationCoverSheet:     isTrue(r.PresentationCover),
			CompleteAcceptanceCustomer: isTrue(r.AcceptanceAtTheCustomer),
			CompleteAcceptanceSupplier: isTrue(r.AcceptanceAtTheSupplier),
		},
		Enclosures: ISEnclosures{
			FunctionReport:               isTrue(r.FunctionReport),
			DimensionReport:              isTrue(r.DimensionReport),
			MaterialReport:               isTrue(r.MaterialReport),
			ReliabilityTest:              isTrue(r.ReliabilityTest),
			ProcessCapabilityCertificate: isTrue(r.ProcessCapability),
			FlowChart:                    isTrue(r.FlowChart),
			TestingDeviceCapability:      isTrue(r.TestingDeviceCapability),
			MeasuringMethods:             isTrue(r.MeasuringMethods),
			SecurityDataSheets:           isTrue(r.SecurityDataSheets),
			HapticsVisualInspection:      isTrue(r.Haptics),
			Acoustics:                    isTrue(r.Acoustics),
			Odour:                        isTrue(r.Odour),
			ListUsedComponents:           isTrue(r.ListUsedCompon),
			Certificates:                 isTrue(r.Certificates),
			ReleaseOfConstruction:        isTrue(r.ReleaseOfConstruction),
			MaterialsInBoughtParts:       isTrue(r.MaterialsParts),
			Others:                       isTrue(r.OtherReport),
			DeviationReport:              isTrue(r.DeviationReport),
		},
		Decisions:            decisions,
		Notes:                s(r.SupplierNotes),
		SupplierConfirmation: ISConfirmation{VdaBd2Ziff4: isTrue(r.VdaBd), QS9000PPAP: isTrue(r.PpapGuideline)},
		SupplierDetails: ContactDetails{
			Name:          s(r.SupplierName2),
			Department:    s(r.SupplierDepartment),
			PhoneFaxEmail: s(r.SupplierPhone),
			Date:          util.FormatDateInput(r.SupplierDate),
			Signature:     s(r.SupplierSignature),
		},
		CustomerDetails: ContactDetails{
			Name:          s(r.CustomerName),
			Department:    s(r.CustomerDepartment),
			PhoneFaxEmail: s(r.CustomerPhone),
			Date:          util.FormatDateInput(r.ReturnDeliveryDate),
			Signature:     s(r.CustomerSignature),
		},
		DeviationApprovalNo: s(r.DeviationApprovalNo),
		ProcessConditions:   processConditions,
		CustomerNotes:       s(r.CustomerNotes),
	}
}

func wholeOrNil(s string) any {
	if n, ok := util.ParseWholeNumber(s); ok {
		return n
	}
	return nil
}

func numberOrNil(s string) any {
	if f, ok := util.ParseNumber(s); ok {
		return f
	}
	return nil
}

func dateOrNil(s string) any {
	if t, ok := util.ParseDate(s); ok {
		return t
	}
	return nil
}

func isTrue(b *bool) bool { return b != nil && *b }

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func intText(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func floatText(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
