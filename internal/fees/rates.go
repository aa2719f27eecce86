// Package fees implements the statutory notary fee schedule
// (Notaries Regulations (Service Fees), 5739-1978) as pure functions.
package fees

// VATPercent is the value added tax applied on top of the fee subtotal.
const VATPercent = 18

// ServiceType identifies a notarial act in the schedule.
type ServiceType string

const (
	Signature       ServiceType = "signature"
	Photocopy       ServiceType = "photocopy"
	Translation     ServiceType = "translation"
	Will            ServiceType = "will"
	Alive           ServiceType = "alive"
	Affidavit       ServiceType = "affidavit"
	CommercialDoc   ServiceType = "commercialDoc"
	Cancellation    ServiceType = "cancellation"
	Prenup          ServiceType = "prenup"
	Other           ServiceType = "other"
	OutsideOffice   ServiceType = "outsideOffice"
	ForeignLanguage ServiceType = "foreignLanguage"
)

// Translation tiers.
var (
	translationFirst100     = Shekels(245)
	translationPer100To1000 = Shekels(193)
	translationPer100Beyond = Shekels(96)
	translationCopy         = Shekels(75)
)

// Photocopy tiers.
var (
	photocopyFirstPage      = Shekels(75)
	photocopyAdditionalPage = Shekels(13)
	photocopyCopyFirstPage  = Shekels(26)
)

// SubType is a priced variant of a service.
type SubType struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Price Money  `json:"price"`
}

// Service describes one row of the schedule and which inputs it takes.
type Service struct {
	Type     ServiceType `json:"type"`
	Label    string      `json:"label"`
	SubTypes []SubType   `json:"sub_types"`
	// CopyRate is charged for every copy beyond the first; zero means copies are not priced.
	CopyRate Money `json:"copy_rate"`
	// Pages is set for services priced per page.
	Pages bool `json:"pages"`
	// Words is set for services priced per word count.
	Words bool `json:"words"`
	// Translation is set when a half-price translation can be bundled.
	Translation bool `json:"translation"`
}

var schedule = []Service{
	{
		Type:  Signature,
		Label: "אימות חתימה",
		SubTypes: []SubType{
			{Value: "first", Label: "חותם ראשון", Price: Shekels(193)},
			{Value: "additional", Label: "חותם נוסף", Price: Shekels(75)},
			{Value: "authorized", Label: "אישור מוסמך", Price: Shekels(75)},
			{Value: "copy", Label: "העתק מאושר", Price: Shekels(75)},
		},
		CopyRate: Shekels(75),
	},
	{
		Type:  Photocopy,
		Label: "אישור העתק צילומי",
		SubTypes: []SubType{
			{Value: "firstPage", Label: "עמוד ראשון", Price: photocopyFirstPage},
			{Value: "additionalPage", Label: "עמוד נוסף", Price: photocopyAdditionalPage},
			{Value: "multipleFirstPage", Label: "העתק נוסף - עמוד ראשון", Price: photocopyCopyFirstPage},
			{Value: "multipleSecondPage", Label: "העתק נוסף - עמוד נוסף", Price: photocopyAdditionalPage},
		},
		CopyRate: photocopyCopyFirstPage,
		Pages:    true,
	},
	{
		Type:  Translation,
		Label: "אישור נכונות תרגום",
		SubTypes: []SubType{
			{Value: "first100", Label: "100 מילים ראשונות", Price: translationFirst100},
			{Value: "per100until1000", Label: "100 מילים עד 1000", Price: translationPer100To1000},
			{Value: "per100after1000", Label: "100 מילים לאחר 1000", Price: translationPer100Beyond},
			{Value: "multipleCopy", Label: "העתק נוסף", Price: translationCopy},
		},
		CopyRate: translationCopy,
		Words:    true,
	},
	{
		Type:  Will,
		Label: "אישור צוואה",
		SubTypes: []SubType{
			{Value: "first", Label: "צוואה - מסמך ראשון", Price: Shekels(286)},
			{Value: "additional", Label: "צוואה - מסמך נוסף", Price: Shekels(143)},
		},
		CopyRate:    Shekels(86),
		Translation: true,
	},
	{
		Type:     Alive,
		Label:    "אישור שפלוני בחיים",
		SubTypes: []SubType{{Value: "alive", Label: "אישור שפלוני בחיים", Price: Shekels(193)}},
	},
	{
		Type:  Affidavit,
		Label: "קבלת תצהיר",
		SubTypes: []SubType{
			{Value: "first", Label: "תצהיר - מסמך ראשון", Price: Shekels(195)},
			{Value: "additional", Label: "תצהיר - מסמך נוסף", Price: Shekels(78)},
		},
		CopyRate:    Shekels(75),
		Translation: true,
	},
	{
		Type:  CommercialDoc,
		Label: "העדת מסמך סחיר",
		SubTypes: []SubType{
			{Value: "under80700", Label: "עד 80,700 ₪", Price: Shekels(1244)},
			{Value: "over80700", Label: "מעל 80,700 ₪", Price: Shekels(2667)},
		},
	},
	{
		Type:  Cancellation,
		Label: "רישום ביטול ייפוי כוח",
		SubTypes: []SubType{
			{Value: "registration", Label: "רישום ביטול", Price: Shekels(204)},
			{Value: "certifiedCopy", Label: "העתק מאושר", Price: Shekels(72)},
		},
		CopyRate: Shekels(72),
	},
	{
		Type:        Prenup,
		Label:       "אימות הסכם ממון",
		SubTypes:    []SubType{{Value: "first", Label: "הסכם ממון - מסמך ראשון", Price: Shekels(435)}},
		CopyRate:    Shekels(72),
		Translation: true,
	},
	{
		Type:     Other,
		Label:    "פעולה אחרת",
		SubTypes: []SubType{{Value: "other", Label: "פעולה אחרת", Price: Shekels(315)}},
	},
	{
		Type:  OutsideOffice,
		Label: "פעולה מחוץ למשרד",
		SubTypes: []SubType{
			{Value: "firstHour", Label: "שעה ראשונה", Price: Shekels(630)},
			{Value: "halfHour", Label: "כל חצי שעה", Price: Shekels(193)},
		},
	},
	{
		Type:     ForeignLanguage,
		Label:    "שפה זרה",
		SubTypes: []SubType{{Value: "foreignLanguage", Label: "שפה זרה", Price: Shekels(102)}},
	},
}

var byType = func() map[ServiceType]Service {
	m := make(map[ServiceType]Service, len(schedule))
	for _, s := range schedule {
		m[s.Type] = s
	}
	return m
}()

// Schedule returns a copy of the full fee table in display order.
func Schedule() []Service {
	out := make([]Service, len(schedule))
	for i, s := range schedule {
		s.SubTypes = append([]SubType(nil), s.SubTypes...)
		out[i] = s
	}
	return out
}

// Lookup returns the schedule row for a service type.
func Lookup(t ServiceType) (Service, bool) {
	s, ok := byType[t]
	return s, ok
}

// SubType finds a variant by value; an empty value selects the first variant.
func (s Service) SubType(value string) (SubType, bool) {
	if value == "" && len(s.SubTypes) > 0 {
		return s.SubTypes[0], true
	}
	for _, st := range s.SubTypes {
		if st.Value == value {
			return st, true
		}
	}
	return SubType{}, false
}
